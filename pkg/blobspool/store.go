// Package blobspool is a pebble-backed store for captured binary
// buffers: record streams submitted through the inspection API and
// lookup-result buffers kept for later decoding. Buffers are grouped by
// kind and keyed by ksuid, so listing a kind returns captures in rough
// creation order (ksuids sort by their second-resolution timestamp).
package blobspool

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned when a capture id does not exist.
var ErrNotFound = errors.New("blobspool: capture not found")

// Store holds captured buffers.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("blobspool: opening %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func key(kind string, id ksuid.KSUID) []byte {
	k := make([]byte, 0, len(kind)+1+len(id))
	k = append(k, kind...)
	k = append(k, 0)
	k = append(k, id.Bytes()...)
	return k
}

// Put stores data under a fresh id within kind.
func (s *Store) Put(kind string, data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(key(kind, id), data, pebble.Sync); err != nil {
		return ksuid.KSUID{}, fmt.Errorf("blobspool: storing %s capture: %w", kind, err)
	}
	return id, nil
}

// Get returns the capture stored under kind and id.
func (s *Store) Get(kind string, id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(key(kind, id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, id)
		}
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes a capture. Deleting an absent capture is not an error.
func (s *Store) Delete(kind string, id ksuid.KSUID) error {
	return s.db.Delete(key(kind, id), pebble.Sync)
}

// List returns the ids stored under kind, oldest first.
func (s *Store) List(kind string) ([]ksuid.KSUID, error) {
	prefix := append([]byte(kind), 0)
	upper := append([]byte(kind), 1)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upper,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		raw := iter.Key()[len(prefix):]
		id, err := ksuid.FromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("blobspool: corrupt key under %s: %w", kind, err)
		}
		ids = append(ids, id)
	}
	return ids, iter.Error()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
