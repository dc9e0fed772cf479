package blobspool

import (
	"errors"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	data := []byte{0x81, 0x07, 1, 2, 3, 4, 5}
	id, err := s.Put("stream", data)
	require.NoError(t, err)

	got, err := s.Get("stream", id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestGetUnknownID(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("stream", ksuid.New())
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestKindsAreIsolated(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Put("view", []byte("view buffer"))
	require.NoError(t, err)

	_, err = s.Get("stream", id)
	assert.ErrorIs(t, err, ErrNotFound)

	streams, err := s.List("stream")
	require.NoError(t, err)
	assert.Empty(t, streams)

	views, err := s.List("view")
	require.NoError(t, err)
	assert.Equal(t, []ksuid.KSUID{id}, views)
}

func TestListReturnsAllCaptures(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Put("stream", []byte("a"))
	require.NoError(t, err)
	second, err := s.Put("stream", []byte("b"))
	require.NoError(t, err)

	ids, err := s.List("stream")
	require.NoError(t, err)
	assert.ElementsMatch(t, []ksuid.KSUID{first, second}, ids)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Put("stream", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, s.Delete("stream", id))

	_, err = s.Get("stream", id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Idempotent.
	assert.NoError(t, s.Delete("stream", id))
}
