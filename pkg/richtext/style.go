package richtext

import (
	"github.com/parkerhayes/cdwire/pkg/cdrec"
	"github.com/zeebo/xxh3"
)

// Alignment is a paragraph alignment mode.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
	AlignFull
)

// Style is a paragraph style. Styles are compared structurally, never by
// identity: two distinct Style values with equal fields are one style.
type Style struct {
	Name         string
	Font         Font
	Alignment    Alignment
	SpacingAbove uint8
	SpacingBelow uint8
}

// fingerprint hashes the full attribute set into the interner's key.
func (s Style) fingerprint() uint64 {
	w := cdrec.NewWriter(len(s.Name) + 8)
	w.Raw([]byte(s.Name))
	w.Uint8(0) // keeps "ab"+cd distinct from "a"+bcd style names
	w.Uint32(s.Font.Pack())
	w.Uint8(uint8(s.Alignment))
	w.Uint8(s.SpacingAbove)
	w.Uint8(s.SpacingBelow)
	return xxh3.Hash(w.Bytes())
}

// StyleID is the identifier the registration collaborator assigns to a
// style.
type StyleID uint16

// StyleSameAsPrevious tells the renderer to keep the preceding run's
// style; emitted when a text run carries no explicit style.
const StyleSameAsPrevious StyleID = 0xFFFF

// StyleRegistry registers a style with the engine and returns its id.
// The Writer guarantees it is called at most once per distinct style per
// session.
type StyleRegistry interface {
	RegisterStyle(Style) (StyleID, error)
}

// styleInterner collapses structurally equal styles to one registered id
// for the lifetime of a writer session.
type styleInterner struct {
	registry StyleRegistry
	ids      map[uint64]StyleID
}

func newStyleInterner(registry StyleRegistry) *styleInterner {
	return &styleInterner{
		registry: registry,
		ids:      make(map[uint64]StyleID),
	}
}

// getOrRegister returns the session id for s, registering it on first
// sight. A cache hit has no side effects.
func (in *styleInterner) getOrRegister(s Style) (StyleID, error) {
	fp := s.fingerprint()
	if id, ok := in.ids[fp]; ok {
		return id, nil
	}
	id, err := in.registry.RegisterStyle(s)
	if err != nil {
		return 0, err
	}
	in.ids[fp] = id
	return id, nil
}
