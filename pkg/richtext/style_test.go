package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRegistry hands out sequential ids and counts registrations.
type countingRegistry struct {
	calls int
}

func (r *countingRegistry) RegisterStyle(Style) (StyleID, error) {
	r.calls++
	return StyleID(r.calls), nil
}

func TestStyleInternerIdempotent(t *testing.T) {
	reg := &countingRegistry{}
	in := newStyleInterner(reg)

	style := Style{
		Name:      "Heading",
		Font:      Font{Face: FaceSwiss, Attrib: FontBold, PointSize: 14},
		Alignment: AlignCenter,
	}
	// A structurally equal but distinct value must collapse to the same id.
	same := style

	first, err := in.getOrRegister(style)
	require.NoError(t, err)
	second, err := in.getOrRegister(same)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reg.calls, "registration must happen exactly once")
}

func TestStyleInternerDistinguishesStyles(t *testing.T) {
	reg := &countingRegistry{}
	in := newStyleInterner(reg)

	a := Style{Name: "Body", Font: DefaultFont}
	b := a
	b.Font.Attrib = FontItalic

	idA, err := in.getOrRegister(a)
	require.NoError(t, err)
	idB, err := in.getOrRegister(b)
	require.NoError(t, err)

	assert.NotEqual(t, idA, idB)
	assert.Equal(t, 2, reg.calls)
}

func TestStyleFingerprintFieldBoundaries(t *testing.T) {
	// The name is delimited before the packed fields, so a name ending in
	// bytes that look like field values cannot collide with a shorter name.
	a := Style{Name: "ab"}
	b := Style{Name: "a", Font: Font{Face: 'b'}}
	assert.NotEqual(t, a.fingerprint(), b.fingerprint())
}

func TestFontPackRoundTrip(t *testing.T) {
	f := Font{Face: FaceTypewriter, Attrib: FontBold | FontUnderline, Color: 3, PointSize: 12}
	assert.Equal(t, f, UnpackFont(f.Pack()))

	// Layout is fixed: face low byte through point size high byte.
	packed := Font{Face: 1, Attrib: 2, Color: 3, PointSize: 4}.Pack()
	assert.Equal(t, uint32(0x04030201), packed)
}
