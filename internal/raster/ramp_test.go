package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRamps(t *testing.T) {
	assert.Equal(t, 10, DarkToLight.Len())
	assert.Equal(t, 10, LightToDark.Len())
	assert.Equal(t, LightToDarkGlyphs, DarkToLight.Reverse().String())
	assert.Equal(t, '@', DarkToLight.Glyph(0))
	assert.Equal(t, ' ', LightToDark.Glyph(0))
}

func TestSelectRamp(t *testing.T) {
	tests := []struct {
		name   string
		invert bool
		custom string
		want   string
	}{
		{"default", false, "", DarkToLightGlyphs},
		{"inverted", true, "", LightToDarkGlyphs},
		{"custom wins", true, "$@B%8&WM#*oahkbd", "$@B%8&WM#*oahkbd"},
		{"custom with backslash", false, `/\|()1{}`, `/\|()1{}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := SelectRamp(tc.invert, tc.custom).Resolve()
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.String())
		})
	}
}

func TestParseRamp(t *testing.T) {
	r, err := ParseRamp(" .░▒▓█")
	require.NoError(t, err)
	assert.Equal(t, 6, r.Len())

	// decomposed e + combining acute normalizes to one glyph
	r, err = ParseRamp("e\u0301x")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, '\u00e9', r.Glyph(0))

	// the caller's text is not kept verbatim
	assert.Equal(t, "\u00e9x", r.String())

	for _, bad := range []string{
		"", "ab\ncd", "a\tb", "漢字", "ＡＢ",
		"\u0301", ".\u20dd", "ab\u0301\u0302", "x\u0488",
	} {
		_, err := ParseRamp(bad)
		assert.ErrorIs(t, err, ErrInvalidConfig, "ramp %q", bad)
	}
}

func TestRampChoiceUnknownKind(t *testing.T) {
	_, err := RampChoice{Kind: RampKind(42)}.Resolve()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "RampKind(42)", RampKind(42).String())
}

func TestNewConfig(t *testing.T) {
	c, err := NewConfig(150, 0.5, Builtin(true))
	require.NoError(t, err)
	assert.Equal(t, LightToDarkGlyphs, c.Ramp.String())
	assert.Equal(t, SkipEmpty, c.Spans)

	_, err = NewConfig(150, 0.5, Custom(""))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewConfig(-3, 0.5, Builtin(false))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseSpanMode(t *testing.T) {
	m, err := ParseSpanMode("clamp")
	require.NoError(t, err)
	assert.Equal(t, ClampSpans, m)
	m, err = ParseSpanMode("")
	require.NoError(t, err)
	assert.Equal(t, SkipEmpty, m)
	_, err = ParseSpanMode("round")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
