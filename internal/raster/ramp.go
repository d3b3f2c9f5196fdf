package raster

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Builtin ramps, ten glyphs each.
const (
	DarkToLightGlyphs = "@%#*+=-:. "
	LightToDarkGlyphs = " .:-=+*#%@"
)

// Ramp is an ordered glyph sequence; index 0 is used for brightness 0.
// The zero Ramp is empty and rejected by Config.Validate.
type Ramp struct {
	glyphs []rune
}

var (
	DarkToLight = Ramp{glyphs: []rune(DarkToLightGlyphs)}
	LightToDark = Ramp{glyphs: []rune(LightToDarkGlyphs)}
)

// ParseRamp builds a ramp from s after NFC normalization, so the glyphs of
// the result may differ from the runes of s: a base letter followed by a
// combining mark becomes its precomposed form. Every glyph must be a
// printable single-column character; a combining mark left over after
// normalization is rejected.
func ParseRamp(s string) (Ramp, error) {
	glyphs := []rune(norm.NFC.String(s))
	if len(glyphs) == 0 {
		return Ramp{}, fmt.Errorf("%w: empty ramp", ErrInvalidConfig)
	}
	for i, r := range glyphs {
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return Ramp{}, fmt.Errorf(
				"%w: ramp glyph %d (%U) is not printable", ErrInvalidConfig, i, r)
		}
		if unicode.Is(unicode.Mark, r) {
			return Ramp{}, fmt.Errorf(
				"%w: ramp glyph %d (%U) is a combining mark", ErrInvalidConfig, i, r)
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			return Ramp{}, fmt.Errorf(
				"%w: ramp glyph %d (%q) is double width", ErrInvalidConfig, i, r)
		}
	}
	return Ramp{glyphs: glyphs}, nil
}

// MustParseRamp is like ParseRamp but panics on error.
func MustParseRamp(s string) Ramp {
	r, err := ParseRamp(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Ramp) Len() int { return len(r.glyphs) }

// Glyph returns the glyph at index i.
func (r Ramp) Glyph(i int) rune { return r.glyphs[i] }

// Reverse returns the ramp in opposite order.
func (r Ramp) Reverse() Ramp {
	n := len(r.glyphs)
	g := make([]rune, n)
	for i, c := range r.glyphs {
		g[n-1-i] = c
	}
	return Ramp{glyphs: g}
}

func (r Ramp) String() string { return string(r.glyphs) }

// RampKind tags a RampChoice.
type RampKind int

const (
	RampDarkToLight RampKind = iota
	RampLightToDark
	RampCustom
)

func (k RampKind) String() string {
	switch k {
	case RampDarkToLight:
		return "dark-to-light"
	case RampLightToDark:
		return "light-to-dark"
	case RampCustom:
		return "custom"
	default:
		return fmt.Sprintf("RampKind(%d)", int(k))
	}
}

// RampChoice selects one of the builtin ramps or a custom glyph sequence.
type RampChoice struct {
	Kind   RampKind
	Glyphs string // only for RampCustom
}

func Builtin(invert bool) RampChoice {
	if invert {
		return RampChoice{Kind: RampLightToDark}
	}
	return RampChoice{Kind: RampDarkToLight}
}

func Custom(glyphs string) RampChoice {
	return RampChoice{Kind: RampCustom, Glyphs: glyphs}
}

// SelectRamp picks a custom ramp when one is given, otherwise the builtin
// ramp for the invert flag.
func SelectRamp(invert bool, custom string) RampChoice {
	if custom != "" {
		return Custom(custom)
	}
	return Builtin(invert)
}

// Resolve returns the ramp the choice refers to.
func (c RampChoice) Resolve() (Ramp, error) {
	switch c.Kind {
	case RampDarkToLight:
		return DarkToLight, nil
	case RampLightToDark:
		return LightToDark, nil
	case RampCustom:
		return ParseRamp(c.Glyphs)
	default:
		return Ramp{}, fmt.Errorf("%w: unknown ramp kind %v", ErrInvalidConfig, c.Kind)
	}
}
