package raster

import (
	"fmt"
	"math"
)

// SpanMode decides what happens to a cell whose pixel span rounds to zero.
type SpanMode int

const (
	// SkipEmpty drops the row or column, which can leave a ragged frame.
	SkipEmpty SpanMode = iota
	// ClampSpans widens such spans to one sample so every row has Columns glyphs.
	ClampSpans
)

func (m SpanMode) String() string {
	switch m {
	case SkipEmpty:
		return "skip"
	case ClampSpans:
		return "clamp"
	default:
		return fmt.Sprintf("SpanMode(%d)", int(m))
	}
}

// ParseSpanMode accepts "skip" (or "") and "clamp".
func ParseSpanMode(s string) (SpanMode, error) {
	switch s {
	case "", "skip":
		return SkipEmpty, nil
	case "clamp":
		return ClampSpans, nil
	default:
		return 0, fmt.Errorf("%w: unknown span mode %q", ErrInvalidConfig, s)
	}
}

// Config fully determines the frame shape for a given input size.
type Config struct {
	// Columns is the target frame width in glyphs. Zero yields empty frames.
	Columns int
	// Scale converts cell width to cell height to compensate for tall glyphs.
	Scale float64
	Ramp  Ramp
	Spans SpanMode
}

// NewConfig validates and returns a config using the ramp chosen by rc.
func NewConfig(columns int, scale float64, rc RampChoice) (Config, error) {
	r, err := rc.Resolve()
	if err != nil {
		return Config{}, err
	}
	c := Config{Columns: columns, Scale: scale, Ramp: r}
	if err = c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Columns < 0 {
		return fmt.Errorf("%w: columns %d < 0", ErrInvalidConfig, c.Columns)
	}
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) {
		return fmt.Errorf("%w: scale %v must be positive and finite", ErrInvalidConfig, c.Scale)
	}
	if c.Ramp.Len() == 0 {
		return fmt.Errorf("%w: empty ramp", ErrInvalidConfig)
	}
	if c.Spans != SkipEmpty && c.Spans != ClampSpans {
		return fmt.Errorf("%w: unknown span mode %v", ErrInvalidConfig, c.Spans)
	}
	return nil
}
