package raster

import (
	"fmt"
	"math"
	"strings"
)

// Frame is a rasterized image, one string per text line.
type Frame struct {
	Lines []string
}

// String joins the lines with a single newline, without a trailing one.
func (f Frame) String() string { return strings.Join(f.Lines, "\n") }

func (f Frame) Empty() bool { return len(f.Lines) == 0 }

type cellSpan struct{ lo, hi int }

// Rasterize maps m onto a character grid described by cfg.
// It never retains m and has no side effects.
func Rasterize(m Matrix, cfg Config) (Frame, error) {
	g, err := prepare(m, cfg)
	if err != nil || g.Empty() {
		return Frame{}, err
	}
	cols := spans(g.Cols, g.CellWidth, m.Width(), cfg.Spans)
	rows := spans(g.Rows, g.CellHeight, m.Height(), cfg.Spans)
	if len(rows) == 0 {
		return Frame{}, nil
	}
	sums := make([]uint64, m.Width())
	var b strings.Builder
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, rasterRow(m, cfg, r, cols, sums, &b))
	}
	return Frame{Lines: lines}, nil
}

// Render is Rasterize followed by Frame.String.
func Render(m Matrix, cfg Config) (string, error) {
	f, err := Rasterize(m, cfg)
	if err != nil {
		return "", err
	}
	return f.String(), nil
}

// Quantize maps an average brightness in [0, 255] to an index of a ramp of n
// glyphs. The mapping is linear and non-decreasing in avg.
func Quantize(avg float64, n int) int {
	idx := int(math.Floor((avg / 255) * float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

func prepare(m Matrix, cfg Config) (Geometry, error) {
	if m == nil {
		return Geometry{}, fmt.Errorf("%w: nil matrix", ErrInvalidMatrix)
	}
	if err := cfg.Validate(); err != nil {
		return Geometry{}, err
	}
	return ComputeGeometry(m.Width(), m.Height(), cfg)
}

// rasterRow renders the cell row covering samples [row.lo, row.hi).
// sums is scratch space of the matrix width.
func rasterRow(
	m Matrix, cfg Config, row cellSpan,
	cols []cellSpan, sums []uint64, b *strings.Builder) string {

	y1, y2 := row.lo, row.hi
	for x := range sums {
		sums[x] = 0
	}
	for y := y1; y < y2; y++ {
		for x, v := range m.Row(y) {
			sums[x] += uint64(v)
		}
	}

	n := cfg.Ramp.Len()
	b.Reset()
	b.Grow(len(cols))
	for _, c := range cols {
		var s uint64
		for x := c.lo; x < c.hi; x++ {
			s += sums[x]
		}
		var avg float64
		if area := (c.hi - c.lo) * (y2 - y1); area > 0 {
			avg = float64(s) / float64(area)
		}
		b.WriteRune(cfg.Ramp.glyphs[Quantize(avg, n)])
	}
	return b.String()
}
