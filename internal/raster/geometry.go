package raster

import (
	"fmt"
	"math"
	"sort"
)

const (
	// maxRows bounds the derived row count; only a vanishing scale gets near it.
	maxRows = math.MaxInt32
	// maxClampCells bounds Cols*Rows in ClampSpans mode, where every cell
	// becomes a glyph regardless of the input size.
	maxClampCells = 1 << 25
)

// Geometry is the cell grid derived from an input size and a Config.
type Geometry struct {
	CellWidth  float64
	CellHeight float64
	Cols       int
	Rows       int
}

// Empty reports whether the geometry yields no glyphs.
func (g Geometry) Empty() bool { return g.Cols <= 0 || g.Rows <= 0 }

// ComputeGeometry derives the cell grid for a w x h input. The config must be
// valid. Degenerate inputs give an Empty geometry, not an error.
func ComputeGeometry(w, h int, cfg Config) (Geometry, error) {
	if w < 0 || h < 0 {
		return Geometry{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidMatrix, w, h)
	}
	if cfg.Columns <= 0 || w == 0 || h == 0 {
		return Geometry{Cols: cfg.Columns}, nil
	}
	cw := float64(w) / float64(cfg.Columns)
	ch := cw * cfg.Scale
	rows := math.Floor(float64(h) / ch)
	if rows > maxRows {
		return Geometry{}, fmt.Errorf(
			"%w: scale %v yields %.0f rows for %dx%d", ErrInvalidConfig, cfg.Scale, rows, w, h)
	}
	if cfg.Spans == ClampSpans && float64(cfg.Columns)*rows > maxClampCells {
		return Geometry{}, fmt.Errorf(
			"%w: %dx%.0f cells exceed the clamp limit of %d",
			ErrInvalidConfig, cfg.Columns, rows, maxClampCells)
	}
	return Geometry{CellWidth: cw, CellHeight: ch, Cols: cfg.Columns, Rows: int(rows)}, nil
}

// spans lists the sample ranges of cells [0, n) along an axis of length
// limit, in cell order, leaving out skipped cells. In SkipEmpty mode the cost
// is bounded by limit rather than n: runs of empty cells are jumped over by
// binary search, since floor((j+1)*cell) never decreases with j.
func spans(n int, cell float64, limit int, mode SpanMode) []cellSpan {
	if mode == ClampSpans {
		out := make([]cellSpan, 0, n)
		for j := 0; j < n; j++ {
			if lo, hi, ok := span(j, cell, limit, mode); ok {
				out = append(out, cellSpan{lo, hi})
			}
		}
		return out
	}

	out := make([]cellSpan, 0, min(n, limit))
	for j := 0; j < n; {
		lo, hi, ok := span(j, cell, limit, mode)
		if lo >= limit {
			break
		}
		if ok {
			out = append(out, cellSpan{lo, hi})
			j++
			continue
		}
		// first later cell whose upper edge passes lo
		next := j + 1
		next += sort.Search(n-next, func(k int) bool {
			return math.Floor(float64(next+k+1)*cell) > float64(lo)
		})
		j = next
	}
	return out
}

// span returns the half-open sample range [lo, hi) of cell i along an axis of
// length limit. ok is false when the cell must be skipped.
func span(i int, cell float64, limit int, mode SpanMode) (lo, hi int, ok bool) {
	lo = int(math.Floor(float64(i) * cell))
	hi = int(math.Floor(float64(i+1) * cell))
	if hi > limit {
		hi = limit
	}
	if lo < hi {
		return lo, hi, true
	}
	if mode != ClampSpans || limit == 0 {
		return lo, hi, false
	}
	if lo >= limit {
		lo = limit - 1
	}
	return lo, lo + 1, true
}
