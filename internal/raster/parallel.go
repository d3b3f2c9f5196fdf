package raster

import (
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RasterizeParallel is Rasterize with cell rows split into contiguous bands
// rendered concurrently. workers < 1 means GOMAXPROCS. The output is
// identical to Rasterize. m must be safe for concurrent reads.
func RasterizeParallel(m Matrix, cfg Config, workers int) (Frame, error) {
	g, err := prepare(m, cfg)
	if err != nil || g.Empty() {
		return Frame{}, err
	}
	rows := spans(g.Rows, g.CellHeight, m.Height(), cfg.Spans)
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers <= 1 {
		return Rasterize(m, cfg)
	}

	cols := spans(g.Cols, g.CellWidth, m.Width(), cfg.Spans)
	lines := make([]string, len(rows))
	band := (len(rows) + workers - 1) / workers

	var eg errgroup.Group
	for start := 0; start < len(rows); start += band {
		start, end := start, min(start+band, len(rows))
		eg.Go(func() error {
			sums := make([]uint64, m.Width())
			var b strings.Builder
			for i := start; i < end; i++ {
				lines[i] = rasterRow(m, cfg, rows[i], cols, sums, &b)
			}
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return Frame{}, err
	}
	return Frame{Lines: lines}, nil
}
