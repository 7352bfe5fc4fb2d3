package render

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps bands large enough that goroutine overhead stays negligible.
const minBandRows = 16

// forEachBand splits [0, rows) into contiguous bands and runs fn on each with at
// most workers goroutines. The first error cancels the remaining bands.
func forEachBand(ctx context.Context, rows, workers int, fn func(ctx context.Context, y0, y1 int) error) error {
	if rows <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	band := (rows + workers - 1) / workers
	if band < minBandRows {
		band = minBandRows
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < rows; y0 += band {
		y1 := min(y0+band, rows)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, y0, y1)
		})
	}
	return g.Wait()
}
