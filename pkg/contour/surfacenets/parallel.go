package surfacenets

import (
	"fmt"
	"runtime"

	"github.com/chazu/isoline/pkg/contour"
	"golang.org/x/sync/errgroup"
)

// Parallel is a two-pass extractor. The first pass classifies cells and
// places vertices in bands of rows on a bounded worker pool; the second pass
// numbers the vertices and links neighbours in row-major order. Its output
// is identical to Extract.
type Parallel struct {
	// Workers bounds the number of concurrent bands. Zero or negative uses
	// GOMAXPROCS.
	Workers int
}

// Extract implements contour.Extractor.
func (p Parallel) Extract(data []float32, width, height int) (*contour.Contour, error) {
	if err := contour.Validate(data, width, height); err != nil {
		return nil, fmt.Errorf("surfacenets: %w", err)
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := height - 1
	placed := make([][]cellVertex, rows)
	band := (rows + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		g.Go(func() error {
			for y := start; y < end; y++ {
				var row []cellVertex
				for x := 0; x < width-1; x++ {
					if v, ok := placeCell(data, width, x, y); ok {
						row = append(row, v)
					}
				}
				placed[y] = row
			}
			return nil
		})
	}
	// Bands never fail: placement is total over a grid that passed Validate,
	// so the group only bounds concurrency and waits.
	_ = g.Wait()

	b := newBuilder(width, height)
	for _, row := range placed {
		for _, v := range row {
			b.add(v)
		}
	}
	contour.Logger().Debug("surfacenets: parallel placement", "workers", workers, "band", band)
	return b.finish(), nil
}
