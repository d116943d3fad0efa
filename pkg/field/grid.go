// Package field holds the scalar grid that scenes are sampled into.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/isoline/pkg/scene"
	"github.com/chewxy/math32"
)

var (
	// ErrSizeMismatch is returned when a buffer does not hold width*height samples.
	ErrSizeMismatch = errors.New("field: buffer size does not match dimensions")
	// ErrBadDimensions is returned for non-positive width or height.
	ErrBadDimensions = errors.New("field: width and height must be positive")
)

// Grid is a fixed-size row-major grid of float32 samples, one per cell,
// addressed as x + Width*y.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Data   []float32 `json:"data"`
}

// New returns a width x height grid with every cell set to +Inf, meaning
// no surface contribution yet.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 || overflows(width, height) {
		return nil, fmt.Errorf("new %dx%d: %w", width, height, ErrBadDimensions)
	}
	g := &Grid{Width: width, Height: height, Data: make([]float32, width*height)}
	g.Reset()
	return g, nil
}

// FromBuffer adopts data as the backing buffer of a width x height grid.
// The grid aliases data; it is not copied.
func FromBuffer(width, height int, data []float32) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("from buffer %dx%d: %w", width, height, ErrBadDimensions)
	}
	if overflows(width, height) || len(data) != width*height {
		return nil, fmt.Errorf("from buffer %dx%d with %d samples: %w", width, height, len(data), ErrSizeMismatch)
	}
	return &Grid{Width: width, Height: height, Data: data}, nil
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return g.Width * g.Height
}

// Index returns the flat index of cell (x, y).
func (g *Grid) Index(x, y int) int {
	return x + g.Width*y
}

// At returns the sample of cell (x, y). It panics if (x, y) is out of range.
func (g *Grid) At(x, y int) float32 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		panic(fmt.Sprintf("field: cell (%d,%d) outside %dx%d grid", x, y, g.Width, g.Height))
	}
	return g.Data[g.Index(x, y)]
}

// Reset sets every cell back to +Inf.
func (g *Grid) Reset() {
	inf := math32.Inf(1)
	for i := range g.Data {
		g.Data[i] = inf
	}
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	data := make([]float32, len(g.Data))
	copy(data, g.Data)
	return &Grid{Width: g.Width, Height: g.Height, Data: data}
}

// Check verifies that the backing buffer still matches the dimensions.
func (g *Grid) Check() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("grid %dx%d: %w", g.Width, g.Height, ErrBadDimensions)
	}
	if overflows(g.Width, g.Height) || len(g.Data) != g.Width*g.Height {
		return fmt.Errorf("grid %dx%d with %d samples: %w", g.Width, g.Height, len(g.Data), ErrSizeMismatch)
	}
	return nil
}

// overflows reports whether width*height does not fit in an int. Both
// arguments must be positive.
func overflows(width, height int) bool {
	return width > math.MaxInt/height
}

// UnionInto samples s at every cell center (x+0.5, y+0.5) and keeps the
// minimum of the existing value and the sample.
func (g *Grid) UnionInto(s scene.Shape) error {
	if s == nil {
		return fmt.Errorf("union into: %w", scene.ErrEmptyScene)
	}
	if err := g.Check(); err != nil {
		return fmt.Errorf("union into: %w", err)
	}
	for y := 0; y < g.Height; y++ {
		row := g.Data[y*g.Width : (y+1)*g.Width]
		for x := range row {
			d := float32(s.Distance(float64(x)+0.5, float64(y)+0.5))
			row[x] = math32.Min(row[x], d)
		}
	}
	return nil
}
