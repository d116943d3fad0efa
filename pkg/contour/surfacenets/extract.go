// Package surfacenets extracts the zero level set of a 2D scalar grid with
// the surface nets method: one vertex per crossing cell, linked to the
// vertices of neighbouring cells that share a crossing edge.
package surfacenets

import (
	"fmt"

	"github.com/chazu/isoline/pkg/contour"
	"github.com/chewxy/math32"
)

// NormalEpsilon is the gradient magnitude below which a vertex normal is
// reported as the zero vector.
const NormalEpsilon = 1e-6

// Compile-time interface checks.
var (
	_ contour.Extractor = Sequential{}
	_ contour.Extractor = Parallel{}
)

// Sequential is the single-threaded extractor.
type Sequential struct{}

// Extract implements contour.Extractor.
func (Sequential) Extract(data []float32, width, height int) (*contour.Contour, error) {
	return Extract(data, width, height)
}

// cellVertex is the vertex placed in one crossing cell.
type cellVertex struct {
	x, y    int
	px, py  float32
	nx, ny  float32
	edges   uint8
	clamped int // crossings whose interpolation parameter had to be guarded
}

// Extract walks the cells of a width x height row-major grid in row-major
// order and returns the contour of its zero level set. Vertices appear in
// discovery order; segments link each vertex to its recorded upper and left
// neighbours.
func Extract(data []float32, width, height int) (*contour.Contour, error) {
	if err := contour.Validate(data, width, height); err != nil {
		return nil, fmt.Errorf("surfacenets: %w", err)
	}

	b := newBuilder(width, height)
	for y := 0; y < height-1; y++ {
		for x := 0; x < width-1; x++ {
			if v, ok := placeCell(data, width, x, y); ok {
				b.add(v)
			}
		}
	}
	return b.finish(), nil
}

// placeCell computes the vertex of the cell whose top-left corner is (x, y).
// ok is false when no edge of the cell crosses zero.
func placeCell(data []float32, width, x, y int) (v cellVertex, ok bool) {
	var d [4]float32
	for i := range d {
		u, w := i&1, i>>1
		d[i] = data[x+u+(y+w)*width]
	}

	edges := EdgeMask(CornerMask(d))
	if edges == 0 {
		return v, false
	}

	var sumU, sumV float32
	var n int
	for j, ec := range edgeCorners {
		if edges&(1<<j) == 0 {
			continue
		}
		n++
		d0, d1 := d[ec[0]], d[ec[1]]
		t := (0 - d0) / (d1 - d0)
		if t2, guarded := clampT(t); guarded {
			v.clamped++
			t = t2
		}
		u0, v0 := float32(ec[0]&1), float32(ec[0]>>1)
		u1, v1 := float32(ec[1]&1), float32(ec[1]>>1)
		sumU += lerp(u0, u1, t)
		sumV += lerp(v0, v1, t)
	}

	// The extra half cell matches the placement of the reference output;
	// see DESIGN.md before changing it.
	v.x, v.y = x, y
	v.px = float32(x) + 0.5 + sumU/float32(n)
	v.py = float32(y) + 0.5 + sumV/float32(n)
	v.nx, v.ny = normal(d)
	v.edges = edges
	return v, true
}

// clampT keeps an interpolation parameter inside [0,1]. A NaN parameter
// (0/0 or Inf/Inf from degenerate samples) becomes the edge midpoint.
func clampT(t float32) (float32, bool) {
	switch {
	case math32.IsNaN(t):
		return 0.5, true
	case t < 0:
		return 0, true
	case t > 1:
		return 1, true
	}
	return t, false
}

// normal is the normalised finite-difference gradient of the four corners,
// or the zero vector when the gradient vanishes or is not finite.
func normal(d [4]float32) (float32, float32) {
	gx := d[1] - d[0] + d[3] - d[2]
	gy := d[2] - d[0] + d[3] - d[1]
	mag := math32.Hypot(gx, gy)
	if math32.IsNaN(mag) || math32.IsInf(mag, 0) || mag < NormalEpsilon {
		return 0, 0
	}
	return gx / mag, gy / mag
}

func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// builder accumulates vertices in discovery order and links each one to its
// neighbours above and to the left.
type builder struct {
	width   int
	cells   []int32 // cell index -> vertex index, -1 when the cell has none
	out     *contour.Contour
	clamped int
}

func newBuilder(width, height int) *builder {
	cells := make([]int32, width*height)
	for i := range cells {
		cells[i] = -1
	}
	return &builder{
		width: width,
		cells: cells,
		out:   &contour.Contour{},
	}
}

func (b *builder) add(v cellVertex) {
	idx := int32(len(b.out.Vertices) / 2)
	cell := v.x + v.y*b.width
	b.cells[cell] = idx

	b.out.Vertices = append(b.out.Vertices, v.px, v.py)
	b.out.Normals = append(b.out.Normals, v.nx, v.ny)
	b.clamped += v.clamped

	if v.edges&edgeTop != 0 && v.y > 0 {
		if up := b.cells[cell-b.width]; up >= 0 {
			b.out.Indices = append(b.out.Indices, uint32(idx), uint32(up))
		}
	}
	if v.edges&edgeLeft != 0 && v.x > 0 {
		if left := b.cells[cell-1]; left >= 0 {
			b.out.Indices = append(b.out.Indices, uint32(idx), uint32(left))
		}
	}
}

func (b *builder) finish() *contour.Contour {
	log := contour.Logger()
	if b.clamped > 0 {
		log.Warn("surfacenets: clamped degenerate edge interpolation", "crossings", b.clamped)
	}
	log.Debug("surfacenets: extracted contour",
		"vertices", b.out.VertexCount(),
		"segments", b.out.SegmentCount())
	return b.out
}
