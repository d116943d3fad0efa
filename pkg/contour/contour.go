// Package contour defines the extracted iso-contour geometry and the
// extractor interface. Extractors (surfacenets sequential and parallel)
// turn a sampled scalar grid into a Contour behind this interface.
package contour

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSizeMismatch is returned when the sample buffer does not hold width*height values.
	ErrSizeMismatch = errors.New("contour: buffer size does not match dimensions")
	// ErrGridTooSmall is returned when width or height is below 2, leaving no cells.
	ErrGridTooSmall = errors.New("contour: grid must be at least 2x2")
)

// Extractor turns a row-major grid of samples into the contour of its zero
// level set.
type Extractor interface {
	Extract(data []float32, width, height int) (*Contour, error)
}

// Validate checks the (data, width, height) contract shared by all extractors.
func Validate(data []float32, width, height int) error {
	if width < 2 || height < 2 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrGridTooSmall)
	}
	if width > math.MaxInt/height || len(data) != width*height {
		return fmt.Errorf("%dx%d with %d samples: %w", width, height, len(data), ErrSizeMismatch)
	}
	return nil
}

// Contour is a set of line segments approximating a zero level set.
// All arrays are flat: vertices has 2 floats per vertex (x,y), normals has
// 2 floats per vertex, indices has 2 uint32s per segment.
type Contour struct {
	Vertices []float32 `json:"vertices"` // [x0,y0, x1,y1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0, ...]
	Indices  []uint32  `json:"indices"`  // [a0,b0, a1,b1, ...] segments
}

// VertexCount returns the number of vertices.
func (c *Contour) VertexCount() int {
	return len(c.Vertices) / 2
}

// SegmentCount returns the number of segments.
func (c *Contour) SegmentCount() int {
	return len(c.Indices) / 2
}

// IsEmpty returns true if the contour has no geometry.
func (c *Contour) IsEmpty() bool {
	return len(c.Vertices) == 0
}

// Vertex returns the position of vertex i.
func (c *Contour) Vertex(i int) (x, y float32) {
	return c.Vertices[2*i], c.Vertices[2*i+1]
}

// Normal returns the normal of vertex i. A zero vector means the normal is
// undefined.
func (c *Contour) Normal(i int) (x, y float32) {
	return c.Normals[2*i], c.Normals[2*i+1]
}

// Segment returns the vertex indices of segment i.
func (c *Contour) Segment(i int) (a, b uint32) {
	return c.Indices[2*i], c.Indices[2*i+1]
}
