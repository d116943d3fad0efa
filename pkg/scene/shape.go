package scene

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyScene is returned when a union is built without any shapes, or when
// a nil shape is handed to an operation that needs one.
var ErrEmptyScene = errors.New("scene: empty scene")

// Kind enumerates the shape variants of a scene.
type Kind int

const (
	KindCircle       Kind = iota // euclidean disc
	KindBox                      // rounded rectangle
	KindSuperEllipse             // implicit super-ellipse (not a true distance)
	KindUnion                    // pointwise minimum of children
	KindTranslate                // offset child
	KindSDF2                     // wrapped deadsy/sdfx 2D SDF
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindBox:
		return "box"
	case KindSuperEllipse:
		return "super-ellipse"
	case KindUnion:
		return "union"
	case KindTranslate:
		return "translate"
	case KindSDF2:
		return "sdf2"
	default:
		return "unknown"
	}
}

// Vec2 is a 2D point or offset in grid units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Shape is a signed distance field over the plane.
type Shape interface {
	// Distance evaluates the field at (x, y).
	Distance(x, y float64) float64
	// Kind reports the variant.
	Kind() Kind
	shape() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Circle is a disc of the given radius.
type Circle struct {
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// NewCircle returns a circle centered at (cx, cy).
func NewCircle(cx, cy, r float64) Circle {
	return Circle{Center: Vec2{X: cx, Y: cy}, Radius: r}
}

func (c Circle) Distance(x, y float64) float64 {
	return math.Hypot(x-c.Center.X, y-c.Center.Y) - c.Radius
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) shape()     {}

// Box is an axis-aligned rectangle with optionally rounded corners.
// HalfSize is measured from the center to the edges; Round must not
// exceed the smaller half extent.
type Box struct {
	Center   Vec2    `json:"center"`
	HalfSize Vec2    `json:"half_size"`
	Round    float64 `json:"round,omitempty"`
}

func (b Box) Distance(x, y float64) float64 {
	dx := math.Abs(x-b.Center.X) - b.HalfSize.X + b.Round
	dy := math.Abs(y-b.Center.Y) - b.HalfSize.Y + b.Round
	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	inside := math.Min(math.Max(dx, dy), 0)
	return outside + inside - b.Round
}

func (Box) Kind() Kind { return KindBox }
func (Box) shape()     {}

// SuperEllipse is |dx/A|^N + |dy/B|^N - 1. It has the right sign everywhere
// but its magnitude is not a euclidean distance.
type SuperEllipse struct {
	Center Vec2    `json:"center"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	N      float64 `json:"n"`
}

func (e SuperEllipse) Distance(x, y float64) float64 {
	u := math.Abs(x-e.Center.X) / e.A
	v := math.Abs(y-e.Center.Y) / e.B
	return math.Pow(u, e.N) + math.Pow(v, e.N) - 1
}

func (SuperEllipse) Kind() Kind { return KindSuperEllipse }
func (SuperEllipse) shape()     {}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

// Union is the pointwise minimum of its children.
type Union struct {
	Children []Shape `json:"children"`
}

// Merge returns the union of shapes. At least one shape is required and
// none may be nil.
func Merge(shapes ...Shape) (Shape, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("merge: %w", ErrEmptyScene)
	}
	for i, s := range shapes {
		if s == nil {
			return nil, fmt.Errorf("merge: child %d is nil: %w", i, ErrEmptyScene)
		}
	}
	children := make([]Shape, len(shapes))
	copy(children, shapes)
	return Union{Children: children}, nil
}

// MustMerge is like Merge but panics on error.
func MustMerge(shapes ...Shape) Shape {
	s, err := Merge(shapes...)
	if err != nil {
		panic(err)
	}
	return s
}

// Distance returns +Inf for a union without children.
func (u Union) Distance(x, y float64) float64 {
	res := math.Inf(1)
	for _, c := range u.Children {
		if d := c.Distance(x, y); d < res {
			res = d
		}
	}
	return res
}

func (Union) Kind() Kind { return KindUnion }
func (Union) shape()     {}

// Translate moves Child by Offset.
type Translate struct {
	Offset Vec2  `json:"offset"`
	Child  Shape `json:"child"`
}

func (t Translate) Distance(x, y float64) float64 {
	return t.Child.Distance(x-t.Offset.X, y-t.Offset.Y)
}

func (Translate) Kind() Kind { return KindTranslate }
func (Translate) shape()     {}

// ---------------------------------------------------------------------------
// Traversal
// ---------------------------------------------------------------------------

// Children returns the direct children of s.
func Children(s Shape) []Shape {
	switch v := s.(type) {
	case Union:
		return v.Children
	case Translate:
		if v.Child == nil {
			return nil
		}
		return []Shape{v.Child}
	}
	return nil
}

// Walk visits s and its descendants depth-first. Returning false from fn
// skips the children of the visited shape.
func Walk(s Shape, fn func(Shape) bool) {
	if s == nil {
		return
	}
	if !fn(s) {
		return
	}
	for _, c := range Children(s) {
		Walk(c, fn)
	}
}
