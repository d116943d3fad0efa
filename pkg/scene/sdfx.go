package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ErrUnsupported is returned when a shape has no sdfx counterpart.
var ErrUnsupported = errors.New("scene: shape not representable in sdfx")

// SDF2 wraps any deadsy/sdfx 2D signed distance function so it can take
// part in a scene.
type SDF2 struct {
	S sdf.SDF2 `json:"-"`
}

// FromSDF2 wraps s.
func FromSDF2(s sdf.SDF2) SDF2 {
	return SDF2{S: s}
}

func (w SDF2) Distance(x, y float64) float64 {
	return w.S.Evaluate(v2.Vec{X: x, Y: y})
}

func (SDF2) Kind() Kind { return KindSDF2 }
func (SDF2) shape()     {}

// ToSDF2 converts a scene into the equivalent sdfx shape tree.
func ToSDF2(s Shape) (sdf.SDF2, error) {
	switch v := s.(type) {
	case nil:
		return nil, ErrEmptyScene
	case Circle:
		c, err := sdf.Circle2D(v.Radius)
		if err != nil {
			return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
		}
		return translate2D(c, v.Center), nil
	case Box:
		b := sdf.Box2D(v2.Vec{X: 2 * v.HalfSize.X, Y: 2 * v.HalfSize.Y}, v.Round)
		return translate2D(b, v.Center), nil
	case Union:
		if len(v.Children) == 0 {
			return nil, fmt.Errorf("union: %w", ErrEmptyScene)
		}
		children := make([]sdf.SDF2, 0, len(v.Children))
		for i, c := range v.Children {
			cs, err := ToSDF2(c)
			if err != nil {
				return nil, fmt.Errorf("union child %d: %w", i, err)
			}
			children = append(children, cs)
		}
		if len(children) == 1 {
			return children[0], nil
		}
		return sdf.Union2D(children...), nil
	case Translate:
		child, err := ToSDF2(v.Child)
		if err != nil {
			return nil, fmt.Errorf("translate: %w", err)
		}
		return translate2D(child, v.Offset), nil
	case SDF2:
		if v.S == nil {
			return nil, ErrEmptyScene
		}
		return v.S, nil
	default:
		return nil, fmt.Errorf("%s: %w", s.Kind(), ErrUnsupported)
	}
}

// Bounds returns the axis-aligned bounding box of s. Primitives with an sdfx
// counterpart use the sdfx bounding box; super-ellipses are bounded by their
// semi-axes.
func Bounds(s Shape) (min, max [2]float64, err error) {
	switch v := s.(type) {
	case nil:
		return min, max, ErrEmptyScene
	case SuperEllipse:
		min = [2]float64{v.Center.X - v.A, v.Center.Y - v.B}
		max = [2]float64{v.Center.X + v.A, v.Center.Y + v.B}
		return min, max, nil
	case Translate:
		min, max, err = Bounds(v.Child)
		if err != nil {
			return min, max, err
		}
		min = [2]float64{min[0] + v.Offset.X, min[1] + v.Offset.Y}
		max = [2]float64{max[0] + v.Offset.X, max[1] + v.Offset.Y}
		return min, max, nil
	case Union:
		if len(v.Children) == 0 {
			return min, max, fmt.Errorf("union: %w", ErrEmptyScene)
		}
		for i, c := range v.Children {
			cmin, cmax, err := Bounds(c)
			if err != nil {
				return min, max, fmt.Errorf("union child %d: %w", i, err)
			}
			if i == 0 {
				min, max = cmin, cmax
				continue
			}
			for a := 0; a < 2; a++ {
				min[a] = math.Min(min[a], cmin[a])
				max[a] = math.Max(max[a], cmax[a])
			}
		}
		return min, max, nil
	}

	s2, err := ToSDF2(s)
	if err != nil {
		return min, max, err
	}
	bb := s2.BoundingBox()
	min = [2]float64{bb.Min.X, bb.Min.Y}
	max = [2]float64{bb.Max.X, bb.Max.Y}
	return min, max, nil
}

func translate2D(s sdf.SDF2, at Vec2) sdf.SDF2 {
	if at.X == 0 && at.Y == 0 {
		return s
	}
	return sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: at.X, Y: at.Y}))
}
