package scene

import (
	"errors"
	"math"
	"testing"
)

func TestCircleDistanceSign(t *testing.T) {
	c := NewCircle(2, 3, 5)

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"center", 2, 3, -5},
		{"inside", 3, 3, -4},
		{"boundary", 5, 7, 0}, // 3-4-5 triangle
		{"outside", 2, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Distance(tt.x, tt.y); got != tt.want {
				t.Errorf("Distance(%g, %g) = %g, want %g", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestMergeEmpty(t *testing.T) {
	_, err := Merge()
	if !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("Merge() error = %v, want ErrEmptyScene", err)
	}
}

func TestMergeNilChild(t *testing.T) {
	_, err := Merge(NewCircle(0, 0, 1), nil)
	if !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("Merge(circle, nil) error = %v, want ErrEmptyScene", err)
	}
}

func TestMergeCommutativeAndIdempotent(t *testing.T) {
	a := NewCircle(4, 4, 2)
	b := Box{Center: Vec2{X: 9, Y: 5}, HalfSize: Vec2{X: 2, Y: 1}, Round: 0.5}

	ab := MustMerge(a, b)
	ba := MustMerge(b, a)
	aa := MustMerge(a, a)

	for y := 0.0; y < 12; y += 0.37 {
		for x := 0.0; x < 12; x += 0.41 {
			if ab.Distance(x, y) != ba.Distance(x, y) {
				t.Fatalf("merge(a,b) != merge(b,a) at (%g,%g)", x, y)
			}
			if aa.Distance(x, y) != a.Distance(x, y) {
				t.Fatalf("merge(a,a) != a at (%g,%g)", x, y)
			}
		}
	}
}

func TestMergeCopiesArguments(t *testing.T) {
	shapes := []Shape{NewCircle(0, 0, 1)}
	u := MustMerge(shapes...)
	shapes[0] = NewCircle(100, 100, 1)
	if d := u.Distance(0, 0); d != -1 {
		t.Fatalf("union changed after caller mutated its slice: d = %g", d)
	}
}

func TestUnionWithoutChildrenIsOutside(t *testing.T) {
	if d := (Union{}).Distance(1, 1); !math.IsInf(d, 1) {
		t.Fatalf("empty union distance = %g, want +Inf", d)
	}
}

func TestBoxDistance(t *testing.T) {
	b := Box{Center: Vec2{X: 0, Y: 0}, HalfSize: Vec2{X: 2, Y: 1}}

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"center", 0, 0, -1},
		{"right edge", 2, 0, 0},
		{"outside right", 5, 0, 3},
		{"outside corner", 5, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Distance(tt.x, tt.y); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance(%g, %g) = %g, want %g", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSuperEllipseSign(t *testing.T) {
	e := SuperEllipse{Center: Vec2{X: 5, Y: 5}, A: 3, B: 2, N: 4}
	if d := e.Distance(5, 5); d >= 0 {
		t.Errorf("center should be inside, got %g", d)
	}
	if d := e.Distance(8, 5); d != 0 {
		t.Errorf("semi-axis end should be on the boundary, got %g", d)
	}
	if d := e.Distance(9, 9); d <= 0 {
		t.Errorf("far corner should be outside, got %g", d)
	}
}

func TestTranslate(t *testing.T) {
	tr := Translate{Offset: Vec2{X: 10, Y: -2}, Child: NewCircle(0, 0, 1)}
	if d := tr.Distance(10, -2); d != -1 {
		t.Fatalf("translated center distance = %g, want -1", d)
	}
}

func TestWalk(t *testing.T) {
	s := MustMerge(
		NewCircle(0, 0, 1),
		Translate{Offset: Vec2{X: 1}, Child: Box{HalfSize: Vec2{X: 1, Y: 1}}},
	)
	var kinds []Kind
	Walk(s, func(s Shape) bool {
		kinds = append(kinds, s.Kind())
		return true
	})
	want := []Kind{KindUnion, KindCircle, KindTranslate, KindBox}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestKindString(t *testing.T) {
	if KindSuperEllipse.String() != "super-ellipse" {
		t.Errorf("KindSuperEllipse.String() = %q", KindSuperEllipse.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
