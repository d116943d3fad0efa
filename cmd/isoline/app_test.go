package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/chazu/isoline/pkg/config"
	"github.com/chazu/isoline/pkg/field"
	"github.com/chazu/isoline/pkg/scene"
	"github.com/chazu/isoline/pkg/tessellate"
)

func newTestApp(w, h int) *App {
	conf := config.Default()
	conf.Width, conf.Height = w, h
	return NewApp(conf)
}

// TestE2ECircleExample exercises the full pipeline: script -> engine ->
// scene -> field -> contour.
func TestE2ECircleExample(t *testing.T) {
	app := newTestApp(16, 16)

	source, err := os.ReadFile("../../examples/circle.isoline")
	if err != nil {
		t.Fatalf("failed to read circle.isoline: %v", err)
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Contour.Vertices) == 0 {
		t.Fatal("expected contour vertices")
	}
	if len(result.Contour.Normals) != len(result.Contour.Vertices) {
		t.Errorf("normals = %d floats, vertices = %d floats", len(result.Contour.Normals), len(result.Contour.Vertices))
	}
	if len(result.Polylines) != 1 || !result.Polylines[0].Closed {
		t.Fatalf("expected one closed polyline, got %+v", result.Polylines)
	}
}

// TestE2EMultiShapeExample evaluates the larger example and checks that every
// separate shape produces its own loop.
func TestE2EMultiShapeExample(t *testing.T) {
	app := newTestApp(64, 64)

	source, err := os.ReadFile("../../examples/scene.isoline")
	if err != nil {
		t.Fatalf("failed to read scene.isoline: %v", err)
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}
	if len(result.Polylines) != 4 {
		t.Fatalf("expected 4 polylines, got %d", len(result.Polylines))
	}
	for i, pl := range result.Polylines {
		if !pl.Closed {
			t.Errorf("polyline %d is open", i)
		}
	}
}

// TestE2EMatchesGoAPI checks that a script and the equivalent Go scene give
// the same contour.
func TestE2EMatchesGoAPI(t *testing.T) {
	app := newTestApp(24, 24)
	result := app.Evaluate(`(merge (circle 6 6 3) (translate (circle 0 0 4) :by (vec2 15 14)))`)
	if len(result.Errors) > 0 {
		t.Fatalf("eval errors: %v", result.Errors)
	}

	s := scene.MustMerge(
		scene.NewCircle(6, 6, 3),
		scene.Translate{Offset: scene.Vec2{X: 15, Y: 14}, Child: scene.NewCircle(0, 0, 4)},
	)
	res, err := tessellate.Tessellate(s, 24, 24, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := res.Contour
	got := result.Contour
	if len(got.Vertices) != len(want.Vertices) || len(got.Indices) != len(want.Indices) {
		t.Fatalf("contour sizes differ: got %d/%d, want %d/%d",
			len(got.Vertices), len(got.Indices), len(want.Vertices), len(want.Indices))
	}
	for i := range want.Vertices {
		if got.Vertices[i] != want.Vertices[i] {
			t.Fatalf("vertex float %d: got %v, want %v", i, got.Vertices[i], want.Vertices[i])
		}
	}
}

func TestE2EParallelMatchesSequential(t *testing.T) {
	source := `(merge (circle 10 10 6) (box :center (vec2 24 22) :size (vec2 8 6)))`

	seq := newTestApp(32, 32).Evaluate(source)

	conf := config.Default()
	conf.Width, conf.Height = 32, 32
	conf.Parallel = true
	conf.Workers = 4
	par := NewApp(conf).Evaluate(source)

	a, _ := json.Marshal(seq)
	b, _ := json.Marshal(par)
	if string(a) != string(b) {
		t.Error("parallel result differs from sequential result")
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(8, 8)
	result := app.Evaluate("")

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error for empty source, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0].Message, "empty") {
		t.Errorf("error %q should mention empty", result.Errors[0].Message)
	}
	if len(result.Contour.Vertices) != 0 {
		t.Errorf("expected no vertices, got %d", len(result.Contour.Vertices))
	}
}

// TestE2ESlicesNonNil ensures JSON output uses [] rather than null.
func TestE2ESlicesNonNil(t *testing.T) {
	app := newTestApp(8, 8)
	for _, source := range []string{"", "(circle 100 100 1)", "(circle 4 4 2)"} {
		result := app.Evaluate(source)
		if result.Contour.Vertices == nil || result.Contour.Normals == nil || result.Contour.Indices == nil {
			t.Errorf("%q: contour slices should be non-nil", source)
		}
		if result.Polylines == nil || result.Errors == nil || result.Warnings == nil {
			t.Errorf("%q: result slices should be non-nil", source)
		}
		out, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("%q: marshal: %v", source, err)
		}
		if strings.Contains(string(out), "null") {
			t.Errorf("%q: JSON contains null: %s", source, out)
		}
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(8, 8)
	result := app.Evaluate("(circle 1 2 3)\n(merge (circle 4 4 2)")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for unmatched parens")
	}
	if len(result.Contour.Vertices) != 0 {
		t.Errorf("expected no vertices on error, got %d", len(result.Contour.Vertices))
	}
	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, message=%q", e.Line, e.Message)
}

func TestE2ENonShapeResult(t *testing.T) {
	app := newTestApp(8, 8)
	result := app.Evaluate("(+ 1 2)")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a script that yields a number")
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := newTestApp(8, 8)
	result := app.Evaluate("; nothing here\n;; or here\n")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a script with no shape")
	}
}

func TestE2EInvalidSceneReported(t *testing.T) {
	app := newTestApp(8, 8)
	result := app.Evaluate("(circle 4 4 -2)")
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Message, "negative radius") {
		t.Errorf("error %q should mention negative radius", result.Errors[0].Message)
	}
}

func TestE2EWarningsForClippedScene(t *testing.T) {
	app := newTestApp(16, 16)
	result := app.Evaluate("(circle 0 8 5)")
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for a scene crossing the grid edge")
	}
	if !strings.Contains(result.Warnings[0].Message, "grid edge") {
		t.Errorf("warning %q should mention the grid edge", result.Warnings[0].Message)
	}
}

func TestE2EGridTooSmall(t *testing.T) {
	app := newTestApp(1, 1)
	result := app.Evaluate("(circle 0.5 0.5 0.25)")
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Message, "extraction failed") {
		t.Errorf("error %q should report extraction failure", result.Errors[0].Message)
	}
}

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates valid and invalid sources; the engine must recover cleanly
	// between error and success states.
	app := newTestApp(16, 16)

	sources := []string{
		`(circle 8 8 4)`,
		`(merge (circle 1 1 1)`,
		``,
		`(undefined-func 1 2 3)`,
		`(box :center (vec2 8 8) :size (vec2 6 4))`,
		`(+ 1 2)`,
		`; just a comment`,
		`(super-ellipse :center (vec2 8 8) :a 5 :b 3 :n 3)`,
		`(merge)`,
		`(circle 8 8 4)`,
	}
	valid := map[int]bool{0: true, 4: true, 7: true, 9: true}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			result := app.Evaluate(source)
			if valid[i] && len(result.Errors) > 0 {
				t.Errorf("iteration %d: unexpected errors %v", i, result.Errors)
			}
			if !valid[i] && len(result.Errors) == 0 {
				t.Errorf("iteration %d: expected errors for %q", i, source)
			}
		}()
	}
}

func TestE2EFieldSampledAtCellCenters(t *testing.T) {
	// The 8x8 reference grid: cell (4,4) samples (4.5,4.5) of circle(4,4,2).
	g, err := field.New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.UnionInto(scene.NewCircle(4, 4, 2)); err != nil {
		t.Fatal(err)
	}
	if got := g.At(4, 4); got >= 0 {
		t.Errorf("cell (4,4) = %v, want inside", got)
	}
	if got := g.At(0, 0); got <= 0 {
		t.Errorf("cell (0,0) = %v, want outside", got)
	}
}

// Errors carry only the location zygomys reports: a line, no column.
func TestE2EErrorJSONFields(t *testing.T) {
	app := newTestApp(8, 8)
	result := app.Evaluate("(circle 1 2 3)\n(merge (circle 4 4 2)")
	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors")
	}
	out, err := json.Marshal(result.Errors[0])
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatal(err)
	}
	if _, ok := fields["line"]; !ok {
		t.Errorf("error JSON %s is missing line", out)
	}
	if _, ok := fields["col"]; ok {
		t.Errorf("error JSON %s should not carry a col field", out)
	}
}
