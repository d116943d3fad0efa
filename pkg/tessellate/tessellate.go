// Package tessellate runs the full pipeline from a scene to a contour:
// validate, sample into a fresh grid, extract.
package tessellate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/isoline/pkg/contour"
	"github.com/chazu/isoline/pkg/contour/surfacenets"
	"github.com/chazu/isoline/pkg/field"
	"github.com/chazu/isoline/pkg/scene"
)

// ErrInvalidScene is returned when scene validation reports errors.
var ErrInvalidScene = errors.New("tessellate: invalid scene")

// Result is the output of one pipeline run.
type Result struct {
	Grid     *field.Grid
	Contour  *contour.Contour
	Warnings []scene.ValidationError
}

// Tessellate samples s into a width x height grid and extracts its zero
// contour with ex. A nil extractor uses surfacenets.Sequential. The scene
// is read-only; validation warnings are returned with the result, errors
// abort the run.
func Tessellate(s scene.Shape, width, height int, ex contour.Extractor) (*Result, error) {
	if ex == nil {
		ex = surfacenets.Sequential{}
	}

	findings := scene.ValidateWithin(s, width, height)
	if scene.HasErrors(findings) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScene, joinErrors(findings))
	}

	g, err := field.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	if err := g.UnionInto(s); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	c, err := ex.Extract(g.Data, g.Width, g.Height)
	if err != nil {
		return nil, fmt.Errorf("tessellate: extract: %w", err)
	}

	contour.Logger().Debug("tessellate",
		"width", width, "height", height,
		"vertices", c.VertexCount(), "segments", c.SegmentCount(),
		"warnings", len(findings))

	return &Result{Grid: g, Contour: c, Warnings: findings}, nil
}

func joinErrors(findings []scene.ValidationError) string {
	var msgs []string
	for _, f := range findings {
		if f.Severity == scene.SeverityError {
			msgs = append(msgs, f.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
