package main

import (
	"errors"
	"log"

	"github.com/chazu/isoline/pkg/config"
	"github.com/chazu/isoline/pkg/contour"
	"github.com/chazu/isoline/pkg/contour/surfacenets"
	"github.com/chazu/isoline/pkg/engine"
	"github.com/chazu/isoline/pkg/tessellate"
)

// App runs scene scripts through the engine and the extraction pipeline.
type App struct {
	engine    *engine.Engine
	extractor contour.Extractor
	width     int
	height    int
}

// ContourData is the JSON-serializable contour.
type ContourData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// PolylineData is one chained run of contour vertices.
type PolylineData struct {
	Indices []uint32 `json:"indices"`
	Closed  bool     `json:"closed"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Contour   ContourData     `json:"contour"`
	Polylines []PolylineData  `json:"polylines"`
	Errors    []EvalErrorData `json:"errors"`
	Warnings  []EvalErrorData `json:"warnings"`
}

// NewApp creates an App sampling onto the grid described by conf.
func NewApp(conf config.Config) *App {
	var ex contour.Extractor = surfacenets.Sequential{}
	if conf.Parallel {
		ex = surfacenets.Parallel{Workers: conf.Workers}
	}
	return &App{
		engine:    engine.NewEngine(),
		extractor: ex,
		width:     conf.Width,
		height:    conf.Height,
	}
}

// Evaluate takes a scene script and returns its contour plus any errors
// and warnings.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Contour: ContourData{
			Vertices: []float32{},
			Normals:  []float32{},
			Indices:  []uint32{},
		},
		Polylines: []PolylineData{},
		Errors:    []EvalErrorData{},
		Warnings:  []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Sample and extract.
	res, err := tessellate.Tessellate(s, a.width, a.height, a.extractor)
	if err != nil {
		msg := "extraction failed: " + err.Error()
		if errors.Is(err, tessellate.ErrInvalidScene) {
			msg = err.Error()
		} else {
			log.Printf("Tessellate error: %v", err)
		}
		result.Errors = append(result.Errors, EvalErrorData{Message: msg})
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}

	// Step 3: Convert to the output format.
	c := res.Contour
	if c.Vertices != nil {
		result.Contour.Vertices = c.Vertices
	}
	if c.Normals != nil {
		result.Contour.Normals = c.Normals
	}
	if c.Indices != nil {
		result.Contour.Indices = c.Indices
	}
	for _, pl := range c.Polylines() {
		result.Polylines = append(result.Polylines, PolylineData{
			Indices: pl.Indices,
			Closed:  pl.Closed,
		})
	}

	return result
}
