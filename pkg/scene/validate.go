package scene

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding blocks sampling
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks sampling
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Path locates the
// offending shape, e.g. "union[1]/translate/circle".
type ValidationError struct {
	Path     string
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Path, e.Message)
}

// Validate checks the structure and parameters of a scene. An empty slice
// means the scene is valid. Validate never mutates s.
func Validate(s Shape) []ValidationError {
	if s == nil {
		return []ValidationError{{Message: "scene is nil", Severity: SeverityError}}
	}
	var errs []ValidationError
	validateShape(s, s.Kind().String(), &errs)
	return errs
}

// ValidateWithin runs Validate and additionally warns when the scene does not
// fit the sampling window [0,width]x[0,height]: a scene entirely outside the
// window produces no contour, one crossing the window edge produces open
// polylines.
func ValidateWithin(s Shape, width, height int) []ValidationError {
	errs := Validate(s)
	if hasErrors(errs) {
		return errs
	}
	min, max, err := Bounds(s)
	if err != nil {
		return append(errs, ValidationError{
			Message:  fmt.Sprintf("bounds unavailable: %v", err),
			Severity: SeverityWarning,
		})
	}
	w, h := float64(width), float64(height)
	switch {
	case max[0] < 0 || max[1] < 0 || min[0] > w || min[1] > h:
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("scene bounds %v-%v lie outside the %dx%d grid", min, max, width, height),
			Severity: SeverityWarning,
		})
	case min[0] < 0 || min[1] < 0 || max[0] > w || max[1] > h:
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("scene bounds %v-%v cross the %dx%d grid edge; contour will be open", min, max, width, height),
			Severity: SeverityWarning,
		})
	}
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []ValidationError) bool {
	return hasErrors(errs)
}

func hasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateShape(s Shape, path string, errs *[]ValidationError) {
	fail := func(format string, args ...any) {
		*errs = append(*errs, ValidationError{
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	switch v := s.(type) {
	case Circle:
		if !finite(v.Center.X, v.Center.Y, v.Radius) {
			fail("non-finite parameter")
		} else if v.Radius < 0 {
			fail("negative radius %g", v.Radius)
		} else if v.Radius == 0 {
			*errs = append(*errs, ValidationError{
				Path:     path,
				Message:  "zero radius circle has no interior",
				Severity: SeverityWarning,
			})
		}
	case Box:
		if !finite(v.Center.X, v.Center.Y, v.HalfSize.X, v.HalfSize.Y, v.Round) {
			fail("non-finite parameter")
		} else if v.HalfSize.X <= 0 || v.HalfSize.Y <= 0 {
			fail("non-positive half size %gx%g", v.HalfSize.X, v.HalfSize.Y)
		} else if v.Round < 0 || v.Round > math.Min(v.HalfSize.X, v.HalfSize.Y) {
			fail("round %g outside [0, %g]", v.Round, math.Min(v.HalfSize.X, v.HalfSize.Y))
		}
	case SuperEllipse:
		if !finite(v.Center.X, v.Center.Y, v.A, v.B, v.N) {
			fail("non-finite parameter")
		} else if v.A <= 0 || v.B <= 0 || v.N <= 0 {
			fail("semi-axes and exponent must be positive (a=%g b=%g n=%g)", v.A, v.B, v.N)
		}
	case Union:
		if len(v.Children) == 0 {
			fail("union has no children")
		}
		for i, c := range v.Children {
			if c == nil {
				fail("child %d is nil", i)
				continue
			}
			validateShape(c, fmt.Sprintf("%s[%d]/%s", path, i, c.Kind()), errs)
		}
	case Translate:
		if !finite(v.Offset.X, v.Offset.Y) {
			fail("non-finite offset")
		}
		if v.Child == nil {
			fail("translate has no child")
			return
		}
		validateShape(v.Child, path+"/"+v.Child.Kind().String(), errs)
	case SDF2:
		if v.S == nil {
			fail("sdf2 wrapper is empty")
		}
	}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
