package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/isoline/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites scene script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: super-ellipse -> super_ellipse
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //, the zygomys comment syntax.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpShape wraps a scene.Shape so it can be passed between builtins and
// returned as the script result.
type sexpShape struct {
	shape scene.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", s.shape.Kind())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpVec2 wraps a scene.Vec2.
type sexpVec2 struct {
	vec scene.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 extracts a Vec2 from a sexpVec2.
func toVec2(s zygo.Sexp) (scene.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return scene.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a scene.Shape from a sexpShape.
func toShape(s zygo.Sexp) (scene.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.shape, nil
	}
	if s == nil {
		return nil, fmt.Errorf("expected shape, got nothing")
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// float fetches keyword name from pa as a number, falling back to def when
// the keyword is absent.
func (pa kwArgs) float(fn, name string, def float64) (float64, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	return f, nil
}

// vec2 fetches keyword name from pa as a vec2, falling back to def.
func (pa kwArgs) vec2(fn, name string, def scene.Vec2) (scene.Vec2, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	vec, err := toVec2(v)
	if err != nil {
		return scene.Vec2{}, fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	return vec, nil
}

// positionalFloats converts the positional arguments to numbers.
func positionalFloats(fn string, args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

func shapeResult(s scene.Shape) (zygo.Sexp, error) {
	return &sexpShape{shape: s}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp) {

	// -----------------------------------------------------------------------
	// (vec2 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		f, err := positionalFloats("vec2", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec2{vec: scene.Vec2{X: f[0], Y: f[1]}}, nil
	})

	// -----------------------------------------------------------------------
	// (circle 8 8 4)  or  (circle :center (vec2 8 8) :radius 4)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		switch len(pa.positional) {
		case 0:
		case 3:
			f, err := positionalFloats("circle", pa.positional)
			if err != nil {
				return zygo.SexpNull, err
			}
			return shapeResult(scene.NewCircle(f[0], f[1], f[2]))
		default:
			return zygo.SexpNull, fmt.Errorf("circle takes cx cy r or :center/:radius keywords, got %d positional arguments", len(pa.positional))
		}

		center, err := pa.vec2("circle", "center", scene.Vec2{})
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, ok := pa.kw["radius"]; !ok {
			return zygo.SexpNull, fmt.Errorf("circle: radius is required")
		}
		r, err := pa.float("circle", "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(scene.Circle{Center: center, Radius: r})
	})

	// -----------------------------------------------------------------------
	// (box :center (vec2 4 4) :size (vec2 6 2) :round 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := pa.vec2("box", "center", scene.Vec2{})
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, ok := pa.kw["size"]; !ok {
			return zygo.SexpNull, fmt.Errorf("box: size is required")
		}
		size, err := pa.vec2("box", "size", scene.Vec2{})
		if err != nil {
			return zygo.SexpNull, err
		}
		round, err := pa.float("box", "round", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(scene.Box{
			Center:   center,
			HalfSize: scene.Vec2{X: size.X / 2, Y: size.Y / 2},
			Round:    round,
		})
	})

	// -----------------------------------------------------------------------
	// (super-ellipse :center (vec2 8 8) :a 4 :b 2 :n 4)
	//
	// Registered as "super_ellipse"; the preprocessor rewrites the
	// kebab-case name.
	// -----------------------------------------------------------------------
	env.AddFunction("super_ellipse", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		e := scene.SuperEllipse{}
		var err error
		if e.Center, err = pa.vec2("super-ellipse", "center", scene.Vec2{}); err != nil {
			return zygo.SexpNull, err
		}
		if e.A, err = pa.float("super-ellipse", "a", 1); err != nil {
			return zygo.SexpNull, err
		}
		if e.B, err = pa.float("super-ellipse", "b", 1); err != nil {
			return zygo.SexpNull, err
		}
		if e.N, err = pa.float("super-ellipse", "n", 2); err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(e)
	})

	// -----------------------------------------------------------------------
	// (translate (circle 0 0 2) :by (vec2 4 4))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires exactly one shape argument, got %d", len(pa.positional))
		}
		child, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		by, err := pa.vec2("translate", "by", scene.Vec2{})
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(scene.Translate{Offset: by, Child: child})
	})

	// -----------------------------------------------------------------------
	// (merge (circle ...) (box ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("merge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		shapes := make([]scene.Shape, 0, len(args))
		for i, a := range args {
			s, err := toShape(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: child %d: %w", i+1, err)
			}
			shapes = append(shapes, s)
		}
		u, err := scene.Merge(shapes...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(u)
	})
}
