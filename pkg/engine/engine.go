// Package engine provides the Lisp evaluation engine for isoline scene
// scripts. It wraps zygomys in a sandboxed environment and produces a
// scene.Shape from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/isoline/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int // 0 when zygomys reports no location
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for scene evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes Lisp source code and produces the scene described by its
// last expression.
//
// Return semantics:
//   - On success: returns shape + nil errors + nil error
//   - On parse/eval failure, or a script that yields no shape: returns
//     nil shape + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (scene.Shape, []EvalError, error) {
	gen := e.begin()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{shape: s, errors: evalErrs, err: err}
	}()

	res := e.await(ch, gen, EvalTimeout)
	return res.shape, res.errors, res.err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (scene.Shape, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "script is empty: " + scene.ErrEmptyScene.Error()}}, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	res, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	s, err := toShape(res)
	if err != nil {
		return nil, []EvalError{{Message: "script result: " + err.Error()}}, nil
	}
	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?is)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values,
// pulling the line number out of the message when zygomys provides one. Text
// before the location marker is kept in front of the detail.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		loc := re.FindStringSubmatchIndex(msg)
		if loc == nil {
			continue
		}
		line, _ := strconv.Atoi(msg[loc[2]:loc[3]])
		detail := strings.TrimSpace(msg[loc[4]:loc[5]])
		if prefix := strings.TrimSpace(msg[:loc[0]]); prefix != "" {
			detail = strings.TrimSpace(prefix + " " + detail)
		}
		return []EvalError{{
			Line:    line,
			Message: detail,
		}}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
