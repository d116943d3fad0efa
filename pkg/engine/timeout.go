package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/isoline/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs longer than its limit.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned when a newer Evaluate call started while
	// this one was running.
	ErrSuperseded = errors.New("engine: evaluation superseded by newer request")
)

// evalResult is what an evaluation goroutine hands back.
type evalResult struct {
	shape  scene.Shape
	errors []EvalError
	err    error
}

// begin starts a new generation and returns its number. Results of older
// generations are dropped by await.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// current reports whether gen is still the latest generation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation == gen
}

// await blocks until ch delivers or timeout elapses. A result that arrives
// after a newer generation began is replaced by ErrSuperseded. On timeout
// the goroutine may still be running; its late result is never read.
func (e *Engine) await(ch <-chan evalResult, gen uint64, timeout time.Duration) evalResult {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return evalResult{err: ErrSuperseded}
		}
		return res
	case <-timer.C:
		return evalResult{err: fmt.Errorf("%w after %s", ErrTimeout, timeout)}
	}
}
