package interpreter

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
)

// loopRunner executes the *parser.ForLoop and *parser.WhileLoop handles made
// by parser.ForLoopParser.
type loopRunner struct {
	ctx context.Context

	store    *Store
	resolver Resolver
	executor *Executor
}

func (l *loopRunner) ExecuteLoop(handle any, scope Scope) (Signal, error) {
	switch loop := handle.(type) {
	case *parser.ForLoop:
		return l.runFor(loop, scope)
	case *parser.WhileLoop:
		return l.runWhile(loop, scope)
	default:
		return Signal{}, fmt.Errorf("unknown loop handle %T", handle)
	}
}

func (l *loopRunner) err() error {
	if l.ctx == nil {
		return nil
	}

	return l.ctx.Err()
}

func (l *loopRunner) number(src string, scope Scope) (float64, error) {
	v, err := l.resolver.FetchValue(src, scope)
	if err != nil {
		return 0, err
	}

	n, err := value.NumberOrFail(v)
	if err != nil {
		return 0, fmt.Errorf("loop bound %q: %w", src, err)
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("loop bound %q is %v", src, n)
	}

	return n, nil
}

// runFor counts from From to To inclusive. A negative step counts down; a
// loop whose bounds run against its step does not run at all. The bounds and
// step are evaluated once.
func (l *loopRunner) runFor(loop *parser.ForLoop, scope Scope) (Signal, error) {
	from, err := l.number(loop.From, scope)
	if err != nil {
		return Signal{}, err
	}

	to, err := l.number(loop.To, scope)
	if err != nil {
		return Signal{}, err
	}

	step := 1.0
	if loop.Step != "" {
		step, err = l.number(loop.Step, scope)
		if err != nil {
			return Signal{}, err
		}

		if step == 0 {
			return Signal{}, fmt.Errorf("for loop step must not be zero")
		}
	}

	counter, err := NewVariable(kinds.Declared{Kind: kinds.Float}, value.Number(from))
	if err != nil {
		return Signal{}, err
	}

	err = l.store.Declare(loop.Var, counter, scope)
	if err != nil {
		return Signal{}, err
	}

	at := counterAt(from, step)
	for k := 0; ; k++ {
		i := at(k)
		if (step > 0 && i > to) || (step < 0 && i < to) {
			break
		}

		if err := l.err(); err != nil {
			return Signal{}, err
		}

		err = counter.Set(value.Number(i))
		if err != nil {
			return Signal{}, err
		}

		sig, err := l.executor.ExecuteBody(loop.Body, scope, true)
		if err != nil {
			return Signal{}, err
		}

		switch sig.Kind {
		case SignalBreak:
			return Signal{}, nil
		case SignalReturn:
			return sig, nil
		}
	}

	return Signal{}, nil
}

// counterAt returns the value of a for counter after k steps. Values are
// built on a decimal grid fine enough for from and step, so "0 to 1 step
// 0.1" visits 0.3 and 1 rather than accumulating rounding error.
func counterAt(from, step float64) func(k int) float64 {
	scale := math.Pow10(max(decimals(from), decimals(step)))
	base, inc := math.Round(from*scale), math.Round(step*scale)

	const exact = 1 << 53
	if math.Abs(base) >= exact || math.Abs(inc) >= exact || base/scale != from || inc/scale != step {
		return func(k int) float64 {
			return from + float64(k)*step
		}
	}

	return func(k int) float64 {
		return (base + float64(k)*inc) / scale
	}
}

// decimals counts the digits after the point in the shortest decimal form
// of f, up to 15.
func decimals(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0
	}

	return min(len(s)-dot-1, 15)
}

func (l *loopRunner) runWhile(loop *parser.WhileLoop, scope Scope) (Signal, error) {
	for {
		if err := l.err(); err != nil {
			return Signal{}, err
		}

		ok, err := l.executor.Evaluate(loop.Condition, scope)
		if err != nil {
			return Signal{}, fmt.Errorf("condition %s: %w", loop.Condition, err)
		}

		if !ok {
			return Signal{}, nil
		}

		sig, err := l.executor.ExecuteBody(loop.Body, scope, true)
		if err != nil {
			return Signal{}, err
		}

		switch sig.Kind {
		case SignalBreak:
			return Signal{}, nil
		case SignalReturn:
			return sig, nil
		}
	}
}
