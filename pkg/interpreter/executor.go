package interpreter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rhino1998/bhask/pkg/expr"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
)

const DefaultMaxDepth = 256

type FunctionRegistry interface {
	IsFunction(token string) bool
	ResolveCall(token string) (name string, args []string, err error)
	Invoke(name string, args []value.Value, outer Scope) (value.Value, error)
}

type LoopExecutor interface {
	ExecuteLoop(handle any, scope Scope) (Signal, error)
}

type LineProcessor interface {
	Process(line parser.Line, scope Scope) (Sentinel, error)
}

// Env is everything the executor delegates to.
type Env struct {
	Resolver  Resolver
	Functions FunctionRegistry
	Loops     LoopExecutor
	Lines     LineProcessor
}

type Executor struct {
	logger *slog.Logger
	env    Env

	maxDepth int
	depth    int
}

func NewExecutor(logger *slog.Logger, env Env, maxDepth int) *Executor {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &Executor{
		logger:   logger,
		env:      env,
		maxDepth: maxDepth,
	}
}

// Enter claims one level of nesting. Every successful Enter must be paired
// with Leave.
func (e *Executor) Enter() error {
	if e.depth >= e.maxDepth {
		return fmt.Errorf("%w (%d)", ErrMaxDepth, e.maxDepth)
	}

	e.depth++
	return nil
}

func (e *Executor) Leave() {
	e.depth--
}

func (e *Executor) Depth() int {
	return e.depth
}

// Execute runs whichever branch of node its condition selects. hasLoop
// reports whether a loop encloses node, so break and continue may leave it.
func (e *Executor) Execute(node *parser.ConditionalNode, scope Scope, hasLoop bool) (Signal, error) {
	err := e.Enter()
	if err != nil {
		return Signal{}, node.WrapError(err)
	}
	defer e.Leave()

	// a bare else block
	if node.Condition == nil {
		return e.ExecuteBody(node.ElseBody, scope, hasLoop)
	}

	ok, err := e.Evaluate(node.Condition, scope)
	if err != nil {
		return Signal{}, node.WrapError(fmt.Errorf("condition %s: %w", node.Condition, err))
	}

	body := node.ElseBody
	if ok {
		body = node.IfBody
	}

	return e.ExecuteBody(body, scope, hasLoop)
}

// ExecuteBody runs statements in order until one of them signals.
func (e *Executor) ExecuteBody(body []parser.Statement, scope Scope, hasLoop bool) (Signal, error) {
	for _, stmt := range body {
		sig, err := e.ExecuteStatement(stmt, scope, hasLoop)
		if err != nil {
			return Signal{}, err
		}

		if sig.Kind != SignalNone {
			return sig, nil
		}
	}

	return Signal{}, nil
}

func (e *Executor) ExecuteStatement(stmt parser.Statement, scope Scope, hasLoop bool) (Signal, error) {
	switch stmt := stmt.(type) {
	case *parser.NestedStatement:
		return e.Execute(stmt.Node, scope, hasLoop)
	case *parser.LoopStatement:
		err := e.Enter()
		if err != nil {
			return Signal{}, stmt.WrapError(err)
		}
		defer e.Leave()

		sig, err := e.env.Loops.ExecuteLoop(stmt.Handle, scope)
		if err != nil {
			return Signal{}, stmt.WrapError(err)
		}

		// break and continue stop at the loop that caught them
		if sig.Kind == SignalReturn {
			return sig, nil
		}

		return Signal{}, nil
	case *parser.LineStatement:
		if parser.Keyword(stmt.Line.Keyword()) == parser.KeywordReturn {
			sig, err := e.executeReturn(stmt.Line, scope)
			if err != nil {
				return Signal{}, stmt.WrapError(err)
			}
			return sig, nil
		}

		sentinel, err := e.env.Lines.Process(stmt.Line, scope)
		if err != nil {
			return Signal{}, stmt.WrapError(err)
		}

		switch {
		case sentinel == SentinelBreak && hasLoop:
			return Signal{Kind: SignalBreak}, nil
		case sentinel == SentinelContinue && hasLoop:
			return Signal{Kind: SignalContinue}, nil
		default:
			return Signal{}, nil
		}
	default:
		return Signal{}, fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

func (e *Executor) executeReturn(line parser.Line, scope Scope) (Signal, error) {
	src := line.Body()
	if src == "" {
		return Return(value.Unit{}), nil
	}

	r := e.env.Resolver

	if e.env.Functions != nil && e.env.Functions.IsFunction(src) {
		name, rawArgs, err := e.env.Functions.ResolveCall(src)
		if err != nil {
			return Signal{}, err
		}

		args := make([]value.Value, 0, len(rawArgs))
		for _, raw := range rawArgs {
			v, err := r.FetchValue(raw, scope)
			if err != nil {
				return Signal{}, fmt.Errorf("argument %q of %s: %w", raw, name, err)
			}
			args = append(args, v)
		}

		v, err := e.env.Functions.Invoke(name, args, scope)
		if err != nil {
			return Signal{}, err
		}

		return Return(v), nil
	}

	parts := expr.SplitTopLevel(src, ',')
	if len(parts) > 1 {
		tuple := make(value.Tuple, 0, len(parts))
		for _, part := range parts {
			if r.IsNumber(part) {
				n, err := strconv.ParseFloat(part, 64)
				if err != nil {
					return Signal{}, err
				}
				tuple = append(tuple, value.Number(n))
				continue
			}

			v, err := r.FetchValue(part, scope)
			if err != nil {
				return Signal{}, err
			}
			tuple = append(tuple, v)
		}

		return Return(tuple), nil
	}

	v, err := r.FetchValue(src, scope)
	if err != nil {
		return Signal{}, err
	}

	return Return(v), nil
}
