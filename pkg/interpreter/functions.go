package interpreter

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/rhino1998/bhask/pkg/expr"
	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
)

// Function is either a block function with a statement body or a one-line
// function whose body is a single expression.
type Function struct {
	Name   string
	Params []parser.Param
	Body   []parser.Statement
	Inline string

	parser.Position
}

func (f *Function) IsInline() bool {
	return f.Body == nil && f.Inline != ""
}

type Functions struct {
	logger *slog.Logger
	store  *Store

	resolver Resolver
	executor *Executor

	funcs map[string]*Function
}

func NewFunctions(logger *slog.Logger, store *Store) *Functions {
	return &Functions{
		logger: logger,
		store:  store,
		funcs:  make(map[string]*Function),
	}
}

// Bind wires the collaborators a call needs to run a body.
func (f *Functions) Bind(resolver Resolver, executor *Executor) {
	f.resolver = resolver
	f.executor = executor
}

// Define registers fn, replacing any earlier function of the same name.
func (f *Functions) Define(fn *Function) error {
	if fn.Name == string(parser.KeywordOutput) {
		return fmt.Errorf("cannot redefine builtin %s", fn.Name)
	}

	if _, ok := f.funcs[fn.Name]; ok {
		f.logger.Debug("redefining function", slog.String("name", fn.Name))
	}

	f.funcs[fn.Name] = fn
	return nil
}

func (f *Functions) DefineDecl(decl *parser.FunctionDecl) error {
	return f.Define(&Function{
		Name:     decl.Name,
		Params:   decl.Params,
		Body:     decl.Body,
		Position: decl.Position,
	})
}

func (f *Functions) Function(name string) (*Function, bool) {
	fn, ok := f.funcs[name]
	return fn, ok
}

func (f *Functions) Names() []string {
	return slices.Sorted(maps.Keys(f.funcs))
}

// IsFunction reports whether token is a call of a registered function.
func (f *Functions) IsFunction(token string) bool {
	name, _, ok := parser.SplitCall(token)
	if !ok {
		return false
	}

	_, ok = f.funcs[name]
	return ok
}

func (f *Functions) ResolveCall(token string) (string, []string, error) {
	name, raw, ok := parser.SplitCall(token)
	if !ok {
		return "", nil, fmt.Errorf("%q is not a function call", token)
	}

	if _, ok := f.funcs[name]; !ok {
		return "", nil, &UndefinedFunctionError{Name: name}
	}

	if strings.TrimSpace(raw) == "" {
		return name, nil, nil
	}

	return name, expr.SplitTopLevel(raw, ','), nil
}

// Invoke calls name with already evaluated arguments. Each call gets a fresh
// local frame whose parent is the global frame.
func (f *Functions) Invoke(name string, args []value.Value, outer Scope) (value.Value, error) {
	fn, ok := f.funcs[name]
	if !ok {
		return nil, &UndefinedFunctionError{Name: name}
	}

	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", name, len(fn.Params), len(args))
	}

	err := f.executor.Enter()
	if err != nil {
		return nil, fmt.Errorf("call of %s: %w", name, err)
	}
	defer f.executor.Leave()

	scope := f.store.Push(name)
	defer f.store.Pop(scope)

	f.logger.Debug("invoking function",
		slog.String("name", name),
		slog.String("frame", scope.Frame),
		slog.String("caller", outer.String()),
		slog.Int("depth", f.executor.Depth()),
	)

	for i, param := range fn.Params {
		var typ kinds.Declared
		if param.Type != "" {
			typ, ok = kinds.Lookup(param.Type)
			if !ok {
				return nil, fmt.Errorf("%s: unknown parameter type %q", name, param.Type)
			}
		}

		v, err := NewVariable(typ, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %s of %s: %w", param.Name, name, err)
		}

		err = f.store.Declare(param.Name, v, scope)
		if err != nil {
			return nil, err
		}
	}

	if fn.IsInline() {
		return f.resolver.FetchValue(fn.Inline, scope)
	}

	sig, err := f.executor.ExecuteBody(fn.Body, scope, false)
	if err != nil {
		return nil, err
	}

	if sig.Kind == SignalReturn {
		return sig.Value, nil
	}

	return value.Unit{}, nil
}
