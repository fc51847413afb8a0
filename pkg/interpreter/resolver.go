package interpreter

import (
	"fmt"

	"github.com/rhino1998/bhask/pkg/expr"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
)

// Resolver turns operand text into values.
type Resolver interface {
	IsChar(token string) bool
	IsNumber(token string) bool
	ArrayRef(token string) (base, index string, ok bool)
	ComputeIndex(expr string, scope Scope) (int, error)
	FetchVariable(name string, scope Scope) (*Variable, error)
	FetchValue(token string, scope Scope) (value.Value, error)
}

type exprResolver struct {
	store *Store
	funcs FunctionRegistry

	cache map[string]expr.Expr
}

func newResolver(store *Store, funcs FunctionRegistry) *exprResolver {
	return &exprResolver{
		store: store,
		funcs: funcs,
		cache: make(map[string]expr.Expr),
	}
}

func (r *exprResolver) IsChar(token string) bool {
	return parser.IsChar(token)
}

func (r *exprResolver) IsNumber(token string) bool {
	return parser.IsNumber(token)
}

func (r *exprResolver) ArrayRef(token string) (string, string, bool) {
	return parser.ArrayRef(token)
}

func (r *exprResolver) ComputeIndex(src string, scope Scope) (int, error) {
	v, err := r.FetchValue(src, scope)
	if err != nil {
		return 0, err
	}

	i, err := value.IntOrFail(v)
	if err != nil {
		return 0, fmt.Errorf("index %q: %w", src, err)
	}

	return i, nil
}

func (r *exprResolver) FetchVariable(name string, scope Scope) (*Variable, error) {
	return r.store.Lookup(name, scope)
}

func (r *exprResolver) FetchValue(token string, scope Scope) (value.Value, error) {
	e, err := r.parse(token)
	if err != nil {
		return nil, err
	}

	return expr.Eval(e, scopeEnv{r: r, scope: scope})
}

func (r *exprResolver) parse(src string) (expr.Expr, error) {
	if e, ok := r.cache[src]; ok {
		return e, nil
	}

	e, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}

	r.cache[src] = e
	return e, nil
}

type scopeEnv struct {
	r     *exprResolver
	scope Scope
}

func (env scopeEnv) Lookup(name string) (value.Value, error) {
	v, err := env.r.store.Lookup(name, env.scope)
	if err != nil {
		return nil, err
	}

	return v.Value(), nil
}

func (env scopeEnv) Call(name string, args []value.Value) (value.Value, error) {
	if env.r.funcs == nil {
		return nil, &UndefinedFunctionError{Name: name}
	}

	return env.r.funcs.Invoke(name, args, env.scope)
}
