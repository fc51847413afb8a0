package expr_test

import (
	"fmt"
	"testing"

	"github.com/rhino1998/bhask/pkg/expr"
	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/value"
	"github.com/stretchr/testify/require"
)

type mapEnv struct {
	vars  map[string]value.Value
	funcs map[string]func(args []value.Value) (value.Value, error)
}

func (e mapEnv) Lookup(name string) (value.Value, error) {
	v, ok := e.vars[name]
	if !ok {
		return nil, fmt.Errorf("undefined variable %s", name)
	}
	return v, nil
}

func (e mapEnv) Call(name string, args []value.Value) (value.Value, error) {
	f, ok := e.funcs[name]
	if !ok {
		return nil, fmt.Errorf("undefined function %s", name)
	}
	return f(args)
}

func newEnv() mapEnv {
	arr := value.NewArray(kinds.Int, 3)
	arr.Elems[0] = value.Number(10)
	arr.Elems[1] = value.Number(20)
	arr.Elems[2] = value.Number(30)

	grid := value.NewArray2D(kinds.Int, 2, 3)
	for k := range 6 {
		grid.Elems[k] = value.Number(k + 1)
	}

	return mapEnv{
		vars: map[string]value.Value{
			"grid": grid,
			"a":    value.Number(5),
			"b":    value.Number(2),
			"i":    value.Number(1),
			"arr":  arr,
			"name": value.Chars("bhask"),
		},
		funcs: map[string]func(args []value.Value) (value.Value, error){
			"double": func(args []value.Value) (value.Value, error) {
				n, err := value.NumberOrFail(args[0])
				if err != nil {
					return nil, err
				}
				return value.Number(2 * n), nil
			},
		},
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
	}{
		{"1+2*3", value.Number(7)},
		{"(1+2)*3", value.Number(9)},
		{"a-b-1", value.Number(2)},
		{"a/b", value.Number(2.5)},
		{"2^3^2", value.Number(512)},
		{"-2^2", value.Number(-4)},
		{"a*-1", value.Number(-5)},
		{"arr[i+1]", value.Number(30)},
		{"arr[0]+arr[1]", value.Number(30)},
		{"|arr|", value.Number(3)},
		{"|name|", value.Number(5)},
		{"double(a)+1", value.Number(11)},
		{"double(double(b))", value.Number(8)},
		{"'ab'+'cd'", value.Chars("abcd")},
		{"name[0]", value.Chars("b")},
		{"π", value.Number(3.14159265)},
		{"grid[1,2]", value.Number(6)},
		{"grid[i-1,i+1]*2", value.Number(6)},
		{"|grid|", value.Number(2)},
		{"1e3", value.Number(1000)},
		{"2.5E-2", value.Number(0.025)},
		{"1e+2*a", value.Number(500)},
		{".5e1", value.Number(5)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			r := require.New(t)

			e, err := expr.Parse(tt.src)
			r.NoError(err)

			got, err := expr.Eval(e, newEnv())
			r.NoError(err)
			r.Equal(tt.want, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []string{
		"a/0",
		"missing+1",
		"arr[3]",
		"name*2",
		"nope(1)",
		"grid[2,0]",
		"grid[0]",
		"arr[0,1]",
		"name[0,0]",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			r := require.New(t)

			e, err := expr.Parse(src)
			r.NoError(err)

			_, err = expr.Eval(e, newEnv())
			r.Error(err)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"", "1+", "(1", "arr[1", "'abc", "1 2", "a $ b", "f(1,", "2e", "1e+", "0x1p4"} {
		t.Run(src, func(t *testing.T) {
			_, err := expr.Parse(src)
			require.Error(t, err)
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	r := require.New(t)

	e, err := expr.Parse("name-1")
	r.NoError(err)

	_, err = expr.Eval(e, newEnv())

	var mismatch *value.TypeMismatchError
	r.ErrorAs(err, &mismatch)
	r.Equal(kinds.Chars, mismatch.Got)
}

func TestSplitTopLevel(t *testing.T) {
	r := require.New(t)

	r.Equal([]string{"a", "f(b,c)", "'x,y'", "arr[1,2]"}, expr.SplitTopLevel("a, f(b,c), 'x,y', arr[1,2]", ','))
	r.Equal([]string{"a"}, expr.SplitTopLevel(" a ", ','))
	r.Equal([]string{""}, expr.SplitTopLevel("", ','))
}

func TestIsNumberLiteral(t *testing.T) {
	r := require.New(t)

	for _, s := range []string{"3", "-2.5", ".5", "1.", "1e3", "-1E-3", "+4"} {
		r.True(expr.IsNumberLiteral(s), s)
	}

	for _, s := range []string{"", "-", ".", "e3", "1e", "Inf", "-Inf", "NaN", "0x1p4", "1_000", "1.2.3"} {
		r.False(expr.IsNumberLiteral(s), s)
	}
}
