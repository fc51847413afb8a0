package parser_test

import (
	"strings"
	"testing"

	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/stretchr/testify/require"
)

const factorial = `
% factorial with a loop
Func fact(int n) :
    int res = 1
    for i = 1 to n :
        res = res*i
    return res

int a = 0
a = fact(5)
if a > 100 :
    ans('big')
else :
    ans('small')
`

func TestParseProgram(t *testing.T) {
	r := require.New(t)
	p := newParser(t)

	prog, err := p.ParseReader(strings.NewReader(factorial))
	r.NoError(err)
	r.Equal("test.bhask", prog.File)

	r.Len(prog.Functions, 1)
	fn := prog.Functions[0]
	r.Equal("fact", fn.Name)
	r.Equal([]parser.Param{{Name: "n", Type: "int"}}, fn.Params)
	r.Equal("fact(int n)", fn.String())
	r.Equal([]string{"int res = 1", "<loop>", "return res"}, lineTexts(fn.Body))

	loop, ok := fn.Body[1].(*parser.LoopStatement).Handle.(*parser.ForLoop)
	r.True(ok)
	r.Equal("i", loop.Var)
	r.Equal("1", loop.From)
	r.Equal("n", loop.To)
	r.Empty(loop.Step)
	r.Equal([]string{"res = res*i"}, lineTexts(loop.Body))

	r.Equal([]string{"int a = 0", "a = fact(5)", "<if a > 100>"}, lineTexts(prog.Body))
}

func TestParseProgram_Loops(t *testing.T) {
	r := require.New(t)
	p := newParser(t)

	prog, err := p.ParseProgram(parser.Lines(
		"for i = 10 to 0 step 2 :",
		"    if i == 4 :",
		"        over",
		"    ans(i)",
		"while a < 3 :",
		"    a = a+1",
	))
	r.NoError(err)
	r.Len(prog.Body, 2)

	forLoop := prog.Body[0].(*parser.LoopStatement).Handle.(*parser.ForLoop)
	r.Equal("2", forLoop.Step)
	r.Equal([]string{"<if i == 4>", "ans(i)"}, lineTexts(forLoop.Body))

	whileLoop := prog.Body[1].(*parser.LoopStatement).Handle.(*parser.WhileLoop)
	r.Equal(&parser.Expression{LHS: "a", Op: parser.Lt, RHS: "3"}, whileLoop.Condition)
	r.Equal(5, whileLoop.Line)
}

func TestParseProgram_Errors(t *testing.T) {
	r := require.New(t)
	p := newParser(t)

	prog, err := p.ParseProgram(parser.Lines(
		"Func f(x) :",
		"    return x",
		"Func f(y) :",
		"    return y",
		"Func g(x, x) :",
		"    return x",
		"x = 1",
		"  a = 1",
		"for i in 1 to 3 :",
		"    ans(i)",
		"if a < b :",
		"    Func h() :",
		"        return 1",
		"b = 2",
	))

	errs := parser.SyntaxErrors(err)
	r.Len(errs, 5)

	lines := make([]int, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, e.Line)
	}
	r.Equal([]int{3, 5, 8, 9, 12}, lines)

	r.Len(prog.Functions, 1)
	r.Equal([]string{"x = 1", "<if a < b>", "b = 2"}, lineTexts(prog.Body))
}

func TestParseProgram_FunctionWithoutParams(t *testing.T) {
	r := require.New(t)
	p := newParser(t)

	prog, err := p.ParseProgram(parser.Lines(
		"Func hello() :",
		"    ans('hello')",
	))
	r.NoError(err)
	r.Empty(prog.Functions[0].Params)
}

func TestTokens(t *testing.T) {
	r := require.New(t)

	r.True(parser.IsNumber("3"))
	r.True(parser.IsNumber("-2.5"))
	r.True(parser.IsNumber(".5"))
	r.False(parser.IsNumber("inf"))
	r.False(parser.IsNumber("NaN"))
	r.False(parser.IsNumber("-"))
	r.False(parser.IsNumber("a1"))
	r.True(parser.IsNumber("1e3"))
	r.False(parser.IsNumber("-Inf"))
	r.False(parser.IsNumber("0x1p4"))
	r.False(parser.Classifiable("-Inf"))
	r.True(parser.Classifiable("2.5e-3"))

	r.True(parser.IsChar("'a'"))
	r.True(parser.IsChar(`"hello"`))
	r.True(parser.IsChar("''"))
	r.False(parser.IsChar("'a"))
	r.False(parser.IsChar(`'a"`))
	r.Equal("abc", parser.Unquote("'abc'"))

	r.True(parser.IsIdentifier("_a1"))
	r.False(parser.IsIdentifier("1a"))
	r.False(parser.IsIdentifier("a-b"))

	base, idx, ok := parser.ArrayRef("arr[i+1]")
	r.True(ok)
	r.Equal("arr", base)
	r.Equal("i+1", idx)

	base, idx, ok = parser.ArrayRef("m[b[0]]")
	r.True(ok)
	r.Equal("m", base)
	r.Equal("b[0]", idx)

	_, _, ok = parser.ArrayRef("arr[]")
	r.False(ok)
	_, _, ok = parser.ArrayRef("[1]")
	r.False(ok)
	_, _, ok = parser.ArrayRef("a[1]]")
	r.False(ok)

	name, args, ok := parser.SplitCall("pow(2, f(3))")
	r.True(ok)
	r.Equal("pow", name)
	r.Equal("2, f(3)", args)

	_, _, ok = parser.SplitCall("f(a)+g(b)")
	r.False(ok)
	_, _, ok = parser.SplitCall("a+1")
	r.False(ok)
}

func TestLineIndent(t *testing.T) {
	r := require.New(t)

	n, err := parser.Line{Text: "    x = 1"}.Indent()
	r.NoError(err)
	r.Equal(4, n)

	_, err = parser.Line{Text: "  \tx"}.Indent()
	r.Error(err)

	r.True(parser.Line{Text: "   "}.IsBlank())
	r.True(parser.Line{Text: "  %note"}.IsBlank())
	r.Equal("a = 1", parser.Line{Text: "  int a = 1"}.Body())
}

func TestParseParam(t *testing.T) {
	r := require.New(t)

	param, err := parser.ParseParam(" float x ")
	r.NoError(err)
	r.Equal(parser.Param{Name: "x", Type: "float"}, param)

	param, err = parser.ParseParam("y")
	r.NoError(err)
	r.Equal(parser.Param{Name: "y"}, param)

	for _, raw := range []string{"", "int_arr a", "int 1a", "int a b", "number x"} {
		_, err := parser.ParseParam(raw)
		r.Error(err, raw)
	}
}
