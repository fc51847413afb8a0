package interpreter_test

import (
	"testing"

	"github.com/rhino1998/bhask/pkg/interpreter"
	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
	"github.com/stretchr/testify/require"
)

func cond(lhs string, op parser.Comparator, rhs string) *parser.Expression {
	return &parser.Expression{LHS: parser.Operand(lhs), Op: op, RHS: parser.Operand(rhs)}
}

func TestEvaluate_Numeric(t *testing.T) {
	vars := map[string]value.Value{
		"three": value.Number(3),
		"five":  value.Number(5),
	}

	tests := []struct {
		op   parser.Comparator
		lhs  string
		rhs  string
		want bool
	}{
		{parser.Eq, "three", "3", true},
		{parser.Eq, "three", "five", false},
		{parser.Ne, "three", "five", true},
		{parser.Ne, "five", "5.0", false},
		{parser.Lt, "three", "five", true},
		{parser.Lt, "five", "five", false},
		{parser.Le, "five", "five", true},
		{parser.Le, "five", "three", false},
		{parser.Gt, "five", "three", true},
		{parser.Gt, "three", "3", false},
		{parser.Ge, "three", "3", true},
		{parser.Ge, "-1", "three", false},
	}

	for _, tt := range tests {
		name := tt.lhs + " " + tt.op.String() + " " + tt.rhs
		t.Run(name, func(t *testing.T) {
			r := require.New(t)
			h := newHarness(t, vars)

			got, err := h.executor.Evaluate(cond(tt.lhs, tt.op, tt.rhs), interpreter.Global())
			r.NoError(err)
			r.Equal(tt.want, got)
		})
	}
}

func TestEvaluate_CharLiterals(t *testing.T) {
	tests := []struct {
		lhs  string
		op   parser.Comparator
		rhs  string
		want bool
	}{
		{"'ab'", parser.MemberOf, "'xaby'", true},
		{"'ab'", parser.NotMemberOf, "'xaby'", false},
		{"'ba'", parser.MemberOf, "'xaby'", false},
		{`"abc"`, parser.Lt, "'abd'", true},
		{"'a'", parser.Eq, "'a'", true},
		{"'a'", parser.Ne, "'a'", false},
		{"''", parser.MemberOf, "'x'", true},
	}

	for _, tt := range tests {
		t.Run(tt.lhs+" "+tt.op.String()+" "+tt.rhs, func(t *testing.T) {
			r := require.New(t)
			h := newHarness(t, nil)

			got, err := h.executor.Evaluate(cond(tt.lhs, tt.op, tt.rhs), interpreter.Global())
			r.NoError(err)
			r.Equal(tt.want, got)
		})
	}
}

func TestEvaluate_Membership(t *testing.T) {
	arr := value.NewArray(kinds.Int, 3)
	for i, n := range []float64{1, 3, 5} {
		require.NoError(t, arr.Set(i, value.Number(n)))
	}

	vars := map[string]value.Value{
		"arr":   arr,
		"word":  value.Chars("x12y"),
		"near":  value.Number(3.7),
		"four":  value.Number(4),
		"digit": value.Number(12),
	}

	tests := []struct {
		lhs  string
		rhs  string
		want bool
	}{
		{"near", "arr", true},
		{"four", "arr", false},
		{"1", "arr", true},
		{"digit", "word", true},
		{"four", "word", false},
		{"'2y'", "word", true},
	}

	for _, tt := range tests {
		t.Run(tt.lhs+" in "+tt.rhs, func(t *testing.T) {
			r := require.New(t)
			h := newHarness(t, vars)

			in, err := h.executor.Evaluate(cond(tt.lhs, parser.MemberOf, tt.rhs), interpreter.Global())
			r.NoError(err)
			r.Equal(tt.want, in)

			notIn, err := h.executor.Evaluate(cond(tt.lhs, parser.NotMemberOf, tt.rhs), interpreter.Global())
			r.NoError(err)
			r.Equal(!in, notIn)
		})
	}
}

func TestEvaluate_CharVariables(t *testing.T) {
	r := require.New(t)
	h := newHarness(t, map[string]value.Value{
		"name":  value.Chars("bob"),
		"other": value.Chars("alice"),
	})

	got, err := h.executor.Evaluate(cond("name", parser.Gt, "other"), interpreter.Global())
	r.NoError(err)
	r.True(got)

	got, err = h.executor.Evaluate(cond("name", parser.Eq, "'bob'"), interpreter.Global())
	r.NoError(err)
	r.True(got)
}

func TestEvaluate_TypeMismatch(t *testing.T) {
	r := require.New(t)
	h := newHarness(t, map[string]value.Value{
		"name":  value.Chars("bob"),
		"count": value.Number(1),
	})

	_, err := h.executor.Evaluate(cond("name", parser.Eq, "count"), interpreter.Global())

	var mismatch *interpreter.TypeMismatchError
	r.ErrorAs(err, &mismatch)
	r.Equal(kinds.Chars, mismatch.Want)
	r.Equal(kinds.Float, mismatch.Got)

	_, err = h.executor.Evaluate(cond("count", parser.MemberOf, "count"), interpreter.Global())
	r.ErrorAs(err, &mismatch)
	r.Equal(kinds.Array, mismatch.Want)
}

func TestEvaluate_Undefined(t *testing.T) {
	r := require.New(t)
	h := newHarness(t, nil)

	_, err := h.executor.Evaluate(cond("missing", parser.Lt, "1"), interpreter.Local("f#1"))

	var undefined *interpreter.UndefinedVariableError
	r.ErrorAs(err, &undefined)
	r.Equal("missing", undefined.Name)
	r.Equal(interpreter.Local("f#1"), undefined.Scope)
}

func TestEvaluate_NilConditionHolds(t *testing.T) {
	r := require.New(t)
	h := newHarness(t, nil)

	ok, err := h.executor.Evaluate(nil, interpreter.Global())
	r.NoError(err)
	r.True(ok)
}
