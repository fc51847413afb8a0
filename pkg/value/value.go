package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rhino1998/bhask/pkg/kinds"
)

type Value interface {
	Kind() kinds.Kind
	Raw() any
	String() string
}

type Number float64

func (Number) Kind() kinds.Kind { return kinds.Float }

func (n Number) Raw() any { return float64(n) }

func (n Number) String() string {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsInteger reports whether n has no fractional part.
func (n Number) IsInteger() bool {
	return float64(n) == math.Trunc(float64(n))
}

type Chars string

func (Chars) Kind() kinds.Kind { return kinds.Chars }

func (c Chars) Raw() any { return string(c) }

func (c Chars) String() string { return string(c) }

// Array is shared by reference so element assignment is visible through
// every variable that holds it. A 2-D array keeps its rows back to back in
// Elems and has a non-zero Cols.
type Array struct {
	Elem  kinds.Kind
	Elems []Value
	Cols  int
}

func NewArray(elem kinds.Kind, n int) *Array {
	a := &Array{
		Elem:  elem,
		Elems: make([]Value, n),
	}
	for i := range a.Elems {
		a.Elems[i] = Number(0)
	}

	return a
}

func NewArray2D(elem kinds.Kind, rows, cols int) *Array {
	a := NewArray(elem, rows*cols)
	a.Cols = cols

	return a
}

func (*Array) Kind() kinds.Kind { return kinds.Array }

func (a *Array) Raw() any { return a.Elems }

func (a *Array) Is2D() bool {
	return a.Cols > 0
}

func (a *Array) String() string {
	if !a.Is2D() {
		return "[" + join(a.Elems) + "]"
	}

	rows := make([]string, 0, a.Rows())
	for r := range a.Rows() {
		rows = append(rows, "["+join(a.row(r))+"]")
	}

	return "[" + strings.Join(rows, ", ") + "]"
}

func (a *Array) row(r int) []Value {
	return a.Elems[r*a.Cols : (r+1)*a.Cols]
}

// Len is the number of elements of a 1-D array and the number of rows of a
// 2-D one.
func (a *Array) Len() int {
	return a.Rows()
}

func (a *Array) Rows() int {
	if a.Cols == 0 {
		return len(a.Elems)
	}

	return len(a.Elems) / a.Cols
}

func (a *Array) Get(i int) (Value, error) {
	if a.Is2D() {
		return nil, fmt.Errorf("2-D array needs a row and a column index")
	}

	if i < 0 || i >= len(a.Elems) {
		return nil, fmt.Errorf("index %d out of range for array of size %d", i, len(a.Elems))
	}

	return a.Elems[i], nil
}

func (a *Array) Set(i int, v Value) error {
	if a.Is2D() {
		return fmt.Errorf("2-D array needs a row and a column index")
	}

	if i < 0 || i >= len(a.Elems) {
		return fmt.Errorf("index %d out of range for array of size %d", i, len(a.Elems))
	}

	return a.store(i, v)
}

func (a *Array) offset(r, c int) (int, error) {
	if !a.Is2D() {
		return 0, fmt.Errorf("array is not 2-D")
	}

	if r < 0 || r >= a.Rows() || c < 0 || c >= a.Cols {
		return 0, fmt.Errorf("index [%d,%d] out of range for array of size [%d,%d]", r, c, a.Rows(), a.Cols)
	}

	return r*a.Cols + c, nil
}

func (a *Array) GetAt(r, c int) (Value, error) {
	i, err := a.offset(r, c)
	if err != nil {
		return nil, err
	}

	return a.Elems[i], nil
}

func (a *Array) SetAt(r, c int, v Value) error {
	i, err := a.offset(r, c)
	if err != nil {
		return err
	}

	return a.store(i, v)
}

func (a *Array) store(i int, v Value) error {
	v, err := Coerce(v, a.Elem)
	if err != nil {
		return err
	}

	a.Elems[i] = v
	return nil
}

type Tuple []Value

func (Tuple) Kind() kinds.Kind { return kinds.Tuple }

func (t Tuple) Raw() any { return []Value(t) }

func (t Tuple) String() string { return join(t) }

type Unit struct{}

func (Unit) Kind() kinds.Kind { return kinds.Unit }

func (Unit) Raw() any { return nil }

func (Unit) String() string { return "" }

func join(vals []Value) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, v.String())
	}

	return strings.Join(parts, ", ")
}

// Native converts v into the plain Go values used by encoding/json and jq:
// float64, string, []any and nil. NaN and infinities become their string
// form since JSON has no encoding for them.
func Native(v Value) any {
	switch v := v.(type) {
	case Number:
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return v.String()
		}
		return f
	case Chars:
		return string(v)
	case *Array:
		if v.Is2D() {
			out := make([]any, 0, v.Rows())
			for r := range v.Rows() {
				out = append(out, natives(v.row(r)))
			}
			return out
		}
		return natives(v.Elems)
	case Tuple:
		return natives(v)
	default:
		return nil
	}
}

func natives(vals []Value) []any {
	out := make([]any, 0, len(vals))
	for _, v := range vals {
		out = append(out, Native(v))
	}

	return out
}
