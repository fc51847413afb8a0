package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rhino1998/bhask/pkg/kinds"
)

type TypeMismatchError struct {
	Want    kinds.Kind
	Got     kinds.Kind
	Context string
}

func (e *TypeMismatchError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, e.Got)
	}

	return fmt.Sprintf("type mismatch in %s: expected %s, got %s", e.Context, e.Want, e.Got)
}

func kindOf(v Value) kinds.Kind {
	if v == nil {
		return kinds.Unknown
	}

	return v.Kind()
}

func NumberOrFail(v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, &TypeMismatchError{Want: kinds.Float, Got: kindOf(v)}
	}

	return float64(n), nil
}

func IntOrFail(v Value) (int, error) {
	n, err := NumberOrFail(v)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%v is not a valid integer", n)
	}

	return int(n), nil
}

func CharsOrFail(v Value) (string, error) {
	c, ok := v.(Chars)
	if !ok {
		return "", &TypeMismatchError{Want: kinds.Chars, Got: kindOf(v)}
	}

	return string(c), nil
}

func ArrayOrFail(v Value) (*Array, error) {
	a, ok := v.(*Array)
	if !ok {
		return nil, &TypeMismatchError{Want: kinds.Array, Got: kindOf(v)}
	}

	return a, nil
}

// Coerce converts v to the representation stored in a variable of kind k.
// Ints are truncated toward zero.
func Coerce(v Value, k kinds.Kind) (Value, error) {
	switch k {
	case kinds.Int:
		n, err := NumberOrFail(v)
		if err != nil {
			return nil, err
		}
		return Number(math.Trunc(n)), nil
	case kinds.Float:
		n, err := NumberOrFail(v)
		if err != nil {
			return nil, err
		}
		return Number(n), nil
	case kinds.Chars:
		s, err := CharsOrFail(v)
		if err != nil {
			return nil, err
		}
		return Chars(s), nil
	case kinds.Array:
		return ArrayOrFail(v)
	default:
		return v, nil
	}
}

// Key is the string form used for membership tests. Numbers are truncated
// to an integer.
func Key(v Value) string {
	switch v := v.(type) {
	case Number:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v.String()
		}
		return strconv.FormatInt(int64(f), 10)
	case nil:
		return ""
	default:
		return v.String()
	}
}

func Zero(k kinds.Kind) Value {
	switch k {
	case kinds.Chars:
		return Chars("")
	case kinds.Int, kinds.Float:
		return Number(0)
	default:
		return Unit{}
	}
}
