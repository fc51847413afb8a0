package expr

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/value"
)

var ErrDivisionByZero = errors.New("division by zero")

var Constants = map[string]value.Number{
	"π": 3.14159265,
	"ë": 2.71828182,
}

type Env interface {
	Lookup(name string) (value.Value, error)
	Call(name string, args []value.Value) (value.Value, error)
}

func Eval(e Expr, env Env) (value.Value, error) {
	switch e := e.(type) {
	case NumberLiteral:
		return value.Number(e), nil
	case CharsLiteral:
		return value.Chars(e), nil
	case Identifier:
		if c, ok := Constants[string(e)]; ok {
			return c, nil
		}
		return env.Lookup(string(e))
	case IndexExpr:
		base, err := env.Lookup(e.Name)
		if err != nil {
			return nil, err
		}

		idx, err := Eval(e.Index, env)
		if err != nil {
			return nil, err
		}

		i, err := value.IntOrFail(idx)
		if err != nil {
			return nil, fmt.Errorf("index of %s: %w", e.Name, err)
		}

		if e.Col != nil {
			arr, ok := base.(*value.Array)
			if !ok {
				return nil, &value.TypeMismatchError{Want: kinds.Array, Got: base.Kind(), Context: e.Name + "[...,...]"}
			}

			col, err := Eval(e.Col, env)
			if err != nil {
				return nil, err
			}

			j, err := value.IntOrFail(col)
			if err != nil {
				return nil, fmt.Errorf("column of %s: %w", e.Name, err)
			}

			return arr.GetAt(i, j)
		}

		switch base := base.(type) {
		case *value.Array:
			return base.Get(i)
		case value.Chars:
			runes := []rune(string(base))
			if i < 0 || i >= len(runes) {
				return nil, fmt.Errorf("index %d out of range for chars of length %d", i, len(runes))
			}
			return value.Chars(runes[i]), nil
		default:
			return nil, &value.TypeMismatchError{Want: kinds.Array, Got: base.Kind(), Context: e.Name + "[...]"}
		}
	case CallExpr:
		args := make([]value.Value, 0, len(e.Args))
		for _, arg := range e.Args {
			v, err := Eval(arg, env)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}

		return env.Call(e.Name, args)
	case LengthExpr:
		v, err := Eval(e.Expr, env)
		if err != nil {
			return nil, err
		}

		switch v := v.(type) {
		case *value.Array:
			return value.Number(v.Len()), nil
		case value.Chars:
			return value.Number(utf8.RuneCountInString(string(v))), nil
		case value.Tuple:
			return value.Number(len(v)), nil
		default:
			return nil, &value.TypeMismatchError{Want: kinds.Array, Got: v.Kind(), Context: "length"}
		}
	case UnaryExpr:
		v, err := Eval(e.Expr, env)
		if err != nil {
			return nil, err
		}

		n, err := value.NumberOrFail(v)
		if err != nil {
			return nil, fmt.Errorf("unary %s: %w", e.Operator, err)
		}

		if e.Operator == "-" {
			return value.Number(-n), nil
		}

		return value.Number(n), nil
	case BinaryExpr:
		lhs, err := Eval(e.Left, env)
		if err != nil {
			return nil, err
		}

		rhs, err := Eval(e.Right, env)
		if err != nil {
			return nil, err
		}

		return binaryOperate(lhs, rhs, e.Operator)
	default:
		return nil, fmt.Errorf("unhandled expression type: %T", e)
	}
}

func binaryOperate(lhs, rhs value.Value, op string) (value.Value, error) {
	if op == "+" {
		lc, lok := lhs.(value.Chars)
		rc, rok := rhs.(value.Chars)
		if lok && rok {
			return lc + rc, nil
		}
	}

	l, err := value.NumberOrFail(lhs)
	if err != nil {
		return nil, fmt.Errorf("left operand of %s: %w", op, err)
	}

	r, err := value.NumberOrFail(rhs)
	if err != nil {
		return nil, fmt.Errorf("right operand of %s: %w", op, err)
	}

	switch op {
	case "+":
		return value.Number(l + r), nil
	case "-":
		return value.Number(l - r), nil
	case "*":
		return value.Number(l * r), nil
	case "/":
		if r == 0 {
			return nil, ErrDivisionByZero
		}
		return value.Number(l / r), nil
	case "^":
		return value.Number(math.Pow(l, r)), nil
	default:
		return nil, fmt.Errorf("unsupported binary operation: %s", op)
	}
}
