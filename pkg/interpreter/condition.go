package interpreter

import (
	"fmt"
	"strings"

	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
	"golang.org/x/exp/constraints"
)

// Evaluate decides a condition in scope. A nil condition is an else branch
// and always holds.
func (e *Executor) Evaluate(cond *parser.Expression, scope Scope) (bool, error) {
	if cond == nil {
		return true, nil
	}

	r := e.env.Resolver
	lhs, rhs := string(cond.LHS), string(cond.RHS)

	if r.IsChar(lhs) && r.IsChar(rhs) {
		return compareChars(parser.Unquote(lhs), parser.Unquote(rhs), cond.Op)
	}

	if cond.Op.IsMembership() {
		ok, err := e.member(lhs, rhs, scope)
		if err != nil {
			return false, err
		}

		if cond.Op == parser.NotMemberOf {
			return !ok, nil
		}
		return ok, nil
	}

	l, err := r.FetchValue(lhs, scope)
	if err != nil {
		return false, err
	}

	rv, err := r.FetchValue(rhs, scope)
	if err != nil {
		return false, err
	}

	switch l := l.(type) {
	case value.Number:
		n, ok := rv.(value.Number)
		if !ok {
			return false, &TypeMismatchError{Want: kinds.Float, Got: rv.Kind(), Context: cond.String()}
		}
		return compare(float64(l), float64(n), cond.Op)
	case value.Chars:
		c, ok := rv.(value.Chars)
		if !ok {
			return false, &TypeMismatchError{Want: kinds.Chars, Got: rv.Kind(), Context: cond.String()}
		}
		return compare(string(l), string(c), cond.Op)
	default:
		return false, &TypeMismatchError{Want: kinds.Float, Got: l.Kind(), Context: cond.String()}
	}
}

// member tests lhs against a chars value (substring) or an array (element).
// Numbers on either side are compared in their truncated integer form.
func (e *Executor) member(lhs, rhs string, scope Scope) (bool, error) {
	r := e.env.Resolver

	needle, err := r.FetchValue(lhs, scope)
	if err != nil {
		return false, err
	}
	key := value.Key(needle)

	haystack, err := r.FetchValue(rhs, scope)
	if err != nil {
		return false, err
	}

	switch haystack := haystack.(type) {
	case value.Chars:
		return strings.Contains(string(haystack), key), nil
	case *value.Array:
		for _, elem := range haystack.Elems {
			if value.Key(elem) == key {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &TypeMismatchError{Want: kinds.Array, Got: haystack.Kind(), Context: "membership test on " + rhs}
	}
}

func compareChars(lhs, rhs string, op parser.Comparator) (bool, error) {
	switch op {
	case parser.MemberOf:
		return strings.Contains(rhs, lhs), nil
	case parser.NotMemberOf:
		return !strings.Contains(rhs, lhs), nil
	default:
		return compare(lhs, rhs, op)
	}
}

func compare[T constraints.Ordered](lhs, rhs T, op parser.Comparator) (bool, error) {
	switch op {
	case parser.Eq:
		return lhs == rhs, nil
	case parser.Ne:
		return lhs != rhs, nil
	case parser.Lt:
		return lhs < rhs, nil
	case parser.Le:
		return lhs <= rhs, nil
	case parser.Gt:
		return lhs > rhs, nil
	case parser.Ge:
		return lhs >= rhs, nil
	default:
		return false, fmt.Errorf("comparator %s does not order values", op)
	}
}
