package interpreter

import (
	"fmt"

	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/value"
)

// Variable is a named slot whose declared type is enforced on every write.
// Untyped slots (Kind Unknown) take any value.
type Variable struct {
	typ   kinds.Declared
	value value.Value
}

func NewVariable(typ kinds.Declared, val value.Value) (*Variable, error) {
	v := &Variable{typ: typ}
	if val == nil {
		v.value = zero(typ)
		return v, nil
	}

	err := v.Set(val)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func zero(typ kinds.Declared) value.Value {
	if typ.Kind == kinds.Array {
		return value.NewArray(typ.Elem, 0)
	}

	return value.Zero(typ.Kind)
}

func (v *Variable) Type() kinds.Declared {
	return v.typ
}

func (v *Variable) Value() value.Value {
	return v.value
}

func (v *Variable) Set(val value.Value) error {
	coerced, err := value.Coerce(val, v.typ.Kind)
	if err != nil {
		return err
	}

	if arr, ok := coerced.(*value.Array); ok && v.typ.Kind == kinds.Array && arr.Elem != v.typ.Elem {
		return fmt.Errorf("cannot assign %s array to %s", arr.Elem, v.typ)
	}

	v.value = coerced
	return nil
}
