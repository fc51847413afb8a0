package interpreter

import (
	"errors"
	"fmt"

	"github.com/rhino1998/bhask/pkg/value"
)

var (
	ErrMaxDepth  = errors.New("maximum execution depth exceeded")
	ErrTerminate = errors.New("terminate")
)

type TypeMismatchError = value.TypeMismatchError

type UndefinedVariableError struct {
	Name  string
	Scope Scope
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %s in %s scope", e.Name, e.Scope)
}

type UndefinedFunctionError struct {
	Name string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %s", e.Name)
}
