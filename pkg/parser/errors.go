package parser

import (
	"errors"
	"fmt"
)

type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}

	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

func (p Position) Pos() Position {
	return p
}

// WrapError attaches p to err unless err already carries a position.
func (p Position) WrapError(err error) error {
	if err == nil {
		return nil
	}

	var positioned interface{ Pos() Position }
	if errors.As(err, &positioned) {
		return err
	}

	return PositionError{Position: p, Err: err}
}

type PositionError struct {
	Position
	Err error
}

func (e PositionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Position, e.Err)
}

func (e PositionError) Unwrap() error {
	return e.Err
}

type SyntaxError struct {
	Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: incorrect syntax: %s", e.Position, e.Msg)
}

type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

type ErrorSet struct {
	Errs []error
}

func newErrorSet() *ErrorSet {
	return new(ErrorSet)
}

func (e *ErrorSet) Add(err error) {
	if err == nil {
		return
	}

	var subErrs *ErrorSet
	if errors.As(err, &subErrs) {
		e.Errs = append(e.Errs, subErrs.Unwrap()...)
	} else {
		e.Errs = append(e.Errs, err)
	}
}

func (e *ErrorSet) Error() string {
	return errors.Join(e.Errs...).Error()
}

func (e *ErrorSet) Unwrap() []error {
	return e.Errs
}

func (e *ErrorSet) Defer(err error) error {
	if err != nil && e != err {
		e.Add(err)
	}

	if len(e.Errs) == 0 {
		return nil
	}

	return e
}

// SyntaxErrors flattens err into the syntax errors it contains.
func SyntaxErrors(err error) []*SyntaxError {
	if err == nil {
		return nil
	}

	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*SyntaxError
		for _, sub := range multi.Unwrap() {
			out = append(out, SyntaxErrors(sub)...)
		}
		return out
	}

	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return []*SyntaxError{syntaxErr}
	}

	return nil
}

// OtherErrors flattens err into everything in it that is not a syntax error,
// such as a file that could not be read.
func OtherErrors(err error) []error {
	if err == nil {
		return nil
	}

	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, sub := range multi.Unwrap() {
			out = append(out, OtherErrors(sub)...)
		}
		return out
	}

	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return nil
	}

	return []error{err}
}
