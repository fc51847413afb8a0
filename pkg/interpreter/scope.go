package interpreter

import (
	"fmt"
	"maps"
	"slices"
)

type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeLocal
)

// Scope names where a lookup starts. A Local scope falls back to Global.
type Scope struct {
	Kind  ScopeKind
	Frame string
}

func Global() Scope {
	return Scope{Kind: ScopeGlobal}
}

func Local(frame string) Scope {
	return Scope{Kind: ScopeLocal, Frame: frame}
}

func (s Scope) String() string {
	if s.Kind == ScopeLocal {
		return "local " + s.Frame
	}

	return "global"
}

type Frame struct {
	parent *Frame
	name   string
	vars   map[string]*Variable
}

func newFrame(parent *Frame, name string) *Frame {
	return &Frame{
		parent: parent,
		name:   name,
		vars:   make(map[string]*Variable),
	}
}

func (f *Frame) Name() string {
	return f.name
}

func (f *Frame) Get(name string) (*Variable, bool) {
	if f == nil {
		return nil, false
	}

	v, ok := f.vars[name]
	if ok {
		return v, true
	}

	return f.parent.Get(name)
}

// Put declares name in f itself. Redeclaring a name replaces it.
func (f *Frame) Put(name string, v *Variable) {
	f.vars[name] = v
}

// Store owns the global frame and every live function frame.
type Store struct {
	global *Frame
	frames map[string]*Frame
	calls  map[string]int
}

func NewStore() *Store {
	return &Store{
		global: newFrame(nil, "global"),
		frames: make(map[string]*Frame),
		calls:  make(map[string]int),
	}
}

func (s *Store) Frame(scope Scope) (*Frame, error) {
	if scope.Kind == ScopeGlobal {
		return s.global, nil
	}

	f, ok := s.frames[scope.Frame]
	if !ok {
		return nil, fmt.Errorf("no live frame %q", scope.Frame)
	}

	return f, nil
}

// Push opens a fresh frame for a call of fn. Frame names are unique for the
// lifetime of the store, so recursive calls never share variables.
func (s *Store) Push(fn string) Scope {
	s.calls[fn]++
	name := fmt.Sprintf("%s#%d", fn, s.calls[fn])
	s.frames[name] = newFrame(s.global, name)

	return Local(name)
}

func (s *Store) Pop(scope Scope) {
	if scope.Kind == ScopeLocal {
		delete(s.frames, scope.Frame)
	}
}

func (s *Store) Lookup(name string, scope Scope) (*Variable, error) {
	f, err := s.Frame(scope)
	if err != nil {
		return nil, err
	}

	v, ok := f.Get(name)
	if !ok {
		return nil, &UndefinedVariableError{Name: name, Scope: scope}
	}

	return v, nil
}

func (s *Store) Declare(name string, v *Variable, scope Scope) error {
	f, err := s.Frame(scope)
	if err != nil {
		return err
	}

	f.Put(name, v)
	return nil
}

// Globals returns the names of all global variables in sorted order.
func (s *Store) Globals() []string {
	return slices.Sorted(maps.Keys(s.global.vars))
}

func (s *Store) Live() int {
	return len(s.frames)
}
