package interpreter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
)

type source struct {
	name string
	r    io.Reader
}

type Interpreter struct {
	logger *slog.Logger
	Config Config

	files []source

	store     *Store
	functions *Functions
	resolver  *exprResolver
	loops     *loopRunner
	executor  *Executor
}

func New(logger *slog.Logger, config Config) (*Interpreter, error) {
	err := config.Validate(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to validate interpreter config: %w", err)
	}

	store := NewStore()
	functions := NewFunctions(logger, store)
	resolver := newResolver(store, functions)
	loops := &loopRunner{store: store, resolver: resolver}
	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	lines := &lineProcessor{
		out:      config.Output,
		in:       bufio.NewReader(config.Input),
		rng:      rand.New(rand.NewPCG(seed, seed)),
		store:    store,
		resolver: resolver,
		funcs:    functions,
	}

	executor := NewExecutor(logger, Env{
		Resolver:  resolver,
		Functions: functions,
		Loops:     loops,
		Lines:     lines,
	}, config.MaxDepth)

	functions.Bind(resolver, executor)
	loops.executor = executor

	return &Interpreter{
		logger:    logger,
		Config:    config,
		store:     store,
		functions: functions,
		resolver:  resolver,
		loops:     loops,
		executor:  executor,
	}, nil
}

func (i *Interpreter) AddFile(name string, r io.Reader) {
	i.files = append(i.files, source{name: name, r: r})
}

func (i *Interpreter) newParser(file string) *parser.Parser {
	p := parser.New(i.logger, file)
	p.IndentUnit = i.Config.IndentUnit
	p.MaxDepth = i.Config.MaxParseDepth

	return p
}

// Parse parses every added file. The returned programs are complete for the
// files that parsed and partial for the others; err holds every syntax
// error found.
func (i *Interpreter) Parse() ([]*parser.Program, error) {
	var progs []*parser.Program
	var errs []error

	for _, file := range i.files {
		prog, err := i.newParser(file.name).ParseReader(file.r)
		if err != nil {
			errs = append(errs, err)
		}
		if prog != nil {
			progs = append(progs, prog)
		}
	}
	i.files = nil

	return progs, errors.Join(errs...)
}

// Run parses and executes every added file in order, sharing one global
// scope. Files already run are not run again.
func (i *Interpreter) Run(ctx context.Context) error {
	progs, err := i.Parse()
	if err != nil {
		if i.Config.SyntaxErrors != SyntaxErrorsSkip {
			return err
		}

		if others := parser.OtherErrors(err); len(others) > 0 {
			return errors.Join(others...)
		}

		syntaxErrs := parser.SyntaxErrors(err)

		for _, syntaxErr := range syntaxErrs {
			i.logger.Warn("skipping invalid block", slog.String("error", syntaxErr.Error()))
		}
	}

	err = i.register(progs)
	if err != nil {
		return err
	}

	i.loops.ctx = ctx
	defer func() { i.loops.ctx = nil }()

	for _, prog := range progs {
		err := i.execute(ctx, prog)
		if errors.Is(err, ErrTerminate) {
			i.logger.Debug("program terminated", slog.String("file", prog.File))
			return nil
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (i *Interpreter) register(progs []*parser.Program) error {
	defined := make(map[string]parser.Position)
	for _, prog := range progs {
		for _, decl := range prog.Functions {
			if prev, ok := defined[decl.Name]; ok {
				return decl.WrapError(fmt.Errorf("function %s already defined at %s", decl.Name, prev))
			}
			defined[decl.Name] = decl.Position

			err := i.functions.DefineDecl(decl)
			if err != nil {
				return decl.WrapError(err)
			}
		}
	}

	return nil
}

func (i *Interpreter) execute(ctx context.Context, prog *parser.Program) error {
	for _, stmt := range prog.Body {
		if err := ctx.Err(); err != nil {
			return err
		}

		sig, err := i.executor.ExecuteStatement(stmt, Global(), false)
		if err != nil {
			return err
		}

		if sig.Kind == SignalReturn {
			i.logger.Debug("top-level return", slog.String("file", prog.File), slog.String("value", sig.Value.String()))
			return nil
		}
	}

	return nil
}

func (i *Interpreter) RunSource(ctx context.Context, name, src string) error {
	i.AddFile(name, strings.NewReader(src))
	return i.Run(ctx)
}

// Globals snapshots the global variables.
func (i *Interpreter) Globals() map[string]value.Value {
	out := make(map[string]value.Value)
	for _, name := range i.store.Globals() {
		v, err := i.store.Lookup(name, Global())
		if err == nil {
			out[name] = v.Value()
		}
	}

	return out
}

func (i *Interpreter) Functions() *Functions {
	return i.functions
}

func (i *Interpreter) Executor() *Executor {
	return i.executor
}
