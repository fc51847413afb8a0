// Package repl is the interactive shell around an interpreter.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/rhino1998/bhask/pkg/inspect"
	"github.com/rhino1998/bhask/pkg/interpreter"
)

const (
	DefaultPrompt         = ">>> "
	DefaultContinuePrompt = "... "

	sourceName = "<repl>"
)

type REPL struct {
	logger *slog.Logger
	interp *interpreter.Interpreter

	prompt      string
	historyFile string

	out io.Writer
}

func New(logger *slog.Logger, interp *interpreter.Interpreter, config interpreter.REPLConfig, out io.Writer) *REPL {
	prompt := config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	return &REPL{
		logger:      logger,
		interp:      interp,
		prompt:      prompt,
		historyFile: config.HistoryFile,
		out:         out,
	}
}

func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt,
		HistoryFile:     r.historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	var buf Buffer
	for {
		if ctx.Err() != nil {
			return nil
		}

		if buf.Active() {
			rl.SetPrompt(DefaultContinuePrompt)
		} else {
			rl.SetPrompt(r.prompt)
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if buf.Active() || line != "" {
				buf.Clear()
				continue
			}
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if !buf.Active() && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if r.Command(strings.TrimSpace(line)) {
				return nil
			}
			continue
		}

		src, ok := buf.Add(line)
		if !ok {
			continue
		}

		r.Eval(ctx, src)
	}
}

// Eval runs src against the session's interpreter and reports any error on
// the REPL's output instead of ending the session.
func (r *REPL) Eval(ctx context.Context, src string) {
	r.logger.Debug("evaluating input", slog.Int("lines", strings.Count(src, "\n")+1))

	err := r.interp.RunSource(ctx, sourceName, src)
	if err != nil {
		fmt.Fprint(r.out, pterm.Error.Sprintln(err))
	}
}

// Command handles a ":" command and reports whether the session should end.
func (r *REPL) Command(line string) bool {
	fields := strings.Fields(line)

	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":vars":
		query := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		err := inspect.Dump(r.out, r.interp.Globals(), query)
		if err != nil {
			fmt.Fprint(r.out, pterm.Error.Sprintln(err))
		}
	case ":funcs":
		for _, name := range r.interp.Functions().Names() {
			fmt.Fprintln(r.out, name)
		}
	case ":help":
		fmt.Fprintln(r.out, ":vars [jq query]  show global variables")
		fmt.Fprintln(r.out, ":funcs            list defined functions")
		fmt.Fprintln(r.out, ":quit             leave the session")
	default:
		fmt.Fprint(r.out, pterm.Warning.Sprintln("unknown command "+fields[0]))
	}

	return false
}
