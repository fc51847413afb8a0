package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/rhino1998/bhask/pkg/inspect"
	"github.com/rhino1998/bhask/pkg/interpreter"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/repl"
	"github.com/urfave/cli/v3"
)

const sourceExt = ".bhask"

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "load settings from a YAML or TOML file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "log at debug level",
		},
		&cli.IntFlag{
			Name:  "indent",
			Usage: "spaces per indentation level",
		},
		&cli.BoolFlag{
			Name:  "skip-syntax-errors",
			Usage: "run files with syntax errors, leaving out the invalid blocks",
		},
	}
}

func loadConfig(c *cli.Command) (interpreter.Config, error) {
	var config interpreter.Config

	if path := c.String("config"); path != "" {
		var err error
		config, err = interpreter.LoadConfig(path)
		if err != nil {
			return config, err
		}
	}

	if c.IsSet("indent") {
		config.IndentUnit = int(c.Int("indent"))
	}

	if c.Bool("skip-syntax-errors") {
		config.SyntaxErrors = interpreter.SyntaxErrorsSkip
	}

	if c.Bool("debug") {
		config.LogLevel = "debug"
	}

	return config, nil
}

func newLogger(config interpreter.Config) (*slog.Logger, error) {
	level, err := config.Level()
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func newInterpreter(c *cli.Command) (*interpreter.Interpreter, *slog.Logger, error) {
	config, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(config)
	if err != nil {
		return nil, nil, err
	}

	interp, err := interpreter.New(logger, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}

	return interp, logger, nil
}

// addSources adds path, or every source file in it when it is a directory.
func addSources(interp *interpreter.Interpreter, path string) ([]io.Closer, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	files := []string{path}
	if stat.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*"+sourceExt))
		if err != nil {
			return nil, fmt.Errorf("failed to find source files in directory: %w", err)
		}
	}

	var closers []io.Closer
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		interp.AddFile(file, f)
		closers = append(closers, f)
	}

	return closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:  "bhask",
		Usage: "Run indentation-structured bhask programs",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a source file or every source file in a directory",
				ArgsUsage: "<file or directory>",
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "dump-vars",
						Usage: "print the global variables as JSON when the program ends",
					},
					&cli.StringFlag{
						Name:  "jq",
						Usage: "filter --dump-vars output through a jq query",
					},
				),
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("must provide one source file or directory as argument")
					}

					interp, _, err := newInterpreter(c)
					if err != nil {
						return err
					}

					closers, err := addSources(interp, c.Args().First())
					if err != nil {
						return err
					}
					defer closeAll(closers)

					err = interp.Run(ctx)
					if err != nil {
						return err
					}

					if c.Bool("dump-vars") || c.String("jq") != "" {
						return inspect.Dump(os.Stdout, interp.Globals(), c.String("jq"))
					}

					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Report syntax errors without running anything",
				ArgsUsage: "<file or directory>",
				Flags:     commonFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("must provide one source file or directory as argument")
					}

					interp, _, err := newInterpreter(c)
					if err != nil {
						return err
					}

					closers, err := addSources(interp, c.Args().First())
					if err != nil {
						return err
					}
					defer closeAll(closers)

					progs, err := interp.Parse()
					if err != nil {
						syntaxErrs := parser.SyntaxErrors(err)
						if len(syntaxErrs) == 0 {
							return err
						}

						for _, syntaxErr := range syntaxErrs {
							pterm.Error.Println(syntaxErr)
						}
						return fmt.Errorf("found %d syntax errors", len(syntaxErrs))
					}

					pterm.Success.Printf("%d files parsed without errors\n", len(progs))
					return nil
				},
			},
			{
				Name:      "repl",
				Usage:     "Start an interactive session",
				ArgsUsage: "[file or directory to load first]",
				Flags:     commonFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					interp, logger, err := newInterpreter(c)
					if err != nil {
						return err
					}

					if c.Args().Len() > 0 {
						closers, err := addSources(interp, c.Args().First())
						if err != nil {
							return err
						}

						err = interp.Run(ctx)
						closeAll(closers)
						if err != nil {
							return err
						}
					}

					return repl.New(logger, interp, interp.Config.REPL, os.Stdout).Run(ctx)
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
