package interpreter_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/bhask/pkg/interpreter"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	r := require.New(t)

	config, err := interpreter.LoadConfig(writeFile(t, "bhask.yaml", `
indent: 2
max_depth: 32
syntax_errors: skip
log_level: debug
seed: 42
repl:
  prompt: "bhask> "
  history_file: /tmp/bhask_history
`))
	r.NoError(err)
	r.Equal(2, config.IndentUnit)
	r.Equal(32, config.MaxDepth)
	r.Equal(interpreter.SyntaxErrorsSkip, config.SyntaxErrors)
	r.Equal(uint64(42), config.Seed)
	r.Equal("bhask> ", config.REPL.Prompt)
	r.Equal("/tmp/bhask_history", config.REPL.HistoryFile)

	level, err := config.Level()
	r.NoError(err)
	r.Equal(slog.LevelDebug, level)
}

func TestLoadConfig_TOML(t *testing.T) {
	r := require.New(t)

	config, err := interpreter.LoadConfig(writeFile(t, "bhask.toml", `
indent = 8
max_parse_depth = 10
syntax_errors = "abort"

[repl]
prompt = "> "
`))
	r.NoError(err)
	r.Equal(8, config.IndentUnit)
	r.Equal(10, config.MaxParseDepth)
	r.Equal(interpreter.SyntaxErrorsAbort, config.SyntaxErrors)
	r.Equal("> ", config.REPL.Prompt)
}

func TestLoadConfig_Errors(t *testing.T) {
	r := require.New(t)

	_, err := interpreter.LoadConfig(writeFile(t, "bhask.json", `{}`))
	r.ErrorContains(err, "unsupported config format")

	_, err = interpreter.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	r.Error(err)

	_, err = interpreter.LoadConfig(writeFile(t, "broken.yaml", "indent: [1"))
	r.Error(err)
}

func TestConfig_Validate(t *testing.T) {
	logger := slogt.New(t)

	t.Run("defaults", func(t *testing.T) {
		r := require.New(t)

		var config interpreter.Config
		r.NoError(config.Validate(logger))
		r.Equal(4, config.IndentUnit)
		r.Equal(interpreter.DefaultMaxDepth, config.MaxDepth)
		r.Equal(64, config.MaxParseDepth)
		r.Equal(interpreter.SyntaxErrorsAbort, config.SyntaxErrors)
		r.NotNil(config.Output)
	})

	for name, config := range map[string]interpreter.Config{
		"negative indent": {IndentUnit: -1},
		"negative depth":  {MaxDepth: -4},
		"bad policy":      {SyntaxErrors: "ignore"},
		"bad level":       {LogLevel: "loud"},
	} {
		t.Run(name, func(t *testing.T) {
			require.Error(t, config.Validate(logger))
		})
	}
}
