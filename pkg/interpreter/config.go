package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/rhino1998/bhask/pkg/parser"
	"gopkg.in/yaml.v3"
)

type SyntaxErrorPolicy string

const (
	// SyntaxErrorsAbort refuses to run a file with any syntax error.
	SyntaxErrorsAbort SyntaxErrorPolicy = "abort"
	// SyntaxErrorsSkip logs each syntax error and runs what did parse.
	SyntaxErrorsSkip SyntaxErrorPolicy = "skip"
)

type REPLConfig struct {
	Prompt      string `yaml:"prompt" toml:"prompt"`
	HistoryFile string `yaml:"history_file" toml:"history_file"`
}

type Config struct {
	IndentUnit    int               `yaml:"indent" toml:"indent"`
	MaxDepth      int               `yaml:"max_depth" toml:"max_depth"`
	MaxParseDepth int               `yaml:"max_parse_depth" toml:"max_parse_depth"`
	SyntaxErrors  SyntaxErrorPolicy `yaml:"syntax_errors" toml:"syntax_errors"`
	LogLevel      string            `yaml:"log_level" toml:"log_level"`
	REPL          REPLConfig        `yaml:"repl" toml:"repl"`

	// Seed fixes the values of arrays declared over R or N. Zero picks a
	// random seed.
	Seed uint64 `yaml:"seed" toml:"seed"`

	// Output receives ans(...) lines and ask(...) prompts. Defaults to
	// os.Stdout.
	Output io.Writer `yaml:"-" toml:"-"`
	// Input answers ask(...). Defaults to os.Stdin.
	Input  io.Reader `yaml:"-" toml:"-"`
}

func (c *Config) Validate(logger *slog.Logger) error {
	if c.IndentUnit == 0 {
		c.IndentUnit = parser.DefaultIndentUnit
	}
	if c.IndentUnit < 0 {
		return fmt.Errorf("indent must be positive, got %d", c.IndentUnit)
	}

	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}

	if c.MaxParseDepth == 0 {
		c.MaxParseDepth = parser.DefaultMaxDepth
	}
	if c.MaxParseDepth < 0 {
		return fmt.Errorf("max_parse_depth must be positive, got %d", c.MaxParseDepth)
	}

	switch c.SyntaxErrors {
	case "":
		c.SyntaxErrors = SyntaxErrorsAbort
	case SyntaxErrorsAbort, SyntaxErrorsSkip:
	default:
		return fmt.Errorf("syntax_errors must be %q or %q, got %q", SyntaxErrorsAbort, SyntaxErrorsSkip, c.SyntaxErrors)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Output == nil {
		c.Output = os.Stdout
	}

	if c.Input == nil {
		c.Input = os.Stdin
	}

	logger.Debug("validated config",
		slog.Int("indent", c.IndentUnit),
		slog.Int("max_depth", c.MaxDepth),
		slog.Int("max_parse_depth", c.MaxParseDepth),
		slog.String("syntax_errors", string(c.SyntaxErrors)),
	)

	return nil
}

// Level parses LogLevel. An empty level is info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return level, nil
}

// LoadConfig reads a YAML or TOML config file, chosen by extension.
func LoadConfig(path string) (Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	case ".toml":
		err = toml.Unmarshal(data, &config)
	default:
		return config, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}
