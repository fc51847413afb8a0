package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rhino1998/bhask/pkg/expr"
	"github.com/rhino1998/bhask/pkg/kinds"
)

// ParseReader reads and parses a whole source file.
func (p *Parser) ParseReader(r io.Reader) (*Program, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, FileError{File: p.File, Err: err}
	}

	return p.ParseProgram(lines)
}

// ParseProgram parses top-level statements. Block functions are hoisted out
// of the statement list into Functions. Syntax errors are collected and
// returned together with everything that did parse.
func (p *Parser) ParseProgram(lines []Line) (*Program, error) {
	prog := &Program{File: p.File}
	errs := newErrorSet()

	defined := make(map[string]Position)

	i := 0
	for i < len(lines) {
		line := lines[i]
		if line.IsBlank() {
			i++
			continue
		}

		indent, err := line.Indent()
		if err != nil {
			errs.Add(p.syntaxError(line, "%v", err))
			i++
			continue
		}

		if indent != 0 {
			errs.Add(p.syntaxError(line, "unexpected indentation: expected 0 spaces, found %d", indent))
			i++
			continue
		}

		if Keyword(line.Keyword()) == KeywordFunc {
			fn, n, err := p.parseFunction(lines[i:])
			errs.Add(err)
			if fn != nil {
				if prev, ok := defined[fn.Name]; ok {
					errs.Add(p.syntaxError(line, "function %s already defined at %s", fn.Name, prev))
				} else {
					defined[fn.Name] = fn.Position
					prog.Functions = append(prog.Functions, fn)
				}
			}
			i += max(n, 1)
			continue
		}

		stmt, n, err := p.parseStatement(lines[i:], 0, 0)
		errs.Add(err)
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		i += max(n, 1)
	}

	p.logger.Debug("parsed program",
		slog.String("file", p.File),
		slog.Int("lines", len(lines)),
		slog.Int("functions", len(prog.Functions)),
		slog.Int("statements", len(prog.Body)),
	)

	return prog, errs.Defer(nil)
}

func (p *Parser) parseFunction(lines []Line) (*FunctionDecl, int, error) {
	header := lines[0]
	fields := header.Fields()

	usage := func() (*FunctionDecl, int, error) {
		return nil, p.SkipBlock(lines, 0, false), p.syntaxError(header, "%q: expected '%s <name>(<params>) %s'", header.Text, KeywordFunc, BlockTerminator)
	}

	if len(fields) < 3 || fields[len(fields)-1] != BlockTerminator {
		return usage()
	}

	sig := strings.Join(fields[1:len(fields)-1], " ")
	name, args, ok := SplitCall(sig)
	if !ok {
		return usage()
	}

	fn := &FunctionDecl{
		Name:     name,
		Position: p.position(header),
	}

	seen := make(map[string]bool)
	if strings.TrimSpace(args) != "" {
		for _, raw := range expr.SplitTopLevel(args, ',') {
			param, err := p.parseParam(header, raw)
			if err != nil {
				return nil, p.SkipBlock(lines, 0, false), err
			}

			if seen[param.Name] {
				return nil, p.SkipBlock(lines, 0, false), p.syntaxError(header, "duplicate parameter %s", param.Name)
			}
			seen[param.Name] = true

			fn.Params = append(fn.Params, param)
		}
	}

	body, n, err := p.ParseBody(lines[1:], 0, 1)
	fn.Body = body

	return fn, 1 + n, err
}

func (p *Parser) parseParam(header Line, raw string) (Param, error) {
	param, err := ParseParam(raw)
	if err != nil {
		return Param{}, p.syntaxError(header, "%v", err)
	}

	return param, nil
}

// ParseParam parses one "name" or "<type> name" function parameter.
func ParseParam(raw string) (Param, error) {
	fields := strings.Fields(raw)

	var param Param
	switch len(fields) {
	case 1:
		param.Name = fields[0]
	case 2:
		if !kinds.IsScalarKeyword(fields[0]) {
			return Param{}, fmt.Errorf("unknown parameter type %q", fields[0])
		}
		param.Type, param.Name = fields[0], fields[1]
	default:
		return Param{}, fmt.Errorf("invalid parameter %q", raw)
	}

	if !IsIdentifier(param.Name) {
		return Param{}, fmt.Errorf("invalid parameter name %q", param.Name)
	}

	return param, nil
}

func (fn *FunctionDecl) String() string {
	params := make([]string, 0, len(fn.Params))
	for _, param := range fn.Params {
		if param.Type != "" {
			params = append(params, param.Type+" "+param.Name)
		} else {
			params = append(params, param.Name)
		}
	}

	return fmt.Sprintf("%s(%s)", fn.Name, strings.Join(params, ", "))
}
