package parser

import (
	"fmt"
	"log/slog"
)

const (
	DefaultIndentUnit = 4
	DefaultMaxDepth   = 64
)

type Mode int

const (
	ModeIf Mode = iota
	ModeElse
)

func (m Mode) String() string {
	switch m {
	case ModeIf:
		return "if"
	case ModeElse:
		return "else"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// LoopParser parses the loop block starting at lines[0], whose header is
// indented by indent, and reports how many lines it consumed.
type LoopParser interface {
	ParseLoop(p *Parser, lines []Line, indent, depth int) (handle any, consumed int, err error)
}

type Parser struct {
	logger *slog.Logger

	File       string
	IndentUnit int
	MaxDepth   int
	Loops      LoopParser
}

func New(logger *slog.Logger, file string) *Parser {
	return &Parser{
		logger:     logger,
		File:       file,
		IndentUnit: DefaultIndentUnit,
		MaxDepth:   DefaultMaxDepth,
		Loops:      ForLoopParser{},
	}
}

func (p *Parser) position(line Line) Position {
	return Position{File: p.File, Line: line.Number}
}

func (p *Parser) syntaxError(line Line, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Position: p.position(line),
		Msg:      fmt.Sprintf(format, args...),
	}
}

// Parse parses the block whose header is lines[0] and whose header is
// indented by baseIndent. In ModeIf a sibling else block at baseIndent is
// folded into the returned node. In ModeElse the returned node has no
// condition and the body is in ElseBody, ready to be merged into the
// parent.
//
// The consumed count is always valid, even when err is non-nil: a rejected
// header consumes its whole block so the caller can resume after it.
func (p *Parser) Parse(lines []Line, mode Mode, baseIndent int) (*ConditionalNode, int, error) {
	return p.parse(lines, mode, baseIndent, 0)
}

func (p *Parser) parse(lines []Line, mode Mode, base, depth int) (*ConditionalNode, int, error) {
	if len(lines) == 0 {
		return nil, 0, fmt.Errorf("no lines to parse for %s block", mode)
	}

	header := lines[0]

	var cond *Expression
	var err error
	switch mode {
	case ModeIf:
		cond, err = p.parseCondition(header, KeywordIf)
	case ModeElse:
		err = p.parseElseHeader(header)
	default:
		err = p.syntaxError(header, "unknown block mode %s", mode)
	}
	if err != nil {
		return nil, p.SkipBlock(lines, base, mode == ModeIf), err
	}

	errs := newErrorSet()

	body, n, err := p.ParseBody(lines[1:], base, depth)
	errs.Add(err)
	consumed := 1 + n

	node := &ConditionalNode{Position: p.position(header)}
	if mode == ModeElse {
		node.ElseBody = body
		return node, consumed, errs.Defer(nil)
	}

	node.Condition = cond
	node.IfBody = body

	if consumed < len(lines) && p.isElseAt(lines[consumed], base) {
		elseNode, m, err := p.parse(lines[consumed:], ModeElse, base, depth)
		errs.Add(err)
		if elseNode != nil {
			node.ElseBody = append(node.ElseBody, elseNode.ElseBody...)
		}
		consumed += m
	}

	p.logger.Debug("parsed conditional block",
		slog.String("position", node.Position.String()),
		slog.String("condition", cond.String()),
		slog.Int("if", len(node.IfBody)),
		slog.Int("else", len(node.ElseBody)),
		slog.Int("consumed", consumed),
	)

	return node, consumed, errs.Defer(nil)
}

func (p *Parser) isElseAt(line Line, indent int) bool {
	if line.IsBlank() || Keyword(line.Keyword()) != KeywordElse {
		return false
	}

	n, err := line.Indent()
	return err == nil && n == indent
}

func (p *Parser) parseCondition(line Line, kw Keyword) (*Expression, error) {
	fields := line.Fields()
	if len(fields) != 5 {
		return nil, p.syntaxError(line, "%q: expected '%s <lhs> <op> <rhs> %s'", line.Text, kw, BlockTerminator)
	}

	if Keyword(fields[0]) != kw {
		return nil, p.syntaxError(line, "%q: expected %q", line.Text, kw)
	}

	if fields[4] != BlockTerminator {
		return nil, p.syntaxError(line, "%q: missing trailing %q", line.Text, BlockTerminator)
	}

	op, ok := ParseComparator(fields[2])
	if !ok {
		return nil, p.syntaxError(line, "%q: unknown comparator %q", line.Text, fields[2])
	}

	lhs, rhs := fields[1], fields[3]
	if !Classifiable(lhs) && !Classifiable(rhs) {
		return nil, p.syntaxError(line, "%q: neither %q nor %q is a number, chars, array element or identifier", line.Text, lhs, rhs)
	}

	return &Expression{LHS: Operand(lhs), Op: op, RHS: Operand(rhs)}, nil
}

func (p *Parser) parseElseHeader(line Line) error {
	fields := line.Fields()
	if len(fields) != 2 || Keyword(fields[0]) != KeywordElse || fields[1] != BlockTerminator {
		return p.syntaxError(line, "%q: expected '%s %s'", line.Text, KeywordElse, BlockTerminator)
	}

	return nil
}

// ParseBody scans the body lines of a block whose header is indented by
// base. It stops at the first non-blank line indented by base or less and
// returns the number of lines consumed, including blank lines.
func (p *Parser) ParseBody(lines []Line, base, depth int) ([]Statement, int, error) {
	errs := newErrorSet()

	var body []Statement
	want := base + p.IndentUnit

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

		if indent <= base {
			break
		}

		if indent != want {
			errs.Add(p.syntaxError(line, "unexpected indentation: expected %d spaces, found %d", want, indent))
			i++
			continue
		}

		stmt, n, err := p.parseStatement(lines[i:], indent, depth)
		errs.Add(err)
		if stmt != nil {
			body = append(body, stmt)
		}
		i += max(n, 1)
	}

	return body, i, errs.Defer(nil)
}

func (p *Parser) parseStatement(lines []Line, indent, depth int) (Statement, int, error) {
	line := lines[0]
	kw := Keyword(line.Keyword())

	switch kw {
	case KeywordIf, KeywordFor, KeywordWhile:
		if depth >= p.MaxDepth {
			return nil, p.SkipBlock(lines, indent, kw == KeywordIf), p.syntaxError(line, "blocks nested deeper than %d levels", p.MaxDepth)
		}
	}

	switch kw {
	case KeywordIf:
		node, n, err := p.parse(lines, ModeIf, indent, depth+1)
		if node == nil {
			return nil, n, err
		}
		return &NestedStatement{Node: node}, n, err
	case KeywordElse:
		return nil, p.SkipBlock(lines, indent, false), p.syntaxError(line, "else without matching if")
	case KeywordFor, KeywordWhile:
		if p.Loops == nil {
			return nil, p.SkipBlock(lines, indent, false), p.syntaxError(line, "loops are not supported here")
		}

		handle, n, err := p.Loops.ParseLoop(p, lines, indent, depth+1)
		if n < 1 {
			n = p.SkipBlock(lines, indent, false)
		}
		if handle == nil {
			return nil, n, err
		}
		return &LoopStatement{Handle: handle, Position: p.position(line)}, n, err
	case KeywordFunc:
		return nil, p.SkipBlock(lines, indent, false), p.syntaxError(line, "functions can only be defined at the top level")
	default:
		return &LineStatement{Line: line, Position: p.position(line)}, 1, nil
	}
}

// SkipBlock returns the number of lines taken by the block headed by
// lines[0], without parsing them. With withElse, a sibling else block at
// indent is skipped as well.
func (p *Parser) SkipBlock(lines []Line, indent int, withElse bool) int {
	if len(lines) == 0 {
		return 0
	}

	i := 1
	for i < len(lines) {
		line := lines[i]
		if line.IsBlank() {
			i++
			continue
		}

		n, err := line.Indent()
		if err != nil || n > indent {
			i++
			continue
		}

		if withElse && n == indent && Keyword(line.Keyword()) == KeywordElse {
			withElse = false
			i++
			continue
		}

		break
	}

	return i
}
