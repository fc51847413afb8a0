package parser

import "log/slog"

// ForLoopParser parses "for <var> = <from> to <to> [step <step>] :" and
// "while <lhs> <op> <rhs> :" blocks into *ForLoop and *WhileLoop handles.
type ForLoopParser struct{}

func (ForLoopParser) ParseLoop(p *Parser, lines []Line, indent, depth int) (any, int, error) {
	header := lines[0]

	var handle any
	var body *[]Statement

	switch Keyword(header.Keyword()) {
	case KeywordFor:
		loop, err := p.parseForHeader(header)
		if err != nil {
			return nil, p.SkipBlock(lines, indent, false), err
		}
		handle, body = loop, &loop.Body
	case KeywordWhile:
		cond, err := p.parseCondition(header, KeywordWhile)
		if err != nil {
			return nil, p.SkipBlock(lines, indent, false), err
		}
		loop := &WhileLoop{Condition: cond, Position: p.position(header)}
		handle, body = loop, &loop.Body
	default:
		return nil, p.SkipBlock(lines, indent, false), p.syntaxError(header, "%q is not a loop", header.Text)
	}

	stmts, n, err := p.ParseBody(lines[1:], indent, depth)
	*body = stmts

	p.logger.Debug("parsed loop block",
		slog.String("position", p.position(header).String()),
		slog.Int("statements", len(stmts)),
		slog.Int("consumed", 1+n),
	)

	return handle, 1 + n, err
}

func (p *Parser) parseForHeader(line Line) (*ForLoop, error) {
	fields := line.Fields()

	usage := func() error {
		return p.syntaxError(line, "%q: expected 'for <var> = <from> to <to> [step <step>] :'", line.Text)
	}

	if len(fields) != 7 && len(fields) != 9 {
		return nil, usage()
	}

	if Keyword(fields[0]) != KeywordFor || fields[2] != "=" || Keyword(fields[4]) != KeywordTo || fields[len(fields)-1] != BlockTerminator {
		return nil, usage()
	}

	if !IsIdentifier(fields[1]) {
		return nil, p.syntaxError(line, "%q: invalid loop variable %q", line.Text, fields[1])
	}

	loop := &ForLoop{
		Var:      fields[1],
		From:     fields[3],
		To:       fields[5],
		Position: p.position(line),
	}

	if len(fields) == 9 {
		if Keyword(fields[6]) != KeywordStep {
			return nil, usage()
		}
		loop.Step = fields[7]
	}

	return loop, nil
}
