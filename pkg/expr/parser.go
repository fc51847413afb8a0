package expr

import (
	"fmt"
	"strconv"
)

type Expr interface {
	expr()
}

type NumberLiteral float64

func (NumberLiteral) expr() {}

type CharsLiteral string

func (CharsLiteral) expr() {}

type Identifier string

func (Identifier) expr() {}

// IndexExpr is a[i], or a[i,j] with Col set for 2-D arrays.
type IndexExpr struct {
	Name  string
	Index Expr
	Col   Expr
}

func (IndexExpr) expr() {}

type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) expr() {}

type LengthExpr struct {
	Expr Expr
}

func (LengthExpr) expr() {}

type UnaryExpr struct {
	Operator string
	Expr     Expr
}

func (UnaryExpr) expr() {}

type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (BinaryExpr) expr() {}

type parser struct {
	src  string
	toks []token
	pos  int
}

func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}

	p := &parser{src: src, toks: toks}

	e, err := p.parseSum()
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}

	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("expression %q: unexpected %s %q at offset %d", src, tok.kind, tok.text, tok.pos)
	}

	return e, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, fmt.Errorf("expected %s, found %s at offset %d", kind, tok.kind, tok.pos)
	}

	return tok, nil
}

func (p *parser) isOp(ops ...string) bool {
	tok := p.peek()
	if tok.kind != tokenOp {
		return false
	}

	for _, op := range ops {
		if tok.text == op {
			return true
		}
	}

	return false
}

func (p *parser) parseSum() (Expr, error) {
	lhs, err := p.parseProduct()
	if err != nil {
		return nil, err
	}

	for p.isOp("+", "-") {
		op := p.next().text
		rhs, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		lhs = BinaryExpr{Left: lhs, Operator: op, Right: rhs}
	}

	return lhs, nil
}

func (p *parser) parseProduct() (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.isOp("*", "/") {
		op := p.next().text
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = BinaryExpr{Left: lhs, Operator: op, Right: rhs}
	}

	return lhs, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("-", "+") {
		op := p.next().text
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Operator: op, Expr: e}, nil
	}

	return p.parsePower()
}

// exponentiation binds tighter than unary minus on its left and is right
// associative: -2^2 is -(2^2) and 2^3^2 is 2^(3^2).
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.isOp("^") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return BinaryExpr{Left: base, Operator: "^", Right: exp}, nil
	}

	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", tok.text, err)
		}
		return NumberLiteral(f), nil
	case tokenChars:
		return CharsLiteral(tok.text), nil
	case tokenIdent:
		switch p.peek().kind {
		case tokenLParen:
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return CallExpr{Name: tok.text, Args: args}, nil
		case tokenLBracket:
			p.next()
			idx, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			var col Expr
			if p.peek().kind == tokenComma {
				p.next()
				col, err = p.parseSum()
				if err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(tokenRBracket); err != nil {
				return nil, err
			}
			return IndexExpr{Name: tok.text, Index: idx, Col: col}, nil
		default:
			return Identifier(tok.text), nil
		}
	case tokenLParen:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return e, nil
	case tokenPipe:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenPipe); err != nil {
			return nil, err
		}
		return LengthExpr{Expr: e}, nil
	default:
		return nil, fmt.Errorf("unexpected %s %q at offset %d", tok.kind, tok.text, tok.pos)
	}
}

func (p *parser) parseArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().kind == tokenRParen {
		p.next()
		return args, nil
	}

	for {
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.next()
		switch tok.kind {
		case tokenComma:
			continue
		case tokenRParen:
			return args, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')', found %s at offset %d", tok.kind, tok.pos)
		}
	}
}
