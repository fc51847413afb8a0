package parser

import (
	"strings"

	"github.com/rhino1998/bhask/pkg/expr"
)

// IsNumber reports whether tok is a signed decimal literal such as "3",
// "-2.5" or "1e3". Forms the expression parser cannot read, like "Inf" or
// hex floats, are not numbers.
func IsNumber(tok string) bool {
	return expr.IsNumberLiteral(tok)
}

func IsChar(tok string) bool {
	if len(tok) < 2 {
		return false
	}

	q := tok[0]
	return (q == '\'' || q == '"') && tok[len(tok)-1] == q
}

func Unquote(tok string) string {
	if !IsChar(tok) {
		return tok
	}

	return tok[1 : len(tok)-1]
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}

func IsIdentifier(tok string) bool {
	if tok == "" || !isAlpha(tok[0]) {
		return false
	}

	for i := 1; i < len(tok); i++ {
		if !isAlnum(tok[i]) {
			return false
		}
	}

	return true
}

// ArrayRef splits "name[index]" into its parts.
func ArrayRef(tok string) (base, index string, ok bool) {
	open := strings.IndexByte(tok, '[')
	if open <= 0 || !strings.HasSuffix(tok, "]") {
		return "", "", false
	}

	base, index = tok[:open], tok[open+1:len(tok)-1]
	if !IsIdentifier(base) || strings.TrimSpace(index) == "" {
		return "", "", false
	}

	depth := 0
	for i := 0; i < len(index); i++ {
		switch index[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return "", "", false
			}
		}
	}

	if depth != 0 {
		return "", "", false
	}

	return base, index, true
}

// Classifiable reports whether tok is an operand the resolver knows how to
// classify without evaluating it.
func Classifiable(tok string) bool {
	if IsNumber(tok) || IsChar(tok) || IsIdentifier(tok) {
		return true
	}

	_, _, ok := ArrayRef(tok)
	return ok
}

// SplitCall splits "name(args)" into the name and the raw argument text.
func SplitCall(tok string) (name, args string, ok bool) {
	tok = strings.TrimSpace(tok)
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return "", "", false
	}

	name = strings.TrimSpace(tok[:open])
	if !IsIdentifier(name) {
		return "", "", false
	}

	inner := tok[open+1 : len(tok)-1]

	depth := 0
	var quote byte
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				// "f(a)+g(b)" is not a single call
				return "", "", false
			}
		}
	}

	if depth != 0 || quote != 0 {
		return "", "", false
	}

	return name, inner, true
}
