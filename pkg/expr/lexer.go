package expr

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenIdent
	tokenChars
	tokenOp
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
	tokenPipe
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of expression"
	case tokenNumber:
		return "number"
	case tokenIdent:
		return "identifier"
	case tokenChars:
		return "chars"
	case tokenOp:
		return "operator"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBracket:
		return "'['"
	case tokenRBracket:
		return "']'"
	case tokenComma:
		return "','"
	case tokenPipe:
		return "'|'"
	default:
		return "?"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanNumber returns the end of the unsigned decimal literal starting at
// start: digits with at most one '.', then an optional exponent such as
// "e3" or "E-2". It returns start when there is no literal there.
func scanNumber(runes []rune, start int) int {
	i := start
	digits := 0
	seenDot := false
	for i < len(runes) && (isDigit(runes[i]) || (runes[i] == '.' && !seenDot)) {
		if runes[i] == '.' {
			seenDot = true
		} else {
			digits++
		}
		i++
	}

	if digits == 0 {
		return start
	}

	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && isDigit(runes[j]) {
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			i = j
		}
	}

	return i
}

// IsNumberLiteral reports whether s is exactly one number the expression
// parser reads as a literal, with an optional leading sign.
func IsNumberLiteral(s string) bool {
	runes := []rune(s)
	start := 0
	if len(runes) > 0 && (runes[0] == '-' || runes[0] == '+') {
		start = 1
	}

	end := scanNumber(runes, start)
	return end > start && end == len(runes)
}

func lex(src string) ([]token, error) {
	runes := []rune(src)
	var toks []token

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isDigit(r) || (r == '.' && i+1 < len(runes) && isDigit(runes[i+1])):
			start := i
			i = scanNumber(runes, i)
			toks = append(toks, token{kind: tokenNumber, text: string(runes[start:i]), pos: start})
		case isIdentStart(r):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokenIdent, text: string(runes[start:i]), pos: start})
		case r == '\'' || r == '"':
			start := i
			i++
			for i < len(runes) && runes[i] != r {
				i++
			}
			if i >= len(runes) {
				return nil, fmt.Errorf("unterminated chars literal at offset %d", start)
			}
			i++
			toks = append(toks, token{kind: tokenChars, text: string(runes[start+1 : i-1]), pos: start})
		case strings.ContainsRune("+-*/^", r):
			toks = append(toks, token{kind: tokenOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case r == '[':
			toks = append(toks, token{kind: tokenLBracket, text: "[", pos: i})
			i++
		case r == ']':
			toks = append(toks, token{kind: tokenRBracket, text: "]", pos: i})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokenComma, text: ",", pos: i})
			i++
		case r == '|':
			toks = append(toks, token{kind: tokenPipe, text: "|", pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
		}
	}

	toks = append(toks, token{kind: tokenEOF, pos: len(runes)})

	return toks, nil
}

// SplitTopLevel splits s on sep where sep is not nested inside brackets,
// parentheses or a chars literal. Parts are trimmed.
func SplitTopLevel(s string, sep rune) []string {
	var parts []string
	var quote rune
	depth := 0
	start := 0

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(string(runes[start:i])))
			start = i + 1
		}
	}

	return append(parts, strings.TrimSpace(string(runes[start:])))
}
