package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type Line struct {
	Text   string
	Number int
}

// Lines numbers texts from 1. Mostly useful for tests and the REPL.
func Lines(texts ...string) []Line {
	lines := make([]Line, 0, len(texts))
	for i, text := range texts {
		lines = append(lines, Line{Text: text, Number: i + 1})
	}

	return lines
}

func ReadLines(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		lines = append(lines, Line{
			Text:   strings.TrimRight(scanner.Text(), "\r"),
			Number: n,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return lines, nil
}

func (l Line) Fields() []string {
	return strings.Fields(l.Text)
}

func (l Line) Keyword() string {
	fields := l.Fields()
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// IsBlank reports whether the line holds no statement: it is empty,
// whitespace or a comment.
func (l Line) IsBlank() bool {
	fields := l.Fields()
	return len(fields) == 0 || strings.HasPrefix(fields[0], CommentPrefix)
}

// Indent counts leading spaces. Tabs are rejected rather than guessed at.
func (l Line) Indent() (int, error) {
	n := 0
	for _, r := range l.Text {
		switch r {
		case ' ':
			n++
		case '\t':
			return 0, fmt.Errorf("tab in indentation")
		default:
			return n, nil
		}
	}

	return n, nil
}

// Body is the line text with the leading keyword removed.
func (l Line) Body() string {
	text := strings.TrimSpace(l.Text)
	kw := l.Keyword()

	return strings.TrimSpace(strings.TrimPrefix(text, kw))
}
