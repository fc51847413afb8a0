package repl

import (
	"strings"

	"github.com/rhino1998/bhask/pkg/parser"
)

// Buffer collects input lines until they form something runnable: a single
// statement, or a block header and its body closed by an empty line.
type Buffer struct {
	lines []string
}

func (b *Buffer) Active() bool {
	return len(b.lines) > 0
}

func (b *Buffer) Clear() {
	b.lines = nil
}

// Add appends line and reports the source to run once it is complete.
func (b *Buffer) Add(line string) (string, bool) {
	line = strings.TrimRight(line, " \t\r\n")
	blank := parser.Line{Text: line}.IsBlank()

	if !b.Active() {
		if blank {
			return "", false
		}

		if !opensBlock(line) {
			return line, true
		}

		b.lines = append(b.lines, line)
		return "", false
	}

	if strings.TrimSpace(line) == "" {
		src := strings.Join(b.lines, "\n")
		b.Clear()
		return src, true
	}

	b.lines = append(b.lines, line)
	return "", false
}

func opensBlock(line string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), parser.BlockTerminator)
}
