package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rhino1998/bhask/pkg/expr"
	"github.com/rhino1998/bhask/pkg/kinds"
	"github.com/rhino1998/bhask/pkg/parser"
	"github.com/rhino1998/bhask/pkg/value"
)

var ErrUnknownStatement = errors.New("unrecognised statement")

// lineProcessor runs every line that is not a block header or a return:
// declarations, assignments, output, one-line function definitions, bare
// calls, and the over/skip/terminate keywords.
type lineProcessor struct {
	out io.Writer
	in  *bufio.Reader
	rng *rand.Rand

	store    *Store
	resolver Resolver
	funcs    *Functions
}

func (p *lineProcessor) Process(line parser.Line, scope Scope) (Sentinel, error) {
	text := strings.TrimSpace(line.Text)
	kw := line.Keyword()

	switch parser.Keyword(kw) {
	case parser.KeywordBreak:
		return SentinelBreak, p.noArgs(line, kw)
	case parser.KeywordContinue:
		return SentinelContinue, p.noArgs(line, kw)
	case parser.KeywordTerminate:
		err := p.noArgs(line, kw)
		if err != nil {
			return SentinelNormal, err
		}
		return SentinelNormal, ErrTerminate
	case parser.KeywordInline:
		return SentinelNormal, p.defineInline(line, scope)
	}

	if decl, ok := kinds.Lookup(kw); ok {
		if decl.Kind == kinds.Array {
			return SentinelNormal, p.declareArray(decl, line.Body(), scope)
		}
		return SentinelNormal, p.declare(decl, line.Body(), scope)
	}

	if name, args, ok := parser.SplitCall(text); ok {
		switch parser.Keyword(name) {
		case parser.KeywordOutput:
			return SentinelNormal, p.output(args, scope)
		case parser.KeywordInput:
			return SentinelNormal, p.input(args, scope)
		}
	}

	if lhs, rhs, ok := splitAssign(text); ok {
		return SentinelNormal, p.assign(lhs, rhs, scope)
	}

	if p.funcs.IsFunction(text) {
		_, err := p.resolver.FetchValue(text, scope)
		return SentinelNormal, err
	}

	return SentinelNormal, fmt.Errorf("%w: %q", ErrUnknownStatement, text)
}

func (p *lineProcessor) noArgs(line parser.Line, kw string) error {
	if line.Body() != "" {
		return fmt.Errorf("%s takes no arguments", kw)
	}

	return nil
}

func (p *lineProcessor) declare(decl kinds.Declared, src string, scope Scope) error {
	lhs, rhs, hasInit := splitAssign(src)
	if !hasInit {
		lhs = src
	}

	name := strings.TrimSpace(lhs)
	if !parser.IsIdentifier(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}

	var val value.Value
	if hasInit {
		var err error
		val, err = p.resolver.FetchValue(rhs, scope)
		if err != nil {
			return err
		}
	}

	v, err := NewVariable(decl, val)
	if err != nil {
		return fmt.Errorf("%s %s: %w", decl, name, err)
	}

	return p.store.Declare(name, v, scope)
}

// declareArray handles "a[] = (1, 2)", "a[n]", "a[n] = (...)", "a[] = b",
// their 2-D forms "a[m,n]" and "a[m,n] = ((...), (...))", and "a ∈ R[n]".
func (p *lineProcessor) declareArray(decl kinds.Declared, src string, scope Scope) error {
	if fields := strings.Fields(src); len(fields) == 3 && fields[1] == parser.MemberOf.String() {
		return p.declareFromSet(decl, fields[0], fields[2], scope)
	}

	lhs, rhs, hasInit := splitAssign(src)
	if !hasInit {
		lhs = src
	}
	lhs = strings.TrimSpace(lhs)

	open := strings.IndexByte(lhs, '[')
	if open <= 0 || !strings.HasSuffix(lhs, "]") {
		return fmt.Errorf("%s declaration %q: expected name[size]", decl, lhs)
	}

	name, size := lhs[:open], strings.TrimSpace(lhs[open+1:len(lhs)-1])
	if !parser.IsIdentifier(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}

	if size != "" {
		if dims := expr.SplitTopLevel(size, ','); len(dims) == 2 {
			return p.declareArray2D(decl, name, dims, rhs, hasInit, scope)
		}
	} else if _, ok := tupleRows(rhs); hasInit && ok {
		return p.declareArray2D(decl, name, nil, rhs, true, scope)
	}

	n := -1
	if size != "" {
		var err error
		n, err = p.resolver.ComputeIndex(size, scope)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("negative size %d for %s", n, name)
		}
	}

	var elems []value.Value
	switch {
	case !hasInit && n < 0:
		return fmt.Errorf("%s %s needs a size or initial values", decl, name)
	case !hasInit:
	case strings.HasPrefix(rhs, "(") && strings.HasSuffix(rhs, ")"):
		inner := strings.TrimSpace(rhs[1 : len(rhs)-1])
		if inner != "" {
			for _, raw := range expr.SplitTopLevel(inner, ',') {
				v, err := p.resolver.FetchValue(raw, scope)
				if err != nil {
					return err
				}
				elems = append(elems, v)
			}
		}
	default:
		v, err := p.resolver.FetchValue(rhs, scope)
		if err != nil {
			return err
		}

		from, err := value.ArrayOrFail(v)
		if err != nil {
			return fmt.Errorf("%s %s: %w", decl, name, err)
		}
		if from.Is2D() && n < 0 {
			return p.declareArray2D(decl, name, nil, rhs, true, scope)
		}
		elems = from.Elems
	}

	if n < 0 {
		n = len(elems)
	} else if hasInit && len(elems) != n {
		return fmt.Errorf("%s %s: declared size %d but %d values given", decl, name, n, len(elems))
	}

	arr := value.NewArray(decl.Elem, n)
	for i, elem := range elems {
		err := arr.Set(i, elem)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}

	v, err := NewVariable(decl, arr)
	if err != nil {
		return err
	}

	return p.store.Declare(name, v, scope)
}

// tupleRows splits "((1, 2), (3, 4))" into its row literals.
func tupleRows(src string) ([]string, bool) {
	src = strings.TrimSpace(src)
	if !strings.HasPrefix(src, "(") || !strings.HasSuffix(src, ")") {
		return nil, false
	}

	rows := expr.SplitTopLevel(src[1:len(src)-1], ',')
	for _, row := range rows {
		if !strings.HasPrefix(row, "(") || !strings.HasSuffix(row, ")") {
			return nil, false
		}
	}

	return rows, len(rows) > 0
}

func (p *lineProcessor) coords(parts []string, scope Scope) (int, int, error) {
	row, err := p.resolver.ComputeIndex(parts[0], scope)
	if err != nil {
		return 0, 0, err
	}

	col, err := p.resolver.ComputeIndex(parts[1], scope)
	if err != nil {
		return 0, 0, err
	}

	return row, col, nil
}

func (p *lineProcessor) declareArray2D(decl kinds.Declared, name string, dims []string, rhs string, hasInit bool, scope Scope) error {
	rows, cols := -1, -1
	if dims != nil {
		var err error
		rows, cols, err = p.coords(dims, scope)
		if err != nil {
			return err
		}

		if rows <= 0 || cols <= 0 {
			return fmt.Errorf("%s %s: 2-D dimensions must be positive, got [%d,%d]", decl, name, rows, cols)
		}
	}

	var elems [][]value.Value
	if hasInit {
		if literals, ok := tupleRows(rhs); ok {
			for _, literal := range literals {
				var row []value.Value
				for _, raw := range expr.SplitTopLevel(literal[1:len(literal)-1], ',') {
					v, err := p.resolver.FetchValue(raw, scope)
					if err != nil {
						return err
					}
					row = append(row, v)
				}
				elems = append(elems, row)
			}
		} else {
			v, err := p.resolver.FetchValue(rhs, scope)
			if err != nil {
				return err
			}

			from, err := value.ArrayOrFail(v)
			if err != nil {
				return fmt.Errorf("%s %s: %w", decl, name, err)
			}
			if !from.Is2D() {
				return fmt.Errorf("%s %s: %s is not a 2-D array", decl, name, rhs)
			}

			for r := range from.Rows() {
				elems = append(elems, from.Elems[r*from.Cols:(r+1)*from.Cols])
			}
		}

		if len(elems) == 0 {
			return fmt.Errorf("%s %s: no rows given", decl, name)
		}

		for _, row := range elems[1:] {
			if len(row) != len(elems[0]) {
				return fmt.Errorf("%s %s: rows have different lengths", decl, name)
			}
		}

		if dims == nil {
			rows, cols = len(elems), len(elems[0])
			if cols == 0 {
				return fmt.Errorf("%s %s: rows must not be empty", decl, name)
			}
		} else if len(elems) != rows || len(elems[0]) != cols {
			return fmt.Errorf("%s %s: declared size [%d,%d] but values are [%d,%d]", decl, name, rows, cols, len(elems), len(elems[0]))
		}
	}

	arr := value.NewArray2D(decl.Elem, rows, cols)
	for r, row := range elems {
		for c, elem := range row {
			err := arr.SetAt(r, c, elem)
			if err != nil {
				return fmt.Errorf("%s[%d,%d]: %w", name, r, c, err)
			}
		}
	}

	v, err := NewVariable(decl, arr)
	if err != nil {
		return err
	}

	return p.store.Declare(name, v, scope)
}

// declareFromSet fills "a ∈ R[n]" or "a ∈ N[m,n]" with values drawn from
// the set: R gives random numbers in [0, 1), N random integers from 1 to
// 1000 and Z zeros.
func (p *lineProcessor) declareFromSet(decl kinds.Declared, name, set string, scope Scope) error {
	if !parser.IsIdentifier(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}

	base, size, ok := parser.ArrayRef(set)
	if !ok {
		return fmt.Errorf("%s %s: expected a set such as R[n], got %q", decl, name, set)
	}

	var draw func() value.Value
	switch base {
	case "R":
		draw = func() value.Value { return value.Number(p.rng.Float64()) }
	case "N":
		draw = func() value.Value { return value.Number(p.rng.IntN(1000) + 1) }
	case "Z":
		draw = func() value.Value { return value.Number(0) }
	default:
		return fmt.Errorf("%s %s: unknown set %q, expected R, N or Z", decl, name, base)
	}

	var arr *value.Array
	if dims := expr.SplitTopLevel(size, ','); len(dims) == 2 {
		rows, cols, err := p.coords(dims, scope)
		if err != nil {
			return err
		}
		if rows <= 0 || cols <= 0 {
			return fmt.Errorf("%s %s: 2-D dimensions must be positive, got [%d,%d]", decl, name, rows, cols)
		}
		arr = value.NewArray2D(decl.Elem, rows, cols)
	} else {
		n, err := p.resolver.ComputeIndex(size, scope)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("negative size %d for %s", n, name)
		}
		arr = value.NewArray(decl.Elem, n)
	}

	for i := range arr.Elems {
		v, err := value.Coerce(draw(), decl.Elem)
		if err != nil {
			return err
		}
		arr.Elems[i] = v
	}

	v, err := NewVariable(decl, arr)
	if err != nil {
		return err
	}

	return p.store.Declare(name, v, scope)
}

func (p *lineProcessor) assign(lhs, rhs string, scope Scope) error {
	val, err := p.resolver.FetchValue(rhs, scope)
	if err != nil {
		return err
	}

	if base, index, ok := p.resolver.ArrayRef(lhs); ok {
		v, err := p.resolver.FetchVariable(base, scope)
		if err != nil {
			return err
		}

		arr, err := value.ArrayOrFail(v.Value())
		if err != nil {
			return fmt.Errorf("%s: %w", base, err)
		}

		if coords := expr.SplitTopLevel(index, ','); len(coords) == 2 {
			row, col, err := p.coords(coords, scope)
			if err != nil {
				return err
			}

			return arr.SetAt(row, col, val)
		}

		i, err := p.resolver.ComputeIndex(index, scope)
		if err != nil {
			return err
		}

		return arr.Set(i, val)
	}

	if !parser.IsIdentifier(lhs) {
		return fmt.Errorf("cannot assign to %q", lhs)
	}

	v, err := p.resolver.FetchVariable(lhs, scope)
	if err != nil {
		return err
	}

	err = v.Set(val)
	if err != nil {
		return fmt.Errorf("%s: %w", lhs, err)
	}

	return nil
}

func (p *lineProcessor) output(args string, scope Scope) error {
	var parts []string
	if strings.TrimSpace(args) != "" {
		for _, raw := range expr.SplitTopLevel(args, ',') {
			v, err := p.resolver.FetchValue(raw, scope)
			if err != nil {
				return err
			}
			parts = append(parts, v.String())
		}
	}

	_, err := fmt.Fprintln(p.out, strings.Join(parts, " "))
	return err
}

// input handles "ask(x)" and "ask(x, 'prompt')": the prompt is written to
// the output and the next input line is stored in x. Unless x holds chars,
// a line that reads as a number is stored as one.
func (p *lineProcessor) input(args string, scope Scope) error {
	parts := expr.SplitTopLevel(args, ',')
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		return fmt.Errorf("expected '%s(<variable>[, <prompt>])'", parser.KeywordInput)
	}

	target, err := p.resolver.FetchVariable(parts[0], scope)
	if err != nil {
		return err
	}

	if len(parts) == 2 {
		prompt, err := p.resolver.FetchValue(parts[1], scope)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(p.out, prompt.String())
		if err != nil {
			return err
		}
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return fmt.Errorf("%s %s: %w", parser.KeywordInput, parts[0], err)
	}
	line = strings.TrimSpace(line)

	var val value.Value = value.Chars(line)
	if target.Type().Kind != kinds.Chars && parser.IsNumber(line) {
		n, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return err
		}
		val = value.Number(n)
	}

	err = target.Set(val)
	if err != nil {
		return fmt.Errorf("%s %s: %w", parser.KeywordInput, parts[0], err)
	}

	return nil
}

// defineInline handles "func f(x, y) = x*y".
func (p *lineProcessor) defineInline(line parser.Line, scope Scope) error {
	lhs, rhs, ok := splitAssign(line.Body())
	if !ok {
		return fmt.Errorf("expected '%s <name>(<params>) = <expression>'", parser.KeywordInline)
	}

	name, raw, ok := parser.SplitCall(lhs)
	if !ok {
		return fmt.Errorf("invalid function signature %q", lhs)
	}

	_, err := expr.Parse(rhs)
	if err != nil {
		return err
	}

	fn := &Function{
		Name:     name,
		Inline:   rhs,
		Position: parser.Position{Line: line.Number},
	}

	seen := make(map[string]bool)
	if strings.TrimSpace(raw) != "" {
		for _, part := range expr.SplitTopLevel(raw, ',') {
			param, err := parser.ParseParam(part)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			if seen[param.Name] {
				return fmt.Errorf("%s: duplicate parameter %s", name, param.Name)
			}
			seen[param.Name] = true

			fn.Params = append(fn.Params, param)
		}
	}

	return p.funcs.Define(fn)
}

// splitAssign splits on the first "=" that is not part of a comparator and
// not inside brackets or a chars literal.
func splitAssign(s string) (lhs, rhs string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == '=' && depth == 0:
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.ContainsRune("<>|!", rune(s[i-1])) {
				continue
			}
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
		}
	}

	return "", "", false
}
