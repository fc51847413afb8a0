package kinds

import "fmt"

type Kind int

const (
	Unknown Kind = iota
	Unit
	Int
	Float
	Chars
	Array
	Tuple
	Function
)

func (k Kind) IsNumeric() bool {
	return k == Int || k == Float
}

func (k Kind) IsScalar() bool {
	return k == Int || k == Float || k == Chars
}

func (k Kind) String() string {
	switch k {
	case Unit:
		return "<unit>"
	case Int:
		return "int"
	case Float:
		return "float"
	case Chars:
		return "chars"
	case Array:
		return "array"
	case Tuple:
		return "tuple"
	case Function:
		return "function"
	default:
		return "<unknown>"
	}
}

// Declared is the kind (and element kind, for arrays) named by a declaration
// keyword such as "int" or "float_arr".
type Declared struct {
	Kind Kind
	Elem Kind
}

func (d Declared) String() string {
	if d.Kind == Array {
		return fmt.Sprintf("%s_arr", d.Elem)
	}

	return d.Kind.String()
}

var declarations = map[string]Declared{
	"int":       {Kind: Int},
	"float":     {Kind: Float},
	"let":       {Kind: Float},
	"chars":     {Kind: Chars},
	"int_arr":   {Kind: Array, Elem: Int},
	"float_arr": {Kind: Array, Elem: Float},
}

func Lookup(keyword string) (Declared, bool) {
	d, ok := declarations[keyword]
	return d, ok
}

func IsScalarKeyword(keyword string) bool {
	d, ok := declarations[keyword]
	return ok && d.Kind != Array
}

func IsArrayKeyword(keyword string) bool {
	d, ok := declarations[keyword]
	return ok && d.Kind == Array
}
