package parser

type Comparator int

const (
	Eq Comparator = iota
	Ne
	Lt
	Le
	Gt
	Ge
	MemberOf
	NotMemberOf
)

var comparatorTokens = map[string]Comparator{
	"==": Eq,
	"|=": Ne,
	"≠":  Ne,
	"<":  Lt,
	"<=": Le,
	"≤":  Le,
	">":  Gt,
	">=": Ge,
	"≥":  Ge,
	"∈":  MemberOf,
	"∉":  NotMemberOf,
}

func ParseComparator(tok string) (Comparator, bool) {
	c, ok := comparatorTokens[tok]
	return c, ok
}

func (c Comparator) IsMembership() bool {
	return c == MemberOf || c == NotMemberOf
}

func (c Comparator) String() string {
	switch c {
	case Eq:
		return "=="
	case Ne:
		return "|="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case MemberOf:
		return "∈"
	case NotMemberOf:
		return "∉"
	default:
		return "?"
	}
}
