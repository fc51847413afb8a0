package parser

type Keyword string

const (
	KeywordIf        Keyword = "if"
	KeywordElse      Keyword = "else"
	KeywordFor       Keyword = "for"
	KeywordWhile     Keyword = "while"
	KeywordTo        Keyword = "to"
	KeywordStep      Keyword = "step"
	KeywordFunc      Keyword = "Func"
	KeywordInline    Keyword = "func"
	KeywordReturn    Keyword = "return"
	KeywordBreak     Keyword = "over"
	KeywordContinue  Keyword = "skip"
	KeywordTerminate Keyword = "terminate"
	KeywordOutput    Keyword = "ans"
	KeywordInput     Keyword = "ask"
)

const (
	BlockTerminator = ":"
	CommentPrefix   = "%"
)

type Program struct {
	File      string
	Functions []*FunctionDecl
	Body      []Statement
}

type Param struct {
	Name string
	// Type is a declaration keyword such as "int", or empty.
	Type string
}

type FunctionDecl struct {
	Name   string
	Params []Param
	Body   []Statement

	Position
}

type Statement interface {
	statement()
}

type LineStatement struct {
	Line Line

	Position
}

func (LineStatement) statement() {}

type NestedStatement struct {
	Node *ConditionalNode
}

func (NestedStatement) statement() {}

// LoopStatement holds a handle produced by the parser's LoopParser. Only the
// matching loop executor knows what it points to.
type LoopStatement struct {
	Handle any

	Position
}

func (LoopStatement) statement() {}

type Operand string

type Expression struct {
	LHS Operand
	Op  Comparator
	RHS Operand
}

func (e *Expression) String() string {
	return string(e.LHS) + " " + e.Op.String() + " " + string(e.RHS)
}

// ConditionalNode is one if/else pair. A bare else block has a nil
// Condition and only an ElseBody.
type ConditionalNode struct {
	Condition *Expression
	IfBody    []Statement
	ElseBody  []Statement

	Position
}

type ForLoop struct {
	Var  string
	From string
	To   string
	Step string
	Body []Statement

	Position
}

type WhileLoop struct {
	Condition *Expression
	Body      []Statement

	Position
}
