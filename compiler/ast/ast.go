package ast

type (
	Node interface {
		node()
	}

	Expr interface {
		Node
		expr()
	}

	// Item is a function body item: a statement or a declaration.
	Item interface {
		Node
		item()
	}

	Program struct {
		Func *Function
	}

	Function struct {
		Name string
		Type string

		Body []Item
	}

	Declaration struct {
		Name string
		Init Expr // nil if absent
	}

	Return struct {
		Expr Expr
	}

	ExprStatement struct {
		Expr Expr
	}

	Constant string

	Variable string

	UnaryOp struct {
		Op   UnaryOperator
		Expr Expr
	}

	BinaryOp struct {
		Op    BinaryOperator
		Left  Expr
		Right Expr
	}

	Assignment struct {
		Target Expr
		Value  Expr
	}

	UnaryOperator int

	BinaryOperator int
)

const (
	Negate UnaryOperator = iota
	Complement
	Not
)

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	Rem
	And
	Or
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var unaryNames = []string{
	Negate:     "Negate",
	Complement: "Complement",
	Not:        "Not",
}

var binaryNames = []string{
	Add: "Add",
	Sub: "Sub",
	Mul: "Mul",
	Div: "Div",
	Rem: "Rem",
	And: "And",
	Or:  "Or",
	Eq:  "Eq",
	Ne:  "Ne",
	Lt:  "Lt",
	Le:  "Le",
	Gt:  "Gt",
	Ge:  "Ge",
}

func (*Program) node() {}
func (*Function) node() {}
func (Declaration) node() {}
func (Return) node() {}
func (ExprStatement) node() {}
func (Constant) node() {}
func (Variable) node() {}
func (UnaryOp) node() {}
func (BinaryOp) node() {}
func (Assignment) node() {}
func (Declaration) item() {}
func (Return) item() {}
func (ExprStatement) item() {}
func (Constant) expr() {}
func (Variable) expr() {}
func (UnaryOp) expr() {}
func (BinaryOp) expr() {}
func (Assignment) expr() {}

func (op UnaryOperator) String() string { return opName(unaryNames, int(op)) }
func (op BinaryOperator) String() string { return opName(binaryNames, int(op)) }

func ParseUnaryOperator(s string) (UnaryOperator, bool) {
	i := opIndex(unaryNames, s)
	return UnaryOperator(i), i >= 0
}

func ParseBinaryOperator(s string) (BinaryOperator, bool) {
	i := opIndex(binaryNames, s)
	return BinaryOperator(i), i >= 0
}

// Relational reports whether op produces a 0/1 comparison result.
func (op BinaryOperator) Relational() bool {
	return op >= Eq && op <= Ge
}

func opName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "Op?"
	}

	return names[i]
}

func opIndex(names []string, s string) int {
	for i, n := range names {
		if n == s {
			return i
		}
	}

	return -1
}
