package query

import "fmt"

// Match operators
const (
	OpEq  = "="
	OpNeq = "!="
)

// Expr is a node of the boolean expression tree produced by Parse
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Match tests one field of a node against a regular expression
type Match struct {
	Field   string
	Op      string // OpEq or OpNeq
	Pattern string
}

// And is true when both operands are true
type And struct {
	Left, Right Expr
}

// Or is true when either operand is true
type Or struct {
	Left, Right Expr
}

func (*Match) isExpr() {}
func (*And) isExpr()   {}
func (*Or) isExpr()    {}

func (m *Match) String() string {
	return fmt.Sprintf("MATCH(%s,'%s','%s')", m.Field, m.Op, m.Pattern)
}

func (a *And) String() string {
	return fmt.Sprintf("AND(%s, %s)", a.Left, a.Right)
}

func (o *Or) String() string {
	return fmt.Sprintf("OR(%s, %s)", o.Left, o.Right)
}
