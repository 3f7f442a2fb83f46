package ast

import "github.com/jlaustill/cnext/pkg/token"

// Expr is implemented by every expression node. The marker method keeps
// the variant set closed to this package, matching §9's tagged-variant
// design note.
type Expr interface {
	exprNode()
	Position() token.Position
}

type IdentExpr struct {
	Name string
	Pos  token.Position
}

type IntLiteralExpr struct {
	Text string
	Pos  token.Position
}

type FloatLiteralExpr struct {
	Text string
	Pos  token.Position
}

type StringLiteralExpr struct {
	Text string
	Pos  token.Position
}

type BoolLiteralExpr struct {
	Value bool
	Pos   token.Position
}

// BinaryExpr is a left-op-right expression. OpIndex is the token-stream
// index of the operator, used (per §4.2) to disambiguate chained binary
// expressions by position rather than by re-scanning operator text.
type BinaryExpr struct {
	Left, Right Expr
	Op          token.Kind
	OpIndex     int
	Pos         token.Position
}

type UnaryExpr struct {
	Op   token.Kind
	X    Expr
	Pos  token.Position
}

// TernaryExpr is `(cond) ? a : b`, the only ternary form (§4.5, §6.1).
// Nesting is rejected by the parser while it builds the node, so
// Then/Else are guaranteed non-ternary once parsing succeeds.
type TernaryExpr struct {
	Cond, Then, Else Expr
	Pos              token.Position
}

// MemberExpr is `x.f`, `this.f`, or `global.Scope.f`.
type MemberExpr struct {
	X    Expr
	Name string
	Pos  token.Position
}

// ThisExpr is the bare `this` receiver inside a scope body.
type ThisExpr struct {
	Pos token.Position
}

// GlobalExpr is the bare `global` qualifier prefix.
type GlobalExpr struct {
	Pos token.Position
}

type IndexExpr struct {
	X     Expr
	Index Expr
	Pos   token.Position
}

// BitRangeExpr is `reg[start, width]` or `reg.f[start, width]` (§4.7).
type BitRangeExpr struct {
	X     Expr
	Start Expr
	Width Expr
	Pos   token.Position
}

type AddrOfExpr struct {
	X   Expr
	Pos token.Position
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Pos    token.Position
}

func (*IdentExpr) exprNode()         {}
func (*IntLiteralExpr) exprNode()    {}
func (*FloatLiteralExpr) exprNode()  {}
func (*StringLiteralExpr) exprNode() {}
func (*BoolLiteralExpr) exprNode()   {}
func (*BinaryExpr) exprNode()        {}
func (*UnaryExpr) exprNode()         {}
func (*TernaryExpr) exprNode()       {}
func (*MemberExpr) exprNode()        {}
func (*ThisExpr) exprNode()          {}
func (*GlobalExpr) exprNode()        {}
func (*IndexExpr) exprNode()         {}
func (*BitRangeExpr) exprNode()      {}
func (*AddrOfExpr) exprNode()        {}
func (*CallExpr) exprNode()          {}

func (e *IdentExpr) Position() token.Position         { return e.Pos }
func (e *IntLiteralExpr) Position() token.Position    { return e.Pos }
func (e *FloatLiteralExpr) Position() token.Position  { return e.Pos }
func (e *StringLiteralExpr) Position() token.Position { return e.Pos }
func (e *BoolLiteralExpr) Position() token.Position   { return e.Pos }
func (e *BinaryExpr) Position() token.Position        { return e.Pos }
func (e *UnaryExpr) Position() token.Position         { return e.Pos }
func (e *TernaryExpr) Position() token.Position       { return e.Pos }
func (e *MemberExpr) Position() token.Position        { return e.Pos }
func (e *ThisExpr) Position() token.Position          { return e.Pos }
func (e *GlobalExpr) Position() token.Position        { return e.Pos }
func (e *IndexExpr) Position() token.Position         { return e.Pos }
func (e *BitRangeExpr) Position() token.Position      { return e.Pos }
func (e *AddrOfExpr) Position() token.Position        { return e.Pos }
func (e *CallExpr) Position() token.Position          { return e.Pos }

// ContainsCall reports whether an expression subtree contains a function
// call, used by the E0702 condition check (§4.5, §7).
func ContainsCall(e Expr) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *CallExpr:
		return true
	case *BinaryExpr:
		return ContainsCall(n.Left) || ContainsCall(n.Right)
	case *UnaryExpr:
		return ContainsCall(n.X)
	case *TernaryExpr:
		return ContainsCall(n.Cond) || ContainsCall(n.Then) || ContainsCall(n.Else)
	case *MemberExpr:
		return ContainsCall(n.X)
	case *IndexExpr:
		return ContainsCall(n.X) || ContainsCall(n.Index)
	case *BitRangeExpr:
		return ContainsCall(n.X) || ContainsCall(n.Start) || ContainsCall(n.Width)
	case *AddrOfExpr:
		return ContainsCall(n.X)
	default:
		return false
	}
}
