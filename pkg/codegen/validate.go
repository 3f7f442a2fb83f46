package codegen

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/token"
)

// Validate walks every function body in f and reports the invariant
// violations of §4.5/§7: E0701 (a while/do-while/if condition that is
// not boolean-shaped), E0702 (a condition expression containing a
// function call, forbidden since conditions must be side-effect-free),
// and a critical-block body containing return/break/continue.
func Validate(f *ast.File) []error {
	var errs []error
	for _, d := range f.Decls {
		errs = append(errs, validateTop(d)...)
	}
	return errs
}

func validateTop(d ast.Decl) []error {
	var errs []error
	switch n := d.(type) {
	case *ast.ScopeDecl:
		for _, m := range n.Members {
			errs = append(errs, validateTop(m.Decl)...)
		}
	case *ast.FunctionDecl:
		if n.Body != nil {
			errs = append(errs, validateBlock(n.Body)...)
		}
	}
	return errs
}

func validateBlock(b *ast.BlockStmt) []error {
	var errs []error
	for _, s := range b.Stmts {
		errs = append(errs, validateStmt(s)...)
	}
	return errs
}

func validateStmt(s ast.Stmt) []error {
	var errs []error
	switch n := s.(type) {
	case *ast.IfStmt:
		errs = append(errs, validateCond(n.Cond, n.Pos)...)
		errs = append(errs, validateBlock(n.Then)...)
		if n.Else != nil {
			errs = append(errs, validateStmt(n.Else)...)
		}
	case *ast.WhileStmt:
		errs = append(errs, validateCond(n.Cond, n.Pos)...)
		errs = append(errs, validateBlock(n.Body)...)
	case *ast.DoWhileStmt:
		errs = append(errs, validateCond(n.Cond, n.Pos)...)
		errs = append(errs, validateBlock(n.Body)...)
	case *ast.ForStmt:
		if n.Cond != nil {
			errs = append(errs, validateCond(n.Cond, n.Pos)...)
		}
		errs = append(errs, validateBlock(n.Body)...)
	case *ast.BlockStmt:
		errs = append(errs, validateBlock(n)...)
	case *ast.CriticalStmt:
		if ast.ContainsEscape(n.Body) {
			errs = append(errs, fmt.Errorf("%s: E07xx: critical block may not contain return/break/continue", n.Pos))
		}
		errs = append(errs, validateBlock(n.Body)...)
	}
	return errs
}

// validateCond applies E0702 (no call in a condition) and E0701's boolean
// shape check. The shape check is syntactic since the dialect has no
// static type checker beyond the parser; looksBoolean says what it
// accepts.
func validateCond(cond ast.Expr, pos token.Position) []error {
	var errs []error
	if ast.ContainsCall(cond) {
		errs = append(errs, fmt.Errorf("%s: E0702: condition expression must not contain a function call", pos))
	}
	if !looksBoolean(cond) {
		errs = append(errs, fmt.Errorf("%s: E0701: condition expression is not boolean-shaped", pos))
	}
	return errs
}

// looksBoolean is a syntactic approximation of §4.5/§7's E0701 check: a
// bool literal and any binary or unary expression are accepted whatever
// their operator, so arithmetic or bitwise conditions such as `x + 1` or
// `x & 1` are not flagged; a bare identifier, call or member access is
// accepted too since its declared type may be bool (that requires
// symbol-table context the parser-only check does not have). Any other
// expression form, such as a numeric literal, is flagged.
func looksBoolean(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.UnaryExpr, *ast.BoolLiteralExpr, *ast.IdentExpr, *ast.CallExpr, *ast.MemberExpr:
		return true
	default:
		return false
	}
}
