package codegen

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/symbols"
)

// ValidateCrossScopeAccess enforces §4.5/§7's cross-scope bare access
// rule: from inside a scope body, a reference to another declared scope
// must go through the `global.` prefix (`global.Other.member`); a bare
// `Other.member` is a compile error suggesting the `global.` form. Only
// `*ast.ScopeDecl` function bodies are checked — file-scope (unscoped)
// code has no "this scope" to compare against.
func ValidateCrossScopeAccess(f *ast.File, store *symbols.Store) []error {
	var errs []error
	for _, d := range f.Decls {
		scope, ok := d.(*ast.ScopeDecl)
		if !ok {
			continue
		}
		for _, m := range scope.Members {
			fn, ok := m.Decl.(*ast.FunctionDecl)
			if !ok || fn.Body == nil {
				continue
			}
			errs = append(errs, checkBlockCrossScope(fn.Body, store, scope.Name)...)
		}
	}
	return errs
}

func checkBlockCrossScope(b *ast.BlockStmt, store *symbols.Store, scopeName string) []error {
	var errs []error
	for _, s := range b.Stmts {
		errs = append(errs, checkStmtCrossScope(s, store, scopeName)...)
	}
	return errs
}

func checkStmtCrossScope(s ast.Stmt, store *symbols.Store, scopeName string) []error {
	var errs []error
	check := func(e ast.Expr) { errs = append(errs, checkExprCrossScope(e, store, scopeName)...) }
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		if n.Init != nil {
			check(n.Init)
		}
	case *ast.AssignStmt:
		check(n.Target)
		check(n.Value)
	case *ast.ExprStmt:
		check(n.X)
	case *ast.ReturnStmt:
		if n.Value != nil {
			check(n.Value)
		}
	case *ast.BlockStmt:
		errs = append(errs, checkBlockCrossScope(n, store, scopeName)...)
	case *ast.IfStmt:
		check(n.Cond)
		errs = append(errs, checkBlockCrossScope(n.Then, store, scopeName)...)
		if n.Else != nil {
			errs = append(errs, checkStmtCrossScope(n.Else, store, scopeName)...)
		}
	case *ast.WhileStmt:
		check(n.Cond)
		errs = append(errs, checkBlockCrossScope(n.Body, store, scopeName)...)
	case *ast.DoWhileStmt:
		check(n.Cond)
		errs = append(errs, checkBlockCrossScope(n.Body, store, scopeName)...)
	case *ast.ForStmt:
		if n.Init != nil {
			errs = append(errs, checkStmtCrossScope(n.Init, store, scopeName)...)
		}
		if n.Cond != nil {
			check(n.Cond)
		}
		if n.Post != nil {
			errs = append(errs, checkStmtCrossScope(n.Post, store, scopeName)...)
		}
		errs = append(errs, checkBlockCrossScope(n.Body, store, scopeName)...)
	case *ast.CriticalStmt:
		errs = append(errs, checkBlockCrossScope(n.Body, store, scopeName)...)
	}
	return errs
}

// checkExprCrossScope recurses into e looking for a MemberExpr whose
// base is a bare scope-name identifier other than the enclosing scope.
func checkExprCrossScope(e ast.Expr, store *symbols.Store, scopeName string) []error {
	var errs []error
	switch n := e.(type) {
	case nil:
		return nil
	case *ast.MemberExpr:
		if ident, ok := n.X.(*ast.IdentExpr); ok && ident.Name != scopeName && store.Scopes[ident.Name] {
			errs = append(errs, fmt.Errorf(
				"%s: cross-scope bare access: reference to scope %q must use the 'global.' form (global.%s.%s)",
				n.Pos, ident.Name, ident.Name, n.Name))
		}
		errs = append(errs, checkExprCrossScope(n.X, store, scopeName)...)
	case *ast.CallExpr:
		errs = append(errs, checkExprCrossScope(n.Callee, store, scopeName)...)
		for _, a := range n.Args {
			errs = append(errs, checkExprCrossScope(a, store, scopeName)...)
		}
	case *ast.BinaryExpr:
		errs = append(errs, checkExprCrossScope(n.Left, store, scopeName)...)
		errs = append(errs, checkExprCrossScope(n.Right, store, scopeName)...)
	case *ast.UnaryExpr:
		errs = append(errs, checkExprCrossScope(n.X, store, scopeName)...)
	case *ast.TernaryExpr:
		errs = append(errs, checkExprCrossScope(n.Cond, store, scopeName)...)
		errs = append(errs, checkExprCrossScope(n.Then, store, scopeName)...)
		errs = append(errs, checkExprCrossScope(n.Else, store, scopeName)...)
	case *ast.IndexExpr:
		errs = append(errs, checkExprCrossScope(n.X, store, scopeName)...)
		errs = append(errs, checkExprCrossScope(n.Index, store, scopeName)...)
	case *ast.BitRangeExpr:
		errs = append(errs, checkExprCrossScope(n.X, store, scopeName)...)
		errs = append(errs, checkExprCrossScope(n.Start, store, scopeName)...)
		errs = append(errs, checkExprCrossScope(n.Width, store, scopeName)...)
	case *ast.AddrOfExpr:
		errs = append(errs, checkExprCrossScope(n.X, store, scopeName)...)
	}
	return errs
}
