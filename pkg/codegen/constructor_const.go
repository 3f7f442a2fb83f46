package codegen

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/symbols"
)

// ValidateConstructorConstArgs enforces §7's "Constructor argument must
// be const" rule: a scope-level variable initialized by a call
// expression (`Type name <- Type(arg, ...)`, the dialect's
// constructor-style initialization) may only pass literals or
// const-declared variables as arguments.
func ValidateConstructorConstArgs(f *ast.File, store *symbols.Store) []error {
	var errs []error
	for _, d := range f.Decls {
		scope, ok := d.(*ast.ScopeDecl)
		if !ok {
			continue
		}
		for _, m := range scope.Members {
			v, ok := m.Decl.(*ast.VariableDecl)
			if !ok {
				continue
			}
			call, ok := v.Init.(*ast.CallExpr)
			if !ok {
				continue
			}
			for _, arg := range call.Args {
				if !isConstArg(arg, store, scope.Name) {
					errs = append(errs, fmt.Errorf(
						"%s: constructor argument must be const: initializing %q", v.Pos, v.Name))
				}
			}
		}
	}
	return errs
}

// isConstArg reports whether e is acceptable as a constructor argument:
// a literal, a negation of one, or a reference to a variable declared
// `const` (checked bare, scope-qualified, or via the `global.Scope.`
// form).
func isConstArg(e ast.Expr, store *symbols.Store, scopeName string) bool {
	switch n := e.(type) {
	case *ast.IntLiteralExpr, *ast.FloatLiteralExpr, *ast.StringLiteralExpr, *ast.BoolLiteralExpr:
		return true
	case *ast.UnaryExpr:
		return isConstArg(n.X, store, scopeName)
	case *ast.IdentExpr:
		if vi, ok := store.Variables[scopeName+"."+n.Name]; ok {
			return vi.Decl.Const
		}
		if vi, ok := store.Variables[n.Name]; ok {
			return vi.Decl.Const
		}
		return false
	case *ast.MemberExpr:
		if outer, ok := n.X.(*ast.MemberExpr); ok {
			if _, ok := outer.X.(*ast.GlobalExpr); ok {
				if vi, ok := store.Variables[outer.Name+"."+n.Name]; ok {
					return vi.Decl.Const
				}
			}
		}
		return false
	default:
		return false
	}
}
