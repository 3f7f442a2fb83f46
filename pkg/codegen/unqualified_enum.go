package codegen

import (
	"fmt"

	"github.com/jlaustill/cnext/pkg/ast"
	"github.com/jlaustill/cnext/pkg/symbols"
)

// ValidateUnqualifiedEnum enforces §4.5/§7's E0424 check: a bare enum
// member name used where the expected type is a *different* declared
// enum is rejected, since nothing but the member's own enum qualifies it
// without an explicit `Enum.Member` prefix. Ambiguous member names
// (shared by more than one enum) are skipped rather than guessed at.
func ValidateUnqualifiedEnum(f *ast.File, store *symbols.Store) []error {
	owner := map[string]string{} // member name -> owning enum, "" once ambiguous
	for enumName, info := range store.Enums {
		for member := range info.Values {
			if prev, seen := owner[member]; seen {
				if prev != enumName {
					owner[member] = ""
				}
				continue
			}
			owner[member] = enumName
		}
	}

	var errs []error
	for _, d := range f.Decls {
		errs = append(errs, checkDeclEnum(d, store, owner)...)
	}
	return errs
}

func checkDeclEnum(d ast.Decl, store *symbols.Store, owner map[string]string) []error {
	var errs []error
	switch n := d.(type) {
	case *ast.ScopeDecl:
		for _, m := range n.Members {
			errs = append(errs, checkDeclEnum(m.Decl, store, owner)...)
		}
	case *ast.FunctionDecl:
		if n.Body == nil {
			return nil
		}
		errs = append(errs, checkBlockEnum(n.Body, store, owner, n.Return)...)
	}
	return errs
}

func checkBlockEnum(b *ast.BlockStmt, store *symbols.Store, owner map[string]string, retType *ast.Type) []error {
	var errs []error
	for _, s := range b.Stmts {
		errs = append(errs, checkStmtEnum(s, store, owner, retType)...)
	}
	return errs
}

func checkStmtEnum(s ast.Stmt, store *symbols.Store, owner map[string]string, retType *ast.Type) []error {
	var errs []error
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		if n.Init != nil {
			errs = append(errs, checkExpectedEnum(n.Init, n.Type, owner)...)
			errs = append(errs, checkCallArgsEnum(n.Init, store, owner)...)
		}
	case *ast.AssignStmt:
		errs = append(errs, checkCallArgsEnum(n.Value, store, owner)...)
	case *ast.ExprStmt:
		errs = append(errs, checkCallArgsEnum(n.X, store, owner)...)
	case *ast.ReturnStmt:
		if n.Value != nil {
			errs = append(errs, checkExpectedEnum(n.Value, retType, owner)...)
			errs = append(errs, checkCallArgsEnum(n.Value, store, owner)...)
		}
	case *ast.BlockStmt:
		errs = append(errs, checkBlockEnum(n, store, owner, retType)...)
	case *ast.IfStmt:
		errs = append(errs, checkBlockEnum(n.Then, store, owner, retType)...)
		if n.Else != nil {
			errs = append(errs, checkStmtEnum(n.Else, store, owner, retType)...)
		}
	case *ast.WhileStmt:
		errs = append(errs, checkBlockEnum(n.Body, store, owner, retType)...)
	case *ast.DoWhileStmt:
		errs = append(errs, checkBlockEnum(n.Body, store, owner, retType)...)
	case *ast.ForStmt:
		if n.Init != nil {
			errs = append(errs, checkStmtEnum(n.Init, store, owner, retType)...)
		}
		errs = append(errs, checkBlockEnum(n.Body, store, owner, retType)...)
	case *ast.CriticalStmt:
		errs = append(errs, checkBlockEnum(n.Body, store, owner, retType)...)
	}
	return errs
}

// checkExpectedEnum flags expr when expected names a declared enum and
// expr is a bare identifier belonging unambiguously to a different one.
func checkExpectedEnum(expr ast.Expr, expected *ast.Type, owner map[string]string) []error {
	if expected == nil || expected.Tag != ast.TEnum {
		return nil
	}
	ident, ok := expr.(*ast.IdentExpr)
	if !ok {
		return nil
	}
	enumName, known := owner[ident.Name]
	if !known || enumName == "" || enumName == expected.Name {
		return nil
	}
	return []error{fmt.Errorf(
		"%s: error[E0424]: '%s' is not defined; did you mean '%s.%s'?",
		ident.Pos, ident.Name, enumName, ident.Name)}
}

// checkCallArgsEnum applies checkExpectedEnum to each argument of e when
// e itself is a call to a known function, matched against the callee's
// declared parameter types. Calls nested inside e's operands or inside
// its arguments are not inspected.
func checkCallArgsEnum(e ast.Expr, store *symbols.Store, owner map[string]string) []error {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil
	}
	var errs []error
	if callee, ok := call.Callee.(*ast.IdentExpr); ok {
		if fi, ok := store.Functions[callee.Name]; ok {
			for i, arg := range call.Args {
				if i < len(fi.Decl.Params) {
					errs = append(errs, checkExpectedEnum(arg, fi.Decl.Params[i].Type, owner)...)
				}
			}
		}
	}
	return errs
}
