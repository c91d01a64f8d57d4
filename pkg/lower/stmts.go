package lower

import (
	"github.com/kryonlabs/kryon-core/pkg/ast"
	"github.com/kryonlabs/kryon-core/pkg/manifest"
)

// convertStmts recursively converts a parsed function body into the logic
// block's statement representation: return, variable declarations,
// assignments, delete, if/else (both branches converted), for-each loops,
// and bare expression statements. Anything else in the list (a construct
// the statement grammar doesn't produce, or a malformed entry the parser
// recovered past as nil) is dropped.
func convertStmts(stmts []ast.Stmt) []manifest.Stmt {
	if len(stmts) == 0 {
		return nil
	}
	out := make([]manifest.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.AssignStmt:
			out = append(out, manifest.Stmt{
				Kind: manifest.StmtAssign,
				Name: n.Name,
				Expr: exprText(n.Value),
			})
		case *ast.ReturnStmt:
			out = append(out, manifest.Stmt{
				Kind: manifest.StmtReturn,
				Expr: exprText(n.Value),
			})
		case *ast.DeleteStmt:
			out = append(out, manifest.Stmt{
				Kind: manifest.StmtDelete,
				Expr: exprText(n.Target),
			})
		case *ast.IfStmt:
			out = append(out, manifest.Stmt{
				Kind: manifest.StmtIf,
				Expr: exprText(n.Cond),
				Body: convertStmts(n.Then),
				Else: convertStmts(n.Else),
			})
		case *ast.ForEachStmt:
			out = append(out, manifest.Stmt{
				Kind: manifest.StmtForEach,
				Name: n.ItemName,
				Expr: exprText(n.Iterable),
				Body: convertStmts(n.Body),
			})
		case *ast.VarDeclStmt:
			out = append(out, manifest.Stmt{
				Kind:     manifest.StmtVarDecl,
				Name:     n.Decl.Name,
				TypeName: n.Decl.TypeName,
				Expr:     exprText(n.Decl.Value),
			})
		case *ast.ExprStmt:
			out = append(out, manifest.Stmt{
				Kind: manifest.StmtExpr,
				Expr: exprText(n.X),
			})
		}
	}
	return out
}
