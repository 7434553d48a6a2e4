/*
File    : cocodol/eval/eval_program.go
*/
package eval

import (
	"cocodol/ast"
	"cocodol/value"
)

// EvalProgram registers every top-level declaration, then runs the
// top-level statement groups in source order. Global variables with an
// initializer are stored as lazy thunks — evaluated (and re-evaluated, with
// no caching) the first time something references them, matching the
// original runtime's declref handling for globals.
//
// A duplicate global or reserved-name declaration records a diagnostic but
// does not stop registration of the remaining declarations, and does not
// stop the top-level statements from running afterward — matching
// eval_program's own insert_symbol-returns-false-and-continues loop. The
// overall pass is reported as failed if any diagnostic was recorded, even
// when every top-level statement itself ran cleanly.
func (e *Evaluator) EvalProgram(decls []ast.NodeID) bool {
	var topDecls []ast.NodeID

	for _, index := range decls {
		node := e.Ctx.Node(index)
		switch node.Kind {
		case ast.TopDecl:
			topDecls = append(topDecls, index)

		case ast.VarDecl:
			var v *value.Value
			if node.VarDecl.Initializer != ast.None {
				v = value.LazyValue(node.VarDecl.Initializer)
			} else {
				v = value.JunkValue()
			}
			e.insertSymbol(e.Globals, node.VarDecl.Name, v)

		case ast.FunDecl:
			e.insertSymbol(e.Globals, node.FunDecl.Name, value.FunctionValue(index, nil))

		case ast.ObjDecl:
			e.addError(node.Start, node.End, "object declarations are not supported")
		}
	}

	for _, index := range topDecls {
		node := e.Ctx.Node(index)
		if _, _, ok := e.EvalStmtList(node.TopDecl.Stmts); !ok {
			return false
		}
	}

	return !e.HasErrors()
}
