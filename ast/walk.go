/*
File    : cocodol/ast/walk.go
*/
package ast

// Visitor is called once on entering a node (pre=true) and once on leaving
// it (pre=false). In pre-order, a false return skips the node's children but
// continues the walk. In post-order, a false return aborts the entire walk.
type Visitor func(index NodeID, kind Kind, pre bool, user any) bool

// Walk performs a pre/post traversal of the subtree rooted at index,
// presenting each child in the same order the grammar produces it. This is
// the generic default traversal. eval does not use it: it evaluates with its
// own mutually-recursive functions, since several node kinds there override
// default descent (e.g. if_stmt's single-branch descent, assignment's lvalue
// handling). Walk is what a visitor gets when it asks to "just descend".
//
// Returns false only if the walk was aborted during a post-order visit.
func Walk(index NodeID, ctx *Context, user any, visit Visitor) bool {
	node := ctx.Node(index)
	kind := node.Kind
	if !visit(index, kind, true, user) {
		return true
	}

	switch kind {
	case TopDecl:
		for _, stmt := range node.TopDecl.Stmts {
			if !Walk(stmt, ctx, user, visit) {
				return false
			}
		}

	case VarDecl:
		if init := node.VarDecl.Initializer; init != None {
			if !Walk(init, ctx, user, visit) {
				return false
			}
		}

	case FunDecl:
		if !Walk(node.FunDecl.Body, ctx, user, visit) {
			return false
		}

	case ObjDecl:
		if !Walk(node.ObjDecl.Body, ctx, user, visit) {
			return false
		}

	case UnaryExpr:
		if !Walk(node.UnaryExpr.Operand, ctx, user, visit) {
			return false
		}

	case BinaryExpr:
		if !Walk(node.BinaryExpr.Lhs, ctx, user, visit) {
			return false
		}
		if !Walk(node.BinaryExpr.Rhs, ctx, user, visit) {
			return false
		}

	case MemberExpr:
		if !Walk(node.MemberExpr.Base, ctx, user, visit) {
			return false
		}

	case ApplyExpr:
		if !Walk(node.ApplyExpr.Callee, ctx, user, visit) {
			return false
		}
		for _, arg := range node.ApplyExpr.Args {
			if !Walk(arg, ctx, user, visit) {
				return false
			}
		}

	case ParenExpr:
		if !Walk(node.ParenExpr, ctx, user, visit) {
			return false
		}

	case BraceStmt:
		for _, stmt := range node.BraceStmt.Stmts {
			if !Walk(stmt, ctx, user, visit) {
				return false
			}
		}

	case ExprStmt:
		if !Walk(node.ExprStmt, ctx, user, visit) {
			return false
		}

	case IfStmt:
		if !Walk(node.IfStmt.Cond, ctx, user, visit) {
			return false
		}
		if !Walk(node.IfStmt.Then, ctx, user, visit) {
			return false
		}
		if els := node.IfStmt.Else; els != None {
			if !Walk(els, ctx, user, visit) {
				return false
			}
		}

	case WhileStmt:
		if !Walk(node.WhileStmt.Cond, ctx, user, visit) {
			return false
		}
		if !Walk(node.WhileStmt.Body, ctx, user, visit) {
			return false
		}

	case RetStmt:
		if !Walk(node.RetStmt, ctx, user, visit) {
			return false
		}

	case Error, DeclRefExpr, BoolExpr, IntegerExpr, FloatExpr, BrkStmt, NxtStmt:
		// Leaf kinds: nothing further to descend into.
	}

	return visit(index, kind, false, user)
}
