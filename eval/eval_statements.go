/*
File    : cocodol/eval/eval_statements.go
*/
package eval

import (
	"cocodol/ast"
	"cocodol/value"
)

// EvalStmt evaluates a single statement node. The returned signal tells the
// caller whether a brk/nxt/ret was encountered and should keep bubbling;
// value is only meaningful alongside signalReturn.
func (e *Evaluator) EvalStmt(index ast.NodeID) (*value.Value, signal, bool) {
	node := e.Ctx.Node(index)
	switch node.Kind {
	case ast.VarDecl:
		var v *value.Value
		if node.VarDecl.Initializer != ast.None {
			init, ok := e.EvalExpr(node.VarDecl.Initializer)
			if !ok {
				return nil, signalNone, false
			}
			v = value.Clone(init)
		} else {
			v = value.JunkValue()
		}
		if !e.insertSymbol(e.Frame.locals, node.VarDecl.Name, v) {
			return nil, signalNone, false
		}
		return nil, signalNone, true

	case ast.FunDecl:
		env, ok := e.buildCapturedEnv(index)
		if !ok {
			return nil, signalNone, false
		}
		fn := value.FunctionValue(index, env)
		if !e.insertSymbol(e.Frame.locals, node.FunDecl.Name, fn) {
			return nil, signalNone, false
		}
		return nil, signalNone, true

	case ast.ObjDecl:
		e.addError(node.Start, node.End, "object declarations are not supported")
		return nil, signalNone, false

	case ast.ExprStmt:
		if _, ok := e.EvalExpr(node.ExprStmt); !ok {
			return nil, signalNone, false
		}
		return nil, signalNone, true

	case ast.BraceStmt:
		return e.EvalBlock(index)

	case ast.IfStmt:
		return e.evalIf(node)

	case ast.WhileStmt:
		return e.evalWhile(node)

	case ast.BrkStmt:
		return nil, signalBreak, true

	case ast.NxtStmt:
		return nil, signalNext, true

	case ast.RetStmt:
		v, ok := e.EvalExpr(node.RetStmt)
		if !ok {
			return nil, signalNone, false
		}
		return v, signalReturn, true
	}

	e.addError(node.Start, node.End, "unexpected statement")
	return nil, signalNone, false
}

// EvalStmtList runs stmts in order, stopping as soon as one yields a
// non-None signal (brk/nxt/ret) — the same "false bubbles past every
// sibling" behavior the original gets from node_walk's pre/post contract.
func (e *Evaluator) EvalStmtList(stmts []ast.NodeID) (*value.Value, signal, bool) {
	for _, stmt := range stmts {
		v, sig, ok := e.EvalStmt(stmt)
		if !ok {
			return nil, signalNone, false
		}
		if sig != signalNone {
			return v, sig, true
		}
	}
	return nil, signalNone, true
}

// EvalBlock runs a brace_stmt's statement list inside a fresh frameBlock.
func (e *Evaluator) EvalBlock(index ast.NodeID) (*value.Value, signal, bool) {
	node := e.Ctx.Node(index)
	e.pushFrame(frameBlock)
	v, sig, ok := e.EvalStmtList(node.BraceStmt.Stmts)
	e.popFrame()
	return v, sig, ok
}

func (e *Evaluator) evalIf(node *ast.Node) (*value.Value, signal, bool) {
	cond, ok := e.EvalExpr(node.IfStmt.Cond)
	if !ok {
		return nil, signalNone, false
	}
	if cond.Kind != value.Bool {
		condNode := e.Ctx.Node(node.IfStmt.Cond)
		e.addError(condNode.Start, condNode.End, "'if' condition must evaluate to a Boolean value")
		return nil, signalNone, false
	}

	if cond.Bool {
		return e.EvalStmt(node.IfStmt.Then)
	}
	if node.IfStmt.Else != ast.None {
		return e.EvalStmt(node.IfStmt.Else)
	}
	return nil, signalNone, true
}

func (e *Evaluator) evalWhile(node *ast.Node) (*value.Value, signal, bool) {
	for {
		cond, ok := e.EvalExpr(node.WhileStmt.Cond)
		if !ok {
			return nil, signalNone, false
		}
		if cond.Kind != value.Bool {
			condNode := e.Ctx.Node(node.WhileStmt.Cond)
			e.addError(condNode.Start, condNode.End, "'while' condition must evaluate to a Boolean value")
			return nil, signalNone, false
		}
		if !cond.Bool {
			return nil, signalNone, true
		}

		v, sig, ok := e.EvalStmt(node.WhileStmt.Body)
		if !ok {
			return nil, signalNone, false
		}
		switch sig {
		case signalBreak:
			return nil, signalNone, true
		case signalReturn:
			return v, signalReturn, true
		case signalNext, signalNone:
			// fall through to the next iteration
		}
	}
}
