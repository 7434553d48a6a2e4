/*
File    : cocodol/eval/eval_expressions.go
*/
package eval

import (
	"math"

	"cocodol/ast"
	"cocodol/lexer"
	"cocodol/value"
)

// EvalExpr evaluates a single expression node and returns its value. ok is
// false if an error was recorded (in e.Errors) and evaluation should stop.
func (e *Evaluator) EvalExpr(index ast.NodeID) (*value.Value, bool) {
	node := e.Ctx.Node(index)
	switch node.Kind {
	case ast.BoolExpr:
		return value.BoolValue(node.BoolExpr), true

	case ast.IntegerExpr:
		return value.IntegerValue(node.IntegerExpr), true

	case ast.FloatExpr:
		return value.FloatValue(node.FloatExpr), true

	case ast.ParenExpr:
		return e.EvalExpr(node.ParenExpr)

	case ast.DeclRefExpr:
		return e.evalDeclRef(node)

	case ast.UnaryExpr:
		return e.evalUnary(node)

	case ast.BinaryExpr:
		if node.BinaryExpr.Op.Kind == lexer.Assign {
			return e.evalAssign(node)
		}
		return e.evalBinary(node)

	case ast.MemberExpr:
		e.addError(node.Start, node.End, "member access is not supported")
		return nil, false

	case ast.ApplyExpr:
		return e.evalApply(node)
	}

	e.addError(node.Start, node.End, "unexpected expression")
	return nil, false
}

func (e *Evaluator) evalDeclRef(node *ast.Node) (*value.Value, bool) {
	name := node.DeclRef.Name
	text := name.Text(e.Ctx.Source)

	if text == reservedPrint {
		return &value.Value{Kind: value.Print}, true
	}

	v, ok := e.identLookup(text)
	if !ok {
		e.addError(name.Start, name.End, "undefined identifier '%s'", text)
		return nil, false
	}

	if v.Kind == value.Lazy {
		// Re-evaluated fresh on every reference: the stored thunk is never
		// replaced by its result.
		e.pushFrame(frameFunction)
		result, ok := e.EvalExpr(v.Lazy)
		e.popFrame()
		return result, ok
	}

	return value.Clone(v), true
}

func (e *Evaluator) evalUnary(node *ast.Node) (*value.Value, bool) {
	operand, ok := e.EvalExpr(node.UnaryExpr.Operand)
	if !ok {
		return nil, false
	}
	op := node.UnaryExpr.Op

	switch operand.Kind {
	case value.Integer:
		switch op.Kind {
		case lexer.Plus:
			return operand, true
		case lexer.Minus:
			return value.IntegerValue(-operand.Integer), true
		case lexer.Tilde:
			return value.IntegerValue(^operand.Integer), true
		}
	case value.Float:
		switch op.Kind {
		case lexer.Plus:
			return operand, true
		case lexer.Minus:
			return value.FloatValue(-operand.Float), true
		}
	case value.Bool:
		if op.Kind == lexer.Not {
			return value.BoolValue(!operand.Bool), true
		}
	}

	e.addError(node.Start, node.End, "unary operator '%s' is not defined for value of type '%s'",
		op.Text(e.Ctx.Source), operand.Kind.TypeName())
	return nil, false
}

func (e *Evaluator) evalBinary(node *ast.Node) (*value.Value, bool) {
	lhs, ok := e.EvalExpr(node.BinaryExpr.Lhs)
	if !ok {
		return nil, false
	}
	rhs, ok := e.EvalExpr(node.BinaryExpr.Rhs)
	if !ok {
		return nil, false
	}
	op := node.BinaryExpr.Op

	if lhs.Kind == rhs.Kind {
		switch lhs.Kind {
		case value.Integer:
			if result, ok := evalIntegerOp(op.Kind, lhs.Integer, rhs.Integer); ok {
				return result, true
			}
		case value.Float:
			if result, ok := evalFloatOp(op.Kind, lhs.Float, rhs.Float); ok {
				return result, true
			}
		case value.Bool:
			if result, ok := evalBoolOp(op.Kind, lhs.Bool, rhs.Bool); ok {
				return result, true
			}
		}
	}

	e.addError(node.Start, node.End, "operator '%s' is not defined for values of type '%s' and '%s'",
		op.Text(e.Ctx.Source), lhs.Kind.TypeName(), rhs.Kind.TypeName())
	return nil, false
}

// evalIntegerOp implements the integer operator table from builtins.h:
// shifts, arithmetic, bitwise, and comparisons. Division/modulo by zero is
// reported as an evaluation error rather than replicating C's crash.
func evalIntegerOp(op lexer.Kind, lhs, rhs int64) (*value.Value, bool) {
	switch op {
	case lexer.LShift:
		return value.IntegerValue(lhs << uint64(rhs)), true
	case lexer.RShift:
		return value.IntegerValue(lhs >> uint64(rhs)), true
	case lexer.Star:
		return value.IntegerValue(lhs * rhs), true
	case lexer.Slash:
		if rhs == 0 {
			return nil, false
		}
		return value.IntegerValue(lhs / rhs), true
	case lexer.Percent:
		if rhs == 0 {
			return nil, false
		}
		return value.IntegerValue(lhs % rhs), true
	case lexer.Plus:
		return value.IntegerValue(lhs + rhs), true
	case lexer.Minus:
		return value.IntegerValue(lhs - rhs), true
	case lexer.Pipe:
		return value.IntegerValue(lhs | rhs), true
	case lexer.Amp:
		return value.IntegerValue(lhs & rhs), true
	case lexer.Caret:
		return value.IntegerValue(lhs ^ rhs), true
	case lexer.Lt:
		return value.BoolValue(lhs < rhs), true
	case lexer.Le:
		return value.BoolValue(lhs <= rhs), true
	case lexer.Gt:
		return value.BoolValue(lhs > rhs), true
	case lexer.Ge:
		return value.BoolValue(lhs >= rhs), true
	case lexer.Eq:
		return value.BoolValue(lhs == rhs), true
	case lexer.Ne:
		return value.BoolValue(lhs != rhs), true
	}
	return nil, false
}

func evalFloatOp(op lexer.Kind, lhs, rhs float64) (*value.Value, bool) {
	switch op {
	case lexer.Star:
		return value.FloatValue(lhs * rhs), true
	case lexer.Slash:
		return value.FloatValue(lhs / rhs), true
	case lexer.Percent:
		return value.FloatValue(math.Mod(lhs, rhs)), true
	case lexer.Plus:
		return value.FloatValue(lhs + rhs), true
	case lexer.Minus:
		return value.FloatValue(lhs - rhs), true
	case lexer.Lt:
		return value.BoolValue(lhs < rhs), true
	case lexer.Le:
		return value.BoolValue(lhs <= rhs), true
	case lexer.Gt:
		return value.BoolValue(lhs > rhs), true
	case lexer.Ge:
		return value.BoolValue(lhs >= rhs), true
	case lexer.Eq:
		return value.BoolValue(lhs == rhs), true
	case lexer.Ne:
		return value.BoolValue(lhs != rhs), true
	}
	return nil, false
}

func evalBoolOp(op lexer.Kind, lhs, rhs bool) (*value.Value, bool) {
	switch op {
	case lexer.And:
		return value.BoolValue(lhs && rhs), true
	case lexer.Or:
		return value.BoolValue(lhs || rhs), true
	}
	return nil, false
}

// evalAssign evaluates "lhs = rhs": lhs must be a plain identifier
// reference. Unlike the original (which leaves the value stack short by
// one after an assignment expression), this evaluates to the assigned
// value, so assignment composes predictably as a Go expression. The
// returned value is its own copy, not the target's storage cell, so using
// an assignment as another binding's initializer doesn't alias the two.
func (e *Evaluator) evalAssign(node *ast.Node) (*value.Value, bool) {
	lhsNode := e.Ctx.Node(node.BinaryExpr.Lhs)
	if lhsNode.Kind != ast.DeclRefExpr {
		e.addError(lhsNode.Start, lhsNode.End, "invalid assignment target")
		return nil, false
	}

	text := lhsNode.DeclRef.Name.Text(e.Ctx.Source)
	target, ok := e.identLookup(text)
	if !ok {
		e.addError(lhsNode.Start, lhsNode.End, "undefined identifier '%s'", text)
		return nil, false
	}

	rhs, ok := e.EvalExpr(node.BinaryExpr.Rhs)
	if !ok {
		return nil, false
	}

	*target = *value.Clone(rhs)
	return value.Clone(target), true
}
