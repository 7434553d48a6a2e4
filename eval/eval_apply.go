/*
File    : cocodol/eval/eval_apply.go
*/
package eval

import (
	"fmt"

	"cocodol/ast"
	"cocodol/value"
)

func (e *Evaluator) evalApply(node *ast.Node) (*value.Value, bool) {
	callee, ok := e.EvalExpr(node.ApplyExpr.Callee)
	if !ok {
		return nil, false
	}

	args := make([]*value.Value, 0, len(node.ApplyExpr.Args))
	for _, argIndex := range node.ApplyExpr.Args {
		arg, ok := e.EvalExpr(argIndex)
		if !ok {
			return nil, false
		}
		args = append(args, arg)
	}

	switch callee.Kind {
	case value.Print:
		if len(args) != 1 {
			e.addError(node.Start, node.End, "'print' expects exactly one argument")
			return nil, false
		}
		fmt.Fprintln(e.Writer, formatPrinted(args[0]))
		return value.JunkValue(), true

	case value.Function:
		return e.callFunction(node, callee, args)
	}

	e.addError(node.Start, node.End, "bad callee")
	return nil, false
}

// formatPrinted renders a value the way eval_print does: one line per
// call, with functions/lazy thunks shown as an opaque "$function".
func formatPrinted(v *value.Value) string {
	switch v.Kind {
	case value.Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case value.Integer:
		return fmt.Sprintf("%d", v.Integer)
	case value.Float:
		return fmt.Sprintf("%f", v.Float)
	case value.Lazy, value.Print, value.Function:
		return "$function"
	default:
		return "$junk"
	}
}

// callFunction binds args to fn's parameters in a fresh function frame,
// merges in its captured environment, and runs its body. A function that
// completes without an explicit ret statement evaluates to Junk.
func (e *Evaluator) callFunction(site *ast.Node, fn *value.Value, args []*value.Value) (*value.Value, bool) {
	decl := e.Ctx.Node(fn.Decl)
	params := decl.FunDecl.Params
	if len(args) != len(params) {
		e.addError(site.Start, site.End, "expected %d argument(s), got %d", len(params), len(args))
		return nil, false
	}

	e.pushFrame(frameFunction)
	defer e.popFrame()

	for i, param := range params {
		if !e.insertSymbol(e.Frame.locals, param, value.Clone(args[i])) {
			return nil, false
		}
	}

	if fn.Env != nil {
		var failed bool
		fn.Env.ForEach(func(key string, bound any) {
			if failed {
				return
			}
			if _, inserted := e.Frame.locals.Insert(key, value.Clone(bound.(*value.Value))); !inserted {
				failed = true
			}
		})
		if failed {
			e.addError(site.Start, site.End, "capture conflicts with a parameter name")
			return nil, false
		}
	}

	result, sig, ok := e.EvalBlock(decl.FunDecl.Body)
	if !ok {
		return nil, false
	}
	if sig == signalReturn {
		return result, true
	}
	return value.JunkValue(), true
}
