/*
File    : cocodol/eval/evaluator.go
*/

// Package eval implements the Cocodol tree-walking evaluator: a direct
// recursive-descent walk over the ast.Context arena, grounded on the
// original runtime's eval.c node-by-node semantics. Where the original
// drives evaluation through a two-phase node_walk callback and an explicit
// value stack (tools a C program needs because C has no return-value
// recursion story of its own), this implementation uses Go's native call
// stack and return values instead — the frame chain, lazy-global
// re-evaluation, capture-by-value closures, and every operator/error
// message stay exactly as the original defines them.
package eval

import (
	"fmt"
	"io"
	"os"

	"cocodol/ast"
	"cocodol/capture"
	"cocodol/lexer"
	"cocodol/symtable"
	"cocodol/value"
)

// EvalError is a single evaluation-time diagnostic.
type EvalError struct {
	Start   int
	End     int
	Message string
}

func (e EvalError) Error() string { return e.Message }

// Evaluator holds all state needed to execute a parsed Cocodol program:
// the arena it was parsed into, the global symbol table, the current frame
// chain, and the destination for print output.
type Evaluator struct {
	Ctx     *ast.Context
	Globals *symtable.Table
	Frame   *frame
	Writer  io.Writer

	Errors []EvalError
}

// NewEvaluator creates an evaluator over ctx, writing print output to
// os.Stdout by default.
func NewEvaluator(ctx *ast.Context) *Evaluator {
	return &Evaluator{
		Ctx:     ctx,
		Globals: symtable.New(),
		Writer:  os.Stdout,
	}
}

// SetWriter redirects print output, e.g. to a buffer under test.
func (e *Evaluator) SetWriter(w io.Writer) { e.Writer = w }

func (e *Evaluator) addError(start, end int, format string, args ...any) {
	e.Errors = append(e.Errors, EvalError{Start: start, End: end, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic was recorded.
func (e *Evaluator) HasErrors() bool { return len(e.Errors) > 0 }

// reservedPrint is the identifier name reserved for the print sentinel
// value; declaring a variable or function with this name is an error.
const reservedPrint = "print"

// insertSymbol stores value under name in table, rejecting the reserved
// "print" identifier and duplicate declarations. Grounded on eval.c's
// insert_symbol.
func (e *Evaluator) insertSymbol(table *symtable.Table, name lexer.Token, v *value.Value) bool {
	text := name.Text(e.Ctx.Source)
	if text == reservedPrint {
		e.addError(name.Start, name.End, "invalid declaration, 'print' is a reserved identifier")
		return false
	}
	if _, inserted := table.Insert(text, v); !inserted {
		e.addError(name.Start, name.End, "duplicate declaration '%s'", text)
		return false
	}
	return true
}

// identLookup resolves name against the current frame chain, stopping at
// the first frameFunction boundary, then against globals. Grounded on
// eval.c's ident_lookup.
func (e *Evaluator) identLookup(name string) (*value.Value, bool) {
	for f := e.Frame; f != nil; {
		if v, ok := f.locals.Get(name); ok {
			return v.(*value.Value), true
		}
		if f.kind != frameFunction {
			f = f.prev
			continue
		}
		break
	}
	if v, ok := e.Globals.Get(name); ok {
		return v.(*value.Value), true
	}
	return nil, false
}

// pushFrame enters a new frame on top of the current one.
func (e *Evaluator) pushFrame(kind frameKind) *frame {
	f := newFrame(kind, e.Frame)
	e.Frame = f
	return f
}

// popFrame leaves the current frame, returning to its parent.
func (e *Evaluator) popFrame() {
	if e.Frame == nil {
		return
	}
	e.Frame = e.Frame.prev
}

// buildCapturedEnv evaluates a nested function declaration's free
// variables against the current frame chain and returns a symtable holding
// independent copies of each one, or nil if the function captures nothing.
// Grounded on eval.c's capture_list use inside the nk_fun_decl handler.
func (e *Evaluator) buildCapturedEnv(funIndex ast.NodeID) (*symtable.Table, bool) {
	names := capture.List(e.Ctx, funIndex)
	if len(names) == 0 {
		return nil, true
	}

	env := symtable.New()
	for _, tok := range names {
		text := tok.Text(e.Ctx.Source)
		if _, ok := env.Get(text); ok {
			continue
		}
		v, ok := e.identLookup(text)
		if !ok {
			e.addError(tok.Start, tok.End, "undefined identifier '%s'", text)
			return nil, false
		}
		env.Insert(text, value.Clone(v))
	}
	return env, true
}
