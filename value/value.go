/*
File    : cocodol/value/value.go
*/

// Package value defines the tagged runtime value every Cocodol expression
// evaluates to. Grounded directly on the original runtime's value.h union:
// the same seven variants, the same "print is a value, not a call target
// lookup" trick, and the same lazy/function payloads.
package value

import (
	"cocodol/ast"
	"cocodol/symtable"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	// Junk is the value of an uninitialized variable (a var_decl with no
	// initializer) and of a function call with no useful result.
	Junk Kind = iota
	// Print is the sentinel value bound to the reserved identifier
	// "print" — not a real function, recognized specially at call sites.
	Print
	// Lazy wraps a not-yet-evaluated global initializer expression. Unlike
	// memoized lazy values, reading one re-evaluates the initializer every
	// time: the stored Lazy node index is never replaced by its result,
	// matching the original runtime's declref handling exactly.
	Lazy
	Function
	Bool
	Integer
	Float
)

var kindNames = [...]string{
	Junk: "Junk", Print: "Function", Lazy: "Function", Function: "Function",
	Bool: "Bool", Integer: "Integer", Float: "Float",
}

// TypeName returns the diagnostic type name used in error messages, e.g.
// "unary operator '-' is not defined for value of type 'Bool'".
func (k Kind) TypeName() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Value is a single Cocodol runtime value. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind Kind

	Bool    bool
	Integer int64
	Float   float64

	// Lazy holds the initializer expression node for a not-yet-evaluated
	// global.
	Lazy ast.NodeID

	// Decl and Env describe a function value: the fun_decl node, and its
	// captured closure environment (nil for a function with no free
	// variables, e.g. every top-level function). Env is a symtable.Table
	// mapping captured names to their own *Value, the same table type used
	// for globals and frame locals.
	Decl ast.NodeID
	Env  *symtable.Table
}

// Clone returns a deep structural copy of v: for a Function value with a
// captured environment, every captured binding is itself cloned, matching
// the original runtime's value_copy/copy_symbol_entry combination. Every
// other variant is a plain value copy.
func Clone(v *Value) *Value {
	clone := *v
	if v.Kind == Function && v.Env != nil {
		clone.Env = v.Env.Copy(func(bound any) any { return Clone(bound.(*Value)) })
	}
	return &clone
}

// BoolValue, IntegerValue, etc. are small constructors used throughout eval.
func BoolValue(b bool) *Value           { return &Value{Kind: Bool, Bool: b} }
func IntegerValue(i int64) *Value       { return &Value{Kind: Integer, Integer: i} }
func FloatValue(f float64) *Value       { return &Value{Kind: Float, Float: f} }
func JunkValue() *Value                 { return &Value{Kind: Junk} }
func LazyValue(node ast.NodeID) *Value  { return &Value{Kind: Lazy, Lazy: node} }
func FunctionValue(decl ast.NodeID, env *symtable.Table) *Value {
	return &Value{Kind: Function, Decl: decl, Env: env}
}
