/*
File    : cocodol/capture/capture.go
*/

// Package capture performs static free-variable analysis over a function
// declaration's body: which identifiers it references that are neither a
// local (a var_decl reachable through the enclosing scope chain), a
// parameter, nor the function's own name for recursion. Those are the
// identifiers a closure must capture from its defining environment.
//
// Grounded on the original runtime's eval.c: capture_visitor,
// ident_is_local, and capture_list.
package capture

import (
	"cocodol/ast"
	"cocodol/lexer"
)

// MaxCount bounds the number of free variables a single function may
// reference, matching the original runtime's MAX_CAPTURE_COUNT.
const MaxCount = 64

// visitorEnv mirrors the original's CaptureVisitorEnv: the state threaded
// through the body walk.
type visitorEnv struct {
	ctx       *ast.Context
	funIndex  ast.NodeID
	bodyIndex ast.NodeID
	scope     ast.NodeID
	names     []lexer.Token
}

// isLocal reports whether lhs resolves to a local declaration, a
// parameter, or the enclosing function's own name — anything that is
// NOT a free reference needing capture.
func isLocal(env *visitorEnv, lhs lexer.Token) bool {
	text := lhs.Text(env.ctx.Source)

	scopeIndex := env.scope
	for scopeIndex != ast.None {
		scope := env.ctx.Node(scopeIndex)
		for list := scope.BraceStmt.LastDecl; list != nil; list = list.Prev {
			decl := env.ctx.Node(list.Decl)
			if decl.Kind == ast.VarDecl && decl.VarDecl.Name.Text(env.ctx.Source) == text {
				return true
			}
		}

		if scopeIndex == env.bodyIndex {
			break
		}
		scopeIndex = scope.BraceStmt.Parent
	}

	funDecl := env.ctx.Node(env.funIndex)
	for _, param := range funDecl.FunDecl.Params {
		if param.Text(env.ctx.Source) == text {
			return true
		}
	}

	return funDecl.FunDecl.Name.Text(env.ctx.Source) == text
}

// visit implements the same traversal shape as the original's
// capture_visitor: fun_decl and declref_expr are leaves for this walk's
// purposes (never descended into further by the generic walker — the
// nested function's own free variables are resolved independently and
// only the ones that escape this function are added), while brace_stmt
// tracks the current scope as the walk enters and leaves it.
func visit(env *visitorEnv, index ast.NodeID, kind ast.Kind, pre bool) bool {
	// add records a free name once per distinct text, up to MaxCount names.
	add := func(name lexer.Token) {
		text := name.Text(env.ctx.Source)
		for _, seen := range env.names {
			if seen.Text(env.ctx.Source) == text {
				return
			}
		}
		if len(env.names) < MaxCount {
			env.names = append(env.names, name)
		}
	}

	switch kind {
	case ast.FunDecl:
		if !pre {
			return true
		}
		nested := List(env.ctx, index)
		for _, name := range nested {
			if !isLocal(env, name) {
				add(name)
			}
		}
		return false

	case ast.DeclRefExpr:
		if !pre {
			return true
		}
		lhs := env.ctx.Node(index).DeclRef.Name
		if !isLocal(env, lhs) {
			add(lhs)
		}
		return false

	case ast.BraceStmt:
		if pre {
			env.scope = index
		} else {
			env.scope = env.ctx.Node(index).BraceStmt.Parent
		}
		return true

	default:
		return true
	}
}

// List returns the free-variable name tokens referenced by funIndex's body:
// one token per distinct name, in order of first reference, and at most
// MaxCount of them. Free names found after MaxCount distinct names have been
// recorded are dropped without a diagnostic.
func List(ctx *ast.Context, funIndex ast.NodeID) []lexer.Token {
	bodyIndex := ctx.Node(funIndex).FunDecl.Body
	env := &visitorEnv{
		ctx:       ctx,
		funIndex:  funIndex,
		bodyIndex: bodyIndex,
		scope:     bodyIndex,
	}

	ast.Walk(bodyIndex, ctx, nil, func(index ast.NodeID, kind ast.Kind, pre bool, _ any) bool {
		return visit(env, index, kind, pre)
	})

	return env.names
}
