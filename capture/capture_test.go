/*
File    : cocodol/capture/capture_test.go
*/
package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cocodol/ast"
	"cocodol/lexer"
	"cocodol/parser"
)

func parseFirstFun(t *testing.T, src string) (*ast.Context, ast.NodeID) {
	t.Helper()
	ctx := ast.NewContext(src)
	p := parser.New(src, ctx)
	decls := p.Parse()
	require.False(t, p.HasErrors())

	for _, d := range decls {
		if ctx.Node(d).Kind == ast.FunDecl {
			return ctx, d
		}
	}
	t.Fatal("no fun_decl found")
	return nil, ast.None
}

func names(ctx *ast.Context, tokens []lexer.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text(ctx.Source)
	}
	return out
}

func TestList_CapturesFreeVariable(t *testing.T) {
	ctx, fn := parseFirstFun(t, "var total = 0; fun bump() { total = total + 1; }")
	free := names(ctx, List(ctx, fn))
	assert.Contains(t, free, "total")
}

func TestList_ParameterIsNotCaptured(t *testing.T) {
	ctx, fn := parseFirstFun(t, "fun add(a, b) { ret a + b; }")
	free := names(ctx, List(ctx, fn))
	assert.Empty(t, free)
}

func TestList_LocalVarIsNotCaptured(t *testing.T) {
	ctx, fn := parseFirstFun(t, "fun f() { var x = 1; ret x; }")
	free := names(ctx, List(ctx, fn))
	assert.Empty(t, free)
}

func TestList_RecursiveCallIsNotCaptured(t *testing.T) {
	ctx, fn := parseFirstFun(t, "fun fact(n) { if n { ret n; } ret fact(n); }")
	free := names(ctx, List(ctx, fn))
	assert.Empty(t, free)
}

func TestList_NestedFunctionEscapingCaptureIsPropagated(t *testing.T) {
	ctx, fn := parseFirstFun(t, "var shared = 1; fun outer() { fun inner() { ret shared; } }")
	free := names(ctx, List(ctx, fn))
	assert.Contains(t, free, "shared")
}

func TestList_NestedFunctionLocalVarIsNotPropagated(t *testing.T) {
	ctx, fn := parseFirstFun(t, "fun outer() { fun inner() { var y = 1; ret y; } }")
	free := names(ctx, List(ctx, fn))
	assert.Empty(t, free)
}

func TestList_EnclosingBlockLocalIsNotCaptured(t *testing.T) {
	ctx, fn := parseFirstFun(t, "fun f() { var x = 1; if true { var y = x; } }")
	free := names(ctx, List(ctx, fn))
	assert.Empty(t, free)
}
