/*
File    : cocodol/parser/parser_test.go
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cocodol/ast"
	"cocodol/lexer"
)

func parse(t *testing.T, src string) ([]ast.NodeID, *ast.Context, *Parser) {
	t.Helper()
	ctx := ast.NewContext(src)
	p := New(src, ctx)
	decls := p.Parse()
	return decls, ctx, p
}

func TestParse_VarDeclWithInitializer(t *testing.T) {
	decls, ctx, p := parse(t, "var x = 1 + 2;")
	require.False(t, p.HasErrors())
	require.Len(t, decls, 1)

	n := ctx.Node(decls[0])
	require.Equal(t, ast.VarDecl, n.Kind)
	assert.Equal(t, "x", n.VarDecl.Name.Text(src(ctx)))

	init := ctx.Node(n.VarDecl.Initializer)
	require.Equal(t, ast.BinaryExpr, init.Kind)
	assert.Equal(t, lexer.Plus, init.BinaryExpr.Op.Kind)
}

func src(ctx *ast.Context) string { return ctx.Source }

func TestParse_VarDeclWithoutInitializer(t *testing.T) {
	decls, ctx, p := parse(t, "var x;")
	require.False(t, p.HasErrors())
	n := ctx.Node(decls[0])
	assert.Equal(t, ast.None, n.VarDecl.Initializer)
}

func TestParse_FunDeclParamsAndBody(t *testing.T) {
	decls, ctx, p := parse(t, "fun add(a, b) { ret a + b; }")
	require.False(t, p.HasErrors())
	require.Len(t, decls, 1)

	n := ctx.Node(decls[0])
	require.Equal(t, ast.FunDecl, n.Kind)
	require.Len(t, n.FunDecl.Params, 2)
	assert.Equal(t, "a", n.FunDecl.Params[0].Text(ctx.Source))
	assert.Equal(t, "b", n.FunDecl.Params[1].Text(ctx.Source))

	body := ctx.Node(n.FunDecl.Body)
	require.Equal(t, ast.BraceStmt, body.Kind)
	require.Len(t, body.BraceStmt.Stmts, 1)
}

func TestParse_MultiplicationBindsTighterThanAddition(t *testing.T) {
	decls, ctx, p := parse(t, "1 + 2 * 3;")
	require.False(t, p.HasErrors())
	require.Len(t, decls, 1)

	top := ctx.Node(decls[0])
	require.Equal(t, ast.TopDecl, top.Kind)
	require.Len(t, top.TopDecl.Stmts, 1)

	exprStmt := ctx.Node(top.TopDecl.Stmts[0])
	add := ctx.Node(exprStmt.ExprStmt)
	require.Equal(t, ast.BinaryExpr, add.Kind)
	assert.Equal(t, lexer.Plus, add.BinaryExpr.Op.Kind)

	rhs := ctx.Node(add.BinaryExpr.Rhs)
	require.Equal(t, ast.BinaryExpr, rhs.Kind)
	assert.Equal(t, lexer.Star, rhs.BinaryExpr.Op.Kind)
}

func TestParse_LeftAssociativeSubtraction(t *testing.T) {
	decls, ctx, p := parse(t, "10 - 2 - 3;")
	require.False(t, p.HasErrors())
	top := ctx.Node(decls[0])
	exprStmt := ctx.Node(top.TopDecl.Stmts[0])
	outer := ctx.Node(exprStmt.ExprStmt)
	require.Equal(t, ast.BinaryExpr, outer.Kind)

	lhs := ctx.Node(outer.BinaryExpr.Lhs)
	require.Equal(t, ast.BinaryExpr, lhs.Kind, "left-associative: outer lhs should be the inner subtraction")
}

func TestParse_PrefixOperatorBindsLoosely(t *testing.T) {
	// Prefix operators recurse into the whole expression grammar, so
	// "-a + b" parses as -(a + b), not (-a) + b.
	decls, ctx, p := parse(t, "var r = -a + b;")
	require.False(t, p.HasErrors())
	n := ctx.Node(decls[0])
	unary := ctx.Node(n.VarDecl.Initializer)
	require.Equal(t, ast.UnaryExpr, unary.Kind)

	operand := ctx.Node(unary.UnaryExpr.Operand)
	require.Equal(t, ast.BinaryExpr, operand.Kind)
}

func TestParse_MemberAndCallChain(t *testing.T) {
	decls, ctx, p := parse(t, "obj_name.method(1, 2).field;")
	require.False(t, p.HasErrors())
	top := ctx.Node(decls[0])
	exprStmt := ctx.Node(top.TopDecl.Stmts[0])
	outer := ctx.Node(exprStmt.ExprStmt)
	require.Equal(t, ast.MemberExpr, outer.Kind)
	assert.Equal(t, "field", outer.MemberExpr.Member.Text(ctx.Source))

	call := ctx.Node(outer.MemberExpr.Base)
	require.Equal(t, ast.ApplyExpr, call.Kind)
	require.Len(t, call.ApplyExpr.Args, 2)

	callee := ctx.Node(call.ApplyExpr.Callee)
	require.Equal(t, ast.MemberExpr, callee.Kind)
	assert.Equal(t, "method", callee.MemberExpr.Member.Text(ctx.Source))
}

func TestParse_IfElseChain(t *testing.T) {
	decls, ctx, p := parse(t, "if a { brk; } else if b { nxt; } else { ret 0; }")
	require.False(t, p.HasErrors())
	top := ctx.Node(decls[0])
	n := ctx.Node(top.TopDecl.Stmts[0])
	require.Equal(t, ast.IfStmt, n.Kind)

	elseBranch := ctx.Node(n.IfStmt.Else)
	require.Equal(t, ast.IfStmt, elseBranch.Kind)

	innerElse := ctx.Node(elseBranch.IfStmt.Else)
	require.Equal(t, ast.BraceStmt, innerElse.Kind)
}

func TestParse_WhileLoop(t *testing.T) {
	decls, ctx, p := parse(t, "while true { brk; }")
	require.False(t, p.HasErrors())
	top := ctx.Node(decls[0])
	n := ctx.Node(top.TopDecl.Stmts[0])
	require.Equal(t, ast.WhileStmt, n.Kind)

	cond := ctx.Node(n.WhileStmt.Cond)
	require.Equal(t, ast.BoolExpr, cond.Kind)
	assert.True(t, cond.BoolExpr)
}

func TestParse_DeclarationListThreadedInBlock(t *testing.T) {
	_, ctx, p := parse(t, "fun f() { var a = 1; var b = 2; ret a + b; }")
	require.False(t, p.HasErrors())

	// Walk to the fun_decl, then inspect its body's declaration list.
	found := ast.None
	for i := 0; i < ctx.NodeCount(); i++ {
		if ctx.Node(ast.NodeID(i)).Kind == ast.FunDecl {
			found = ast.NodeID(i)
		}
	}
	require.NotEqual(t, ast.None, found)

	body := ctx.Node(ctx.Node(found).FunDecl.Body)
	names := []string{}
	for d := body.BraceStmt.LastDecl; d != nil; d = d.Prev {
		names = append(names, ctx.Node(d.Decl).VarDecl.Name.Text(ctx.Source))
	}
	// LastDecl is threaded newest-first.
	assert.Equal(t, []string{"b", "a"}, names)
}

func TestParse_MissingClosingBraceRecoversWithDiagnostic(t *testing.T) {
	decls, _, p := parse(t, "fun f() { ret 1;")
	require.True(t, p.HasErrors())
	require.Len(t, decls, 1)
}

func TestParse_IntegerAndFloatLiterals(t *testing.T) {
	decls, ctx, p := parse(t, "var x = 7; var y = 3.5;")
	require.False(t, p.HasErrors())

	xInit := ctx.Node(ctx.Node(decls[0]).VarDecl.Initializer)
	require.Equal(t, ast.IntegerExpr, xInit.Kind)
	assert.EqualValues(t, 7, xInit.IntegerExpr)

	yInit := ctx.Node(ctx.Node(decls[1]).VarDecl.Initializer)
	require.Equal(t, ast.FloatExpr, yInit.Kind)
	assert.InDelta(t, 3.5, yInit.FloatExpr, 1e-9)
}

func TestParse_ConsecutiveStatementsGroupIntoTopDecl(t *testing.T) {
	decls, ctx, p := parse(t, "print(1); print(2); var x = 3; print(4);")
	require.False(t, p.HasErrors())
	require.Len(t, decls, 3)

	assert.Equal(t, ast.TopDecl, ctx.Node(decls[0]).Kind)
	assert.Len(t, ctx.Node(decls[0]).TopDecl.Stmts, 2)
	assert.Equal(t, ast.VarDecl, ctx.Node(decls[1]).Kind)
	assert.Equal(t, ast.TopDecl, ctx.Node(decls[2]).Kind)
	assert.Len(t, ctx.Node(decls[2]).TopDecl.Stmts, 1)
}
