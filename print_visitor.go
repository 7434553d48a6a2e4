package main

import (
	"bytes"
	"fmt"

	"cocodol/ast"
)

const indentSize = 4

// printingVisitor renders an ast.Context's node tree as indented text,
// driven by ast.Walk's pre/post-order callback instead of the teacher's
// per-node-type Accept/Visit methods (this AST has no such methods — nodes
// are plain structs in an arena, identified by kind).
type printingVisitor struct {
	ctx    *ast.Context
	indent int
	buf    bytes.Buffer
}

func (p *printingVisitor) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte(' ')
	}
}

func (p *printingVisitor) visit(index ast.NodeID, kind ast.Kind, pre bool, _ any) bool {
	if pre {
		node := p.ctx.Node(index)
		p.writeIndent()
		fmt.Fprintf(&p.buf, "%s [%d:%d]\n", kind, node.Start, node.End)
		p.indent += indentSize
	} else {
		p.indent -= indentSize
	}
	return true
}

// dumpAST renders every top-level declaration in decls as an indented tree.
func dumpAST(ctx *ast.Context, decls []ast.NodeID) string {
	p := &printingVisitor{ctx: ctx}
	for _, index := range decls {
		ast.Walk(index, ctx, nil, p.visit)
	}
	return p.buf.String()
}
