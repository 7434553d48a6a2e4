/*
File    : cocodol/parser/parser.go
*/

// Package parser implements a Pratt-style recursive-descent parser for
// Cocodol. It consumes the token stream produced by the lexer, allocates
// nodes in an ast.Context arena, and threads a per-block declaration list
// through brace statements so that capture analysis can later classify
// identifier references as local or free.
//
// The parser never panics on malformed input: every missing-token condition
// is recorded as a ParseError and the parser synthesizes an ast.Error node
// in its place, then continues — collecting as many diagnostics as it can
// in one pass, the same posture the teacher's Pratt parser takes with its
// own Errors slice.
package parser

import (
	"fmt"

	"cocodol/ast"
	"cocodol/lexer"
)

// lookaheadSize bounds the parser's token lookahead buffer.
const lookaheadSize = 8

// maxParamCount bounds a single parameter or argument list.
const maxParamCount = 64

// ParseError is a single parser diagnostic: a byte offset into the source
// and a human-readable message.
type ParseError struct {
	Offset  int
	Message string
}

// Error satisfies the error interface so ParseError can be used directly
// with Go error-handling idioms where convenient.
func (e ParseError) Error() string { return e.Message }

// Parser holds all state needed to turn a token stream into an AST.
type Parser struct {
	lex   lexer.Lexer
	ctx   *ast.Context
	scope ast.NodeID // innermost enclosing brace_stmt, or ast.None at file scope

	lookahead      [lookaheadSize]lexer.Token
	lookaheadStart int
	lookaheadEnd   int // lookaheadEnd - lookaheadStart tokens are buffered
	atEOF          bool

	Errors []ParseError
}

// New creates a Parser over src, allocating new nodes into ctx.
// ctx.Source must equal src.
func New(src string, ctx *ast.Context) *Parser {
	return &Parser{
		lex:   lexer.NewLexer(src),
		ctx:   ctx,
		scope: ast.None,
	}
}

// addError records a diagnostic at offset.
func (p *Parser) addError(offset int, format string, args ...any) {
	p.Errors = append(p.Errors, ParseError{Offset: offset, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostics were recorded.
func (p *Parser) HasErrors() bool { return len(p.Errors) > 0 }

// peek returns the next token without consuming it, or nil at end of input.
func (p *Parser) peek() *lexer.Token {
	if p.lookaheadStart < p.lookaheadEnd {
		return &p.lookahead[p.lookaheadStart%lookaheadSize]
	}
	if p.atEOF {
		return nil
	}
	tok, ok := p.lex.Next()
	if !ok {
		p.atEOF = true
		return nil
	}
	p.lookahead[p.lookaheadEnd%lookaheadSize] = tok
	p.lookaheadEnd++
	return &p.lookahead[p.lookaheadStart%lookaheadSize]
}

// consume advances past the next token and returns it.
func (p *Parser) consume() lexer.Token {
	tok := *p.peek()
	p.lookaheadStart++
	return tok
}

// sourceLen is a convenience for "end of input" offsets in diagnostics.
func (p *Parser) sourceLen() int { return len(p.lex.Src) }

// isStmtDelimiter reports whether tok can terminate a failed statement
// during error recovery: the list terminator itself, a semicolon, or a
// token immediately preceded by a line break.
func (p *Parser) isStmtDelimiter(tok *lexer.Token, terminator lexer.Kind) bool {
	if tok.Start == 0 {
		return false
	}
	if tok.Kind == lexer.Semicolon || tok.Kind == terminator {
		return true
	}
	ch := p.lex.Src[tok.Start-1]
	return ch == '\n' || ch == '\r'
}

func (p *Parser) newNode(kind ast.Kind, start, end int) ast.NodeID {
	id := p.ctx.NewNode()
	n := p.ctx.Node(id)
	n.Kind = kind
	n.Start = start
	n.End = end
	return id
}

func (p *Parser) errorNode(start, end int) ast.NodeID {
	return p.newNode(ast.Error, start, end)
}

// ------------------------------------------------------------------------
// Declarations
// ------------------------------------------------------------------------

func (p *Parser) registerDecl(decl ast.NodeID) {
	if p.scope == ast.None {
		return
	}
	scope := p.ctx.Node(p.scope)
	scope.BraceStmt.LastDecl = &ast.DeclList{Decl: decl, Prev: scope.BraceStmt.LastDecl}
}

func (p *Parser) parseParamList() []lexer.Token {
	next := p.peek()
	if next == nil || next.Kind != lexer.LParen {
		end := p.sourceLen()
		if next != nil {
			end = next.Start
		}
		p.addError(end, "expected parameter list")
		return nil
	}
	p.consume()

	var params []lexer.Token
	for {
		next = p.peek()
		if next == nil || next.Kind == lexer.RParen {
			break
		}

		if next.Kind == lexer.Comma {
			p.addError(next.Start, "expected parameter name")
			for {
				next = p.peek()
				if next == nil || next.Kind != lexer.Comma {
					break
				}
				p.consume()
			}
			if next == nil {
				break
			}
		}

		if next.Kind == lexer.Name {
			params = append(params, p.consume())
		} else {
			p.addError(next.Start, "expected parameter name")
			params = append(params, lexer.Token{Kind: lexer.Error, Start: next.Start, End: next.Start})
		}
		if len(params) > maxParamCount {
			break
		}

		next = p.peek()
		if next == nil || next.Kind == lexer.RParen {
			break
		}
		if next.Kind == lexer.Comma {
			p.consume()
		} else {
			p.addError(next.Start, "expected ',' separator")
		}
	}

	next = p.peek()
	if next != nil && next.Kind == lexer.RParen {
		p.consume()
	} else {
		end := p.sourceLen()
		if next != nil {
			end = next.Start
		}
		p.addError(end, "missing closing parenthesis")
	}
	return params
}

func (p *Parser) parseVarDecl() ast.NodeID {
	kw := p.consume() // 'var'
	id := p.newNode(ast.VarDecl, kw.Start, kw.End)
	n := func() *ast.Node { return p.ctx.Node(id) }

	next := p.peek()
	if next == nil {
		n().Kind = ast.Error
		p.addError(p.sourceLen(), "expected variable name")
		return id
	}
	if next.Kind == lexer.Name {
		n().VarDecl.Name = p.consume()
	} else {
		n().VarDecl.Name = lexer.Token{Kind: lexer.Error, Start: next.Start, End: next.Start}
		p.addError(next.Start, "expected variable name")
	}

	p.registerDecl(id)

	next = p.peek()
	if next != nil && next.Kind == lexer.Assign {
		p.consume()
		initIndex := p.parseExpr()
		n().VarDecl.Initializer = initIndex
		n().End = p.ctx.Node(initIndex).End
	} else {
		n().VarDecl.Initializer = ast.None
		if next != nil {
			n().End = next.End
		}
	}
	return id
}

func (p *Parser) parseFunDecl() ast.NodeID {
	kw := p.consume() // 'fun'
	id := p.newNode(ast.FunDecl, kw.Start, kw.End)
	n := func() *ast.Node { return p.ctx.Node(id) }

	next := p.peek()
	if next == nil {
		n().Kind = ast.Error
		p.addError(p.sourceLen(), "expected function name")
		return id
	}
	if next.Kind == lexer.Name {
		n().FunDecl.Name = p.consume()
	} else {
		n().FunDecl.Name = lexer.Token{Kind: lexer.Error, Start: next.Start, End: next.Start}
		p.addError(next.Start, "expected function name")
	}

	p.registerDecl(id)

	n().FunDecl.Params = p.parseParamList()

	next = p.peek()
	if next != nil && next.Kind == lexer.LBrace {
		body := p.parseBraceStmt()
		n().FunDecl.Body = body
		n().End = p.ctx.Node(body).End
	} else {
		end := p.sourceLen()
		if next != nil {
			end = next.Start
		}
		n().FunDecl.Body = p.errorNode(end, end)
		n().End = end
		p.addError(end, "expected function body")
	}
	return id
}

func (p *Parser) parseObjDecl() ast.NodeID {
	kw := p.consume() // 'obj'
	id := p.newNode(ast.ObjDecl, kw.Start, kw.End)
	n := func() *ast.Node { return p.ctx.Node(id) }

	next := p.peek()
	if next == nil {
		n().Kind = ast.Error
		p.addError(p.sourceLen(), "expected type name")
		return id
	}
	if next.Kind == lexer.Name {
		n().ObjDecl.Name = p.consume()
	} else {
		n().ObjDecl.Name = lexer.Token{Kind: lexer.Error, Start: next.Start, End: next.Start}
		p.addError(next.Start, "expected type name")
	}

	p.registerDecl(id)

	next = p.peek()
	if next != nil && next.Kind == lexer.LBrace {
		body := p.parseBraceStmt()
		n().ObjDecl.Body = body
		n().End = p.ctx.Node(body).End
	} else {
		end := p.sourceLen()
		if next != nil {
			end = next.Start
		}
		n().ObjDecl.Body = p.errorNode(end, end)
		n().End = end
		p.addError(end, "expected type body")
	}
	return id
}

func (p *Parser) parseDecl() ast.NodeID {
	head := p.peek()
	if head == nil {
		loc := p.sourceLen()
		p.addError(loc, "expected declaration")
		return p.errorNode(loc, loc)
	}
	switch head.Kind {
	case lexer.Var:
		return p.parseVarDecl()
	case lexer.Fun:
		return p.parseFunDecl()
	case lexer.Obj:
		return p.parseObjDecl()
	}
	p.addError(head.Start, "expected declaration")
	return p.errorNode(head.Start, head.End)
}

// ------------------------------------------------------------------------
// Expressions
// ------------------------------------------------------------------------

func (p *Parser) parseExprList() []ast.NodeID {
	var items []ast.NodeID
	for {
		next := p.peek()
		if next == nil || next.Kind == lexer.RParen {
			break
		}
		if next.Kind == lexer.Comma {
			p.addError(next.Start, "expected expression")
			for {
				next = p.peek()
				if next == nil || next.Kind != lexer.Comma {
					break
				}
				p.consume()
			}
		}

		items = append(items, p.parseExpr())
		if len(items) > maxParamCount {
			break
		}

		next = p.peek()
		if next == nil || next.Kind == lexer.RParen {
			return items
		}
		if next.Kind == lexer.Comma {
			p.consume()
		} else {
			p.addError(next.Start, "expected ',' separator")
		}
	}
	return items
}

func (p *Parser) parsePrimaryExpr() ast.NodeID {
	head := p.peek()
	if head == nil {
		loc := p.sourceLen()
		p.addError(loc, "expected expression")
		return p.errorNode(loc, loc)
	}
	headTok := p.consume()

	switch headTok.Kind {
	case lexer.True, lexer.False:
		id := p.newNode(ast.BoolExpr, headTok.Start, headTok.End)
		p.ctx.Node(id).BoolExpr = headTok.Kind == lexer.True
		return id

	case lexer.Integer, lexer.Float:
		text := headTok.Text(p.lex.Src)
		id := p.newNode(ast.IntegerExpr, headTok.Start, headTok.End)
		n := p.ctx.Node(id)
		if headTok.Kind == lexer.Integer {
			n.Kind = ast.IntegerExpr
			n.IntegerExpr = parseIntLiteral(text)
		} else {
			n.Kind = ast.FloatExpr
			n.FloatExpr = parseFloatLiteral(text)
		}
		return id

	case lexer.Name:
		id := p.newNode(ast.DeclRefExpr, headTok.Start, headTok.End)
		p.ctx.Node(id).DeclRef.Name = headTok
		return id

	case lexer.LParen:
		start := headTok.Start
		sub := p.parseExpr()
		tail := p.peek()
		var end int
		if tail != nil && tail.Kind == lexer.RParen {
			end = tail.End
			p.consume()
		} else {
			end = p.ctx.Node(sub).End
			p.addError(end, "missing closing parenthesis")
		}
		id := p.newNode(ast.ParenExpr, start, end)
		p.ctx.Node(id).ParenExpr = sub
		return id
	}

	p.addError(headTok.Start, "expected expression")
	return p.errorNode(headTok.Start, headTok.End)
}

func (p *Parser) parsePostExpr() ast.NodeID {
	sub := p.parsePrimaryExpr()
	if p.ctx.Node(sub).Kind == ast.Error {
		return sub
	}

	for {
		next := p.peek()
		if next == nil {
			break
		}
		subNode := p.ctx.Node(sub)
		start, end := subNode.Start, subNode.End

		if next.Kind == lexer.Dot {
			p.consume()
			member := p.peek()
			if member != nil && member.Kind == lexer.Name {
				end = member.End
				p.consume()
			} else {
				subNode.Kind = ast.Error
				p.addError(end, "expected member name")
				return sub
			}
			id := p.newNode(ast.MemberExpr, start, end)
			n := p.ctx.Node(id)
			n.MemberExpr.Base = sub
			n.MemberExpr.Member = *member
			sub = id
			continue
		}

		if next.Kind == lexer.LParen {
			p.consume()
			args := p.parseExprList()
			if len(args) > maxParamCount {
				args = args[:maxParamCount]
			}

			next = p.peek()
			if next != nil && next.Kind == lexer.RParen {
				end = next.End
				p.consume()
			} else {
				if len(args) > 0 {
					end = p.ctx.Node(args[len(args)-1]).End
				} else if next != nil {
					end = next.Start
				}
				p.addError(end, "missing closing parenthesis")
			}

			id := p.newNode(ast.ApplyExpr, start, end)
			n := p.ctx.Node(id)
			n.ApplyExpr.Callee = sub
			n.ApplyExpr.Args = args
			sub = id
			continue
		}

		break
	}
	return sub
}

func (p *Parser) parsePreExpr() ast.NodeID {
	next := p.peek()
	if next != nil && next.Kind.IsPrefix() {
		op := p.consume()
		sub := p.parseExpr() // prefix recurses at assignment precedence: binds loosely
		id := p.newNode(ast.UnaryExpr, op.Start, p.ctx.Node(sub).End)
		n := p.ctx.Node(id)
		n.UnaryExpr.Op = op
		n.UnaryExpr.Operand = sub
		return id
	}
	return p.parsePostExpr()
}

func (p *Parser) parseInfixExpr(prec lexer.Kind) ast.NodeID {
	lhs := p.parsePreExpr()
	if p.ctx.Node(lhs).Kind == ast.Error {
		return lhs
	}

	current := prec
	for current <= lexer.ShiftPrecedence {
		next := p.peek()
		if next == nil || !next.Kind.IsOperator() {
			break
		}
		if next.Kind&current == current {
			op := p.consume()

			var rhs ast.NodeID
			if current == lexer.ShiftPrecedence {
				rhs = p.parsePreExpr()
			} else {
				rhs = p.parseInfixExpr(current << 1)
			}

			id := p.newNode(ast.BinaryExpr, op.Start, p.ctx.Node(rhs).End)
			n := p.ctx.Node(id)
			n.BinaryExpr.Op = op
			n.BinaryExpr.Lhs = lhs
			n.BinaryExpr.Rhs = rhs
			lhs = id
			current = prec
			continue
		}
		current <<= 1
	}
	return lhs
}

func (p *Parser) parseExpr() ast.NodeID {
	return p.parseInfixExpr(lexer.AssignmentPrecedence)
}

// ------------------------------------------------------------------------
// Statements
// ------------------------------------------------------------------------

func (p *Parser) parseStmtList(terminator lexer.Kind) []ast.NodeID {
	var stmts []ast.NodeID
	for {
		next := p.peek()
		if next == nil {
			break
		}
		if next.Kind == lexer.Semicolon {
			p.consume()
			continue
		}
		if next.Kind == terminator {
			break
		}

		stmt := p.parseStmt()
		hasError := p.ctx.Node(stmt).Kind == ast.Error
		stmts = append(stmts, stmt)

		if hasError {
			for {
				next = p.peek()
				if next == nil || p.isStmtDelimiter(next, terminator) {
					break
				}
				p.consume()
			}
		}
	}
	return stmts
}

func (p *Parser) parseBraceStmt() ast.NodeID {
	open := p.consume() // '{'
	id := p.newNode(ast.BraceStmt, open.Start, open.End)
	n := func() *ast.Node { return p.ctx.Node(id) }
	n().BraceStmt.Parent = p.scope
	p.scope = id

	stmts := p.parseStmtList(lexer.RBrace)

	next := p.peek()
	if next != nil && next.Kind == lexer.RBrace {
		n().End = next.End
		p.consume()
	} else {
		switch {
		case len(stmts) > 0:
			n().End = p.ctx.Node(stmts[len(stmts)-1]).End
		case next != nil:
			n().End = next.Start
		default:
			n().End = p.sourceLen()
		}
		p.addError(n().End, "missing closing brace")
	}

	n().BraceStmt.Stmts = stmts
	p.scope = n().BraceStmt.Parent
	return id
}

func (p *Parser) parseIfStmt() ast.NodeID {
	kw := p.consume() // 'if'
	id := p.newNode(ast.IfStmt, kw.Start, kw.End)
	n := func() *ast.Node { return p.ctx.Node(id) }

	n().IfStmt.Cond = p.parseExpr()

	next := p.peek()
	if next != nil && next.Kind == lexer.LBrace {
		branch := p.parseBraceStmt()
		n().IfStmt.Then = branch
		n().End = p.ctx.Node(branch).End
	} else {
		end := p.sourceLen()
		if next != nil {
			end = next.Start
		}
		n().IfStmt.Then = p.errorNode(end, end)
		n().End = end
		p.addError(end, "expected '{' after 'if' condition")
	}

	next = p.peek()
	if next != nil && next.Kind == lexer.Else {
		p.consume()
		branch := p.parseStmt()
		n().IfStmt.Else = branch
		n().End = p.ctx.Node(branch).End
	} else {
		n().IfStmt.Else = ast.None
	}
	return id
}

func (p *Parser) parseWhileStmt() ast.NodeID {
	kw := p.consume() // 'while'
	id := p.newNode(ast.WhileStmt, kw.Start, kw.End)
	n := func() *ast.Node { return p.ctx.Node(id) }

	n().WhileStmt.Cond = p.parseExpr()

	next := p.peek()
	if next != nil && next.Kind == lexer.LBrace {
		body := p.parseBraceStmt()
		n().WhileStmt.Body = body
		n().End = p.ctx.Node(body).End
	} else {
		end := p.sourceLen()
		if next != nil {
			end = next.Start
		}
		n().WhileStmt.Body = p.errorNode(end, end)
		n().End = end
		p.addError(end, "expected '{' after 'while' condition")
	}
	return id
}

func (p *Parser) parseStmt() ast.NodeID {
	next := p.peek()
	if next == nil {
		loc := p.sourceLen()
		p.addError(loc, "expected statement")
		return p.errorNode(loc, loc)
	}

	if next.Kind.IsDecl() {
		return p.parseDecl()
	}

	switch next.Kind {
	case lexer.LBrace:
		return p.parseBraceStmt()
	case lexer.If:
		return p.parseIfStmt()
	case lexer.While:
		return p.parseWhileStmt()
	case lexer.Brk:
		tok := p.consume()
		return p.newNode(ast.BrkStmt, tok.Start, tok.End)
	case lexer.Nxt:
		tok := p.consume()
		return p.newNode(ast.NxtStmt, tok.Start, tok.End)
	case lexer.Ret:
		tok := p.consume()
		id := p.newNode(ast.RetStmt, tok.Start, tok.End)
		value := p.parseExpr()
		n := p.ctx.Node(id)
		n.RetStmt = value
		n.End = p.ctx.Node(value).End
		return id
	}

	expr := p.parseExpr()
	exprNode := p.ctx.Node(expr)
	id := p.newNode(ast.ExprStmt, exprNode.Start, exprNode.End)
	p.ctx.Node(id).ExprStmt = expr
	return id
}

// ------------------------------------------------------------------------
// Top level
// ------------------------------------------------------------------------

func (p *Parser) createTopDecl(stmts []ast.NodeID) ast.NodeID {
	id := p.newNode(ast.TopDecl, p.ctx.Node(stmts[0]).Start, p.ctx.Node(stmts[len(stmts)-1]).End)
	p.ctx.Node(id).TopDecl.Stmts = stmts
	return id
}

// Parse reads the whole token stream and returns the top-level declaration
// indices: each var/fun/obj declaration stands alone, and runs of
// consecutive non-declaration statements are grouped into a synthesized
// top_decl node.
func (p *Parser) Parse() []ast.NodeID {
	stmts := p.parseStmtList(lexer.EOF)
	if len(stmts) == 0 {
		return nil
	}

	var decls []ast.NodeID
	start := 0
	for i, stmt := range stmts {
		if p.ctx.Node(stmt).Kind.IsDecl() {
			if start < i {
				decls = append(decls, p.createTopDecl(stmts[start:i]))
			}
			decls = append(decls, stmt)
			start = i + 1
		}
	}
	if start < len(stmts) {
		decls = append(decls, p.createTopDecl(stmts[start:]))
	}
	return decls
}
