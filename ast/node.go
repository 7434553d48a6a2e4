/*
File    : cocodol/ast/node.go
*/

// Package ast defines the Cocodol abstract syntax tree: an arena of nodes
// addressed by index rather than by pointer. Every inter-node reference —
// a function's body, a binary expression's operands, a block's statement
// list — is a NodeID, a plain integer offset into a Context's node vector.
// Indices stay valid across arena growth; pointers into the arena would not.
package ast

import "cocodol/lexer"

// NodeID indexes a node inside a Context's arena.
type NodeID uint32

// None is the sentinel NodeID meaning "absent": a var_decl with no
// initializer, an if_stmt with no else branch, and so on.
const None NodeID = ^NodeID(0)

// Marker bits distinguishing the three broad categories of node kind.
const (
	DeclBit Kind = 1 << 16
	ExprBit Kind = 1 << 17
	StmtBit Kind = 1 << 18
)

// Kind is the bit-flag encoded kind of an AST node, mirroring lexer.Kind's
// design: an identity number unique within its own category, tagged with a
// marker bit for the category itself.
type Kind uint32

const (
	Error Kind = 0

	TopDecl Kind = 1 | DeclBit
	VarDecl Kind = 2 | DeclBit
	FunDecl Kind = 3 | DeclBit
	ObjDecl Kind = 4 | DeclBit

	DeclRefExpr Kind = 1 | ExprBit
	BoolExpr    Kind = 2 | ExprBit
	IntegerExpr Kind = 3 | ExprBit
	FloatExpr   Kind = 4 | ExprBit
	UnaryExpr   Kind = 5 | ExprBit
	BinaryExpr  Kind = 6 | ExprBit
	MemberExpr  Kind = 7 | ExprBit
	ApplyExpr   Kind = 8 | ExprBit
	ParenExpr   Kind = 9 | ExprBit

	BraceStmt Kind = 1 | StmtBit
	ExprStmt  Kind = 2 | StmtBit
	IfStmt    Kind = 3 | StmtBit
	WhileStmt Kind = 4 | StmtBit
	BrkStmt   Kind = 5 | StmtBit
	NxtStmt   Kind = 6 | StmtBit
	RetStmt   Kind = 7 | StmtBit
)

// IsDecl reports whether the kind is one of the declaration node kinds.
func (k Kind) IsDecl() bool { return k&DeclBit == DeclBit }

// IsExpr reports whether the kind is one of the expression node kinds.
func (k Kind) IsExpr() bool { return k&ExprBit == ExprBit }

// IsStmt reports whether the kind is one of the statement node kinds.
func (k Kind) IsStmt() bool { return k&StmtBit == StmtBit }

var kindNames = map[Kind]string{
	Error: "error", TopDecl: "top_decl", VarDecl: "var_decl",
	FunDecl: "fun_decl", ObjDecl: "obj_decl",
	DeclRefExpr: "declref_expr", BoolExpr: "bool_expr", IntegerExpr: "integer_expr",
	FloatExpr: "float_expr", UnaryExpr: "unary_expr", BinaryExpr: "binary_expr",
	MemberExpr: "member_expr", ApplyExpr: "apply_expr", ParenExpr: "paren_expr",
	BraceStmt: "brace_stmt", ExprStmt: "expr_stmt", IfStmt: "if_stmt",
	WhileStmt: "while_stmt", BrkStmt: "brk_stmt", NxtStmt: "nxt_stmt", RetStmt: "ret_stmt",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// DeclList is a singly linked list of declaration node indices, threaded in
// reverse insertion order so that prepending a new declaration is O(1).
// Capture analysis walks it from innermost (most recent) to outermost.
type DeclList struct {
	Decl NodeID
	Prev *DeclList
}

// TopDeclPayload holds the statement indices wrapped by a synthesized
// top-level declaration (a run of non-declaration statements at file scope).
type TopDeclPayload struct {
	Stmts []NodeID
}

// VarDeclPayload holds a variable declaration's name and optional
// initializer. Initializer is None if the declaration has no initializer.
type VarDeclPayload struct {
	Name        lexer.Token
	Initializer NodeID
}

// FunDeclPayload holds a function declaration's name, parameter tokens and
// body block.
type FunDeclPayload struct {
	Name   lexer.Token
	Params []lexer.Token
	Body   NodeID
}

// ObjDeclPayload holds an (unimplemented) object type declaration's name and
// body block. Parses successfully; rejected by the evaluator.
type ObjDeclPayload struct {
	Name lexer.Token
	Body NodeID
}

// DeclRefExprPayload holds the identifier token being referenced.
type DeclRefExprPayload struct {
	Name lexer.Token
}

// UnaryExprPayload holds a prefix operator and its operand.
type UnaryExprPayload struct {
	Op      lexer.Token
	Operand NodeID
}

// BinaryExprPayload holds an infix operator and its two operands.
type BinaryExprPayload struct {
	Op  lexer.Token
	Lhs NodeID
	Rhs NodeID
}

// MemberExprPayload holds a base expression and the member name after `.`.
type MemberExprPayload struct {
	Base   NodeID
	Member lexer.Token
}

// ApplyExprPayload holds a call's callee expression and argument list.
type ApplyExprPayload struct {
	Callee NodeID
	Args   []NodeID
}

// BraceStmtPayload holds a block's statement list, its enclosing block (or
// None at file scope), and the head of its declaration list.
type BraceStmtPayload struct {
	Stmts    []NodeID
	Parent   NodeID
	LastDecl *DeclList
}

// IfStmtPayload holds an if statement's condition and branches. Else is None
// if there is no else clause.
type IfStmtPayload struct {
	Cond NodeID
	Then NodeID
	Else NodeID
}

// WhileStmtPayload holds a while statement's condition and body.
type WhileStmtPayload struct {
	Cond NodeID
	Body NodeID
}

// Node is a single arena entry: a kind, its source span, and a kind-specific
// payload. Only one of the payload fields is meaningful for a given Kind;
// unused fields are left zero.
type Node struct {
	Kind  Kind
	Start int
	End   int

	TopDecl     TopDeclPayload
	VarDecl     VarDeclPayload
	FunDecl     FunDeclPayload
	ObjDecl     ObjDeclPayload
	DeclRef     DeclRefExprPayload
	BoolExpr    bool
	IntegerExpr int64
	FloatExpr   float64
	UnaryExpr   UnaryExprPayload
	BinaryExpr  BinaryExprPayload
	MemberExpr  MemberExprPayload
	ApplyExpr   ApplyExprPayload
	ParenExpr   NodeID
	BraceStmt   BraceStmtPayload
	ExprStmt    NodeID
	IfStmt      IfStmtPayload
	WhileStmt   WhileStmtPayload
	RetStmt     NodeID
}
