/*
File    : cocodol/lexer/token.go
*/

// Package lexer turns Cocodol source text into a stream of tokens.
package lexer

import "fmt"

// Kind is the bit-flag encoded kind of a Token. Rather than a plain
// enumeration, each kind packs an identity number into its low bits plus a
// set of orthogonal marker bits (declaration keyword, statement keyword,
// operator, prefix-capable) and, for operators, a precedence-class bit. This
// lets the parser ask "is this an operator of precedence class X" with a
// single bitwise comparison instead of a table lookup.
type Kind uint32

// Marker bits, orthogonal to the identity number packed in the low bits.
const (
	DeclBit   Kind = 1 << 16 // keyword that introduces a declaration
	StmtBit   Kind = 1 << 17 // keyword that introduces a statement
	OperBit   Kind = 1 << 18 // binary/infix operator
	PrefixBit Kind = 1 << 19 // token that can also appear as a prefix operator
)

// Precedence classes, loosest to tightest. Each occupies a single bit so
// `kind&class == class` reads as "belongs to class".
const (
	AssignmentPrecedence     Kind = 1 << 8
	LogicalOrPrecedence      Kind = 1 << 9
	LogicalAndPrecedence     Kind = 1 << 10
	ComparisonPrecedence     Kind = 1 << 11
	AdditionPrecedence       Kind = 1 << 12
	MultiplicationPrecedence Kind = 1 << 13
	ShiftPrecedence          Kind = 1 << 14
)

// Token kinds. Identity numbers are only unique within their own marker-bit
// group; the marker bits disambiguate across groups.
const (
	Error Kind = 0

	Name      Kind = 1
	True      Kind = 2
	False     Kind = 3
	Integer   Kind = 4
	Float     Kind = 5
	Dot       Kind = 6
	Colon     Kind = 7
	Semicolon Kind = 8
	Comma     Kind = 9
	LParen    Kind = 10
	RParen    Kind = 11
	LBrace    Kind = 12
	RBrace    Kind = 13
	EOF       Kind = 14

	Var Kind = 1 | DeclBit
	Fun Kind = 2 | DeclBit
	Obj Kind = 3 | DeclBit

	If    Kind = 1 | StmtBit
	Else  Kind = 2 | StmtBit
	While Kind = 3 | StmtBit
	Brk   Kind = 4 | StmtBit
	Nxt   Kind = 5 | StmtBit
	Ret   Kind = 6 | StmtBit

	LShift  Kind = 1 | OperBit | ShiftPrecedence
	RShift  Kind = 2 | OperBit | ShiftPrecedence
	Star    Kind = 3 | OperBit | MultiplicationPrecedence
	Slash   Kind = 4 | OperBit | MultiplicationPrecedence
	Percent Kind = 5 | OperBit | MultiplicationPrecedence
	Plus    Kind = 6 | OperBit | AdditionPrecedence | PrefixBit
	Minus   Kind = 7 | OperBit | AdditionPrecedence | PrefixBit
	Pipe    Kind = 8 | OperBit | AdditionPrecedence
	Amp     Kind = 9 | OperBit | AdditionPrecedence
	Caret   Kind = 10 | OperBit | AdditionPrecedence
	Lt      Kind = 11 | OperBit | ComparisonPrecedence
	Le      Kind = 12 | OperBit | ComparisonPrecedence
	Gt      Kind = 13 | OperBit | ComparisonPrecedence
	Ge      Kind = 14 | OperBit | ComparisonPrecedence
	Eq      Kind = 15 | OperBit | ComparisonPrecedence
	Ne      Kind = 16 | OperBit | ComparisonPrecedence
	And     Kind = 17 | OperBit | LogicalAndPrecedence
	Or      Kind = 18 | OperBit | LogicalOrPrecedence
	Assign  Kind = 19 | OperBit | AssignmentPrecedence
	Not     Kind = 20 | OperBit | PrefixBit
	Tilde   Kind = 21 | OperBit | PrefixBit
)

var kindNames = map[Kind]string{
	Error: "error", Name: "name", True: "true", False: "false",
	Integer: "integer", Float: "float", Dot: "dot", Colon: "colon",
	Semicolon: "semicolon", Comma: "comma", LParen: "(", RParen: ")",
	LBrace: "{", RBrace: "}", EOF: "eof",
	Var: "var", Fun: "fun", Obj: "obj",
	If: "if", Else: "else", While: "while", Brk: "brk", Nxt: "nxt", Ret: "ret",
	LShift: "<<", RShift: ">>", Star: "*", Slash: "/", Percent: "%",
	Plus: "+", Minus: "-", Pipe: "|", Amp: "&", Caret: "^",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=", Eq: "==", Ne: "!=",
	And: "and", Or: "or", Assign: "=", Not: "!", Tilde: "~",
}

// String renders a human-readable name for the kind, used in diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// IsDecl reports whether the token introduces a declaration (var/fun/obj).
func (k Kind) IsDecl() bool { return k&DeclBit == DeclBit }

// IsStmt reports whether the token introduces a control-flow statement.
func (k Kind) IsStmt() bool { return k&StmtBit == StmtBit }

// IsOperator reports whether the token can appear as a binary operator.
func (k Kind) IsOperator() bool { return k&OperBit == OperBit }

// IsPrefix reports whether the token can appear as a unary prefix operator.
func (k Kind) IsPrefix() bool { return k&PrefixBit == PrefixBit }

// keywords maps the source spelling of each keyword to its token kind.
var keywords = map[string]Kind{
	"if": If, "else": Else, "while": While,
	"var": Var, "fun": Fun, "obj": Obj,
	"ret": Ret, "brk": Brk, "nxt": Nxt,
	"and": And, "or": Or, "true": True, "false": False,
}

// lookupIdent classifies a scanned identifier, returning a keyword kind if
// its text matches one, or Name otherwise.
func lookupIdent(text string) Kind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return Name
}

// Token is a single lexical unit: a kind plus the half-open byte range
// [Start, End) it occupies in the source buffer.
type Token struct {
	Kind  Kind
	Start int
	End   int
}

// Len returns the length, in bytes, of the token's source text.
func (t Token) Len() int { return t.End - t.Start }

// Text returns the token's source text, sliced out of src.
func (t Token) Text(src string) string { return src[t.Start:t.End] }
