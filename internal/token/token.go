// Package token defines the lexical token kinds produced by the OtterLang
// lexer, together with the Position/Token value types threaded through
// every later compiler stage for diagnostics.
package token

import "fmt"

// Type identifies the kind of a Token.
type Type int

// Token kinds, grouped the way the lexer dispatches on them.
const (
	ILLEGAL Type = iota // unexpected byte/rune
	EOF                 // end of file
	COMMENT             // '#'-comment (only emitted when preserved)

	literalBegin
	IDENT     // identifiers
	INT       // 123, 1_000
	FLOAT     // 1.5, 1e10
	STRING    // "..." or '...'
	F_BEGIN   // start of an f-string
	F_PART    // literal text segment inside an f-string
	F_EMBED_B // '{' inside an f-string, opens an embedded expression
	F_EMBED_E // '}' inside an f-string, closes an embedded expression
	F_END     // end of an f-string
	literalEnd

	layoutBegin
	NEWLINE // end of a logical line
	INDENT  // increase of indentation
	DEDENT  // decrease of indentation
	layoutEnd

	keywordBegin
	DEF
	LET
	IF
	ELIF
	ELSE
	FOR
	WHILE
	BREAK
	CONTINUE
	PASS
	CLASS
	STRUCT
	ENUM
	MATCH
	CASE
	USE
	PUB
	SPAWN
	AWAIT
	TRY
	EXCEPT
	FINALLY
	RAISE
	AS
	TYPE
	RETURN
	AND
	OR
	NOT
	IN
	TRUE
	FALSE
	keywordEnd

	// Punctuation
	COLON      // :
	COMMA      // ,
	DOT        // .
	DOTDOT     // ..
	LPAREN     // (
	RPAREN     // )
	LBRACK     // [
	RBRACK     // ]
	LBRACE     // {
	RBRACE     // }
	ARROW      // ->
	FAT_ARROW  // =>
	ASSIGN     // =
	PLUS       // +
	MINUS      // -
	ASTERISK   // *
	SLASH      // /
	PERCENT    // %
	POWER      // **
	EQ         // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
	PIPE       // | (union type / bitwise or)

	PLUS_ASSIGN     // +=
	MINUS_ASSIGN    // -=
	ASTERISK_ASSIGN // *=
	SLASH_ASSIGN    // /=
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	F_BEGIN: "F_BEGIN", F_PART: "F_PART", F_EMBED_B: "F_EMBED_B", F_EMBED_E: "F_EMBED_E", F_END: "F_END",
	NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	DEF: "def", LET: "let", IF: "if", ELIF: "elif", ELSE: "else",
	FOR: "for", WHILE: "while", BREAK: "break", CONTINUE: "continue", PASS: "pass",
	CLASS: "class", STRUCT: "struct", ENUM: "enum", MATCH: "match", CASE: "case",
	USE: "use", PUB: "pub", SPAWN: "spawn", AWAIT: "await",
	TRY: "try", EXCEPT: "except", FINALLY: "finally", RAISE: "raise",
	AS: "as", TYPE: "type", RETURN: "return",
	AND: "and", OR: "or", NOT: "not", IN: "in", TRUE: "true", FALSE: "false",
	COLON: ":", COMMA: ",", DOT: ".", DOTDOT: "..",
	LPAREN: "(", RPAREN: ")", LBRACK: "[", RBRACK: "]", LBRACE: "{", RBRACE: "}",
	ARROW: "->", FAT_ARROW: "=>", ASSIGN: "=",
	PLUS: "+", MINUS: "-", ASTERISK: "*", SLASH: "/", PERCENT: "%", POWER: "**",
	EQ: "==", NOT_EQ: "!=", LESS: "<", GREATER: ">", LESS_EQ: "<=", GREATER_EQ: ">=",
	PIPE: "|",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", ASTERISK_ASSIGN: "*=", SLASH_ASSIGN: "/=",
}

// String renders the token type's canonical spelling (or name, for
// non-literal kinds), used in error messages.
func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsLiteral reports whether t is one of the literal-bearing kinds.
func (t Type) IsLiteral() bool { return t > literalBegin && t < literalEnd }

// IsKeyword reports whether t is one of the reserved words.
func (t Type) IsKeyword() bool { return t > keywordBegin && t < keywordEnd }

// IsLayout reports whether t is a synthetic layout marker (NEWLINE/INDENT/DEDENT).
func (t Type) IsLayout() bool { return t > layoutBegin && t < layoutEnd }

// keywords maps reserved-word spellings to their Type. Only `def` is
// recognized for function declarations: the tutorial's `fn` spelling is
// deliberately not a keyword (spec.md §9, open question 2).
var keywords = map[string]Type{
	"def": DEF, "let": LET, "if": IF, "elif": ELIF, "else": ELSE,
	"for": FOR, "while": WHILE, "break": BREAK, "continue": CONTINUE, "pass": PASS,
	"class": CLASS, "struct": STRUCT, "enum": ENUM, "match": MATCH, "case": CASE,
	"use": USE, "pub": PUB, "spawn": SPAWN, "await": AWAIT,
	"try": TRY, "except": EXCEPT, "finally": FINALLY, "raise": RAISE,
	"as": AS, "type": TYPE, "return": RETURN,
	"and": AND, "or": OR, "not": NOT, "in": IN,
	"true": TRUE, "false": FALSE,
}

// LookupIdent classifies an identifier lexeme as a keyword type, or
// returns IDENT if it is not reserved.
func LookupIdent(ident string) Type {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

// Position is a source location: a byte offset plus the 1-based line and
// rune-counted column it corresponds to, and the file it came from.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// String renders "file:line:column", or "line:column" when File is empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span covers the half-open byte range [Pos.Offset, Pos.Offset+Length).
type Span struct {
	Pos    Position
	Length int
}

// Token is a single lexical unit: its kind, the literal text it was
// scanned from, and the span it occupies in the source.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// New constructs a Token, deriving its span length from the literal's
// byte length (callers that scan punctuation/layout markers with a
// different literal-vs-span relationship set Literal accordingly).
func New(t Type, literal string, pos Position) Token {
	return Token{Type: t, Literal: literal, Pos: pos}
}

// Span returns the token's source span.
func (t Token) Span() Span {
	return Span{Pos: t.Pos, Length: len(t.Literal)}
}

func (t Token) String() string {
	if t.Literal != "" {
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	}
	return t.Type.String()
}
