package rucc

import "fmt"

// TokenType enumerates every lexeme kind the scanner can produce, grounded on
// the teacher's pkg/compiler/token.go (int-based enum + tokenNames + String).
type TokenType int

const (
	EOF TokenType = iota
	IDENT
	NUMBER
	STRING
	CHARLIT

	// Keywords
	VOID
	CHAR
	INT
	LONG
	IF
	ELSE
	FOR
	WHILE
	RETURN

	// Punctuation
	LBRACKET
	RBRACKET
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	COMMA
	DOT
	SEMICOLON
	TILDE

	// Operators
	BANG
	BANG_EQ
	ASSIGN
	EQ_EQ
	LESS
	LESS_EQ
	SHL
	SHL_EQ
	GREATER
	GREATER_EQ
	SHR
	SHR_EQ
	PLUS
	PLUS_PLUS
	PLUS_EQ
	MINUS
	MINUS_MINUS
	MINUS_EQ
	STAR
	STAR_EQ
	SLASH
	SLASH_EQ
	PERCENT
	PERCENT_EQ
	AMP
	AMP_AMP
	AMP_EQ
	PIPE
	PIPE_PIPE
	PIPE_EQ
	CARET
	CARET_EQ
)

var tokenNames = [...]string{
	EOF: "EOF", IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING", CHARLIT: "CHARLIT",
	VOID: "void", CHAR: "char", INT: "int", LONG: "long", IF: "if", ELSE: "else",
	FOR: "for", WHILE: "while", RETURN: "return",
	LBRACKET: "[", RBRACKET: "]", LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	COMMA: ",", DOT: ".", SEMICOLON: ";", TILDE: "~",
	BANG: "!", BANG_EQ: "!=", ASSIGN: "=", EQ_EQ: "==",
	LESS: "<", LESS_EQ: "<=", SHL: "<<", SHL_EQ: "<<=",
	GREATER: ">", GREATER_EQ: ">=", SHR: ">>", SHR_EQ: ">>=",
	PLUS: "+", PLUS_PLUS: "++", PLUS_EQ: "+=",
	MINUS: "-", MINUS_MINUS: "--", MINUS_EQ: "-=",
	STAR: "*", STAR_EQ: "*=", SLASH: "/", SLASH_EQ: "/=",
	PERCENT: "%", PERCENT_EQ: "%=",
	AMP: "&", AMP_AMP: "&&", AMP_EQ: "&=",
	PIPE: "|", PIPE_PIPE: "||", PIPE_EQ: "|=",
	CARET: "^", CARET_EQ: "^=",
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"void": VOID, "char": CHAR, "int": INT, "long": LONG,
	"if": IF, "else": ELSE, "for": FOR, "while": WHILE, "return": RETURN,
}

// typeKeywords is the subset of keywords that can start a declarator, used
// both by the parser's statement dispatch and by error-recovery resync.
var typeKeywords = map[TokenType]bool{VOID: true, CHAR: true, INT: true, LONG: true}

// Token is the scanner's output unit: a kind, its literal payload, and the
// source position needed to render a caret diagnostic (spec.md §3 "Tokens").
type Token struct {
	Type TokenType
	// Lexeme is the verbatim source text for identifiers/punctuation, and the
	// (escape-free) decoded text for string literals.
	Lexeme string

	IntVal  int32 // NUMBER payload
	CharVal int8  // CHARLIT payload

	Line     int
	Column   int
	LineText string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) @%d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}
