// Package token defines the token types for Hansl lexing.
//
// Hansl is a line-oriented command language, so NEWLINE is a real token:
// it terminates a logical line (backslash continuations are joined by the
// lexer before a NEWLINE is emitted). Structural keywords get their own
// token types; command words and built-in function names are looked up via
// the tables in commands.go and builtins.go.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	NEWLINE

	// Literals
	IDENT    // identifier
	NUMBER   // 123, 45.67, 1e-10, .5
	STRING   // "hello"
	ACCESSOR // $uhat, $coeff
	ATVAR    // @name string substitution
	OPTION   // --robust command option

	// Assignment operators
	ASSIGN    // =
	PLUSEQ    // +=
	MINUSEQ   // -=
	STAREQ    // *=
	SLASHEQ   // /=
	CARETEQ   // ^=
	PERCENTEQ // %=
	TILDEEQ   // ~=
	PIPEEQ    // |=

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	CARET   // ^
	PERCENT // %

	// Matrix operators
	TILDE // ~ horizontal concat
	PIPE  // | vertical concat
	APOST // ' transpose

	// Elementwise (dot) operators
	DOTSTAR  // .*
	DOTSLASH // ./
	DOTCARET // .^
	DOTPLUS  // .+
	DOTMINUS // .-
	DOTEQ    // .=
	DOTGT    // .>
	DOTLT    // .<
	DOTGE    // .>=
	DOTLE    // .<=
	DOTNE    // .!=

	// Comparison operators
	EQ // ==
	NE // !=
	LT // <
	GT // >
	LE // <=
	GE // >=

	// Boolean operators
	AND  // &&
	OR   // ||
	BANG // !

	// Punctuation
	AMP      // & reference marker
	QUESTION // ?
	COLON    // :
	DOT      // .
	DOTDOT   // .. loop range
	COMMA    // ,
	SEMI     // ; matrix row separator
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }

	// Flow keywords
	IF
	ELIF
	ELSE
	ENDIF
	LOOP
	ENDLOOP
	BREAK
	CONTINUE
	FUNCTION
	END
	RETURN

	// Command-like keywords the checks care about
	GENR
	CATCH
	SET
	CONST
	NULLKW

	// Type keywords
	SCALAR
	SERIES
	MATRIX
	STRINGKW
	BUNDLE
	LIST
	ARRAY
	STRINGS
	MATRICES
	BUNDLES
	LISTS
	ARRAYS
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",

	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	ACCESSOR: "ACCESSOR",
	ATVAR:    "ATVAR",
	OPTION:   "OPTION",

	ASSIGN:    "=",
	PLUSEQ:    "+=",
	MINUSEQ:   "-=",
	STAREQ:    "*=",
	SLASHEQ:   "/=",
	CARETEQ:   "^=",
	PERCENTEQ: "%=",
	TILDEEQ:   "~=",
	PIPEEQ:    "|=",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	CARET:   "^",
	PERCENT: "%",

	TILDE: "~",
	PIPE:  "|",
	APOST: "'",

	DOTSTAR:  ".*",
	DOTSLASH: "./",
	DOTCARET: ".^",
	DOTPLUS:  ".+",
	DOTMINUS: ".-",
	DOTEQ:    ".=",
	DOTGT:    ".>",
	DOTLT:    ".<",
	DOTGE:    ".>=",
	DOTLE:    ".<=",
	DOTNE:    ".!=",

	EQ: "==",
	NE: "!=",
	LT: "<",
	GT: ">",
	LE: "<=",
	GE: ">=",

	AND:  "&&",
	OR:   "||",
	BANG: "!",

	AMP:      "&",
	QUESTION: "?",
	COLON:    ":",
	DOT:      ".",
	DOTDOT:   "..",
	COMMA:    ",",
	SEMI:     ";",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",

	IF:       "if",
	ELIF:     "elif",
	ELSE:     "else",
	ENDIF:    "endif",
	LOOP:     "loop",
	ENDLOOP:  "endloop",
	BREAK:    "break",
	CONTINUE: "continue",
	FUNCTION: "function",
	END:      "end",
	RETURN:   "return",

	GENR:   "genr",
	CATCH:  "catch",
	SET:    "set",
	CONST:  "const",
	NULLKW: "null",

	SCALAR:   "scalar",
	SERIES:   "series",
	MATRIX:   "matrix",
	STRINGKW: "string",
	BUNDLE:   "bundle",
	LIST:     "list",
	ARRAY:    "array",
	STRINGS:  "strings",
	MATRICES: "matrices",
	BUNDLES:  "bundles",
	LISTS:    "lists",
	ARRAYS:   "arrays",
}

// keywords maps keyword strings to their token types.
// Hansl keywords are case-sensitive and lowercase.
var keywords = map[string]TokenType{
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"endif":    ENDIF,
	"loop":     LOOP,
	"endloop":  ENDLOOP,
	"break":    BREAK,
	"continue": CONTINUE,
	"function": FUNCTION,
	"end":      END,
	"return":   RETURN,

	"genr":  GENR,
	"catch": CATCH,
	"set":   SET,
	"const": CONST,
	"null":  NULLKW,

	"scalar":   SCALAR,
	"series":   SERIES,
	"matrix":   MATRIX,
	"string":   STRINGKW,
	"bundle":   BUNDLE,
	"list":     LIST,
	"array":    ARRAY,
	"strings":  STRINGS,
	"matrices": MATRICES,
	"bundles":  BUNDLES,
	"lists":    LISTS,
	"arrays":   ARRAYS,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= IF && t <= ARRAYS
}

// IsTypeKeyword returns true for a Hansl type declaration keyword,
// including the plural array forms.
func IsTypeKeyword(t TokenType) bool {
	return t >= SCALAR && t <= ARRAYS
}

// IsOperator returns true if the token type is an operator or punctuation.
func IsOperator(t TokenType) bool {
	return t >= ASSIGN && t <= RBRACE
}

// IsAssignOp returns true for plain or inflected assignment operators.
func IsAssignOp(t TokenType) bool {
	return t >= ASSIGN && t <= PIPEEQ
}

// IsComparisonOp returns true for == != < > <= >=.
func IsComparisonOp(t TokenType) bool {
	return t >= EQ && t <= GE
}

// IsDotOp returns true for the elementwise dot operators.
func IsDotOp(t TokenType) bool {
	return t >= DOTSTAR && t <= DOTNE
}

// IsBoolOp returns true for && || !.
func IsBoolOp(t TokenType) bool {
	return t >= AND && t <= BANG
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// End returns the position just past the token literal on its line.
// NEWLINE and EOF report their own position.
func (t Token) End() Position {
	if t.Type == NEWLINE || t.Type == EOF {
		return t.Pos
	}
	return Position{
		Line:   t.Pos.Line,
		Column: t.Pos.Column + len(t.Literal),
		Offset: t.Pos.Offset + len(t.Literal),
	}
}
