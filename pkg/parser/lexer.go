// Package parser provides Hansl tokenizing and structural script scanning.
//
// The lexer is tolerant: malformed input yields ILLEGAL tokens and recorded
// LexErrors rather than a hard stop, so style checks can still run over
// broken scripts.
package parser

import (
	"github.com/hansl-tools/hanslint/pkg/token"
)

// Lexer tokenizes Hansl input.
//
// Hansl is line-oriented, so the lexer emits a NEWLINE token for each
// physical line end. A backslash continuation joins the next physical line
// into the same logical line: no NEWLINE is emitted and token positions
// keep their physical line numbers.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	lineStart int // offset of the current line's first char
	nlCol     int // column of the most recently loaded newline

	// Comments collected during lexing
	Comments []*token.Comment

	// Errors collected during lexing (unterminated strings/comments)
	Errors []*LexError
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
		l.nlCol = l.pos - l.lineStart + 1
		l.lineStart = l.pos + 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipSpacesAndComments()

	pos := l.currentPos()

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	case '\n':
		// readChar already counted this newline into the next line;
		// report the position where the previous line ended.
		tok.Type = token.NEWLINE
		tok.Literal = "\n"
		tok.Pos = token.Position{Line: l.line - 1, Column: l.nlCol, Offset: l.pos}
	case '\\':
		if l.consumeContinuation() {
			return l.NextToken()
		}
		tok = l.newToken(token.ILLEGAL, "\\")
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.PLUSEQ, Literal: "+=", Pos: pos}
		} else {
			tok = l.newToken(token.PLUS, "+")
		}
	case '-':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.MINUSEQ, Literal: "-=", Pos: pos}
		case '-':
			tok.Type = token.OPTION
			tok.Literal = l.readOption()
			tok.Pos = pos
			return tok
		default:
			tok = l.newToken(token.MINUS, "-")
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.STAREQ, Literal: "*=", Pos: pos}
		} else {
			tok = l.newToken(token.STAR, "*")
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.SLASHEQ, Literal: "/=", Pos: pos}
		} else {
			tok = l.newToken(token.SLASH, "/")
		}
	case '^':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.CARETEQ, Literal: "^=", Pos: pos}
		} else {
			tok = l.newToken(token.CARET, "^")
		}
	case '%':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.PERCENTEQ, Literal: "%=", Pos: pos}
		} else {
			tok = l.newToken(token.PERCENT, "%")
		}
	case '~':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.TILDEEQ, Literal: "~=", Pos: pos}
		} else {
			tok = l.newToken(token.TILDE, "~")
		}
	case '|':
		switch l.peekChar() {
		case '|':
			l.readChar()
			tok = token.Token{Type: token.OR, Literal: "||", Pos: pos}
		case '=':
			l.readChar()
			tok = token.Token{Type: token.PIPEEQ, Literal: "|=", Pos: pos}
		default:
			tok = l.newToken(token.PIPE, "|")
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = token.Token{Type: token.AND, Literal: "&&", Pos: pos}
		} else {
			tok = l.newToken(token.AMP, "&")
		}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQ, Literal: "==", Pos: pos}
		} else {
			tok = l.newToken(token.ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			tok = l.newToken(token.BANG, "!")
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		} else {
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '.':
		return l.readDotToken(pos)
	case '\'':
		tok = l.newToken(token.APOST, "'")
	case '?':
		tok = l.newToken(token.QUESTION, "?")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMI, ";")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '"':
		tok.Type = token.STRING
		tok.Literal = l.readString()
		tok.Pos = pos
		return tok
	case '$':
		if isLetter(l.peekChar()) {
			l.readChar()
			tok.Type = token.ACCESSOR
			tok.Literal = "$" + l.readIdentifier()
			tok.Pos = pos
			return tok
		}
		tok = l.newToken(token.ILLEGAL, "$")
	case '@':
		if isLetter(l.peekChar()) {
			l.readChar()
			tok.Type = token.ATVAR
			tok.Literal = "@" + l.readIdentifier()
			tok.Pos = pos
			return tok
		}
		tok = l.newToken(token.ILLEGAL, "@")
	default:
		switch {
		case isLetter(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Pos = pos
			return tok
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			tok.Pos = pos
			return tok
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// readDotToken disambiguates the '.' family: leading-dot numbers (.5),
// the loop range (..), elementwise operators (.* ./ .^ .+ .- .= .> .< .>=
// .<= .!=) and plain member access.
func (l *Lexer) readDotToken(pos token.Position) token.Token {
	if isDigit(l.peekChar()) {
		lit := l.readNumber()
		return token.Token{Type: token.NUMBER, Literal: lit, Pos: pos}
	}

	switch l.peekChar() {
	case '.':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTDOT, Literal: "..", Pos: pos}
	case '*':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTSTAR, Literal: ".*", Pos: pos}
	case '/':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTSLASH, Literal: "./", Pos: pos}
	case '^':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTCARET, Literal: ".^", Pos: pos}
	case '+':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTPLUS, Literal: ".+", Pos: pos}
	case '-':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTMINUS, Literal: ".-", Pos: pos}
	case '=':
		l.readChar()
		l.readChar()
		return token.Token{Type: token.DOTEQ, Literal: ".=", Pos: pos}
	case '!':
		l.readChar()
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.DOTNE, Literal: ".!=", Pos: pos}
		}
		return token.Token{Type: token.ILLEGAL, Literal: ".!", Pos: pos}
	case '>':
		l.readChar()
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.DOTGE, Literal: ".>=", Pos: pos}
		}
		return token.Token{Type: token.DOTGT, Literal: ".>", Pos: pos}
	case '<':
		l.readChar()
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Type: token.DOTLE, Literal: ".<=", Pos: pos}
		}
		return token.Token{Type: token.DOTLT, Literal: ".<", Pos: pos}
	default:
		l.readChar()
		return token.Token{Type: token.DOT, Literal: ".", Pos: pos}
	}
}

// newToken creates a new single-character token.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// consumeContinuation handles a backslash line continuation. The backslash
// must be the last non-whitespace character on the line. Returns false if
// the backslash is followed by anything else, leaving it to be reported as
// ILLEGAL.
func (l *Lexer) consumeContinuation() bool {
	i := l.readPos
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t' || l.input[i] == '\r') {
		i++
	}
	if i < len(l.input) && l.input[i] != '\n' {
		return false
	}

	// Consume the backslash, trailing whitespace, and the newline.
	l.readChar()
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
	if l.ch == '\n' {
		l.readChar()
	}
	return true
}

// skipSpacesAndComments skips horizontal whitespace and collects comments.
// Newlines are left in place so NextToken can emit NEWLINE.
func (l *Lexer) skipSpacesAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}

		// Collect line comment (# ...); the terminating newline stays.
		if l.ch == '#' {
			l.collectLineComment()
			continue
		}

		// Collect block comment (/* ... */). Not nested in Hansl.
		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a # comment up to (not including) the newline.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	// While sitting on the newline, readChar has already counted it into
	// the next line; report the end where the comment text stops.
	end := l.currentPos()
	if l.ch == '\n' {
		end = token.Position{Line: l.line - 1, Column: l.nlCol, Offset: l.pos}
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: end},
	})
}

// collectBlockComment collects a /* ... */ comment, which may span lines.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	var end token.Position
	terminated := false
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			// End position is fixed before consuming "*/" so a newline
			// right after it cannot bleed into the recorded line.
			end = token.Position{Line: l.line, Column: l.col + 2, Offset: l.pos + 2}
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			terminated = true
			break
		}
		l.readChar()
	}

	if !terminated {
		end = l.currentPos()
		l.Errors = append(l.Errors, &LexError{
			Pos:     startPos,
			Message: ErrUnterminatedComment,
		})
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: end},
	})
}

// readString reads a double-quoted string literal with backslash escapes.
// The returned literal includes the surrounding quotes so column math over
// raw lines stays exact.
func (l *Lexer) readString() string {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip opening quote

	for l.ch != 0 && l.ch != '\n' {
		if l.ch == '"' {
			l.readChar() // skip closing quote
			return l.input[startOffset:l.pos]
		}
		if l.ch == '\\' && l.peekChar() != 0 && l.peekChar() != '\n' {
			l.readChar() // skip escape
		}
		l.readChar()
	}

	l.Errors = append(l.Errors, &LexError{
		Pos:     startPos,
		Message: ErrUnterminatedString,
	})
	return l.input[startOffset:l.pos]
}

// readOption reads a --option command flag, including any =value part.
func (l *Lexer) readOption() string {
	start := l.pos
	l.readChar() // skip first '-'
	l.readChar() // skip second '-'
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '-' || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '=' {
		l.readChar()
		for l.ch != 0 && l.ch != '\n' && l.ch != ' ' && l.ch != '\t' {
			if l.ch == '"' {
				l.readString()
				break
			}
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// readIdentifier reads an identifier: a leading letter followed by
// letters, digits, or underscores.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, leading-dot
// decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar() // skip 'e' or 'E'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is an ASCII letter. Hansl identifiers are
// ASCII only.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, including the final EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}

// stripComments returns the input with comment bytes blanked, preserving
// offsets. Used by checks that scan raw lines but must not fire inside
// comments or strings.
func stripComments(input string, comments []*token.Comment) string {
	if len(comments) == 0 {
		return input
	}
	b := []byte(input)
	for _, c := range comments {
		for i := c.Span.Start.Offset; i < c.Span.End.Offset && i < len(b); i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}
