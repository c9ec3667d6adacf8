package parser

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/token"
)

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ScanError represents a structural scanning error, such as an unmatched
// block opener.
type ScanError struct {
	Pos     token.Position
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedComment = "unterminated block comment"
	ErrUnmatchedOpen       = "block %q is never closed"
	ErrUnmatchedClose      = "%q without matching %q"
	ErrBadFunctionDecl     = "malformed function declaration"
)
