package token

import "strings"

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // # comment
	BlockComment                    // /* comment */
)

// Comment represents a Hansl comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters (# or /* */)
	Span Span
}

// IsLineComment returns true if this is a # comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// IsBlockComment returns true if this is a /* */ comment.
func (c *Comment) IsBlockComment() bool {
	return c.Kind == BlockComment
}

// OneLine returns true if the comment starts and ends on the same
// physical line.
func (c *Comment) OneLine() bool {
	return c.Span.Start.Line == c.Span.End.Line
}

// Body returns the comment text without its delimiters, trimmed.
func (c *Comment) Body() string {
	s := c.Text
	if c.Kind == LineComment {
		s = strings.TrimPrefix(s, "#")
	} else {
		s = strings.TrimPrefix(s, "/*")
		s = strings.TrimSuffix(s, "*/")
	}
	return strings.TrimSpace(s)
}
