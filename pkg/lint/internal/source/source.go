// Package source provides shared source-text helpers for lint rules.
package source

import (
	"strings"

	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

// Gap returns the raw source text between two tokens.
func Gap(s *parser.Script, a, b token.Token) string {
	start := a.End().Offset
	end := b.Pos.Offset
	if start < 0 || end > len(s.Source) || start > end {
		return ""
	}
	return s.Source[start:end]
}

// Indent returns the leading whitespace of a line.
func Indent(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// LineOffsets returns the byte offset of the start of each physical line,
// indexed by line-1.
func LineOffsets(s *parser.Script) []int {
	offsets := make([]int, 0, len(s.Lines))
	off := 0
	for {
		offsets = append(offsets, off)
		idx := strings.IndexByte(s.Source[off:], '\n')
		if idx < 0 {
			break
		}
		off += idx + 1
		if off >= len(s.Source) {
			break
		}
	}
	for len(offsets) < len(s.Lines) {
		offsets = append(offsets, len(s.Source))
	}
	return offsets
}

// StringSpansByLine collects the spans of string literals per physical line.
func StringSpansByLine(s *parser.Script) map[int][]token.Span {
	spans := make(map[int][]token.Span)
	for _, tok := range s.Tokens {
		if tok.Type == token.STRING {
			spans[tok.Pos.Line] = append(spans[tok.Pos.Line], token.Span{Start: tok.Pos, End: tok.End()})
		}
	}
	return spans
}

// BlockCommentLines returns the physical lines covered by multi-line block
// comments, excluding each comment's opening line. Rules that scan raw lines
// use this to stay out of comment prose.
func BlockCommentLines(s *parser.Script) map[int]bool {
	lines := make(map[int]bool)
	for _, c := range s.Comments {
		if !c.IsBlockComment() || c.OneLine() {
			continue
		}
		for l := c.Span.Start.Line + 1; l <= c.Span.End.Line; l++ {
			lines[l] = true
		}
	}
	return lines
}

// ContinuationLines returns the physical lines that continue a previous
// line via backslash, i.e. every line of a logical line except the first.
func ContinuationLines(s *parser.Script) map[int]bool {
	lines := make(map[int]bool)
	for _, toks := range s.LogicalLines() {
		first := toks[0].Pos.Line
		for _, t := range toks {
			if t.Pos.Line != first {
				lines[t.Pos.Line] = true
			}
		}
	}
	return lines
}
