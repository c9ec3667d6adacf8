package comments

import (
	"strings"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(BlockCommentStyle)
}

// BlockCommentStyle nudges single-line /* */ comments toward # form and
// warns about /* inside a block comment: Hansl block comments do not
// nest, so the first */ ends the whole thing.
//
// Function docstrings keep their /* */ form. That is what gretl shows
// as help text.
var BlockCommentStyle = lint.RuleDef{
	ID:          "CM03",
	Name:        "comments.block_comment_style",
	Group:       "comments",
	Description: "Prefer # for single-line comments; never nest /* */.",
	Severity:    lint.SeverityHint,
	Check:       checkBlockCommentStyle,
	BadExample:  "/* adjust the sample */",
	GoodExample: "# adjust the sample",
}

func checkBlockCommentStyle(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	docstrings := make(map[*token.Comment]bool)
	for _, f := range script.Functions {
		if f.Docstring != nil {
			docstrings[f.Docstring] = true
		}
	}

	var diagnostics []lint.Diagnostic
	for _, c := range script.Comments {
		if !c.IsBlockComment() {
			continue
		}

		if strings.Contains(c.Text[2:], "/*") {
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "CM03",
				Severity:         lint.SeverityWarning,
				Message:          `block comments do not nest; the first "*/" ends the comment`,
				Pos:              c.Span.Start,
				EndPos:           c.Span.End,
				DocumentationURL: lint.BuildDocURL("CM03"),
				ImpactScore:      lint.ImpactHigh.Int(),
			})
		}

		if !c.OneLine() || docstrings[c] {
			continue
		}

		d := lint.Diagnostic{
			RuleID:           "CM03",
			Severity:         lint.SeverityHint,
			Message:          `single-line block comment; prefer a "#" comment`,
			Pos:              c.Span.Start,
			EndPos:           c.Span.End,
			DocumentationURL: lint.BuildDocURL("CM03"),
			ImpactScore:      lint.ImpactLow.Int(),
		}
		if nothingAfter(script, c) {
			d.AutoFixable = true
			d.Fixes = []lint.Fix{{
				Description: `rewrite as a "#" comment`,
				TextEdits: []lint.TextEdit{{
					Pos:     c.Span.Start,
					EndPos:  c.Span.End,
					NewText: "# " + c.Body(),
				}},
			}}
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}

// nothingAfter reports whether only whitespace follows the comment on
// its line. A # comment runs to end of line, so the rewrite is only
// safe when the block comment already sits last.
func nothingAfter(script *parser.Script, c *token.Comment) bool {
	line := script.Lines[c.Span.End.Line-1]
	col := c.Span.End.Column - 1
	if col < 0 || col > len(line) {
		return false
	}
	return strings.TrimSpace(line[col:]) == ""
}
