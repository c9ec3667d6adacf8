package comments

import (
	"strings"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(CommentSpacing)
}

// CommentSpacing requires a space between # and the comment text.
// Section markers (##) and pragma-style comments (#!) are exempt.
var CommentSpacing = lint.RuleDef{
	ID:          "CM02",
	Name:        "comments.comment_spacing",
	Group:       "comments",
	Description: "One space between # and the comment text.",
	Severity:    lint.SeverityInfo,
	Check:       checkCommentSpacing,
	BadExample:  "#compute residuals",
	GoodExample: "# compute residuals",
}

func checkCommentSpacing(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, c := range script.Comments {
		if !c.IsLineComment() || len(c.Text) < 2 {
			continue
		}
		if c.Text[1] == ' ' || c.Text[1] == '\t' {
			continue
		}
		if strings.HasPrefix(c.Text, "##") || strings.HasPrefix(c.Text, "#!") {
			continue
		}

		insertAt := token.Position{
			Line:   c.Span.Start.Line,
			Column: c.Span.Start.Column + 1,
			Offset: c.Span.Start.Offset + 1,
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "CM02",
			Severity:         lint.SeverityInfo,
			Message:          `missing space after "#"`,
			Pos:              c.Span.Start,
			EndPos:           insertAt,
			DocumentationURL: lint.BuildDocURL("CM02"),
			ImpactScore:      lint.ImpactLow.Int(),
			AutoFixable:      true,
			Fixes: []lint.Fix{{
				Description: `insert space after "#"`,
				TextEdits:   []lint.TextEdit{{Pos: insertAt, EndPos: insertAt, NewText: " "}},
			}},
		})
	}
	return diagnostics
}
