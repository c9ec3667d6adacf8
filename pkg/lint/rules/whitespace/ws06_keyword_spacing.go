package whitespace

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(KeywordSpacing)
}

// KeywordSpacing requires a space between a flow keyword and its condition.
var KeywordSpacing = lint.RuleDef{
	ID:          "WS06",
	Name:        "whitespace.keyword_spacing",
	Group:       "whitespace",
	Description: "Require a space after flow-control keywords.",
	Severity:    lint.SeverityInfo,
	Check:       checkKeywordSpacing,
	BadExample:  "if(x > 0)",
	GoodExample: "if x > 0",
	Fix:         "Insert a space between the keyword and its condition.",
}

func checkKeywordSpacing(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, toks := range script.LogicalLines() {
		if len(toks) < 2 {
			continue
		}
		kw := toks[0]
		if kw.Type != token.IF && kw.Type != token.ELIF && kw.Type != token.LOOP {
			continue
		}
		if source.Gap(script, kw, toks[1]) != "" {
			continue
		}
		insertAt := kw.End()
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "WS06",
			Severity:         lint.SeverityInfo,
			Message:          fmt.Sprintf("missing space after %q", kw.Literal),
			Pos:              kw.Pos,
			EndPos:           insertAt,
			DocumentationURL: lint.BuildDocURL("WS06"),
			ImpactScore:      lint.ImpactLow.Int(),
			AutoFixable:      true,
			Fixes: []lint.Fix{{
				Description: fmt.Sprintf("insert space after %q", kw.Literal),
				TextEdits: []lint.TextEdit{{
					Pos:     insertAt,
					EndPos:  insertAt,
					NewText: " ",
				}},
			}},
		})
	}
	return diagnostics
}
