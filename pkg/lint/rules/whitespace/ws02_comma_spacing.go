package whitespace

import (
	"strings"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(CommaSpacing)
}

// CommaSpacing requires "a, b" style in argument lists and matrix rows.
var CommaSpacing = lint.RuleDef{
	ID:          "WS02",
	Name:        "whitespace.comma_spacing",
	Group:       "whitespace",
	Description: "No space before a comma, one space after.",
	Severity:    lint.SeverityInfo,
	Check:       checkCommaSpacing,
	BadExample:  "matrix A = {1,2;3,4}",
	GoodExample: "matrix A = {1, 2; 3, 4}",
}

func checkCommaSpacing(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, toks := range script.LogicalLines() {
		for i, t := range toks {
			if t.Type != token.COMMA {
				continue
			}

			if i > 0 {
				before := source.Gap(script, toks[i-1], t)
				if before != "" && !strings.Contains(before, "\n") {
					diagnostics = append(diagnostics, lint.Diagnostic{
						RuleID:           "WS02",
						Severity:         lint.SeverityInfo,
						Message:          "space before comma",
						Pos:              toks[i-1].End(),
						EndPos:           t.Pos,
						DocumentationURL: lint.BuildDocURL("WS02"),
						ImpactScore:      lint.ImpactLow.Int(),
						AutoFixable:      true,
						Fixes: []lint.Fix{{
							Description: "remove space before comma",
							TextEdits:   []lint.TextEdit{{Pos: toks[i-1].End(), EndPos: t.Pos, NewText: ""}},
						}},
					})
				}
			}

			if i < len(toks)-1 {
				after := source.Gap(script, t, toks[i+1])
				if after == "" {
					diagnostics = append(diagnostics, lint.Diagnostic{
						RuleID:           "WS02",
						Severity:         lint.SeverityInfo,
						Message:          "missing space after comma",
						Pos:              t.Pos,
						EndPos:           t.End(),
						DocumentationURL: lint.BuildDocURL("WS02"),
						ImpactScore:      lint.ImpactLow.Int(),
						AutoFixable:      true,
						Fixes: []lint.Fix{{
							Description: "add space after comma",
							TextEdits:   []lint.TextEdit{{Pos: t.End(), EndPos: t.End(), NewText: " "}},
						}},
					})
				}
			}
		}
	}

	return diagnostics
}
