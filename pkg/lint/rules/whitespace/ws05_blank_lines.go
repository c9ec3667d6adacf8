package whitespace

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(BlankLines)
}

// BlankLines limits runs of consecutive blank lines.
var BlankLines = lint.RuleDef{
	ID:          "WS05",
	Name:        "whitespace.blank_lines",
	Group:       "whitespace",
	Description: "Limit consecutive blank lines.",
	Severity:    lint.SeverityInfo,
	Check:       checkBlankLines,
	ConfigKeys:  []string{"max"},
}

func checkBlankLines(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	max := lint.GetIntOption(opts, "max", 2)
	offsets := source.LineOffsets(script)
	inComment := source.BlockCommentLines(script)

	var diagnostics []lint.Diagnostic
	run := 0
	runStart := 0
	flush := func() {
		if run > max {
			firstExcess := runStart + max
			startOff := offsets[firstExcess-1]
			endOff := len(script.Source)
			if runStart+run-1 < len(offsets) {
				endOff = offsets[runStart+run-1]
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "WS05",
				Severity:         lint.SeverityInfo,
				Message:          fmt.Sprintf("%d consecutive blank lines (max %d)", run, max),
				Pos:              token.Position{Line: firstExcess, Column: 1, Offset: startOff},
				EndPos:           token.Position{Line: runStart + run, Column: 1, Offset: endOff},
				DocumentationURL: lint.BuildDocURL("WS05"),
				ImpactScore:      lint.ImpactLow.Int(),
				AutoFixable:      true,
				Fixes: []lint.Fix{{
					Description: "remove extra blank lines",
					TextEdits: []lint.TextEdit{{
						Pos:     token.Position{Line: firstExcess, Column: 1, Offset: startOff},
						EndPos:  token.Position{Line: runStart + run, Column: 1, Offset: endOff},
						NewText: "",
					}},
				}},
			})
		}
		run = 0
	}

	for lineNo := 1; lineNo <= len(script.Lines); lineNo++ {
		if script.IsBlank(lineNo) && !inComment[lineNo] {
			if run == 0 {
				runStart = lineNo
			}
			run++
			continue
		}
		flush()
	}
	flush()

	return diagnostics
}
