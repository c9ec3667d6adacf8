package whitespace

import (
	"strings"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(TrailingWhitespace)
}

// TrailingWhitespace flags spaces or tabs at the end of a line.
var TrailingWhitespace = lint.RuleDef{
	ID:          "WS03",
	Name:        "whitespace.trailing_whitespace",
	Group:       "whitespace",
	Description: "No trailing spaces or tabs.",
	Severity:    lint.SeverityWarning,
	Check:       checkTrailingWhitespace,
	Rationale: "Trailing whitespace after a backslash breaks line continuation " +
		"in older gretl versions, and elsewhere it just churns diffs.",
}

func checkTrailingWhitespace(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	offsets := source.LineOffsets(script)

	var diagnostics []lint.Diagnostic
	for i, line := range script.Lines {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) {
			continue
		}

		pos := token.Position{Line: i + 1, Column: len(trimmed) + 1, Offset: offsets[i] + len(trimmed)}
		end := token.Position{Line: i + 1, Column: len(line) + 1, Offset: offsets[i] + len(line)}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "WS03",
			Severity:         lint.SeverityWarning,
			Message:          "trailing whitespace",
			Pos:              pos,
			EndPos:           end,
			DocumentationURL: lint.BuildDocURL("WS03"),
			ImpactScore:      lint.ImpactLow.Int(),
			AutoFixable:      true,
			Fixes: []lint.Fix{{
				Description: "remove trailing whitespace",
				TextEdits:   []lint.TextEdit{{Pos: pos, EndPos: end, NewText: ""}},
			}},
		})
	}

	return diagnostics
}
