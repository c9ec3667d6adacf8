package length

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(LineLength)
}

// LineLength flags physical lines wider than the configured maximum.
//
// With ignore-strings (the default) a string literal counts as its two
// quotes only, so a long printf format does not force a split. Lines
// carrying a URL are exempt: URLs cannot be broken.
var LineLength = lint.RuleDef{
	ID:          "LL01",
	Name:        "length.line_length",
	Group:       "length",
	Description: "Keep lines within the configured width.",
	Severity:    lint.SeverityWarning,
	Check:       checkLineLength,
	ConfigKeys:  []string{"max-length", "ignore-strings"},
	Rationale: "Hansl is read in terminals and in the gretl script editor, " +
		"both commonly 80 columns wide. A trailing backslash continues a " +
		"logical line, so width never has to fight readability.",
	Fix: "Split the line with a trailing backslash.",
}

func checkLineLength(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	max := lint.GetIntOption(opts, "max-length", 80)
	ignoreStrings := lint.GetBoolOption(opts, "ignore-strings", true)

	offsets := source.LineOffsets(script)
	var strSpans map[int][]token.Span
	if ignoreStrings {
		strSpans = source.StringSpansByLine(script)
	}

	var diagnostics []lint.Diagnostic
	for i, line := range script.Lines {
		length := utf8.RuneCountInString(line)
		if length <= max {
			continue
		}
		if strings.Contains(line, "://") {
			continue
		}
		if ignoreStrings {
			effective := length
			for _, span := range strSpans[i+1] {
				if w := span.End.Column - span.Start.Column - 2; w > 0 {
					effective -= w
				}
			}
			if effective <= max {
				continue
			}
		}

		lineNo := i + 1
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "LL01",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf("line is %d characters long (max %d); split it with a trailing backslash",
				length, max),
			Pos:              token.Position{Line: lineNo, Column: max + 1, Offset: offsets[i] + max},
			EndPos:           token.Position{Line: lineNo, Column: length + 1, Offset: offsets[i] + len(line)},
			DocumentationURL: lint.BuildDocURL("LL01"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}

	return diagnostics
}
