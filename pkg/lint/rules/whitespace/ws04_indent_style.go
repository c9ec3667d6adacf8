package whitespace

import (
	"fmt"
	"strings"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/lint/internal/source"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(IndentStyle)
}

// IndentStyle enforces one indentation character and width.
//
// Continuation lines are exempt from the width check: aligning them under
// an opening paren is common and fine.
var IndentStyle = lint.RuleDef{
	ID:          "WS04",
	Name:        "whitespace.indent_style",
	Group:       "whitespace",
	Description: "Indent consistently with spaces (or tabs) at a fixed width.",
	Severity:    lint.SeverityWarning,
	Check:       checkIndentStyle,
	ConfigKeys:  []string{"style", "width"},
	BadExample:  "if x > 0\n\tprint x\nendif",
	GoodExample: "if x > 0\n    print x\nendif",
}

func checkIndentStyle(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	style := lint.GetStringOption(opts, "style", "spaces")
	width := lint.GetIntOption(opts, "width", 4)
	if width < 1 {
		width = 4
	}

	inComment := source.BlockCommentLines(script)
	continuation := source.ContinuationLines(script)

	var diagnostics []lint.Diagnostic
	for i, line := range script.Lines {
		lineNo := i + 1
		if script.IsBlank(lineNo) || inComment[lineNo] {
			continue
		}
		indent := source.Indent(line)
		if indent == "" {
			continue
		}

		hasTab := strings.Contains(indent, "\t")
		hasSpace := strings.Contains(indent, " ")
		pos := token.Position{Line: lineNo, Column: 1}

		var msg string
		switch {
		case hasTab && hasSpace:
			msg = "indentation mixes tabs and spaces"
		case style == "spaces" && hasTab:
			msg = "indentation uses tabs; configured style is spaces"
		case style == "tabs" && hasSpace:
			msg = "indentation uses spaces; configured style is tabs"
		case style == "spaces" && !continuation[lineNo] && len(indent)%width != 0:
			msg = fmt.Sprintf("indent of %d spaces is not a multiple of %d", len(indent), width)
		default:
			continue
		}

		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "WS04",
			Severity:         lint.SeverityWarning,
			Message:          msg,
			Pos:              pos,
			EndPos:           token.Position{Line: lineNo, Column: len(indent) + 1},
			DocumentationURL: lint.BuildDocURL("WS04"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}

	return diagnostics
}
