package length

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(FunctionLength)
}

// FunctionLength flags function bodies longer than the configured maximum.
var FunctionLength = lint.RuleDef{
	ID:          "LL02",
	Name:        "length.function_length",
	Group:       "length",
	Description: "Keep function bodies within the configured number of lines.",
	Severity:    lint.SeverityWarning,
	Check:       checkFunctionLength,
	ConfigKeys:  []string{"max-lines"},
	Fix:         "Extract helper functions.",
}

func checkFunctionLength(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	max := lint.GetIntOption(opts, "max-lines", 60)

	var diagnostics []lint.Diagnostic
	for _, f := range script.Functions {
		if f.EndLine == 0 {
			continue
		}
		body := f.BodyLines()
		if body <= max {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "LL02",
			Severity:         lint.SeverityWarning,
			Message:          fmt.Sprintf("function %q has %d body lines (max %d)", f.Name, body, max),
			Pos:              f.NamePos,
			EndPos:           endOfFunctionName(f),
			DocumentationURL: lint.BuildDocURL("LL02"),
			ImpactScore:      lint.ImpactMedium.Int(),
		})
	}

	return diagnostics
}

func endOfFunctionName(f *parser.Function) token.Position {
	end := f.NamePos
	end.Column += len(f.Name)
	end.Offset += len(f.Name)
	return end
}
