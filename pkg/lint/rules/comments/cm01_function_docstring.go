package comments

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(FunctionDocstring)
}

// FunctionDocstring requires every function to carry a documenting
// comment, either right above the declaration or at the top of the body.
// A /* */ block in that position doubles as the gretl help text for
// packaged functions.
var FunctionDocstring = lint.RuleDef{
	ID:          "CM01",
	Name:        "comments.function_docstring",
	Group:       "comments",
	Description: "Every function has a documenting comment.",
	Severity:    lint.SeverityWarning,
	Check:       checkFunctionDocstring,
	BadExample:  "function scalar mae (series y, series yhat)\n    return mean(abs(y - yhat))\nend function",
	GoodExample: "function scalar mae (series y, series yhat)\n    /* Mean absolute error of a forecast. */\n    return mean(abs(y - yhat))\nend function",
	Fix:         "Describe the function in a comment above the declaration or at the top of its body.",
}

func checkFunctionDocstring(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, f := range script.Functions {
		if f.Docstring != nil || hasDocComment(script, f) {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "CM01",
			Severity:         lint.SeverityWarning,
			Message:          fmt.Sprintf("function %q has no docstring", f.Name),
			Pos:              f.NamePos,
			EndPos:           token.Position{Line: f.NamePos.Line, Column: f.NamePos.Column + len(f.Name), Offset: f.NamePos.Offset + len(f.Name)},
			DocumentationURL: lint.BuildDocURL("CM01"),
			ImpactScore:      lint.ImpactMedium.Int(),
		})
	}
	return diagnostics
}

// hasDocComment reports whether a # comment sits in a docstring position.
// Line comments never become the bound Docstring, but they still count
// as documentation.
func hasDocComment(script *parser.Script, f *parser.Function) bool {
	for _, c := range script.Comments {
		if !c.IsLineComment() {
			continue
		}
		if c.Span.End.Line == f.DeclLine-1 {
			return true
		}
		if c.Span.Start.Line > f.DeclLine && c.Span.Start.Line <= f.DeclLine+2 {
			return true
		}
	}
	return false
}
