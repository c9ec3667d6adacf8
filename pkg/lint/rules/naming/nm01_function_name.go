package naming

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
)

func init() {
	lint.Register(FunctionNameStyle)
}

// FunctionNameStyle requires lower_snake_case function names.
var FunctionNameStyle = lint.RuleDef{
	ID:          "NM01",
	Name:        "naming.function_name_style",
	Group:       "naming",
	Description: "Function names use lower_snake_case.",
	Severity:    lint.SeverityWarning,
	Check:       checkFunctionNameStyle,
	Rationale: "Gretl's function package archive uses lower_snake_case throughout. " +
		"Mixed-case function names read like accessors or matrices and make a " +
		"script harder to scan.",
	BadExample:  "function scalar MeanAbsError (series y, series yhat)",
	GoodExample: "function scalar mean_abs_error (series y, series yhat)",
	Fix:         "Rename the function and its call sites to lower_snake_case.",
}

func checkFunctionNameStyle(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, f := range script.Functions {
		if isSnakeCase(f.Name) {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "NM01",
			Severity:         lint.SeverityWarning,
			Message:          fmt.Sprintf("function name %q should be lower_snake_case, e.g. %q", f.Name, toSnakeCase(f.Name)),
			Pos:              f.NamePos,
			EndPos:           endOfName(f.NamePos, f.Name),
			DocumentationURL: lint.BuildDocURL("NM01"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}

	return diagnostics
}
