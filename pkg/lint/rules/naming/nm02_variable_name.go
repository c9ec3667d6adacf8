package naming

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
)

func init() {
	lint.Register(VariableNameStyle)
}

// VariableNameStyle requires snake_case variable names.
//
// Matrix declarations are exempt from the lowercase requirement: naming
// matrices X, Y, or XX follows econometric notation and is near-universal
// in published Gretl code.
var VariableNameStyle = lint.RuleDef{
	ID:          "NM02",
	Name:        "naming.variable_name_style",
	Group:       "naming",
	Description: "Variable names start lowercase and use snake_case.",
	Severity:    lint.SeverityWarning,
	Check:       checkVariableNameStyle,
	ConfigKeys:  []string{"allow-caps"},
	Rationale: "Hansl identifiers are case sensitive, so y and Y are different " +
		"variables. Keeping everything but matrices in lower_snake_case removes " +
		"a whole class of wrong-variable bugs.",
	BadExample:  "scalar NObs = $nobs",
	GoodExample: "scalar n_obs = $nobs",
}

func checkVariableNameStyle(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	allowCaps := lint.GetBoolOption(opts, "allow-caps", false)

	var diagnostics []lint.Diagnostic
	for _, d := range script.Decls {
		if isSnakeCase(d.Name) {
			continue
		}
		if d.Type == "matrix" || d.Type == "matrices" {
			continue
		}
		if allowCaps && isAllCaps(d.Name) {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "NM02",
			Severity:         lint.SeverityWarning,
			Message:          fmt.Sprintf("%s name %q should be lower_snake_case, e.g. %q", declKind(d), d.Name, toSnakeCase(d.Name)),
			Pos:              d.Pos,
			EndPos:           endOfName(d.Pos, d.Name),
			DocumentationURL: lint.BuildDocURL("NM02"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}

	return diagnostics
}

func declKind(d *parser.Decl) string {
	if d.Type == "loop" {
		return "loop index"
	}
	return d.Type
}
