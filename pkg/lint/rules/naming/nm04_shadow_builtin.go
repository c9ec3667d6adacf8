package naming

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(ShadowBuiltin)
}

// ShadowBuiltin flags identifiers that collide with built-in functions
// or commands.
var ShadowBuiltin = lint.RuleDef{
	ID:          "NM04",
	Name:        "naming.shadow_builtin",
	Group:       "naming",
	Description: "Identifiers must not shadow built-in functions or commands.",
	Severity:    lint.SeverityWarning,
	Check:       checkShadowBuiltin,
	ConfigKeys:  []string{"allow"},
	Rationale: "A series named mean silently shadows the mean() function for the " +
		"rest of the script. Gretl accepts the declaration, so the breakage only " +
		"shows up at the next call site.",
	BadExample:  "series mean = (y + x) / 2",
	GoodExample: "series midpoint = (y + x) / 2",
	Fix:         "Rename the identifier; the built-in cannot be renamed.",
}

func checkShadowBuiltin(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	allowed := make(map[string]bool)
	for _, name := range lint.GetStringSliceOption(opts, "allow", nil) {
		allowed[name] = true
	}

	check := func(name string, pos token.Position, what string) *lint.Diagnostic {
		if allowed[name] {
			return nil
		}
		var kind string
		switch {
		case token.IsBuiltin(name):
			kind = "built-in function"
		case token.IsCommand(name):
			kind = "command"
		default:
			return nil
		}
		return &lint.Diagnostic{
			RuleID:           "NM04",
			Severity:         lint.SeverityWarning,
			Message:          fmt.Sprintf("%s %q shadows the %s of the same name", what, name, kind),
			Pos:              pos,
			EndPos:           endOfName(pos, name),
			DocumentationURL: lint.BuildDocURL("NM04"),
			ImpactScore:      lint.ImpactHigh.Int(),
		}
	}

	var diagnostics []lint.Diagnostic
	for _, f := range script.Functions {
		if d := check(f.Name, f.NamePos, "function"); d != nil {
			diagnostics = append(diagnostics, *d)
		}
		for _, p := range f.Params {
			if d := check(p.Name, p.Pos, "parameter"); d != nil {
				diagnostics = append(diagnostics, *d)
			}
		}
	}
	for _, decl := range script.Decls {
		if d := check(decl.Name, decl.Pos, declKind(decl)); d != nil {
			diagnostics = append(diagnostics, *d)
		}
	}

	return diagnostics
}
