package structure

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(StringSubstitution)
}

// StringSubstitution flags @-style macro substitution. The gretl manual
// calls it a last-resort mechanism: it splices raw text before parsing,
// so quoting and type errors surface far from the cause.
var StringSubstitution = lint.RuleDef{
	ID:          "ST03",
	Name:        "structure.string_substitution",
	Group:       "structure",
	Description: "Prefer sprintf() and string variables over @-substitution.",
	Severity:    lint.SeverityHint,
	Check:       checkStringSubstitution,
	BadExample:  `smpl @lo @hi`,
	GoodExample: `smpl lo hi  # with obsnum lo, hi`,
}

func checkStringSubstitution(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, t := range script.Tokens {
		if t.Type != token.ATVAR {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "ST03",
			Severity:         lint.SeverityHint,
			Message:          fmt.Sprintf("string substitution %s; prefer sprintf() or a string variable", t.Literal),
			Pos:              t.Pos,
			EndPos:           t.End(),
			DocumentationURL: lint.BuildDocURL("ST03"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}
	return diagnostics
}
