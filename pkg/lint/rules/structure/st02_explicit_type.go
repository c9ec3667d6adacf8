package structure

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(ExplicitType)
}

// ExplicitType nudges top-level bare assignments toward a declared type.
// The first write to a name decides its type in Hansl, so spelling the
// type out documents intent and catches typos that would otherwise
// silently create a second variable.
var ExplicitType = lint.RuleDef{
	ID:          "ST02",
	Name:        "structure.explicit_type",
	Group:       "structure",
	Description: "Declare new variables with an explicit type keyword.",
	Severity:    lint.SeverityHint,
	Check:       checkExplicitType,
	BadExample:  "y = x - 1",
	GoodExample: "series y = x - 1",
}

func checkExplicitType(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	declared := make(map[string]bool)
	for _, d := range script.Decls {
		declared[d.Name] = true
	}
	for _, f := range script.Functions {
		declared[f.Name] = true
		for _, p := range f.Params {
			declared[p.Name] = true
		}
	}

	seen := make(map[string]bool)
	var diagnostics []lint.Diagnostic
	for _, a := range script.Assigns {
		if a.InFunc || a.AfterGenr || a.Op != token.ASSIGN {
			continue
		}
		if declared[a.Name] || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "ST02",
			Severity:         lint.SeverityHint,
			Message:          fmt.Sprintf("%q is created without an explicit type", a.Name),
			Pos:              a.Pos,
			EndPos:           token.Position{Line: a.Pos.Line, Column: a.Pos.Column + len(a.Name), Offset: a.Pos.Offset + len(a.Name)},
			DocumentationURL: lint.BuildDocURL("ST02"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}
	return diagnostics
}
