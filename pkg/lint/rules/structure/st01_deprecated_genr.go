package structure

import (
	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(DeprecatedGenr)
}

// DeprecatedGenr flags the legacy genr prefix on assignments.
//
// The special forms (genr time, genr unitdum, ...) are still the
// documented way to create those series and are left alone.
var DeprecatedGenr = lint.RuleDef{
	ID:          "ST01",
	Name:        "structure.deprecated_genr",
	Group:       "structure",
	Description: "Assign directly instead of using the legacy genr prefix.",
	Severity:    lint.SeverityWarning,
	Check:       checkDeprecatedGenr,
	BadExample:  "genr y = x - 1",
	GoodExample: "series y = x - 1",
	Fix:         "Drop the genr keyword, or declare the result with a type keyword.",
}

// specialGenr are the generator words that have no assignment form.
var specialGenr = map[string]bool{
	"time":    true,
	"index":   true,
	"dummy":   true,
	"timedum": true,
	"unitdum": true,
	"markers": true,
}

func checkDeprecatedGenr(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, toks := range script.LogicalLines() {
		if toks[0].Type == token.CATCH && len(toks) > 1 {
			toks = toks[1:]
		}
		genr := toks[0]
		if genr.Type != token.GENR {
			continue
		}
		if len(toks) >= 2 && toks[1].Type == token.IDENT && specialGenr[toks[1].Literal] &&
			(len(toks) == 2 || !token.IsAssignOp(toks[2].Type)) {
			continue
		}

		d := lint.Diagnostic{
			RuleID:           "ST01",
			Severity:         lint.SeverityWarning,
			Message:          `"genr" is deprecated; assign directly or declare with a type keyword`,
			Pos:              genr.Pos,
			EndPos:           genr.End(),
			DocumentationURL: lint.BuildDocURL("ST01"),
			ImpactScore:      lint.ImpactMedium.Int(),
		}
		if len(toks) > 1 && toks[1].Pos.Line == genr.Pos.Line {
			d.AutoFixable = true
			d.Fixes = []lint.Fix{{
				Description: `drop the "genr" keyword`,
				TextEdits: []lint.TextEdit{{
					Pos:     genr.Pos,
					EndPos:  toks[1].Pos,
					NewText: "",
				}},
			}}
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}
