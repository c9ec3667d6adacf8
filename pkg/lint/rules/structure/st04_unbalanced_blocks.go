package structure

import (
	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
)

func init() {
	lint.Register(UnbalancedBlocks)
}

// UnbalancedBlocks surfaces structural scan errors: blocks that never
// close, closers with no opener, malformed function declarations, and
// unterminated strings or comments. gretl would refuse to run the
// script, so these rank above every style finding.
var UnbalancedBlocks = lint.RuleDef{
	ID:          "ST04",
	Name:        "structure.unbalanced_blocks",
	Group:       "structure",
	Description: "Every block opener needs its matching closer.",
	Severity:    lint.SeverityError,
	Check:       checkUnbalancedBlocks,
	BadExample:  "loop i=1..10\n    print i",
	GoodExample: "loop i=1..10\n    print i\nendloop",
}

func checkUnbalancedBlocks(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, e := range script.LexErrors {
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "ST04",
			Severity:         lint.SeverityError,
			Message:          e.Message,
			Pos:              e.Pos,
			EndPos:           e.Pos,
			DocumentationURL: lint.BuildDocURL("ST04"),
			ImpactScore:      lint.ImpactCritical.Int(),
		})
	}
	for _, e := range script.ScanErrors {
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "ST04",
			Severity:         lint.SeverityError,
			Message:          e.Message,
			Pos:              e.Pos,
			EndPos:           e.Pos,
			DocumentationURL: lint.BuildDocURL("ST04"),
			ImpactScore:      lint.ImpactCritical.Int(),
		})
	}
	return diagnostics
}
