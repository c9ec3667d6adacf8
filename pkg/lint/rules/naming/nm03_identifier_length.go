package naming

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.Register(IdentifierLength)
}

// hardNameLimit is the interpreter's identifier length limit. Names at or
// over this length are rejected by gretl itself.
const hardNameLimit = 31

// IdentifierLength flags overlong identifiers.
var IdentifierLength = lint.RuleDef{
	ID:          "NM03",
	Name:        "naming.identifier_length",
	Group:       "naming",
	Description: "Identifiers stay under the soft length limit; 31 characters is a hard interpreter limit.",
	Severity:    lint.SeverityWarning,
	Check:       checkIdentifierLength,
	ConfigKeys:  []string{"max-length"},
	Rationale: "Gretl rejects identifiers longer than 31 characters outright. Names " +
		"approaching that limit also tend to encode what a comment should say.",
	BadExample:  "scalar average_residual_sum_of_squares_adjusted = ...",
	GoodExample: "scalar adj_rss_mean = ...  # adjusted average RSS",
}

type namedPos struct {
	name string
	pos  token.Position
}

func checkIdentifierLength(script *parser.Script, opts map[string]any) []lint.Diagnostic {
	softMax := lint.GetIntOption(opts, "max-length", 24)

	var names []namedPos
	for _, f := range script.Functions {
		names = append(names, namedPos{f.Name, f.NamePos})
		for _, p := range f.Params {
			names = append(names, namedPos{p.Name, p.Pos})
		}
	}
	for _, d := range script.Decls {
		names = append(names, namedPos{d.Name, d.Pos})
	}

	var diagnostics []lint.Diagnostic
	for _, n := range names {
		switch {
		case len(n.name) > hardNameLimit:
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "NM03",
				Severity:         lint.SeverityError,
				Message:          fmt.Sprintf("identifier %q is %d characters; gretl rejects names longer than %d", n.name, len(n.name), hardNameLimit),
				Pos:              n.pos,
				EndPos:           endOfName(n.pos, n.name),
				DocumentationURL: lint.BuildDocURL("NM03"),
				ImpactScore:      lint.ImpactCritical.Int(),
			})
		case len(n.name) > softMax:
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:           "NM03",
				Severity:         lint.SeverityWarning,
				Message:          fmt.Sprintf("identifier %q is %d characters (soft limit %d)", n.name, len(n.name), softMax),
				Pos:              n.pos,
				EndPos:           endOfName(n.pos, n.name),
				DocumentationURL: lint.BuildDocURL("NM03"),
				ImpactScore:      lint.ImpactLow.Int(),
			})
		}
	}

	return diagnostics
}
