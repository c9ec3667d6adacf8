package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.RegisterProject(ScriptExtension)
}

// ScriptExtension wants Hansl scripts named *.inp, the extension gretl
// itself associates with script files.
var ScriptExtension = lint.ProjectRuleDef{
	ID:          "PF01",
	Name:        "project.script_extension",
	Group:       "project",
	Description: "Hansl scripts use an accepted file extension.",
	Severity:    lint.SeverityWarning,
	Check:       checkScriptExtension,
}

func checkScriptExtension(ctx lint.ProjectContext) []lint.Diagnostic {
	allowed := ctx.Config().ScriptExtensions
	allowedSet := make(map[string]bool, len(allowed))
	for _, ext := range allowed {
		allowedSet[ext] = true
	}

	var diagnostics []lint.Diagnostic
	for _, s := range ctx.Scripts() {
		if s.Path == "" {
			continue
		}
		ext := filepath.Ext(s.Path)
		if allowedSet[ext] {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "PF01",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf("extension %q is not an accepted script extension (%s)",
				ext, strings.Join(allowed, ", ")),
			FilePath:         s.Path,
			Pos:              token.Position{Line: 1, Column: 1},
			EndPos:           token.Position{Line: 1, Column: 1},
			DocumentationURL: lint.BuildDocURL("PF01"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}
	return diagnostics
}
