package project

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.RegisterProject(FileLength)
}

// FileLength flags scripts that have grown past the configured number
// of lines. Long estimation scripts usually split naturally into a
// function package plus a short driver.
var FileLength = lint.ProjectRuleDef{
	ID:          "PF03",
	Name:        "project.file_length",
	Group:       "project",
	Description: "Keep scripts within the configured number of lines.",
	Severity:    lint.SeverityWarning,
	Check:       checkFileLength,
	Fix:         "Move function definitions into their own include file.",
}

func checkFileLength(ctx lint.ProjectContext) []lint.Diagnostic {
	max := ctx.Config().MaxFileLines
	if max <= 0 {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for _, s := range ctx.Scripts() {
		n := len(s.Lines)
		if n <= max {
			continue
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "PF03",
			Severity:         lint.SeverityWarning,
			Message:          fmt.Sprintf("script is %d lines long (max %d)", n, max),
			FilePath:         s.Path,
			Pos:              token.Position{Line: max + 1, Column: 1},
			EndPos:           token.Position{Line: n, Column: 1},
			DocumentationURL: lint.BuildDocURL("PF03"),
			ImpactScore:      lint.ImpactMedium.Int(),
		})
	}
	return diagnostics
}
