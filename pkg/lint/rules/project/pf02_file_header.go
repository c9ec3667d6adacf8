package project

import (
	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func init() {
	lint.RegisterProject(FileHeader)
}

// FileHeader wants each script to open with a comment saying what the
// script is for. Files without code are left alone.
var FileHeader = lint.ProjectRuleDef{
	ID:          "PF02",
	Name:        "project.file_header",
	Group:       "project",
	Description: "Scripts open with a header comment.",
	Severity:    lint.SeverityInfo,
	Check:       checkFileHeader,
	GoodExample: "# replicate table 3 of Smith (2019)\n# data: penn_world.gdt\n\nopen penn_world.gdt",
}

func checkFileHeader(ctx lint.ProjectContext) []lint.Diagnostic {
	if !ctx.Config().RequireHeader {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for _, s := range ctx.Scripts() {
		firstCode := 0
		for _, t := range s.Tokens {
			if t.Type == token.NEWLINE || t.Type == token.EOF {
				continue
			}
			firstCode = t.Pos.Line
			break
		}
		if firstCode == 0 {
			continue
		}

		hasHeader := false
		for _, c := range s.Comments {
			if c.Span.Start.Line < firstCode {
				hasHeader = true
				break
			}
		}
		if hasHeader {
			continue
		}

		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:           "PF02",
			Severity:         lint.SeverityInfo,
			Message:          "script has no header comment",
			FilePath:         s.Path,
			Pos:              token.Position{Line: 1, Column: 1},
			EndPos:           token.Position{Line: 1, Column: 1},
			DocumentationURL: lint.BuildDocURL("PF02"),
			ImpactScore:      lint.ImpactLow.Int(),
		})
	}
	return diagnostics
}
