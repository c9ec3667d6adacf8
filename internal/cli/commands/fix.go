package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/internal/fixer"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Format string   // Output format: text, markdown, json
	DryRun bool     // Report fixes without writing files
	Rules  []string // Apply fixes only from specific rules
}

// FixOutput is the JSON document emitted by `hanslint fix --format json`.
type FixOutput struct {
	Files        []FixFileResult `json:"files"`
	FilesChanged int             `json:"files_changed"`
	TotalApplied int             `json:"total_applied"`
	TotalSkipped int             `json:"total_skipped"`
	DryRun       bool            `json:"dry_run"`
}

// FixFileResult summarizes the fixes for one script.
type FixFileResult struct {
	Path    string `json:"path"`
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped,omitempty"`
	Changed bool   `json:"changed"`
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Apply safe auto-fixes to Hansl scripts",
		Long: `Rewrite scripts to resolve auto-fixable style problems.

Only mechanical fixes are applied: spacing around operators, trailing
whitespace, comment markers, and similar. Each file is re-linted after
fixing until no fixable findings remain, and written atomically.`,
		Example: `  # Fix the configured scripts directory
  hanslint fix

  # Preview without writing anything
  hanslint fix --dry-run

  # Only apply whitespace fixes
  hanslint fix --rule WS01,WS02,WS05`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing files")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Apply fixes only from specific rules")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *FixOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Custom rules can carry fixes too, so they join the run.
	if _, err := registerPluginRules(cfg); err != nil {
		return err
	}

	lintCfg, err := buildRuleConfig(cfg, nil, opts.Rules)
	if err != nil {
		return err
	}

	files, err := resolveScriptPaths(cfg, args)
	if err != nil {
		return err
	}

	fx := fixer.New(lintCfg, cmdCtx.Logger)
	out := FixOutput{DryRun: opts.DryRun}

	for _, path := range files {
		var outcome *fixer.Outcome
		if opts.DryRun {
			data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from discovery or the CLI arguments
			if err != nil {
				r.Warning(fmt.Sprintf("%s: %v", path, err))
				continue
			}
			_, outcome = fx.FixSource(path, string(data))
		} else {
			outcome, err = fx.FixFile(path)
			if err != nil {
				r.Warning(fmt.Sprintf("%s: %v", path, err))
				continue
			}
		}

		out.TotalApplied += outcome.Applied
		out.TotalSkipped += outcome.Skipped
		if outcome.Changed {
			out.FilesChanged++
		}
		out.Files = append(out.Files, FixFileResult{
			Path:    outcome.Path,
			Applied: outcome.Applied,
			Skipped: outcome.Skipped,
			Changed: outcome.Changed,
		})
	}

	return renderFixResult(r, out)
}

func renderFixResult(r *output.Renderer, out FixOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	for _, f := range out.Files {
		if !f.Changed {
			continue
		}
		note := fmt.Sprintf("%d fixes", f.Applied)
		if f.Skipped > 0 {
			note += fmt.Sprintf(", %d skipped", f.Skipped)
		}
		if out.DryRun {
			note += ", not written"
		}
		r.StatusLine(f.Path, "success", note)
	}

	if out.FilesChanged == 0 {
		r.Success("Nothing to fix")
		return nil
	}

	verb := "Applied"
	if out.DryRun {
		verb = "Would apply"
	}
	r.Println("")
	r.Success(fmt.Sprintf("%s %d fixes in %d files", verb, out.TotalApplied, out.FilesChanged))
	if out.TotalSkipped > 0 {
		r.Warning(fmt.Sprintf("%d overlapping fixes skipped; run fix again or resolve manually", out.TotalSkipped))
	}
	return nil
}
