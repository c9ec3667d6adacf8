package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/baseline"
	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

// LintOptions holds options for the lint command. The baseline file
// itself comes from the persistent --baseline flag or the config file.
type LintOptions struct {
	Format        string   // Output format: text, markdown, json
	Disable       []string // Rule IDs to disable
	Severity      string   // Minimum severity to report
	FailOn        string   // Minimum severity for a non-zero exit
	Rules         []string // Run only specific rules
	NoCache       bool     // Bypass the result cache
	WriteBaseline bool     // Record current findings as the baseline
	SkipProject   bool     // Skip project-level rules
}

// NewLintCommand creates the lint command.
func NewLintCommand(version string) *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check Hansl scripts against the style rules",
		Long: `Analyze Hansl scripts for style problems.

Runs the configured style rules against your scripts and reports any
violations found. Rules can be configured in hanslint.yaml. Results are
cached per file, so unchanged scripts are not re-analyzed.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the configured scripts directory
  hanslint lint

  # Lint specific files or directories
  hanslint lint scripts/estimate.inp models/

  # Output as JSON
  hanslint lint --format json

  # Disable specific rules
  hanslint lint --disable WS03,CM01

  # Only report errors, and only fail the build on errors
  hanslint lint --severity error --fail-on error

  # Accept the current findings and fail only on new ones
  hanslint lint --write-baseline
  hanslint lint`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts, version)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity to report: error, warning, info, hint")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "warning", "Minimum severity that causes exit code 1")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Re-analyze every file, ignoring cached results")
	cmd.Flags().BoolVar(&opts.WriteBaseline, "write-baseline", false, "Record current findings as the accepted baseline")
	cmd.Flags().BoolVar(&opts.SkipProject, "skip-project", false, "Skip project-level rules")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions, version string) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	// Custom rules must be registered before the runner is built so
	// they participate in the rule-set fingerprint.
	pluginCount, err := registerPluginRules(cfg)
	if err != nil {
		return err
	}
	if pluginCount > 0 {
		logger.Debug("loaded custom rules", "count", pluginCount)
	}

	lintCfg, err := buildLintConfig(cfg, opts)
	if err != nil {
		return err
	}

	// The baseline only filters normal runs. When writing one, every
	// current finding must be visible so it can be recorded.
	basePath := baselinePath(cfg)
	var base *baseline.Baseline
	if !opts.WriteBaseline && basePath != "" {
		if _, statErr := os.Stat(basePath); statErr == nil {
			base, err = baseline.Load(basePath)
			if err != nil {
				return fmt.Errorf("failed to load baseline: %w", err)
			}
			logger.Debug("loaded baseline", "path", basePath, "findings", base.Len())
		}
	}

	var store state.Store
	if !opts.NoCache {
		s, err := openStore(cfg, logger)
		if err != nil {
			// A broken cache never blocks linting.
			logger.Warn("state store unavailable", "error", err)
		} else {
			store = s
			defer func() { _ = store.Close() }()
		}
	}

	run := runner.New(runner.Options{
		Root:          cfg.ProjectRoot,
		ScriptsDir:    cfg.ScriptsDir,
		Config:        lintCfg,
		ProjectConfig: cfg.ProjectRuleConfig(),
		Store:         store,
		Baseline:      base,
		Version:       version,
		Logger:        logger,
	})

	var result *runner.Result
	if len(args) > 0 {
		files, err := resolveScriptPaths(cfg, args)
		if err != nil {
			return err
		}
		result, err = run.LintFiles(cmd.Context(), files)
		if err != nil {
			return err
		}
	} else {
		result, err = run.Run(cmd.Context())
		if err != nil {
			return err
		}
	}

	if opts.WriteBaseline {
		return writeBaseline(r, result, basePath)
	}

	for _, fe := range result.Errors {
		r.Warning(fmt.Sprintf("%s: %s", fe.Path, fe.Message))
	}

	threshold := parseSeverityThreshold(opts.Severity)
	renderLintResult(r, result, threshold)

	if result.Stale > 0 {
		r.Warning(fmt.Sprintf("%d baseline entries matched nothing; consider re-running with --write-baseline", result.Stale))
	}

	failOn := parseSeverityThreshold(opts.FailOn)
	for _, f := range result.Files {
		for _, d := range f.Diagnostics {
			if d.Severity <= failOn {
				return ErrIssuesFound
			}
		}
	}
	return nil
}

// buildLintConfig merges project config with CLI overrides. The
// --skip-project flag disables every project-level rule.
func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	rc, err := buildRuleConfig(cfg, opts.Disable, opts.Rules)
	if err != nil {
		return nil, err
	}
	if opts.SkipProject {
		for _, info := range lint.AllRules() {
			if info.Type == "project" {
				rc.Disable(info.ID)
			}
		}
	}
	return rc, nil
}

// baselinePath picks the baseline file: the configured path (which the
// persistent --baseline flag overrides) or a default-named file in the
// project root.
func baselinePath(cfg *config.Config) string {
	if cfg.BaselinePath != "" {
		return cfg.BaselinePath
	}
	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	return filepath.Join(root, defaultBaselineName)
}

func writeBaseline(r *output.Renderer, result *runner.Result, path string) error {
	nb := baseline.New()
	for _, f := range result.Files {
		for _, d := range f.Diagnostics {
			nb.Add(f.Path, f.Script, d)
		}
	}
	if err := nb.Save(path); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	r.Success(fmt.Sprintf("Baseline written to %s (%d findings)", path, nb.Len()))
	return nil
}

// renderLintResult writes the run's findings at or above threshold.
func renderLintResult(r *output.Renderer, result *runner.Result, threshold lint.Severity) {
	summary := output.LintSummary{FilesAnalyzed: len(result.Files)}
	var shown []*runner.FileReport
	for _, f := range result.Files {
		var diags []lint.Diagnostic
		for _, d := range f.Diagnostics {
			if d.Severity > threshold {
				continue
			}
			diags = append(diags, d)
			summary.TotalIssues++
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
		if len(diags) > 0 {
			shown = append(shown, &runner.FileReport{Path: f.Path, Diagnostics: diags})
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		doc := output.LintOutput{Summary: summary}
		for _, f := range shown {
			fileResult := output.LintFileResult{Path: f.Path}
			for _, d := range f.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.LintDiagnostic{
					RuleID:   d.RuleID,
					Severity: d.Severity.String(),
					Message:  d.Message,
					Line:     d.Pos.Line,
					Column:   d.Pos.Column,
					Fixable:  d.AutoFixable,
				})
			}
			doc.Files = append(doc.Files, fileResult)
		}
		_ = r.JSON(doc)
		return
	}

	if len(shown) == 0 {
		r.Success("No lint issues found")
		if n := result.TotalSuppressed(); n > 0 {
			r.Printf("%d findings suppressed by the baseline\n", n)
		}
		return
	}

	for _, f := range shown {
		r.Println(r.Styles().ScriptPath.Render(f.Path))
		for _, d := range f.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			if d.Pos.Line == 0 {
				loc = "-"
			}
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-5s", loc)),
				severityStyle(r, d.Severity),
				r.Styles().Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), len(shown))

	if n := result.TotalSuppressed(); n > 0 {
		r.Printf("%d findings suppressed by the baseline\n", n)
	}
	cached := 0
	for _, f := range result.Files {
		if f.FromCache {
			cached++
		}
	}
	if cached > 0 {
		r.Printf("%d files served from cache\n", cached)
	}
}
