package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hansl-tools/hanslint/internal/baseline"
	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/internal/plugin"
	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(version string) *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a comprehensive project health check",
		Long: `Analyze your Hansl project for style problems and setup issues.

The doctor command checks the environment, runs every lint rule, and
provides a comprehensive report including:
- Environment (config file, scripts directory, cache, custom rules)
- Project summary (scripts, functions, lines)
- Health checks grouped by rule group
- Health score (0-100)
- Actionable recommendations

The baseline is ignored here; doctor always reports the full current
state of the project.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  hanslint doctor

  # Output as JSON
  hanslint doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts, version)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	Environment     []EnvCheck     `json:"environment"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Scripts     int `json:"scripts"`
	Functions   int `json:"functions"`
	TotalLines  int `json:"total_lines"`
	CustomRules int `json:"custom_rules"`
}

// EnvCheck represents a single environment check result.
type EnvCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass", "warn", "error"
	Detail string `json:"detail,omitempty"`
}

// HealthCheck represents a single rule's result over the whole project.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions, version string) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	var env []EnvCheck

	// Config file
	if used := config.GetConfigFileUsed(); used != "" {
		env = append(env, EnvCheck{Name: "Config file", Status: "pass", Detail: used})
	} else {
		env = append(env, EnvCheck{Name: "Config file", Status: "warn", Detail: "no hanslint.yaml found; using defaults"})
	}

	// Scripts directory
	projectCfg := cfg.ProjectRuleConfig()
	paths, derr := runner.Discover(cfg.ScriptsDir, projectCfg.ScriptExtensions)
	switch {
	case derr != nil:
		env = append(env, EnvCheck{Name: "Scripts directory", Status: "error", Detail: derr.Error()})
	case len(paths) == 0:
		env = append(env, EnvCheck{Name: "Scripts directory", Status: "warn", Detail: fmt.Sprintf("no scripts found under %s", cfg.ScriptsDir)})
	default:
		env = append(env, EnvCheck{Name: "Scripts directory", Status: "pass", Detail: fmt.Sprintf("%d scripts under %s", len(paths), cfg.ScriptsDir)})
	}

	// State database
	store, serr := openStore(cfg, logger)
	if serr != nil {
		env = append(env, EnvCheck{Name: "State database", Status: "warn", Detail: serr.Error()})
	} else {
		env = append(env, EnvCheck{Name: "State database", Status: "pass", Detail: cfg.StatePath})
		defer func() { _ = store.Close() }()
	}

	// Custom rules
	customRules := 0
	pluginRules, perr := plugin.NewLoader(cfg.PluginsDir).Load()
	if perr != nil {
		env = append(env, EnvCheck{Name: "Custom rules", Status: "error", Detail: perr.Error()})
	} else {
		customRules = len(pluginRules)
		plugin.RegisterAll(pluginRules)
		detail := "none"
		if customRules > 0 {
			detail = fmt.Sprintf("%d rules in %s", customRules, cfg.PluginsDir)
		}
		env = append(env, EnvCheck{Name: "Custom rules", Status: "pass", Detail: detail})
	}

	// Baseline
	basePath := baselinePath(cfg)
	if _, err := os.Stat(basePath); err == nil {
		if b, err := baseline.Load(basePath); err != nil {
			env = append(env, EnvCheck{Name: "Baseline", Status: "error", Detail: err.Error()})
		} else {
			env = append(env, EnvCheck{Name: "Baseline", Status: "pass", Detail: fmt.Sprintf("%d entries in %s", b.Len(), basePath)})
		}
	} else {
		env = append(env, EnvCheck{Name: "Baseline", Status: "pass", Detail: "none"})
	}

	lintCfg, err := cfg.RuleConfig()
	if err != nil {
		return err
	}

	run := runner.New(runner.Options{
		Root:          cfg.ProjectRoot,
		ScriptsDir:    cfg.ScriptsDir,
		Config:        lintCfg,
		ProjectConfig: projectCfg,
		Store:         store,
		Version:       version,
		Logger:        logger,
	})

	result, err := run.Run(cmd.Context())
	if err != nil {
		return err
	}

	doctorOutput := buildDoctorOutput(result, env, customRules)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(result *runner.Result, env []EnvCheck, customRules int) *DoctorOutput {
	summary := ProjectSummary{
		Scripts:     len(result.Files),
		CustomRules: customRules,
	}

	// Group diagnostics by rule
	diagsByRule := make(map[string][]string)
	total := 0
	for _, f := range result.Files {
		if f.Script != nil {
			summary.Functions += len(f.Script.Functions)
			summary.TotalLines += len(f.Script.Lines)
		}
		for _, d := range f.Diagnostics {
			diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], fmt.Sprintf("%s:%d %s", f.Path, d.Pos.Line, d.Message))
			total++
		}
	}

	// Build health checks from all registered rules
	rules := lint.AllRules()
	healthChecks := make([]HealthCheck, 0, len(rules))

	for _, rule := range rules {
		details := diagsByRule[rule.ID]
		status := "pass"
		if len(details) > 0 {
			if rule.DefaultSeverity == lint.SeverityError {
				status = "error"
			} else {
				status = "warn"
			}
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	score := calculateHealthScore(healthChecks, summary.Scripts)
	recommendations := generateRecommendations(healthChecks)

	return &DoctorOutput{
		Summary:         summary,
		Environment:     env,
		HealthChecks:    healthChecks,
		Score:           score,
		Recommendations: recommendations,
		IssueCount:      total,
	}
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Each issue reduces points
// - More scripts means issues have less individual impact
func calculateHealthScore(checks []HealthCheck, scriptCount int) int {
	if len(checks) == 0 {
		return 100
	}

	// Base score starts at 100
	score := 100.0

	// Calculate penalty per issue
	// With more scripts, each individual issue has less impact
	basePenalty := 5.0
	if scriptCount > 10 {
		basePenalty = 3.0
	}
	if scriptCount > 50 {
		basePenalty = 2.0
	}
	if scriptCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "NM01", "NM02":
		return "Adopt lower_snake_case names, starting with the most-edited scripts"
	case "NM03":
		return "Shorten identifiers; gretl truncates names past 31 characters"
	case "NM04":
		return "Rename identifiers that shadow built-ins to avoid silent clashes"
	case "WS01", "WS02", "WS03", "WS05", "WS06", "CM02":
		return "Run 'hanslint fix' to clean up spacing mechanically"
	case "WS04":
		return "Settle on one indentation style in hanslint.yaml and re-indent"
	case "LL01":
		return "Split long lines with a trailing backslash"
	case "LL02":
		return "Break long functions into smaller helpers"
	case "CM01":
		return "Add a docstring comment to each undocumented function"
	case "CM03":
		return "Use # for single-line comments; keep /* */ for real blocks"
	case "ST01":
		return "Replace genr with direct assignment or a typed declaration"
	case "ST02":
		return "Declare new variables with explicit type keywords"
	case "ST03":
		return "Replace @-substitution with sprintf() and string variables"
	case "ST04":
		return "Close every block; unbalanced blocks abort gretl batch runs"
	case "PF02":
		return "Start each script with a short header comment"
	case "PF03":
		return "Split oversized scripts into focused ones"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("Hansl Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Environment
	r.Println(styles.Header2.Render("Environment"))
	for _, check := range out.Environment {
		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}
		line := fmt.Sprintf("   %s %s", icon, check.Name)
		if check.Detail != "" {
			line += ": " + styles.Muted.Render(check.Detail)
		}
		r.Println(line)
	}
	r.Println("")

	// Project Summary
	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Scripts: %d | Functions: %d | Lines: %d | Custom rules: %d\n",
		out.Summary.Scripts, out.Summary.Functions, out.Summary.TotalLines, out.Summary.CustomRules)
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Hansl Project Health Report")
	r.Println("")

	// Environment
	r.Println("## Environment")
	r.Println("")
	for _, check := range out.Environment {
		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}
		r.Printf("- **[%s]** %s", status, check.Name)
		if check.Detail != "" {
			r.Printf(": %s", check.Detail)
		}
		r.Println("")
	}
	r.Println("")

	// Project Summary
	r.Println("## Project Summary")
	r.Println("")
	r.Printf("- **Scripts**: %d\n", out.Summary.Scripts)
	r.Printf("- **Functions**: %d\n", out.Summary.Functions)
	r.Printf("- **Lines**: %d\n", out.Summary.TotalLines)
	r.Printf("- **Custom rules**: %d\n", out.Summary.CustomRules)
	r.Println("")

	// Health Checks
	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Health Score
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
