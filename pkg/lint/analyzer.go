package lint

import (
	"sort"

	"github.com/hansl-tools/hanslint/pkg/parser"
)

// Analyzer runs lint rules against scanned Hansl scripts.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs all registered script rules against the script.
// Diagnostics come back sorted by position so output is deterministic.
func (a *Analyzer) Analyze(script *parser.Script) []Diagnostic {
	if script == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAllScriptRules() {
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		opts := a.config.GetRuleOptions(rule.ID())
		diags := rule.CheckScript(script, opts)

		// Apply severity overrides
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID(), diags[i].Severity)
		}

		diagnostics = append(diagnostics, diags...)
	}

	SortDiagnostics(diagnostics)
	return diagnostics
}

// AnalyzeProject runs all registered project rules against the project.
func (a *Analyzer) AnalyzeProject(ctx ProjectContext) []Diagnostic {
	if ctx == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAllProjectRules() {
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		diags := rule.CheckProject(ctx)
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID(), diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	SortDiagnostics(diagnostics)
	return diagnostics
}

// SortDiagnostics orders diagnostics by file, line, column, then rule ID.
// Script-rule diagnostics carry no file path and sort purely by position.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].FilePath != diags[j].FilePath {
			return diags[i].FilePath < diags[j].FilePath
		}
		if diags[i].Pos.Line != diags[j].Pos.Line {
			return diags[i].Pos.Line < diags[j].Pos.Line
		}
		if diags[i].Pos.Column != diags[j].Pos.Column {
			return diags[i].Pos.Column < diags[j].Pos.Column
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}

// CountBySeverity tallies diagnostics per severity level.
func CountBySeverity(diags []Diagnostic) map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
