// Package plugin loads custom lint rules written in Starlark. A plugin
// file declares RULE_ID, an optional SEVERITY and DESCRIPTION, and a
// check(script) function that returns a list of findings; a module
// docstring becomes the rule's rationale in listings and generated docs.
// Loaded rules join the registry alongside the built-in rules, so
// configuration, output, and baselines treat them uniformly.
package plugin

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

// maxExecutionSteps bounds one check() call so a runaway plugin cannot
// hang the run.
const maxExecutionSteps = 10_000_000

// Rule is a Starlark-defined lint rule.
type Rule struct {
	id          string
	name        string
	description string
	rationale   string
	severity    lint.Severity
	path        string
	sourceHash  string
	check       starlark.Callable
}

// ID returns the rule's declared RULE_ID.
func (r *Rule) ID() string { return r.id }

// Name returns "plugin.<file base>".
func (r *Rule) Name() string { return r.name }

// Group returns "plugin" for all Starlark rules.
func (r *Rule) Group() string { return "plugin" }

// Description returns the rule's declared DESCRIPTION.
func (r *Rule) Description() string { return r.description }

// DefaultSeverity returns the declared SEVERITY, or warning.
func (r *Rule) DefaultSeverity() lint.Severity { return r.severity }

// ConfigKeys returns nil; plugin rules take no options.
func (r *Rule) ConfigKeys() []string { return nil }

// Rationale returns the module docstring, if the file has one.
func (r *Rule) Rationale() string { return r.rationale }

// BadExample returns "".
func (r *Rule) BadExample() string { return "" }

// GoodExample returns "".
func (r *Rule) GoodExample() string { return "" }

// Fix returns "".
func (r *Rule) Fix() string { return "" }

// Path returns the .star file the rule was loaded from.
func (r *Rule) Path() string { return r.path }

// Fingerprint identifies the rule's ID and source content. Cached lint
// results keyed on it are invalidated when the plugin file changes.
func (r *Rule) Fingerprint() string { return r.id + "@" + r.sourceHash }

// CheckScript runs the plugin's check function against a scanned script.
// A failing plugin reports itself as an error diagnostic rather than
// aborting the run.
func (r *Rule) CheckScript(script *parser.Script, _ map[string]any) []lint.Diagnostic {
	thread := &starlark.Thread{
		Name:  "plugin:" + r.id,
		Print: func(_ *starlark.Thread, _ string) {},
	}
	thread.SetMaxExecutionSteps(maxExecutionSteps)

	result, err := starlark.Call(thread, r.check, starlark.Tuple{scriptValue(script)}, nil)
	if err != nil {
		return []lint.Diagnostic{r.failure(err)}
	}

	diags, err := r.findings(script, result)
	if err != nil {
		return []lint.Diagnostic{r.failure(err)}
	}
	return diags
}

func (r *Rule) failure(err error) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID:   r.id,
		Severity: lint.SeverityError,
		Message:  fmt.Sprintf("plugin rule failed: %v", err),
		Pos:      token.Position{Line: 1, Column: 1},
	}
}

// RegisterAll adds loaded rules to the lint registry.
func RegisterAll(rules []*Rule) {
	for _, r := range rules {
		lint.RegisterScriptRule(r)
	}
}
