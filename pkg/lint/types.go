package lint

import (
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string    // Unique identifier, e.g., "WS01"
	Name        string    // Human-readable name, e.g., "whitespace.operator_spacing"
	Group       string    // Category, e.g., "naming", "whitespace", "comments"
	Description string    // Human-readable description
	Severity    Severity  // Default severity
	Check       CheckFunc // The check function
	ConfigKeys  []string  // Configuration keys this rule accepts (for rule-specific options)

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Hansl showing the anti-pattern
	GoodExample string // Hansl showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CheckFunc analyzes a scanned script and returns diagnostics.
// The opts parameter contains rule-specific options from configuration.
type CheckFunc func(script *parser.Script, opts map[string]any) []Diagnostic

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	FilePath string         // Set by project rules; script rules leave it empty
	Pos      token.Position
	EndPos   token.Position // Optional: end of the problematic range
	Fixes    []Fix          // Optional: suggested fixes

	// Remediation metadata
	DocumentationURL string        // URL to rule documentation
	ImpactScore      int           // 0-100, used for health score weighting
	AutoFixable      bool          // true if Fixes can be auto-applied
	RelatedInfo      []RelatedInfo // Additional locations/context
}

// RelatedInfo provides additional context for a diagnostic.
type RelatedInfo struct {
	FilePath string
	Pos      token.Position
	Message  string
}

// Fix represents a suggested code fix.
type Fix struct {
	Description string
	TextEdits   []TextEdit
}

// TextEdit represents a text replacement.
type TextEdit struct {
	Pos     token.Position
	EndPos  token.Position
	NewText string
}

// Rule is the base interface all lint rules implement.
// This provides a unified interface for both script-level and project-level rules.
type Rule interface {
	// ID returns the unique identifier, e.g., "NM01" or "PF01"
	ID() string

	// Name returns the human-readable name, e.g., "naming.function_name_style"
	Name() string

	// Group returns the category, e.g., "naming", "whitespace", "project"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Documentation methods for richer rule documentation
	Rationale() string   // Why this rule exists, what problems it prevents
	BadExample() string  // Hansl showing the anti-pattern
	GoodExample() string // Hansl showing the correct pattern
	Fix() string         // How to fix violations (when not obvious)
}

// ScriptRule analyzes individual Hansl scripts.
type ScriptRule interface {
	Rule

	// CheckScript analyzes a scanned script and returns diagnostics.
	// The opts parameter contains rule-specific options from configuration.
	CheckScript(script *parser.Script, opts map[string]any) []Diagnostic
}

// ProjectRule analyzes project-level concerns.
// Implemented by rules that look across all scripts in a project.
type ProjectRule interface {
	Rule

	// CheckProject analyzes the project context and returns diagnostics.
	CheckProject(ctx ProjectContext) []Diagnostic
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`
	Type            string   `json:"type"` // "script" or "project"

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	info := RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
		Fix:             r.Fix(),
	}

	if _, ok := r.(ScriptRule); ok {
		info.Type = "script"
	} else if _, ok := r.(ProjectRule); ok {
		info.Type = "project"
	}

	return info
}

// wrappedRuleDef wraps a RuleDef to implement ScriptRule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the ScriptRule interface.
func WrapRuleDef(def RuleDef) ScriptRule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                { return w.def.ID }
func (w *wrappedRuleDef) Name() string              { return w.def.Name }
func (w *wrappedRuleDef) Group() string             { return w.def.Group }
func (w *wrappedRuleDef) Description() string       { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }

// Documentation methods
func (w *wrappedRuleDef) Rationale() string   { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string  { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string         { return w.def.Fix }

func (w *wrappedRuleDef) CheckScript(script *parser.Script, opts map[string]any) []Diagnostic {
	return w.def.Check(script, opts)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}

// ProjectRuleDef is a data-driven project rule definition.
type ProjectRuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    Severity
	Check       ProjectCheckFunc
	ConfigKeys  []string

	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// ProjectCheckFunc analyzes a project and returns diagnostics.
type ProjectCheckFunc func(ctx ProjectContext) []Diagnostic

// RegisterProject wraps a ProjectRuleDef and adds it to the unified registry.
// Call this from init() functions in project rule packages.
func RegisterProject(def ProjectRuleDef) {
	RegisterProjectRule(&wrappedProjectRuleDef{def: def})
}

// wrappedProjectRuleDef wraps a ProjectRuleDef to implement ProjectRule.
type wrappedProjectRuleDef struct {
	def ProjectRuleDef
}

func (w *wrappedProjectRuleDef) ID() string                { return w.def.ID }
func (w *wrappedProjectRuleDef) Name() string              { return w.def.Name }
func (w *wrappedProjectRuleDef) Group() string             { return w.def.Group }
func (w *wrappedProjectRuleDef) Description() string       { return w.def.Description }
func (w *wrappedProjectRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedProjectRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }
func (w *wrappedProjectRuleDef) Rationale() string         { return w.def.Rationale }
func (w *wrappedProjectRuleDef) BadExample() string        { return w.def.BadExample }
func (w *wrappedProjectRuleDef) GoodExample() string       { return w.def.GoodExample }
func (w *wrappedProjectRuleDef) Fix() string               { return w.def.Fix }

func (w *wrappedProjectRuleDef) CheckProject(ctx ProjectContext) []Diagnostic {
	return w.def.Check(ctx)
}
