// Package lint provides a unified script and project linting framework
// for Hansl.
//
// # Architecture
//
// The lint package follows a modular architecture with two layers:
//
//  1. Root package (pkg/lint/): shared contracts, interfaces, and the unified registry
//  2. Rules (pkg/lint/rules/): rule implementations grouped by category
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages
// are imported:
//
//	import _ "github.com/hansl-tools/hanslint/pkg/lint/rules"
//
// # Rule Categories
//
// Script rules (per-file):
//   - NM (Naming): identifier case, length, and shadowing
//   - WS (Whitespace): spacing around operators, commas, and keywords
//   - LL (Length): line and function length limits
//   - CM (Comments): comment format and function docstrings
//   - ST (Structure): deprecated constructs and block balance
//
// Project rules (cross-file):
//   - PF (Project files): extensions, headers, and file size
//
// Custom rules written in Starlark register under the CU group at load time.
//
// # Using the Registry
//
// Query all registered rules:
//
//	rules := lint.AllRules()
//	scriptRules := lint.GetAllScriptRules()
//	projectRules := lint.GetAllProjectRules()
//
// Query rules by ID or group:
//
//	rule, ok := lint.GetRuleByID("WS01")
//	group := lint.GetScriptRulesByGroup("whitespace")
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("LL01")
//	config.SetSeverity("NM01", lint.SeverityError)
//	config.SetRuleOptions("LL01", map[string]any{"max-length": 100})
//
// # Creating Custom Rules
//
// Use RuleDef for script rules:
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "custom.my_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
//
// For project rules, implement the ProjectRule interface and call
// RegisterProjectRule.
package lint
