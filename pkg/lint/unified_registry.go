package lint

import (
	"sort"
	"sync"
)

// unifiedRegistry stores all rules (both script and project) for unified access.
var unifiedRegistry = &UnifiedRegistry{
	scriptRules:  make(map[string]ScriptRule),
	projectRules: make(map[string]ProjectRule),
}

// UnifiedRegistry provides unified access to all rules.
type UnifiedRegistry struct {
	mu           sync.RWMutex
	scriptRules  map[string]ScriptRule
	projectRules map[string]ProjectRule
}

// RegisterScriptRule adds a script rule to the unified registry.
func RegisterScriptRule(rule ScriptRule) {
	unifiedRegistry.mu.Lock()
	defer unifiedRegistry.mu.Unlock()
	unifiedRegistry.scriptRules[rule.ID()] = rule
}

// RegisterProjectRule adds a project rule to the unified registry.
func RegisterProjectRule(rule ProjectRule) {
	unifiedRegistry.mu.Lock()
	defer unifiedRegistry.mu.Unlock()
	unifiedRegistry.projectRules[rule.ID()] = rule
}

// GetAllScriptRules returns all registered script rules.
func GetAllScriptRules() []ScriptRule {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	rules := make([]ScriptRule, 0, len(unifiedRegistry.scriptRules))
	for _, rule := range unifiedRegistry.scriptRules {
		rules = append(rules, rule)
	}
	return rules
}

// GetAllProjectRules returns all registered project rules.
func GetAllProjectRules() []ProjectRule {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	rules := make([]ProjectRule, 0, len(unifiedRegistry.projectRules))
	for _, rule := range unifiedRegistry.projectRules {
		rules = append(rules, rule)
	}
	return rules
}

// GetScriptRuleByID returns a script rule by its ID.
func GetScriptRuleByID(id string) (ScriptRule, bool) {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()
	rule, ok := unifiedRegistry.scriptRules[id]
	return rule, ok
}

// GetProjectRuleByID returns a project rule by its ID.
func GetProjectRuleByID(id string) (ProjectRule, bool) {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()
	rule, ok := unifiedRegistry.projectRules[id]
	return rule, ok
}

// GetRuleByID returns any rule by its ID, checking both registries.
func GetRuleByID(id string) (Rule, bool) {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	if rule, ok := unifiedRegistry.scriptRules[id]; ok {
		return rule, true
	}
	if rule, ok := unifiedRegistry.projectRules[id]; ok {
		return rule, true
	}
	return nil, false
}

// AllRules returns metadata for all registered rules, sorted by ID.
func AllRules() []RuleInfo {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	rules := make([]RuleInfo, 0, len(unifiedRegistry.scriptRules)+len(unifiedRegistry.projectRules))
	for _, rule := range unifiedRegistry.scriptRules {
		rules = append(rules, GetRuleInfo(rule))
	}
	for _, rule := range unifiedRegistry.projectRules {
		rules = append(rules, GetRuleInfo(rule))
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetScriptRulesByGroup returns script rules in a specific group.
func GetScriptRulesByGroup(group string) []ScriptRule {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	var rules []ScriptRule
	for _, rule := range unifiedRegistry.scriptRules {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// GetProjectRulesByGroup returns project rules in a specific group.
func GetProjectRulesByGroup(group string) []ProjectRule {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	var rules []ProjectRule
	for _, rule := range unifiedRegistry.projectRules {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Groups returns the distinct rule groups, sorted.
func Groups() []string {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()

	seen := make(map[string]bool)
	for _, rule := range unifiedRegistry.scriptRules {
		seen[rule.Group()] = true
	}
	for _, rule := range unifiedRegistry.projectRules {
		seen[rule.Group()] = true
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// CountScriptRules returns the number of registered script rules.
func CountScriptRules() int {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()
	return len(unifiedRegistry.scriptRules)
}

// CountProjectRules returns the number of registered project rules.
func CountProjectRules() int {
	unifiedRegistry.mu.RLock()
	defer unifiedRegistry.mu.RUnlock()
	return len(unifiedRegistry.projectRules)
}

// ClearUnified removes all rules from the unified registry. Used for testing.
func ClearUnified() {
	unifiedRegistry.mu.Lock()
	defer unifiedRegistry.mu.Unlock()
	unifiedRegistry.scriptRules = make(map[string]ScriptRule)
	unifiedRegistry.projectRules = make(map[string]ProjectRule)
}
