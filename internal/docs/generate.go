// Package docs renders the rule reference. Build writes one markdown
// page per rule plus an index, and DevServer serves a live-reloading
// HTML preview of the same catalog for rule authors.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hansl-tools/hanslint/internal/plugin"
	"github.com/hansl-tools/hanslint/pkg/lint"
)

// Generator renders rule documentation from the registry.
type Generator struct {
	title string
	rules []lint.RuleInfo
}

// NewGenerator creates a generator over the registered rules.
func NewGenerator(title string) *Generator {
	return &Generator{
		title: title,
		rules: lint.AllRules(),
	}
}

// Rules returns the documented rules in ID order.
func (g *Generator) Rules() []lint.RuleInfo {
	return g.rules
}

// LoadPlugins merges custom rules from dir into the catalog. The rules
// are read fresh from disk and never registered, so repeated calls pick
// up edits.
func (g *Generator) LoadPlugins(dir string) error {
	loaded, err := plugin.NewLoader(dir).Load()
	if err != nil {
		return fmt.Errorf("failed to load custom rules: %w", err)
	}
	if len(loaded) == 0 {
		return nil
	}

	index := make(map[string]int, len(g.rules))
	for i, info := range g.rules {
		index[info.ID] = i
	}
	for _, rule := range loaded {
		info := lint.GetRuleInfo(rule)
		if i, ok := index[info.ID]; ok {
			g.rules[i] = info
		} else {
			g.rules = append(g.rules, info)
		}
	}
	sort.Slice(g.rules, func(i, j int) bool { return g.rules[i].ID < g.rules[j].ID })

	return nil
}

// Build writes one markdown page per rule plus index.md to outputDir.
func (g *Generator) Build(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, info := range g.rules {
		path := filepath.Join(outputDir, ruleFileName(info.ID))
		if err := os.WriteFile(path, []byte(ruleMarkdown(info)), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	path := filepath.Join(outputDir, "index.md")
	if err := os.WriteFile(path, []byte(indexMarkdown(g.title, g.rules)), 0600); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	return nil
}

// ruleFileName returns the page name for a rule, e.g. "ws01.md".
func ruleFileName(id string) string {
	return strings.ToLower(id) + ".md"
}

// ruleMarkdown renders one rule page. Sections without content are
// omitted rather than left as empty headings.
func ruleMarkdown(info lint.RuleInfo) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %s\n", info.ID)
	fmt.Fprintf(&b, "name: %s\n", info.Name)
	fmt.Fprintf(&b, "group: %s\n", info.Group)
	fmt.Fprintf(&b, "severity: %s\n", info.DefaultSeverity)
	fmt.Fprintf(&b, "type: %s\n", info.Type)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s: %s\n", info.ID, info.Name)
	if info.Description != "" {
		b.WriteString("\n" + info.Description + "\n")
	}

	if info.Rationale != "" {
		b.WriteString("\n## Why\n\n")
		b.WriteString(info.Rationale + "\n")
	}

	if info.BadExample != "" {
		b.WriteString("\n## Bad\n\n")
		writeCodeBlock(&b, info.BadExample)
	}

	if info.GoodExample != "" {
		b.WriteString("\n## Good\n\n")
		writeCodeBlock(&b, info.GoodExample)
	}

	if info.Fix != "" {
		b.WriteString("\n## Fix\n\n")
		b.WriteString(info.Fix + "\n")
	}

	if len(info.ConfigKeys) > 0 {
		b.WriteString("\n## Options\n\n")
		for _, key := range info.ConfigKeys {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
	}

	return b.String()
}

func writeCodeBlock(b *strings.Builder, code string) {
	b.WriteString("```hansl\n")
	b.WriteString(strings.TrimRight(code, "\n"))
	b.WriteString("\n```\n")
}

// indexMarkdown renders the catalog index, one table per group.
func indexMarkdown(title string, rules []lint.RuleInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)

	byGroup := make(map[string][]lint.RuleInfo)
	var groups []string
	for _, info := range rules {
		if _, ok := byGroup[info.Group]; !ok {
			groups = append(groups, info.Group)
		}
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}
	sort.Strings(groups)

	fmt.Fprintf(&b, "%d rules in %d groups.\n", len(rules), len(groups))

	for _, group := range groups {
		fmt.Fprintf(&b, "\n## %s\n\n", group)
		b.WriteString("| ID | Name | Severity | Description |\n")
		b.WriteString("|----|------|----------|-------------|\n")
		for _, info := range byGroup[group] {
			fmt.Fprintf(&b, "| [%s](%s) | %s | %s | %s |\n",
				info.ID, ruleFileName(info.ID), info.Name, info.DefaultSeverity, tableCell(info.Description))
		}
	}

	return b.String()
}

// tableCell flattens a description into a single markdown table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
