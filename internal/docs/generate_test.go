package docs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

func testRules() []lint.RuleInfo {
	return []lint.RuleInfo{
		{
			ID:              "NM01",
			Name:            "naming.function_name_style",
			Group:           "naming",
			Description:     "Function names use lower snake_case",
			DefaultSeverity: lint.SeverityError,
			ConfigKeys:      []string{"style"},
			Type:            "script",
			Rationale:       "Mixed naming styles make scripts harder to scan.",
			BadExample:      "function void MyFunc()\nend function",
			GoodExample:     "function void my_func()\nend function",
			Fix:             "Rename the function to lower snake_case.",
		},
		{
			ID:              "PF01",
			Name:            "project.file_extension",
			Group:           "project",
			Description:     "Scripts use a recognized extension",
			DefaultSeverity: lint.SeverityInfo,
			Type:            "project",
		},
		{
			ID:              "WS01",
			Name:            "whitespace.operator_spacing",
			Group:           "whitespace",
			Description:     "Binary operators | assignments need spaces",
			DefaultSeverity: lint.SeverityWarning,
			Type:            "script",
		},
	}
}

func writeRule(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

const customRule = `
RULE_ID = "CU01"
SEVERITY = "info"
DESCRIPTION = "Discourage bare print statements"

def check(script):
    return []
`

func TestRuleFileName(t *testing.T) {
	assert.Equal(t, "ws01.md", ruleFileName("WS01"))
	assert.Equal(t, "cu01.md", ruleFileName("CU01"))
}

func TestRuleMarkdown_FullRule(t *testing.T) {
	page := ruleMarkdown(testRules()[0])

	assert.True(t, strings.HasPrefix(page, "---\n"))
	assert.Contains(t, page, "id: NM01\n")
	assert.Contains(t, page, "name: naming.function_name_style\n")
	assert.Contains(t, page, "group: naming\n")
	assert.Contains(t, page, "severity: error\n")
	assert.Contains(t, page, "type: script\n")
	assert.Contains(t, page, "# NM01: naming.function_name_style")
	assert.Contains(t, page, "## Why\n\nMixed naming styles")
	assert.Contains(t, page, "## Bad\n\n```hansl\nfunction void MyFunc()")
	assert.Contains(t, page, "## Good\n\n```hansl\nfunction void my_func()")
	assert.Contains(t, page, "## Fix\n\nRename the function")
	assert.Contains(t, page, "## Options\n\n- `style`")
}

func TestRuleMarkdown_MinimalRule(t *testing.T) {
	page := ruleMarkdown(testRules()[1])

	assert.Contains(t, page, "id: PF01\n")
	assert.Contains(t, page, "type: project\n")
	assert.NotContains(t, page, "## Why")
	assert.NotContains(t, page, "## Bad")
	assert.NotContains(t, page, "## Good")
	assert.NotContains(t, page, "## Fix")
	assert.NotContains(t, page, "## Options")
}

func TestIndexMarkdown(t *testing.T) {
	index := indexMarkdown("Hansl Style Rules", testRules())

	assert.True(t, strings.HasPrefix(index, "# Hansl Style Rules\n"))
	assert.Contains(t, index, "3 rules in 3 groups.")
	assert.Contains(t, index, "## naming")
	assert.Contains(t, index, "## project")
	assert.Contains(t, index, "## whitespace")
	assert.Contains(t, index, "| [NM01](nm01.md) | naming.function_name_style | error |")
}

func TestIndexMarkdown_EscapesTableCells(t *testing.T) {
	index := indexMarkdown("Rules", testRules())

	assert.Contains(t, index, `Binary operators \| assignments need spaces`)
}

func TestGeneratorBuild(t *testing.T) {
	g := &Generator{title: "Hansl Style Rules", rules: testRules()}
	dir := filepath.Join(t.TempDir(), "docs", "rules")

	require.NoError(t, g.Build(dir))

	for _, name := range []string{"nm01.md", "pf01.md", "ws01.md", "index.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	page, err := os.ReadFile(filepath.Join(dir, "ws01.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "id: WS01")

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "# Hansl Style Rules")
}

func TestNewGenerator_ReadsRegistry(t *testing.T) {
	g := NewGenerator("Hansl Style Rules")

	rules := g.Rules()
	require.NotEmpty(t, rules)
	assert.True(t, sort.SliceIsSorted(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID }))

	ids := make(map[string]bool, len(rules))
	for _, info := range rules {
		ids[info.ID] = true
	}
	assert.True(t, ids["WS01"])
	assert.True(t, ids["NM01"])
}

func TestLoadPlugins(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "cu01.star", customRule)

	g := &Generator{title: "Test", rules: testRules()}
	require.NoError(t, g.LoadPlugins(dir))

	rules := g.Rules()
	require.Len(t, rules, 4)

	// Sorted by ID, so the custom rule comes first.
	assert.Equal(t, "CU01", rules[0].ID)
	assert.Equal(t, "plugin", rules[0].Group)
	assert.Equal(t, lint.SeverityInfo, rules[0].DefaultSeverity)
	assert.Equal(t, "script", rules[0].Type)
	assert.Equal(t, "Discourage bare print statements", rules[0].Description)
}

func TestLoadPlugins_MissingDir(t *testing.T) {
	g := &Generator{title: "Test", rules: testRules()}

	require.NoError(t, g.LoadPlugins(filepath.Join(t.TempDir(), "absent")))
	assert.Len(t, g.Rules(), 3)
}

func TestLoadPlugins_BadFile(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "broken.star", "RULE_ID = ")

	g := &Generator{title: "Test", rules: testRules()}
	err := g.LoadPlugins(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.star")
}

func TestLoadPlugins_ReloadReplacesSameID(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "cu01.star", customRule)

	g := &Generator{title: "Test", rules: testRules()}
	require.NoError(t, g.LoadPlugins(dir))
	require.NoError(t, g.LoadPlugins(dir))

	assert.Len(t, g.Rules(), 4)
}
