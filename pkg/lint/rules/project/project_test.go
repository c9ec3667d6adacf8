package project_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register rules
	"github.com/hansl-tools/hanslint/pkg/parser"
)

type fakeProject struct {
	scripts []*parser.Script
	config  lint.ProjectConfig
}

func (p *fakeProject) Scripts() []*parser.Script  { return p.scripts }
func (p *fakeProject) Root() string               { return "/proj" }
func (p *fakeProject) Config() lint.ProjectConfig { return p.config }

func newProject(config lint.ProjectConfig, files map[string]string) *fakeProject {
	p := &fakeProject{config: config}
	// Sorted for deterministic script order.
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if paths[j] < paths[i] {
				paths[i], paths[j] = paths[j], paths[i]
			}
		}
	}
	for _, path := range paths {
		p.scripts = append(p.scripts, parser.ScanScript(path, files[path]))
	}
	return p
}

func runProjectRule(t *testing.T, ctx lint.ProjectContext, ruleID string) []lint.Diagnostic {
	t.Helper()
	diags := lint.NewAnalyzer(lint.NewConfig()).AnalyzeProject(ctx)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func TestPF01_ScriptExtension(t *testing.T) {
	ctx := newProject(lint.DefaultProjectConfig(), map[string]string{
		"analysis.inp": "# ok\nx = 1\n",
		"helpers.gfn":  "# wrong extension\nx = 1\n",
		"notes.txt":    "# also wrong\nx = 1\n",
	})

	diags := runProjectRule(t, ctx, "PF01")

	require.Len(t, diags, 2)
	assert.Equal(t, "helpers.gfn", diags[0].FilePath)
	assert.Contains(t, diags[0].Message, `".gfn"`)
	assert.Contains(t, diags[0].Message, ".inp")
	assert.Equal(t, "notes.txt", diags[1].FilePath)
}

func TestPF01_CustomExtensions(t *testing.T) {
	config := lint.DefaultProjectConfig()
	config.ScriptExtensions = []string{".inp", ".hansl"}

	ctx := newProject(config, map[string]string{
		"model.hansl": "x = 1\n",
	})

	diags := runProjectRule(t, ctx, "PF01")
	assert.Empty(t, diags)
}

func TestPF02_FileHeader(t *testing.T) {
	ctx := newProject(lint.DefaultProjectConfig(), map[string]string{
		"with_header.inp": "# replication of table 3\nopen data.gdt\n",
		"no_header.inp":   "open data.gdt\nols y 0 x\n",
		"comments_only.inp": "# just notes\n# nothing to run\n",
	})

	diags := runProjectRule(t, ctx, "PF02")

	require.Len(t, diags, 1)
	assert.Equal(t, "no_header.inp", diags[0].FilePath)
	assert.Equal(t, "script has no header comment", diags[0].Message)
	assert.Equal(t, 1, diags[0].Pos.Line)
}

func TestPF02_BlockCommentHeader(t *testing.T) {
	ctx := newProject(lint.DefaultProjectConfig(), map[string]string{
		"block.inp": "/* replication of\n   table 3 */\nopen data.gdt\n",
	})

	diags := runProjectRule(t, ctx, "PF02")
	assert.Empty(t, diags)
}

func TestPF02_Disabled(t *testing.T) {
	config := lint.DefaultProjectConfig()
	config.RequireHeader = false

	ctx := newProject(config, map[string]string{
		"no_header.inp": "open data.gdt\n",
	})

	diags := runProjectRule(t, ctx, "PF02")
	assert.Empty(t, diags)
}

func TestPF03_FileLength(t *testing.T) {
	config := lint.DefaultProjectConfig()
	config.MaxFileLines = 5

	long := "# header\n" + strings.Repeat("x = 1\n", 6)
	ctx := newProject(config, map[string]string{
		"long.inp":  long,
		"short.inp": "# header\nx = 1\n",
	})

	diags := runProjectRule(t, ctx, "PF03")

	require.Len(t, diags, 1)
	assert.Equal(t, "long.inp", diags[0].FilePath)
	assert.Equal(t, "script is 7 lines long (max 5)", diags[0].Message)
	assert.Equal(t, 6, diags[0].Pos.Line, "points at the first excess line")
}

func TestPF03_DefaultLimit(t *testing.T) {
	ctx := newProject(lint.DefaultProjectConfig(), map[string]string{
		"big.inp": "# header\n" + strings.Repeat("x = 1\n", 999),
	})

	diags := runProjectRule(t, ctx, "PF03")
	assert.Empty(t, diags, "1000 lines is at the default limit")
}
