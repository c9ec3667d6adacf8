package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/internal/cli/testutil"
	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		cfg, err := buildLintConfig(&config.Config{}, &LintOptions{})
		require.NoError(t, err)

		// No rules should be disabled
		assert.False(t, cfg.IsDisabled("NM01"))
	})

	t.Run("disable rules", func(t *testing.T) {
		opts := &LintOptions{
			Disable: []string{"NM01", "ST01"},
		}
		cfg, err := buildLintConfig(&config.Config{}, opts)
		require.NoError(t, err)

		assert.True(t, cfg.IsDisabled("NM01"))
		assert.True(t, cfg.IsDisabled("ST01"))
		assert.False(t, cfg.IsDisabled("NM02"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		opts := &LintOptions{
			Rules: []string{"NM01", "NM02"},
		}
		cfg, err := buildLintConfig(&config.Config{}, opts)
		require.NoError(t, err)

		assert.False(t, cfg.IsDisabled("NM01"))
		assert.False(t, cfg.IsDisabled("NM02"))
		// Every other registered rule should be disabled
		for _, info := range lint.AllRules() {
			if info.ID != "NM01" && info.ID != "NM02" {
				assert.True(t, cfg.IsDisabled(info.ID), "rule %q should be disabled", info.ID)
			}
		}
	})

	t.Run("skip project rules", func(t *testing.T) {
		opts := &LintOptions{SkipProject: true}
		cfg, err := buildLintConfig(&config.Config{}, opts)
		require.NoError(t, err)

		assert.True(t, cfg.IsDisabled("PF01"))
		assert.True(t, cfg.IsDisabled("PF02"))
		assert.False(t, cfg.IsDisabled("NM01"))
	})

	t.Run("config file disabled rules", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"NM01", "ST01"},
			},
		}
		cfg, err := buildLintConfig(projectCfg, &LintOptions{})
		require.NoError(t, err)

		assert.True(t, cfg.IsDisabled("NM01"))
		assert.True(t, cfg.IsDisabled("ST01"))
		assert.False(t, cfg.IsDisabled("NM02"))
	})

	t.Run("config file severity overrides", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Severity: map[string]string{
					"NM01": "error",
					"ST01": "hint",
				},
			},
		}
		cfg, err := buildLintConfig(projectCfg, &LintOptions{})
		require.NoError(t, err)

		assert.Equal(t, lint.SeverityError, cfg.GetSeverity("NM01", lint.SeverityWarning))
		assert.Equal(t, lint.SeverityHint, cfg.GetSeverity("ST01", lint.SeverityWarning))
		// Rule without override should return the default
		assert.Equal(t, lint.SeverityWarning, cfg.GetSeverity("NM02", lint.SeverityWarning))
	})

	t.Run("config file rule options", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Rules: map[string]map[string]any{
					"LL01": {"max-length": 100},
				},
			},
		}
		cfg, err := buildLintConfig(projectCfg, &LintOptions{})
		require.NoError(t, err)

		opts := cfg.GetRuleOptions("LL01")
		require.NotNil(t, opts)
		assert.Equal(t, 100, opts["max-length"])
	})

	t.Run("CLI adds to config file", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{"NM01"},
			},
		}
		opts := &LintOptions{
			Disable: []string{"NM02"},
		}
		cfg, err := buildLintConfig(projectCfg, opts)
		require.NoError(t, err)

		assert.True(t, cfg.IsDisabled("NM01"))
		assert.True(t, cfg.IsDisabled("NM02"))
	})

	t.Run("bad severity in config file", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Severity: map[string]string{"NM01": "fatal"},
			},
		}
		_, err := buildLintConfig(projectCfg, &LintOptions{})
		assert.Error(t, err)
	})
}

func TestBaselinePath(t *testing.T) {
	t.Run("configured path wins", func(t *testing.T) {
		cfg := &config.Config{
			BaselinePath: "/tmp/accepted.yaml",
			ProjectRoot:  "/proj",
		}
		assert.Equal(t, "/tmp/accepted.yaml", baselinePath(cfg))
	})

	t.Run("default under project root", func(t *testing.T) {
		cfg := &config.Config{ProjectRoot: "/proj"}
		assert.Equal(t, filepath.Join("/proj", defaultBaselineName), baselinePath(cfg))
	})

	t.Run("no root falls back to cwd", func(t *testing.T) {
		cfg := &config.Config{}
		assert.Equal(t, defaultBaselineName, baselinePath(cfg))
	})
}

func makeResult() *runner.Result {
	return &runner.Result{
		Files: []*runner.FileReport{
			{
				Path: "scripts/estimate.inp",
				Diagnostics: []lint.Diagnostic{
					{RuleID: "ST04", Severity: lint.SeverityError, Message: "unbalanced block", Pos: token.Position{Line: 3, Column: 1}},
					{RuleID: "NM02", Severity: lint.SeverityWarning, Message: "variable name", Pos: token.Position{Line: 5, Column: 8}},
					{RuleID: "WS05", Severity: lint.SeverityHint, Message: "blank lines", Pos: token.Position{Line: 9, Column: 1}},
				},
			},
		},
	}
}

func TestRenderLintResult(t *testing.T) {
	t.Run("shows all severities at hint threshold", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		renderLintResult(tr.Renderer, makeResult(), lint.SeverityHint)

		out := tr.Output()
		assert.Contains(t, out, "scripts/estimate.inp")
		assert.Contains(t, out, "ST04")
		assert.Contains(t, out, "NM02")
		assert.Contains(t, out, "WS05")
		assert.Contains(t, out, "3 issues")
		assert.Contains(t, out, "1 errors")
		assert.Contains(t, out, "1 warnings")
		assert.Contains(t, out, "1 hints")
	})

	t.Run("threshold filters lower severities", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		renderLintResult(tr.Renderer, makeResult(), lint.SeverityError)

		out := tr.Output()
		assert.Contains(t, out, "ST04")
		assert.NotContains(t, out, "NM02")
		assert.NotContains(t, out, "WS05")
		assert.Contains(t, out, "1 issues")
	})

	t.Run("clean result", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		renderLintResult(tr.Renderer, &runner.Result{}, lint.SeverityHint)

		assert.Contains(t, tr.Output(), "No lint issues found")
	})

	t.Run("suppressed and cached notes", func(t *testing.T) {
		result := makeResult()
		result.Files[0].Suppressed = []lint.Diagnostic{
			{RuleID: "WS03", Severity: lint.SeverityWarning},
			{RuleID: "CM02", Severity: lint.SeverityInfo},
		}
		result.Files[0].FromCache = true

		tr := testutil.NewTestRendererText()
		renderLintResult(tr.Renderer, result, lint.SeverityHint)

		out := tr.Output()
		assert.Contains(t, out, "2 findings suppressed by the baseline")
		assert.Contains(t, out, "1 files served from cache")
	})

	t.Run("json output", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		renderLintResult(tr.Renderer, makeResult(), lint.SeverityHint)

		var doc output.LintOutput
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &doc))
		assert.Equal(t, 3, doc.Summary.TotalIssues)
		assert.Equal(t, 1, doc.Summary.Errors)
		require.Len(t, doc.Files, 1)
		assert.Equal(t, "scripts/estimate.inp", doc.Files[0].Path)
		require.Len(t, doc.Files[0].Diagnostics, 3)
		assert.Equal(t, "ST04", doc.Files[0].Diagnostics[0].RuleID)
		assert.Equal(t, 3, doc.Files[0].Diagnostics[0].Line)
	})
}

func TestLintCommand_Run(t *testing.T) {
	projectDir := testutil.SetupTestProject(t)
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(projectDir))
	defer func() { _ = os.Chdir(oldWd) }()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	runCmd := func(args ...string) (string, error) {
		cmd := NewLintCommand("1.0.0-test")
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(append([]string{"--no-cache"}, args...))
		err := cmd.Execute()
		return buf.String(), err
	}

	t.Run("finds issues and fails", func(t *testing.T) {
		out, err := runCmd()
		require.ErrorIs(t, err, ErrIssuesFound)
		assert.Contains(t, out, "untidy.inp")
		assert.Contains(t, out, "NM02")
		assert.Contains(t, out, "WS01")
		assert.NotContains(t, out, "estimate.inp")
	})

	t.Run("clean file passes", func(t *testing.T) {
		out, err := runCmd(filepath.Join("scripts", "estimate.inp"))
		require.NoError(t, err)
		assert.Contains(t, out, "No lint issues found")
	})

	t.Run("fail-on error tolerates warnings", func(t *testing.T) {
		out, err := runCmd("--fail-on", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "NM02")
	})

	t.Run("disabling the findings makes it clean", func(t *testing.T) {
		out, err := runCmd("--disable", "NM02,WS01")
		require.NoError(t, err)
		assert.Contains(t, out, "No lint issues found")
	})

	t.Run("json output", func(t *testing.T) {
		cmd := NewLintCommand("1.0.0-test")
		outBuf := new(bytes.Buffer)
		errBuf := new(bytes.Buffer)
		cmd.SetOut(outBuf)
		cmd.SetErr(errBuf)
		cmd.SetArgs([]string{"--no-cache", "--format", "json"})

		err := cmd.Execute()
		require.ErrorIs(t, err, ErrIssuesFound)

		var doc output.LintOutput
		require.NoError(t, json.Unmarshal(outBuf.Bytes(), &doc))
		assert.Positive(t, doc.Summary.TotalIssues)
	})
}

func TestLintCommand_Baseline(t *testing.T) {
	projectDir := testutil.SetupTestProject(t)
	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(projectDir))
	defer func() { _ = os.Chdir(oldWd) }()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	runCmd := func(args ...string) (string, error) {
		cmd := NewLintCommand("1.0.0-test")
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs(append([]string{"--no-cache"}, args...))
		err := cmd.Execute()
		return buf.String(), err
	}

	out, err := runCmd("--write-baseline")
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline written")
	assert.FileExists(t, filepath.Join(projectDir, defaultBaselineName))

	// The recorded findings no longer fail the run.
	out, err = runCmd()
	require.NoError(t, err)
	assert.Contains(t, out, "No lint issues found")
	assert.Contains(t, out, "suppressed by the baseline")
}
