package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// TestLoadConfig_Defaults verifies the built-in defaults when no config
// file, env vars, or flags are present.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, tmpDir, cfg.ScriptsDir)
	assert.Equal(t, filepath.Join(tmpDir, ".hanslint", "state.db"), cfg.StatePath)
	assert.Equal(t, filepath.Join(tmpDir, ".hanslint", "rules"), cfg.PluginsDir)
	assert.Empty(t, cfg.BaselinePath)
	assert.Empty(t, GetConfigFileUsed())

	require.NotNil(t, cfg.Lint)
	assert.Equal(t, []string{".inp"}, cfg.Lint.ScriptExtensions)
	assert.True(t, cfg.Lint.RequireHeader)
	assert.Equal(t, 1000, cfg.Lint.MaxFileLines)
}

// TestLoadConfig_Fixtures tests LoadConfig against fixture files.
func TestLoadConfig_Fixtures(t *testing.T) {
	testdataDir, err := filepath.Abs("../testdata")
	require.NoError(t, err)

	t.Run("basic config", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfig(filepath.Join(testdataDir, "valid_basic.yaml"), nil)
		require.NoError(t, err)

		assert.Equal(t, testdataDir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(testdataDir, "scripts"), cfg.ScriptsDir)
		assert.Equal(t, "text", cfg.OutputFormat)
	})

	t.Run("full config", func(t *testing.T) {
		ResetConfig()
		cfg, err := LoadConfig(filepath.Join(testdataDir, "valid_full.yaml"), nil)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(testdataDir, ".hanslint", "cache.db"), cfg.StatePath)
		assert.Equal(t, filepath.Join(testdataDir, "hanslint-baseline.yaml"), cfg.BaselinePath)

		require.NotNil(t, cfg.Lint)
		assert.Equal(t, []string{"CM03"}, cfg.Lint.Disabled)
		assert.Equal(t, "error", cfg.Lint.Severity["WS04"])
		assert.Equal(t, []string{".inp", ".gfn"}, cfg.Lint.ScriptExtensions)
		assert.False(t, cfg.Lint.RequireHeader)
		assert.Equal(t, 500, cfg.Lint.MaxFileLines)

		require.NotNil(t, cfg.Docs)
		assert.Equal(t, "site/rules", cfg.Docs.OutputDir)
		assert.Equal(t, "House Style", cfg.Docs.Title)

		require.NotNil(t, cfg.Dashboard)
		assert.Equal(t, 9000, cfg.Dashboard.Port)
		assert.False(t, cfg.Dashboard.AutoOpen)
	})

	t.Run("invalid severity string", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join(testdataDir, "invalid_severity.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lint.severity.WS01")
		assert.Contains(t, err.Error(), "unknown severity")
	})
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "hanslint.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scripts_dir: from_file\n"), 0600))

	require.NoError(t, os.Setenv("HANSLINT_SCRIPTS_DIR", "from_env"))
	defer func() { _ = os.Unsetenv("HANSLINT_SCRIPTS_DIR") }()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("scripts-dir", "", "scripts directory")
	require.NoError(t, flags.Set("scripts-dir", "from_flag"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	// Flag paths are resolved against the CWD at parse time.
	wantDir, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, wantDir, cfg.ScriptsDir, "flag value should override config file and env var")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override the config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "hanslint.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scripts_dir: from_file\n"), 0600))

	require.NoError(t, os.Setenv("HANSLINT_SCRIPTS_DIR", "from_env"))
	defer func() { _ = os.Unsetenv("HANSLINT_SCRIPTS_DIR") }()

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	// Config file paths resolve against the project root (the file's directory).
	assert.Equal(t, filepath.Join(tmpDir, "from_env"), cfg.ScriptsDir, "env var should override config file")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "hanslint.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scripts_dir: from_file\n"), 0600))

	require.NoError(t, os.Setenv("HANSLINT_SCRIPTS_DIR", "from_env"))
	defer func() { _ = os.Unsetenv("HANSLINT_SCRIPTS_DIR") }()

	// Flag exists but is never set, so Changed is false.
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("scripts-dir", "", "scripts directory")

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "from_env"), cfg.ScriptsDir, "env var should be used when flag is not set")
}

// TestLoadConfig_EnvTypedValues tests that env var strings decode into
// typed fields: bools weakly, comma-separated lists into slices, and
// double underscores as nesting separators.
func TestLoadConfig_EnvTypedValues(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	require.NoError(t, os.Setenv("HANSLINT_VERBOSE", "true"))
	require.NoError(t, os.Setenv("HANSLINT_LINT__DISABLED", "NM01,WS02"))
	defer func() {
		_ = os.Unsetenv("HANSLINT_VERBOSE")
		_ = os.Unsetenv("HANSLINT_LINT__DISABLED")
	}()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	require.NotNil(t, cfg.Lint)
	assert.Equal(t, []string{"NM01", "WS02"}, cfg.Lint.Disabled)
}

// TestLoadConfig_ProjectDirFlag tests explicit project root selection and
// config discovery inside it.
func TestLoadConfig_ProjectDirFlag(t *testing.T) {
	ResetConfig()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "hanslint.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scripts_dir: myscripts\n"), 0600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("project-dir", "", "project root")
	require.NoError(t, flags.Set("project-dir", tmpDir))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, tmpDir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(tmpDir, "myscripts"), cfg.ScriptsDir)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

// TestExpandEnvVars tests the expandEnvVars function.
func TestExpandEnvVars(t *testing.T) {
	require.NoError(t, os.Setenv("TEST_VAR_ONE", "value_one"))
	require.NoError(t, os.Setenv("TEST_VAR_TWO", "value_two"))
	defer func() {
		_ = os.Unsetenv("TEST_VAR_ONE")
		_ = os.Unsetenv("TEST_VAR_TWO")
	}()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single variable",
			input:    "${TEST_VAR_ONE}",
			expected: "value_one",
		},
		{
			name:     "multiple variables",
			input:    "${TEST_VAR_ONE}/${TEST_VAR_TWO}",
			expected: "value_one/value_two",
		},
		{
			name:     "variable in path",
			input:    "/path/to/${TEST_VAR_ONE}/file",
			expected: "/path/to/value_one/file",
		},
		{
			name:     "unset variable stays as-is",
			input:    "${UNSET_VARIABLE}",
			expected: "${UNSET_VARIABLE}",
		},
		{
			name:     "no variables",
			input:    "plain string",
			expected: "plain string",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "mixed set and unset",
			input:    "${TEST_VAR_ONE}:${UNSET_VAR}",
			expected: "value_one:${UNSET_VAR}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandEnvVars(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestRuleConfig tests conversion of the lint section into engine config.
func TestRuleConfig(t *testing.T) {
	t.Run("nil lint section yields empty config", func(t *testing.T) {
		cfg := &Config{}
		rc, err := cfg.RuleConfig()
		require.NoError(t, err)
		assert.False(t, rc.IsDisabled("WS01"))
		assert.Equal(t, lint.SeverityWarning, rc.GetSeverity("LL01", lint.SeverityWarning))
	})

	t.Run("disabled, severity, and options carry over", func(t *testing.T) {
		cfg := &Config{Lint: &LintConfig{
			Disabled: []string{"CM03", "ST02"},
			Severity: map[string]string{"WS04": "error", "NM02": "hint"},
			Rules: map[string]map[string]any{
				"LL01": {"max-length": 100},
			},
		}}

		rc, err := cfg.RuleConfig()
		require.NoError(t, err)

		assert.True(t, rc.IsDisabled("CM03"))
		assert.True(t, rc.IsDisabled("ST02"))
		assert.False(t, rc.IsDisabled("WS01"))
		assert.Equal(t, lint.SeverityError, rc.GetSeverity("WS04", lint.SeverityInfo))
		assert.Equal(t, lint.SeverityHint, rc.GetSeverity("NM02", lint.SeverityWarning))
		assert.Equal(t, map[string]any{"max-length": 100}, rc.GetRuleOptions("LL01"))
	})

	t.Run("bad severity string is rejected", func(t *testing.T) {
		cfg := &Config{Lint: &LintConfig{
			Severity: map[string]string{"WS01": "fatal"},
		}}
		_, err := cfg.RuleConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lint.severity.WS01")
	})
}

// TestProjectRuleConfig tests conversion of project thresholds.
func TestProjectRuleConfig(t *testing.T) {
	t.Run("nil lint section yields defaults", func(t *testing.T) {
		cfg := &Config{}
		pc := cfg.ProjectRuleConfig()
		assert.Equal(t, lint.DefaultProjectConfig(), pc)
	})

	t.Run("thresholds carry over", func(t *testing.T) {
		cfg := &Config{Lint: &LintConfig{
			ScriptExtensions: []string{".inp", ".gfn"},
			RequireHeader:    false,
			MaxFileLines:     500,
		}}
		pc := cfg.ProjectRuleConfig()
		assert.Equal(t, []string{".inp", ".gfn"}, pc.ScriptExtensions)
		assert.False(t, pc.RequireHeader)
		assert.Equal(t, 500, pc.MaxFileLines)
	})

	t.Run("zero max_file_lines keeps default", func(t *testing.T) {
		cfg := &Config{Lint: &LintConfig{MaxFileLines: 0}}
		pc := cfg.ProjectRuleConfig()
		assert.Equal(t, 1000, pc.MaxFileLines)
	})
}

// TestConfig_Validate tests the Config.Validate method.
func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{ScriptsDir: "scripts"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty scripts_dir", func(t *testing.T) {
		cfg := &Config{ScriptsDir: ""}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scripts_dir is required")
	})
}

// TestGetDashboardConfig tests dashboard defaulting.
func TestGetDashboardConfig(t *testing.T) {
	t.Run("nil section yields defaults", func(t *testing.T) {
		cfg := &Config{}
		d := cfg.GetDashboardConfig()
		assert.Equal(t, 8765, d.Port)
		assert.True(t, d.AutoOpen)
	})

	t.Run("partial section is filled in", func(t *testing.T) {
		cfg := &Config{Dashboard: &DashboardConfig{Port: 9000}}
		d := cfg.GetDashboardConfig()
		assert.Equal(t, 9000, d.Port)
		assert.Equal(t, "default", d.Theme)
	})
}
