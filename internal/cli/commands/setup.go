package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/internal/plugin"
	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/pkg/lint"
)

// ErrIssuesFound signals that linting reported diagnostics at or above
// the failure threshold. The root command maps it to exit code 1.
var ErrIssuesFound = errors.New("lint issues found")

// defaultBaselineName is the baseline file looked up in the project
// root when no path is configured.
const defaultBaselineName = ".hanslint-baseline.yaml"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded
// configuration. An empty formatOverride keeps the configured output
// mode.
func NewCommandContext(cmd *cobra.Command, formatOverride string) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	if formatOverride != "" {
		mode = output.Mode(formatOverride)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables. The fallback covers commands constructed
// outside the root command, such as in tests.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	scriptsDir := getEnvOrDefault("HANSLINT_SCRIPTS_DIR", config.DefaultScriptsDir)
	statePath := getEnvOrDefault("HANSLINT_STATE_PATH", config.DefaultStateFile)
	pluginsDir := getEnvOrDefault("HANSLINT_PLUGINS_DIR", config.DefaultPluginsDir)
	verbose := os.Getenv("HANSLINT_VERBOSE") == "true"
	outputFormat := os.Getenv("HANSLINT_OUTPUT")
	cwd, _ := os.Getwd()

	return &config.Config{
		ScriptsDir:   scriptsDir,
		StatePath:    statePath,
		PluginsDir:   pluginsDir,
		Verbose:      verbose,
		OutputFormat: outputFormat,
		ProjectRoot:  cwd,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStore opens the state database, creating its directory and
// migrating the schema when needed.
func openStore(cfg *config.Config, logger *slog.Logger) (state.Store, error) {
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return store, nil
}

// registerPluginRules loads custom rules from the configured plugin
// directory into the registry and returns how many were added. A
// missing directory is fine; a broken rule file is an error.
func registerPluginRules(cfg *config.Config) (int, error) {
	rules, err := plugin.NewLoader(cfg.PluginsDir).Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load custom rules: %w", err)
	}
	plugin.RegisterAll(rules)
	return len(rules), nil
}

// buildRuleConfig merges the project configuration with command-line
// overrides. Flag values take precedence over the config file.
func buildRuleConfig(cfg *config.Config, disable, only []string) (*lint.Config, error) {
	rc, err := cfg.RuleConfig()
	if err != nil {
		return nil, err
	}

	for _, id := range disable {
		rc.Disable(strings.TrimSpace(id))
	}

	// --rule keeps only the named rules by disabling the rest.
	if len(only) > 0 {
		keep := make(map[string]bool, len(only))
		for _, id := range only {
			keep[strings.TrimSpace(id)] = true
		}
		for _, info := range lint.AllRules() {
			if !keep[info.ID] {
				rc.Disable(info.ID)
			}
		}
	}

	return rc, nil
}

// resolveScriptPaths maps positional arguments to script files. A file
// argument is taken as-is, a directory is scanned for scripts. With no
// arguments the configured scripts directory is scanned.
func resolveScriptPaths(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		exts := cfg.ProjectRuleConfig().ScriptExtensions
		return runner.Discover(cfg.ScriptsDir, exts)
	}

	exts := cfg.ProjectRuleConfig().ScriptExtensions
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot lint %s: %w", arg, err)
		}
		if info.IsDir() {
			found, err := runner.Discover(arg, exts)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, arg)
	}
	return files, nil
}

// severityStyle returns the padded, styled label for a severity.
func severityStyle(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// parseSeverityThreshold converts a flag value into a Severity,
// defaulting to warning for unknown strings.
func parseSeverityThreshold(s string) lint.Severity {
	sev, err := lint.ParseSeverity(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return lint.SeverityWarning
	}
	return sev
}
