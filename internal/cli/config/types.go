// Package config provides configuration management for the hanslint CLI.
//
// Configuration is merged from four layers with increasing precedence:
// built-in defaults, a hanslint.yaml project file, HANSLINT_* environment
// variables, and command-line flags.
package config

import (
	"fmt"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// Config holds all CLI configuration options.
type Config struct {
	ScriptsDir   string           `koanf:"scripts_dir"`
	StatePath    string           `koanf:"state_path"`
	BaselinePath string           `koanf:"baseline"`
	PluginsDir   string           `koanf:"plugins_dir"`
	Verbose      bool             `koanf:"verbose"`
	OutputFormat string           `koanf:"output"`
	Lint         *LintConfig      `koanf:"lint"`
	Docs         *DocsConfig      `koanf:"docs"`
	Dashboard    *DashboardConfig `koanf:"dashboard"`

	// ProjectRoot is inferred at load time, never read from the file.
	ProjectRoot string `koanf:"-"`
}

// LintConfig is the `lint:` section of hanslint.yaml.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`

	// Project rule thresholds.
	ScriptExtensions []string `koanf:"script_extensions"`
	RequireHeader    bool     `koanf:"require_header"`
	MaxFileLines     int      `koanf:"max_file_lines"`
}

// DocsConfig is the `docs:` section of hanslint.yaml.
type DocsConfig struct {
	OutputDir string `koanf:"output_dir"`
	Title     string `koanf:"title"`
}

// DashboardConfig holds configuration for the dashboard server.
type DashboardConfig struct {
	Port     int    `koanf:"port"`
	AutoOpen bool   `koanf:"auto_open"`
	Watch    bool   `koanf:"watch"`
	Theme    string `koanf:"theme"`
}

// DefaultDashboardConfig returns a DashboardConfig with default values.
func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Port:     8765,
		AutoOpen: true,
		Watch:    true,
		Theme:    "default",
	}
}

// GetDashboardConfig returns the dashboard config with defaults applied
// for any unset values.
func (c *Config) GetDashboardConfig() *DashboardConfig {
	if c.Dashboard == nil {
		return DefaultDashboardConfig()
	}
	d := c.Dashboard
	if d.Port == 0 {
		d.Port = 8765
	}
	if d.Theme == "" {
		d.Theme = "default"
	}
	return d
}

// GetDocsConfig returns the docs config with defaults applied.
func (c *Config) GetDocsConfig() *DocsConfig {
	if c.Docs == nil {
		return &DocsConfig{OutputDir: DefaultDocsDir, Title: "Hansl Style Rules"}
	}
	d := c.Docs
	if d.OutputDir == "" {
		d.OutputDir = DefaultDocsDir
	}
	if d.Title == "" {
		d.Title = "Hansl Style Rules"
	}
	return d
}

// RuleConfig converts the file-level lint section into the rule engine's
// configuration. Unknown severity strings are rejected so typos surface
// at startup rather than silently keeping the default.
func (c *Config) RuleConfig() (*lint.Config, error) {
	rc := lint.NewConfig()
	if c.Lint == nil {
		return rc, nil
	}

	for _, id := range c.Lint.Disabled {
		rc.Disable(id)
	}
	for id, sevStr := range c.Lint.Severity {
		sev, err := lint.ParseSeverity(sevStr)
		if err != nil {
			return nil, fmt.Errorf("lint.severity.%s: %w", id, err)
		}
		rc.SetSeverity(id, sev)
	}
	for id, opts := range c.Lint.Rules {
		rc.SetRuleOptions(id, opts)
	}
	return rc, nil
}

// ProjectRuleConfig converts the file-level thresholds into the rule
// engine's project configuration.
func (c *Config) ProjectRuleConfig() lint.ProjectConfig {
	pc := lint.DefaultProjectConfig()
	if c.Lint == nil {
		return pc
	}
	if len(c.Lint.ScriptExtensions) > 0 {
		pc.ScriptExtensions = c.Lint.ScriptExtensions
	}
	pc.RequireHeader = c.Lint.RequireHeader
	if c.Lint.MaxFileLines > 0 {
		pc.MaxFileLines = c.Lint.MaxFileLines
	}
	return pc
}

// Default configuration values.
const (
	DefaultScriptsDir = "."
	DefaultStateFile  = ".hanslint/state.db"
	DefaultPluginsDir = ".hanslint/rules"
	DefaultDocsDir    = "docs/rules"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
