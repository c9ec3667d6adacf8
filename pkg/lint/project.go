package lint

import "github.com/hansl-tools/hanslint/pkg/parser"

// ProjectContext provides access to project data for project-level rules.
// This is an interface so the runner can supply scanned scripts without the
// lint package knowing how files are discovered.
type ProjectContext interface {
	// Scripts returns every scanned script in the project.
	Scripts() []*parser.Script

	// Root returns the project root directory.
	Root() string

	// Config returns the project rule configuration.
	Config() ProjectConfig
}

// ProjectConfig holds configurable thresholds for project-level rules.
type ProjectConfig struct {
	ScriptExtensions []string // PF01: accepted script file extensions
	RequireHeader    bool     // PF02: scripts must open with a header comment
	MaxFileLines     int      // PF03: default 1000
}

// DefaultProjectConfig returns the default configuration.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		ScriptExtensions: []string{".inp"},
		RequireHeader:    true,
		MaxFileLines:     1000,
	}
}
