package config

import (
	"fmt"
	"os"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ScriptsDir == "" {
		return fmt.Errorf("scripts_dir is required")
	}

	// Directory existence is checked separately so help and rules commands
	// work without a project on disk.
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.ScriptsDir); os.IsNotExist(err) {
		return fmt.Errorf("scripts directory does not exist: %s\nHint: Create the directory or use --scripts-dir to specify a different path", c.ScriptsDir)
	}
	return nil
}
