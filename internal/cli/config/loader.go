package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// configFileNames are the recognized project file names, in priority order.
var configFileNames = []string{"hanslint.yaml", ".hanslint.yaml"}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > hanslint.yaml > .hanslint.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// configExistsIn checks if a hanslint config file exists in the directory.
func configExistsIn(dir string) bool {
	for _, name := range configFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// findProjectRootUpward searches upward from startDir for a hanslint config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from CLI flags and filesystem.
// Priority:
//  1. Explicit --project-dir flag
//  2. Infer from --scripts-dir (parent if it contains a config file)
//  3. Search upward from CWD for hanslint.yaml
//  4. Current working directory
func inferProjectRoot(flags *pflag.FlagSet) string {
	// 1. Check explicit --project-dir
	if flags != nil {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" && flags.Changed("project-dir") {
			abs, err := filepath.Abs(projectDir)
			if err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}
	}

	// 2. Infer from --scripts-dir
	if flags != nil {
		if scriptsDir, _ := flags.GetString("scripts-dir"); scriptsDir != "" && flags.Changed("scripts-dir") {
			absScripts, err := filepath.Abs(scriptsDir)
			if err == nil {
				if configExistsIn(absScripts) {
					return absScripts
				}

				// If the parent has a config file, it's the project root
				parent := filepath.Dir(absScripts)
				if configExistsIn(parent) {
					return parent
				}
			}
		}
	}

	// 3. Search upward from CWD for hanslint.yaml
	if cwd, err := os.Getwd(); err == nil {
		if root := findProjectRootUpward(cwd); root != "" {
			return root
		}
	}

	// 4. Default to CWD
	cwd, _ := os.Getwd()
	if cwd == "" {
		cwd = "."
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// Infer project root from flags before loading config.
	// This enables the anchor pattern where --scripts-dir testdata/scripts
	// implies the project root is testdata/
	projectRoot := inferProjectRoot(flags)

	// Track paths that were explicitly provided as flags (already relative to CWD).
	// These are converted to absolute paths before the normal resolution step,
	// to prevent double-resolution when project root was inferred from them.
	var flagScriptsDir, flagStatePath, flagBaseline, flagPluginsDir string
	if flags != nil {
		if flags.Changed("scripts-dir") {
			if v, _ := flags.GetString("scripts-dir"); v != "" {
				flagScriptsDir, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				flagStatePath, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("baseline") {
			if v, _ := flags.GetString("baseline"); v != "" {
				flagBaseline, _ = filepath.Abs(v)
			}
		}
		if flags.Changed("plugins-dir") {
			if v, _ := flags.GetString("plugins-dir"); v != "" {
				flagPluginsDir, _ = filepath.Abs(v)
			}
		}
	}

	// If an explicit config file is provided, use its directory as project root
	// (unless a more specific hint was given via flags)
	if cfgFile != "" && projectRoot == inferProjectRoot(nil) {
		// No flag-based inference happened, use the config file's directory
		if absPath, err := filepath.Abs(cfgFile); err == nil {
			projectRoot = filepath.Dir(absPath)
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"scripts_dir":            DefaultScriptsDir,
		"state_path":             DefaultStateFile,
		"plugins_dir":            DefaultPluginsDir,
		"verbose":                false,
		"output":                 DefaultOutput,
		"lint.script_extensions": []string{".inp"},
		"lint.require_header":    true,
		"lint.max_file_lines":    1000,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	// Search in project root if no explicit config file provided
	if cfgFile == "" {
		for _, name := range configFileNames {
			candidate := filepath.Join(projectRoot, name)
			if _, err := os.Stat(candidate); err == nil {
				cfgFile = candidate
				break
			}
		}
	}
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (HANSLINT_ prefix)
	// Transform: HANSLINT_SCRIPTS_DIR -> scripts_dir. A double underscore
	// separates nesting levels, so HANSLINT_LINT__DISABLED -> lint.disabled
	// while single underscores stay part of the key.
	if err := k.Load(env.Provider("HANSLINT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "HANSLINT_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")

			// The CLI uses --state for brevity, but the config key is state_path
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct. Env values arrive as strings, so
	// comma-separated lists and booleans need weak decoding to land in
	// their typed fields.
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Set project root, expand ${VAR} references, and resolve relative paths.
	// Project root is the base for all path resolution so a config file deep
	// in a tree behaves the same from any working directory.
	cfg.ProjectRoot = projectRoot

	cfg.ScriptsDir = expandEnvVars(cfg.ScriptsDir)
	cfg.StatePath = expandEnvVars(cfg.StatePath)
	cfg.BaselinePath = expandEnvVars(cfg.BaselinePath)
	cfg.PluginsDir = expandEnvVars(cfg.PluginsDir)

	// For paths explicitly provided via flags, use the pre-computed absolute
	// paths (already computed relative to CWD at flag parse time).
	// For paths from config file or defaults, resolve relative to project root.
	if flagScriptsDir != "" {
		cfg.ScriptsDir = flagScriptsDir
	} else {
		cfg.ScriptsDir = resolvePathRelativeTo(cfg.ScriptsDir, projectRoot)
	}
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	if flagBaseline != "" {
		cfg.BaselinePath = flagBaseline
	} else {
		cfg.BaselinePath = resolvePathRelativeTo(cfg.BaselinePath, projectRoot)
	}
	if flagPluginsDir != "" {
		cfg.PluginsDir = flagPluginsDir
	} else {
		cfg.PluginsDir = resolvePathRelativeTo(cfg.PluginsDir, projectRoot)
	}

	// Validate the lint section eagerly so bad severity strings fail at
	// startup rather than mid-run.
	if _, err := cfg.RuleConfig(); err != nil {
		if configFileUsed != "" {
			return nil, fmt.Errorf("invalid lint configuration in %s: %w", configFileUsed, err)
		}
		return nil, fmt.Errorf("invalid lint configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
