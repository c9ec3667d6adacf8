package plugin

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.starlark.net/starlark"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// ruleIDPattern is the accepted shape for plugin rule IDs, e.g. "CU01".
var ruleIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,7}$`)

// reservedGlobals are the uppercase module globals a plugin file may
// declare. Any other all-caps global is almost certainly a typo of one
// of these, so the loader rejects it.
var reservedGlobals = map[string]bool{
	"RULE_ID":     true,
	"SEVERITY":    true,
	"DESCRIPTION": true,
}

// Loader scans a directory for .star files and loads them as lint rules.
type Loader struct {
	dir string
}

// NewLoader creates a new plugin loader for the specified directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load scans the plugin directory and loads all .star files.
// A missing directory is not an error; projects without plugins are normal.
func (l *Loader) Load() ([]*Rule, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access plugin directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("plugin path is not a directory: %s", l.dir)
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.star"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan plugin directory: %w", err)
	}

	var rules []*Rule
	seen := make(map[string]string) // rule ID -> file

	for _, file := range files {
		rule, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[rule.id]; dup {
			return nil, &LoadError{
				File:    file,
				Message: fmt.Sprintf("rule ID %q is already defined in %s", rule.id, filepath.Base(prev)),
			}
		}
		if _, taken := lint.GetRuleByID(rule.id); taken {
			return nil, &LoadError{
				File:    file,
				Message: fmt.Sprintf("rule ID %q collides with a built-in rule", rule.id),
			}
		}

		seen[rule.id] = file
		rules = append(rules, rule)
	}

	return rules, nil
}

// loadFile executes a single .star file and extracts its rule declaration.
func (l *Loader) loadFile(path string) (*Rule, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a glob within the plugin directory
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	base := strings.TrimSuffix(filepath.Base(path), ".star")

	thread := &starlark.Thread{
		Name:  "load:" + base,
		Print: func(_ *starlark.Thread, _ string) {},
	}

	globals, err := starlark.ExecFile(thread, path, content, nil) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}

	// Frozen globals make concurrent check() calls safe.
	globals.Freeze()

	md, err := inspect(path, content)
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("parse error: %v", err)}
	}
	for _, name := range md.globals {
		if reservedGlobals[name] || name != strings.ToUpper(name) {
			continue
		}
		return nil, &LoadError{
			File:    path,
			Message: fmt.Sprintf("unknown declaration %q; prefix module constants with \"_\" to keep them private", name),
		}
	}

	id, err := stringGlobal(globals, "RULE_ID", true)
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	if !ruleIDPattern.MatchString(id) {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("RULE_ID %q must be 2-8 uppercase letters or digits, e.g. \"CU01\"", id)}
	}

	severity := lint.SeverityWarning
	if sevStr, err := stringGlobal(globals, "SEVERITY", false); err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	} else if sevStr != "" {
		severity, err = lint.ParseSeverity(sevStr)
		if err != nil {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("SEVERITY: %v", err)}
		}
	}

	description, err := stringGlobal(globals, "DESCRIPTION", false)
	if err != nil {
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	checkVal, ok := globals["check"]
	if !ok {
		return nil, &LoadError{File: path, Message: "missing check(script) function"}
	}
	check, ok := checkVal.(starlark.Callable)
	if !ok {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("check must be a function, got %s", checkVal.Type())}
	}

	sum := sha256.Sum256(content)

	return &Rule{
		id:          id,
		name:        "plugin." + base,
		description: description,
		rationale:   md.docstring,
		severity:    severity,
		path:        path,
		sourceHash:  hex.EncodeToString(sum[:8]),
		check:       check,
	}, nil
}

// stringGlobal extracts a string-valued module global.
func stringGlobal(globals starlark.StringDict, name string, required bool) (string, error) {
	val, ok := globals[name]
	if !ok {
		if required {
			return "", fmt.Errorf("missing %s", name)
		}
		return "", nil
	}
	s, ok := val.(starlark.String)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", name, val.Type())
	}
	return string(s), nil
}

// LoadError represents an error loading a plugin file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", filepath.Base(e.File), e.Message)
}
