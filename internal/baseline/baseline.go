// Package baseline records existing findings so established projects can
// adopt the linter without fixing every legacy issue at once. A baseline
// entry fingerprints a finding by rule, file, and line content, so
// findings stay suppressed when unrelated edits shift line numbers.
package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
)

// FormatVersion is the baseline file format version.
const FormatVersion = 1

// Baseline is the content of a hanslint-baseline.yaml file.
type Baseline struct {
	Version   int       `yaml:"version"`
	Generated time.Time `yaml:"generated"`
	Findings  []Finding `yaml:"findings"`

	// index counts unconsumed findings per fingerprint.
	index map[fingerprint]int
}

// Finding is one suppressed diagnostic.
type Finding struct {
	Rule     string `yaml:"rule"`
	Path     string `yaml:"path"`
	LineHash string `yaml:"line_hash"`
	Message  string `yaml:"message,omitempty"`
}

type fingerprint struct {
	rule, path, lineHash string
}

// New creates an empty baseline stamped with the current time.
func New() *Baseline {
	return &Baseline{
		Version:   FormatVersion,
		Generated: time.Now().UTC(),
		index:     make(map[fingerprint]int),
	}
}

// Load reads a baseline file.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline %s: %w", path, err)
	}
	if b.Version > FormatVersion {
		return nil, fmt.Errorf("baseline %s has format version %d; this build understands up to %d", path, b.Version, FormatVersion)
	}

	b.ensureIndex()
	return &b, nil
}

// Save writes the baseline atomically.
func (b *Baseline) Save(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create baseline directory: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	return nil
}

func (b *Baseline) ensureIndex() {
	if b.index == nil {
		b.index = make(map[fingerprint]int, len(b.Findings))
		for _, f := range b.Findings {
			b.index[fingerprint{f.Rule, f.Path, f.LineHash}]++
		}
	}
}

// Add records a diagnostic in the baseline.
func (b *Baseline) Add(path string, script *parser.Script, d lint.Diagnostic) {
	b.ensureIndex()
	f := Finding{
		Rule:     d.RuleID,
		Path:     normalizePath(path),
		LineHash: lineHash(script, d.Pos.Line),
		Message:  d.Message,
	}
	b.Findings = append(b.Findings, f)
	b.index[fingerprint{f.Rule, f.Path, f.LineHash}]++
}

// Filter splits diagnostics into those to report and those the baseline
// suppresses. Each baseline entry suppresses at most one diagnostic, so
// new duplicates on the same line still surface.
func (b *Baseline) Filter(path string, script *parser.Script, diags []lint.Diagnostic) (kept, suppressed []lint.Diagnostic) {
	if b == nil || len(b.Findings) == 0 {
		return diags, nil
	}
	b.ensureIndex()

	p := normalizePath(path)
	for _, d := range diags {
		key := fingerprint{d.RuleID, p, lineHash(script, d.Pos.Line)}
		if b.index[key] > 0 {
			b.index[key]--
			suppressed = append(suppressed, d)
			continue
		}
		kept = append(kept, d)
	}
	return kept, suppressed
}

// Remaining returns how many findings were never matched by Filter.
// A nonzero count after a full run means the baseline is stale.
func (b *Baseline) Remaining() int {
	n := 0
	for _, count := range b.index {
		n += count
	}
	return n
}

// Len returns the number of findings in the baseline.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Findings)
}

// lineHash fingerprints the content of one line, ignoring surrounding
// whitespace. Lines outside the script hash as empty.
func lineHash(script *parser.Script, line int) string {
	var text string
	if script != nil && line >= 1 && line <= len(script.Lines) {
		text = strings.TrimSpace(script.Lines[line-1])
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func normalizePath(path string) string {
	return filepath.ToSlash(path)
}
