// Package fixer applies the auto-fixes suggested by lint rules. Fixes
// are applied greedily per pass; fixes whose edits would overlap an
// already-applied fix wait for the next pass, which re-lints the updated
// source. Files are replaced atomically.
package fixer

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
)

// maxPasses bounds the fix-relint loop for pathological inputs.
const maxPasses = 10

// Fixer applies auto-fixes to Hansl scripts.
type Fixer struct {
	analyzer *lint.Analyzer
	logger   *slog.Logger
}

// New creates a fixer. Rules disabled in the configuration contribute
// no fixes.
func New(config *lint.Config, logger *slog.Logger) *Fixer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fixer{
		analyzer: lint.NewAnalyzer(config),
		logger:   logger,
	}
}

// Outcome describes what fixing one file did.
type Outcome struct {
	Path    string
	Applied int // fixes applied across all passes
	Skipped int // fixes that still conflict after the final pass
	Passes  int // lint passes that found something to fix
	Changed bool
}

// FixSource repeatedly lints and fixes source until no auto-fixable
// findings remain, then returns the fixed text.
func (f *Fixer) FixSource(path, source string) (string, *Outcome) {
	out := &Outcome{Path: path}

	for pass := 0; pass < maxPasses; pass++ {
		script := parser.ScanScript(path, source)
		fixes := collectFixes(f.analyzer.Analyze(script), len(source))
		if len(fixes) == 0 {
			out.Skipped = 0
			break
		}
		out.Passes++

		next, applied, skipped := applyNonOverlapping(source, fixes)
		out.Applied += applied
		out.Skipped = skipped
		if applied == 0 {
			break
		}
		source = next
	}

	out.Changed = out.Applied > 0
	return source, out
}

// FixFile fixes a script file in place. The original file mode is kept
// and the replacement is atomic, so a crash never leaves a half-written
// script behind.
func (f *Fixer) FixFile(path string) (*Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from discovery or the CLI arguments
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	fixed, out := f.FixSource(path, string(data))
	if !out.Changed {
		return out, nil
	}

	if err := renameio.WriteFile(path, []byte(fixed), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	f.logger.Debug("fixed file", "path", path, "applied", out.Applied, "passes", out.Passes)
	return out, nil
}

// candidate is one diagnostic's fix with its covered byte range.
type candidate struct {
	start, end int
	edits      []lint.TextEdit
}

// collectFixes extracts the primary fix of each auto-fixable diagnostic,
// dropping any whose edits are malformed or out of bounds.
func collectFixes(diags []lint.Diagnostic, sourceLen int) []candidate {
	var fixes []candidate
	for _, d := range diags {
		if !d.AutoFixable || len(d.Fixes) == 0 {
			continue
		}
		c, ok := newCandidate(d.Fixes[0].TextEdits, sourceLen)
		if ok {
			fixes = append(fixes, c)
		}
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		if fixes[i].start != fixes[j].start {
			return fixes[i].start < fixes[j].start
		}
		return fixes[i].end < fixes[j].end
	})
	return fixes
}

// newCandidate validates a fix's edits and computes its covered range.
// Edits must be in order and non-overlapping; a zero-width edit is an
// insertion.
func newCandidate(edits []lint.TextEdit, sourceLen int) (candidate, bool) {
	if len(edits) == 0 {
		return candidate{}, false
	}

	c := candidate{start: edits[0].Pos.Offset, end: edits[0].Pos.Offset, edits: edits}
	prevEnd := 0
	for i, e := range edits {
		start, end := e.Pos.Offset, e.EndPos.Offset
		if start < 0 || end < start || end > sourceLen {
			return candidate{}, false
		}
		if i > 0 && start < prevEnd {
			return candidate{}, false
		}
		prevEnd = end
		if start < c.start {
			c.start = start
		}
		if end > c.end {
			c.end = end
		}
	}
	return c, true
}

// applyNonOverlapping applies as many fixes as fit without touching the
// same bytes. Skipped fixes are retried on the next pass against the
// re-linted source.
func applyNonOverlapping(source string, fixes []candidate) (string, int, int) {
	var accepted []lint.TextEdit
	applied, skipped := 0, 0

	lastEnd := -1
	for _, c := range fixes {
		if c.start < lastEnd || (c.start == lastEnd && c.start == c.end) {
			// Overlaps the previous fix, or inserts at a boundary the
			// previous fix already rewrote.
			skipped++
			continue
		}
		accepted = append(accepted, c.edits...)
		lastEnd = c.end
		applied++
	}

	return applyEdits(source, accepted), applied, skipped
}

// applyEdits rewrites source with sorted, non-overlapping edits.
func applyEdits(source string, edits []lint.TextEdit) string {
	var b strings.Builder
	b.Grow(len(source))

	last := 0
	for _, e := range edits {
		b.WriteString(source[last:e.Pos.Offset])
		b.WriteString(e.NewText)
		last = e.EndPos.Offset
	}
	b.WriteString(source[last:])
	return b.String()
}
