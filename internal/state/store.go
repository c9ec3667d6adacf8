// Package state persists lint runs and per-file results in SQLite.
// The result cache lets repeated runs skip files whose content and rule
// configuration are unchanged, and the run history feeds the dashboard.
package state

import (
	"time"

	"github.com/hansl-tools/hanslint/pkg/lint"
)

// Store is the interface for run history and result caching.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// BeginRun records the start of a lint run.
	BeginRun() (*Run, error)

	// CompleteRun records the end of a run with its aggregate counts.
	CompleteRun(id string, summary RunSummary) error

	// GetRun retrieves a run by ID.
	GetRun(id string) (*Run, error)

	// RecentRuns retrieves the most recent runs, newest first.
	RecentRuns(limit int) ([]*Run, error)

	// CachedResult returns the stored result for a file, or nil when the
	// content or rule configuration has changed since it was linted.
	CachedResult(path, contentHash, rulesHash string) (*FileResult, error)

	// SaveResult stores or replaces the result for a file.
	SaveResult(res *FileResult) error

	// DeleteResults drops all cached results for a path.
	DeleteResults(path string) error

	// PruneResults drops cached results older than the cutoff and
	// returns the number of rows removed.
	PruneResults(olderThan time.Time) (int64, error)
}

// Run is one recorded lint run.
type Run struct {
	ID          string
	StartedAt   time.Time
	CompletedAt *time.Time
	RunSummary
}

// RunSummary holds the aggregate counts for a completed run.
type RunSummary struct {
	FilesAnalyzed int
	TotalIssues   int
	Errors        int
	Warnings      int
	Info          int
	Hints         int
}

// FileResult is the cached outcome of linting one file.
type FileResult struct {
	Path        string
	ContentHash string
	RulesHash   string
	Diagnostics []lint.Diagnostic
	LintedAt    time.Time
}
