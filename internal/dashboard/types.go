package dashboard

import (
	"sync"
	"time"

	"github.com/hansl-tools/hanslint/internal/runner"
)

// overviewData feeds the overview page and its SSE updates.
type overviewData struct {
	HasResult  bool
	Files      int
	Errors     int
	Warnings   int
	Info       int
	Hints      int
	Suppressed int
	Duration   time.Duration
	UpdatedAt  time.Time
	FileRows   []fileRow
	FileErrors []runner.FileError
}

// fileRow is one script in the overview issue table.
type fileRow struct {
	Path      string
	Errors    int
	Warnings  int
	Info      int
	Hints     int
	FromCache bool
}

// runRow is one entry in the run history table.
type runRow struct {
	ID        string
	StartedAt string
	Duration  string
	Files     int
	Errors    int
	Warnings  int
	Info      int
	Hints     int
	Running   bool
}

// ruleGroup is one rule group section on the rules page.
type ruleGroup struct {
	Name  string
	Rules []ruleRow
}

// ruleRow is one rule in the reference table.
type ruleRow struct {
	ID          string
	Name        string
	Severity    string
	Type        string
	Description string
}

// resultState holds the latest lint result for the handlers. The watch
// loop replaces it and broadcasts; SSE handlers read it on each ping.
type resultState struct {
	mu        sync.RWMutex
	result    *runner.Result
	updatedAt time.Time
}

func (s *resultState) set(res *runner.Result) {
	s.mu.Lock()
	s.result = res
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *resultState) get() (*runner.Result, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.updatedAt
}
