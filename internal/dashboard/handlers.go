package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/pkg/lint"
)

const sessionName = "hanslint_dashboard"

// Handlers serves the dashboard pages and their SSE update streams.
type Handlers struct {
	store        state.Store
	sessionStore sessions.Store
	notifier     *Notifier
	results      *resultState
	logger       *slog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(store state.Store, sessionStore sessions.Store, notifier *Notifier, results *resultState, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:        store,
		sessionStore: sessionStore,
		notifier:     notifier,
		results:      results,
		logger:       logger,
	}
}

// HomePage renders the overview with the latest lint result.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	data := h.buildOverviewData()
	if err := page("Overview", "/", "/updates", overviewContent(data)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomeUpdates is the long-lived SSE endpoint for the overview. The page
// arrives fully rendered, so this only pushes on broadcasts.
func (h *Handlers) HomeUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			view := viewShell("/updates", overviewContent(h.buildOverviewData()))
			if err := sse.PatchElementTempl(view); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// RunsPage renders the run history.
func (h *Handlers) RunsPage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.buildRunRows(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := page("Run history", "/runs", "/runs/updates", runsContent(rows)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RunsUpdates is the SSE endpoint for the run history page.
func (h *Handlers) RunsUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			rows, err := h.buildRunRows(50)
			if err != nil {
				_ = sse.ConsoleError(fmt.Errorf("failed to list runs: %w", err))
				continue
			}
			if err := sse.PatchElementTempl(viewShell("/runs/updates", runsContent(rows))); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// FilePage renders the findings for the script named by ?path=.
func (h *Handlers) FilePage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	res, _ := h.results.get()
	if res == nil {
		http.NotFound(w, r)
		return
	}
	for _, report := range res.Files {
		if report.Path == path {
			if err := page(report.Path, "/", "", fileContent(report)).Render(r.Context(), w); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
	}
	http.NotFound(w, r)
}

// RulesPage renders the rule reference. The severity filter persists in
// the session so it survives navigation.
func (h *Handlers) RulesPage(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessionStore.Get(r, sessionName)

	filter := ""
	if v, ok := session.Values["rules_severity"].(string); ok {
		filter = v
	}
	if v := r.URL.Query().Get("severity"); v != "" {
		if v == "all" {
			filter = ""
		} else if _, err := lint.ParseSeverity(v); err == nil {
			filter = v
		}
		session.Values["rules_severity"] = filter
		if err := session.Save(r, w); err != nil {
			h.logger.Warn("failed to save session", "error", err)
		}
	}

	groups := buildRuleGroups(filter)
	if err := page("Rules", "/rules", "", rulesContent(groups, filter)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// buildOverviewData assembles the overview view from the latest result.
func (h *Handlers) buildOverviewData() overviewData {
	res, updatedAt := h.results.get()
	if res == nil {
		return overviewData{}
	}

	data := overviewData{
		HasResult:  true,
		Files:      res.Summary.FilesAnalyzed,
		Errors:     res.Summary.Errors,
		Warnings:   res.Summary.Warnings,
		Info:       res.Summary.Info,
		Hints:      res.Summary.Hints,
		Suppressed: res.TotalSuppressed(),
		Duration:   res.Duration,
		UpdatedAt:  updatedAt,
		FileErrors: res.Errors,
	}

	for _, report := range res.Files {
		if len(report.Diagnostics) == 0 {
			continue
		}
		row := fileRow{Path: report.Path, FromCache: report.FromCache}
		for _, d := range report.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				row.Errors++
			case lint.SeverityWarning:
				row.Warnings++
			case lint.SeverityInfo:
				row.Info++
			default:
				row.Hints++
			}
		}
		data.FileRows = append(data.FileRows, row)
	}
	return data
}

// buildRunRows loads the recent run history for display.
func (h *Handlers) buildRunRows(limit int) ([]runRow, error) {
	if h.store == nil {
		return nil, nil
	}
	runs, err := h.store.RecentRuns(limit)
	if err != nil {
		return nil, err
	}

	rows := make([]runRow, len(runs))
	for i, run := range runs {
		rows[i] = runRow{
			ID:        shortID(run.ID),
			StartedAt: formatTimeAgo(run.StartedAt),
			Duration:  formatRunDuration(run.StartedAt, run.CompletedAt),
			Files:     run.FilesAnalyzed,
			Errors:    run.Errors,
			Warnings:  run.Warnings,
			Info:      run.Info,
			Hints:     run.Hints,
			Running:   run.CompletedAt == nil,
		}
	}
	return rows, nil
}

// buildRuleGroups groups the registered rules, optionally filtered to
// one default severity.
func buildRuleGroups(filter string) []ruleGroup {
	byGroup := make(map[string][]ruleRow)
	for _, info := range lint.AllRules() {
		if filter != "" && info.DefaultSeverity.String() != filter {
			continue
		}
		byGroup[info.Group] = append(byGroup[info.Group], ruleRow{
			ID:          info.ID,
			Name:        info.Name,
			Severity:    info.DefaultSeverity.String(),
			Type:        info.Type,
			Description: info.Description,
		})
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]ruleGroup, len(names))
	for i, name := range names {
		groups[i] = ruleGroup{Name: name, Rules: byGroup[name]}
	}
	return groups
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTimeAgo renders a relative timestamp for the run table.
func formatTimeAgo(t time.Time) string {
	diff := time.Since(t)
	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	return t.Format("Jan 2, 15:04")
}

// formatRunDuration renders the elapsed time of a run, live for runs
// still in progress.
func formatRunDuration(start time.Time, end *time.Time) string {
	var d time.Duration
	if end != nil {
		d = end.Sub(start)
	} else {
		d = time.Since(start)
	}

	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
