package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/internal/testutil"
	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func testResult() *runner.Result {
	return &runner.Result{
		Files: []*runner.FileReport{
			{
				Path: "scripts/model.inp",
				Diagnostics: []lint.Diagnostic{
					{
						RuleID:   "WS01",
						Severity: lint.SeverityWarning,
						Message:  `missing spaces around "="`,
						Pos:      token.Position{Line: 2, Column: 2},
					},
				},
			},
			{Path: "clean.inp"},
		},
		Summary:  state.RunSummary{FilesAnalyzed: 2, TotalIssues: 1, Warnings: 1},
		Duration: 9 * time.Millisecond,
	}
}

func setupHandlers(t *testing.T, store state.Store, res *runner.Result) (*Handlers, *Notifier) {
	t.Helper()

	results := &resultState{}
	if res != nil {
		results.set(res)
	}
	notifier := NewNotifier()
	h := NewHandlers(
		store,
		sessions.NewCookieStore([]byte("test-secret")),
		notifier,
		results,
		testutil.NewTestLogger(t),
	)
	return h, notifier
}

func setupStore(t *testing.T) state.Store {
	t.Helper()

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHomePage(t *testing.T) {
	h, _ := setupHandlers(t, nil, testResult())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Overview - hanslint</title>",
		"data-init",
		"/updates",
		`href="/files?path=scripts%2Fmodel.inp"`,
		"scripts/model.inp",
	} {
		assert.Contains(t, body, want, "response should contain %q", want)
	}
	assert.NotContains(t, body, "clean.inp", "files without findings stay out of the table")
}

func TestHomePage_NoResultYet(t *testing.T) {
	h, _ := setupHandlers(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Waiting for the first lint run")
}

func TestHomeUpdates_SendsUpdateOnBroadcast(t *testing.T) {
	h, notifier := setupHandlers(t, nil, testResult())

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.HomeUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	notifier.Broadcast()
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "broadcast should produce an SSE event")
	assert.Contains(t, body, "scripts/model.inp", "update should carry the latest result")
}

func TestHomeUpdates_NoInitialState(t *testing.T) {
	h, _ := setupHandlers(t, nil, testResult())

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HomeUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"),
		"content is server-rendered, the stream only pushes on broadcasts")
}

func TestRunsPage(t *testing.T) {
	store := setupStore(t)

	completed, err := store.BeginRun()
	require.NoError(t, err)
	require.NoError(t, store.CompleteRun(completed.ID, state.RunSummary{
		FilesAnalyzed: 3,
		TotalIssues:   2,
		Errors:        1,
		Warnings:      1,
	}))

	running, err := store.BeginRun()
	require.NoError(t, err)

	h, _ := setupHandlers(t, store, nil)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	h.RunsPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Run history")
	assert.Contains(t, body, shortID(completed.ID))
	assert.Contains(t, body, shortID(running.ID))
	assert.Contains(t, body, "1 error")
	assert.Contains(t, body, "1 warning")
	assert.Contains(t, body, "running")
}

func TestRunsPage_NoStore(t *testing.T) {
	h, _ := setupHandlers(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	h.RunsPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No runs recorded yet")
}

func TestFilePage(t *testing.T) {
	h, _ := setupHandlers(t, nil, testResult())

	req := httptest.NewRequest(http.MethodGet, "/files?path=scripts%2Fmodel.inp", nil)
	rec := httptest.NewRecorder()
	h.FilePage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "WS01")
	assert.Contains(t, body, "missing spaces around")
}

func TestFilePage_MissingParam(t *testing.T) {
	h, _ := setupHandlers(t, nil, testResult())

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	rec := httptest.NewRecorder()
	h.FilePage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilePage_UnknownPath(t *testing.T) {
	h, _ := setupHandlers(t, nil, testResult())

	req := httptest.NewRequest(http.MethodGet, "/files?path=nope.inp", nil)
	rec := httptest.NewRecorder()
	h.FilePage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRulesPage(t *testing.T) {
	h, _ := setupHandlers(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	rec := httptest.NewRecorder()
	h.RulesPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "WS01")
	assert.Contains(t, body, "ST04")
	assert.Contains(t, body, "whitespace")
}

func TestRulesPage_SeverityFilterPersists(t *testing.T) {
	h, _ := setupHandlers(t, nil, nil)

	// First visit applies the filter and stores it in the session.
	req := httptest.NewRequest(http.MethodGet, "/rules?severity=error", nil)
	rec := httptest.NewRecorder()
	h.RulesPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ST04", "error-severity rules should remain")
	assert.NotContains(t, body, "WS01", "warning-severity rules should be filtered out")

	// A later visit without the parameter keeps the stored filter.
	req2 := httptest.NewRequest(http.MethodGet, "/rules", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	h.RulesPage(rec2, req2)

	body2 := rec2.Body.String()
	assert.Contains(t, body2, "ST04")
	assert.NotContains(t, body2, "WS01")
}

func TestBuildRuleGroups(t *testing.T) {
	groups := buildRuleGroups("")
	require.NotEmpty(t, groups)

	for i := 1; i < len(groups); i++ {
		assert.Less(t, groups[i-1].Name, groups[i].Name, "groups should be sorted")
	}

	errorsOnly := buildRuleGroups("error")
	require.NotEmpty(t, errorsOnly)
	for _, group := range errorsOnly {
		for _, rule := range group.Rules {
			assert.Equal(t, "error", rule.Severity)
		}
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcd1234", shortID("abcd1234-5678-90ab"))
	assert.Equal(t, "short", shortID("short"))
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", formatTimeAgo(now.Add(-30*time.Second)))
	assert.Equal(t, "5 minutes ago", formatTimeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "1 hour ago", formatTimeAgo(now.Add(-time.Hour)))
}

func TestFormatRunDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	end := start.Add(500 * time.Millisecond)
	assert.Equal(t, "500ms", formatRunDuration(start, &end))

	end = start.Add(2500 * time.Millisecond)
	assert.Equal(t, "2.5s", formatRunDuration(start, &end))

	end = start.Add(90 * time.Second)
	assert.Equal(t, "1m30s", formatRunDuration(start, &end))
}
