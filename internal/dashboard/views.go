package dashboard

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/pkg/lint"
)

// datastarSrc is the client runtime that drives the SSE live updates.
const datastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

func esc(s string) string { return html.EscapeString(s) }

// page renders a full document: head, top navigation, and the content
// wrapped in the patchable view shell.
func page(title, currentPath, updatesURL string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		fmt.Fprintf(&b, "<title>%s - hanslint</title>\n", esc(title))
		b.WriteString("<link rel=\"stylesheet\" href=\"/static/style.css\">\n")
		fmt.Fprintf(&b, "<script type=\"module\" src=\"%s\"></script>\n", datastarSrc)
		b.WriteString("</head>\n<body>\n")

		b.WriteString("<header class=\"topbar\">\n<span class=\"brand\">hanslint</span>\n<nav>\n")
		for _, link := range []struct{ href, label string }{
			{"/", "Overview"},
			{"/runs", "Runs"},
			{"/rules", "Rules"},
		} {
			active := ""
			if link.href == currentPath {
				active = " class=\"active\""
			}
			fmt.Fprintf(&b, "<a href=%q%s>%s</a>\n", link.href, active, link.label)
		}
		b.WriteString("</nav>\n</header>\n<main>\n")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := viewShell(updatesURL, content).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// viewShell wraps page content in the element that SSE updates patch.
// The data-init attribute stays identical across patches, so the morph
// never re-subscribes the SSE stream.
func viewShell(updatesURL string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := "<div id=\"view\">\n"
		if updatesURL != "" {
			open = fmt.Sprintf("<div id=\"view\" data-init=\"@get('%s')\">\n", updatesURL)
		}
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

// overviewContent renders the summary cards and the per-file issue
// table for the latest lint result.
func overviewContent(data overviewData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder

		if !data.HasResult {
			b.WriteString("<p class=\"empty\">Waiting for the first lint run...</p>\n")
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString("<section class=\"stats\">\n")
		writeStat(&b, "Scripts", data.Files, "")
		writeStat(&b, "Errors", data.Errors, "error")
		writeStat(&b, "Warnings", data.Warnings, "warning")
		writeStat(&b, "Info", data.Info, "info")
		writeStat(&b, "Hints", data.Hints, "hint")
		if data.Suppressed > 0 {
			writeStat(&b, "Baselined", data.Suppressed, "")
		}
		b.WriteString("</section>\n")

		fmt.Fprintf(&b, "<p class=\"meta\">linted in %s, updated %s</p>\n",
			data.Duration.Round(time.Millisecond), data.UpdatedAt.Format("15:04:05"))

		if len(data.FileErrors) > 0 {
			b.WriteString("<section class=\"file-errors\">\n<h2>Failed files</h2>\n<ul>\n")
			for _, fe := range data.FileErrors {
				fmt.Fprintf(&b, "<li><code>%s</code>: %s</li>\n", esc(fe.Path), esc(fe.Message))
			}
			b.WriteString("</ul>\n</section>\n")
		}

		if len(data.FileRows) == 0 {
			if len(data.FileErrors) == 0 {
				b.WriteString("<p class=\"all-clear\">No issues found.</p>\n")
			}
		} else {
			b.WriteString("<table class=\"file-table\">\n<thead><tr>" +
				"<th>Script</th><th>Errors</th><th>Warnings</th><th>Info</th><th>Hints</th>" +
				"</tr></thead>\n<tbody>\n")
			for _, row := range data.FileRows {
				fmt.Fprintf(&b, "<tr><td><a href=\"/files?path=%s\">%s</a>",
					url.QueryEscape(row.Path), esc(row.Path))
				if row.FromCache {
					b.WriteString(" <span class=\"cached\">cached</span>")
				}
				b.WriteString("</td>")
				writeCount(&b, row.Errors, "error")
				writeCount(&b, row.Warnings, "warning")
				writeCount(&b, row.Info, "info")
				writeCount(&b, row.Hints, "hint")
				b.WriteString("</tr>\n")
			}
			b.WriteString("</tbody>\n</table>\n")
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeStat(b *strings.Builder, label string, value int, severity string) {
	class := "stat"
	if severity != "" && value > 0 {
		class += " stat-" + severity
	}
	fmt.Fprintf(b, "<div class=%q><span class=\"stat-value\">%d</span><span class=\"stat-label\">%s</span></div>\n",
		class, value, label)
}

func writeCount(b *strings.Builder, n int, severity string) {
	if n == 0 {
		b.WriteString("<td class=\"zero\">0</td>")
		return
	}
	fmt.Fprintf(b, "<td class=\"count-%s\">%d</td>", severity, n)
}

// runsContent renders the run history table.
func runsContent(rows []runRow) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>Run history</h1>\n")

		if len(rows) == 0 {
			b.WriteString("<p class=\"empty\">No runs recorded yet.</p>\n")
			_, err := io.WriteString(w, b.String())
			return err
		}

		b.WriteString("<table class=\"runs-table\">\n<thead><tr>" +
			"<th>Run</th><th>Started</th><th>Duration</th><th>Scripts</th><th>Issues</th>" +
			"</tr></thead>\n<tbody>\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "<tr><td><code>%s</code></td><td>%s</td><td>%s</td><td>%d</td><td>",
				esc(row.ID), esc(row.StartedAt), esc(row.Duration), row.Files)
			if row.Running {
				b.WriteString("<span class=\"badge\">running</span>")
			} else {
				b.WriteString(issueBadges(row.Errors, row.Warnings, row.Info, row.Hints))
			}
			b.WriteString("</td></tr>\n")
		}
		b.WriteString("</tbody>\n</table>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// issueBadges renders non-zero severity counts as compact badges.
func issueBadges(errors, warnings, info, hints int) string {
	var parts []string
	for _, c := range []struct {
		n        int
		severity string
	}{
		{errors, "error"},
		{warnings, "warning"},
		{info, "info"},
		{hints, "hint"},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("<span class=\"badge badge-%s\">%d %s</span>", c.severity, c.n, c.severity))
		}
	}
	if len(parts) == 0 {
		return "<span class=\"badge badge-clean\">clean</span>"
	}
	return strings.Join(parts, " ")
}

// fileContent renders the findings for a single script.
func fileContent(report *runner.FileReport) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<h1><code>%s</code></h1>\n", esc(report.Path))
		if report.FromCache {
			b.WriteString("<p class=\"meta\">served from cache</p>\n")
		}

		if len(report.Diagnostics) == 0 {
			b.WriteString("<p class=\"all-clear\">No issues found.</p>\n")
		} else {
			writeDiagnosticsTable(&b, report.Diagnostics)
		}

		if len(report.Suppressed) > 0 {
			fmt.Fprintf(&b, "<h2>Baselined (%d)</h2>\n", len(report.Suppressed))
			writeDiagnosticsTable(&b, report.Suppressed)
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeDiagnosticsTable(b *strings.Builder, diags []lint.Diagnostic) {
	b.WriteString("<table class=\"diag-table\">\n<thead><tr>" +
		"<th>Location</th><th>Severity</th><th>Rule</th><th>Message</th>" +
		"</tr></thead>\n<tbody>\n")
	for _, d := range diags {
		severity := d.Severity.String()
		fmt.Fprintf(b, "<tr><td>%d:%d</td><td><span class=\"badge badge-%s\">%s</span></td><td><code>%s</code></td><td>%s</td></tr>\n",
			d.Pos.Line, d.Pos.Column, severity, severity, esc(d.RuleID), esc(d.Message))
	}
	b.WriteString("</tbody>\n</table>\n")
}

// rulesContent renders the rule reference grouped by rule group, with
// an optional severity filter.
func rulesContent(groups []ruleGroup, filter string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>Rules</h1>\n")

		b.WriteString("<form class=\"rules-filter\" method=\"get\" action=\"/rules\">\n" +
			"<label for=\"severity\">Severity</label>\n<select id=\"severity\" name=\"severity\">\n")
		for _, opt := range []string{"all", "error", "warning", "info", "hint"} {
			selected := ""
			if opt == filter || (opt == "all" && filter == "") {
				selected = " selected"
			}
			fmt.Fprintf(&b, "<option value=%q%s>%s</option>\n", opt, selected, opt)
		}
		b.WriteString("</select>\n<button type=\"submit\">Apply</button>\n</form>\n")

		if len(groups) == 0 {
			b.WriteString("<p class=\"empty\">No rules match the filter.</p>\n")
		}

		for _, group := range groups {
			fmt.Fprintf(&b, "<h2>%s</h2>\n", esc(group.Name))
			b.WriteString("<table class=\"rules-table\">\n<thead><tr>" +
				"<th>ID</th><th>Name</th><th>Severity</th><th>Type</th><th>Description</th>" +
				"</tr></thead>\n<tbody>\n")
			for _, rule := range group.Rules {
				fmt.Fprintf(&b, "<tr><td><code>%s</code></td><td>%s</td><td><span class=\"badge badge-%s\">%s</span></td><td>%s</td><td>%s</td></tr>\n",
					esc(rule.ID), esc(rule.Name), rule.Severity, rule.Severity, esc(rule.Type), esc(rule.Description))
			}
			b.WriteString("</tbody>\n</table>\n")
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}
