package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/pkg/lint"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// chromeHeight is the number of fixed lines around the results viewport:
// header, status, and the key help footer.
const chromeHeight = 4

type lintDoneMsg struct {
	result *runner.Result
	err    error
}

type filesChangedMsg struct {
	paths []string
}

type watcherClosedMsg struct{}

// Model is the interactive watch session. It re-lints on file changes
// and shows the latest results in a scrollable viewport.
type Model struct {
	ctx     context.Context
	runner  *runner.Runner
	changes <-chan []string
	root    string

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool

	linting bool
	result  *runner.Result
	err     error
	lastRun time.Time
}

// NewModel creates the watch session model. Lint results come from the
// runner; change batches arrive on the channel produced by Watcher.Run.
func NewModel(ctx context.Context, r *runner.Runner, changes <-chan []string, root string) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(infoStyle))
	return Model{
		ctx:     ctx,
		runner:  r,
		changes: changes,
		root:    root,
		spinner: sp,
		linting: true,
	}
}

// Init starts the first lint run and begins waiting for file changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runLint(), m.waitForChanges())
}

// Update handles key presses, lint completions, and change batches.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.linting {
				return m, nil
			}
			m.linting = true
			return m, tea.Batch(m.spinner.Tick, m.runLint())
		}

	case tea.WindowSizeMsg:
		height := msg.Height - chromeHeight
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refreshContent()
		return m, nil

	case filesChangedMsg:
		m.linting = true
		return m, tea.Batch(m.spinner.Tick, m.runLint(), m.waitForChanges())

	case watcherClosedMsg:
		return m, tea.Quit

	case lintDoneMsg:
		m.linting = false
		m.result = msg.result
		m.err = msg.err
		m.lastRun = time.Now()
		m.refreshContent()
		return m, nil

	case spinner.TickMsg:
		if !m.linting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the session.
func (m Model) View() string {
	if !m.ready {
		return "starting watch mode..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("hanslint watch"))
	b.WriteString(mutedStyle.Render("  " + m.root))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("press q to quit, r to re-lint"))
	return b.String()
}

func (m Model) statusLine() string {
	if m.linting {
		return m.spinner.View() + " linting..."
	}
	if m.err != nil {
		return errorStyle.Render("✗") + " lint failed: " + m.err.Error()
	}
	if m.result == nil {
		return ""
	}

	s := m.result.Summary
	glyph := successStyle.Render("✓")
	if s.Errors > 0 {
		glyph = errorStyle.Render("✗")
	} else if s.TotalIssues > 0 {
		glyph = warningStyle.Render("!")
	}

	line := fmt.Sprintf("%s %d files, %d issues", glyph, s.FilesAnalyzed, s.TotalIssues)
	if n := m.result.TotalSuppressed(); n > 0 {
		line += fmt.Sprintf(", %d baselined", n)
	}
	line += mutedStyle.Render(fmt.Sprintf("  (%s at %s)",
		m.result.Duration.Round(time.Millisecond), m.lastRun.Format("15:04:05")))
	return line
}

// refreshContent rebuilds the viewport from the latest result.
func (m *Model) refreshContent() {
	if !m.ready || m.result == nil {
		return
	}
	m.viewport.SetContent(renderResult(m.result))
}

// renderResult formats the lint result as the viewport body.
func renderResult(res *runner.Result) string {
	var b strings.Builder

	for _, fe := range res.Errors {
		b.WriteString(errorStyle.Render("✗"))
		b.WriteString(" ")
		b.WriteString(fe.Path)
		b.WriteString(": ")
		b.WriteString(fe.Message)
		b.WriteString("\n")
	}

	clean := true
	for _, file := range res.Files {
		if len(file.Diagnostics) == 0 {
			continue
		}
		clean = false
		b.WriteString("\n")
		b.WriteString(pathStyle.Render(file.Path))
		b.WriteString("\n")
		for _, d := range file.Diagnostics {
			b.WriteString(formatDiagnostic(d))
			b.WriteString("\n")
		}
	}

	if clean && len(res.Errors) == 0 {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("No issues found."))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDiagnostic(d lint.Diagnostic) string {
	label, style := severityLabel(d.Severity)
	return fmt.Sprintf("  %s  %s  %s  %s",
		mutedStyle.Render(fmt.Sprintf("%4d:%-3d", d.Pos.Line, d.Pos.Column)),
		style.Render(label),
		mutedStyle.Render(d.RuleID),
		d.Message)
}

func severityLabel(s lint.Severity) (string, lipgloss.Style) {
	switch s {
	case lint.SeverityError:
		return "error  ", errorStyle
	case lint.SeverityWarning:
		return "warning", warningStyle
	case lint.SeverityInfo:
		return "info   ", infoStyle
	default:
		return "hint   ", mutedStyle
	}
}

// runLint executes a lint run off the UI goroutine.
func (m Model) runLint() tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Run(m.ctx)
		return lintDoneMsg{result: res, err: err}
	}
}

// waitForChanges blocks on the next change batch.
func (m Model) waitForChanges() tea.Cmd {
	return func() tea.Msg {
		paths, ok := <-m.changes
		if !ok {
			return watcherClosedMsg{}
		}
		return filesChangedMsg{paths: paths}
	}
}

// RunTUI runs the interactive watch session until the user quits or ctx
// is cancelled.
func RunTUI(ctx context.Context, r *runner.Runner, changes <-chan []string, root string) error {
	p := tea.NewProgram(NewModel(ctx, r, changes, root), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("watch session failed: %w", err)
	}
	return nil
}
