package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for text-mode output. When the
// renderer is not writing to a color terminal every field is a plain
// pass-through style.
type Styles struct {
	Bold       lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Info       lipgloss.Style
	Success    lipgloss.Style
	Header1    lipgloss.Style
	Header2    lipgloss.Style
	ScriptPath lipgloss.Style
}

func newStyles(colored bool) *Styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return &Styles{
			Bold:       plain,
			Muted:      plain,
			Error:      plain,
			Warning:    plain,
			Info:       plain,
			Success:    plain,
			Header1:    plain,
			Header2:    plain,
			ScriptPath: plain,
		}
	}

	return &Styles{
		Bold:       lipgloss.NewStyle().Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Header1:    lipgloss.NewStyle().Bold(true).Underline(true),
		Header2:    lipgloss.NewStyle().Bold(true),
		ScriptPath: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// colorEnabled reports whether styled output makes sense for w.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !isTerminal(w) {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
