// Package output renders command results as styled text, markdown, or
// JSON. Commands write through a Renderer so the same code path serves
// terminals, pipes, and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. Unknown modes fall back to auto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: normalize(mode)}
	r.styles = newStyles(r.EffectiveMode() == ModeText && colorEnabled(out))
	return r
}

// EffectiveMode resolves ModeAuto against the output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if isTerminal(r.out) {
		return ModeText
	}
	return ModeMarkdown
}

// Writer returns the primary output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error/decoration writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set for the current mode. In markdown and
// JSON modes every style renders text unchanged.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to the primary output.
func (r *Renderer) Println(s string) {
	fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to the primary output.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// JSON encodes v as indented JSON on the primary output.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success reports a positive outcome. In JSON mode it goes to stderr so
// stdout stays machine-readable.
func (r *Renderer) Success(msg string) {
	r.statusMessage(r.styles.Success.Render("✓"), msg)
}

// Warning reports a non-fatal problem.
func (r *Renderer) Warning(msg string) {
	r.statusMessage(r.styles.Warning.Render("!"), msg)
}

// Error reports a failure.
func (r *Renderer) Error(msg string) {
	r.statusMessage(r.styles.Error.Render("✗"), msg)
}

func (r *Renderer) statusMessage(glyph, msg string) {
	w := r.out
	if r.EffectiveMode() == ModeJSON {
		w = r.errOut
	}
	fmt.Fprintf(w, "%s %s\n", glyph, msg)
}

// Header writes a section heading appropriate for the mode.
func (r *Renderer) Header(level int, text string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		r.Println(FormatHeader(level, text))
		r.Println("")
	default:
		style := r.styles.Header2
		if level <= 1 {
			style = r.styles.Header1
		}
		r.Println("")
		r.Println(style.Render(text))
	}
}

// StatusLine writes a per-item progress line, e.g. for files created by
// init or checks run by doctor. Status is one of "success", "warning",
// "error", or anything else for a neutral marker.
func (r *Renderer) StatusLine(name, status, note string) {
	if r.EffectiveMode() == ModeMarkdown {
		mark := " "
		if status == "success" {
			mark = "x"
		}
		line := fmt.Sprintf("- [%s] %s", mark, name)
		if note != "" {
			line += " (" + note + ")"
		}
		r.Println(line)
		return
	}

	var glyph string
	switch status {
	case "success":
		glyph = r.styles.Success.Render("✓")
	case "warning":
		glyph = r.styles.Warning.Render("!")
	case "error":
		glyph = r.styles.Error.Render("✗")
	default:
		glyph = r.styles.Muted.Render("-")
	}

	line := fmt.Sprintf("  %s %s", glyph, name)
	if note != "" {
		line += " " + r.styles.Muted.Render(note)
	}

	w := r.out
	if r.EffectiveMode() == ModeJSON {
		w = r.errOut
	}
	fmt.Fprintln(w, line)
}

// FormatHeader renders a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue renders a markdown key/value bullet.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
