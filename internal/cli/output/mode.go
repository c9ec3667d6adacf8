package output

// Mode selects how command output is rendered.
type Mode string

// Output modes.
const (
	// ModeAuto picks text on a terminal and markdown when piped.
	ModeAuto Mode = "auto"
	// ModeText renders styled terminal output.
	ModeText Mode = "text"
	// ModeMarkdown renders plain markdown, suitable for piping into docs
	// or pull-request comments.
	ModeMarkdown Mode = "markdown"
	// ModeJSON renders machine-readable JSON on stdout; decorative
	// messages move to stderr.
	ModeJSON Mode = "json"
)

// normalize maps unknown mode strings to ModeAuto.
func normalize(m Mode) Mode {
	switch m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	default:
		return ModeAuto
	}
}
