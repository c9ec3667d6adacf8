package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRenderer(out, errOut, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want Mode
	}{
		{"auto resolves to markdown for buffers", ModeAuto, ModeMarkdown},
		{"text stays text", ModeText, ModeText},
		{"markdown stays markdown", ModeMarkdown, ModeMarkdown},
		{"json stays json", ModeJSON, ModeJSON},
		{"unknown falls back to auto", Mode("yaml"), ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestJSONOutput(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON)

	doc := LintOutput{
		Summary: LintSummary{FilesAnalyzed: 1, TotalIssues: 2, Warnings: 2},
		Files: []LintFileResult{
			{
				Path: "model.inp",
				Diagnostics: []LintDiagnostic{
					{RuleID: "LL01", Severity: "warning", Message: "line too long", Line: 3, Column: 81},
					{RuleID: "WS01", Severity: "warning", Message: "missing spaces", Line: 5, Column: 2, Fixable: true},
				},
			},
		},
	}
	require.NoError(t, r.JSON(doc))

	var decoded LintOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, doc, decoded)
	assert.Contains(t, out.String(), "  \"summary\"")
}

func TestStatusMessagesMoveToStderrInJSONMode(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeJSON)

	r.Success("all clean")
	r.Warning("2 issues")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "all clean")
	assert.Contains(t, errOut.String(), "2 issues")
}

func TestStatusMessagesOnStdoutInTextMode(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText)

	r.Success("all clean")

	assert.Contains(t, out.String(), "all clean")
	assert.Empty(t, errOut.String())
}

func TestHeader(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown)
		r.Header(2, "Rules")
		assert.Equal(t, "## Rules\n\n", out.String())
	})

	t.Run("json emits nothing", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON)
		r.Header(1, "Rules")
		assert.Empty(t, out.String())
	})
}

func TestStatusLine(t *testing.T) {
	t.Run("markdown uses task checkboxes", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown)
		r.StatusLine("hanslint.yaml", "success", "created")
		r.StatusLine("scripts/", "skipped", "")
		assert.Equal(t, "- [x] hanslint.yaml (created)\n- [ ] scripts/\n", out.String())
	})

	t.Run("text marks failures", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText)
		r.StatusLine("gretl on PATH", "error", "not found")
		assert.Contains(t, out.String(), "✗")
		assert.Contains(t, out.String(), "gretl on PATH")
		assert.Contains(t, out.String(), "not found")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Clamped", FormatHeader(0, "Clamped"))
	assert.Equal(t, "- **Severity:** warning", FormatKeyValue("Severity", "warning"))
}
