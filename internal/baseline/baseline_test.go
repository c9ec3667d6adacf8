package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansl-tools/hanslint/pkg/lint"
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

func diag(rule string, line int) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID:   rule,
		Severity: lint.SeverityWarning,
		Message:  rule + " finding",
		Pos:      token.Position{Line: line, Column: 1},
	}
}

func TestBaselineRoundTrip(t *testing.T) {
	script := parser.ScanScript("model.inp", "x=1\nscalar y = 2\n")

	b := New()
	b.Add("scripts/model.inp", script, diag("WS01", 1))
	b.Add("scripts/model.inp", script, diag("ST02", 1))

	path := filepath.Join(t.TempDir(), "hanslint-baseline.yaml")
	require.NoError(t, b.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, loaded.Version)
	assert.False(t, loaded.Generated.IsZero())
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, "WS01", loaded.Findings[0].Rule)
	assert.Equal(t, "scripts/model.inp", loaded.Findings[0].Path)
	assert.NotEmpty(t, loaded.Findings[0].LineHash)
}

func TestFilterSuppressesBaselinedFindings(t *testing.T) {
	script := parser.ScanScript("model.inp", "x=1\ny=2\n")

	b := New()
	b.Add("model.inp", script, diag("WS01", 1))

	kept, suppressed := b.Filter("model.inp", script, []lint.Diagnostic{
		diag("WS01", 1),
		diag("WS01", 2),
	})

	require.Len(t, suppressed, 1)
	assert.Equal(t, 1, suppressed[0].Pos.Line)
	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].Pos.Line)
}

func TestFilterSurvivesLineShift(t *testing.T) {
	before := parser.ScanScript("model.inp", "x=1\n")

	b := New()
	b.Add("model.inp", before, diag("WS01", 1))

	// The offending line moved down but its content is unchanged.
	after := parser.ScanScript("model.inp", "# header\n\nscalar n = 3\nx=1\n")
	kept, suppressed := b.Filter("model.inp", after, []lint.Diagnostic{diag("WS01", 4)})

	assert.Empty(t, kept)
	require.Len(t, suppressed, 1)
	assert.Equal(t, 4, suppressed[0].Pos.Line)
}

func TestFilterConsumesOneDiagnosticPerEntry(t *testing.T) {
	script := parser.ScanScript("model.inp", "x=1+2\n")

	b := New()
	b.Add("model.inp", script, diag("WS01", 1))

	// Two findings on the baselined line: only one is covered.
	kept, suppressed := b.Filter("model.inp", script, []lint.Diagnostic{
		diag("WS01", 1),
		diag("WS01", 1),
	})

	assert.Len(t, suppressed, 1)
	assert.Len(t, kept, 1)
}

func TestFilterDoesNotCrossRuleOrPath(t *testing.T) {
	script := parser.ScanScript("model.inp", "x=1\n")

	b := New()
	b.Add("model.inp", script, diag("WS01", 1))

	t.Run("different rule", func(t *testing.T) {
		kept, suppressed := b.Filter("model.inp", script, []lint.Diagnostic{diag("ST02", 1)})
		assert.Len(t, kept, 1)
		assert.Empty(t, suppressed)
	})

	t.Run("different path", func(t *testing.T) {
		kept, suppressed := b.Filter("other.inp", script, []lint.Diagnostic{diag("WS01", 1)})
		assert.Len(t, kept, 1)
		assert.Empty(t, suppressed)
	})
}

func TestRemaining(t *testing.T) {
	script := parser.ScanScript("model.inp", "x=1\ny=2\n")

	b := New()
	b.Add("model.inp", script, diag("WS01", 1))
	b.Add("model.inp", script, diag("WS01", 2))

	b.Filter("model.inp", script, []lint.Diagnostic{diag("WS01", 1)})

	assert.Equal(t, 1, b.Remaining(), "unmatched entries indicate a stale baseline")
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("findings: [unclosed"), 0o644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse baseline")
	})

	t.Run("future format version", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "future.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 99\nfindings: []\n"), 0o644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "format version 99")
	})
}

func TestFilterWithNilBaseline(t *testing.T) {
	script := parser.ScanScript("model.inp", "x=1\n")
	var b *Baseline

	diags := []lint.Diagnostic{diag("WS01", 1)}
	kept, suppressed := b.Filter("model.inp", script, diags)

	assert.Equal(t, diags, kept)
	assert.Empty(t, suppressed)
}
