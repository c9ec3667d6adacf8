package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hansl-tools/hanslint/internal/cli"
	"github.com/hansl-tools/hanslint/internal/cli/commands"
	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/cli/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

// runRoot executes the root command with the given arguments and returns the
// combined output. Config state is reset first because the root command caches
// the loaded configuration between invocations.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	config.ResetConfig()

	cmd := cli.NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "hanslint v"+cli.Version) {
		t.Errorf("expected version %q in output, got:\n%s", cli.Version, out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, err := runRoot(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	expected := []string{
		"lint",
		"fix",
		"rules",
		"watch",
		"init",
		"doctor",
		"repl",
		"docs",
		"dashboard",
		"version",
		"completion",
	}
	for _, name := range expected {
		if !strings.Contains(out, name) {
			t.Errorf("expected command %q in help output, got:\n%s", name, out)
		}
	}
}

func TestLintCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	t.Run("reports issues", func(t *testing.T) {
		out, err := runRoot(t, "lint", "--project-dir", dir, "--no-cache")
		if !errors.Is(err, commands.ErrIssuesFound) {
			t.Fatalf("expected ErrIssuesFound, got %v", err)
		}
		if !strings.Contains(out, "untidy.inp") {
			t.Errorf("expected untidy.inp in output, got:\n%s", out)
		}
		if !strings.Contains(out, "NM02") {
			t.Errorf("expected NM02 finding in output, got:\n%s", out)
		}
	})

	t.Run("clean file passes", func(t *testing.T) {
		out, err := runRoot(t, "lint", "--project-dir", dir, "--no-cache",
			filepath.Join(dir, "scripts", "estimate.inp"))
		if err != nil {
			t.Fatalf("lint failed on clean file: %v", err)
		}
		if !strings.Contains(out, "No lint issues found") {
			t.Errorf("expected clean report, got:\n%s", out)
		}
	})
}

func TestRulesCommand(t *testing.T) {
	out, err := runRoot(t, "rules")
	if err != nil {
		t.Fatalf("rules command failed: %v", err)
	}
	for _, id := range []string{"NM01", "WS01", "LL01", "CM01", "PF01"} {
		if !strings.Contains(out, id) {
			t.Errorf("expected rule %q in output, got:\n%s", id, out)
		}
	}

	out, err = runRoot(t, "rules", "NM01")
	if err != nil {
		t.Fatalf("rules NM01 failed: %v", err)
	}
	if !strings.Contains(out, "naming") {
		t.Errorf("expected rule group in output, got:\n%s", out)
	}
}

func TestDoctorCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, err := runRoot(t, "doctor", "--project-dir", dir)
	if err != nil {
		t.Fatalf("doctor command failed: %v", err)
	}
	if !strings.Contains(out, "Health Score") {
		t.Errorf("expected health score in output, got:\n%s", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "analysis")

	out, err := runRoot(t, "init", target)
	if err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if !strings.Contains(out, "hanslint.yaml") {
		t.Errorf("expected created config in output, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(target, "hanslint.yaml")); err != nil {
		t.Errorf("expected hanslint.yaml to exist: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runRoot(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if len(out) == 0 {
				t.Errorf("expected %s completion script, got empty output", shell)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := runRoot(t, "no-such-command")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestExitCode(t *testing.T) {
	if got := cli.ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := cli.ExitCode(commands.ErrIssuesFound); got != 1 {
		t.Errorf("ExitCode(ErrIssuesFound) = %d, want 1", got)
	}
	if got := cli.ExitCode(errors.New("boom")); got != 2 {
		t.Errorf("ExitCode(err) = %d, want 2", got)
	}
}
