package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
	"github.com/hansl-tools/hanslint/pkg/parser"
	"github.com/hansl-tools/hanslint/pkg/token"
)

const (
	replPrompt = "hansl> "
	contPrompt = "  ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Lint Hansl snippets interactively",
		Long: `Start an interactive session that lints Hansl snippets as you type.

A snippet is checked as soon as every block (if, loop, function, ...)
is closed, so multi-line constructs can be pasted or typed naturally.
End a line with a backslash to continue it.`,
		Example: `  hanslint repl`,
		RunE:    runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd, "")
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Custom rules join the session; a broken plugin dir is reported but
	// does not keep the REPL from starting.
	if _, err := registerPluginRules(cfg); err != nil {
		r.Warning(err.Error())
	}

	lintCfg, err := cfg.RuleConfig()
	if err != nil {
		return err
	}
	analyzer := lint.NewAnalyzer(lintCfg)

	// Setup history file (project-local)
	historyFile := filepath.Join(filepath.Dir(cfg.StatePath), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newHanslCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hanslint REPL (%d rules active)\n", len(lint.AllRules()))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" && buffer.Len() == 0 {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(trimmed, ".") {
			if handled := handleREPLCommand(cmd, r, trimmed); handled {
				if trimmed == ".quit" || trimmed == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate until every block is closed
		buffer.WriteString(line)
		buffer.WriteString("\n")
		if needsMoreInput(buffer.String()) {
			rl.SetPrompt(contPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		source := buffer.String()
		buffer.Reset()

		lintSnippet(r, analyzer, source)
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// needsMoreInput reports whether the accumulated source is still an
// open construct: an unclosed block or a trailing line continuation.
func needsMoreInput(source string) bool {
	if strings.HasSuffix(strings.TrimRight(source, "\n"), "\\") {
		return true
	}
	script := parser.ScanScript("repl", source)
	for _, b := range script.Blocks {
		if !b.Closed() {
			return true
		}
	}
	return false
}

func lintSnippet(r *output.Renderer, analyzer *lint.Analyzer, source string) {
	script := parser.ScanScript("repl", source)
	diags := analyzer.Analyze(script)
	lint.SortDiagnostics(diags)

	if len(diags) == 0 {
		r.Success("clean")
		return
	}

	for _, d := range diags {
		loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
		r.Printf("  %s  %s  %s  %s\n",
			r.Styles().Muted.Render(fmt.Sprintf("%-5s", loc)),
			severityStyle(r, d.Severity),
			r.Styles().Bold.Render(d.RuleID),
			d.Message,
		)
	}
}

func handleREPLCommand(cmd *cobra.Command, r *output.Renderer, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".rules":
		for _, rule := range lint.AllRules() {
			r.Printf("  %s  %s\n", r.Styles().Bold.Render(rule.ID), r.Styles().Muted.Render(rule.Name))
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .rules          List active rule IDs
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - A snippet is linted once every block is closed
  - End a line with \ to continue it
  - Use arrow keys to navigate history
  - Tab completion works for gretl command words
`
	_, _ = fmt.Fprintln(w, help)
}

// newHanslCompleter creates a readline completer for gretl command
// words and the REPL dot-commands.
func newHanslCompleter() *readline.PrefixCompleter {
	names := token.CommandNames()
	sort.Strings(names)

	items := make([]readline.PrefixCompleterInterface, 0, len(names)+4)
	for _, name := range names {
		items = append(items, readline.PcItem(name))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".rules"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
