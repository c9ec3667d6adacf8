package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hansl-tools/hanslint/internal/cli/output"
	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/internal/watch"
	"github.com/hansl-tools/hanslint/pkg/lint"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Disable []string // Rules to disable
	Rules   []string // Only run these rules
	NoTUI   bool     // Plain line output instead of the interactive view
	NoCache bool     // Bypass the result cache
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(version string) *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-lint scripts as they change",
		Long: `Watch a directory for script changes and re-lint on every save.

In a terminal this opens an interactive view that updates in place.
When output is piped, or with --no-tui, results stream as plain lines
instead.`,
		Example: `  # Watch the configured scripts directory
  hanslint watch

  # Watch a specific directory
  hanslint watch analysis/

  # Stream plain output (for logs or CI tails)
  hanslint watch --no-tui`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts, version)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rules to disable (comma-separated IDs)")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Only run these rules (comma-separated IDs)")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Stream plain output instead of the interactive view")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Ignore cached results and re-lint every file")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions, version string) error {
	cmdCtx := NewCommandContext(cmd, "")
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	r := cmdCtx.Renderer

	// Custom rules must be registered before the runner is built so they
	// participate in the rule-set fingerprint.
	pluginCount, err := registerPluginRules(cfg)
	if err != nil {
		return err
	}
	if pluginCount > 0 {
		logger.Debug("registered custom rules", "count", pluginCount)
	}

	lintCfg, err := buildRuleConfig(cfg, opts.Disable, opts.Rules)
	if err != nil {
		return err
	}

	dir := cfg.ScriptsDir
	if len(args) > 0 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	projectCfg := cfg.ProjectRuleConfig()

	var store state.Store
	if !opts.NoCache {
		st, err := openStore(cfg, logger)
		if err != nil {
			// A broken cache never blocks linting.
			logger.Warn("state store unavailable", "error", err)
		} else {
			store = st
			defer func() { _ = store.Close() }()
		}
	}

	run := runner.New(runner.Options{
		Root:          cfg.ProjectRoot,
		ScriptsDir:    dir,
		Config:        lintCfg,
		ProjectConfig: projectCfg,
		Store:         store,
		Version:       version,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher := watch.NewWatcher(dir, projectCfg.ScriptExtensions, logger)
	changes, err := watcher.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !opts.NoTUI && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := watch.RunTUI(ctx, run, changes, dir); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	return streamWatch(ctx, r, run, changes, dir)
}

// streamWatch prints one result block per change batch. It runs a full
// pass first so the initial state is visible.
func streamWatch(ctx context.Context, r *output.Renderer, run *runner.Runner, changes <-chan []string, dir string) error {
	styles := r.Styles()

	r.Println(styles.Muted.Render(fmt.Sprintf("Watching %s  (Ctrl-C to stop)", dir)))

	result, err := run.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	renderWatchPass(r, result, time.Now())

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			result, err := run.LintFiles(ctx, batch)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				r.Warning(err.Error())
				continue
			}
			renderWatchPass(r, result, time.Now())
		}
	}
}

func renderWatchPass(r *output.Renderer, result *runner.Result, at time.Time) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("--- %s ---", at.Format("15:04:05"))))

	for _, fe := range result.Errors {
		r.Warning(fmt.Sprintf("%s: %s", fe.Path, fe.Message))
	}

	renderLintResult(r, result, lint.SeverityHint)
}
