package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/dashboard"
	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/internal/state"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

// DashboardOptions holds options for the dashboard command.
type DashboardOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(version string) *cobra.Command {
	opts := &DashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Start the hanslint project dashboard",
		Long: `Start a local web server with a live view of the project.

The dashboard provides:
- Current diagnostics per script, updated on save
- Run history with severity trends
- The full rule reference`,
		Example: `  # Start the dashboard on the default port
  hanslint dashboard

  # Start on a custom port
  hanslint dashboard --port 3000

  # Start without auto-opening the browser
  hanslint dashboard --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, opts, version)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Re-lint when scripts change")

	return cmd
}

func runDashboard(cmd *cobra.Command, opts *DashboardOptions, version string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	dashCfg := cfg.GetDashboardConfig()

	// CLI flags override config file
	port := dashCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := dashCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watchScripts := dashCfg.Watch
	if cmd.Flags().Changed("watch") {
		watchScripts = opts.Watch
	}

	if _, err := os.Stat(cfg.ScriptsDir); os.IsNotExist(err) {
		return fmt.Errorf("scripts directory does not exist: %s", cfg.ScriptsDir)
	}

	// Custom rules must be registered before the runner is built so they
	// participate in the rule-set fingerprint.
	pluginCount, err := registerPluginRules(cfg)
	if err != nil {
		return err
	}
	if pluginCount > 0 {
		logger.Debug("registered custom rules", "count", pluginCount)
	}

	lintCfg, err := cfg.RuleConfig()
	if err != nil {
		return err
	}
	projectCfg := cfg.ProjectRuleConfig()

	var store state.Store
	if st, err := openStore(cfg, logger); err != nil {
		// Without the store the dashboard still works, minus run history.
		logger.Warn("state store unavailable", "error", err)
	} else {
		store = st
		defer func() { _ = store.Close() }()
	}

	run := runner.New(runner.Options{
		Root:          cfg.ProjectRoot,
		ScriptsDir:    cfg.ScriptsDir,
		Config:        lintCfg,
		ProjectConfig: projectCfg,
		Store:         store,
		Version:       version,
		Logger:        logger,
	})

	server := dashboard.NewServer(dashboard.Config{
		Runner:        run,
		Store:         store,
		Port:          port,
		Watch:         watchScripts,
		ScriptsDir:    cfg.ScriptsDir,
		Extensions:    projectCfg.ScriptExtensions,
		SessionSecret: generateSessionSecret(),
		Logger:        logger,
	})

	if autoOpen {
		url := fmt.Sprintf("http://localhost:%d", port)
		go openBrowser(url)
	}

	fmt.Printf("Starting dashboard on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// generateSessionSecret returns the session secret for cookie signing.
// Sessions only live as long as the server, so a fresh random secret
// per start is fine when none is configured.
func generateSessionSecret() string {
	if secret := os.Getenv("HANSLINT_SESSION_SECRET"); secret != "" {
		return secret
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "hanslint-dev-secret" //nolint:gosec
	}
	return hex.EncodeToString(b)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
