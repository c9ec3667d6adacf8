package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/cli/config"
	"github.com/hansl-tools/hanslint/internal/docs"
	_ "github.com/hansl-tools/hanslint/pkg/lint/rules" // register built-in rules
)

// NewDocsCommand creates the docs command with subcommands.
func NewDocsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate and serve rule documentation",
		Long: `Generate a static reference page for every lint rule, or serve it
locally with live reload.

Custom rules from the plugin directory are documented alongside the
built-in ones.`,
	}

	// Add subcommands
	cmd.AddCommand(newDocsBuildCommand())
	cmd.AddCommand(newDocsServeCommand())

	return cmd
}

func newDocsBuildCommand() *cobra.Command {
	var outputPath string
	var title string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the static rule reference",
		Long:  `Generate a static HTML reference for all lint rules.`,
		Example: `  # Build docs with defaults
  hanslint docs build

  # Build to custom directory
  hanslint docs build --output ./public

  # Build with custom title
  hanslint docs build --title "House Style"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The config file is loaded after flag construction, so
			// unchanged flags take their values from it here.
			docsCfg := getConfig().GetDocsConfig()
			if !cmd.Flags().Changed("output") {
				outputPath = docsCfg.OutputDir
			}
			if !cmd.Flags().Changed("title") {
				title = docsCfg.Title
			}
			return runDocsBuild(outputPath, title)
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", config.DefaultDocsDir, "Output directory for the generated site")
	cmd.Flags().StringVar(&title, "title", "Hansl Style Rules", "Site title")

	return cmd
}

func newDocsServeCommand() *cobra.Command {
	var title string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rule reference locally",
		Long: `Serve the rule reference on a local HTTP server with live reload.

The page rebuilds when the config file or a custom rule changes.`,
		Example: `  # Serve docs on default port
  hanslint docs serve

  # Serve on custom port
  hanslint docs serve --port 3000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("title") {
				title = getConfig().GetDocsConfig().Title
			}
			return runDocsServe(title, port)
		},
	}

	cmd.Flags().StringVar(&title, "title", "Hansl Style Rules", "Site title")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")

	return cmd
}

func runDocsBuild(outputPath, title string) error {
	cfg := getConfig()

	fmt.Printf("Building rule documentation...\n")
	fmt.Printf("  Output: %s\n", outputPath)
	fmt.Printf("  Title:  %s\n", title)
	fmt.Println()

	gen := docs.NewGenerator(title)

	if err := gen.LoadPlugins(cfg.PluginsDir); err != nil {
		return fmt.Errorf("failed to load custom rules: %w", err)
	}

	if err := gen.Build(outputPath); err != nil {
		return fmt.Errorf("failed to build docs: %w", err)
	}

	fmt.Printf("Documentation generated successfully!\n")
	fmt.Printf("Open %s/index.html in your browser\n", outputPath)

	return nil
}

func runDocsServe(title string, port int) error {
	cfg := getConfig()

	fmt.Printf("Serving rule documentation on http://localhost:%d\n", port)
	fmt.Println()

	if err := docs.ServeDev(title, cfg.PluginsDir, config.GetConfigFileUsed(), port); err != nil {
		return fmt.Errorf("failed to serve docs: %w", err)
	}

	return nil
}
