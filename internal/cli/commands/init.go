package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hansl-tools/hanslint/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new hanslint project",
		Long: `Initialize a new hanslint project with default directory structure and configuration.

This creates:
  - scripts/ directory for Hansl scripts
  - .hanslint/rules/ directory for custom Starlark rules
  - hanslint.yaml configuration file

Use --example to create a working demo project with sample scripts, a
custom rule, and a script that intentionally fails a few checks.`,
		Example: `  # Initialize in current directory
  hanslint init

  # Initialize with a full working example
  hanslint init --example

  # Initialize in a new directory
  hanslint init my-analysis --example

  # Force overwrite existing config
  hanslint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if example {
				return runInitExample(r, dir, force)
			}
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create a full example project with scripts and a custom rule")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := dir + "/hanslint.yaml"
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("hanslint.yaml already exists. Use --force to overwrite")
	}

	// Copy minimal template
	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	// List created files
	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("hanslint project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add your Hansl scripts to scripts/")
	r.Println("  2. Run 'hanslint lint' to check them")
	r.Println("  3. Run 'hanslint fix' to apply mechanical fixes")
	r.Println("  4. Run 'hanslint rules' to see all checks")

	return nil
}

func runInitExample(r *output.Renderer, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := dir + "/hanslint.yaml"
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("hanslint.yaml already exists. Use --force to overwrite")
	}

	// Copy example template
	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	// List created files by category
	files, _ := listTemplateFiles("example")
	groups := groupTemplateFiles(files)

	// Display files by category
	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Header(2, "Scripts")
	for _, f := range groups["scripts"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Header(2, "Custom rules")
	for _, f := range groups["rules"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("hanslint project initialized with example scripts!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  hanslint lint       Check every script (the example has findings to show)")
	r.Println("  hanslint fix        Apply the mechanical fixes")
	r.Println("  hanslint watch      Re-lint on every save")
	r.Println("  hanslint dashboard  Browse results in the browser")

	return nil
}
