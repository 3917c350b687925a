package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/tui"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	fmt.Println()
	fmt.Println("  Welcome to orgchart!")
	fmt.Println()

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	vals.Apply(&cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `orgchart setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
