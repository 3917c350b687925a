package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:  %s\n", dbPath(cfg))
	fmt.Printf("    Auto save: %v\n", cfg.General.AutoSave)
	fmt.Println()

	fmt.Println("  [Operator]")
	op := operatorFor(cmd, cfg)
	fmt.Printf("    Name:  %s\n", op.Name)
	fmt.Printf("    Admin: %v\n", op.IsAdmin)
	if op.Name != cfg.Operator.Name || op.IsAdmin != cfg.Operator.Admin {
		fmt.Println("    (overridden by environment or flags)")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  Run `orgchart setup` to reconfigure.")
	return nil
}
