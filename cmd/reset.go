package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/pipeline"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the saved chart with the sample organization (admin only)",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

// runReset does not load the stored chart, so it also recovers a database
// whose chart fails validation.
func runReset(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	log := newLogger(cfg)
	op := operatorFor(cmd, cfg)
	if !op.IsAdmin {
		return fmt.Errorf("%w: %s cannot reset the chart", orgtree.ErrPermissionDenied, op.Name)
	}

	if !flagResetYes {
		confirm := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Replace the saved chart with the sample organization?").
				Description(dbPath(cfg)).
				Affirmative("Reset").
				Negative("Cancel").
				Value(&confirm),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("confirmation: %w", err)
		}
		if !confirm {
			fmt.Println("  Reset cancelled.")
			return nil
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	tree, err := pipeline.Reset(st)
	if err != nil {
		return err
	}
	log.WithField("operator", op.Name).Info("chart reset")

	fmt.Printf("  %s chart reset to %s\n", cli.OKStyle.Render("OK"), cli.FormatPeople(tree.Len()))
	return nil
}
