package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/cli"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one person with their management chain and reports",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	n, err := env.tree.Get(args[0])
	if err != nil {
		return err
	}
	chain, err := env.tree.Ancestors(n.ID)
	if err != nil {
		return err
	}
	reports, err := env.tree.Children(n.ID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(n.Name))
	fmt.Println()
	fmt.Print(cli.RenderNodeDetail(n, chain, reports))
	fmt.Println()
	return nil
}
