package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTreeIDs bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the chart as a tree",
	Args:  cobra.NoArgs,
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&flagTreeIDs, "ids", false, "Show node ids")
	rootCmd.Flags().BoolVar(&flagTreeIDs, "ids", false, "Show node ids")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, _ []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Println()
	fmt.Println(cli.RenderTitle("Organization Chart"))
	fmt.Println()

	if env.tree.Len() == 0 {
		fmt.Println("  (empty chart)")
		fmt.Println()
		return nil
	}

	fmt.Print(cli.RenderTree(cli.TreeLines(env.tree), flagTreeIDs))
	fmt.Println()

	depts := pipeline.AggregateDepartments(env.tree.Nodes())
	fmt.Printf("  %s in %s, %s\n",
		cli.FormatPeople(env.tree.Len()),
		cli.FormatCount(len(depts), "department"),
		cli.FormatCount(len(env.tree.Roots()), "root"),
	)
	fmt.Println()
	return nil
}
