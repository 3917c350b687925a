package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/pipeline"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

var flagSearchDepartment string

var searchCmd = &cobra.Command{
	Use:   "search [QUERY]",
	Short: "Find people by name, title or department",
	Long:  "Case-insensitive substring search over name, title and department. An empty query lists everyone.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchDepartment, "department", "", "Only keep matches in this department (substring match)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	matches := env.tree.Search(query)
	if flagSearchDepartment != "" {
		matches = pipeline.FilterByDepartment(matches, flagSearchDepartment)
	}

	if len(matches) == 0 {
		fmt.Println("\n  No matches.")
		return nil
	}

	rows := make([][]string, 0, len(matches))
	for _, n := range matches {
		manager := "-"
		if p, err := env.tree.Get(n.ReportsTo); err == nil {
			manager = p.Name
		}
		rows = append(rows, []string{
			n.ID,
			cli.Truncate(n.Name, 28),
			cli.Truncate(n.Title, 28),
			n.Department,
			manager,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     english.Plural(len(matches), "match", "matches"),
		Headers:   []string{"ID", "Name", "Title", "Department", "Reports to"},
		Rows:      rows,
		LeftAlign: true,
	}))
	fmt.Println()
	return nil
}
