package cmd

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/pipeline"

	"github.com/spf13/cobra"
)

var departmentsCmd = &cobra.Command{
	Use:     "departments",
	Aliases: []string{"depts"},
	Short:   "Headcount rollup by department",
	Args:    cobra.NoArgs,
	RunE:    runDepartments,
}

func init() {
	rootCmd.AddCommand(departmentsCmd)
}

func runDepartments(cmd *cobra.Command, _ []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	nodes := env.tree.Nodes()
	depts := pipeline.AggregateDepartments(nodes)
	if len(depts) == 0 {
		fmt.Println("\n  No departments: the chart is empty.")
		return nil
	}

	rows := make([][]string, 0, len(depts)+1)
	admins, managers := 0, 0
	for _, d := range depts {
		rows = append(rows, []string{
			d.Department,
			cli.FormatNumber(int64(d.Headcount)),
			cli.FormatNumber(int64(d.Admins)),
			cli.FormatNumber(int64(d.Managers)),
			cli.FormatPercent(d.SharePercent),
		})
		admins += d.Admins
		managers += d.Managers
	}
	rows = append(rows, []string{
		"TOTAL",
		cli.FormatNumber(int64(len(nodes))),
		cli.FormatNumber(int64(admins)),
		cli.FormatNumber(int64(managers)),
		"",
	})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Departments",
		Headers: []string{"Department", "People", "Admins", "Managers", "Share"},
		Rows:    rows,
	}))
	fmt.Println()

	maxCount := float64(depts[0].Headcount)
	for _, d := range depts {
		fmt.Println(cli.RenderHorizontalBar(
			fmt.Sprintf("%-14s %s", cli.Truncate(d.Department, 14), cli.FormatPeople(d.Headcount)),
			float64(d.Headcount), maxCount, 30))
	}
	fmt.Println()

	spans := pipeline.SpanOfControl(nodes)
	if len(spans) == 0 {
		return nil
	}
	ids := make([]string, 0, len(spans))
	for id := range spans {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if spans[ids[i]] != spans[ids[j]] {
			return spans[ids[i]] > spans[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > 5 {
		ids = ids[:5]
	}

	spanRows := make([][]string, 0, len(ids))
	for _, id := range ids {
		n, err := env.tree.Get(id)
		if err != nil {
			continue
		}
		spanRows = append(spanRows, []string{n.Name, n.Title, cli.FormatCount(spans[id], "report")})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Widest Span of Control",
		Headers:   []string{"Manager", "Title", "Direct"},
		Rows:      spanRows,
		LeftAlign: true,
	}))
	fmt.Println()
	return nil
}
