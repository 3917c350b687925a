package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagAddParent     string
	flagAddName       string
	flagAddTitle      string
	flagAddDepartment string
	flagAddIsAdmin    bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a person to the chart (admin only)",
	Long:  "Add a person under --parent, or as a new root when no parent is given. Empty fields get placeholder values.",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddParent, "parent", "", "Parent node id (empty adds a root)")
	addCmd.Flags().StringVar(&flagAddName, "name", "", "Name")
	addCmd.Flags().StringVar(&flagAddTitle, "title", "", "Job title")
	addCmd.Flags().StringVar(&flagAddDepartment, "department", "", "Department")
	addCmd.Flags().BoolVar(&flagAddIsAdmin, "is-admin", false, "Give the new person admin privileges")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	n, err := env.tree.Insert(env.op, flagAddParent, model.NodeFields{
		Name:       flagAddName,
		Title:      flagAddTitle,
		Department: flagAddDepartment,
		IsAdmin:    flagAddIsAdmin,
	})
	if err != nil {
		return err
	}
	env.log.WithFields(logrus.Fields{
		"id":       n.ID,
		"parent":   n.ReportsTo,
		"operator": env.op.Name,
	}).Debug("node added")

	if err := env.saveChart(); err != nil {
		return err
	}

	fmt.Printf("  %s %s\n", cli.OKStyle.Render("Added"), cli.RenderNodeLabel(n, true))
	return nil
}
