package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Change a person's name (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, "rename", func(env *chartEnv) (model.Node, error) {
			return env.tree.Rename(env.op, args[0], args[1])
		})
	},
}

var retitleCmd = &cobra.Command{
	Use:   "retitle ID TITLE",
	Short: "Change a person's job title (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, "retitle", func(env *chartEnv) (model.Node, error) {
			return env.tree.UpdateTitle(env.op, args[0], args[1])
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest ID",
	Short: "Apply a suggested job title (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, "suggest", func(env *chartEnv) (model.Node, error) {
			return env.tree.SuggestTitle(env.op, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(retitleCmd)
	rootCmd.AddCommand(suggestCmd)
}

// runEdit loads the chart, applies one field edit and saves.
func runEdit(cmd *cobra.Command, action string, edit func(*chartEnv) (model.Node, error)) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	n, err := edit(env)
	if err != nil {
		return err
	}
	env.log.WithFields(logrus.Fields{
		"id":       n.ID,
		"action":   action,
		"operator": env.op.Name,
	}).Debug("node updated")

	if err := env.saveChart(); err != nil {
		return err
	}

	fmt.Printf("  %s %s\n", cli.OKStyle.Render("Updated"), cli.RenderNodeLabel(n, true))
	return nil
}
