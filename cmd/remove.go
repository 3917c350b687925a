package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/orgchart/internal/cli"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Remove a person and everyone reporting to them (admin only)",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	// Names are gone once the subtree is removed.
	names := make(map[string]string)
	if ids, err := env.tree.Subtree(args[0]); err == nil {
		for _, id := range ids {
			if n, err := env.tree.Get(id); err == nil {
				names[id] = n.Name
			}
		}
	}

	removed, err := env.tree.Remove(env.op, args[0])
	if err != nil {
		return err
	}
	env.log.WithFields(logrus.Fields{
		"id":       args[0],
		"removed":  len(removed),
		"operator": env.op.Name,
	}).Debug("subtree removed")

	if err := env.saveChart(); err != nil {
		return err
	}

	fmt.Printf("  %s %s\n", cli.OKStyle.Render("Removed"), cli.FormatPeople(len(removed)))
	labels := make([]string, len(removed))
	for i, id := range removed {
		labels[i] = names[id] + " #" + id
	}
	if !flagQuiet {
		fmt.Printf("    %s\n", strings.Join(labels, "\n    "))
	}
	return nil
}
