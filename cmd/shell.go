package cmd

import (
	"os"
	"path/filepath"

	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/pipeline"
	"github.com/theirongolddev/orgchart/internal/shell"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive chart shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	env, err := loadChart(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	sess := shell.NewSession(env.tree, env.op, os.Stdout)
	sess.Log = env.log
	if !flagNoSave {
		sess.SaveFunc = func(t *orgtree.Tree) error {
			return pipeline.Save(env.store, t)
		}
		sess.AutoSave = env.cfg.General.AutoSave
	}

	if err := os.MkdirAll(config.DataDir(), 0o750); err != nil {
		env.log.WithError(err).Warn("shell history disabled")
	}
	return sess.Run(shell.Config{
		HistoryFile: filepath.Join(config.DataDir(), "shell_history"),
	})
}
