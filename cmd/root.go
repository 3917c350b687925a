// Package cmd implements the orgchart CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/logging"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/pipeline"
	"github.com/theirongolddev/orgchart/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagAs      string
	flagAdmin   bool
	flagQuiet   bool
	flagVerbose bool
	flagNoSave  bool
)

var rootCmd = &cobra.Command{
	Use:           "orgchart",
	Short:         "Organization chart editor",
	Long:          "Browse and edit an organization chart from the terminal: tree output, an interactive shell, a TUI and an HTTP API.",
	RunE:          runTree,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "  "+cli.ErrorStyle.Render(describeError(err)))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Chart database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagAs, "as", "", "Operator name (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagAdmin, "admin", false, "Act with admin privileges")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().BoolVar(&flagNoSave, "no-save", false, "Do not write changes back to the database")
}

// chartEnv is what every chart command works against: the loaded tree, the
// store it came from and who is acting on it.
type chartEnv struct {
	cfg    config.Config
	log    *logrus.Logger
	store  *store.Store
	tree   *orgtree.Tree
	op     model.Operator
	seeded bool
}

func (e *chartEnv) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

// loadConfig reads the config file, falling back to defaults with a warning.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults: %v\n", err)
		}
		return config.DefaultConfig()
	}
	return cfg
}

func newLogger(cfg config.Config) *logrus.Logger {
	log := logging.New(cfg.Logging, os.Stderr)
	switch {
	case flagVerbose:
		log.SetLevel(logrus.DebugLevel)
	case flagQuiet:
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// operatorFor resolves the acting operator: config and env first, then the
// --as and --admin flags.
func operatorFor(cmd *cobra.Command, cfg config.Config) model.Operator {
	op := config.GetOperator(cfg)
	if flagAs != "" {
		op.Name = flagAs
	}
	if cmd != nil && cmd.Flags().Changed("admin") {
		op.IsAdmin = flagAdmin
	}
	return op
}

func dbPath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.GetDBPath(cfg)
}

// openStore opens the chart database, creating its directory if needed.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(dbPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening chart database: %w", err)
	}
	return st, nil
}

// loadChart is the shared loading path used by all chart commands.
func loadChart(cmd *cobra.Command) (*chartEnv, error) {
	cfg := loadConfig()
	env := &chartEnv{
		cfg: cfg,
		log: newLogger(cfg),
		op:  operatorFor(cmd, cfg),
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	env.store = st

	res, err := pipeline.Load(st)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.tree = res.Tree
	env.seeded = res.Seeded

	env.log.WithFields(logrus.Fields{
		"db":      dbPath(cfg),
		"nodes":   res.Tree.Len(),
		"seeded":  res.Seeded,
		"elapsed": res.LoadTime,
	}).Debug("chart loaded")

	if res.Seeded && !flagQuiet {
		fmt.Fprintln(os.Stderr, "  No saved chart, starting from the sample organization")
	}
	return env, nil
}

// saveChart writes the tree back unless saving is turned off.
func (e *chartEnv) saveChart() error {
	if flagNoSave || !e.cfg.General.AutoSave {
		e.log.Debug("save skipped")
		return nil
	}
	if err := pipeline.Save(e.store, e.tree); err != nil {
		return err
	}
	e.log.WithField("nodes", e.tree.Len()).Debug("chart saved")
	return nil
}

// describeError turns chart errors into user-facing messages.
func describeError(err error) string {
	switch {
	case errors.Is(err, orgtree.ErrPermissionDenied):
		return "Permission denied: only admins can change the chart (use --admin or set operator.admin)"
	case errors.Is(err, orgtree.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, orgtree.ErrInvalidFields):
		return "Invalid input: " + err.Error()
	case errors.Is(err, orgtree.ErrInvalidSeed):
		return "Stored chart is corrupt (" + err.Error() + "); run `orgchart reset` to start over"
	default:
		return "Error: " + err.Error()
	}
}
