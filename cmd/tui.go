package cmd

import (
	"fmt"

	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/store"
	"github.com/theirongolddev/orgchart/internal/tui"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chart editor",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	var st *store.Store
	if !flagNoSave {
		var err error
		st, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
	}

	app := tui.NewApp(tui.Options{
		Store:      st,
		Config:     cfg,
		ConfigPath: config.Path(),
		Operator:   operatorFor(cmd, cfg),
		FirstRun:   !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
