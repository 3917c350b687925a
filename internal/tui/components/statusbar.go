package components

import (
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom status bar shows.
type StatusInfo struct {
	Operator string
	Admin    bool
	Message  string
	IsError  bool
	Dirty    bool // unsaved changes
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	if info.IsError {
		msgStyle = msgStyle.Foreground(t.Red)
	}
	roleStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if info.Admin {
		roleStyle = roleStyle.Foreground(t.Admin).Bold(true)
	}

	left := base.Render(" [?]help  [q]uit")
	if info.Message != "" {
		left += base.Render("  ") + msgStyle.Render(info.Message)
	}

	role := "viewer"
	if info.Admin {
		role = "admin"
	}
	right := ""
	if info.Dirty {
		right += lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render("● unsaved  ")
	}
	right += base.Render(info.Operator+" ") + roleStyle.Render(role) + base.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().MaxWidth(width).Render(left + gap + right)
}
