package components

import (
	"strings"

	"github.com/theirongolddev/orgchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Chart", Key: 'c', KeyPos: 0},
	{Name: "People", Key: 'p', KeyPos: 0},
	{Name: "Departments", Key: 'm', KeyPos: 6},
	{Name: "Settings", Key: 'x', KeyPos: -1}, // x is not in "Settings"
}

// TabVisualWidth returns the rendered width of a tab label. RenderTabBar and
// mouse hit-testing both rely on it.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2 // horizontal padding
	if !active && tab.KeyPos < 0 {
		w += 3 // "[x]" suffix
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index, followed by
// a newline.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true).
		Underline(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	padStyle := lipgloss.NewStyle().Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	var b strings.Builder
	for i, tab := range Tabs {
		if i == activeIdx {
			b.WriteString(activeStyle.Render(tab.Name))
		} else {
			b.WriteString(padStyle.Render(" "))
			if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
				b.WriteString(inactiveStyle.Render(tab.Name[:tab.KeyPos]))
				b.WriteString(keyStyle.Render(string(tab.Name[tab.KeyPos])))
				b.WriteString(inactiveStyle.Render(tab.Name[tab.KeyPos+1:]))
			} else {
				b.WriteString(inactiveStyle.Render(tab.Name))
				b.WriteString(dimKeyStyle.Render("["))
				b.WriteString(keyStyle.Render(string(tab.Key)))
				b.WriteString(dimKeyStyle.Render("]"))
			}
			b.WriteString(padStyle.Render(" "))
		}
		if i < len(Tabs)-1 {
			b.WriteString(sepStyle.Render("│"))
		}
	}

	row := lipgloss.NewStyle().Background(t.Surface).Width(width)
	return row.Render(b.String()) + "\n"
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
