package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/tui/components"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// peopleState holds the people tab state.
type peopleState struct {
	searching bool
	input     textinput.Model
	query     string
	cursor    int
}

func newSearchInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name, title or department"
	ti.Prompt = "/ "
	ti.CharLimit = maxFieldLen
	ti.Width = 40
	ti.SetValue(value)
	return ti
}

// peopleMatches returns the nodes matching the current search, in chart order.
func (a App) peopleMatches() []model.Node {
	if a.tree == nil {
		return nil
	}
	return a.tree.Search(a.people.query)
}

func (a App) updatePeopleKey(key string) (tea.Model, tea.Cmd, bool) {
	matches := a.peopleMatches()

	switch key {
	case "/":
		a.people.searching = true
		a.people.input = newSearchInput(a.people.query)
		a.people.input.Focus()
		return a, textinput.Blink, true
	case "esc":
		a.people.query = ""
		a.people.cursor = 0
	case "j", "down":
		if a.people.cursor < len(matches)-1 {
			a.people.cursor++
		}
	case "k", "up":
		if a.people.cursor > 0 {
			a.people.cursor--
		}
	case "g", "home":
		a.people.cursor = 0
	case "G", "end":
		a.people.cursor = max(len(matches)-1, 0)
	case "enter":
		if a.people.cursor < len(matches) {
			id := matches[a.people.cursor].ID
			a.focusNode(id)
			a.chart.selected = id
			a.activeTab = tabChart
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

// updatePeopleSearch handles keys while the search box is focused. The
// result list follows every keystroke.
func (a App) updatePeopleSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.people.searching = false
		a.people.input.Blur()
		return a, nil
	case "esc":
		a.people.searching = false
		a.people.query = ""
		a.people.cursor = 0
		return a, nil
	}

	var cmd tea.Cmd
	a.people.input, cmd = a.people.input.Update(msg)
	a.people.query = strings.TrimSpace(a.people.input.Value())
	a.people.cursor = 0
	return a, cmd
}

func (a App) renderPeopleTab(cw, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	matches := a.peopleMatches()

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder

	// Search line
	switch {
	case a.people.searching:
		b.WriteString(a.people.input.View())
	case a.people.query != "":
		b.WriteString(mutedStyle.Render("Filter: "))
		b.WriteString(headerStyle.Render(a.people.query))
		b.WriteString(dimStyle.Render("  [/] edit  [esc] clear"))
	default:
		b.WriteString(dimStyle.Render("[/] search  [enter] show in chart"))
	}
	b.WriteString("\n\n")

	if len(matches) == 0 {
		b.WriteString(mutedStyle.Render("No one matches."))
		return components.ContentCard("People", b.String(), cw)
	}

	cols := peopleColumns(inner)
	b.WriteString(headerStyle.Render(formatPeopleRow(cols, "Name", "Title", "Department", "Manager")))
	b.WriteString("\n")

	visible := h - 7 // border, title, search, blank, header, footer
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if a.people.cursor >= visible {
		offset = a.people.cursor - visible + 1
	}
	end := min(offset+visible, len(matches))

	for i := offset; i < end; i++ {
		n := matches[i]
		manager := "-"
		if !n.IsRoot() {
			if m, err := a.tree.Get(n.ReportsTo); err == nil {
				manager = m.Name
			}
		}
		name := n.Name
		if n.IsAdmin {
			name += " " + cli.AdminMarker
		}

		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		if i == a.people.cursor {
			style = style.Background(t.SurfaceBright).Bold(true)
		}
		row := formatPeopleRow(cols, name, n.Title, n.Department, manager)
		b.WriteString(style.Width(inner).Render(row))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %s", len(matches), cli.FormatPeople(a.tree.Len()))))

	return components.ContentCard("People", b.String(), cw)
}

// peopleColumns splits inner width across the four columns.
func peopleColumns(inner int) [4]int {
	w := inner - 3 // single-space gaps
	return [4]int{w * 28 / 100, w * 30 / 100, w * 20 / 100, w - w*28/100 - w*30/100 - w*20/100}
}

func formatPeopleRow(cols [4]int, cells ...string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		c = cli.Truncate(c, cols[i])
		parts[i] = c + strings.Repeat(" ", max(cols[i]-lipgloss.Width(c), 0))
	}
	return strings.Join(parts, " ")
}
