package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/tui/components"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab indexes, matching components.Tabs.
const (
	tabChart = iota
	tabPeople
	tabDepartments
	tabSettings
)

// chartState holds the chart tab state.
type chartState struct {
	cursor        int    // index into the flattened tree
	selected      string // node toggled with enter
	confirmDelete string // node awaiting y/n
}

func (a App) chartLines() []cli.TreeLine {
	if a.tree == nil {
		return nil
	}
	return cli.TreeLines(a.tree)
}

func (a App) cursorNode() (model.Node, bool) {
	lines := a.chartLines()
	if a.chart.cursor < 0 || a.chart.cursor >= len(lines) {
		return model.Node{}, false
	}
	return lines[a.chart.cursor].Node, true
}

// focusNode moves the chart cursor onto id.
func (a *App) focusNode(id string) {
	for i, l := range a.chartLines() {
		if l.Node.ID == id {
			a.chart.cursor = i
			return
		}
	}
}

func (a App) updateChartKey(key string) (tea.Model, tea.Cmd, bool) {
	n, ok := a.cursorNode()
	last := a.tree.Len() - 1

	switch key {
	case "j", "down":
		if a.chart.cursor < last {
			a.chart.cursor++
		}
	case "k", "up":
		if a.chart.cursor > 0 {
			a.chart.cursor--
		}
	case "g", "home":
		a.chart.cursor = 0
	case "G", "end":
		a.chart.cursor = max(last, 0)
	case "enter":
		if !ok {
			return a, nil, true
		}
		if a.chart.selected == n.ID {
			a.chart.selected = ""
		} else {
			a.chart.selected = n.ID
		}
	case "a":
		v := &formValues{}
		if ok {
			v.parentID = n.ID
		}
		cmd := a.openForm(formAdd, v, newNodeForm(v, n.Name))
		return a, cmd, true
	case "A":
		v := &formValues{}
		cmd := a.openForm(formAdd, v, newNodeForm(v, ""))
		return a, cmd, true
	case "e":
		if !ok {
			return a, nil, true
		}
		v := &formValues{targetID: n.ID, title: n.Title}
		cmd := a.openForm(formTitle, v, newTitleForm(v, n.Name))
		return a, cmd, true
	case "n":
		if !ok {
			return a, nil, true
		}
		v := &formValues{targetID: n.ID, name: n.Name}
		cmd := a.openForm(formRename, v, newRenameForm(v))
		return a, cmd, true
	case "i":
		if !ok {
			return a, nil, true
		}
		updated, err := a.tree.SuggestTitle(a.operator, n.ID)
		cmd := a.commit(fmt.Sprintf("%s is now %q", updated.Name, updated.Title), err)
		return a, cmd, true
	case "d", "delete":
		if !ok {
			return a, nil, true
		}
		ids, _ := a.tree.Subtree(n.ID)
		a.chart.confirmDelete = n.ID
		a.setStatus(fmt.Sprintf("Remove %s and %s? [y/n]", n.Name, cli.FormatCount(len(ids)-1, "report")))
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	id := a.chart.confirmDelete
	a.chart.confirmDelete = ""

	if key != "y" && key != "Y" {
		a.setStatus("Removal cancelled")
		return a, nil
	}

	removed, err := a.tree.Remove(a.operator, id)
	if err == nil && slices.Contains(removed, a.chart.selected) {
		a.chart.selected = ""
	}
	cmd := a.commit("Removed "+cli.FormatPeople(len(removed)), err)
	return a, cmd
}

func (a App) renderChartTab(cw, h int) string {
	t := theme.Active

	if a.tree.Len() == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		return components.ContentCard("Chart", muted.Render("The chart is empty. Press A to add the first person."), cw)
	}

	if a.isCompactLayout() {
		return a.renderChartList(cw, h)
	}

	leftW := cw * 3 / 5
	rightW := cw - leftW
	n, _ := a.cursorNode()
	return components.CardRow([]string{
		a.renderChartList(leftW, h),
		a.renderNodeCard(n, rightW),
	})
}

func (a App) renderChartList(w, h int) string {
	t := theme.Active
	lines := a.chartLines()
	inner := components.CardInnerWidth(w)

	visible := h - 4 // border (2) + title (1) + hint (1)
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if a.chart.cursor >= visible {
		offset = a.chart.cursor - visible + 1
	}
	end := min(offset+visible, len(lines))

	var b strings.Builder
	for i := offset; i < end; i++ {
		b.WriteString(a.renderChartRow(lines[i], i == a.chart.cursor, inner))
		b.WriteString("\n")
	}

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	b.WriteString(hint.Render("[a]dd [d]elete [e]dit title re[n]ame [i] suggest"))

	title := fmt.Sprintf("Chart (%d/%d)", a.chart.cursor+1, len(lines))
	return components.ContentCard(title, b.String(), w)
}

func (a App) renderChartRow(l cli.TreeLine, isCursor bool, inner int) string {
	t := theme.Active
	bg := t.Surface
	if isCursor {
		bg = t.SurfaceBright
	}

	style := func(fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(fg).Background(bg)
	}

	marker := "  "
	switch {
	case isCursor:
		marker = "▸ "
	case l.Node.ID == a.chart.selected:
		marker = "● "
	}

	name := l.Node.Name
	admin := ""
	if l.Node.IsAdmin {
		admin = " " + cli.AdminMarker
	}
	title := " · " + l.Node.Title
	dept := "  " + l.Node.Department

	avail := inner - lipgloss.Width(marker) - lipgloss.Width(l.Prefix)
	name = cli.Truncate(name, avail)
	avail -= lipgloss.Width(name) + lipgloss.Width(admin)
	if avail < 0 {
		admin, avail = "", 0
	}
	title = cli.Truncate(title, avail)
	avail -= lipgloss.Width(title)
	dept = cli.Truncate(dept, max(avail, 0))

	row := style(t.AccentBright).Render(marker) +
		style(t.TextDim).Render(l.Prefix) +
		style(t.TextPrimary).Bold(isCursor).Render(name) +
		style(t.Admin).Render(admin) +
		style(t.TextMuted).Render(title) +
		style(t.DepartmentColor(l.Node.Department)).Render(dept)

	if pad := inner - lipgloss.Width(row); pad > 0 {
		row += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", pad))
	}
	return row
}

func (a App) renderNodeCard(n model.Node, w int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	adminStyle := lipgloss.NewStyle().Foreground(t.Admin).Background(t.Surface).Bold(true)

	chain, _ := a.tree.Ancestors(n.ID)
	reports, _ := a.tree.Children(n.ID)
	subtree, _ := a.tree.Subtree(n.ID)

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-14s", label)) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(nameStyle.Render(n.Name))
	if n.IsAdmin {
		b.WriteString(adminStyle.Render(" " + cli.AdminMarker + " admin"))
	}
	b.WriteString("\n\n")
	b.WriteString(row("Title", n.Title))
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Department")) +
		lipgloss.NewStyle().Foreground(t.DepartmentColor(n.Department)).Background(t.Surface).Render(n.Department) + "\n")
	b.WriteString(row("ID", n.ID))

	if len(chain) == 0 {
		b.WriteString(row("Reports to", "(top level)"))
	} else {
		b.WriteString(row("Reports to", chain[0].Name))
		b.WriteString(row("Level", fmt.Sprintf("%d", len(chain))))
	}
	b.WriteString(row("Team size", cli.FormatPeople(len(subtree)-1)))
	if total := a.tree.Len(); total > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "Share of org")) +
			components.ProgressBar(float64(len(subtree))/float64(total), 16) + "\n")
	}

	if len(reports) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Direct reports"))
		b.WriteString("\n")
		inner := components.CardInnerWidth(w)
		for _, r := range reports {
			b.WriteString(valueStyle.Render(cli.Truncate("  "+r.Name+" · "+r.Title, inner)))
			b.WriteString("\n")
		}
	}

	return components.ContentCard("Details", strings.TrimRight(b.String(), "\n"), w)
}
