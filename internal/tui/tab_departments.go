package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/pipeline"
	"github.com/theirongolddev/orgchart/internal/tui/components"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDepartmentsTab(cw int) string {
	t := theme.Active
	nodes := a.tree.Nodes()
	depts := pipeline.AggregateDepartments(nodes)

	admins, levels := 0, 0
	for _, n := range nodes {
		if n.IsAdmin {
			admins++
		}
	}
	a.tree.Walk(func(_ model.Node, depth int) {
		levels = max(levels, depth+1)
	})

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "People", Value: cli.FormatNumber(int64(len(nodes)))},
		{Label: "Departments", Value: fmt.Sprintf("%d", len(depts))},
		{Label: "Admins", Value: fmt.Sprintf("%d", admins)},
		{Label: "Levels", Value: fmt.Sprintf("%d", levels), Delta: cli.FormatCount(len(a.tree.Roots()), "root")},
	}, cw))
	b.WriteString("\n")

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(depts) == 0 {
		b.WriteString(components.ContentCard("Headcount", mutedStyle.Render("No departments yet"), cw))
		return b.String()
	}

	inner := components.CardInnerWidth(cw)
	labelW := 18
	barW := max(inner-labelW-24, 10)

	var share strings.Builder
	for i, d := range depts {
		share.WriteString(components.ShareBar(d.Department, d.SharePercent/100, labelW, barW))
		share.WriteString(mutedStyle.Render("  " + cli.FormatPeople(d.Headcount) + ", " + cli.FormatCount(d.Admins, "admin")))
		if i < len(depts)-1 {
			share.WriteString("\n")
		}
	}

	span := pipeline.SpanOfControl(nodes)
	type manager struct {
		name, dept string
		reports    int
	}
	var managers []manager
	for _, n := range nodes {
		if c := span[n.ID]; c > 0 {
			managers = append(managers, manager{n.Name, n.Department, c})
		}
	}
	sort.SliceStable(managers, func(i, j int) bool { return managers[i].reports > managers[j].reports })

	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	var spanBody strings.Builder
	if len(managers) == 0 {
		spanBody.WriteString(mutedStyle.Render("No one has direct reports"))
	}
	for i, m := range managers {
		if i == 8 {
			spanBody.WriteString(mutedStyle.Render(fmt.Sprintf("… and %d more", len(managers)-i)))
			break
		}
		spanBody.WriteString(valueStyle.Render(fmt.Sprintf("%-24s", cli.Truncate(m.name, 24))))
		spanBody.WriteString(mutedStyle.Render(fmt.Sprintf("%-16s %s", cli.Truncate(m.dept, 16), cli.FormatCount(m.reports, "report"))))
		spanBody.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Headcount by department", share.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Span of control", strings.TrimRight(spanBody.String(), "\n"), cw))
	return b.String()
}
