package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
	ColorYellow    = lipgloss.Color("#D0A215")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	deptStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	adminStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// ErrorStyle renders user-facing error lines.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	// OKStyle renders confirmation lines.
	OKStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)
)

// AdminMarker flags admin nodes in tree output.
const AdminMarker = "★"

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil

	LeftAlign bool // left-align every column instead of right-aligning values
}

// TreeLine is one row of a rendered chart.
type TreeLine struct {
	Node   model.Node
	Depth  int
	Prefix string // box-drawing connector, empty for roots
}

// TreeLines flattens the chart into display rows, roots first in collection
// order and children in children order.
func TreeLines(tree *orgtree.Tree) []TreeLine {
	var lines []TreeLine

	var visit func(n model.Node, depth int, indent string, last bool)
	visit = func(n model.Node, depth int, indent string, last bool) {
		prefix, childIndent := "", ""
		if depth > 0 {
			if last {
				prefix, childIndent = indent+"└── ", indent+"    "
			} else {
				prefix, childIndent = indent+"├── ", indent+"│   "
			}
		}
		lines = append(lines, TreeLine{Node: n, Depth: depth, Prefix: prefix})

		kids, err := tree.Children(n.ID)
		if err != nil {
			return
		}
		for i, k := range kids {
			visit(k, depth+1, childIndent, i == len(kids)-1)
		}
	}

	for _, r := range tree.Roots() {
		visit(r, 0, "", true)
	}
	return lines
}

// RenderTree renders the chart as an indented tree.
func RenderTree(lines []TreeLine, showIDs bool) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(l.Prefix))
		b.WriteString(RenderNodeLabel(l.Node, showIDs))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderNodeLabel renders "Name · Title [Department]" with markers.
func RenderNodeLabel(n model.Node, showID bool) string {
	var b strings.Builder
	b.WriteString(nameStyle.Render(n.Name))
	if n.IsAdmin {
		b.WriteString(" ")
		b.WriteString(adminStyle.Render(AdminMarker))
	}
	b.WriteString(mutedStyle.Render(" · " + n.Title))
	b.WriteString(" ")
	b.WriteString(deptStyle.Render("[" + n.Department + "]"))
	if showID {
		b.WriteString(dimStyle.Render("  #" + n.ID))
	}
	return b.String()
}

// RenderNodeDetail renders every field of a node plus its management chain.
func RenderNodeDetail(n model.Node, chain []model.Node, reports []model.Node) string {
	rows := [][]string{
		{"ID", n.ID},
		{"Name", n.Name},
		{"Title", n.Title},
		{"Department", n.Department},
		{"Admin", fmt.Sprintf("%v", n.IsAdmin)},
		{"Position", fmt.Sprintf("%.0f, %.0f", n.Position.X, n.Position.Y)},
	}

	if len(chain) > 0 {
		names := make([]string, len(chain))
		for i, c := range chain {
			names[i] = c.Name
		}
		rows = append(rows, []string{"Reports to", strings.Join(names, " → ")})
	} else {
		rows = append(rows, []string{"Reports to", "(root)"})
	}

	rows = append(rows, []string{"Direct reports", FormatCount(len(reports), "report")})
	for _, r := range reports {
		rows = append(rows, []string{"", r.Name + " · " + r.Title})
	}

	return RenderTable(Table{Rows: rows, LeftAlign: true})
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if w := lipgloss.Width(h); w > widths[i] {
				widths[i] = w
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if w := lipgloss.Width(cell); i < numCols && w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(borderLine("╭", "┬", "╮", widths))

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		b.WriteString(borderLine("├", "┼", "┤", widths))
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(borderLine("├", "┼", "┤", widths))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 || t.LeftAlign {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(borderLine("╰", "┴", "╯", widths))
	return b.String()
}

// RenderHorizontalBar renders a labelled horizontal bar chart entry.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return fmt.Sprintf("  %s", label)
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	if barLen > maxWidth {
		barLen = maxWidth
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", maxWidth-barLen)
	return fmt.Sprintf("  %s %s", deptStyle.Render(bar), label)
}

func borderLine(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
	return b.String()
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
