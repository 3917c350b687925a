package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"

	"github.com/charmbracelet/lipgloss"
)

func TestTreeLines_SeedShape(t *testing.T) {
	lines := TreeLines(orgtree.NewSeeded())

	want := []struct {
		id     string
		depth  int
		prefix string
	}{
		{"1", 0, ""},
		{"2", 1, "├── "},
		{"4", 2, "│   ├── "},
		{"5", 2, "│   └── "},
		{"3", 1, "└── "},
		{"6", 2, "    └── "},
	}

	if len(lines) != len(want) {
		t.Fatalf("len(lines) = %d, want %d", len(lines), len(want))
	}
	for i, w := range want {
		got := lines[i]
		if got.Node.ID != w.id || got.Depth != w.depth || got.Prefix != w.prefix {
			t.Errorf("line %d = {%s %d %q}, want {%s %d %q}",
				i, got.Node.ID, got.Depth, got.Prefix, w.id, w.depth, w.prefix)
		}
	}
}

func TestTreeLines_Forest(t *testing.T) {
	tree := orgtree.NewSeeded()
	admin := model.Operator{Name: "root", IsAdmin: true}
	if _, err := tree.Insert(admin, "", model.NodeFields{Name: "Second Root"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	lines := TreeLines(tree)
	if len(lines) != 7 {
		t.Fatalf("len(lines) = %d, want 7", len(lines))
	}
	last := lines[len(lines)-1]
	if last.Node.Name != "Second Root" || last.Depth != 0 || last.Prefix != "" {
		t.Errorf("last line = %+v, want the new root at depth 0", last)
	}
}

func TestRenderTree_ContainsLabels(t *testing.T) {
	out := RenderTree(TreeLines(orgtree.NewSeeded()), true)
	for _, want := range []string{"John Doe", "CEO", "[Executive]", "#6", AdminMarker} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTree output missing %q", want)
		}
	}
	if n := strings.Count(out, "\n"); n != 6 {
		t.Errorf("RenderTree line count = %d, want 6", n)
	}
}

func TestRenderTable_AlignedRows(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Department", "Headcount"},
		Rows: [][]string{
			{"Engineering", "3"},
			{"Marketing", "2"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("table lines = %d, want 6", len(lines))
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if got := lipgloss.Width(l); got != w {
			t.Errorf("line %d width = %d, want %d", i, got, w)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{0, "node", "0 nodes"},
		{1, "node", "1 node"},
		{3, "report", "3 reports"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.n, tt.noun); got != tt.want {
			t.Errorf("FormatCount(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q, want 1,234,567", got)
	}
}

func TestFormatAge_Zero(t *testing.T) {
	if got := FormatAge(time.Time{}); got != "never" {
		t.Errorf("FormatAge(zero) = %q, want never", got)
	}
	if got := FormatAge(time.Now().Add(-2 * time.Hour)); !strings.Contains(got, "ago") {
		t.Errorf("FormatAge(2h) = %q, want a relative time", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Engineering", 6); got != "Engin…" {
		t.Errorf("Truncate = %q, want Engin…", got)
	}
	if got := Truncate("CTO", 6); got != "CTO" {
		t.Errorf("Truncate short = %q, want CTO", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Errorf("Truncate zero = %q, want empty", got)
	}
}

func TestFormatPeople(t *testing.T) {
	if got := FormatPeople(1); got != "1 person" {
		t.Errorf("FormatPeople(1) = %q", got)
	}
	if got := FormatPeople(6); got != "6 people" {
		t.Errorf("FormatPeople(6) = %q", got)
	}
}
