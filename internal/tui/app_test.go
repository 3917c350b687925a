package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/pipeline"
	"github.com/theirongolddev/orgchart/internal/store"
	"github.com/theirongolddev/orgchart/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T, admin bool) App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.General.AutoSave = false
	cfg.Operator.Admin = admin

	a := NewApp(Options{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Operator:   model.Operator{Name: "tester", IsAdmin: admin},
	})
	a = update(a, tea.WindowSizeMsg{Width: 140, Height: 40})
	return update(a, ChartLoadedMsg{Result: &pipeline.LoadResult{Tree: orgtree.NewSeeded()}})
}

func update(a App, msg tea.Msg) App {
	m, _ := a.Update(msg)
	return m.(App)
}

func keys(a App, ks ...string) App {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		a = update(a, msg)
	}
	return a
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func TestDeleteSubtreeWithConfirm(t *testing.T) {
	a := newTestApp(t, true)

	// Chart order is 1, 2, 4, 5, 3, 6.
	a = keys(a, "j", "enter", "j")
	if a.chart.selected != "2" {
		t.Fatalf("selected = %q, want 2", a.chart.selected)
	}
	a = keys(a, "k", "d")
	if a.chart.confirmDelete != "2" {
		t.Fatalf("confirmDelete = %q, want 2", a.chart.confirmDelete)
	}
	a = keys(a, "y")

	if got := a.tree.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}
	if a.chart.selected != "" {
		t.Errorf("selected = %q, want cleared", a.chart.selected)
	}
	if !a.dirty || a.statusErr || a.status != "Removed 3 people" {
		t.Errorf("dirty=%v statusErr=%v status=%q", a.dirty, a.statusErr, a.status)
	}
}

func TestDeleteCancelled(t *testing.T) {
	a := newTestApp(t, true)
	a = keys(a, "G", "d", "n")
	if a.tree.Len() != 6 {
		t.Errorf("Len = %d, want 6", a.tree.Len())
	}
	if a.chart.confirmDelete != "" {
		t.Error("confirmation should be cleared")
	}
}

func TestDeleteDeniedForViewer(t *testing.T) {
	a := newTestApp(t, false)
	a = keys(a, "j", "d", "y")

	if a.tree.Len() != 6 {
		t.Errorf("Len = %d, want 6", a.tree.Len())
	}
	if !a.statusErr || !strings.Contains(a.status, "Permission denied") {
		t.Errorf("status = %q (err=%v), want permission denial", a.status, a.statusErr)
	}
	if a.dirty {
		t.Error("denied removal must not mark the chart dirty")
	}
}

func TestSuggestTitle(t *testing.T) {
	a := newTestApp(t, true)
	a = keys(a, "i")

	n, err := a.tree.Get("1")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != orgtree.SuggestionPrefix+"CEO" {
		t.Errorf("Title = %q", n.Title)
	}
}

func pressKey(a App, k string) (App, tea.Cmd) {
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return m.(App), cmd
}

func TestAutoSaveRunsOneSaveAtATime(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "chart.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.DefaultConfig()
	cfg.General.AutoSave = true
	a := NewApp(Options{
		Store:      st,
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Operator:   model.Operator{Name: "tester", IsAdmin: true},
	})
	a = update(a, tea.WindowSizeMsg{Width: 140, Height: 40})
	a = update(a, ChartLoadedMsg{Result: &pipeline.LoadResult{Tree: orgtree.NewSeeded()}})

	a, first := pressKey(a, "i")
	if first == nil {
		t.Fatal("first edit should start a save")
	}
	a = keys(a, "G", "d")
	a, second := pressKey(a, "y")
	if second != nil {
		t.Fatal("edit during a save should queue, not start a second save")
	}
	if got := a.tree.Len(); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}

	// The first save holds the six-node chart; finishing it must not mark
	// the five-node chart clean.
	m, followUp := a.Update(first())
	a = m.(App)
	if !a.dirty {
		t.Fatal("dirty cleared while a queued edit is unsaved")
	}
	if followUp == nil {
		t.Fatal("finished save should start the queued one")
	}

	a = update(a, followUp())
	if a.dirty || a.saving || a.pendingSave {
		t.Fatalf("dirty=%v saving=%v pending=%v after last save", a.dirty, a.saving, a.pendingSave)
	}
	n, err := st.NodeCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != a.tree.Len() {
		t.Fatalf("stored %d nodes, live chart has %d", n, a.tree.Len())
	}
}

func TestAddFormOpensAndApplies(t *testing.T) {
	a := newTestApp(t, true)
	a = keys(a, "G", "a")
	if a.form == nil || a.formKind != formAdd {
		t.Fatal("add form should be open")
	}
	if a.formVals.parentID != "6" {
		t.Fatalf("parentID = %q, want 6", a.formVals.parentID)
	}

	a = keys(a, "esc")
	if a.form != nil {
		t.Fatal("esc should close the form")
	}

	a.applyForm(formAdd, &formValues{parentID: "6", name: "Eve Park"})
	if a.tree.Len() != 7 {
		t.Fatalf("Len = %d, want 7", a.tree.Len())
	}
	n, ok := a.cursorNode()
	if !ok || n.Name != "Eve Park" || n.ReportsTo != "6" {
		t.Errorf("cursor node = %+v, want the new report of 6", n)
	}
}

func TestPeopleSearchJumpsToChart(t *testing.T) {
	a := newTestApp(t, false)
	a = keys(a, "p", "/", "m", "a", "r", "k", "e", "t")
	if !a.people.searching || a.people.query != "market" {
		t.Fatalf("searching=%v query=%q", a.people.searching, a.people.query)
	}
	a = keys(a, "enter")

	matches := a.peopleMatches()
	if len(matches) != 2 || matches[0].ID != "3" || matches[1].ID != "6" {
		t.Fatalf("matches = %v, want [3 6]", matches)
	}

	a = keys(a, "j", "enter")
	if a.activeTab != tabChart || a.chart.selected != "6" {
		t.Errorf("tab=%d selected=%q, want chart tab with 6 selected", a.activeTab, a.chart.selected)
	}
	if n, _ := a.cursorNode(); n.ID != "6" {
		t.Errorf("cursor on %q, want 6", n.ID)
	}
}

func TestSettingsToggleAdminPersists(t *testing.T) {
	a := newTestApp(t, false)
	a = keys(a, "x", "j", "enter")

	if !a.operator.IsAdmin {
		t.Fatal("operator should be admin after toggling")
	}
	if a.settings.saveErr != nil {
		t.Fatalf("saveErr = %v", a.settings.saveErr)
	}

	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.Operator.Admin {
		t.Error("saved config should have admin = true")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t, true)
	for i := range components.Tabs {
		a.activeTab = i
		out := a.View()
		if out == "" {
			t.Fatalf("tab %d rendered empty", i)
		}
		if i == tabChart && !strings.Contains(out, "John Doe") {
			t.Errorf("chart tab missing root node")
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t, true)
	a = update(a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("narrow terminal should show a warning")
	}
}
