// Package tui provides the interactive Bubble Tea org chart browser.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/pipeline"
	"github.com/theirongolddev/orgchart/internal/store"
	"github.com/theirongolddev/orgchart/internal/tui/components"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ChartLoadedMsg is sent when the chart has been read from the store.
type ChartLoadedMsg struct {
	Result *pipeline.LoadResult
	Err    error
}

// SavedMsg is sent when a background save finishes.
type SavedMsg struct {
	At  time.Time
	Err error
}

// Options configures NewApp.
type Options struct {
	Store      *store.Store // nil keeps the chart in memory only
	Config     config.Config
	ConfigPath string
	Operator   model.Operator
	FirstRun   bool // show the setup form after loading
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	tree     *orgtree.Tree
	store    *store.Store
	loaded   bool
	loadErr  error
	loadTime time.Duration
	seeded   bool
	savedAt  time.Time
	dirty    bool

	// One save runs at a time; edits made meanwhile set pendingSave and are
	// written by a follow-up save of the then-current chart.
	saving      bool
	pendingSave bool

	cfg        config.Config
	configPath string
	operator   model.Operator

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    string
	statusErr bool

	// Per-tab state
	chart    chartState
	people   peopleState
	settings settingsState

	// Modal huh form (add, edit, rename, first-run setup)
	form      *huh.Form
	formKind  formKind
	formVals  *formValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}

	return App{
		store:      opts.Store,
		cfg:        opts.Config,
		configPath: path,
		operator:   opts.Operator,
		needSetup:  opts.FirstRun,
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadChartCmd(a.store),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 72))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKey(msg)

	case ChartLoadedMsg:
		a.loaded = true
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.tree = msg.Result.Tree
		a.seeded = msg.Result.Seeded
		a.savedAt = msg.Result.SavedAt
		a.loadTime = msg.Result.LoadTime
		a.clampCursors()
		if a.seeded {
			a.setStatus("Started a new chart from the sample organization")
		}

		if a.needSetup {
			v := a.formValuesFromConfig()
			cmd := a.openForm(formSetup, v, newSetupForm(v))
			return a, cmd
		}
		return a, nil

	case SavedMsg:
		a.saving = false
		if msg.Err != nil {
			a.setError(fmt.Errorf("save failed: %w", msg.Err))
		} else {
			a.savedAt = msg.At
		}
		if a.pendingSave {
			a.pendingSave = false
			cmd := a.saveNow()
			return a, cmd
		}
		if msg.Err == nil {
			a.dirty = false
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.loadErr != nil {
		if key == "q" || key == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}

	// Text inputs intercept all keys while focused
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == tabPeople && a.people.searching {
		return a.updatePeopleSearch(msg)
	}
	if a.activeTab == tabChart && a.chart.confirmDelete != "" {
		return a.updateDeleteConfirm(key)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabChart:
		if m, cmd, handled := a.updateChartKey(key); handled {
			return m, cmd
		}
	case tabPeople:
		if m, cmd, handled := a.updatePeopleKey(key); handled {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, handled := a.updateSettingsKey(key); handled {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "w":
		if a.store == nil {
			a.setStatus("In-memory chart: nothing to save")
			return a, nil
		}
		return a, a.saveNow()
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabChart {
			a.chart.cursor = max(a.chart.cursor-1, 0)
		} else if a.activeTab == tabPeople {
			a.people.cursor = max(a.people.cursor-1, 0)
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabChart {
			a.chart.cursor = min(a.chart.cursor+1, max(a.tree.Len()-1, 0))
		} else if a.activeTab == tabPeople {
			a.people.cursor = min(a.people.cursor+1, max(len(a.peopleMatches())-1, 0))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// commit reports the outcome of a chart mutation and schedules a save.
func (a *App) commit(done string, err error) tea.Cmd {
	if err != nil {
		a.setError(err)
		return nil
	}
	a.dirty = true
	a.setStatus(done)
	a.clampCursors()
	if a.cfg.General.AutoSave {
		return a.saveNow()
	}
	return nil
}

// saveNow starts a save of the current chart, or queues one behind the
// save already in flight.
func (a *App) saveNow() tea.Cmd {
	if a.store == nil || a.tree == nil {
		return nil
	}
	if a.saving {
		a.pendingSave = true
		return nil
	}
	a.saving = true
	return saveChartCmd(a.store, a.tree.Nodes())
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = describeError(err)
	a.statusErr = true
}

// describeError turns a chart error into a short status line.
func describeError(err error) string {
	switch {
	case errors.Is(err, orgtree.ErrPermissionDenied):
		return "Permission denied: only admins can change the chart"
	case errors.Is(err, orgtree.ErrNotFound):
		return "That person is no longer in the chart"
	case errors.Is(err, orgtree.ErrInvalidFields):
		return "Invalid input: " + err.Error()
	default:
		return err.Error()
	}
}

func (a *App) clampCursors() {
	if a.tree == nil {
		return
	}
	if a.chart.cursor >= a.tree.Len() {
		a.chart.cursor = a.tree.Len() - 1
	}
	if a.chart.cursor < 0 {
		a.chart.cursor = 0
	}
	if a.chart.selected != "" && !a.tree.Contains(a.chart.selected) {
		a.chart.selected = ""
	}
	if n := len(a.peopleMatches()); a.people.cursor >= n {
		a.people.cursor = max(n-1, 0)
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  orgchart needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ orgchart"))
	b.WriteString(subtitleStyle.Render(" · Organization Chart"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading chart..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := errStyle.Render("Could not load the chart") + "\n\n" +
		mutedStyle.Render(a.loadErr.Error()) + "\n\n" +
		mutedStyle.Render("Run `orgchart reset` to start over. Press q to quit.")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"c p m x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move cursor"},
			{"g G", "First / Last"},
		}},
		{"Chart", []struct{ key, desc string }{
			{"Enter", "Select / Deselect"},
			{"a", "Add report under cursor"},
			{"A", "Add top-level person"},
			{"d", "Remove person and reports"},
			{"e", "Edit title"},
			{"n", "Rename"},
			{"i", "Suggest a title"},
		}},
		{"General", []struct{ key, desc string }{
			{"/", "Search people"},
			{"w", "Save now"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + summary line
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	depts := pipeline.AggregateDepartments(a.tree.Nodes())
	summary := pillStyle.Render(" ") +
		accentStyle.Render(cli.FormatPeople(a.tree.Len())) +
		pillStyle.Render(" │ ") +
		accentStyle.Render(cli.FormatCount(len(depts), "department")) +
		pillStyle.Render(" │ saved "+cli.FormatAge(a.savedAt)+" ")
	if a.store == nil {
		summary += pillStyle.Render("│ in-memory ")
	}

	header := components.RenderTabBar(a.activeTab, w) +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(summary)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Operator: a.operator.String(),
		Admin:    a.operator.IsAdmin,
		Message:  a.status,
		IsError:  a.statusErr,
		Dirty:    a.dirty,
	})

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabChart:
		content = a.renderChartTab(cw, contentH)
	case tabPeople:
		content = a.renderPeopleTab(cw, contentH)
	case tabDepartments:
		content = a.renderDepartmentsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func loadChartCmd(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		if st == nil {
			return ChartLoadedMsg{Result: &pipeline.LoadResult{Tree: orgtree.NewSeeded(), Seeded: true}}
		}
		res, err := pipeline.Load(st)
		return ChartLoadedMsg{Result: res, Err: err}
	}
}

// saveChartCmd writes a snapshot taken on the update goroutine, so the
// live tree is never read concurrently.
func saveChartCmd(st *store.Store, nodes []model.Node) tea.Cmd {
	return func() tea.Msg {
		err := st.SaveChart(nodes)
		return SavedMsg{At: time.Now(), Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
