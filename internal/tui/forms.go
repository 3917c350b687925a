package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/orgchart/internal/config"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type formKind int

const (
	formNone formKind = iota
	formAdd
	formTitle
	formRename
	formSetup
)

const maxFieldLen = 120

// formValues backs the modal forms. It is heap allocated per form because
// huh binds to field addresses and App is copied on every update.
type formValues struct {
	parentID string
	targetID string

	name       string
	title      string
	department string
	admin      bool

	setup *SetupValues
}

// SetupValues are the answers collected by the first-run form.
type SetupValues struct {
	Operator string
	Admin    bool
	Theme    string
	AutoSave bool
}

// SetupValuesFrom seeds the setup form with the current configuration.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Operator: cfg.Operator.Name,
		Admin:    cfg.Operator.Admin,
		Theme:    cfg.Appearance.Theme,
		AutoSave: cfg.General.AutoSave,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.Operator.Name = strings.TrimSpace(v.Operator)
	cfg.Operator.Admin = v.Admin
	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
	cfg.General.AutoSave = v.AutoSave
}

// NewSetupForm builds the first-run configuration form.
func NewSetupForm(v *SetupValues) *huh.Form {
	if !theme.Valid(v.Theme) {
		v.Theme = theme.FlexokiDark.Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to orgchart").
				Description("A few questions before you start. Run `orgchart setup` anytime to change them."),
			huh.NewInput().
				Title("Your name").
				Description("Recorded as the operator on every change.").
				CharLimit(maxFieldLen).
				Value(&v.Operator).
				Validate(required("name")),
			huh.NewConfirm().
				Title("Edit as admin?").
				Description("Only admins can add, remove or edit people.").
				Affirmative("Yes").
				Negative("No").
				Value(&v.Admin),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
			huh.NewConfirm().
				Title("Save changes automatically?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.AutoSave),
		),
	).WithShowHelp(true)
}

func (a App) formValuesFromConfig() *formValues {
	return &formValues{setup: SetupValuesFrom(a.cfg)}
}

func newSetupForm(v *formValues) *huh.Form {
	return NewSetupForm(v.setup)
}

func newNodeForm(v *formValues, parentName string) *huh.Form {
	where := "Adds a new top-level person."
	if v.parentID != "" {
		where = fmt.Sprintf("Adds a direct report of %s.", parentName)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Add person").Description(where),
			huh.NewInput().
				Title("Name").
				Placeholder(orgtree.DefaultName).
				CharLimit(maxFieldLen).
				Value(&v.name),
			huh.NewInput().
				Title("Title").
				Placeholder(orgtree.DefaultTitle).
				CharLimit(maxFieldLen).
				Value(&v.title),
			huh.NewInput().
				Title("Department").
				Placeholder(orgtree.DefaultDepartment).
				CharLimit(maxFieldLen).
				Value(&v.department),
			huh.NewConfirm().
				Title("Admin rights?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.admin),
		),
	).WithShowHelp(true)
}

func newTitleForm(v *formValues, name string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New title for " + name).
				CharLimit(maxFieldLen).
				Value(&v.title).
				Validate(required("title")),
		),
	).WithShowHelp(true)
}

func newRenameForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rename").
				CharLimit(maxFieldLen).
				Value(&v.name).
				Validate(required("name")),
		),
	).WithShowHelp(true)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func (a *App) openForm(kind formKind, v *formValues, f *huh.Form) tea.Cmd {
	if a.width > 0 {
		f = f.WithWidth(min(a.width, 72))
	}
	a.form = f
	a.formKind = kind
	a.formVals = v
	return f.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.formVals = nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		if a.formKind == formSetup {
			a.needSetup = false
		}
		a.closeForm()
		a.setStatus("Cancelled")
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind, v := a.formKind, a.formVals
		a.closeForm()
		next := a.applyForm(kind, v)
		return a, next
	case huh.StateAborted:
		if a.formKind == formSetup {
			a.needSetup = false
		}
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) applyForm(kind formKind, v *formValues) tea.Cmd {
	switch kind {
	case formAdd:
		n, err := a.tree.Insert(a.operator, v.parentID, model.NodeFields{
			Name:       v.name,
			Title:      v.title,
			Department: v.department,
			IsAdmin:    v.admin,
		})
		cmd := a.commit("Added "+n.Name, err)
		if err == nil {
			a.focusNode(n.ID)
		}
		return cmd
	case formTitle:
		n, err := a.tree.UpdateTitle(a.operator, v.targetID, v.title)
		return a.commit(fmt.Sprintf("%s is now %q", n.Name, n.Title), err)
	case formRename:
		n, err := a.tree.Rename(a.operator, v.targetID, v.name)
		return a.commit("Renamed to "+n.Name, err)
	case formSetup:
		a.needSetup = false
		v.setup.Apply(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		a.operator = model.Operator{Name: a.cfg.Operator.Name, IsAdmin: a.cfg.Operator.Admin}
		if err := config.SaveTo(a.configPath, a.cfg); err != nil {
			a.setError(fmt.Errorf("saving config: %w", err))
			return nil
		}
		a.setStatus("Settings saved to " + a.configPath)
	}
	return nil
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
