package shell

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/orgchart/internal/logging"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
)

func newTestSession(admin bool) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	s := NewSession(orgtree.NewSeeded(), model.Operator{Name: "tester", IsAdmin: admin}, &out)
	s.Log = logging.Discard()
	return s, &out
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"tree", []string{"tree"}},
		{"add  Eve   SRE", []string{"add", "Eve", "SRE"}},
		{`add "Eve Park" "Site Reliability" Engineering`, []string{"add", "Eve Park", "Site Reliability", "Engineering"}},
		{`rename 4 ""`, []string{"rename", "4", ""}},
		{"find\tmarketing", []string{"find", "marketing"}},
	}
	for _, tt := range tests {
		got := ParseArgs(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseArgs(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseArgs(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestExecute_AddUnderSelection(t *testing.T) {
	s, out := newTestSession(true)

	if err := s.Execute("select 2"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Execute(`add "Eve Park" SRE`); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out.String(), "added Eve Park") {
		t.Errorf("output = %q, want confirmation", out.String())
	}

	kids, err := s.Tree.Children("2")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	last := kids[len(kids)-1]
	if last.Name != "Eve Park" || last.Title != "SRE" || last.Department != orgtree.DefaultDepartment {
		t.Errorf("new child = %+v", last)
	}
	if !s.Dirty() {
		t.Error("session should be dirty after add")
	}
}

func TestExecute_AddAsRootWithoutSelection(t *testing.T) {
	s, _ := newTestSession(true)
	if err := s.Execute("add Solo"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := len(s.Tree.Roots()); got != 2 {
		t.Errorf("roots = %d, want 2", got)
	}
}

func TestExecute_NonAdminDenied(t *testing.T) {
	s, _ := newTestSession(false)

	for _, line := range []string{"add Eve", "del 4", "rename 4 Bob", "title 4 Lead", "suggest 4"} {
		err := s.Execute(line)
		if !errors.Is(err, orgtree.ErrPermissionDenied) {
			t.Errorf("Execute(%q) error = %v, want ErrPermissionDenied", line, err)
		}
	}
	if s.Tree.Len() != 6 {
		t.Errorf("Len = %d, want 6", s.Tree.Len())
	}
	if s.Dirty() {
		t.Error("denied commands must not mark the session dirty")
	}
}

func TestExecute_DeleteClearsSelection(t *testing.T) {
	s, out := newTestSession(true)
	s.Selected = "4"

	if err := s.Execute("del 2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if s.Selected != "" {
		t.Errorf("Selected = %q, want cleared", s.Selected)
	}
	if !strings.Contains(out.String(), "removed 3 nodes") {
		t.Errorf("output = %q, want removal count", out.String())
	}
	if s.Prompt() != "orgchart> " {
		t.Errorf("Prompt = %q", s.Prompt())
	}
}

func TestExecute_DeleteKeepsUnrelatedSelection(t *testing.T) {
	s, _ := newTestSession(true)
	s.Selected = "6"

	if err := s.Execute("del 2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if s.Selected != "6" {
		t.Errorf("Selected = %q, want 6", s.Selected)
	}
}

func TestExecute_SelectUnknown(t *testing.T) {
	s, _ := newTestSession(true)
	if err := s.Execute("select nope"); !errors.Is(err, orgtree.ErrNotFound) {
		t.Errorf("select error = %v, want ErrNotFound", err)
	}
	if err := s.Execute("select 3"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := s.Prompt(); got != "orgchart [Bob Johnson]> " {
		t.Errorf("Prompt = %q", got)
	}
	if err := s.Execute("select -"); err != nil || s.Selected != "" {
		t.Errorf("select - = %v, Selected %q", err, s.Selected)
	}
}

func TestExecute_Find(t *testing.T) {
	s, out := newTestSession(false)
	if err := s.Execute("find MARKETING"); err != nil {
		t.Fatalf("find: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Bob Johnson") || !strings.Contains(got, "Diana Lee") {
		t.Errorf("find output = %q", got)
	}
	if !strings.Contains(got, "2 matches") {
		t.Errorf("find output missing count: %q", got)
	}
}

func TestExecute_TitleAndSuggest(t *testing.T) {
	s, _ := newTestSession(true)
	if err := s.Execute(`title 4 "Staff Engineer"`); err != nil {
		t.Fatalf("title: %v", err)
	}
	if err := s.Execute("suggest 4"); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	n, _ := s.Tree.Get("4")
	if n.Title != orgtree.SuggestionPrefix+"Staff Engineer" {
		t.Errorf("Title = %q", n.Title)
	}
}

func TestExecute_SaveAndAutoSave(t *testing.T) {
	s, _ := newTestSession(true)
	if err := s.Execute("save"); err == nil {
		t.Error("save without a database should fail")
	}

	saves := 0
	s.SaveFunc = func(*orgtree.Tree) error {
		saves++
		return nil
	}

	if err := s.Execute("rename 5 Charles"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if saves != 0 || !s.Dirty() {
		t.Fatalf("saves = %d dirty = %v, want 0 and true", saves, s.Dirty())
	}
	if err := s.Execute("save"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if saves != 1 || s.Dirty() {
		t.Fatalf("saves = %d dirty = %v, want 1 and false", saves, s.Dirty())
	}

	s.AutoSave = true
	if err := s.Execute("del 6"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if saves != 2 || s.Dirty() {
		t.Errorf("saves = %d dirty = %v, want 2 and false", saves, s.Dirty())
	}
}

func TestExecute_UnknownAndExit(t *testing.T) {
	s, _ := newTestSession(false)
	if err := s.Execute("frobnicate"); err == nil {
		t.Error("unknown command should fail")
	}
	if err := s.Execute("EXIT"); !errors.Is(err, ErrExit) {
		t.Errorf("exit error = %v, want ErrExit", err)
	}
	if err := s.Execute("   "); err != nil {
		t.Errorf("blank line error = %v", err)
	}
}

func TestExecute_ShowRequiresTarget(t *testing.T) {
	s, out := newTestSession(false)
	if err := s.Execute("show"); !errors.Is(err, errUsage) {
		t.Errorf("show without selection = %v, want usage error", err)
	}
	if err := s.Execute("show 4"); err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Alice Brown", "Jane Smith", "John Doe"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q", want)
		}
	}
}
