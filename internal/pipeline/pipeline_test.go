package pipeline

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"
	"github.com/theirongolddev/orgchart/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "chart.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestLoad_EmptyStoreSeeds(t *testing.T) {
	st := openStore(t)

	res, err := Load(st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.Seeded {
		t.Fatal("Seeded = false, want true for empty store")
	}
	if res.Tree.Len() != 6 {
		t.Fatalf("seeded tree len = %d, want 6", res.Tree.Len())
	}
}

func TestSaveThenLoad(t *testing.T) {
	st := openStore(t)
	tree := orgtree.NewSeeded()

	admin := model.Operator{Name: "t", IsAdmin: true}
	if _, err := tree.Remove(admin, "3"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	added, err := tree.Insert(admin, "4", model.NodeFields{Name: "Intern"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := Save(st, tree); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res, err := Load(st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Seeded {
		t.Fatal("Seeded = true after save")
	}
	if res.SavedAt.IsZero() {
		t.Fatal("SavedAt is zero after save")
	}
	if res.Tree.Len() != 5 {
		t.Fatalf("loaded len = %d, want 5", res.Tree.Len())
	}
	got, err := res.Tree.Get(added.ID)
	if err != nil {
		t.Fatalf("Get(%s): %v", added.ID, err)
	}
	if got.ReportsTo != "4" {
		t.Fatalf("ReportsTo = %q, want 4", got.ReportsTo)
	}
}

func TestLoad_CorruptChart(t *testing.T) {
	st := openStore(t)
	// Child link exists but the child reports elsewhere.
	bad := []model.Node{
		{ID: "1", Children: []string{"2"}},
		{ID: "2", ReportsTo: "", Children: []string{}},
	}
	if err := st.SaveChart(bad); err != nil {
		t.Fatalf("SaveChart: %v", err)
	}

	_, err := Load(st)
	if !errors.Is(err, orgtree.ErrInvalidSeed) {
		t.Fatalf("Load err = %v, want ErrInvalidSeed", err)
	}
}

func TestReset(t *testing.T) {
	st := openStore(t)
	if err := st.SaveChart([]model.Node{{ID: "x", Children: []string{}}}); err != nil {
		t.Fatal(err)
	}

	tree, err := Reset(st)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if tree.Len() != 6 {
		t.Fatalf("Reset len = %d, want 6", tree.Len())
	}
	n, err := st.NodeCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Fatalf("stored count = %d, want 6", n)
	}
}

func TestAggregateDepartments(t *testing.T) {
	depts := AggregateDepartments(orgtree.SeedNodes())

	if len(depts) != 3 {
		t.Fatalf("departments = %d, want 3", len(depts))
	}

	eng := depts[0]
	if eng.Department != "Engineering" || eng.Headcount != 3 {
		t.Fatalf("first = %+v, want Engineering x3", eng)
	}
	if eng.Admins != 1 || eng.Managers != 1 {
		t.Fatalf("Engineering admins/managers = %d/%d, want 1/1", eng.Admins, eng.Managers)
	}
	if math.Abs(eng.SharePercent-50) > 1e-9 {
		t.Fatalf("Engineering share = %.2f, want 50", eng.SharePercent)
	}

	if depts[1].Department != "Marketing" || depts[2].Department != "Executive" {
		t.Fatalf("order = %s, %s; want Marketing, Executive", depts[1].Department, depts[2].Department)
	}
}

func TestAggregateDepartments_Empty(t *testing.T) {
	if got := AggregateDepartments(nil); len(got) != 0 {
		t.Fatalf("AggregateDepartments(nil) = %v, want empty", got)
	}
}

func TestFilterByDepartment(t *testing.T) {
	got := FilterByDepartment(orgtree.SeedNodes(), "MARK")
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "6" {
		t.Fatalf("FilterByDepartment(MARK) = %v, want nodes 3 and 6", got)
	}
}

func TestSpanOfControl(t *testing.T) {
	spans := SpanOfControl(orgtree.SeedNodes())
	if spans["1"] != 2 || spans["2"] != 2 || spans["3"] != 1 {
		t.Fatalf("spans = %v", spans)
	}
	if _, ok := spans["4"]; ok {
		t.Fatal("leaf 4 should have no span entry")
	}
}
