package theme

import "testing"

func TestDepartmentColor_StableAndCaseInsensitive(t *testing.T) {
	for _, th := range All {
		a := th.DepartmentColor("Engineering")
		if b := th.DepartmentColor("engineering"); a != b {
			t.Fatalf("%s: DepartmentColor differs by case: %q vs %q", th.Name, a, b)
		}
		if a == "" {
			t.Fatalf("%s: DepartmentColor returned empty color", th.Name)
		}
		found := false
		for _, c := range th.Departments {
			if c == a {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: DepartmentColor(%q) = %q, not in palette", th.Name, "Engineering", a)
		}
	}
}

func TestNamesAndValid(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("Names() len = %d, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Valid(n) {
			t.Fatalf("Valid(%q) = false", n)
		}
	}
	if Valid("solarized") {
		t.Fatal("Valid(solarized) = true, want false")
	}
	if ByName("solarized").Name != FlexokiDark.Name {
		t.Fatal("unknown theme should fall back to flexoki-dark")
	}
}
