package determinism

import "testing"

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"M003": 3, "COMP0004": 4, "M001": 1}
	got := SortedKeys(m)
	want := []string{"COMP0004", "M001", "M003"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestComputeHashIsStable(t *testing.T) {
	a := ComputeHash([]byte("materials"))
	b := ComputeHash([]byte("materials"))
	if a != b {
		t.Error("identical input must hash identically")
	}
	if a == ComputeHash([]byte("recipes")) {
		t.Error("different input should hash differently")
	}
	if len(a.Hex()) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a.Hex()))
	}
}

func TestSortSliceIsStable(t *testing.T) {
	type item struct {
		key   int
		label string
	}
	items := []item{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}}
	SortSlice(items, func(a, b item) bool { return a.key < b.key })

	want := []string{"b", "d", "a", "c"}
	for i := range want {
		if items[i].label != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], items[i].label)
		}
	}
}
