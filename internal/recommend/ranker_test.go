package recommend

import (
	"fmt"
	"reflect"
	"testing"
)

func ids(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

func TestBuildPageAffinityFirstThenPopular(t *testing.T) {
	pools := Pools{
		Affinity: []string{"a1", "a2"},
		Popular:  []string{"a1", "p1", "a2", "p2"},
	}

	got := BuildPage(pools, 1, 3)
	want := []string{"a1", "a2", "p1"}
	if !reflect.DeepEqual(got.IDs, want) {
		t.Fatalf("page 1 = %v, want %v", got.IDs, want)
	}
	if got.Total != 4 {
		t.Fatalf("total = %d, want 4", got.Total)
	}

	got = BuildPage(pools, 2, 3)
	if !reflect.DeepEqual(got.IDs, []string{"p2"}) {
		t.Fatalf("page 2 = %v, want [p2]", got.IDs)
	}
}

func TestBuildPageFillerContinuesRankedList(t *testing.T) {
	pools := Pools{
		Affinity: []string{"a1"},
		Popular:  []string{"p1", "p2"},
		Filler:   []string{"l1", "l2", "l3"},
	}

	page1 := BuildPage(pools, 1, 2)
	page2 := BuildPage(pools, 2, 2)
	page3 := BuildPage(pools, 3, 2)
	page4 := BuildPage(pools, 4, 2)

	if !reflect.DeepEqual(page1.IDs, []string{"a1", "p1"}) {
		t.Fatalf("page 1 = %v", page1.IDs)
	}
	if !reflect.DeepEqual(page2.IDs, []string{"p2", "l1"}) {
		t.Fatalf("page 2 = %v", page2.IDs)
	}
	if !reflect.DeepEqual(page3.IDs, []string{"l2", "l3"}) {
		t.Fatalf("page 3 = %v", page3.IDs)
	}
	if len(page4.IDs) != 0 {
		t.Fatalf("page 4 = %v, want empty", page4.IDs)
	}
	if page1.Total != 6 {
		t.Fatalf("total = %d, want 6", page1.Total)
	}
}

func TestBuildPagePartitionsRankedList(t *testing.T) {
	pools := Pools{
		Affinity: ids("a", 7),
		Popular:  append(ids("a", 3), ids("p", 11)...),
		Filler:   ids("l", 5),
	}

	const size = 4
	seen := make(map[string]bool)
	var all []string
	for page := 1; ; page++ {
		got := BuildPage(pools, page, size)
		if len(got.IDs) > size {
			t.Fatalf("page %d has %d ids, exceeds size %d", page, len(got.IDs), size)
		}
		if len(got.IDs) == 0 {
			break
		}
		for _, id := range got.IDs {
			if seen[id] {
				t.Fatalf("id %s appears on more than one page", id)
			}
			seen[id] = true
		}
		all = append(all, got.IDs...)
	}

	if len(all) != 7+11+5 {
		t.Fatalf("collected %d ids, want %d", len(all), 7+11+5)
	}
}

func TestBuildPageNoFillerForAnonymous(t *testing.T) {
	pools := Pools{Popular: []string{"p1", "p2"}}

	got := BuildPage(pools, 1, 5)
	if !reflect.DeepEqual(got.IDs, []string{"p1", "p2"}) {
		t.Fatalf("ids = %v", got.IDs)
	}
	if got.Total != 2 {
		t.Fatalf("total = %d, want 2", got.Total)
	}
}

func TestBuildPageFillerSkipsIDsAlreadyRanked(t *testing.T) {
	pools := Pools{
		Popular: []string{"p1"},
		Filler:  []string{"p1", "l1"},
	}

	got := BuildPage(pools, 1, 3)
	if !reflect.DeepEqual(got.IDs, []string{"p1", "l1"}) {
		t.Fatalf("ids = %v, want [p1 l1]", got.IDs)
	}
}

func TestBuildPageInvalidArgs(t *testing.T) {
	pools := Pools{Popular: []string{"p1", "p2"}}

	if got := BuildPage(pools, 0, 1); !reflect.DeepEqual(got.IDs, []string{"p1"}) {
		t.Fatalf("page 0 should be treated as page 1, got %v", got.IDs)
	}
	if got := BuildPage(pools, 1, 0); len(got.IDs) != 0 {
		t.Fatalf("size 0 should yield no ids, got %v", got.IDs)
	}
}

func TestReorder(t *testing.T) {
	type rec struct{ id string }
	records := []rec{{"c"}, {"a"}, {"b"}}

	got := Reorder([]string{"a", "b", "gone", "c"}, records, func(r rec) string { return r.id })
	want := []rec{{"a"}, {"b"}, {"c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Reorder = %v, want %v", got, want)
	}
}
