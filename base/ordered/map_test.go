package ordered_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/irlower/base/ordered"
)

type entry struct {
	k string
	v int
}

func collect(m *ordered.Map[string, int]) []entry {
	var all []entry
	for k, v := range m.Iter() {
		all = append(all, entry{k: k, v: v})
	}
	return all
}

func TestStoreOrder(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "c", v: 3}},
			want:    []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "c", v: 3}},
		},
		{
			entries: []entry{{k: "a", v: 1}, {k: "b", v: 2}, {k: "a", v: 3}},
			want:    []entry{{k: "a", v: 3}, {k: "b", v: 2}},
		},
		{
			entries: []entry{{k: "a", v: 1}, {k: "a", v: 2}, {k: "a", v: 4}},
			want:    []entry{{k: "a", v: 4}},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, e := range test.entries {
			m.Store(e.k, e.v)
		}
		got := collect(m.Clone())
		if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(entry{})); diff != "" {
			t.Errorf("test %d: unexpected entries (-want +got):\n%s", ti, diff)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
		}
	}
}

func TestRekey(t *testing.T) {
	m := ordered.NewMap[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)
	if !m.Rekey("b", "z") {
		t.Fatalf("Rekey(b, z) failed")
	}
	if m.Rekey("a", "c") {
		t.Errorf("Rekey(a, c) succeeded but c is already a key")
	}
	if m.Rekey("q", "r") {
		t.Errorf("Rekey(q, r) succeeded but q is not a key")
	}
	got := slices.Collect(m.Keys())
	want := []string{"a", "z", "c"}
	if !cmp.Equal(got, want) {
		t.Errorf("got keys %v but want %v", got, want)
	}
	if v, ok := m.Load("z"); !ok || v != 2 {
		t.Errorf("Load(z) = %d, %v but want 2, true", v, ok)
	}
	if _, ok := m.Load("b"); ok {
		t.Errorf("Load(b) found a value after the key has been replaced")
	}
}

func TestStoreWhileIterating(t *testing.T) {
	m := ordered.NewMap[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	var visited []string
	for k := range m.Keys() {
		visited = append(visited, k)
		m.Store(k+"_new", 0)
	}
	if !cmp.Equal(visited, []string{"a", "b"}) {
		t.Errorf("visited %v but want [a b]", visited)
	}
	if m.Size() != 4 {
		t.Errorf("map has %d entries but want 4", m.Size())
	}
}
