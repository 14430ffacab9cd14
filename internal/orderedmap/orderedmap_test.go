package orderedmap

import "testing"

func TestSetPreservesInsertionOrder(t *testing.T) {
	m := New(0)
	m.Set("Type", "H")
	m.Set("Name", "Alice")
	m.Set("Amount", "123")

	want := []string{"Type", "Name", "Amount"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("Keys()[%d] = %q, want %q", i, got[i], k)
		}
	}
}

func TestSetUpdateKeepsPosition(t *testing.T) {
	m := New(0)
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Keys() = %v, want [a b]", got)
	}
	v, ok := m.Get("a")
	if !ok || v != "3" {
		t.Fatalf("Get(a) = (%q, %v), want (3, true)", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	m := New(0)
	if _, ok := m.Get("missing"); ok {
		t.Fatal("Get(missing) returned ok=true")
	}
}

func TestEachVisitsInOrder(t *testing.T) {
	m := New(0)
	m.Set("x", "1")
	m.Set("y", "2")

	var keys []string
	m.Each(func(k, v string) { keys = append(keys, k) })
	if len(keys) != 2 || keys[0] != "x" || keys[1] != "y" {
		t.Fatalf("Each order = %v, want [x y]", keys)
	}
}
