package seq

import "testing"

func TestAddRemoveTracksSize(t *testing.T) {
	a := New[int]()
	if !a.Empty() {
		t.Fatal("new container should be empty")
	}

	for i := 0; i < 25; i++ { // crosses the doubling threshold twice
		a.Add(i)
	}
	if a.Len() != 25 {
		t.Fatalf("Len()=%d, want 25", a.Len())
	}
	for i := 0; i < 25; i++ {
		if got := a.Get(i); got != i {
			t.Fatalf("Get(%d)=%d, want %d", i, got, i)
		}
	}

	a.RemoveAt(0)
	a.RemoveAt(a.Len() - 1)
	if !a.Remove(12) {
		t.Fatal("Remove(12) should find the element")
	}
	if a.Remove(99) {
		t.Fatal("Remove(99) should report no match")
	}
	if a.Len() != 22 {
		t.Fatalf("Len()=%d after removals, want 22", a.Len())
	}
}

func TestInsertAndSet(t *testing.T) {
	a := Of(1, 2, 4)
	a.Insert(2, 3)
	a.Insert(a.Len(), 5) // insert at Len appends
	want := []int{1, 2, 3, 4, 5}
	for i, w := range want {
		if got := a.Get(i); got != w {
			t.Fatalf("Get(%d)=%d, want %d", i, got, w)
		}
	}

	if old := a.Set(0, 10); old != 1 {
		t.Fatalf("Set returned %d, want old value 1", old)
	}
	if a.Get(0) != 10 {
		t.Fatal("Set did not replace the element")
	}
}

func TestIndexBoundsPanic(t *testing.T) {
	cases := []struct {
		name string
		fn   func(a *Array[int])
	}{
		{"get negative", func(a *Array[int]) { a.Get(-1) }},
		{"get past end", func(a *Array[int]) { a.Get(3) }},
		{"set past end", func(a *Array[int]) { a.Set(3, 0) }},
		{"remove past end", func(a *Array[int]) { a.RemoveAt(3) }},
		{"insert far past end", func(a *Array[int]) { a.Insert(5, 0) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tc.fn(Of(1, 2, 3))
		})
	}
}

func TestQueueSemantics(t *testing.T) {
	var q Queue[string] = Of("a", "b", "c")
	if q.Peek() != "a" {
		t.Fatalf("Peek()=%q, want a", q.Peek())
	}
	if got := q.Dequeue(); got != "a" {
		t.Fatalf("Dequeue()=%q, want a", got)
	}
	q.Enqueue("d")
	order := []string{"b", "c", "d"}
	for _, w := range order {
		if got := q.Dequeue(); got != w {
			t.Fatalf("Dequeue()=%q, want %q", got, w)
		}
	}
	if !q.Empty() {
		t.Fatal("queue should be drained")
	}
}

func TestEmptyQueuePanics(t *testing.T) {
	for _, op := range []string{"dequeue", "peek"} {
		t.Run(op, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			q := New[int]()
			if op == "dequeue" {
				q.Dequeue()
			} else {
				q.Peek()
			}
		})
	}
}

func TestSortStableAndIdempotent(t *testing.T) {
	type pair struct{ key, seq int }
	byKey := func(x, y pair) bool { return x.key < y.key }

	a := Of(
		pair{3, 0}, pair{1, 1}, pair{2, 2}, pair{1, 3}, pair{2, 4},
	)
	a.Sort(byKey)
	want := []pair{{1, 1}, {1, 3}, {2, 2}, {2, 4}, {3, 0}}
	for i, w := range want {
		if got := a.Get(i); got != w {
			t.Fatalf("after sort Get(%d)=%v, want %v (stability broken)", i, got, w)
		}
	}

	// A second sort with the same comparator must not move anything.
	a.Sort(byKey)
	for i, w := range want {
		if got := a.Get(i); got != w {
			t.Fatalf("second sort moved element %d: %v, want %v", i, got, w)
		}
	}
}

func TestIterator(t *testing.T) {
	a := Of(1, 2, 3)
	var got []int
	for it := a.Iter(); it.Next(); {
		got = append(got, it.Value())
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("iterator produced %v", got)
	}

	it := a.Iter()
	defer func() {
		if recover() == nil {
			t.Fatal("Value before Next should panic")
		}
	}()
	it.Value()
}

func TestClear(t *testing.T) {
	a := Of(1, 2, 3)
	a.Clear()
	if !a.Empty() || a.Len() != 0 {
		t.Fatal("Clear should empty the container")
	}
	a.Add(7)
	if a.Get(0) != 7 {
		t.Fatal("container unusable after Clear")
	}
}
