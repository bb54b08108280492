package hotel

import (
	"slices"
	"testing"

	"github.com/fulldump/biff"
	"github.com/google/go-cmp/cmp"
)

func TestMap(t *testing.T) {

	biff.Alternative("Setup", func(a *biff.A) {

		m := NewMap[string, int]()

		a.Alternative("Insert new keys", func(a *biff.A) {

			biff.AssertEqual(m.Insert("one", 1), 0)
			biff.AssertEqual(m.Insert("two", 2), 1)
			biff.AssertEqual(m.Insert("three", 3), 2)
			biff.AssertEqual(m.Len(), 3)

			a.Alternative("Get by key", func(a *biff.A) {
				index, value, ok := m.GetByKey("two")
				biff.AssertTrue(ok)
				biff.AssertEqual(index, 1)
				biff.AssertEqual(value, 2)
			})

			a.Alternative("Get missing key", func(a *biff.A) {
				_, _, ok := m.GetByKey("four")
				biff.AssertFalse(ok)
				biff.AssertFalse(m.Contains("four"))
			})

			a.Alternative("Get by index", func(a *biff.A) {
				value, ok := m.GetByIndex(2)
				biff.AssertTrue(ok)
				biff.AssertEqual(value, 3)

				_, ok = m.GetByIndex(3)
				biff.AssertFalse(ok)
			})

			a.Alternative("Overwrite existing key", func(a *biff.A) {
				biff.AssertEqual(m.Insert("two", 22), 1)
				biff.AssertEqual(m.Len(), 3)
				biff.AssertEqual(m.Floor(), 3)

				_, value, _ := m.GetByKey("two")
				biff.AssertEqual(value, 22)
			})

			a.Alternative("TryInsert existing key", func(a *biff.A) {
				index, ok := m.TryInsert("two", 222)
				biff.AssertFalse(ok)
				biff.AssertEqual(index, 1)

				_, value, _ := m.GetByKey("two")
				biff.AssertEqual(value, 2)
				biff.AssertEqual(m.Floor(), 3)
			})

			a.Alternative("TryInsert new key", func(a *biff.A) {
				index, ok := m.TryInsert("four", 4)
				biff.AssertTrue(ok)
				biff.AssertEqual(index, 3)
				biff.AssertTrue(m.Contains("four"))
			})

			a.Alternative("Drain", func(a *biff.A) {
				drained := map[int]int{}
				for index, value := range m.Drain() {
					drained[index] = value
				}
				biff.AssertEqual(drained, map[int]int{0: 1, 1: 2, 2: 3})
				biff.AssertEqual(m.Len(), 0)
				biff.AssertFalse(m.Contains("one"))

				a.Alternative("Insert after drain", func(a *biff.A) {
					biff.AssertEqual(m.Insert("one", 11), 2)
					index, value, ok := m.GetByKey("one")
					biff.AssertTrue(ok)
					biff.AssertEqual(index, 2)
					biff.AssertEqual(value, 11)
				})
			})
		})
	})
}

func TestMap_ZeroValue(t *testing.T) {
	var m Map[string, string]

	if m.Contains("a") {
		t.Fatalf("expected empty map")
	}
	if index := m.Insert("a", "A"); index != 0 {
		t.Fatalf("expected index 0, got %d", index)
	}
	if _, value, ok := m.GetByKey("a"); !ok || value != "A" {
		t.Fatalf("expected A, got %q ok=%v", value, ok)
	}
}

func TestMap_WithCapacity(t *testing.T) {
	m := NewMapWithCapacity[int, string](16)

	if got := cap(m.hotel.floor); got != 16 {
		t.Fatalf("expected floor capacity 16, got %d", got)
	}
	if got := cap(m.keys); got != 16 {
		t.Fatalf("expected keys capacity 16, got %d", got)
	}
	if index := m.Insert(7, "seven"); index != 0 {
		t.Fatalf("expected index 0, got %d", index)
	}
}

func TestMap_OverwriteIdempotence(t *testing.T) {
	m := NewMap[string, string]()

	first := m.Insert("key", "first")
	second := m.Insert("key", "second")

	if first != second {
		t.Fatalf("expected same index, got %d and %d", first, second)
	}

	values := slices.Collect(m.hotel.Values())
	if diff := cmp.Diff([]string{"second"}, values); diff != "" {
		t.Fatalf("live values mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_All(t *testing.T) {
	m := NewMap[string, int]()
	m.Insert("c", 3)
	m.Insert("a", 1)
	m.Insert("b", 2)

	indexes := []int{}
	values := []int{}
	for index, value := range m.All() {
		indexes = append(indexes, index)
		values = append(values, value)
	}

	if diff := cmp.Diff([]int{0, 1, 2}, indexes); diff != "" {
		t.Fatalf("indexes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 1, 2}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_Entries(t *testing.T) {
	m := NewMap[string, int]()
	m.Insert("c", 3)
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("a", 10)

	want := []Entry[string, int]{
		{Key: "c", Index: 0, Value: 3},
		{Key: "a", Index: 1, Value: 10},
		{Key: "b", Index: 2, Value: 2},
	}

	got := slices.Collect(m.Entries())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	// Same order every time
	again := slices.Collect(m.Entries())
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("entries order changed (-want +got):\n%s", diff)
	}
}

func TestMap_DrainStopEarly(t *testing.T) {
	m := NewMap[string, int]()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("c", 3)

	for index := range m.Drain() {
		if index == 0 {
			break
		}
	}

	if m.Contains("a") {
		t.Fatalf("expected drained key to be forgotten")
	}
	for _, key := range []string{"b", "c"} {
		if _, _, ok := m.GetByKey(key); !ok {
			t.Fatalf("expected key %q to survive", key)
		}
	}
	if got := m.Len(); got != 2 {
		t.Fatalf("expected 2 keys, got %d", got)
	}

	// Every key left still points to a live slot
	for entry := range m.Entries() {
		index, _, ok := m.GetByKey(entry.Key)
		if !ok || index != entry.Index {
			t.Fatalf("key %q out of sync: index=%d ok=%v", entry.Key, index, ok)
		}
	}
}
