//go:build go1.23

package om

import (
	"maps"
	"reflect"
	"slices"
	"testing"
)

func TestLinkedMapOfAllSeq(t *testing.T) {
	m := NewLinkedMapOf[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i*10)
	}
	count := 0
	for key, value := range m.All() {
		want := 99 - count
		if key != want || value != want*10 {
			t.Fatalf("expected pair (%d, %d), got (%d, %d)", want, want*10, key, value)
		}
		count++
	}
	if count != 100 {
		t.Fatalf("expected 100 entries, got %d", count)
	}
}

func TestLinkedMapOfBackwardSeq(t *testing.T) {
	m := NewLinkedMapOf[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i*10)
	}
	count := 0
	for key, value := range m.Backward() {
		if key != count || value != count*10 {
			t.Fatalf("expected pair (%d, %d), got (%d, %d)", count, count*10, key, value)
		}
		count++
	}
	if count != 100 {
		t.Fatalf("expected 100 entries, got %d", count)
	}
}

func TestLinkedMapOfKeysValuesSeq(t *testing.T) {
	m := NewLinkedMapOf[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)
	m.Store("c", 3)

	keys := slices.Collect(m.Keys())
	if !reflect.DeepEqual(keys, []string{"c", "b", "a"}) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	values := slices.Collect(m.Values())
	if !reflect.DeepEqual(values, []int{3, 2, 1}) {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestLinkedMapOfSeqEarlyBreak(t *testing.T) {
	m := NewLinkedMapOf[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i)
	}
	count := 0
	for range m.All() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("expected the loop to stop after 3 entries, got %d", count)
	}
}

func TestLinkedMapOfSeqDelete(t *testing.T) {
	m := NewLinkedMapOf[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i)
	}
	for key := range m.Keys() {
		if key%2 == 0 {
			m.Delete(key)
		}
	}
	if got := m.Size(); got != 50 {
		t.Fatalf("expected size 50, got %d", got)
	}
	for key := range m.Keys() {
		if key%2 == 0 {
			t.Fatalf("expected key %d to be deleted", key)
		}
	}
}

func TestLinkedMapOfSeqUpdate(t *testing.T) {
	m := NewLinkedMapOf[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i)
	}
	for key, value := range m.All() {
		m.Store(key, value*2)
	}
	for key, value := range m.All() {
		if value != key*2 {
			t.Fatalf("expected value %d for key %d, got %d", key*2, key, value)
		}
	}
}

func TestLinkedMapOfSeqCollect(t *testing.T) {
	m := NewLinkedMapOf[int, int]()
	for i := 0; i < 100; i++ {
		m.Store(i, i*10)
	}
	collected := maps.Collect(m.All())
	if !reflect.DeepEqual(collected, m.ToMap()) {
		t.Fatal("expected maps.Collect to match ToMap")
	}
}
