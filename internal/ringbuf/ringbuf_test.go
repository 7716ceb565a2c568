package ringbuf

import "testing"

func TestPushEvictsOldest(t *testing.T) {
	b := New[int](3)
	for _, v := range []int{1, 2, 3} {
		if _, did := b.Push(v); did {
			t.Fatalf("unexpected eviction below capacity")
		}
	}
	evicted, did := b.Push(4)
	if !did || evicted != 1 {
		t.Fatalf("expected eviction of 1, got %d did=%v", evicted, did)
	}
	if b.Len() != 3 {
		t.Fatalf("expected len 3, got %d", b.Len())
	}
	want := []int{2, 3, 4}
	for i, w := range want {
		if got := b.At(i); got != w {
			t.Fatalf("At(%d)=%d, want %d", i, got, w)
		}
	}
}

func TestNeverExceedsCap(t *testing.T) {
	b := New[int](5)
	for i := 0; i < 10000; i++ {
		b.Push(i)
		if b.Len() > b.Cap() {
			t.Fatalf("buffer exceeded capacity: len=%d cap=%d", b.Len(), b.Cap())
		}
	}
}
