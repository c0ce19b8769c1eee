package archway

import "testing"

func TestTypedColumnReserveOnlyGrowsWhileEmpty(t *testing.T) {
	c := newTypedColumn[int](0)
	c.Reserve(64)
	if cap(c.data) < 64 {
		t.Fatalf("expected capacity >= 64, got %d", cap(c.data))
	}

	c.Push(1)
	before := cap(c.data)
	c.Reserve(1024)
	if cap(c.data) != before {
		t.Fatalf("expected Reserve to no-op once non-empty, capacity changed %d -> %d", before, cap(c.data))
	}
}

func TestTypedColumnLockUnlockRoundTrip(t *testing.T) {
	c := newTypedColumn[int](0)
	c.Push(1)

	c.Lock()
	c.data[0] = 2
	c.Unlock()

	c.RLock()
	if c.data[0] != 2 {
		t.Fatalf("expected 2, got %d", c.data[0])
	}
	c.RUnlock()
}
