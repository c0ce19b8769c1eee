package archway

import "testing"

type capPos struct{ X int }

func TestWorldInitialCapacityReservesEntitySlotsAndColumns(t *testing.T) {
	ResetGlobalRegistry()
	w := NewWorldWithOptions(WorldOptions{InitialCapacity: 256})

	if cap(w.entityManager.slots) < 256 {
		t.Fatalf("expected entity manager to preallocate 256 slots, got cap %d", cap(w.entityManager.slots))
	}

	w.Spawn(NewBundle1(capPos{X: 1}))
	arch := w.archetypes[0]
	col, ok := arch.columns[0].(*typedColumn[capPos])
	if !ok {
		t.Fatalf("expected *typedColumn[capPos], got %T", arch.columns[0])
	}
	if cap(col.data) < 256 {
		t.Fatalf("expected column to reserve 256 rows, got cap %d", cap(col.data))
	}
}

func TestWorldDefaultCapacityUsesDefaultInitialCapacity(t *testing.T) {
	ResetGlobalRegistry()
	w := NewWorld()
	if w.initialCapacity != defaultInitialCapacity {
		t.Fatalf("expected default capacity %d, got %d", defaultInitialCapacity, w.initialCapacity)
	}
}
