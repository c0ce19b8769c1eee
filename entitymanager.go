package archway

// entitySlot is the per-index bookkeeping record: the slot's current
// generation and, while occupied, its location.
type entitySlot struct {
	generation uint32
	location   EntityLocation
}

// EntityManager issues generational entity identifiers, resolves them to
// their current storage location, and invalidates them on despawn. A
// despawned slot's generation is bumped immediately and the slot is queued
// on a free list for reuse by a later spawn.
type EntityManager struct {
	freeSlots []uint32
	slots     []entitySlot
}

// NewEntityManager returns an empty EntityManager with no preallocated
// capacity.
func NewEntityManager() *EntityManager {
	return NewEntityManagerWithCapacity(0)
}

// NewEntityManagerWithCapacity returns an empty EntityManager whose slot
// slice is preallocated for capacity entities, avoiding repeated growth
// while a World seeded with WorldOptions.InitialCapacity first fills up.
func NewEntityManagerWithCapacity(capacity int) *EntityManager {
	m := &EntityManager{}
	if capacity > 0 {
		m.slots = make([]entitySlot, 0, capacity)
	}
	return m
}

// NewEntity allocates a fresh identifier bound to loc. A freed slot is
// reused (its generation was already incremented at despawn time); otherwise
// a new slot is appended starting at generation 0.
func (m *EntityManager) NewEntity(loc EntityLocation) Entity {
	if n := len(m.freeSlots); n > 0 {
		index := m.freeSlots[n-1]
		m.freeSlots = m.freeSlots[:n-1]
		m.slots[index].location = loc
		return Entity{Index: index, Generation: m.slots[index].generation}
	}

	index := uint32(len(m.slots))
	m.slots = append(m.slots, entitySlot{generation: 0, location: loc})
	return Entity{Index: index, Generation: 0}
}

// GetLocation resolves e to its current location. It returns
// ErrNoMatchingEntity if e.Index has never been issued, or
// ErrEntityNoLongerExists if the slot's generation has since moved past
// e.Generation.
func (m *EntityManager) GetLocation(e Entity) (EntityLocation, error) {
	if int(e.Index) >= len(m.slots) {
		return EntityLocation{}, ErrNoMatchingEntity
	}
	slot := m.slots[e.Index]
	if slot.generation != e.Generation {
		return EntityLocation{}, ErrEntityNoLongerExists
	}
	return slot.location, nil
}

// Despawn invalidates e. It is idempotent with respect to stale handles: a
// call with a generation that no longer matches is reported as
// ErrEntityNoLongerExists and has no effect.
func (m *EntityManager) Despawn(e Entity) error {
	if int(e.Index) >= len(m.slots) {
		return ErrNoMatchingEntity
	}
	slot := &m.slots[e.Index]
	if slot.generation != e.Generation {
		return ErrEntityNoLongerExists
	}
	slot.generation++
	slot.location = EntityLocation{}
	m.freeSlots = append(m.freeSlots, e.Index)
	return nil
}

// Generation returns the current generation stored for index, used by the
// query engine to reconstruct an Entity handle from a raw entity index
// found in an archetype's entityIndices vector.
func (m *EntityManager) Generation(index uint32) uint32 {
	return m.slots[index].generation
}

// UpdateRow rewrites just the row component of the location stored at
// index, leaving the archetype and generation untouched. Used by
// Archetype.SwapRemove to rehome the entity that was moved into a vacated
// row.
func (m *EntityManager) UpdateRow(index uint32, row int) {
	m.slots[index].location.Row = row
}

// UpdateLocation rewrites the full location stored at index. Used when an
// entity migrates from one archetype to another.
func (m *EntityManager) UpdateLocation(index uint32, loc EntityLocation) {
	m.slots[index].location = loc
}
