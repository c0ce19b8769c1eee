package archway

import "sort"

// Archetype is row-parallel columnar storage for every entity sharing one
// fixed component schema. The schema is immutable once the archetype is
// created: a sorted, duplicate-free list of ComponentIDs. Each column is
// parallel to the schema (same order, same length) and parallel to
// entityIndices. Row r's components live at position r in every column,
// and entityIndices[r] names which entity slot owns that row.
type Archetype struct {
	index         int
	schema        []ComponentID
	mask          maskType
	columns       []Column
	entityIndices []uint32
}

// newArchetype builds an archetype for the given sorted, duplicate-free
// schema from the supplied, already constructed columns (one per id,
// parallel to schema).
func newArchetype(index int, schema []ComponentID, columns []Column) *Archetype {
	return &Archetype{
		index:   index,
		schema:  schema,
		mask:    makeMask(schema),
		columns: columns,
	}
}

// Index returns this archetype's position in World's archetype slice.
func (a *Archetype) Index() int { return a.index }

// Schema returns the archetype's sorted, duplicate-free component id list.
// The returned slice aliases internal storage and must not be mutated.
func (a *Archetype) Schema() []ComponentID { return a.schema }

// Len returns the current row count.
func (a *Archetype) Len() int { return len(a.entityIndices) }

// columnIndex returns the position of id within the schema via binary
// search (the schema is kept sorted), or -1 if absent.
func (a *Archetype) columnIndex(id ComponentID) int {
	lo, hi := 0, len(a.schema)
	for lo < hi {
		mid := (lo + hi) / 2
		if a.schema[mid] < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(a.schema) && a.schema[lo] == id {
		return lo
	}
	return -1
}

// CorrespondingColumns resolves each requested id to its column position
// within this archetype. It panics if a requested id is absent from the
// schema: a missing id here is a programmer error, not an absent-value
// signal. The query cursor does not call it; it takes column positions from
// ArchetypeLookup's Match results instead.
func (a *Archetype) CorrespondingColumns(ids []ComponentID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		idx := a.columnIndex(id)
		if idx < 0 {
			panicTraced(&ComponentConflictError{Component: id, Op: "query"})
		}
		out[i] = idx
	}
	return out
}

// AppendRow reserves a new row bound to entityIndex and returns its row
// number. The caller is responsible for pushing a value into every column
// before the archetype is read again; row counts across schema and
// entityIndices must stay equal once the operation completes.
func (a *Archetype) AppendRow(entityIndex uint32) int {
	row := len(a.entityIndices)
	a.entityIndices = append(a.entityIndices, entityIndex)
	return row
}

// SwapRemove deletes row by moving the archetype's last row into its place
// and shrinking by one. The entity that was moved (if any) has its row
// rewritten via em so EntityManager stays consistent. It is the caller's
// responsibility to have already resolved row from a valid EntityLocation.
func (a *Archetype) SwapRemove(row int, em *EntityManager) {
	for _, col := range a.columns {
		col.SwapRemove(row)
	}

	last := len(a.entityIndices) - 1
	movedEntityIndex := a.entityIndices[last]
	a.entityIndices[row] = movedEntityIndex
	a.entityIndices = a.entityIndices[:last]
	if row != last {
		em.UpdateRow(movedEntityIndex, row)
	}
}

// MigrateRowTo moves row from a to dst: every column whose id exists in
// both schemas has its value moved (swap-removed here, appended there);
// columns unique to a's schema are dropped (swap-removed with no
// destination). The moved entity's bookkeeping in both archetypes'
// entityIndices vectors is updated (source swap-remove rehome, destination
// append), but the caller must still push values for any columns unique to
// dst's schema and update the EntityManager's location record. Whether
// dst's column set is a strict superset or subset of a's is a World-level
// concern (add vs remove), not this method's.
func (a *Archetype) MigrateRowTo(dst *Archetype, row int, em *EntityManager) int {
	for i, id := range a.schema {
		if j := dst.columnIndex(id); j >= 0 {
			a.columns[i].MigrateTo(dst.columns[j], row)
		} else {
			a.columns[i].SwapRemove(row)
		}
	}

	last := len(a.entityIndices) - 1
	migratingEntityIndex := a.entityIndices[row]
	movedEntityIndex := a.entityIndices[last]
	a.entityIndices[row] = movedEntityIndex
	a.entityIndices = a.entityIndices[:last]
	if row != last {
		em.UpdateRow(movedEntityIndex, row)
	}

	newRow := len(dst.entityIndices)
	dst.entityIndices = append(dst.entityIndices, migratingEntityIndex)
	return newRow
}

// sortedUnique returns ids sorted ascending, panicking with a
// DuplicateComponentError if any id repeats: a bundle enumerating the same
// component twice is a fatal schema violation.
func sortedUnique(ids []ComponentID) []ComponentID {
	out := make([]ComponentID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			panicTraced(&DuplicateComponentError{Component: out[i]})
		}
	}
	return out
}

// mergeSortedUnique returns the sorted union of base (already sorted,
// duplicate-free) and extra, panicking with a ComponentConflictError if any
// id in extra is already present in base: the fatal "adding a component an
// entity already has" condition.
func mergeSortedUnique(base []ComponentID, extra []ComponentID, entity Entity) []ComponentID {
	out := make([]ComponentID, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, id := range extra {
		for _, have := range base {
			if have == id {
				panicTraced(&ComponentConflictError{Entity: entity, Component: id, Op: "add"})
			}
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// removeIDs returns base with every id in remove deleted, panicking with a
// ComponentConflictError if any id in remove is absent from base: the
// fatal "removing a component an entity lacks" condition.
func removeIDs(base []ComponentID, remove []ComponentID, entity Entity) []ComponentID {
	out := make([]ComponentID, 0, len(base))
	for _, id := range base {
		drop := false
		for _, r := range remove {
			if r == id {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, id)
		}
	}
	for _, r := range remove {
		found := false
		for _, id := range base {
			if id == r {
				found = true
				break
			}
		}
		if !found {
			panicTraced(&ComponentConflictError{Entity: entity, Component: r, Op: "remove"})
		}
	}
	return out
}
