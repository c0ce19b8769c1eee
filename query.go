package archway

// QueryCursor drives chained iteration across every archetype a filter set
// matched, in the ascending order ArchetypeLookup.MatchingArchetypes
// guarantees. Each touched column is locked per its own filter's Mode: a
// Read parameter takes a shared reader lock, a Write parameter takes the
// exclusive lock, both released before the cursor moves to the next
// archetype. This lets one query mix read and write parameters, matching
// the per-parameter borrow discipline a splitting query needs.
type QueryCursor struct {
	world    *World
	filters  []Filter
	matches  []Match
	matchPos int
	row      int
	curArch  *Archetype
	curCols  []int
	locked   bool
}

// NewQueryCursor builds a cursor over filters, in the order supplied; that
// order becomes the column-index alignment of every Match. Panics with
// LockedColumnError if two non-Without filters name the same component,
// since a single cursor locking the same column's RWMutex twice in one
// pass would self-deadlock.
func NewQueryCursor(w *World, filters []Filter) *QueryCursor {
	checkFilterConflicts(filters)
	q := &QueryCursor{world: w, filters: filters}
	q.Reset()
	return q
}

// checkFilterConflicts panics if filters names the same component id more
// than once among its With/Optional entries. sync.RWMutex is not
// reentrant: locking the same column twice for one matched archetype,
// under any combination of modes, would deadlock the first time the
// cursor actually visited a row.
func checkFilterConflicts(filters []Filter) {
	seen := make(map[ComponentID]bool, len(filters))
	for _, f := range filters {
		if f.Kind == Without {
			continue
		}
		if seen[f.ID] {
			panicTraced(&LockedColumnError{Component: f.ID})
		}
		seen[f.ID] = true
	}
}

// Reset re-runs the lookup and rewinds the cursor to before the first row.
// Safe to call mid-iteration; releases any locks currently held.
func (q *QueryCursor) Reset() {
	q.releaseLocks()
	q.matches = q.world.lookup.MatchingArchetypes(q.filters)
	q.matchPos = -1
	q.row = -1
	q.curArch = nil
}

func (q *QueryCursor) releaseLocks() {
	if q.locked && q.curArch != nil {
		for i, ci := range q.curCols {
			if ci < 0 {
				continue
			}
			if q.filters[i].Mode == Write {
				q.curArch.columns[ci].Unlock()
			} else {
				q.curArch.columns[ci].RUnlock()
			}
		}
	}
	q.locked = false
}

// Release drops any lock the cursor currently holds without advancing it.
// Safe to call after the last Next() returns false, and safe to call more
// than once.
func (q *QueryCursor) Release() {
	q.releaseLocks()
}

// Next advances to the next row, chaining from one matched archetype's rows
// into the next's once the current one is exhausted. Returns false once
// every matched archetype has been visited.
func (q *QueryCursor) Next() bool {
	q.row++
	for {
		if q.curArch != nil && q.row < q.curArch.Len() {
			return true
		}
		q.releaseLocks()
		q.matchPos++
		if q.matchPos >= len(q.matches) {
			q.curArch = nil
			return false
		}
		m := q.matches[q.matchPos]
		q.curArch = q.world.archetypes[m.ArchetypeIndex]
		q.curCols = m.Columns
		q.row = 0
		for i, ci := range q.curCols {
			if ci < 0 {
				continue
			}
			if q.filters[i].Mode == Write {
				q.curArch.columns[ci].Lock()
			} else {
				q.curArch.columns[ci].RLock()
			}
		}
		q.locked = true
	}
}

// Entity returns the entity occupying the cursor's current row.
func (q *QueryCursor) Entity() Entity {
	index := q.curArch.entityIndices[q.row]
	return Entity{Index: index, Generation: q.world.entityManager.Generation(index)}
}

// Column returns the Column backing query parameter paramIdx in the
// cursor's current archetype, or nil if that parameter was Optional and
// absent here.
func (q *QueryCursor) Column(paramIdx int) Column {
	ci := q.curCols[paramIdx]
	if ci < 0 {
		return nil
	}
	return q.curArch.columns[ci]
}

// Row returns the cursor's current row within its current archetype.
func (q *QueryCursor) Row() int { return q.row }

// ColumnValue downcasts col (as returned by QueryCursor.Column) and returns
// a pointer to its value at row. Panics if col's concrete type isn't
// *typedColumn[T]: a caller mismatching its type parameter against the
// component actually stored is a programmer error.
func ColumnValue[T any](col Column, row int) *T {
	c, ok := col.(*typedColumn[T])
	if !ok {
		panicTraced(&ComponentConflictError{Component: col.ComponentID(), Op: "query"})
	}
	return c.At(row)
}

// --- Per-arity sugar, ladder-style: Query1, Query2, Query3. Each wraps a
// QueryCursor over a With filter per type parameter plus a Without filter
// per excluded id, via a CreateQuery[T1](w, excludes...) constructor shape.
// Optional filters and arities beyond three are reached via
// QueryCursor/NewQueryCursor directly.

func buildFilters(ids []ComponentID, excludes []ComponentID, mode FilterMode) []Filter {
	filters := make([]Filter, 0, len(ids)+len(excludes))
	for _, id := range ids {
		filters = append(filters, Filter{ID: id, Kind: With, Mode: mode})
	}
	for _, id := range excludes {
		filters = append(filters, Filter{ID: id, Kind: Without})
	}
	return filters
}

// Query1 iterates every archetype carrying T1 (and none of the excluded
// ids).
type Query1[T1 any] struct {
	cursor *QueryCursor
}

// CreateQuery1 builds a read query over T1.
func CreateQuery1[T1 any](w *World, excludes ...ComponentID) *Query1[T1] {
	return &Query1[T1]{cursor: NewQueryCursor(w, buildFilters([]ComponentID{GetID[T1]()}, excludes, Read))}
}

// CreateQueryMut1 builds an exclusive query over T1.
func CreateQueryMut1[T1 any](w *World, excludes ...ComponentID) *Query1[T1] {
	return &Query1[T1]{cursor: NewQueryCursor(w, buildFilters([]ComponentID{GetID[T1]()}, excludes, Write))}
}

// Reset rewinds the query.
func (q *Query1[T1]) Reset() { q.cursor.Reset() }

// Next advances to the next matching row.
func (q *Query1[T1]) Next() bool { return q.cursor.Next() }

// Entity returns the current row's entity.
func (q *Query1[T1]) Entity() Entity { return q.cursor.Entity() }

// Get returns a pointer to the current row's T1 value.
func (q *Query1[T1]) Get() *T1 {
	return ColumnValue[T1](q.cursor.Column(0), q.cursor.Row())
}

// Release drops any locks the query currently holds.
func (q *Query1[T1]) Release() { q.cursor.Release() }

// Query2 iterates every archetype carrying T1 and T2.
type Query2[T1, T2 any] struct {
	cursor *QueryCursor
}

// CreateQuery2 builds a read query over T1 and T2.
func CreateQuery2[T1, T2 any](w *World, excludes ...ComponentID) *Query2[T1, T2] {
	ids := []ComponentID{GetID[T1](), GetID[T2]()}
	return &Query2[T1, T2]{cursor: NewQueryCursor(w, buildFilters(ids, excludes, Read))}
}

// CreateQueryMut2 builds an exclusive query over T1 and T2.
func CreateQueryMut2[T1, T2 any](w *World, excludes ...ComponentID) *Query2[T1, T2] {
	ids := []ComponentID{GetID[T1](), GetID[T2]()}
	return &Query2[T1, T2]{cursor: NewQueryCursor(w, buildFilters(ids, excludes, Write))}
}

func (q *Query2[T1, T2]) Reset()         { q.cursor.Reset() }
func (q *Query2[T1, T2]) Next() bool     { return q.cursor.Next() }
func (q *Query2[T1, T2]) Entity() Entity { return q.cursor.Entity() }
func (q *Query2[T1, T2]) Release()       { q.cursor.Release() }
func (q *Query2[T1, T2]) Get() (*T1, *T2) {
	return ColumnValue[T1](q.cursor.Column(0), q.cursor.Row()),
		ColumnValue[T2](q.cursor.Column(1), q.cursor.Row())
}

// Query3 iterates every archetype carrying T1, T2, and T3.
type Query3[T1, T2, T3 any] struct {
	cursor *QueryCursor
}

// CreateQuery3 builds a read query over T1, T2, and T3.
func CreateQuery3[T1, T2, T3 any](w *World, excludes ...ComponentID) *Query3[T1, T2, T3] {
	ids := []ComponentID{GetID[T1](), GetID[T2](), GetID[T3]()}
	return &Query3[T1, T2, T3]{cursor: NewQueryCursor(w, buildFilters(ids, excludes, Read))}
}

// CreateQueryMut3 builds an exclusive query over T1, T2, and T3.
func CreateQueryMut3[T1, T2, T3 any](w *World, excludes ...ComponentID) *Query3[T1, T2, T3] {
	ids := []ComponentID{GetID[T1](), GetID[T2](), GetID[T3]()}
	return &Query3[T1, T2, T3]{cursor: NewQueryCursor(w, buildFilters(ids, excludes, Write))}
}

func (q *Query3[T1, T2, T3]) Reset()         { q.cursor.Reset() }
func (q *Query3[T1, T2, T3]) Next() bool     { return q.cursor.Next() }
func (q *Query3[T1, T2, T3]) Entity() Entity { return q.cursor.Entity() }
func (q *Query3[T1, T2, T3]) Release()       { q.cursor.Release() }
func (q *Query3[T1, T2, T3]) Get() (*T1, *T2, *T3) {
	return ColumnValue[T1](q.cursor.Column(0), q.cursor.Row()),
		ColumnValue[T2](q.cursor.Column(1), q.cursor.Row()),
		ColumnValue[T3](q.cursor.Column(2), q.cursor.Row())
}
