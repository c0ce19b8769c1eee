package archway

import "github.com/kamstrup/intmap"

// FilterKind names how a query parameter's component id constrains archetype
// matching.
type FilterKind int

const (
	// With requires the archetype to carry the component; the match
	// reports its column index.
	With FilterKind = iota
	// Without requires the archetype to lack the component.
	Without
	// Optional matches regardless of presence; the match reports the
	// column index if present, or -1 if not.
	Optional
)

// FilterMode names the lock discipline a query parameter needs on the
// column it resolves to. It has no bearing on matching, only on which of
// Column's Lock/Unlock or RLock/RUnlock pair QueryCursor takes for that
// parameter.
type FilterMode int

const (
	// Read takes a shared reader lock on the parameter's column: many
	// readers may hold it at once.
	Read FilterMode = iota
	// Write takes an exclusive lock on the parameter's column.
	Write
)

// Filter is one query parameter's matching constraint plus the lock mode
// QueryCursor acquires on the column it resolves to. Mode is meaningless
// for a Without filter, since it never resolves to a column.
type Filter struct {
	ID   ComponentID
	Kind FilterKind
	Mode FilterMode
}

// Match is one element of a matching_archetypes result: an archetype index
// together with, for every filter in the original request (same order,
// same length), the column index that filter resolved to, or -1 if the
// filter was Without or an absent Optional.
type Match struct {
	ArchetypeIndex int
	Columns        []int
}

// ArchetypeLookup indexes archetypes two ways: by their exact schema (for
// O(1) find-or-create during spawn/migrate) and by component id (for
// filtered query matching). Archetypes are append-only and their indices
// are never reused; every invariant here and in World depends on that.
type ArchetypeLookup struct {
	// exact is keyed by the schema's bitmask rather than the component
	// slice itself: ComponentID is bounded to maxComponentTypes, so the
	// fixed-width mask is a comparable, allocation-free proxy for "this
	// exact sorted id set".
	exact        map[maskType]int
	perComponent *intmap.Map[ComponentID, *SparseSet[int]]
	total        int
}

// NewArchetypeLookup returns an empty lookup.
func NewArchetypeLookup() *ArchetypeLookup {
	return &ArchetypeLookup{
		exact:        make(map[maskType]int),
		perComponent: intmap.New[ComponentID, *SparseSet[int]](64),
	}
}

// NewArchetype registers a freshly created archetype with schema (sorted,
// duplicate-free) under a strictly-increasing index. Records the exact
// lookup entry and, for every (position, id) pair, the archetype's column
// position in that id's per-component sparse set.
func (l *ArchetypeLookup) NewArchetype(schema []ComponentID) int {
	index := l.total
	l.total++
	l.exact[makeMask(schema)] = index
	for pos, id := range schema {
		set, ok := l.perComponent.Get(id)
		if !ok {
			set = NewSparseSet[int]()
			l.perComponent.Put(id, set)
		}
		set.Insert(index, pos)
	}
	return index
}

// ExactLookup returns the archetype index for schema, if one has already
// been registered.
func (l *ArchetypeLookup) ExactLookup(schema []ComponentID) (int, bool) {
	idx, ok := l.exact[makeMask(schema)]
	return idx, ok
}

// Total returns the number of archetypes ever registered.
func (l *ArchetypeLookup) Total() int { return l.total }

type filterInfo struct {
	filter      Filter
	index       int // original position in the request, for output alignment
	selectivity int
	set         *SparseSet[int] // non-nil only for With/Optional with a known component
}

// MatchingArchetypes evaluates filters (With/Without/Optional, in caller
// order) and returns every matching archetype in strictly ascending index
// order, each paired with the per-filter column indices aligned to the
// input filter order. This is the engine's most selectivity-sensitive path:
// filters are internally reordered by estimated match count before
// evaluation, but the emitted order is always ascending by archetype index
// regardless of that reordering: the query engine's splitting-borrow walk
// depends on it.
func (l *ArchetypeLookup) MatchingArchetypes(filters []Filter) []Match {
	if len(filters) == 0 {
		matches := make([]Match, l.total)
		for i := 0; i < l.total; i++ {
			matches[i] = Match{ArchetypeIndex: i, Columns: nil}
		}
		return matches
	}

	infos := make([]filterInfo, len(filters))
	for i, f := range filters {
		set, _ := l.perComponent.Get(f.ID)
		info := filterInfo{filter: f, index: i, set: set}
		switch f.Kind {
		case With:
			if set != nil {
				info.selectivity = set.Len()
			} else {
				info.selectivity = 0
			}
		case Without:
			matchCount := 0
			if set != nil {
				matchCount = set.Len()
			}
			info.selectivity = l.total - matchCount
		case Optional:
			info.selectivity = l.total
		}
		infos[i] = info
	}

	best := 0
	for i := 1; i < len(infos); i++ {
		if infos[i].selectivity < infos[best].selectivity {
			best = i
		}
	}

	var matches []Match
	if infos[best].filter.Kind == With {
		set := infos[best].set
		if set == nil {
			return nil
		}
		set.OrderedKeysAndValues(func(archIdx int, _ int) bool {
			if cols, ok := l.evaluate(archIdx, infos); ok {
				matches = append(matches, Match{ArchetypeIndex: archIdx, Columns: cols})
			}
			return true
		})
		return matches
	}

	for archIdx := 0; archIdx < l.total; archIdx++ {
		if cols, ok := l.evaluate(archIdx, infos); ok {
			matches = append(matches, Match{ArchetypeIndex: archIdx, Columns: cols})
		}
	}
	return matches
}

// evaluate checks every filter against archIdx and, if they all pass,
// returns the per-filter column indices aligned to the original filter
// order.
func (l *ArchetypeLookup) evaluate(archIdx int, infos []filterInfo) ([]int, bool) {
	cols := make([]int, len(infos))
	for _, info := range infos {
		col := -1
		if info.set != nil {
			if pos, ok := info.set.Get(archIdx); ok {
				col = pos
			}
		}
		switch info.filter.Kind {
		case With:
			if col < 0 {
				return nil, false
			}
		case Without:
			if col >= 0 {
				return nil, false
			}
		case Optional:
			// matches regardless
		}
		cols[info.index] = col
	}
	return cols, true
}
