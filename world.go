package archway

// WorldOptions configures a World at construction time. There is no
// file/env configuration surface (this is a library core, not an
// application); every knob here is a plain constructor argument.
type WorldOptions struct {
	// InitialCapacity preallocates the entity manager's slot slice to this
	// many entities and, for every archetype created afterward, reserves
	// the same capacity on each of its freshly constructed columns before
	// any row is pushed. Zero means defaultInitialCapacity.
	InitialCapacity int
}

// World owns every entity, archetype, and the lookup index tying them
// together. It exposes Spawn, Despawn, AddComponents, and RemoveComponents,
// plus the query engine's Query/QueryMut entry points (query.go).
type World struct {
	entityManager *EntityManager
	lookup        *ArchetypeLookup
	archetypes    []*Archetype

	// Resources is a side channel for singleton, non-entity state (a
	// clock, an asset cache) that doesn't belong in the archetype storage.
	// Kept as ambient, always-useful World furniture; it plays no part in
	// archetype migration or queries.
	Resources *Resources

	initialCapacity int

	// addTransitions and removeTransitions cache, per (source archetype,
	// delta mask) pair, the destination archetype an AddComponents or
	// RemoveComponents call migrates into, sparing repeated schema-diff
	// and find-or-create work on the hot path. The fatal precondition
	// checks (conflict on add, missing-component on remove) only need to
	// run once per cache entry: every entity sharing an archetype shares
	// its schema, so a precondition that held for the first migration
	// holds for all later ones with the same source archetype and delta.
	addTransitions    map[*Archetype]map[maskType]*Archetype
	removeTransitions map[*Archetype]map[maskType]*Archetype
}

// NewWorld returns a World with default capacity.
func NewWorld() *World {
	return NewWorldWithOptions(WorldOptions{})
}

// NewWorldWithOptions returns a World configured per opts.
func NewWorldWithOptions(opts WorldOptions) *World {
	capacity := opts.InitialCapacity
	if capacity <= 0 {
		capacity = defaultInitialCapacity
	}
	return &World{
		entityManager:     NewEntityManagerWithCapacity(capacity),
		lookup:            NewArchetypeLookup(),
		Resources:         NewResources(),
		initialCapacity:   capacity,
		addTransitions:    make(map[*Archetype]map[maskType]*Archetype),
		removeTransitions: make(map[*Archetype]map[maskType]*Archetype),
	}
}

// Archetypes returns the archetype slice in index order. Exposed for the
// query engine and for tests asserting on archetype creation order.
func (w *World) Archetypes() []*Archetype { return w.archetypes }

// Lookup returns the world's ArchetypeLookup, used by the query engine to
// resolve filters to matching archetypes.
func (w *World) Lookup() *ArchetypeLookup { return w.lookup }

// findOrCreateArchetype returns the archetype for schema (sorted,
// duplicate-free), creating it via freshColumnFor if this is the first time
// this exact schema has been seen. freshColumnFor is called once per id in
// schema, in schema order.
func (w *World) findOrCreateArchetype(schema []ComponentID, freshColumnFor func(ComponentID) Column) *Archetype {
	if idx, ok := w.lookup.ExactLookup(schema); ok {
		return w.archetypes[idx]
	}

	columns := make([]Column, len(schema))
	for i, id := range schema {
		col := freshColumnFor(id)
		col.Reserve(w.initialCapacity)
		columns[i] = col
	}
	index := w.lookup.NewArchetype(schema)
	arch := newArchetype(index, schema, columns)
	w.archetypes = append(w.archetypes, arch)
	return arch
}

// Spawn decomposes bundle into (id, appender) pairs, sorts them by id
// (fatal on duplicates), finds or creates the matching archetype, appends
// one value to each column in schema order, and registers a fresh entity.
func (w *World) Spawn(bundle ComponentBundle) Entity {
	entries := bundle.Enumerate()
	ids := make([]ComponentID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	schema := sortedUnique(ids)

	entryByID := make(map[ComponentID]BundleEntry, len(entries))
	for _, e := range entries {
		entryByID[e.ID] = e
	}

	arch := w.findOrCreateArchetype(schema, func(id ComponentID) Column {
		return entryByID[id].Appender.FreshColumn()
	})

	row := arch.Len()
	entity := w.entityManager.NewEntity(EntityLocation{Archetype: arch.index, Row: row})
	arch.AppendRow(entity.Index)
	for _, id := range schema {
		entryByID[id].Appender.PushInto(arch.columns[arch.columnIndex(id)])
	}
	return entity
}

// Despawn resolves e's location, swap-removes its row, and invalidates the
// handle via the entity manager. Returns ErrNoMatchingEntity or
// ErrEntityNoLongerExists if e is already invalid.
func (w *World) Despawn(e Entity) error {
	loc, err := w.entityManager.GetLocation(e)
	if err != nil {
		return err
	}
	arch := w.archetypes[loc.Archetype]
	arch.SwapRemove(loc.Row, w.entityManager)
	return w.entityManager.Despawn(e)
}

// AddComponents migrates e into the archetype for its existing schema
// unioned with bundle's ids, appending bundle's values to the new columns.
// Fatal (panics) if any id in bundle duplicates another in bundle, or is
// already present on e's current schema.
func (w *World) AddComponents(e Entity, bundle ComponentBundle) error {
	loc, err := w.entityManager.GetLocation(e)
	if err != nil {
		return err
	}
	oldArch := w.archetypes[loc.Archetype]

	entries := bundle.Enumerate()
	addedIDs := make([]ComponentID, len(entries))
	for i, en := range entries {
		addedIDs[i] = en.ID
	}
	addedIDs = sortedUnique(addedIDs)

	entryByID := make(map[ComponentID]BundleEntry, len(entries))
	for _, en := range entries {
		entryByID[en.ID] = en
	}

	delta := makeMask(addedIDs)
	newArch, cached := w.addTransitions[oldArch][delta]
	if !cached {
		newSchema := mergeSortedUnique(oldArch.schema, addedIDs, e)
		newArch = w.findOrCreateArchetype(newSchema, func(id ComponentID) Column {
			if en, isNew := entryByID[id]; isNew {
				return en.Appender.FreshColumn()
			}
			return oldArch.columns[oldArch.columnIndex(id)].FreshEmpty()
		})
		if w.addTransitions[oldArch] == nil {
			w.addTransitions[oldArch] = make(map[maskType]*Archetype)
		}
		w.addTransitions[oldArch][delta] = newArch
	}

	newRow := oldArch.MigrateRowTo(newArch, loc.Row, w.entityManager)
	for _, id := range addedIDs {
		entryByID[id].Appender.PushInto(newArch.columns[newArch.columnIndex(id)])
	}
	w.entityManager.UpdateLocation(e.Index, EntityLocation{Archetype: newArch.index, Row: newRow})
	return nil
}

// RemoveComponents migrates e into the archetype for its existing schema
// minus ids, dropping those columns' values. Fatal (panics) if any id is
// absent from e's current schema. Callers that need the removed values
// back should read them from the typed columns before calling this. See
// RemoveComponent1/RemoveComponent2/RemoveComponent3 for the sugar that
// does so.
func (w *World) RemoveComponents(e Entity, ids ...ComponentID) error {
	loc, err := w.entityManager.GetLocation(e)
	if err != nil {
		return err
	}
	oldArch := w.archetypes[loc.Archetype]
	ids = sortedUnique(ids)

	delta := makeMask(ids)
	newArch, cached := w.removeTransitions[oldArch][delta]
	if !cached {
		newSchema := removeIDs(oldArch.schema, ids, e)
		newArch = w.findOrCreateArchetype(newSchema, func(id ComponentID) Column {
			return oldArch.columns[oldArch.columnIndex(id)].FreshEmpty()
		})
		if w.removeTransitions[oldArch] == nil {
			w.removeTransitions[oldArch] = make(map[maskType]*Archetype)
		}
		w.removeTransitions[oldArch][delta] = newArch
	}

	newRow := oldArch.MigrateRowTo(newArch, loc.Row, w.entityManager)
	w.entityManager.UpdateLocation(e.Index, EntityLocation{Archetype: newArch.index, Row: newRow})
	return nil
}

// AddComponent1 adds a single component to e.
func AddComponent1[T1 any](w *World, e Entity, c1 T1) error {
	return w.AddComponents(e, NewBundle1(c1))
}

// AddComponent2 adds two components to e.
func AddComponent2[T1, T2 any](w *World, e Entity, c1 T1, c2 T2) error {
	return w.AddComponents(e, NewBundle2(c1, c2))
}

// AddComponent3 adds three components to e.
func AddComponent3[T1, T2, T3 any](w *World, e Entity, c1 T1, c2 T2, c3 T3) error {
	return w.AddComponents(e, NewBundle3(c1, c2, c3))
}

// RemoveComponent1 removes a component from e and returns its value. Removal
// is arity-indexed and statically typed rather than returning a single
// dynamically-typed bundle, matching this module's own per-arity generic
// function style (see DESIGN.md).
func RemoveComponent1[T1 any](w *World, e Entity) (T1, error) {
	var zero T1
	loc, err := w.entityManager.GetLocation(e)
	if err != nil {
		return zero, err
	}
	oldArch := w.archetypes[loc.Archetype]
	id1 := GetID[T1]()
	idx := oldArch.columnIndex(id1)
	if idx < 0 {
		panicTraced(&ComponentConflictError{Entity: e, Component: id1, Op: "remove"})
	}
	value := *oldArch.columns[idx].(*typedColumn[T1]).At(loc.Row)
	if err := w.RemoveComponents(e, id1); err != nil {
		return zero, err
	}
	return value, nil
}

// RemoveComponent2 removes two components from e and returns their values.
func RemoveComponent2[T1, T2 any](w *World, e Entity) (T1, T2, error) {
	var zero1 T1
	var zero2 T2
	loc, err := w.entityManager.GetLocation(e)
	if err != nil {
		return zero1, zero2, err
	}
	oldArch := w.archetypes[loc.Archetype]
	id1, id2 := GetID[T1](), GetID[T2]()
	idx1, idx2 := oldArch.columnIndex(id1), oldArch.columnIndex(id2)
	if idx1 < 0 {
		panicTraced(&ComponentConflictError{Entity: e, Component: id1, Op: "remove"})
	}
	if idx2 < 0 {
		panicTraced(&ComponentConflictError{Entity: e, Component: id2, Op: "remove"})
	}
	v1 := *oldArch.columns[idx1].(*typedColumn[T1]).At(loc.Row)
	v2 := *oldArch.columns[idx2].(*typedColumn[T2]).At(loc.Row)
	if err := w.RemoveComponents(e, id1, id2); err != nil {
		return zero1, zero2, err
	}
	return v1, v2, nil
}

// RemoveComponent3 removes three components from e and returns their
// values.
func RemoveComponent3[T1, T2, T3 any](w *World, e Entity) (T1, T2, T3, error) {
	var zero1 T1
	var zero2 T2
	var zero3 T3
	loc, err := w.entityManager.GetLocation(e)
	if err != nil {
		return zero1, zero2, zero3, err
	}
	oldArch := w.archetypes[loc.Archetype]
	id1, id2, id3 := GetID[T1](), GetID[T2](), GetID[T3]()
	idx1, idx2, idx3 := oldArch.columnIndex(id1), oldArch.columnIndex(id2), oldArch.columnIndex(id3)
	if idx1 < 0 {
		panicTraced(&ComponentConflictError{Entity: e, Component: id1, Op: "remove"})
	}
	if idx2 < 0 {
		panicTraced(&ComponentConflictError{Entity: e, Component: id2, Op: "remove"})
	}
	if idx3 < 0 {
		panicTraced(&ComponentConflictError{Entity: e, Component: id3, Op: "remove"})
	}
	v1 := *oldArch.columns[idx1].(*typedColumn[T1]).At(loc.Row)
	v2 := *oldArch.columns[idx2].(*typedColumn[T2]).At(loc.Row)
	v3 := *oldArch.columns[idx3].(*typedColumn[T3]).At(loc.Row)
	if err := w.RemoveComponents(e, id1, id2, id3); err != nil {
		return zero1, zero2, zero3, err
	}
	return v1, v2, v3, nil
}

// Query builds a cursor over filters: each touched column is locked per
// its own Filter.Mode, RLock for Read and Lock for Write, released as the
// cursor advances past the archetype that holds it. Filters default to
// Read mode unless built with an explicit Write mode, so plain With/Without
// filters (as buildFilters produces for CreateQuery1..3) behave as a
// shared read traversal; mixing in a Write-mode filter turns that one
// parameter's column into an exclusive borrow without affecting the rest.
func (w *World) Query(filters []Filter) *QueryCursor {
	return NewQueryCursor(w, filters)
}

// QueryMut builds a cursor over filters exactly as Query does: it does not
// change any filter's Mode, so a column is locked exclusively only if its
// Filter carries Write (as the filters built by CreateQueryMut1..3 do).
// Kept distinct from Query only as a naming convention for the common
// all-write case; the lock mode lives entirely in each Filter, not in the
// method called.
func (w *World) QueryMut(filters []Filter) *QueryCursor {
	return NewQueryCursor(w, filters)
}

// GetLocation exposes the entity manager's location resolution directly,
// used by tests asserting the row-after-swap-remove property and by callers
// that want to read a component without going through a query.
func (w *World) GetLocation(e Entity) (EntityLocation, error) {
	return w.entityManager.GetLocation(e)
}
