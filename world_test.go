package archway_test

import (
	"errors"
	"testing"

	"github.com/edwinsyarief/archway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type posComp struct{ X, Y int }
type velComp struct{ DX, DY int }
type tagComp struct{}

func TestWorldSpawnDespawnRoundTrip(t *testing.T) {
	// S1: spawn/despawn round-trip.
	w := archway.NewWorld()
	e := w.Spawn(archway.NewBundle1(posComp{X: 10}))

	loc, err := w.GetLocation(e)
	require.NoError(t, err)
	assert.Equal(t, 0, loc.Row)

	require.NoError(t, w.Despawn(e))
	_, err = w.GetLocation(e)
	assert.True(t, errors.Is(err, archway.ErrEntityNoLongerExists))

	e2 := w.Spawn(archway.NewBundle1(posComp{X: 11}))
	assert.Equal(t, e.Index, e2.Index)
	assert.Equal(t, e.Generation+1, e2.Generation)
}

func TestWorldSingleColumnReadOrder(t *testing.T) {
	// S2: single-column read preserves spawn order.
	w := archway.NewWorld()
	w.Spawn(archway.NewBundle1(posComp{X: 1}))
	w.Spawn(archway.NewBundle1(posComp{X: 2}))
	w.Spawn(archway.NewBundle1(posComp{X: 3}))

	q := archway.CreateQuery1[posComp](w)
	var got []int
	for q.Next() {
		got = append(got, q.Get().X)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestWorldMultiColumnWrite(t *testing.T) {
	// S3: multi-column mutable query sees and can mutate every value.
	w := archway.NewWorld()
	w.Spawn(archway.NewBundle2(posComp{X: 3}, velComp{DX: 5}))

	q := archway.CreateQueryMut2[posComp, velComp](w)
	count := 0
	for q.Next() {
		pos, vel := q.Get()
		assert.Equal(t, 3, pos.X)
		assert.Equal(t, 5, vel.DX)
		pos.X += vel.DX
		count++
	}
	assert.Equal(t, 1, count)

	q2 := archway.CreateQuery1[posComp](w)
	require.True(t, q2.Next())
	assert.Equal(t, 8, q2.Get().X)
}

func TestWorldFilterIterationOrderFollowsCreation(t *testing.T) {
	// S4: archetypes appear in creation order for a With-only query.
	w := archway.NewWorld()
	w.Spawn(archway.NewBundle2(posComp{X: 1}, velComp{DX: 1})) // {pos,vel}
	w.Spawn(archway.NewBundle1(posComp{X: 2}))                 // {pos}
	w.Spawn(archway.NewBundle3(posComp{X: 3}, velComp{DX: 3}, tagComp{}))

	q := archway.CreateQuery1[posComp](w)
	var xs []int
	for q.Next() {
		xs = append(xs, q.Get().X)
	}
	assert.Equal(t, []int{1, 2, 3}, xs)
}

func TestWorldSwapRemoveConsistency(t *testing.T) {
	// S5: swap-remove reorders at most one row and rehomes it correctly.
	w := archway.NewWorld()
	e1 := w.Spawn(archway.NewBundle1(posComp{X: 1}))
	w.Spawn(archway.NewBundle1(posComp{X: 2}))
	e3 := w.Spawn(archway.NewBundle1(posComp{X: 3}))

	_, err := w.GetLocation(e1)
	require.NoError(t, err)

	e2, err := w.GetLocation(e3)
	require.NoError(t, err)
	assert.Equal(t, 2, e2.Row)

	// despawn the middle entity (X=2)
	q := archway.CreateQuery1[posComp](w)
	var middle archway.Entity
	for q.Next() {
		if q.Get().X == 2 {
			middle = q.Entity()
		}
	}
	require.NoError(t, w.Despawn(middle))

	q2 := archway.CreateQuery1[posComp](w)
	var xs []int
	for q2.Next() {
		xs = append(xs, q2.Get().X)
	}
	assert.Equal(t, []int{1, 3}, xs)

	loc3, err := w.GetLocation(e3)
	require.NoError(t, err)
	assert.Equal(t, 1, loc3.Row)
}

func TestWorldStaleGenerationRejection(t *testing.T) {
	// S6: every operation on a stale handle reports EntityNoLongerExists.
	w := archway.NewWorld()
	e := w.Spawn(archway.NewBundle1(posComp{X: 1}))
	require.NoError(t, w.Despawn(e))

	_, err := w.GetLocation(e)
	assert.True(t, errors.Is(err, archway.ErrEntityNoLongerExists))

	err = w.Despawn(e)
	assert.True(t, errors.Is(err, archway.ErrEntityNoLongerExists))

	err = w.AddComponents(e, archway.NewBundle1(velComp{DX: 1}))
	assert.True(t, errors.Is(err, archway.ErrEntityNoLongerExists))

	err = w.RemoveComponents(e, archway.GetID[posComp]())
	assert.True(t, errors.Is(err, archway.ErrEntityNoLongerExists))
}

func TestWorldAddThenRemoveReturnsToOriginalSchema(t *testing.T) {
	// Invariant 5: adding then removing the same component set returns the
	// entity to an archetype with the original schema.
	w := archway.NewWorld()
	e := w.Spawn(archway.NewBundle1(posComp{X: 1}))
	locBefore, err := w.GetLocation(e)
	require.NoError(t, err)
	archBefore := locBefore.Archetype

	require.NoError(t, archway.AddComponent1(w, e, velComp{DX: 9}))
	removed, err := archway.RemoveComponent1[velComp](w, e)
	require.NoError(t, err)
	assert.Equal(t, velComp{DX: 9}, removed)

	locAfter, err := w.GetLocation(e)
	require.NoError(t, err)

	archA := w.Archetypes()[archBefore]
	archB := w.Archetypes()[locAfter.Archetype]
	assert.Equal(t, archA.Schema(), archB.Schema())
}

func TestWorldAddComponentConflictIsFatal(t *testing.T) {
	w := archway.NewWorld()
	e := w.Spawn(archway.NewBundle1(posComp{X: 1}))

	assert.Panics(t, func() {
		_ = w.AddComponents(e, archway.NewBundle1(posComp{X: 2}))
	})
}

func TestWorldRemoveComponentMissingIsFatal(t *testing.T) {
	w := archway.NewWorld()
	e := w.Spawn(archway.NewBundle1(posComp{X: 1}))

	assert.Panics(t, func() {
		_ = w.RemoveComponents(e, archway.GetID[velComp]())
	})
}

func TestWorldSpawnDuplicateComponentIsFatal(t *testing.T) {
	w := archway.NewWorld()
	bundle := duplicateBundle{id: archway.GetID[posComp]()}
	assert.Panics(t, func() {
		w.Spawn(bundle)
	})
}

type duplicateBundle struct {
	id archway.ComponentID
}

func (b duplicateBundle) Enumerate() []archway.BundleEntry {
	return []archway.BundleEntry{
		{ID: b.id, Appender: fakeAppender{}},
		{ID: b.id, Appender: fakeAppender{}},
	}
}

type fakeAppender struct{}

func (fakeAppender) FreshColumn() archway.Column { return nil }
func (fakeAppender) PushInto(archway.Column)      {}

func TestWorldAddComponent2ThenQuery3(t *testing.T) {
	w := archway.NewWorld()
	e := w.Spawn(archway.NewBundle1(posComp{X: 1}))

	require.NoError(t, archway.AddComponent2(w, e, velComp{DX: 1}, tagComp{}))

	q := archway.CreateQuery3[posComp, velComp, tagComp](w)
	require.True(t, q.Next())
	pos, vel, _ := q.Get()
	assert.Equal(t, 1, pos.X)
	assert.Equal(t, 1, vel.DX)
}

func TestWorldQueryWithExcludes(t *testing.T) {
	w := archway.NewWorld()
	w.Spawn(archway.NewBundle2(posComp{X: 1}, velComp{DX: 1}))
	w.Spawn(archway.NewBundle1(posComp{X: 2}))

	q := archway.CreateQuery1[posComp](w, archway.GetID[velComp]())
	var xs []int
	for q.Next() {
		xs = append(xs, q.Get().X)
	}
	assert.Equal(t, []int{2}, xs)
}

func TestWorldResourcesWiring(t *testing.T) {
	w := archway.NewWorld()
	archway.SetResource(w.Resources, posComp{X: 42})
	got, ok := archway.GetResource[posComp](w.Resources)
	require.True(t, ok)
	assert.Equal(t, 42, got.X)
}
