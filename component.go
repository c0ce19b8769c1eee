package archway

import (
	"fmt"
	"reflect"
)

// ComponentID is a stable, totally ordered, hashable identifier derived
// from a component's static type identity. Identifiers are assigned once
// per type for the life of the process (the global registry never reuses
// an id after ResetGlobalRegistry except by rebuilding from scratch).
type ComponentID uint32

const (
	bitsPerWord       = 64
	maskWords         = 4
	maxComponentTypes = maskWords * bitsPerWord

	// defaultInitialCapacity seeds the entity manager's slot capacity and
	// each new column's reserved capacity when WorldOptions.InitialCapacity
	// is left at zero.
	defaultInitialCapacity = 1024
)

var (
	nextComponentID ComponentID
	typeToID        = make(map[reflect.Type]ComponentID, maxComponentTypes)
	idToType        = make(map[ComponentID]reflect.Type, maxComponentTypes)
)

// ResetGlobalRegistry clears the global component type registry. Intended
// for test isolation between independent worlds that would otherwise share
// component ids across test cases.
func ResetGlobalRegistry() {
	nextComponentID = 0
	typeToID = make(map[reflect.Type]ComponentID, maxComponentTypes)
	idToType = make(map[ComponentID]reflect.Type, maxComponentTypes)
}

// RegisterComponent assigns (or returns the existing) ComponentID for T. It
// panics once more than maxComponentTypes distinct component types have
// been registered: a fixed-width schema mask depends on that bounded
// universe.
func RegisterComponent[T any]() ComponentID {
	var zero T
	t := reflect.TypeOf(zero)

	if id, ok := typeToID[t]; ok {
		return id
	}
	if int(nextComponentID) >= maxComponentTypes {
		panic(fmt.Sprintf("archway: cannot register component %s: maximum of %d component types reached", t, maxComponentTypes))
	}

	id := nextComponentID
	typeToID[t] = id
	idToType[id] = t
	nextComponentID++
	return id
}

// GetID returns the ComponentID for T, registering it first if necessary.
// An unregistered type is registered on the spot rather than rejected:
// component registration is an implementation detail bundles shouldn't have
// to sequence explicitly. Like RegisterComponent, it panics only when
// registering T would exceed maxComponentTypes.
func GetID[T any]() ComponentID {
	return RegisterComponent[T]()
}

// TryGetID returns the ComponentID for T and whether it has been
// registered, without registering it as a side effect.
func TryGetID[T any]() (ComponentID, bool) {
	var zero T
	id, ok := typeToID[reflect.TypeOf(zero)]
	return id, ok
}

// Appender is the external collaborator a ComponentBundle hands the world
// for each component slot it enumerates. FreshColumn constructs an empty
// column of the component's concrete type; PushInto appends this bundle's
// value for that component into a column produced by a compatible appender.
type Appender interface {
	FreshColumn() Column
	PushInto(col Column)
}

// BundleEntry pairs a ComponentID with the Appender that can build and
// populate its column. ComponentBundle.Enumerate yields a slice of these,
// one per component in the bundle, in unspecified order; the world sorts
// them by id before doing anything else.
type BundleEntry struct {
	ID       ComponentID
	Appender Appender
}

// ComponentBundle is the external contract the core consumes to decompose
// a user-defined aggregate into its constituent components. The core never
// knows about the concrete bundle type; it only calls Enumerate.
type ComponentBundle interface {
	Enumerate() []BundleEntry
}

// valueAppender is the generic Appender implementation backing the Bundle1
// / Bundle2 / Bundle3 sugar types in bundle.go.
type valueAppender[T any] struct {
	value T
}

func (a valueAppender[T]) FreshColumn() Column {
	return newTypedColumn[T](GetID[T]())
}

func (a valueAppender[T]) PushInto(col Column) {
	c, ok := col.(*typedColumn[T])
	if !ok {
		panicTraced(fmt.Errorf("archway: appender type mismatch pushing component of type %T", a.value))
	}
	c.Push(a.value)
}
