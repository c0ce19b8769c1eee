package archway

import (
	"errors"
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// Sentinel errors for World/EntityManager lookups. Compare with errors.Is,
// not ==, since callers may wrap them.
var (
	// ErrNoMatchingComponent reports a point query that found no matching
	// archetype, or an archetype with no rows. No World or EntityManager
	// method in this package returns it.
	ErrNoMatchingComponent = errors.New("archway: no matching component")

	// ErrNoMatchingEntity is returned when an entity's index is out of
	// range for the entity table.
	ErrNoMatchingEntity = errors.New("archway: no matching entity")

	// ErrEntityNoLongerExists is returned when an entity's index is in
	// range but its generation no longer matches the stored one.
	ErrEntityNoLongerExists = errors.New("archway: entity no longer exists")
)

// ComponentConflictError reports a schema violation: adding a component an
// entity already has, removing one it lacks, or querying a column for a
// component it does not hold (Op "query"). These are programmer errors,
// never recovered from internally.
type ComponentConflictError struct {
	Entity    Entity
	Component ComponentID
	Op        string // "add", "remove", or "query"
}

func (e *ComponentConflictError) Error() string {
	return fmt.Sprintf("archway: cannot %s component %d on entity %+v: schema conflict", e.Op, e.Component, e.Entity)
}

// DuplicateComponentError reports a bundle enumerating the same component
// id more than once. Fatal: bundles must be internally consistent.
type DuplicateComponentError struct {
	Component ComponentID
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("archway: duplicate component id %d in bundle", e.Component)
}

// LockedColumnError reports a query whose filter set would lock the same
// component's column twice under conflicting or duplicate modes (e.g. one
// filter reading T1 while another writes it). Go's sync.RWMutex is not
// reentrant, so honoring both filters would self-deadlock the first time
// the cursor visited a matching archetype; this is raised eagerly at query
// construction instead. Fatal: the query as built can never make progress.
type LockedColumnError struct {
	Component ComponentID
}

func (e *LockedColumnError) Error() string {
	return fmt.Sprintf("archway: component %d requested by more than one filter in one query", e.Component)
}

// panicTraced wraps err with a bark trace and panics. Used on the fatal,
// programmer-error paths (schema violations, column type mismatches,
// duplicate query filters) that never return to the caller.
func panicTraced(err error) {
	panic(bark.AddTrace(err))
}
