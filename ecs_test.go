package archecs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuminaa/archecs"
)

// Component ids for the test suite. Caller-assigned, as the core requires.
const (
	compPosition archecs.ComponentID = 1
	compVelocity archecs.ComponentID = 2
	compHealth   archecs.ComponentID = 3
	compTag      archecs.ComponentID = 4
)

type Position struct{ X, Y float32 }
type Velocity struct{ VX, VY float32 }
type Health struct{ Current, Max int }

func TestSpawnAssignsSequentialIds(t *testing.T) {
	e := archecs.New()
	e1, err := e.Spawn()
	require.NoError(t, err)
	e2, err := e.Spawn()
	require.NoError(t, err)

	if e1.ID() != 0 {
		t.Errorf("expected first entity id 0, got %d", e1.ID())
	}
	if e2.ID() != 1 {
		t.Errorf("expected second entity id 1, got %d", e2.ID())
	}
	if !e.IsAlive(e1) || !e.IsAlive(e2) {
		t.Errorf("expected both entities to be alive")
	}
}

func TestSetAddsThenUpdatesInPlace(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()

	require.NoError(t, e.Set(id, compPosition, Position{X: 1, Y: 2}))
	v, ok := e.Has(id, compPosition)
	require.True(t, ok)
	require.Equal(t, Position{X: 1, Y: 2}, v)

	require.NoError(t, e.Set(id, compPosition, Position{X: 3, Y: 4}))
	v, ok = e.Has(id, compPosition)
	require.True(t, ok)
	require.Equal(t, Position{X: 3, Y: 4}, v)
}

func TestSetMigratesAcrossArchetypes(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()

	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))
	require.NoError(t, e.Set(id, compVelocity, Velocity{VX: 5}))

	pos, ok := e.Has(id, compPosition)
	require.True(t, ok)
	require.Equal(t, Position{X: 1}, pos)

	vel, ok := e.Has(id, compVelocity)
	require.True(t, ok)
	require.Equal(t, Velocity{VX: 5}, vel)
}

func TestRemoveDropsComponentAndPreservesOthers(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))
	require.NoError(t, e.Set(id, compVelocity, Velocity{VX: 5}))

	require.NoError(t, e.Remove(id, compVelocity))
	_, ok := e.Has(id, compVelocity)
	require.False(t, ok)

	pos, ok := e.Has(id, compPosition)
	require.True(t, ok)
	require.Equal(t, Position{X: 1}, pos)
}

func TestRemoveMissingComponentIsNoop(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))
	require.NoError(t, e.Remove(id, compVelocity))
	pos, ok := e.Has(id, compPosition)
	require.True(t, ok)
	require.Equal(t, Position{X: 1}, pos)
}

func TestDespawnInvalidatesHandle(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))
	require.NoError(t, e.Despawn(id))

	if e.IsAlive(id) {
		t.Errorf("expected despawned entity to be dead")
	}
	// Outside DEBUG_MODE, INVALID_ENTITY is a silent no-op (§7): Set on a
	// stale handle returns nil rather than an error, and leaves no trace.
	err := e.Set(id, compPosition, Position{X: 2})
	require.NoError(t, err)
	_, ok := e.Has(id, compPosition)
	require.False(t, ok)
}

func TestDespawnRecyclesIdWithNewGeneration(t *testing.T) {
	e := archecs.New()
	id1, _ := e.Spawn()
	require.NoError(t, e.Despawn(id1))
	id2, _ := e.Spawn()

	if id1.ID() != id2.ID() {
		t.Errorf("expected recycled dense id, got %d and %d", id1.ID(), id2.ID())
	}
	if id1.Generation() == id2.Generation() {
		t.Errorf("expected generation to change on recycle, both were %d", id1.Generation())
	}
	require.False(t, e.IsAlive(id1))
	require.True(t, e.IsAlive(id2))
}

func TestSwapRemoveKeepsRemainingEntitiesReachable(t *testing.T) {
	e := archecs.New()
	var ids []archecs.EntityID
	for i := 0; i < 5; i++ {
		id, _ := e.Spawn()
		require.NoError(t, e.Set(id, compPosition, Position{X: float32(i)}))
		ids = append(ids, id)
	}

	require.NoError(t, e.Despawn(ids[1]))

	for i, id := range ids {
		if i == 1 {
			continue
		}
		v, ok := e.Has(id, compPosition)
		require.True(t, ok, "entity %d should still be reachable", i)
		require.Equal(t, Position{X: float32(i)}, v)
	}
}

func TestQueryWithWithoutAny(t *testing.T) {
	e := archecs.New()

	both, _ := e.Spawn()
	require.NoError(t, e.Set(both, compPosition, Position{X: 1}))
	require.NoError(t, e.Set(both, compVelocity, Velocity{VX: 1}))

	posOnly, _ := e.Spawn()
	require.NoError(t, e.Set(posOnly, compPosition, Position{X: 2}))

	tagged, _ := e.Spawn()
	require.NoError(t, e.Set(tagged, compPosition, Position{X: 3}))
	require.NoError(t, e.Set(tagged, compTag, struct{}{}))

	view := e.Query(compPosition).Without(compVelocity).View()
	seen := map[archecs.EntityID]bool{}
	for view.Next() {
		seen[view.Entity()] = true
	}
	require.True(t, seen[posOnly])
	require.True(t, seen[tagged])
	require.False(t, seen[both])

	anyView := e.Query(compPosition).Any(compVelocity, compTag).View()
	anySeen := map[archecs.EntityID]bool{}
	for anyView.Next() {
		anySeen[anyView.Entity()] = true
	}
	require.True(t, anySeen[both])
	require.True(t, anySeen[tagged])
	require.False(t, anySeen[posOnly])
}

func TestQueryResultReflectsLiveStateAfterTransition(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))

	view := e.Query(compPosition, compVelocity).View()
	require.False(t, view.Next(), "entity without velocity should not match yet")

	require.NoError(t, e.Set(id, compVelocity, Velocity{VX: 9}))
	view2 := e.Query(compPosition, compVelocity).View()
	require.True(t, view2.Next())
	require.Equal(t, id, view2.Entity())
}

func TestCleanupReclaimsEmptyArchetypesWithoutBreakingLiveEntities(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))
	require.NoError(t, e.Remove(id, compPosition))
	require.NoError(t, e.Cleanup())

	other, _ := e.Spawn()
	require.NoError(t, e.Set(other, compPosition, Position{X: 42}))
	v, ok := e.Has(other, compPosition)
	require.True(t, ok)
	require.Equal(t, Position{X: 42}, v)
}

func TestSpawnBatchSharesInitialValues(t *testing.T) {
	e := archecs.New()
	ids, err := e.SpawnBatch(10, map[archecs.ComponentID]any{
		compPosition: Position{X: 7},
		compHealth:   Health{Current: 100, Max: 100},
	})
	require.NoError(t, err)
	require.Len(t, ids, 10)

	for _, id := range ids {
		pos, ok := e.Has(id, compPosition)
		require.True(t, ok)
		require.Equal(t, Position{X: 7}, pos)
	}
}

func TestInvalidComponentIDIsRejected(t *testing.T) {
	// Outside DEBUG_MODE, INVALID_COMPONENT is a silent no-op (§7): Set
	// with an out-of-range component id returns nil and never touches the
	// entity's archetype.
	e := archecs.New()
	id, _ := e.Spawn()
	err := e.Set(id, 0, Position{})
	require.NoError(t, err)
	_, ok := e.Has(id, 0)
	require.False(t, ok)
}

func TestDebugModePanicsOnInvalidEntity(t *testing.T) {
	e := archecs.New(archecs.WithDebugMode(true))
	id, _ := e.Spawn()
	require.NoError(t, e.Despawn(id))

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic in debug mode")
		_, ok := r.(*archecs.Error)
		require.True(t, ok, "expected panic value to be *archecs.Error, got %T", r)
	}()
	_ = e.Set(id, compPosition, Position{})
}

func TestDebugModePanicsOnInvalidComponent(t *testing.T) {
	e := archecs.New(archecs.WithDebugMode(true))
	id, _ := e.Spawn()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic in debug mode")
		asErr, ok := r.(*archecs.Error)
		require.True(t, ok, "expected panic value to be *archecs.Error, got %T", r)
		require.True(t, errors.Is(asErr, archecs.ErrInvalidComponent))
	}()
	_ = e.Set(id, 0, Position{})
}

// Has(entity, component) fails INVALID_ENTITY under DEBUG_MODE instead of
// returning (nil, false), matching the end-to-end scenario named in §8.
func TestHasPanicsOnInvalidEntityUnderDebugMode(t *testing.T) {
	e := archecs.New(archecs.WithDebugMode(true))
	id, _ := e.Spawn()
	require.NoError(t, e.Despawn(id))

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic in debug mode")
		asErr, ok := r.(*archecs.Error)
		require.True(t, ok, "expected panic value to be *archecs.Error, got %T", r)
		require.True(t, errors.Is(asErr, archecs.ErrInvalidEntity))
	}()
	_, _ = e.Has(id, compPosition)
}

func TestHasReturnsFalseOnInvalidEntityOutsideDebugMode(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Despawn(id))

	_, ok := e.Has(id, compPosition)
	require.False(t, ok)
}

// e.Query() with no required components is builder misuse (§7, §8): outside
// DEBUG_MODE it fails INVALID_OPERATION silently and yields an empty view,
// rather than vacuously matching every archetype.
func TestQueryWithNoComponentsYieldsEmptyView(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))

	view := e.Query().View()
	require.False(t, view.Next())
}

func TestDebugModePanicsOnEmptyQuery(t *testing.T) {
	e := archecs.New(archecs.WithDebugMode(true))

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic in debug mode")
		asErr, ok := r.(*archecs.Error)
		require.True(t, ok, "expected panic value to be *archecs.Error, got %T", r)
		require.True(t, errors.Is(asErr, archecs.ErrInvalidOperation))
	}()
	_ = e.Query().View()
}

// A component named in both With and Without is a malformed query
// composition (QUERY_ERROR, §7). Outside DEBUG_MODE the error is absorbed
// and View yields an empty view; the debug-mode panic is checked below.
func TestQueryRequiredAndExcludedSameComponentYieldsEmptyView(t *testing.T) {
	e := archecs.New()
	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))

	view := e.Query(compPosition).Without(compPosition).View()
	require.False(t, view.Next())
}

func TestDebugModePanicsOnMalformedQueryComposition(t *testing.T) {
	e := archecs.New(archecs.WithDebugMode(true))

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic in debug mode")
		asErr, ok := r.(*archecs.Error)
		require.True(t, ok, "expected panic value to be *archecs.Error, got %T", r)
		require.True(t, errors.Is(asErr, archecs.ErrQuery))
	}()
	_ = e.Query(compPosition).Without(compPosition).View()
}

func TestResourcesAreIndependentOfEntities(t *testing.T) {
	e := archecs.New()
	type Clock struct{ Tick int }
	id := e.Resources().Add(&Clock{Tick: 1})
	got, gotID := archecs.GetResource[Clock](e.Resources())
	require.Equal(t, id, gotID)
	require.Equal(t, 1, got.Tick)
}

func TestEventsFireOnSetAndTransition(t *testing.T) {
	e := archecs.New()
	var sets []archecs.SetEvent
	var transitions []archecs.TransitionEvent
	archecs.Subscribe(e.Events(), func(ev archecs.SetEvent) { sets = append(sets, ev) })
	archecs.Subscribe(e.Events(), func(ev archecs.TransitionEvent) { transitions = append(transitions, ev) })

	id, _ := e.Spawn()
	require.NoError(t, e.Set(id, compPosition, Position{X: 1}))

	require.Len(t, sets, 1)
	require.Equal(t, compPosition, sets[0].Component)
	require.NotEmpty(t, transitions)
}
