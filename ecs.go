package archecs

import "fmt"

// ECS is the root handle for one archetype-based ECS world: it owns the
// entity allocator, the archetype arena, the edge cache, the transition
// engine, the event bus, and the resource store, and exposes the public
// Spawn/Despawn/Set/Remove/Has/Query surface (§6). Grounded on the
// teacher's World (world.go, ecs.go): this module keeps the same "one
// struct owns everything, constructed once via New" shape but replaces the
// teacher's reflect-typed, chunked/unsafe-pointer storage with the opaque
// ComponentID, any-typed columnar storage described in §3.
type ECS struct {
	cfg      config
	entities *entityAllocator
	index    *ArchetypeIndex
	edges    *EdgeGraph
	engine   *TransitionEngine
	events   *EventBus
	planner  *QueryPlanner
	res      *Resources

	inIteration int // re-entrancy guard; see §5
}

// New constructs an ECS with the given options applied over the defaults
// (DEBUG_MODE off, PROFILING_MODE off, initial entity capacity 256).
func New(opts ...Option) *ECS {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	events := &EventBus{}
	e := &ECS{
		cfg:      cfg,
		entities: newEntityAllocator(cfg.initialEntityCap),
		index:    newArchetypeIndex(),
		edges:    newEdgeGraph(),
		events:   events,
		res:      newResources(cfg.debugMode),
	}
	e.engine = newTransitionEngine(events)
	e.planner = newQueryPlanner(e.index, events)
	return e
}

// Events returns the ECS's event bus, the concrete realization of the
// OnSet/OnTransition/OnCached/OnCleanup observation channels (§6).
func (e *ECS) Events() *EventBus { return e.events }

// Resources returns the ECS's process-wide, type-keyed resource store,
// independent of any entity.
func (e *ECS) Resources() *Resources { return e.res }

// ProfilingEnabled reports whether this ECS was constructed with
// WithProfilingMode(true), for host programs that want to decide whether to
// wrap a run in a github.com/pkg/profile session without threading their own
// config flag alongside the ECS's.
func (e *ECS) ProfilingEnabled() bool { return e.cfg.profilingMode }

// checkIteration enforces §5's "no structural mutation during iteration"
// rule: Spawn/Despawn/Set/Remove refuse to run while a QueryView produced
// by this ECS is being consumed reentrantly through a callback that
// mutates. The guard is a simple counter, not a lock, since the core is
// explicitly single-threaded (§1 non-goals: "No multithreaded mutation").
func (e *ECS) checkIteration(op string) error {
	if e.inIteration > 0 {
		return e.fail(newError(KindInvalidOperation, op, fmt.Errorf("structural mutation during iteration")))
	}
	return nil
}

func (e *ECS) fail(err *Error) error {
	return fail(e.cfg.debugMode, err)
}

// Spawn creates a new entity with no components, placing it in the empty
// archetype, and returns its handle.
func (e *ECS) Spawn() (EntityID, error) {
	if err := e.checkIteration("Spawn"); err != nil {
		return 0, err
	}
	id, err := e.entities.alloc()
	if err != nil {
		return 0, e.fail(err.(*Error))
	}
	empty := e.index.empty()
	row := e.engine.move(id, nil, empty, &TransitionInfo{SourceIdx: -1, DestIdx: empty.index}, nil)
	e.entities.setLocation(id.ID(), entityLocation{archetype: empty.index, row: row})
	return id, nil
}

// SpawnBatch creates n entities that all start with the same initial
// component values, generalizing the teacher's Builder.NewEntities/
// NewEntitiesWithValueSet batch path (§3.1 expansion) to this module's
// opaque ComponentID + any-typed values.
func (e *ECS) SpawnBatch(n int, components map[ComponentID]any) ([]EntityID, error) {
	if err := e.checkIteration("SpawnBatch"); err != nil {
		return nil, err
	}
	ids := make([]ComponentID, 0, len(components))
	for c := range components {
		ids = append(ids, c)
	}
	mask := makeMask(ids)
	dest := e.index.getOrCreate(mask)
	transition := &TransitionInfo{SourceIdx: -1, DestIdx: dest.index, Added: dest.bitmask.components()}

	out := make([]EntityID, 0, n)
	for i := 0; i < n; i++ {
		id, err := e.entities.alloc()
		if err != nil {
			return out, e.fail(err.(*Error))
		}
		row := e.engine.move(id, nil, dest, transition, components)
		e.entities.setLocation(id.ID(), entityLocation{archetype: dest.index, row: row})
		out = append(out, id)
	}
	return out, nil
}

// Despawn removes an entity and its row from its archetype, recycling its
// id with a bumped generation.
func (e *ECS) Despawn(id EntityID) error {
	if err := e.checkIteration("Despawn"); err != nil {
		return err
	}
	denseID, ok := e.entities.validate(id)
	if !ok {
		return e.fail(newError(KindInvalidEntity, "Despawn", fmt.Errorf("invalid or stale entity %s", id)))
	}
	loc := e.entities.locationOf(denseID)
	arch := e.index.lookup(loc.archetype)
	arch.swapRemove(id)
	e.entities.despawn(denseID)
	return nil
}

// IsAlive reports whether id refers to a currently live entity.
func (e *ECS) IsAlive(id EntityID) bool {
	_, ok := e.entities.validate(id)
	return ok
}

// GenerationWraps reports how many times id's dense slot has wrapped its
// generation counter since that slot was first issued; see the
// "Generation wraparound" design note.
func (e *ECS) GenerationWraps(id EntityID) int {
	return e.entities.wraps(id.ID())
}

// Set writes value for component c on entity id, moving it to the
// archetype with c added if it does not already carry that component, and
// updating in place if it does. Fires OnSet after the write lands.
func (e *ECS) Set(id EntityID, c ComponentID, value any) error {
	if err := e.checkIteration("Set"); err != nil {
		return err
	}
	if !validComponent(c) {
		return e.fail(invalidComponentError("Set", c))
	}
	denseID, ok := e.entities.validate(id)
	if !ok {
		return e.fail(newError(KindInvalidEntity, "Set", fmt.Errorf("invalid or stale entity %s", id)))
	}
	loc := e.entities.locationOf(denseID)
	source := e.index.lookup(loc.archetype)

	if source.bitmask.has(c) {
		source.update(id, c, value)
		e.events.publishSet(SetEvent{Entity: id, Component: c, Value: value})
		return nil
	}

	var dest *Archetype
	var transition *TransitionInfo
	// addEdges also holds the reverse entry of a remove edge that ends at
	// source; only an edge that starts at source leads to source + c.
	if edge := source.addEdges[c]; edge != nil && edge.fromIdx == source.index {
		if to := e.index.lookup(edge.toIdx); to != nil {
			dest, transition = to, edge.transition
		}
	}
	if dest == nil {
		destMask := source.bitmask.set(c)
		dest = e.index.getOrCreate(destMask)
		if edge := e.edges.lookup(source, dest, c, true); edge != nil {
			transition = edge.transition
		} else {
			transition = computeTransition(source, dest)
			e.edges.addEdge(source, dest, c, true, transition)
			e.events.publishCached(CachedEvent{Kind: CacheKindTransition, Key: uint64(transitionKeyOf(source.bitmask, dest.bitmask))})
		}
	}

	row := e.engine.move(id, source, dest, transition, map[ComponentID]any{c: value})
	e.entities.setLocation(denseID, entityLocation{archetype: dest.index, row: row})
	e.events.publishSet(SetEvent{Entity: id, Component: c, Value: value})
	return nil
}

// Remove drops component c from entity id, moving it to the archetype with
// c removed. A no-op if the entity does not carry c.
func (e *ECS) Remove(id EntityID, c ComponentID) error {
	if err := e.checkIteration("Remove"); err != nil {
		return err
	}
	if !validComponent(c) {
		return e.fail(invalidComponentError("Remove", c))
	}
	denseID, ok := e.entities.validate(id)
	if !ok {
		return e.fail(newError(KindInvalidEntity, "Remove", fmt.Errorf("invalid or stale entity %s", id)))
	}
	loc := e.entities.locationOf(denseID)
	source := e.index.lookup(loc.archetype)
	if !source.bitmask.has(c) {
		return nil
	}

	var dest *Archetype
	var transition *TransitionInfo
	// removeEdges also holds the reverse entry of an add edge that ends at
	// source; only an edge that starts at source leads to source - c.
	if edge := source.removeEdges[c]; edge != nil && edge.fromIdx == source.index {
		if to := e.index.lookup(edge.toIdx); to != nil {
			dest, transition = to, edge.transition
		}
	}
	if dest == nil {
		destMask := source.bitmask.unset(c)
		dest = e.index.getOrCreate(destMask)
		if edge := e.edges.lookup(source, dest, c, false); edge != nil {
			transition = edge.transition
		} else {
			transition = computeTransition(source, dest)
			e.edges.addEdge(source, dest, c, false, transition)
			e.events.publishCached(CachedEvent{Kind: CacheKindTransition, Key: uint64(transitionKeyOf(source.bitmask, dest.bitmask))})
		}
	}

	row := e.engine.move(id, source, dest, transition, nil)
	e.entities.setLocation(denseID, entityLocation{archetype: dest.index, row: row})
	return nil
}

// Has reports whether entity id currently carries component c, returning
// its value if so. Under DEBUG_MODE, an invalid component id or a stale
// entity handle panics with INVALID_COMPONENT/INVALID_ENTITY instead of
// returning (nil, false), per the end-to-end scenario in §8: "has(E, any)
// fails INVALID_ENTITY in debug mode, returns null otherwise."
func (e *ECS) Has(id EntityID, c ComponentID) (any, bool) {
	if !validComponent(c) {
		_ = e.fail(invalidComponentError("Has", c))
		return nil, false
	}
	denseID, ok := e.entities.validate(id)
	if !ok {
		_ = e.fail(newError(KindInvalidEntity, "Has", fmt.Errorf("invalid or stale entity %s", id)))
		return nil, false
	}
	loc := e.entities.locationOf(denseID)
	arch := e.index.lookup(loc.archetype)
	return arch.get(id, c)
}

// Query begins a QueryBuilder requiring every given component.
func (e *ECS) Query(components ...ComponentID) *QueryBuilder {
	return newQueryBuilder(e, e.planner, components)
}

// Cleanup reclaims every archetype that is both empty and has no live
// entity referencing it, unlinking its edges from both endpoints first
// (§4.4, §4.8), then discards the query cache. Fires OnCleanup once after
// the pass completes.
func (e *ECS) Cleanup() error {
	if err := e.checkIteration("Cleanup"); err != nil {
		return err
	}
	if e.entities.highWaterMarkExhausted() {
		return e.fail(newError(KindMemoryError, "Cleanup", fmt.Errorf("id space exhausted at %d entities", maxEntityID+1)))
	}
	empty := e.index.empty()
	for _, a := range e.index.all() {
		if a == empty || a.entityCount() > 0 {
			continue
		}
		for ref := a.edgeRefsHead; ref != nil; {
			next := ref.nextIncoming
			from := e.index.lookup(ref.fromIdx)
			if from != nil {
				if ref.isAdd {
					delete(from.addEdges, ref.component)
				} else {
					delete(from.removeEdges, ref.component)
				}
			}
			unlinkIncoming(a, ref)
			ref = next
		}
		for c, edge := range a.addEdges {
			if to := e.index.lookup(edge.toIdx); to != nil {
				delete(to.removeEdges, c)
				unlinkIncoming(to, edge)
			}
		}
		for c, edge := range a.removeEdges {
			if to := e.index.lookup(edge.toIdx); to != nil {
				delete(to.addEdges, c)
				unlinkIncoming(to, edge)
			}
		}
		e.edges.unlinkAll(a.index)
		e.index.reclaim(a.index)
	}
	clear(e.planner.cache)
	e.events.publishCleanup(CleanupEvent{})
	return nil
}
