package archecs

import "fmt"

// QueryPlanner resolves an (include, exclude, any) bitmask triple to the set
// of matching archetypes and caches the result, per §4.7. Grounded on the
// teacher's Filter/queryCache pair (filter.go): this module generalizes the
// teacher's single-component, type-parameterized Filter[T] into a planner
// over opaque ComponentID bitmasks, and replaces the teacher's per-filter
// staleness recheck with the archetype index's version counter so every
// QueryBuilder sharing the same planner invalidates together.
type QueryPlanner struct {
	index *ArchetypeIndex
	cache map[queryKey]*queryCacheEntry
	events *EventBus
}

type queryCacheEntry struct {
	version    uint64 // ArchetypeIndex.version at the time this entry was built
	archetypes []*Archetype

	// include/exclude/any are the exact filters this entry was built for,
	// compared by sameQueryShape since queryKey alone can collide.
	include, exclude, any Bitmask
}

func newQueryPlanner(index *ArchetypeIndex, events *EventBus) *QueryPlanner {
	return &QueryPlanner{index: index, cache: make(map[queryKey]*queryCacheEntry), events: events}
}

// plan returns the archetypes matching include/exclude/any, consulting (and
// populating) the cache. A cached entry is valid exactly as long as no new
// archetype has been created since it was built (§3, "Query cache"): unlike
// the reference's per-archetype UPDATE dirty-flag scan, this module tracks a
// single version counter on ArchetypeIndex, bumped only by archetype
// creation, per the design note resolution recorded in SPEC_FULL.md §9.
func (p *QueryPlanner) plan(include, exclude, any Bitmask) []*Archetype {
	key := queryKeyOf(include, exclude)
	if e, ok := p.cache[key]; ok && e.version == p.index.version {
		if sameQueryShape(e, include, exclude, any, p.index) {
			return e.archetypes
		}
	}
	matched := make([]*Archetype, 0, 8)
	for _, a := range p.index.all() {
		// Matching is purely a function of the archetype's bitmask, not its
		// current entity count: an archetype that is empty today can still
		// gain entities later through an edge that already exists, which
		// does not bump index.version. Filtering by entityCount here would
		// make a cached match permanently stale for that archetype.
		// QueryView.Next skips empty archetypes at iteration time instead.
		if !a.bitmask.includesAll(include) {
			continue
		}
		if exclude.intersects(a.bitmask) {
			continue
		}
		if !any.isZero() && !any.intersects(a.bitmask) {
			continue
		}
		matched = append(matched, a)
	}
	entry := &queryCacheEntry{version: p.index.version, archetypes: matched, include: include, exclude: exclude, any: any}
	_, existed := p.cache[key]
	p.cache[key] = entry
	if !existed && p.events != nil {
		p.events.publishCached(CachedEvent{Kind: CacheKindQuery, Key: uint64(key)})
	}
	return matched
}

// sameQueryShape guards against the queryKey's 16-bit-per-half packing
// colliding two structurally different (include, exclude) pairs onto the
// same key (§4.1: "implementations must either widen the key or fall back
// to structural comparison on collision"). `any` is not part of the packed
// key at all, so it is always rechecked here.
func sameQueryShape(e *queryCacheEntry, include, exclude, any Bitmask, index *ArchetypeIndex) bool {
	return e.include == include && e.exclude == exclude && e.any == any
}

// QueryBuilder accumulates include/exclude/any component filters before
// producing a QueryView, mirroring the teacher's NewFilter(w, excludes...)
// entry point generalized to composable With/Without/Any calls (§4.7).
type QueryBuilder struct {
	ecs     *ECS
	planner *QueryPlanner
	include []ComponentID
	exclude []ComponentID
	any     []ComponentID
}

func newQueryBuilder(ecs *ECS, planner *QueryPlanner, components []ComponentID) *QueryBuilder {
	return &QueryBuilder{ecs: ecs, planner: planner, include: append([]ComponentID(nil), components...)}
}

// With adds components that a matching archetype must include.
func (b *QueryBuilder) With(components ...ComponentID) *QueryBuilder {
	b.include = append(b.include, components...)
	return b
}

// Without adds components that a matching archetype must not include.
func (b *QueryBuilder) Without(components ...ComponentID) *QueryBuilder {
	b.exclude = append(b.exclude, components...)
	return b
}

// Any adds components of which a matching archetype must include at least
// one, if the any-set is non-empty.
func (b *QueryBuilder) Any(components ...ComponentID) *QueryBuilder {
	b.any = append(b.any, components...)
	return b
}

// View resolves the builder into a QueryView ready for iteration. The
// returned view holds the ECS in the "iterating" state (§5: "implementations
// may detect and fail INVALID_OPERATION on re-entrant mutation during
// active iteration") until iteration is exhausted or Close is called.
//
// An empty required-component list is builder misuse and fails
// INVALID_OPERATION (§7, §8); a component named in both the required and
// excluded sets is a malformed composition and fails QUERY_ERROR. Outside
// DEBUG_MODE both are absorbed into an empty view rather than propagated,
// matching Has's "fail silently, return the empty result" shape.
func (b *QueryBuilder) View() *QueryView {
	if len(b.include) == 0 {
		_ = b.fail(newError(KindInvalidOperation, "View", fmt.Errorf("query requires at least one component")))
		return emptyQueryView()
	}
	include := makeMask(b.include)
	exclude := makeMask(b.exclude)
	any := makeMask(b.any)
	if include.intersects(exclude) {
		_ = b.fail(newError(KindQueryError, "View", fmt.Errorf("component required and excluded in the same query")))
		return emptyQueryView()
	}
	matched := b.planner.plan(include, exclude, any)
	if b.ecs != nil {
		b.ecs.inIteration++
	}
	return &QueryView{ecs: b.ecs, archetypes: matched, archIdx: -1, row: -1}
}

// fail routes builder-misuse errors through the owning ECS's DEBUG_MODE
// policy, the same path checkIteration and Has use (ecs.go).
func (b *QueryBuilder) fail(err *Error) error {
	if b.ecs == nil {
		return err
	}
	return b.ecs.fail(err)
}

func emptyQueryView() *QueryView {
	return &QueryView{archIdx: -1, row: -1}
}

// QueryView iterates matched archetypes in archetype-major order, yielding
// one entity per Next() call, grounded on the teacher's Query[T]/Filter[T]
// Next()/Entity()/Get() cursor shape (query.go, filter.go) generalized from
// a type-parameterized single component to an opaque ComponentID lookup.
type QueryView struct {
	ecs        *ECS
	archetypes []*Archetype
	archIdx    int
	row        int
	closed     bool
}

// Next advances to the next matching entity, returning false once iteration
// is exhausted. Exhaustion releases the re-entrancy guard acquired by View.
func (v *QueryView) Next() bool {
	for {
		if v.archIdx >= 0 && v.archIdx < len(v.archetypes) {
			a := v.archetypes[v.archIdx]
			v.row++
			if v.row < a.entityCount() {
				return true
			}
		}
		v.archIdx++
		v.row = -1
		if v.archIdx >= len(v.archetypes) {
			v.Close()
			return false
		}
		if v.archetypes[v.archIdx].entityCount() == 0 {
			continue
		}
	}
}

// Close releases the re-entrancy guard early, for callers that stop
// iterating before Next returns false. Safe to call more than once.
func (v *QueryView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	if v.ecs != nil {
		v.ecs.inIteration--
	}
}

// Entity returns the entity at the current cursor position.
func (v *QueryView) Entity() EntityID {
	return v.archetypes[v.archIdx].entities[v.row]
}

// Get returns the value of component c for the entity at the current cursor
// position, or nil if the current archetype does not carry that component.
func (v *QueryView) Get(c ComponentID) any {
	val, _ := v.archetypes[v.archIdx].get(v.archetypes[v.archIdx].entities[v.row], c)
	return val
}

// Count returns the total number of entities the view will yield, without
// consuming the iterator. Useful for preallocating caller-side buffers.
func (v *QueryView) Count() int {
	n := 0
	for _, a := range v.archetypes {
		n += a.entityCount()
	}
	return n
}
