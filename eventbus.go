package archecs

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus. This value is fixed at 256.
const MaxEventTypes = 256

// The four built-in event types realize §6's "Observation channels":
// OnSet, OnTransition, OnCached, OnCleanup. The ECS core publishes the
// matching ones of these for every operation that §6 specifies fires a signal,
// always after the mutation has fully completed (§5: "signal firings ...
// occur only after the move completes").

// SetEvent corresponds to OnSet(entity, component, value).
type SetEvent struct {
	Entity    EntityID
	Component ComponentID
	Value     any
}

// TransitionEvent corresponds to OnTransition(entity, from_archetype,
// to_archetype). From/To are archetype arena slots, stable for the lifetime
// of the archetype; From is -1 when the entity had no archetype before
// (Spawn, SpawnBatch).
type TransitionEvent struct {
	Entity   EntityID
	From, To int
}

// CacheKind distinguishes the two caches OnCached reports on.
type CacheKind uint8

const (
	CacheKindTransition CacheKind = iota
	CacheKindQuery
)

func (k CacheKind) String() string {
	if k == CacheKindQuery {
		return "Query"
	}
	return "Transition"
}

// CachedEvent corresponds to OnCached(kind, key).
type CachedEvent struct {
	Kind CacheKind
	Key  uint64
}

// CleanupEvent corresponds to OnCleanup().
type CleanupEvent struct{}

// EventBus provides a simple, efficient, and type-safe event bus for decoupled
// communication between different parts of an application. It allows systems to
// subscribe to specific event types and publish events to all interested
// listeners without direct dependencies.
//
// The EventBus is designed for high performance, with `Publish` operations being
// allocation-free.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]interface{}
	nextEventTypeID uint8
}

// Subscribe registers a handler function to be called when an event of type `T`
// is published. Handlers are stored in the order they are subscribed.
//
// This operation may allocate memory if it's the first time subscribing to a
// particular event type or if the internal handler list needs to be resized.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type `T`.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	id := bus.getEventTypeID(t)
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]interface{}, 0, 4) // Preallocate small capacity to reduce reallocs
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish broadcasts an event of type `T` to all registered handlers for that
// type. The handlers are called synchronously in the order they were subscribed.
//
// This operation is highly optimized and is allocation-free, making it suitable
// for performance-critical code paths.
//
// Parameters:
//   - bus: The EventBus instance to publish to.
//   - event: The event data of type `T` to be sent to handlers.
func Publish[T any](bus *EventBus, event T) {
	t := reflect.TypeFor[T]()
	if id, ok := bus.eventTypeMap[t]; ok {
		hs := bus.handlers[id]
		for _, h := range hs {
			h.(func(T))(event)
		}
	}
}

// publishSet fires OnSet. Called by the core only after a component write
// has landed in its column (§5: signals fire after the mutation completes).
func (bus *EventBus) publishSet(e SetEvent) {
	Publish(bus, e)
}

// publishTransition fires OnTransition, called by TransitionEngine.move
// once an entity has been fully relocated to its destination archetype.
func (bus *EventBus) publishTransition(e TransitionEvent) {
	Publish(bus, e)
}

// publishCached fires OnCached, called whenever a transition or query result
// is memoized for the first time.
func (bus *EventBus) publishCached(e CachedEvent) {
	Publish(bus, e)
}

// publishCleanup fires OnCleanup, called once per Cleanup call after all
// empty, unreferenced archetypes have been reclaimed.
func (bus *EventBus) publishCleanup(e CleanupEvent) {
	Publish(bus, e)
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if len(bus.eventTypeMap) >= MaxEventTypes {
		panic("ecs: too many event types")
	}
	id := bus.nextEventTypeID
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id
}
