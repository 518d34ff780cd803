// Package archecs implements an archetype-based Entity-Component-System
// core: a data-oriented store that maps entities to their components,
// migrates entities between storage groups ("archetypes") as their
// component set changes, and serves filtered iteration ("queries") across
// those groups.
//
// Components are identified by caller-assigned, opaque ComponentID values
// rather than by reflecting over a Go type, which lets a single archetype
// column hold heterogeneous values. Entities are created with Spawn,
// given components with Set, and removed with Despawn; Query builds a
// filtered iterator over matching archetypes.
package archecs
