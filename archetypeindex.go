package archecs

import "github.com/yuminaa/archecs/log"

// ArchetypeIndex arena-allocates archetypes and maps a bitmask key to the
// unique Archetype instance holding that component set (§2, "ArchetypeIndex").
// Edges reference archetypes by their arena slot (an int index) rather than a
// direct pointer, per the design note recommendation for realizing the
// inherently cyclic archetype graph (§9, "Cyclic graph of archetypes"): slots
// are comparable plain integers, which keeps edge bookkeeping and Cleanup's
// slot handling simple even though Go's garbage collector would have
// tolerated direct pointers just as well.
type ArchetypeIndex struct {
	arena      []*Archetype
	byKey      map[archetypeKey]int
	freeSlots  []int // slots vacated by Cleanup, available for reuse
	version    uint64 // bumped whenever a new archetype is created; see QueryPlanner.plan
}

func newArchetypeIndex() *ArchetypeIndex {
	idx := &ArchetypeIndex{byKey: make(map[archetypeKey]int)}
	idx.getOrCreate(Bitmask{}) // the empty archetype always exists
	return idx
}

// getOrCreate returns the unique Archetype for bitmask m, creating it (and
// bumping version) if this is the first time m has been seen.
func (idx *ArchetypeIndex) getOrCreate(m Bitmask) *Archetype {
	key := archetypeKeyOf(m)
	if slot, ok := idx.byKey[key]; ok {
		return idx.arena[slot]
	}
	var slot int
	if n := len(idx.freeSlots); n > 0 {
		slot = idx.freeSlots[n-1]
		idx.freeSlots = idx.freeSlots[:n-1]
	} else {
		slot = len(idx.arena)
		idx.arena = append(idx.arena, nil)
	}
	a := newArchetype(m, slot)
	idx.arena[slot] = a
	idx.byKey[key] = slot
	idx.version++
	log.ArchetypeCreated(slot, len(m.components()))
	return a
}

// lookup returns the archetype at slot, or nil if the slot is empty (e.g.
// after Cleanup reclaimed it).
func (idx *ArchetypeIndex) lookup(slot int) *Archetype {
	if slot < 0 || slot >= len(idx.arena) {
		return nil
	}
	return idx.arena[slot]
}

// empty returns the always-present archetype with no components, the
// destination of a fresh entity's pre-component state.
func (idx *ArchetypeIndex) empty() *Archetype {
	return idx.arena[idx.byKey[archetypeKeyOf(Bitmask{})]]
}

// all returns every live archetype slot, for QueryPlanner's full scan.
func (idx *ArchetypeIndex) all() []*Archetype {
	out := make([]*Archetype, 0, len(idx.arena))
	for _, a := range idx.arena {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// reclaim removes the archetype at slot from byKey and frees its arena slot
// for reuse, leaving a nil hole. Called by Cleanup for archetypes that are
// both empty and unreferenced by any live entity.
func (idx *ArchetypeIndex) reclaim(slot int) {
	a := idx.arena[slot]
	if a == nil {
		return
	}
	delete(idx.byKey, a.key())
	idx.arena[slot] = nil
	idx.freeSlots = append(idx.freeSlots, slot)
	log.ArchetypeReclaimed(slot)
}
