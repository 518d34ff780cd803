package archecs

import (
	"fmt"

	"github.com/yuminaa/archecs/log"
)

// EntityID is a packed (id, generation) handle: the low 24 bits hold a dense
// numeric id, the high 8 bits hold a generation counter that guards against
// use-after-free. Two live entities never share the same (id, generation)
// pair.
type EntityID uint32

const (
	entityIDBits  = 24
	entityIDMask  = uint32(1)<<entityIDBits - 1
	maxGeneration = 0xFF // generation wraps modulo (MaxGeneration+1) = 256
	maxEntityID   = entityIDMask
)

// packEntityID combines a dense id and a generation into an EntityID handle.
func packEntityID(id uint32, gen uint8) EntityID {
	return EntityID(id&entityIDMask | uint32(gen)<<entityIDBits)
}

// ID extracts the dense, recyclable id portion of the handle.
func (e EntityID) ID() uint32 { return uint32(e) & entityIDMask }

// Generation extracts the generation portion of the handle.
func (e EntityID) Generation() uint8 { return uint8(uint32(e) >> entityIDBits) }

func (e EntityID) String() string {
	return fmt.Sprintf("Entity(%d#%d)", e.ID(), e.Generation())
}

// entityLocation records where a live entity currently resides: the arena
// slot of its archetype and its row within that archetype's columns.
type entityLocation struct {
	archetype int // slot in ArchetypeIndex.arena; -1 if the entity is dead
	row       int
}

// entityAllocator issues and recycles EntityID values with a generation
// counter, per §4.2. Ids below the high-water mark are reused from a free
// list; fresh ids allocate sequentially. The allocator also doubles as the
// entity→location index (ArchetypeIndex's "entity index" in §2) since both
// are keyed by the same dense id and live and die together.
type entityAllocator struct {
	generations []uint8
	locations   []entityLocation
	freeList    []uint32
	nextID      uint32
	bumps       []uint32 // total generation increments per id, for wraps()
}

func newEntityAllocator(initialCap int) *entityAllocator {
	if initialCap <= 0 {
		return &entityAllocator{}
	}
	return &entityAllocator{
		generations: make([]uint8, 0, initialCap),
		locations:   make([]entityLocation, 0, initialCap),
		bumps:       make([]uint32, 0, initialCap),
	}
}

// alloc issues a new EntityID, preferring recycled ids from the free list.
func (a *entityAllocator) alloc() (EntityID, error) {
	if n := len(a.freeList); n > 0 {
		id := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.generations[id] = a.generations[id] + 1
		a.bumps[id]++
		return packEntityID(id, a.generations[id]), nil
	}
	if a.nextID > maxEntityID {
		log.EntityIDSpaceExhausted(maxEntityID)
		return 0, newError(KindMemoryError, "entity", fmt.Errorf("id space exhausted at %d entities", maxEntityID+1))
	}
	id := a.nextID
	a.nextID++
	a.generations = append(a.generations, 0)
	a.locations = append(a.locations, entityLocation{archetype: -1, row: -1})
	a.bumps = append(a.bumps, 0)
	return packEntityID(id, 0), nil
}

// validate extracts the dense id from h, returning INVALID_ENTITY if the id
// is unknown or the generation does not match the live generation.
func (a *entityAllocator) validate(h EntityID) (uint32, bool) {
	id := h.ID()
	if id >= uint32(len(a.generations)) {
		return 0, false
	}
	if a.generations[id] != h.Generation() {
		return 0, false
	}
	if a.locations[id].archetype == -1 {
		return 0, false
	}
	return id, true
}

// despawn bumps the generation for id and returns it to the free list. The
// caller is responsible for clearing the entity's archetype row first.
func (a *entityAllocator) despawn(id uint32) {
	a.generations[id] = a.generations[id] + 1
	a.bumps[id]++
	a.locations[id] = entityLocation{archetype: -1, row: -1}
	a.freeList = append(a.freeList, id)
}

func (a *entityAllocator) locationOf(id uint32) entityLocation {
	return a.locations[id]
}

func (a *entityAllocator) setLocation(id uint32, loc entityLocation) {
	a.locations[id] = loc
}

// highWaterMarkExhausted reports whether the allocator has minted ids all
// the way up to the 24-bit id-space limit, the same condition alloc checks
// before minting a fresh id. Cleanup surfaces this too (§4.8) since a
// caller that only ever calls Cleanup, never Spawn directly after the space
// fills up, should still be able to observe the exhaustion.
func (a *entityAllocator) highWaterMarkExhausted() bool {
	return a.nextID > maxEntityID
}

// wraps reports how many times the generation counter for id has wrapped
// around modulo 256 since the id was first issued: floor(total generation
// bumps / 256). Surfaced for callers who want to detect a long-lived handle
// that may have outlived 256 recycle cycles of the same id (see "Generation
// wraparound" in the design notes).
func (a *entityAllocator) wraps(id uint32) int {
	if id >= uint32(len(a.bumps)) {
		return 0
	}
	return int(a.bumps[id]) / (maxGeneration + 1)
}
