package archecs

// DirtyFlags is the per-archetype bitfield over {ADDITION, REMOVAL, UPDATE}
// (§3, "dirty_flags"), set on every mutation. The query cache does not read
// it; it is invalidated by ArchetypeIndex.version instead.
type DirtyFlags uint8

const (
	DirtyAddition DirtyFlags = 1 << iota
	DirtyRemoval
	DirtyUpdate
)

// Archetype is the columnar store for every entity sharing one exact
// component set. Rows are append/swap-remove managed: position r in
// [0, entityCount) is the row of entities[r], and entityRow is its inverse.
type Archetype struct {
	bitmask       Bitmask
	entities      []EntityID
	entityRow     map[EntityID]int
	componentData map[ComponentID][]any

	dirty DirtyFlags

	addEdges    map[ComponentID]*Edge // bit c set in bitmask reached via add
	removeEdges map[ComponentID]*Edge // bit c cleared in bitmask reached via remove

	// edgeRefsHead is the head of the doubly-linked list of edges that
	// terminate at this archetype (i.e. edges where this archetype is "to").
	// It exists purely to support O(1) unlinking during Cleanup; it is never
	// traversed on the hot path (§4.4).
	edgeRefsHead *Edge

	index int // this archetype's slot in ArchetypeIndex.arena
}

func newArchetype(bitmask Bitmask, index int) *Archetype {
	return &Archetype{
		bitmask:       bitmask,
		entityRow:     make(map[EntityID]int),
		componentData: make(map[ComponentID][]any),
		addEdges:      make(map[ComponentID]*Edge),
		removeEdges:   make(map[ComponentID]*Edge),
		index:         index,
	}
}

// entityCount is the number of live rows.
func (a *Archetype) entityCount() int { return len(a.entities) }

// key is the archetype_key of this archetype's bitmask.
func (a *Archetype) key() archetypeKey { return archetypeKeyOf(a.bitmask) }

// column returns the storage for component c, allocating it (lazily, per
// §3's "Columns are lazily allocated when the first value is written") if it
// does not exist yet. The caller must already know bit c is set in
// a.bitmask.
func (a *Archetype) column(c ComponentID) []any {
	col, ok := a.componentData[c]
	if !ok {
		col = make([]any, a.entityCount())
		a.componentData[c] = col
	}
	return col
}

// ensureColumnLen grows column c so it has at least n entries, leaving new
// slots nil. Used by the transition engine to make room before writing a
// row that hasn't been appended to a.entities yet.
func (a *Archetype) ensureColumnLen(c ComponentID, n int) {
	col := a.column(c)
	if len(col) < n {
		col = extendSlice(col, n-len(col))
		a.componentData[c] = col
	}
}

// append adds entity e as a new row, writing values[c] into every column c
// set in a.bitmask, and marks DirtyAddition. Returns the new row index.
func (a *Archetype) append(e EntityID, values map[ComponentID]any) int {
	row := len(a.entities)
	for _, c := range a.bitmask.components() {
		col := a.column(c)
		if len(col) <= row {
			col = extendSlice(col, row+1-len(col))
		}
		if v, ok := values[c]; ok {
			col[row] = v
		}
		a.componentData[c] = col
	}
	a.entities = append(a.entities, e)
	a.entityRow[e] = row
	a.dirty |= DirtyAddition
	return row
}

// swapRemove removes entity e's row, moving the last row into its place
// (swap-and-pop) so rows stay contiguous in [0, entityCount). Vacated
// trailing slots are cleared to nil so stale references can be collected.
// Marks DirtyRemoval.
func (a *Archetype) swapRemove(e EntityID) {
	row, ok := a.entityRow[e]
	if !ok {
		return
	}
	last := len(a.entities) - 1
	if row != last {
		movedEntity := a.entities[last]
		a.entities[row] = movedEntity
		a.entityRow[movedEntity] = row
		for c, col := range a.componentData {
			if last < len(col) {
				col[row] = col[last]
				col[last] = nil
			}
			a.componentData[c] = col
		}
	} else {
		for c, col := range a.componentData {
			if last < len(col) {
				col[last] = nil
			}
			a.componentData[c] = col
		}
	}
	a.entities = a.entities[:last]
	delete(a.entityRow, e)
	a.dirty |= DirtyRemoval
}

// update overwrites the value for component c at e's row and marks
// DirtyUpdate. Precondition: bit c is set in a.bitmask.
func (a *Archetype) update(e EntityID, c ComponentID, v any) bool {
	row, ok := a.entityRow[e]
	if !ok {
		return false
	}
	col := a.column(c)
	if row >= len(col) {
		col = extendSlice(col, row+1-len(col))
		a.componentData[c] = col
	}
	col[row] = v
	a.dirty |= DirtyUpdate
	return true
}

// get returns the value for component c at e's row, and whether the
// archetype both has bit c set and a value recorded for that row.
func (a *Archetype) get(e EntityID, c ComponentID) (any, bool) {
	if !a.bitmask.has(c) {
		return nil, false
	}
	row, ok := a.entityRow[e]
	if !ok {
		return nil, false
	}
	col, ok := a.componentData[c]
	if !ok || row >= len(col) {
		return nil, false
	}
	return col[row], true
}

// clearDirty resets the dirty bitfield. Nothing in the core calls it: the
// query cache uses the version counter rather than dirty flags, so this is
// available only for direct inspection.
func (a *Archetype) clearDirty() { a.dirty = 0 }
