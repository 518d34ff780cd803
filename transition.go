package archecs

// TransitionInfo is the derived, cached record describing one edge: which
// components are shared between source and destination, which are newly
// added, which are dropped, and how often the transition has fired (§3,
// "TransitionInfo"). It is fully derivable from the two bitmasks alone;
// caching it avoids recomputing the three component lists on every hot-path
// move.
type TransitionInfo struct {
	SourceIdx, DestIdx int
	Shared             []ComponentID // natural bit order, per §4.5
	Added              []ComponentID
	Removed            []ComponentID
	Frequency          uint64
}

// computeTransition derives a TransitionInfo purely from the two bitmasks.
// Shared-component order is natural bit order (low mask index, low bit
// position first), matching §4.5's requirement that "iteration order must be
// stable so that numerical-only fast paths produce the same results as
// generic paths."
func computeTransition(source, dest *Archetype) *TransitionInfo {
	shared := make([]ComponentID, 0, MaxComponents)
	added := make([]ComponentID, 0, MaxComponents)
	removed := make([]ComponentID, 0, MaxComponents)
	for word := 0; word < NumBitmasks; word++ {
		sw, dw := source.bitmask[word], dest.bitmask[word]
		for bit := 0; bit < BitsPerMask; bit++ {
			b := uint32(1) << uint32(bit)
			inSrc, inDst := sw&b != 0, dw&b != 0
			if !inSrc && !inDst {
				continue
			}
			id := ComponentID(word*BitsPerMask + bit + 1)
			switch {
			case inSrc && inDst:
				shared = append(shared, id)
			case inSrc && !inDst:
				removed = append(removed, id)
			case !inSrc && inDst:
				added = append(added, id)
			}
		}
	}
	return &TransitionInfo{
		SourceIdx: source.index,
		DestIdx:   dest.index,
		Shared:    shared,
		Added:     added,
		Removed:   removed,
	}
}

// numericScratchSize is the fixed size of the stack-allocated scratch buffer
// the numeric fast path batches column moves through (§4.5, "Numeric fast
// path"; §5, "resource policy" — the buffer is stack-allocated, fixed size,
// and holds no state between calls).
const numericScratchSize = 8

// copySharedColumns copies every shared column from source row fromRow to
// destination row toRow, backfilling source's vacated row from its last row
// when needed. When there are more than three shared components and the
// first shared column holds a machine-sized numeric type, it batches the
// copy through a small fixed-size scratch array instead of looping one
// column at a time; the two paths are behaviorally identical, differing only
// in which order the per-column work happens in, as §4.5 requires.
func copySharedColumns(source, destination *Archetype, shared []ComponentID, fromRow, toRow, last int, needsBackfill bool) {
	if len(shared) > 3 && isNumericFastPathEligible(source, shared[0], fromRow) {
		copySharedColumnsNumeric(source, destination, shared, fromRow, toRow, last, needsBackfill)
		return
	}
	for _, c := range shared {
		srcCol := source.column(c)
		dstCol := destination.column(c)
		dstCol[toRow] = srcCol[fromRow]
		destination.componentData[c] = dstCol
		if needsBackfill {
			srcCol[fromRow] = srcCol[last]
		}
		srcCol[last] = nil
		source.componentData[c] = srcCol
	}
}

// backfillRemovedColumns moves the vacated row's replacement value into place
// for every column that exists only in source (the components this
// transition drops). These columns are never copied to destination, but the
// entity backfilled into fromRow still owns whatever value it held there, so
// it must follow the same swap-and-pop relocation the shared columns get.
func backfillRemovedColumns(source *Archetype, removed []ComponentID, fromRow, last int, needsBackfill bool) {
	for _, c := range removed {
		col, ok := source.componentData[c]
		if !ok {
			continue
		}
		if needsBackfill && last < len(col) {
			col[fromRow] = col[last]
		}
		if last < len(col) {
			col[last] = nil
		}
		source.componentData[c] = col
	}
}

// isNumericFastPathEligible reports whether the value at (c, fromRow) in
// source is a machine-sized number the fast path knows how to batch.
func isNumericFastPathEligible(source *Archetype, c ComponentID, fromRow int) bool {
	col := source.column(c)
	if fromRow >= len(col) {
		return false
	}
	switch col[fromRow].(type) {
	case int64, float64, int, uint64:
		return true
	default:
		return false
	}
}

// copySharedColumnsNumeric is the numeric fast path: it processes shared
// columns in fixed-size batches of numericScratchSize through a local
// scratch array, rather than one column's single value at a time. The
// observable effect on source/destination is identical to the generic loop
// above; only the batching changes.
func copySharedColumnsNumeric(source, destination *Archetype, shared []ComponentID, fromRow, toRow, last int, needsBackfill bool) {
	var scratch [numericScratchSize]any
	for i := 0; i < len(shared); i += numericScratchSize {
		end := i + numericScratchSize
		if end > len(shared) {
			end = len(shared)
		}
		batch := shared[i:end]
		for j, c := range batch {
			scratch[j] = source.column(c)[fromRow]
		}
		for j, c := range batch {
			dstCol := destination.column(c)
			dstCol[toRow] = scratch[j]
			destination.componentData[c] = dstCol
			srcCol := source.column(c)
			if needsBackfill {
				srcCol[fromRow] = srcCol[last]
			}
			srcCol[last] = nil
			source.componentData[c] = srcCol
		}
	}
}

// TransitionEngine performs the atomic structural move described in §4.5:
// copy shared columns from source to destination, write any newly added
// values, swap-remove the vacated source row, and re-point the entity
// index. It is the hot path of the whole core.
type TransitionEngine struct {
	events *EventBus
}

func newTransitionEngine(events *EventBus) *TransitionEngine {
	return &TransitionEngine{events: events}
}

// move relocates entity from source (which may be nil, for a fresh entity's
// first component) into destination according to transition, writing
// newValues for any newly added components. It returns the entity's new row
// in destination.
func (te *TransitionEngine) move(entity EntityID, source, destination *Archetype, transition *TransitionInfo, newValues map[ComponentID]any) int {
	toRow := destination.entityCount()
	for _, c := range transition.Shared {
		destination.ensureColumnLen(c, toRow+1)
	}
	for _, c := range transition.Added {
		destination.ensureColumnLen(c, toRow+1)
	}

	if source != nil {
		fromRow, ok := source.entityRow[entity]
		if !ok {
			panic(&Error{Kind: KindTransitionError, Op: "TransitionEngine.move",
				Entity: entity, Archetype: source.key()})
		}
		last := source.entityCount() - 1
		needsBackfill := fromRow < last

		copySharedColumns(source, destination, transition.Shared, fromRow, toRow, last, needsBackfill)
		backfillRemovedColumns(source, transition.Removed, fromRow, last, needsBackfill)

		if needsBackfill {
			movedEntity := source.entities[last]
			source.entities[fromRow] = movedEntity
			source.entityRow[movedEntity] = fromRow
		}
		source.entities = source.entities[:last]
		delete(source.entityRow, entity)
		source.dirty |= DirtyRemoval
	}

	for _, c := range transition.Added {
		col := destination.column(c)
		if newValues != nil {
			if v, ok := newValues[c]; ok {
				col[toRow] = v
			}
		}
		destination.componentData[c] = col
	}

	destination.entities = append(destination.entities, entity)
	destination.entityRow[entity] = toRow
	destination.dirty |= DirtyAddition

	transition.Frequency++

	if te.events != nil {
		te.events.publishTransition(TransitionEvent{Entity: entity, From: transition.SourceIdx, To: transition.DestIdx})
	}
	return toRow
}
