package archecs

// Edge is a directed, cached link between two archetypes labelled by the
// single component whose addition (or removal) distinguishes them (§3,
// "Edge"). Edges also form a doubly-linked incoming list at their
// destination archetype so Cleanup can unlink every edge terminating at a
// torn-down archetype in O(1) per edge, without scanning every archetype in
// the index (§4.4).
type Edge struct {
	fromIdx, toIdx int // slots into ArchetypeIndex.arena
	component      ComponentID
	isAdd          bool // true: from --add c--> to. false: from --remove c--> to.
	transition     *TransitionInfo

	// incoming list at `to`: prev/next among edges where toIdx == this.toIdx.
	prevIncoming, nextIncoming *Edge
}

// linkIncoming inserts e at the head of to.edgeRefsHead, the doubly-linked
// list of edges terminating at `to` (§4.4: "On creation the Edge is inserted
// at the head of to.edge_refs's linked list").
func linkIncoming(to *Archetype, e *Edge) {
	e.nextIncoming = to.edgeRefsHead
	e.prevIncoming = nil
	if to.edgeRefsHead != nil {
		to.edgeRefsHead.prevIncoming = e
	}
	to.edgeRefsHead = e
}

// unlinkIncoming removes e from its destination archetype's incoming list in
// O(1), used by Cleanup when an archetype is torn down.
func unlinkIncoming(to *Archetype, e *Edge) {
	if e.prevIncoming != nil {
		e.prevIncoming.nextIncoming = e.nextIncoming
	} else if to.edgeRefsHead == e {
		to.edgeRefsHead = e.nextIncoming
	}
	if e.nextIncoming != nil {
		e.nextIncoming.prevIncoming = e.prevIncoming
	}
	e.prevIncoming = nil
	e.nextIncoming = nil
}

// EdgeGraph owns the transition-key-indexed edge cache shared across all
// archetypes (§3, "Edge cache"). Per-archetype addEdges/removeEdges maps
// (on Archetype) are the hot-path lookup; this cache indexes every edge by
// its transition key so Set/Remove can find an existing edge for an exact
// (from, to, component, direction) tuple when the per-archetype map has no
// usable entry. Several distinct transitions can share one key, so lookup
// compares each bucket entry structurally.
type EdgeGraph struct {
	buckets map[transitionKey][]*Edge
}

func newEdgeGraph() *EdgeGraph {
	return &EdgeGraph{buckets: make(map[transitionKey][]*Edge)}
}

// lookup finds an existing edge for the (from, to, component, isAdd) tuple,
// falling back to structural comparison within the bucket when the packed
// key collides across unrelated transitions.
func (g *EdgeGraph) lookup(from, to *Archetype, c ComponentID, isAdd bool) *Edge {
	key := transitionKeyOf(from.bitmask, to.bitmask)
	for _, e := range g.buckets[key] {
		if e.fromIdx == from.index && e.toIdx == to.index && e.component == c && e.isAdd == isAdd {
			return e
		}
	}
	return nil
}

// addEdge creates and registers a new Edge from `from` to `to` via
// component c (isAdd selects the add/remove direction), wiring it into both
// endpoints' add_edges/remove_edges maps and into to's incoming list, per
// §4.4.
func (g *EdgeGraph) addEdge(from, to *Archetype, c ComponentID, isAdd bool, transition *TransitionInfo) *Edge {
	e := &Edge{
		fromIdx:    from.index,
		toIdx:      to.index,
		component:  c,
		isAdd:      isAdd,
		transition: transition,
	}
	if isAdd {
		from.addEdges[c] = e
		to.removeEdges[c] = e
	} else {
		from.removeEdges[c] = e
		to.addEdges[c] = e
	}
	linkIncoming(to, e)
	key := transitionKeyOf(from.bitmask, to.bitmask)
	g.buckets[key] = append(g.buckets[key], e)
	return e
}

// unlinkAll removes every bucket entry whose edge starts or terminates at the
// given archetype slot, used by Cleanup after the incoming-list unlinking pass has
// already detached those edges from both endpoints' maps.
func (g *EdgeGraph) unlinkAll(archetypeIdx int) {
	for key, edges := range g.buckets {
		filtered := edges[:0]
		for _, e := range edges {
			if e.toIdx != archetypeIdx && e.fromIdx != archetypeIdx {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			delete(g.buckets, key)
		} else {
			g.buckets[key] = filtered
		}
	}
}
