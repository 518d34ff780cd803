package archecs

// Query1 through Query5 are a hand-specialized, typed convenience layer over
// the generic QueryView core, grounded on the teacher's CreateQuery[T]/
// Filter[T] generic entry points (query.go, filter.go) — but since this
// module's ComponentID is caller-assigned and opaque rather than tied to a
// Go type via reflection, the caller supplies both the type parameter (for
// the checked cast on Get) and the matching ComponentID explicitly, instead
// of the teacher's GetID[T]()/TryGetID[T]() registry lookup (§9, design note
// "Iterator dispatch across heterogeneous component sets").

// Query1 iterates entities carrying component id1, exposing its value typed
// as A.
type Query1[A any] struct {
	view *QueryView
	id1  ComponentID
}

func NewQuery1[A any](e *ECS, id1 ComponentID) *Query1[A] {
	return &Query1[A]{view: e.Query(id1).View(), id1: id1}
}

func (q *Query1[A]) Next() bool      { return q.view.Next() }
func (q *Query1[A]) Entity() EntityID { return q.view.Entity() }
func (q *Query1[A]) A() A             { return q.view.Get(q.id1).(A) }

// Query2 iterates entities carrying both id1 and id2.
type Query2[A, B any] struct {
	view     *QueryView
	id1, id2 ComponentID
}

func NewQuery2[A, B any](e *ECS, id1, id2 ComponentID) *Query2[A, B] {
	return &Query2[A, B]{view: e.Query(id1, id2).View(), id1: id1, id2: id2}
}

func (q *Query2[A, B]) Next() bool      { return q.view.Next() }
func (q *Query2[A, B]) Entity() EntityID { return q.view.Entity() }
func (q *Query2[A, B]) A() A             { return q.view.Get(q.id1).(A) }
func (q *Query2[A, B]) B() B             { return q.view.Get(q.id2).(B) }

// Query3 iterates entities carrying id1, id2, and id3.
type Query3[A, B, C any] struct {
	view          *QueryView
	id1, id2, id3 ComponentID
}

func NewQuery3[A, B, C any](e *ECS, id1, id2, id3 ComponentID) *Query3[A, B, C] {
	return &Query3[A, B, C]{view: e.Query(id1, id2, id3).View(), id1: id1, id2: id2, id3: id3}
}

func (q *Query3[A, B, C]) Next() bool      { return q.view.Next() }
func (q *Query3[A, B, C]) Entity() EntityID { return q.view.Entity() }
func (q *Query3[A, B, C]) A() A             { return q.view.Get(q.id1).(A) }
func (q *Query3[A, B, C]) B() B             { return q.view.Get(q.id2).(B) }
func (q *Query3[A, B, C]) C() C             { return q.view.Get(q.id3).(C) }

// Query4 iterates entities carrying id1 through id4.
type Query4[A, B, C, D any] struct {
	view               *QueryView
	id1, id2, id3, id4 ComponentID
}

func NewQuery4[A, B, C, D any](e *ECS, id1, id2, id3, id4 ComponentID) *Query4[A, B, C, D] {
	return &Query4[A, B, C, D]{view: e.Query(id1, id2, id3, id4).View(), id1: id1, id2: id2, id3: id3, id4: id4}
}

func (q *Query4[A, B, C, D]) Next() bool      { return q.view.Next() }
func (q *Query4[A, B, C, D]) Entity() EntityID { return q.view.Entity() }
func (q *Query4[A, B, C, D]) A() A             { return q.view.Get(q.id1).(A) }
func (q *Query4[A, B, C, D]) B() B             { return q.view.Get(q.id2).(B) }
func (q *Query4[A, B, C, D]) C() C             { return q.view.Get(q.id3).(C) }
func (q *Query4[A, B, C, D]) D() D             { return q.view.Get(q.id4).(D) }

// Query5 iterates entities carrying id1 through id5.
type Query5[A, B, C, D, E any] struct {
	view                    *QueryView
	id1, id2, id3, id4, id5 ComponentID
}

func NewQuery5[A, B, C, D, E any](e *ECS, id1, id2, id3, id4, id5 ComponentID) *Query5[A, B, C, D, E] {
	return &Query5[A, B, C, D, E]{view: e.Query(id1, id2, id3, id4, id5).View(), id1: id1, id2: id2, id3: id3, id4: id4, id5: id5}
}

func (q *Query5[A, B, C, D, E]) Next() bool      { return q.view.Next() }
func (q *Query5[A, B, C, D, E]) Entity() EntityID { return q.view.Entity() }
func (q *Query5[A, B, C, D, E]) A() A             { return q.view.Get(q.id1).(A) }
func (q *Query5[A, B, C, D, E]) B() B             { return q.view.Get(q.id2).(B) }
func (q *Query5[A, B, C, D, E]) C() C             { return q.view.Get(q.id3).(C) }
func (q *Query5[A, B, C, D, E]) D() D             { return q.view.Get(q.id4).(D) }
func (q *Query5[A, B, C, D, E]) E() E             { return q.view.Get(q.id5).(E) }
