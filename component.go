package archecs

import "fmt"

// ComponentID is a positive integer in [1, MaxComponents], assigned by the
// caller. Unlike the reference lineage's RegisterComponent[T](), which
// derives an id by reflecting over a Go type, this core treats ComponentID
// as opaque: it never inspects, registers, or reflects over the type of the
// value stored under a given id. This is what lets a single column hold
// heterogeneous values (Design Note §9, "Heterogeneous column values",
// strategy (a): a type-erased variant per column).
type ComponentID uint32

// validComponent reports whether c falls in the declared [1, MaxComponents]
// range.
func validComponent(c ComponentID) bool {
	return c >= 1 && c <= MaxComponents
}

// invalidComponentError builds the INVALID_COMPONENT error for component id
// c at call site op. It does not apply the DEBUG_MODE fail-fast policy
// itself — callers must still stop using c as a valid bit position either
// way, so they check validComponent(c) directly and pass this to e.fail only
// to decide what to return, exactly as they do for an invalid entity handle.
func invalidComponentError(op string, c ComponentID) *Error {
	return &Error{Kind: KindInvalidComponent, Op: op, Component: c,
		Err: fmt.Errorf("component id %d out of range [1, %d]", c, MaxComponents)}
}

// ComponentIDSequence hands out sequential, valid ComponentIDs on request.
// It is optional convenience sugar for callers who would rather not manage
// component ids by hand; the core itself never calls it and does not require
// ids to be contiguous or sequential.
type ComponentIDSequence struct {
	next ComponentID
}

// NewComponentIDSequence returns a sequence starting at component id 1.
func NewComponentIDSequence() *ComponentIDSequence {
	return &ComponentIDSequence{next: 1}
}

// Next returns the next unused id, or an error if the declared range
// [1, MaxComponents] is exhausted.
func (s *ComponentIDSequence) Next() (ComponentID, error) {
	if s.next > MaxComponents {
		return 0, newError(KindMemoryError, "ComponentIDSequence.Next",
			fmt.Errorf("component id space exhausted at %d ids", MaxComponents))
	}
	id := s.next
	s.next++
	return id, nil
}
