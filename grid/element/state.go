package element

// State is where an element is in its recycle lifecycle:
//
//	Active -> Recyclable -> FullyRecycled -> Active
//	Active -> Recyclable -> Discarded
type State int

const (
	// Bound to a slot, or held by the grid (editing/focused rows).
	StateActive State = iota

	// Detached from its slot but still visible and still bound to its last
	// data context. Cheap to hand back, especially for the same item.
	StateRecyclable

	// Hidden and reusable for any data context.
	StateFullyRecycled

	// Dropped on pool teardown. Never reused.
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateRecyclable:
		return "recyclable"
	case StateFullyRecycled:
		return "fully_recycled"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}
