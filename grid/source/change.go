package source

import "fmt"

// ChangeKind is the kind of a collection change notification.
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeRemove
	ChangeReplace
	ChangeMove
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	case ChangeReplace:
		return "replace"
	case ChangeMove:
		return "move"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes one mutation of a DataSource, already applied to it.
//
//   - Add: Count items now live at [Index, Index+Count).
//   - Remove: Count items that lived at [Index, Index+Count) are gone.
//   - Replace: the items at [Index, Index+Count) were swapped in place.
//   - Move: Count items moved from OldIndex to Index.
//   - Reset: anything may have changed.
type Change struct {
	Kind     ChangeKind
	Index    int
	Count    int
	OldIndex int
}

// Validate checks the change against the source count after the change was
// applied.
func (c Change) Validate(count int) error {
	switch c.Kind {
	case ChangeReset:
		return nil
	case ChangeAdd, ChangeReplace:
		if c.Count <= 0 || c.Index < 0 || c.Index+c.Count > count {
			return fmt.Errorf("%w: %s [%d,+%d) with %d items", ErrInvalidChange, c.Kind, c.Index, c.Count, count)
		}
	case ChangeRemove:
		if c.Count <= 0 || c.Index < 0 || c.Index > count {
			return fmt.Errorf("%w: %s [%d,+%d) with %d items", ErrInvalidChange, c.Kind, c.Index, c.Count, count)
		}
	case ChangeMove:
		if c.Count <= 0 || c.Index < 0 || c.OldIndex < 0 ||
			c.Index+c.Count > count || c.OldIndex+c.Count > count {
			return fmt.Errorf("%w: move %d items %d -> %d with %d items", ErrInvalidChange, c.Count, c.OldIndex, c.Index, count)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidChange, c.Kind)
	}
	return nil
}

var ErrInvalidChange = fmt.Errorf("source: invalid change notification")
