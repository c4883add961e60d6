package source

import (
	"fmt"
	"reflect"
)

// DataSource is the flattened collection view the grid virtualizes over.
// Row indexes used everywhere in the engine are positions in this
// collection.
//
// Implementations must be cheap to query: Item is called once per realized
// row, and Count on every layout pass.
//
//go:generate mockgen -package=mocks -destination=../../internal/mocks/mock_data_source.go github.com/hnimtadd/gridvirt/grid/source DataSource
type DataSource interface {
	Count() int
	Item(index int) any
	// IndexOf returns the row index of item, or -1 when the item is not in
	// the source.
	IndexOf(item any) int
}

type placeholder struct{}

func (placeholder) String() string { return "{NewItemPlaceholder}" }

// Placeholder is the data context of the new-item row appended when users
// can add rows. It is never stored in a source.
var Placeholder any = &placeholder{}

// IsPlaceholder reports whether item is the new-item placeholder.
func IsPlaceholder(item any) bool {
	p, ok := item.(*placeholder)
	return ok && p != nil
}

// SameItem reports whether a and b are the same data item. Items of
// non-comparable types (slices, maps) are never the same unless both are
// nil.
func SameItem(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Validate checks that src can be virtualized.
func Validate(src DataSource) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrMalformed)
	}
	if n := src.Count(); n < 0 {
		return fmt.Errorf("%w: negative count %d", ErrMalformed, n)
	}
	return nil
}

var ErrMalformed = fmt.Errorf("source: malformed data source")
