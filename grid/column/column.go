// Package column describes the grid columns: what each one shows and how
// wide it is, plus the horizontal scroll offset over them.
package column

import (
	"fmt"
	"reflect"

	"github.com/hnimtadd/gridvirt/grid/utils"
)

// Column extracts and formats one value of an item.
type Column struct {
	Header string
	Width  int

	// Value returns the cell content for item. nil shows the item itself.
	Value func(item any) any
}

func (c Column) ValueOf(item any) any {
	if c.Value == nil {
		return item
	}
	return c.Value(item)
}

// Set is an ordered list of columns with a horizontal offset.
type Set struct {
	columns []Column

	// Left edge of the viewport, in the same unit as Column.Width.
	horizontalOffset int
}

func NewSet(columns ...Column) *Set {
	for _, c := range columns {
		utils.Assert(c.Width >= 0, "negative column width")
	}
	return &Set{columns: columns}
}

func (s *Set) Count() int { return len(s.columns) }

func (s *Set) At(i int) Column { return s.columns[i] }

func (s *Set) All() []Column { return s.columns }

// TotalWidth is the sum of the column widths.
func (s *Set) TotalWidth() int {
	w := 0
	for _, c := range s.columns {
		w += c.Width
	}
	return w
}

// Left is the x position of the left edge of column i.
func (s *Set) Left(i int) int {
	x := 0
	for _, c := range s.columns[:i] {
		x += c.Width
	}
	return x
}

func (s *Set) HorizontalOffset() int { return s.horizontalOffset }

func (s *Set) SetHorizontalOffset(offset int) {
	s.horizontalOffset = max(offset, 0)
}

// ScrollColumnIntoView moves the horizontal offset the least amount that
// shows column i in a viewport of the given width. A column wider than the
// viewport shows its left edge. It reports whether the offset changed.
func (s *Set) ScrollColumnIntoView(i int, viewportWidth int) bool {
	if i < 0 || i >= len(s.columns) {
		return false
	}
	left := s.Left(i)
	right := left + s.columns[i].Width
	offset := s.horizontalOffset
	switch {
	case left < offset:
		offset = left
	case right > offset+viewportWidth:
		offset = min(right-viewportWidth, left)
	}
	if offset == s.horizontalOffset {
		return false
	}
	s.horizontalOffset = offset
	return true
}

// FromStruct derives one column per exported field of a struct value or
// pointer, titled with the field name.
func FromStruct(sample any, width int) ([]Column, error) {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("column: %T is not a struct", sample)
	}
	var columns []Column
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		index := f.Index
		columns = append(columns, Column{
			Header: f.Name,
			Width:  width,
			Value: func(item any) any {
				v := reflect.ValueOf(item)
				for v.Kind() == reflect.Pointer {
					if v.IsNil() {
						return nil
					}
					v = v.Elem()
				}
				if v.Kind() != reflect.Struct || v.Type() != t {
					return nil
				}
				return v.FieldByIndex(index).Interface()
			},
		})
	}
	return columns, nil
}
