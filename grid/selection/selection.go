// Package selection tracks selected rows by row index.
package selection

import (
	"iter"

	"github.com/hnimtadd/gridvirt/grid/utils"
)

type Model struct {
	rows *utils.BitSet
}

func New(rowCount int) *Model {
	return &Model{rows: utils.NewBitSet(rowCount)}
}

func (m *Model) Len() int { return m.rows.Len() }

func (m *Model) inRange(row int) bool {
	return row >= 0 && row < m.rows.Len()
}

func (m *Model) IsSelected(row int) bool {
	return m.inRange(row) && m.rows.IsSet(row)
}

// Select reports whether the row was in range.
func (m *Model) Select(row int) bool {
	if !m.inRange(row) {
		return false
	}
	m.rows.Set(row)
	return true
}

func (m *Model) Unselect(row int) bool {
	if !m.inRange(row) {
		return false
	}
	m.rows.Unset(row)
	return true
}

// SelectRange selects rows [lo, hi], clamped to the model.
func (m *Model) SelectRange(lo, hi int) {
	lo, hi = max(lo, 0), min(hi, m.rows.Len()-1)
	if lo > hi {
		return
	}
	m.rows.SetRange(lo, hi+1)
}

func (m *Model) UnselectRange(lo, hi int) {
	lo, hi = max(lo, 0), min(hi, m.rows.Len()-1)
	if lo > hi {
		return
	}
	m.rows.UnsetRange(lo, hi+1)
}

func (m *Model) Count() int { return m.rows.Count() }

func (m *Model) Clear() { m.rows.Clear() }

// OnInserted opens count unselected rows at row.
func (m *Model) OnInserted(row, count int) {
	m.rows.InsertRange(row, count)
}

// OnRemoved drops count rows starting at row.
func (m *Model) OnRemoved(row, count int) {
	m.rows.RemoveRange(row, count)
}

// Reset clears the selection and resizes it to rowCount.
func (m *Model) Reset(rowCount int) {
	m.rows = utils.NewBitSet(rowCount)
}

// Rows yields the selected row indexes in ascending order.
func (m *Model) Rows() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := m.rows.NextSet(0); i >= 0; i = m.rows.NextSet(i + 1) {
			if !yield(i) {
				return
			}
		}
	}
}
