package element

// Row is the visual element for one data item.
type Row struct {
	Base

	// Position of DataContext in the flattened source.
	Index int

	DataContext any

	// Fingerprint of DataContext, used to find warm rows in the pool that
	// already hold an equal item.
	Fingerprint uint64

	Cells []*Cell

	// Placeholder rows use different cell templates, so crossing the
	// placeholder boundary on reuse regenerates every cell.
	IsPlaceholder bool

	// Row header content, reapplied on every bind.
	Header string

	DetailsVisible bool

	IsSelected bool
	IsEditing  bool

	// Set while the row sits in a pool.
	IsRecycled bool
}

func NewRow() *Row {
	return &Row{Base: newBase(), Index: -1}
}

func (r *Row) Kind() Kind { return KindDataRow }

// Cell returns the cell for column, or nil.
func (r *Row) Cell(column int) *Cell {
	if column < 0 || column >= len(r.Cells) {
		return nil
	}
	return r.Cells[column]
}
