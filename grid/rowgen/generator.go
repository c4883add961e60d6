// Package rowgen binds data items to row elements, reusing instances from
// the recycle pools whenever it can.
package rowgen

import (
	"slices"
	"strconv"

	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/metrics"
	"github.com/hnimtadd/gridvirt/grid/recycle"
	"github.com/hnimtadd/gridvirt/grid/slot"
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/hnimtadd/gridvirt/logger"
)

// Origin tells where a generated row instance came from.
type Origin int

const (
	// A retained row (editing or focused) already bound to the item.
	OriginRetained Origin = iota
	// The item is a row itself.
	OriginItem
	OriginPool
	OriginNew
)

func (o Origin) String() string {
	switch o {
	case OriginRetained:
		return "retained"
	case OriginItem:
		return "item"
	case OriginPool:
		return "pool"
	default:
		return "new"
	}
}

type Generator struct {
	pools   *recycle.Pools
	columns *column.Set
	owner   element.Owner
	metrics *metrics.Metrics
	logger  logger.Logger

	// Off-screen rows that must keep their state.
	retained []*element.Row

	// LoadingRow is called once for every row bound by GenerateRow.
	LoadingRow func(row *element.Row)
	// UnloadingRow is called when a row goes to a pool.
	UnloadingRow func(row *element.Row)

	// RowHeader returns the row header text. nil uses the 1-based row
	// number.
	RowHeader func(rowIndex int, item any) string
	// IsSelected and DetailsVisible decide the row flags on bind.
	IsSelected     func(rowIndex int) bool
	DetailsVisible func(row *element.Row) bool
	// MustRetain reports whether an unrealized row keeps its state instead
	// of going to a pool. Editing rows are always retained.
	MustRetain func(row *element.Row) bool
}

func New(pools *recycle.Pools, columns *column.Set, owner element.Owner, m *metrics.Metrics, log logger.Logger) *Generator {
	if m == nil {
		m = metrics.Nop()
	}
	if log == nil {
		log = logger.Nop
	}
	return &Generator{
		pools:   pools,
		columns: columns,
		owner:   owner,
		metrics: m,
		logger:  log,
	}
}

func (g *Generator) columnCount() int {
	if g.columns == nil {
		return 0
	}
	return g.columns.Count()
}

// GenerateRow returns a row bound to dataContext for rowIndex at slot.
// The row comes from, in order: the retained rows, the item itself, the
// pool (preferring a row that held an equal item), a new allocation.
func (g *Generator) GenerateRow(rowIndex, at int, dataContext any) *element.Row {
	row, origin := g.resolve(rowIndex, dataContext)
	g.metrics.RowsGenerated.WithLabelValues(origin.String()).Inc()

	row.Index = rowIndex
	row.SetSlot(at)
	row.SetOwner(g.owner)
	row.SetState(element.StateActive)
	row.SetVisible(true)

	if !source.SameItem(row.DataContext, dataContext) {
		row.InvalidateMeasure()
	}
	row.DataContext = dataContext
	row.Fingerprint = element.Fingerprint(dataContext)

	if g.RowHeader != nil {
		row.Header = g.RowHeader(rowIndex, dataContext)
	} else {
		row.Header = strconv.Itoa(rowIndex + 1)
	}

	placeholder := source.IsPlaceholder(dataContext)
	g.completeCells(row)
	if origin == OriginPool && row.IsPlaceholder != placeholder {
		// Placeholder rows use other cell templates.
		for _, c := range row.Cells {
			c.ResetContent()
		}
		row.InvalidateMeasure()
	}
	row.IsPlaceholder = placeholder
	g.fillCells(row)

	if g.IsSelected != nil {
		row.IsSelected = g.IsSelected(rowIndex)
	}
	if g.DetailsVisible != nil {
		visible := g.DetailsVisible(row)
		if visible != row.DetailsVisible {
			row.InvalidateMeasure()
		}
		row.DetailsVisible = visible
	}
	row.IsRecycled = false

	if g.LoadingRow != nil {
		g.LoadingRow(row)
	}
	return row
}

// resolve finds the instance for rowIndex. A retained row only comes back
// at its own row index, so equal items elsewhere never take it.
func (g *Generator) resolve(rowIndex int, dataContext any) (*element.Row, Origin) {
	for i, r := range g.retained {
		if r.Index == rowIndex && source.SameItem(r.DataContext, dataContext) {
			g.retained = slices.Delete(g.retained, i, i+1)
			return r, OriginRetained
		}
	}
	if r, ok := dataContext.(*element.Row); ok {
		return r, OriginItem
	}
	fp := element.Fingerprint(dataContext)
	r, tier, ok := g.pools.Rows.TryAcquireMatching(func(r *element.Row) bool {
		return fp != 0 && r.Fingerprint == fp && source.SameItem(r.DataContext, dataContext)
	})
	if ok {
		g.metrics.PoolAcquired.WithLabelValues(element.KindDataRow.String(), tier.String()).Inc()
		return r, OriginPool
	}
	return element.NewRow(), OriginNew
}

// Reindex moves a bound row to another row index after rows were inserted
// or removed before it.
func (g *Generator) Reindex(row *element.Row, rowIndex int) {
	if row.Index == rowIndex {
		return
	}
	row.Index = rowIndex
	if g.RowHeader != nil {
		row.Header = g.RowHeader(rowIndex, row.DataContext)
	} else {
		row.Header = strconv.Itoa(rowIndex + 1)
	}
	if g.IsSelected != nil {
		row.IsSelected = g.IsSelected(rowIndex)
	}
}

// ReindexRetained updates the row index of every retained row after rows
// were inserted or removed. index returns -1 for a row whose position is
// gone; such a row never comes back and is released once nothing needs it.
func (g *Generator) ReindexRetained(index func(row *element.Row) int) {
	for _, r := range g.retained {
		if i := index(r); i >= 0 {
			g.Reindex(r, i)
		} else {
			r.Index = -1
		}
	}
}

// completeCells makes the row hold exactly one cell per column.
func (g *Generator) completeCells(row *element.Row) {
	n := g.columnCount()
	for len(row.Cells) < n {
		row.Cells = append(row.Cells, &element.Cell{Column: len(row.Cells), Row: row})
	}
	if len(row.Cells) > n {
		clear(row.Cells[n:])
		row.Cells = row.Cells[:n]
	}
}

func (g *Generator) fillCells(row *element.Row) {
	for i, c := range row.Cells {
		if row.IsPlaceholder {
			c.Content = nil
			continue
		}
		c.Content = g.columns.At(i).ValueOf(row.DataContext)
	}
}

// GenerateGroupHeader returns a header element for the group at slot.
func (g *Generator) GenerateGroupHeader(at int, info *slot.GroupInfo) *element.GroupHeader {
	h, tier, ok := g.pools.Headers.TryAcquire()
	if ok {
		g.metrics.PoolAcquired.WithLabelValues(element.KindGroupHeader.String(), tier.String()).Inc()
	} else {
		h = element.NewGroupHeader()
	}
	if h.Group != info.Group {
		h.InvalidateMeasure()
	}
	h.Group = info.Group
	h.Level = info.Level
	h.IsRecycled = false
	h.SetSlot(at)
	h.SetOwner(g.owner)
	return h
}

// GenerateGroupFooter returns a footer element for the group at slot.
func (g *Generator) GenerateGroupFooter(at int, info *slot.GroupInfo) *element.GroupFooter {
	f, tier, ok := g.pools.Footers.TryAcquire()
	if ok {
		g.metrics.PoolAcquired.WithLabelValues(element.KindGroupFooter.String(), tier.String()).Inc()
	} else {
		f = element.NewGroupFooter()
	}
	if f.Group != info.Group {
		f.InvalidateMeasure()
	}
	f.Group = info.Group
	f.Level = info.Level
	f.IsRecycled = false
	f.SetSlot(at)
	f.SetOwner(g.owner)
	return f
}

// Recycle takes an unrealized element. Rows that must keep their state
// are retained; everything else goes to its pool.
func (g *Generator) Recycle(e element.Element) {
	switch e := e.(type) {
	case *element.Row:
		if e.IsEditing || (g.MustRetain != nil && g.MustRetain(e)) {
			e.SetSlot(-1)
			e.SetVisible(false)
			g.retained = append(g.retained, e)
			g.logger.Debug("row retained off-screen", "row", e.Index)
			return
		}
		if g.UnloadingRow != nil {
			g.UnloadingRow(e)
		}
		e.IsRecycled = true
	case *element.GroupHeader:
		e.IsRecycled = true
	case *element.GroupFooter:
		e.IsRecycled = true
	}
	g.pools.Release(e)
}

// Retained returns the rows kept off-screen.
func (g *Generator) Retained() []*element.Row {
	return g.retained
}

// ReleaseRetained sends retained rows that no longer need their state to
// the pool. It returns the number released.
func (g *Generator) ReleaseRetained() int {
	released := 0
	kept := g.retained[:0]
	for _, r := range g.retained {
		if r.IsEditing || (g.MustRetain != nil && g.MustRetain(r)) {
			kept = append(kept, r)
			continue
		}
		if g.UnloadingRow != nil {
			g.UnloadingRow(r)
		}
		r.IsRecycled = true
		g.pools.Rows.Release(r)
		released++
	}
	clear(g.retained[len(kept):])
	g.retained = kept
	return released
}

// DropRetained forgets every retained row, used when the source changes
// under them.
func (g *Generator) DropRetained() {
	for _, r := range g.retained {
		r.IsEditing = false
		if g.UnloadingRow != nil {
			g.UnloadingRow(r)
		}
		r.IsRecycled = true
		g.pools.Rows.Release(r)
	}
	clear(g.retained)
	g.retained = g.retained[:0]
}
