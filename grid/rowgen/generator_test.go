package rowgen

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/group"
	"github.com/hnimtadd/gridvirt/grid/metrics"
	"github.com/hnimtadd/gridvirt/grid/recycle"
	"github.com/hnimtadd/gridvirt/grid/slot"
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/hnimtadd/gridvirt/logger"
)

type task struct {
	ID    int
	Title string
}

type owner struct{ columns int }

func (o owner) ColumnCount() int { return o.columns }

func newGenerator(t *testing.T) (*Generator, *metrics.Metrics, *int) {
	t.Helper()
	cols, err := column.FromStruct(task{}, 10)
	assert.NoError(t, err)
	m := metrics.Nop()
	g := New(recycle.NewPools(0, 0), column.NewSet(cols...), owner{len(cols)}, m, logger.Nop)
	loads := 0
	g.LoadingRow = func(*element.Row) { loads++ }
	return g, m, &loads
}

func TestGenerateRow_BindsNewRow(t *testing.T) {
	g, m, loads := newGenerator(t)
	item := task{ID: 7, Title: "write tests"}

	row := g.GenerateRow(3, 4, item)
	assert.Equal(t, 3, row.Index)
	assert.Equal(t, 4, row.Slot())
	assert.Equal(t, item, row.DataContext)
	assert.Equal(t, "4", row.Header)
	assert.Len(t, row.Cells, 2)
	assert.Equal(t, 7, row.Cell(0).Content)
	assert.Equal(t, "write tests", row.Cell(1).Content)
	assert.Equal(t, 2, row.Owner().ColumnCount())
	assert.Equal(t, 1, *loads)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsGenerated.WithLabelValues("new")))
}

func TestGenerateRow_ReusesPooledRows(t *testing.T) {
	g, m, loads := newGenerator(t)
	var rows []*element.Row
	for i := range 5 {
		rows = append(rows, g.GenerateRow(i, i, task{ID: i}))
	}
	for _, r := range rows {
		g.Recycle(r)
		assert.True(t, r.IsRecycled)
	}

	for i := range 5 {
		r := g.GenerateRow(100+i, 100+i, task{ID: 100 + i})
		assert.Contains(t, rows, r)
		assert.False(t, r.IsRecycled)
		assert.Equal(t, 100+i, r.Cell(0).Content)
	}
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RowsGenerated.WithLabelValues("pool")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RowsGenerated.WithLabelValues("new")))
	assert.Equal(t, 10, *loads, "loading fires once per generation")
}

func TestGenerateRow_PrefersRowWithSameItem(t *testing.T) {
	g, _, _ := newGenerator(t)
	a := g.GenerateRow(0, 0, task{ID: 1, Title: "a"})
	b := g.GenerateRow(1, 1, task{ID: 2, Title: "b"})
	a.SetMeasuredHeight(40)
	g.Recycle(a)
	g.Recycle(b)

	got := g.GenerateRow(0, 0, task{ID: 1, Title: "a"})
	assert.Same(t, a, got)
	assert.True(t, got.IsMeasured(), "same item keeps its measurement")
}

func TestGenerateRow_RetainedEditingRow(t *testing.T) {
	g, m, _ := newGenerator(t)
	item := task{ID: 1}
	row := g.GenerateRow(0, 0, item)
	row.IsEditing = true
	g.Recycle(row)

	assert.Len(t, g.Retained(), 1)
	assert.False(t, row.IsRecycled)
	rec, _ := g.pools.Len()
	assert.Zero(t, rec, "editing rows never enter the pool")

	got := g.GenerateRow(0, 5, item)
	assert.Same(t, row, got)
	assert.Empty(t, g.Retained())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsGenerated.WithLabelValues("retained")))
}

func TestGenerateRow_RetainedRowStaysAtItsIndex(t *testing.T) {
	g, _, _ := newGenerator(t)
	item := task{ID: 1}
	row := g.GenerateRow(4, 4, item)
	row.IsEditing = true
	g.Recycle(row)

	other := g.GenerateRow(9, 9, item)
	assert.NotSame(t, row, other, "an equal item on another row")
	assert.False(t, other.IsEditing)
	assert.Len(t, g.Retained(), 1)

	g.ReindexRetained(func(*element.Row) int { return 5 })
	assert.Equal(t, 5, row.Index)
	assert.NotSame(t, row, g.GenerateRow(4, 4, item))
	assert.Same(t, row, g.GenerateRow(5, 5, item))
	assert.Empty(t, g.Retained())
}

func TestGenerateRow_PlaceholderRegeneratesCells(t *testing.T) {
	g, _, _ := newGenerator(t)
	row := g.GenerateRow(0, 0, task{ID: 1})
	gen := row.Cell(0).Generation
	g.Recycle(row)

	got := g.GenerateRow(1, 1, source.Placeholder)
	assert.Same(t, row, got)
	assert.True(t, got.IsPlaceholder)
	assert.Equal(t, gen+1, got.Cell(0).Generation)
	assert.Nil(t, got.Cell(0).Content)

	g.Recycle(got)
	again := g.GenerateRow(2, 2, task{ID: 3})
	assert.False(t, again.IsPlaceholder)
	assert.Equal(t, gen+2, again.Cell(0).Generation)

	g.Recycle(again)
	same := g.GenerateRow(3, 3, task{ID: 4})
	assert.Equal(t, gen+2, same.Cell(0).Generation, "no regeneration without crossing the boundary")
}

func TestGenerateRow_FlagsFromHooks(t *testing.T) {
	g, _, _ := newGenerator(t)
	g.IsSelected = func(rowIndex int) bool { return rowIndex == 2 }
	g.DetailsVisible = func(*element.Row) bool { return true }
	g.RowHeader = func(rowIndex int, _ any) string { return "#" }

	row := g.GenerateRow(2, 2, task{ID: 2})
	assert.True(t, row.IsSelected)
	assert.True(t, row.DetailsVisible)
	assert.Equal(t, "#", row.Header)
}

func TestGenerateRow_ItemIsRow(t *testing.T) {
	g, _, _ := newGenerator(t)
	own := element.NewRow()
	got := g.GenerateRow(0, 0, own)
	assert.Same(t, own, got)
}

func TestGenerateGroupElements(t *testing.T) {
	g, _, _ := newGenerator(t)
	info := &slot.GroupInfo{Group: &group.Group{Key: "eu"}, Level: 1}

	h := g.GenerateGroupHeader(0, info)
	assert.Equal(t, 1, h.Level)
	assert.Same(t, info.Group, h.Group)
	g.Recycle(h)
	assert.True(t, h.IsRecycled)

	h2 := g.GenerateGroupHeader(5, info)
	assert.Same(t, h, h2)
	assert.Equal(t, 5, h2.Slot())
	assert.False(t, h2.IsRecycled)

	f := g.GenerateGroupFooter(3, info)
	assert.Equal(t, element.KindGroupFooter, f.Kind())
}

func TestReleaseRetained(t *testing.T) {
	g, _, _ := newGenerator(t)
	focused := map[*element.Row]bool{}
	g.MustRetain = func(r *element.Row) bool { return focused[r] }

	a := g.GenerateRow(0, 0, task{ID: 1})
	b := g.GenerateRow(1, 1, task{ID: 2})
	focused[a], focused[b] = true, true
	g.Recycle(a)
	g.Recycle(b)
	assert.Len(t, g.Retained(), 2)

	delete(focused, a)
	assert.Equal(t, 1, g.ReleaseRetained())
	assert.Equal(t, []*element.Row{b}, g.Retained())
	assert.True(t, a.IsRecycled)

	g.DropRetained()
	assert.Empty(t, g.Retained())
}

func TestReindex(t *testing.T) {
	g, _, _ := newGenerator(t)
	g.IsSelected = func(rowIndex int) bool { return rowIndex == 9 }
	row := g.GenerateRow(2, 2, task{ID: 2})
	g.Reindex(row, 9)
	assert.Equal(t, 9, row.Index)
	assert.Equal(t, "10", row.Header)
	assert.True(t, row.IsSelected)
}
