package virt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/core"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/measure"
	"github.com/hnimtadd/gridvirt/grid/metrics"
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/hnimtadd/gridvirt/internal/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type item struct {
	ID     int
	Region string
}

func items(n int) *source.Slice[item] {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: i, Region: fmt.Sprintf("r%d", i/20)}
	}
	return source.NewSlice(out...)
}

var uniform = measure.Fixed{Row: 22, Header: 22, Footer: 22}

func newController(t *testing.T, src source.DataSource, opts Options) (*Controller, *metrics.Metrics) {
	t.Helper()
	if opts.Measurer == nil {
		opts.Measurer = uniform
	}
	m := metrics.New(prometheus.NewRegistry())
	opts.Metrics = m
	c := NewController(opts)
	assert.NoError(t, c.SetSource(src))
	return c, m
}

func rowAt(t *testing.T, c *Controller, slot int) *element.Row {
	t.Helper()
	e, ok := c.DisplayedElement(slot)
	if !assert.True(t, ok, "slot %d is not displayed", slot) {
		t.FailNow()
	}
	return e.(*element.Row)
}

func TestUpdateDisplayedRows_FillsViewport(t *testing.T) {
	c, m := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.Equal(t, 0, c.FirstScrollingSlot())
	assert.Equal(t, 19, c.LastScrollingSlot())
	assert.Equal(t, 20, c.NumDisplayedScrollingElements())
	assert.Equal(t, 20, c.NumTotallyDisplayedScrollingElements())
	assert.Equal(t, 0.0, c.VerticalOffset())
	assert.Equal(t, 20.0, testutil.ToFloat64(m.RowsGenerated.WithLabelValues("new")))

	row := rowAt(t, c, 7)
	assert.Equal(t, 7, row.Index)
	assert.Equal(t, "8", row.Header)
	assert.Equal(t, item{ID: 7, Region: "r0"}, row.DataContext)
}

func TestUpdateDisplayedRows_Idempotent(t *testing.T) {
	c, _ := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)
	c.UpdateScroll(30)

	first := c.FirstScrollingSlot()
	c.UpdateDisplayedRows(first, 440)
	want := c.Snapshot()
	c.UpdateDisplayedRows(first, 440)
	assert.Equal(t, want, c.Snapshot())
	assert.Equal(t, 1, want.FirstSlot)
	assert.Equal(t, 8.0, want.NegOffset)
}

func TestUpdateDisplayedRows_ShrinkRecyclesTail(t *testing.T) {
	c, _ := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)
	c.UpdateDisplayedRows(0, 220)

	assert.Equal(t, 10, c.NumDisplayedScrollingElements())
	s := c.Snapshot()
	assert.Equal(t, 10, s.Recyclable)
	assert.Equal(t, 0, s.FullyRecycled)

	c.Dispatcher().RunPending()
	s = c.Snapshot()
	assert.Equal(t, 0, s.Recyclable)
	assert.Equal(t, 10, s.FullyRecycled)
}

func TestUpdateScroll_LargeUniformJump(t *testing.T) {
	c, m := newController(t, items(100_000), Options{})
	c.UpdateDisplayedRows(0, 440)
	assert.True(t, c.Confidence().High)

	assert.True(t, c.UpdateScroll(2200))
	assert.InDelta(t, 100, c.FirstScrollingSlot(), 2)
	assert.GreaterOrEqual(t, c.NegVerticalOffset(), 0.0)
	assert.Less(t, c.NegVerticalOffset(), 22.0)
	assert.InDelta(t, 2200, c.VerticalOffset(), 22)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scrolls.WithLabelValues("jump")))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.RowsGenerated.WithLabelValues("pool")),
		"every row of the old window is reused")
}

func TestUpdateScroll_SmallDeltaWalks(t *testing.T) {
	c, m := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.UpdateScroll(30))
	assert.Equal(t, 1, c.FirstScrollingSlot())
	assert.Equal(t, 8.0, c.NegVerticalOffset())
	assert.Equal(t, 30.0, c.VerticalOffset())
	assert.Equal(t, 21, c.LastScrollingSlot())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scrolls.WithLabelValues("walk")))
}

func TestUpdateScroll_SnapsToTop(t *testing.T) {
	c, _ := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)
	c.UpdateScroll(30)

	assert.True(t, c.UpdateScroll(-100))
	assert.Equal(t, 0, c.FirstScrollingSlot())
	assert.Equal(t, 0.0, c.NegVerticalOffset())
	assert.Equal(t, 0.0, c.VerticalOffset())
	assert.False(t, c.UpdateScroll(-100), "already at the top")
}

func TestUpdateScroll_SnapsToBottom(t *testing.T) {
	c, _ := newController(t, items(100), Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.ScrollToVerticalOffset(1e9))
	assert.Equal(t, 80, c.FirstScrollingSlot())
	assert.Equal(t, 99, c.LastScrollingSlot())
	assert.Equal(t, 0.0, c.NegVerticalOffset())
	assert.Equal(t, 1760.0, c.VerticalOffset())

	assert.False(t, c.UpdateScroll(100), "nothing below the last row")
	assert.Equal(t, 80, c.FirstScrollingSlot())
	assert.Equal(t, 0.0, c.NegVerticalOffset())
	assert.Equal(t, 1760.0, c.VerticalOffset())
}

func TestUpdateScroll_TallRowKeepsOffsetInvariant(t *testing.T) {
	tall := measure.Func(func(e element.Element) float64 {
		if r, ok := e.(*element.Row); ok && r.Index == 50 {
			return 220
		}
		return 22
	})
	c, _ := newController(t, items(1000), Options{Measurer: tall})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.ScrollSlotIntoView(-1, 50, false))
	assert.Equal(t, 50, c.LastScrollingSlot())
	assert.Equal(t, 40, c.FirstScrollingSlot())
	assert.GreaterOrEqual(t, c.VerticalOffset(), c.NegVerticalOffset())

	top := c.estimator.OffsetToSlot(50)
	c.ScrollToVerticalOffset(top)
	assert.Equal(t, 50, c.FirstScrollingSlot())
	assert.Equal(t, 0.0, c.NegVerticalOffset())
	assert.InDelta(t, top, c.VerticalOffset(), 1e-6)

	c.UpdateScroll(100)
	assert.Equal(t, 50, c.FirstScrollingSlot(), "still inside the tall row")
	assert.Equal(t, 100.0, c.NegVerticalOffset())
	assert.GreaterOrEqual(t, c.VerticalOffset(), c.NegVerticalOffset())

	c.UpdateScroll(-150)
	assert.Equal(t, 47, c.FirstScrollingSlot())
	assert.Equal(t, 16.0, c.NegVerticalOffset())
	assert.GreaterOrEqual(t, c.VerticalOffset(), c.NegVerticalOffset())
}

func TestScrollSlotIntoView(t *testing.T) {
	c, _ := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)
	c.UpdateScroll(2200)
	assert.Equal(t, 100, c.FirstScrollingSlot())

	// Near and above: walks up and aligns to the top.
	assert.True(t, c.ScrollSlotIntoView(-1, 95, false))
	assert.Equal(t, 95, c.FirstScrollingSlot())
	assert.Equal(t, 0.0, c.NegVerticalOffset())
	assert.Equal(t, 114, c.LastScrollingSlot())

	// Far above: jumps.
	assert.True(t, c.ScrollSlotIntoView(-1, 10, false))
	assert.Equal(t, 10, c.FirstScrollingSlot())
	assert.Equal(t, 220.0, c.VerticalOffset())

	// Just below: aligns to the bottom.
	assert.True(t, c.ScrollSlotIntoView(-1, 30, false))
	assert.Equal(t, 11, c.FirstScrollingSlot())
	assert.Equal(t, 30, c.LastScrollingSlot())

	// Already fully displayed: nothing moves.
	assert.True(t, c.ScrollSlotIntoView(-1, 20, false))
	assert.Equal(t, 11, c.FirstScrollingSlot())

	// Far below.
	assert.True(t, c.ScrollSlotIntoView(-1, 500, false))
	assert.Equal(t, 481, c.FirstScrollingSlot())
	assert.Equal(t, 500, c.LastScrollingSlot())

	assert.False(t, c.ScrollSlotIntoView(-1, 5000, false), "unknown slot")
}

func TestScrollSlotIntoView_ScrollsColumn(t *testing.T) {
	cols := column.NewSet(
		column.Column{Header: "a", Width: 10},
		column.Column{Header: "b", Width: 10},
		column.Column{Header: "c", Width: 10},
	)
	c, _ := newController(t, items(100), Options{Columns: cols})
	c.SetViewportWidth(15)
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.ScrollSlotIntoView(2, 3, false))
	assert.Equal(t, 15, cols.HorizontalOffset())
	assert.Len(t, rowAt(t, c, 3).Cells, 3)
}

func TestRandomScrollsKeepInvariants(t *testing.T) {
	varied := measure.Func(func(e element.Element) float64 {
		if r, ok := e.(*element.Row); ok {
			return float64(10 + (r.Index*37)%90)
		}
		return 22
	})
	c, _ := newController(t, items(2000), Options{Measurer: varied})
	c.UpdateDisplayedRows(0, 440)

	rng := rand.New(rand.NewPCG(7, 11))
	for i := range 300 {
		switch rng.IntN(3) {
		case 0:
			c.UpdateScroll(float64(rng.IntN(6000) - 3000))
		case 1:
			c.ScrollToVerticalOffset(rng.Float64() * c.ExtentHeight())
		case 2:
			s := rng.IntN(2000)
			assert.True(t, c.ScrollSlotIntoView(-1, s, false), "step %d slot %d", i, s)
		}
		first, ok := c.DisplayedElement(c.FirstScrollingSlot())
		assert.True(t, ok)
		assert.Less(t, c.NegVerticalOffset(), first.Common().Height(), "step %d", i)
		assert.GreaterOrEqual(t, c.VerticalOffset(), c.NegVerticalOffset(), "step %d", i)
		assert.True(t, c.window.IsContiguous(), "step %d", i)
		if c.FirstScrollingSlot() == 0 {
			assert.Equal(t, c.NegVerticalOffset(), c.VerticalOffset(), "step %d", i)
		}
	}
}

func TestSetSource_Errors(t *testing.T) {
	c := NewController(Options{})
	assert.ErrorIs(t, c.SetSource(nil), ErrNoSource)
	assert.ErrorIs(t, c.OnSourceChanged(source.Change{Kind: source.ChangeReset}), ErrNoSource)

	ctrl := gomock.NewController(t)
	bad := mocks.NewMockDataSource(ctrl)
	bad.EXPECT().Count().Return(-1).AnyTimes()
	assert.ErrorIs(t, c.SetSource(bad), source.ErrMalformed)
}

func TestController_WithMockCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockDataSource(ctrl)
	src.EXPECT().Count().Return(1000).AnyTimes()
	src.EXPECT().Item(gomock.Any()).DoAndReturn(func(index int) any { return index }).AnyTimes()

	m := mocks.NewMockMeasurer(ctrl)
	m.EXPECT().Measure(gomock.Any()).Return(30.0).MinTimes(10)

	c := NewController(Options{Measurer: m})
	assert.NoError(t, c.SetSource(src))
	c.UpdateDisplayedRows(0, 300)

	assert.Equal(t, 10, c.NumDisplayedScrollingElements())
	assert.Equal(t, 9, rowAt(t, c, 9).DataContext)
}

func TestNavigation(t *testing.T) {
	c, _ := newController(t, items(100), Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.MoveCurrent(NavDown))
	assert.Equal(t, 1, c.CurrentSlot())

	assert.True(t, c.MoveCurrent(NavPageDown))
	assert.Equal(t, 21, c.CurrentSlot())
	assert.Equal(t, 21, c.LastScrollingSlot())
	assert.Equal(t, 2, c.FirstScrollingSlot())

	assert.True(t, c.MoveCurrent(NavEnd))
	assert.Equal(t, 99, c.CurrentSlot())
	assert.Equal(t, 99, c.LastScrollingSlot())

	assert.True(t, c.MoveCurrent(NavHome))
	assert.Equal(t, 0, c.CurrentSlot())
	assert.Equal(t, 0, c.FirstScrollingSlot())
	assert.False(t, c.MoveCurrent(NavUp))

	cell, ok := c.CurrentCell()
	assert.True(t, ok)
	assert.Equal(t, 0, cell.Y)
}

func TestEditingRowIsRetained(t *testing.T) {
	c, _ := newController(t, items(1000), Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.BeginEdit(3))
	editing := rowAt(t, c, 3)
	assert.True(t, editing.IsEditing)
	assert.False(t, c.BeginEdit(4), "one row edits at a time")

	c.ScrollToVerticalOffset(22 * 500)
	assert.False(t, c.window.Contains(3))
	assert.Equal(t, []*element.Row{editing}, c.Generator().Retained())

	c.ScrollToVerticalOffset(0)
	assert.Same(t, editing, rowAt(t, c, 3), "the retained row comes back")
	assert.Empty(t, c.Generator().Retained())

	assert.True(t, c.CommitEdit())
	assert.False(t, editing.IsEditing)
	assert.False(t, c.CommitEdit())
}

func TestEditingRowIsRetained_DuplicateItems(t *testing.T) {
	same := make([]string, 200)
	for i := range same {
		same[i] = "same"
	}
	c, _ := newController(t, source.NewSlice(same...), Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.BeginEdit(2))
	editing := rowAt(t, c, 2)

	c.UpdateScroll(2200)
	assert.False(t, c.window.Contains(2))
	for e := range c.DisplayedElements() {
		row := e.(*element.Row)
		assert.False(t, row.IsEditing, "row %d", row.Index)
		assert.NotSame(t, editing, row, "row %d", row.Index)
	}
	assert.Equal(t, []*element.Row{editing}, c.Generator().Retained(),
		"equal items on other rows are not kept off the pools")
	assert.Equal(t, 2, c.EditingRow().Index)

	c.ScrollToVerticalOffset(0)
	assert.Same(t, editing, rowAt(t, c, 2))
	assert.False(t, rowAt(t, c, 0).IsEditing)
	assert.False(t, rowAt(t, c, 1).IsEditing)
	assert.Empty(t, c.Generator().Retained())
}

func TestEditingRowFollowsInsertAbove(t *testing.T) {
	src := items(1000)
	c, _ := newController(t, src, Options{})
	c.UpdateDisplayedRows(0, 440)

	assert.True(t, c.BeginEdit(3))
	editing := rowAt(t, c, 3)
	c.ScrollToVerticalOffset(22 * 500)
	assert.NoError(t, c.OnSourceChanged(src.Insert(0, item{ID: -1})))
	assert.Equal(t, 4, editing.Index)

	c.ScrollToVerticalOffset(0)
	assert.Same(t, editing, rowAt(t, c, 4))
	assert.True(t, editing.IsEditing)
}

func TestBeginEdit_ReadOnly(t *testing.T) {
	c, _ := newController(t, items(10), Options{})
	c.UpdateDisplayedRows(0, 440)
	c.SetMode(core.ModeReadOnly, true)
	assert.False(t, c.BeginEdit(2))
}

func TestSelection(t *testing.T) {
	c, _ := newController(t, items(100), Options{})
	c.UpdateDisplayedRows(0, 440)

	c.SelectSlots(2, 4, true)
	assert.Equal(t, []int{2, 3, 4}, c.SelectedRows())
	assert.True(t, rowAt(t, c, 3).IsSelected)
	assert.True(t, c.RowSelectionFromRowIndex(4))
	assert.False(t, c.RowSelectionFromRowIndex(5))

	assert.True(t, c.SetRowSelection(4, false))
	assert.False(t, rowAt(t, c, 4).IsSelected)

	// Selection follows the rows, not the elements.
	c.ScrollToVerticalOffset(22 * 50)
	c.ScrollToVerticalOffset(0)
	assert.True(t, rowAt(t, c, 2).IsSelected)
	assert.False(t, rowAt(t, c, 5).IsSelected)

	c.ClearSelection()
	assert.Empty(t, c.SelectedRows())
}

func TestDetailsModeWalksInsteadOfJumping(t *testing.T) {
	c, m := newController(t, items(1000), Options{
		Measurer: measure.Fixed{Row: 22, Header: 22, Footer: 22, Details: 40},
	})
	c.SetMode(core.ModeRowDetailsVisible, true)
	c.UpdateDisplayedRows(0, 440)
	assert.Equal(t, 62.0, rowAt(t, c, 0).Height())
	assert.Equal(t, 8, c.NumDisplayedScrollingElements())

	c.UpdateScroll(5000)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Scrolls.WithLabelValues("jump")))
	assert.Equal(t, 80, c.FirstScrollingSlot())
	assert.Equal(t, 40.0, c.NegVerticalOffset())
}

func TestOnSourceChanged_InvalidChange(t *testing.T) {
	src := items(50)
	c, m := newController(t, src, Options{})
	c.UpdateDisplayedRows(0, 440)

	err := c.OnSourceChanged(source.Change{Kind: source.ChangeAdd, Index: -1, Count: 1})
	assert.ErrorIs(t, err, ErrInvalidChange)

	// The source did not grow: the grid resyncs and reports it.
	err = c.OnSourceChanged(source.Change{Kind: source.ChangeAdd, Index: 0, Count: 5})
	assert.True(t, errors.Is(err, ErrInvalidChange))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recoveries))
	assert.Equal(t, 50, c.RowCount())
	assert.Equal(t, 0, c.FirstScrollingSlot())
}

func TestRecoveryFromStaleWindow(t *testing.T) {
	c, m := newController(t, items(60), Options{})
	c.SetGroups(func(v any) any { return v.(item).Region })
	c.UpdateDisplayedRows(0, 440)

	// Collapse behind the controller's back.
	info, _ := c.Index().GroupInfoFor(c.Groups()[0])
	c.Index().CollapseSlots(info)

	c.UpdateDisplayedRows(0, 440)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recoveries))
	assert.True(t, c.window.IsContiguous())
	assert.Equal(t, 21, c.Index().NextVisibleSlot(0))
	assert.True(t, c.window.Contains(21))
}
