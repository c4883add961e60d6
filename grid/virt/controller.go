// Package virt owns the virtualization state of a grid: the slot index,
// the display window, the height estimator, the recycle pools and the
// scroll offsets. It reconciles the estimates of package scroll against
// measured heights.
package virt

import (
	"iter"

	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/core"
	"github.com/hnimtadd/gridvirt/grid/dispatch"
	"github.com/hnimtadd/gridvirt/grid/display"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/estimator"
	"github.com/hnimtadd/gridvirt/grid/group"
	"github.com/hnimtadd/gridvirt/grid/measure"
	"github.com/hnimtadd/gridvirt/grid/metrics"
	"github.com/hnimtadd/gridvirt/grid/recycle"
	"github.com/hnimtadd/gridvirt/grid/rowgen"
	"github.com/hnimtadd/gridvirt/grid/scroll"
	"github.com/hnimtadd/gridvirt/grid/selection"
	"github.com/hnimtadd/gridvirt/grid/slot"
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/hnimtadd/gridvirt/logger"
)

const DefaultLargeJumpFactor = 2.0

type (
	Options struct {
		Estimator estimator.Options

		// Scroll deltas above LargeJumpFactor viewports go through the
		// estimator's offset frame. Zero uses DefaultLargeJumpFactor, a
		// negative value disables jumps.
		LargeJumpFactor float64

		// Pool bounds per element kind, zero is unbounded.
		MaxRecyclable    int
		MaxFullyRecycled int

		// The default mode state. Nil uses core.ModePacked.
		Modes map[core.Mode]bool

		Columns    *column.Set
		Measurer   measure.Measurer
		Metrics    *metrics.Metrics
		Dispatcher *dispatch.Dispatcher
		Logger     logger.Logger
	}

	// Controller is the single owner of every piece of virtualization
	// state. It is not safe for concurrent use; all calls happen on the
	// goroutine that drives the dispatcher.
	Controller struct {
		source    source.DataSource
		itemCount int

		groupKeys []group.KeyFunc
		groups    []*group.Group

		index     *slot.Index
		window    *display.Window
		estimator *estimator.Caching
		pools     *recycle.Pools
		gen       *rowgen.Generator
		selection *selection.Model
		view      heightView

		Modes *core.ModeState

		columns    *column.Set
		measurer   measure.Measurer
		dispatcher *dispatch.Dispatcher

		viewport      float64
		viewportWidth int

		// Pixels of the first displayed slot above the viewport top.
		neg float64
		// Scrolled pixels from the top of the extent, as far as known.
		verticalOffset float64

		largeJumpFactor float64

		// Current cell and the row being edited. Both follow inserts and
		// removals.
		current       *slot.Pin
		currentColumn int
		editing       *element.Row
		editPin       *slot.Pin

		// Set while the focused element is losing focus; key handling is
		// retried on the dispatcher until it clears.
		FocusLossPending bool

		metrics *metrics.Metrics
		logger  logger.Logger
	}
)

var _ element.Owner = (*Controller)(nil)

func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logger.Nop
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.Nop()
	}
	columns := opts.Columns
	if columns == nil {
		columns = column.NewSet()
	}
	d := opts.Dispatcher
	if d == nil {
		d = dispatch.New()
	}
	modes := opts.Modes
	if modes == nil {
		modes = core.ModePacked
	}
	jump := opts.LargeJumpFactor
	if jump == 0 {
		jump = DefaultLargeJumpFactor
	}

	c := &Controller{
		index:           slot.NewIndex(0),
		pools:           recycle.NewPools(opts.MaxRecyclable, opts.MaxFullyRecycled),
		selection:       selection.New(0),
		Modes:           core.NewModeState(modes, modes),
		columns:         columns,
		measurer:        opts.Measurer,
		dispatcher:      d,
		largeJumpFactor: jump,
		metrics:         m,
		logger:          log,
	}
	c.window = display.NewWindow(c.index)
	c.estimator = estimator.NewCaching(c.index, opts.Estimator)
	c.estimator.SetDetailsVisible(c.Modes.Get(core.ModeRowDetailsVisible))
	if c.measurer == nil {
		h := c.estimator.EstimatedHeight(element.KindDataRow, 0)
		c.measurer = measure.Fixed{Row: h, Header: h, Footer: h}
	}
	c.view = heightView{c}

	c.gen = rowgen.New(c.pools, columns, c, m, log)
	c.gen.IsSelected = c.selection.IsSelected
	c.gen.MustRetain = c.mustRetain
	c.gen.DetailsVisible = func(*element.Row) bool {
		return c.Modes.Get(core.ModeRowDetailsVisible)
	}
	return c
}

// ColumnCount is what realized elements query through their owner.
func (c *Controller) ColumnCount() int { return c.columns.Count() }

func (c *Controller) Columns() *column.Set { return c.columns }

func (c *Controller) Index() *slot.Index { return c.index }

func (c *Controller) Generator() *rowgen.Generator { return c.gen }

func (c *Controller) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }

func (c *Controller) Source() source.DataSource { return c.source }

func (c *Controller) Groups() []*group.Group { return c.groups }

func (c *Controller) FirstScrollingSlot() int { return c.window.FirstScrollingSlot() }

func (c *Controller) LastScrollingSlot() int { return c.window.LastScrollingSlot() }

func (c *Controller) NumDisplayedScrollingElements() int {
	return c.window.NumDisplayedScrollingElements()
}

func (c *Controller) NumTotallyDisplayedScrollingElements() int {
	return c.window.NumTotallyDisplayedScrollingElements()
}

func (c *Controller) NegVerticalOffset() float64 { return c.neg }

func (c *Controller) VerticalOffset() float64 { return c.verticalOffset }

func (c *Controller) Viewport() float64 { return c.viewport }

// ExtentHeight is the estimated height of every visible slot.
func (c *Controller) ExtentHeight() float64 { return c.estimator.TotalHeight() }

func (c *Controller) Confidence() estimator.Confidence { return c.estimator.Confidence() }

// DisplayedElements yields the realized elements in slot order.
func (c *Controller) DisplayedElements() iter.Seq[element.Element] {
	return c.window.Elements()
}

// DisplayedElement returns the element realized for slot.
func (c *Controller) DisplayedElement(slot int) (element.Element, bool) {
	return c.window.TryDisplayedElement(slot)
}

// RowCount is the number of data rows, the new-item placeholder included.
func (c *Controller) RowCount() int {
	if c.hasPlaceholder() {
		return c.itemCount + 1
	}
	return c.itemCount
}

func (c *Controller) hasPlaceholder() bool {
	return c.source != nil &&
		c.Modes.Get(core.ModeCanUserAddRows) && !c.Modes.Get(core.ModeReadOnly)
}

func (c *Controller) itemAt(rowIndex int) any {
	if rowIndex >= c.itemCount {
		return source.Placeholder
	}
	return c.source.Item(rowIndex)
}

// position is the scroll state in the form package scroll reads.
func (c *Controller) position() scroll.Position {
	return scroll.Position{
		FirstSlot:      c.window.FirstScrollingSlot(),
		NegOffset:      c.neg,
		VerticalOffset: c.verticalOffset,
	}
}

// heightView exposes the best known slot heights to package scroll.
type heightView struct{ c *Controller }

var _ scroll.HeightView = heightView{}

func (v heightView) SlotCount() int { return v.c.index.SlotCount() }

func (v heightView) NextVisibleSlot(slot int) int { return v.c.index.NextVisibleSlot(slot) }

func (v heightView) PreviousVisibleSlot(slot int) int { return v.c.index.PreviousVisibleSlot(slot) }

func (v heightView) SlotHeight(slot int) float64 { return v.c.slotHeight(slot) }

func (v heightView) OffsetToSlot(slot int) float64 { return v.c.estimator.OffsetToSlot(slot) }

func (v heightView) EstimateSlotAtOffset(offset float64) int {
	return v.c.estimator.EstimateSlotAtOffset(offset)
}

// slotHeight is the measured height of a displayed slot, else its cached
// height, else the estimate for its kind.
func (c *Controller) slotHeight(s int) float64 {
	if e, ok := c.window.TryDisplayedElement(s); ok && e.Common().IsMeasured() {
		return e.Common().Height()
	}
	if h, ok := c.estimator.MeasuredHeight(s); ok {
		return h
	}
	return c.estimator.EstimatedHeight(c.index.Kind(s), c.index.GroupLevel(s))
}
