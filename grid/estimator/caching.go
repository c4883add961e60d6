package estimator

import (
	"sort"

	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// Caching remembers the exact height of every slot it was told about and
// estimates the rest with running means. Offsets are the sum of the cached
// heights before a slot plus the estimate for the uncached visible slots,
// so they converge to exact values as rows get measured.
type Caching struct {
	opts   Options
	layout Layout

	heights *datastruct.IndexTable[float64]

	// Lazily rebuilt view of heights for offset queries. nil when stale.
	spans  []datastruct.Range[float64]
	sums   []float64
	counts []int

	rows            mean
	rowsWithDetails mean
	details         mean
	headers         map[int]*mean
	footers         map[int]*mean

	window         *recent
	detailsVisible bool
}

var _ Estimator = (*Caching)(nil)

func NewCaching(layout Layout, opts Options) *Caching {
	e := &Caching{
		opts:    opts.withDefaults(),
		layout:  layout,
		heights: datastruct.NewIndexTable[float64](),
	}
	e.ResetAll()
	return e
}

// ResetAll forgets everything, averages included. Used when the source is
// replaced.
func (e *Caching) ResetAll() {
	e.heights.Clear()
	e.invalidate()
	e.rows = mean{hint: e.opts.RowHeightHint}
	e.rowsWithDetails = mean{}
	e.details = mean{hint: e.opts.DetailsHeightHint}
	e.headers = make(map[int]*mean)
	e.footers = make(map[int]*mean)
	e.window = newRecent(e.opts.Window)
}

func (e *Caching) Reset() {
	e.heights.Clear()
	e.invalidate()
}

func (e *Caching) invalidate() {
	e.spans = nil
}

func (e *Caching) SetDetailsVisible(visible bool) {
	if e.detailsVisible == visible {
		return
	}
	e.detailsVisible = visible
	// The cached row heights include or exclude details; neither is right
	// any more.
	e.Reset()
	e.window.reset()
}

func (e *Caching) levelMean(means map[int]*mean, level int, hint float64) *mean {
	m, ok := means[level]
	if !ok {
		m = &mean{hint: hint}
		means[level] = m
	}
	return m
}

func (e *Caching) meanFor(kind element.Kind, level int) *mean {
	switch kind {
	case element.KindGroupHeader:
		return e.levelMean(e.headers, level, e.opts.HeaderHeightHint)
	case element.KindGroupFooter:
		return e.levelMean(e.footers, level, e.opts.FooterHeightHint)
	default:
		if e.detailsVisible {
			return &e.rowsWithDetails
		}
		return &e.rows
	}
}

func (e *Caching) RecordMeasuredHeight(slot int, kind element.Kind, level int, height float64) {
	utils.Assert(slot >= 0, "negative slot")
	if height < 0 {
		height = 0
	}
	m := e.meanFor(kind, level)
	if prev, ok := e.heights.ValueAt(slot); ok {
		if utils.AreClose(prev, height) {
			return
		}
		m.replace(prev, height)
	} else {
		m.add(height)
	}
	if kind == element.KindDataRow {
		e.window.add(height)
	}
	e.heights.AddValue(slot, height)
	e.invalidate()
}

func (e *Caching) RecordRowGroupHeaderHeight(slot, level int, height float64) {
	e.RecordMeasuredHeight(slot, element.KindGroupHeader, level, height)
}

func (e *Caching) RecordDetailsHeight(height float64) {
	e.details.add(height)
}

func (e *Caching) EstimatedHeight(kind element.Kind, level int) float64 {
	if kind != element.KindDataRow {
		return e.meanFor(kind, level).value()
	}
	if !e.detailsVisible {
		return e.rows.value()
	}
	if e.rowsWithDetails.count > 0 {
		return e.rowsWithDetails.value()
	}
	return e.rows.value() + e.details.value()
}

func (e *Caching) MeasuredHeight(slot int) (float64, bool) {
	return e.heights.ValueAt(slot)
}

// MeasuredCount is the number of slots with a cached height.
func (e *Caching) MeasuredCount() int {
	return e.heights.IndexCount()
}

func (e *Caching) ensureSpans() {
	if e.spans != nil {
		return
	}
	e.spans = make([]datastruct.Range[float64], 0, e.heights.RangeCount())
	for r := range e.heights.Ranges() {
		e.spans = append(e.spans, r)
	}
	e.sums = make([]float64, len(e.spans)+1)
	e.counts = make([]int, len(e.spans)+1)
	for i, r := range e.spans {
		e.sums[i+1] = e.sums[i] + r.Value*float64(r.Count())
		e.counts[i+1] = e.counts[i] + r.Count()
	}
}

// measuredBelow returns the sum and the number of cached heights of slots
// lower than slot.
func (e *Caching) measuredBelow(slot int) (float64, int) {
	e.ensureSpans()
	i := sort.Search(len(e.spans), func(i int) bool {
		return e.spans[i].Upper >= slot
	})
	sum, count := e.sums[i], e.counts[i]
	if i < len(e.spans) && e.spans[i].Lower < slot {
		k := slot - e.spans[i].Lower
		sum += e.spans[i].Value * float64(k)
		count += k
	}
	return sum, count
}

// visibleMeasuredBelow is measuredBelow without the cached heights of
// collapsed slots, which stay cached for when their group expands.
func (e *Caching) visibleMeasuredBelow(slot int) (float64, int) {
	sum, count := e.measuredBelow(slot)
	for r := range e.layout.CollapsedRanges() {
		if r.Lower >= slot {
			break
		}
		hiSum, hiCount := e.measuredBelow(min(r.Upper+1, slot))
		loSum, loCount := e.measuredBelow(r.Lower)
		sum -= hiSum - loSum
		count -= hiCount - loCount
	}
	return sum, count
}

// OffsetToSlot estimates unmeasured slots of every kind with the data row
// estimate; decorations are few and get measured as they are realized.
func (e *Caching) OffsetToSlot(slot int) float64 {
	slot = utils.Clamp(slot, 0, e.layout.SlotCount())
	if slot == 0 {
		return 0
	}
	visible := slot - e.layout.CollapsedSlotCount(0, slot-1)
	sum, measured := e.visibleMeasuredBelow(slot)
	unmeasured := max(visible-measured, 0)
	return sum + float64(unmeasured)*e.EstimatedHeight(element.KindDataRow, 0)
}

func (e *Caching) EstimateSlotAtOffset(offset float64) int {
	n := e.layout.SlotCount()
	if n == 0 || offset <= 0 {
		return 0
	}
	// First slot whose top is below offset; the one before it spans offset.
	s := sort.Search(n+1, func(s int) bool {
		return e.OffsetToSlot(s) > offset
	})
	return utils.Clamp(s-1, 0, n-1)
}

func (e *Caching) TotalHeight() float64 {
	return e.OffsetToSlot(e.layout.SlotCount())
}

func (e *Caching) OnItemsInserted(slot, count int) {
	e.heights.InsertIndexes(slot, count)
	e.invalidate()
}

func (e *Caching) OnItemsRemoved(slot, count int) {
	e.heights.RemoveIndexes(slot, count)
	e.invalidate()
}

func (e *Caching) ForgetRange(lo, hi int) {
	if hi < lo {
		return
	}
	e.heights.RemoveValues(lo, hi-lo+1)
	e.invalidate()
}

func (e *Caching) Confidence() Confidence {
	avg, lo, hi := e.window.stats()
	c := Confidence{
		Samples:  e.window.len(),
		Estimate: e.EstimatedHeight(element.KindDataRow, 0),
		Mean:     avg,
		Min:      lo,
		Max:      hi,
	}
	if c.Samples < e.opts.MinSamples || !utils.GreaterThan(avg, 0) {
		return c
	}
	relErr := (c.Estimate - avg) / avg
	if relErr < 0 {
		relErr = -relErr
	}
	c.High = relErr < e.opts.MaxRelativeError && (hi-lo)/avg < e.opts.MaxRelativeSpread
	return c
}
