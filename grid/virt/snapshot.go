package virt

import "fmt"

// Snapshot is a copy of the scroll and window state for logging, metrics
// and status lines.
type Snapshot struct {
	FirstSlot        int
	LastSlot         int
	Displayed        int
	TotallyDisplayed int
	SlotCount        int
	RowCount         int

	NegOffset      float64
	VerticalOffset float64
	Viewport       float64
	Extent         float64

	EstimatedRowHeight float64
	Confident          bool

	Recyclable     int
	FullyRecycled  int
	Retained       int
	SelectedRows   int
	HorizontalLeft int
}

func (s Snapshot) String() string {
	return fmt.Sprintf("slots %d-%d/%d (%d shown, %d whole) offset %.0f/%.0f neg %.1f est %.1f",
		s.FirstSlot, s.LastSlot, s.SlotCount, s.Displayed, s.TotallyDisplayed,
		s.VerticalOffset, s.Extent, s.NegOffset, s.EstimatedRowHeight)
}

func (c *Controller) Snapshot() Snapshot {
	conf := c.estimator.Confidence()
	rec, fully := c.pools.Len()
	return Snapshot{
		FirstSlot:          c.window.FirstScrollingSlot(),
		LastSlot:           c.window.LastScrollingSlot(),
		Displayed:          c.window.NumDisplayedScrollingElements(),
		TotallyDisplayed:   c.window.NumTotallyDisplayedScrollingElements(),
		SlotCount:          c.index.SlotCount(),
		RowCount:           c.RowCount(),
		NegOffset:          c.neg,
		VerticalOffset:     c.verticalOffset,
		Viewport:           c.viewport,
		Extent:             c.ExtentHeight(),
		EstimatedRowHeight: conf.Estimate,
		Confident:          conf.High,
		Recyclable:         rec,
		FullyRecycled:      fully,
		Retained:           len(c.gen.Retained()),
		SelectedRows:       c.selection.Count(),
		HorizontalLeft:     c.columns.HorizontalOffset(),
	}
}
