// Package estimator predicts the height of slots that were never measured,
// so the scroll engine can map between slots and pixel offsets without
// realizing every row.
package estimator

import (
	"iter"

	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/hnimtadd/gridvirt/grid/element"
)

// Layout is the part of the slot index the estimator reads.
type Layout interface {
	SlotCount() int
	// CollapsedSlotCount returns the number of collapsed slots in [lo, hi].
	CollapsedSlotCount(lo, hi int) int
	// CollapsedRanges yields the collapsed slot ranges in ascending order.
	CollapsedRanges() iter.Seq[datastruct.Range[bool]]
}

// Estimator is the contract between the scroll engine and a height model.
type Estimator interface {
	// RecordMeasuredHeight feeds the exact height of a realized slot.
	RecordMeasuredHeight(slot int, kind element.Kind, level int, height float64)
	RecordRowGroupHeaderHeight(slot, level int, height float64)
	RecordDetailsHeight(height float64)

	// EstimatedHeight is the predicted height of a slot of the given kind
	// that has never been measured.
	EstimatedHeight(kind element.Kind, level int) float64
	// MeasuredHeight returns the cached exact height of slot.
	MeasuredHeight(slot int) (float64, bool)

	// OffsetToSlot is the estimated distance from the top of slot 0 to the
	// top of slot. Collapsed slots take no space.
	OffsetToSlot(slot int) float64
	// EstimateSlotAtOffset is the slot whose estimated span holds offset,
	// clamped to the slot range. It is monotone in offset.
	EstimateSlotAtOffset(offset float64) int
	TotalHeight() float64

	OnItemsInserted(slot, count int)
	OnItemsRemoved(slot, count int)
	// ForgetRange drops cached heights for [lo, hi], used when the slots
	// collapse.
	ForgetRange(lo, hi int)
	// Reset drops every per-slot height and keeps the averages.
	Reset()

	Confidence() Confidence
	SetDetailsVisible(visible bool)
}

// Confidence describes how much the scroll engine may trust estimates for
// large jumps.
type Confidence struct {
	Samples  int
	Estimate float64
	Mean     float64
	Min      float64
	Max      float64
	High     bool
}

// Options tunes the estimator. Zero fields fall back to DefaultOptions.
type Options struct {
	RowHeightHint     float64
	HeaderHeightHint  float64
	FooterHeightHint  float64
	DetailsHeightHint float64

	// Estimates are trusted for large jumps when the recent mean is within
	// MaxRelativeError of the estimate and the recent spread is below
	// MaxRelativeSpread of the mean, over at least MinSamples measurements.
	MaxRelativeError  float64
	MaxRelativeSpread float64
	MinSamples        int
	Window            int
}

func DefaultOptions() Options {
	return Options{
		RowHeightHint:     22,
		HeaderHeightHint:  22,
		FooterHeightHint:  22,
		DetailsHeightHint: 0,
		MaxRelativeError:  0.35,
		MaxRelativeSpread: 1.5,
		MinSamples:        8,
		Window:            32,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.RowHeightHint <= 0 {
		o.RowHeightHint = def.RowHeightHint
	}
	if o.HeaderHeightHint <= 0 {
		o.HeaderHeightHint = o.RowHeightHint
	}
	if o.FooterHeightHint <= 0 {
		o.FooterHeightHint = o.RowHeightHint
	}
	if o.DetailsHeightHint < 0 {
		o.DetailsHeightHint = 0
	}
	if o.MaxRelativeError <= 0 {
		o.MaxRelativeError = def.MaxRelativeError
	}
	if o.MaxRelativeSpread <= 0 {
		o.MaxRelativeSpread = def.MaxRelativeSpread
	}
	if o.MinSamples <= 0 {
		o.MinSamples = def.MinSamples
	}
	if o.Window < o.MinSamples {
		o.Window = max(def.Window, o.MinSamples)
	}
	return o
}
