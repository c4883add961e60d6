// Package measure computes element heights. The grid asks a Measurer for
// the height of every element it realizes; nothing else decides layout.
package measure

import (
	"github.com/hnimtadd/gridvirt/grid/element"
)

// Measurer is the layout collaborator that sizes realized elements.
//
//go:generate mockgen -package=mocks -destination=../../internal/mocks/mock_measurer.go github.com/hnimtadd/gridvirt/grid/measure Measurer
type Measurer interface {
	// Measure returns the height of e without its details.
	Measure(e element.Element) float64
	// MeasureDetails returns the height of the details area of a row.
	MeasureDetails(row *element.Row) float64
}

// Fixed gives every element of a kind the same height.
type Fixed struct {
	Row     float64
	Header  float64
	Footer  float64
	Details float64
}

var _ Measurer = Fixed{}

func (f Fixed) Measure(e element.Element) float64 {
	switch e.Kind() {
	case element.KindGroupHeader:
		return f.Header
	case element.KindGroupFooter:
		return f.Footer
	default:
		return f.Row
	}
}

func (f Fixed) MeasureDetails(*element.Row) float64 {
	return f.Details
}

// Func adapts a function to Measurer. Details are measured as zero.
type Func func(e element.Element) float64

func (f Func) Measure(e element.Element) float64 { return f(e) }

func (f Func) MeasureDetails(*element.Row) float64 { return 0 }

// Total is the full height of e: its own height plus its details when
// they are shown.
func Total(m Measurer, e element.Element) (height, details float64) {
	height = m.Measure(e)
	if row, ok := e.(*element.Row); ok && row.DetailsVisible {
		details = m.MeasureDetails(row)
	}
	return height + details, details
}
