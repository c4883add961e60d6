package slot

import (
	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// Pin is a tracked slot position (current cell, selection anchor). Tracked
// pins are shifted by row inserts and removals. A pin whose slot was
// removed becomes invalid; resolving it is a soft miss for the caller.
type Pin struct {
	Slot  int
	Valid bool
}

// TrackPin starts tracking slot.
func (x *Index) TrackPin(slot int) *Pin {
	tracked := &Pin{Slot: slot, Valid: slot >= 0}
	x.pins.Append(&datastruct.Node[*Pin]{Data: tracked})
	return tracked
}

func (x *Index) UntrackPin(pin *Pin) {
	node := x.pins.Search(pin)
	if node == nil {
		return
	}
	x.pins.Remove(node)
}

func (x *Index) shiftPins(from, delta int) {
	for p := range x.pins.All() {
		if p.Valid && p.Slot >= from {
			p.Slot += delta
		}
	}
}

func (x *Index) removePins(slot, count int) {
	utils.Assert(count > 0)
	for p := range x.pins.All() {
		if !p.Valid {
			continue
		}
		switch {
		case p.Slot >= slot+count:
			p.Slot -= count
		case p.Slot >= slot:
			p.Valid = false
			p.Slot = -1
		}
	}
}
