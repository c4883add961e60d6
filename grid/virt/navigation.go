package virt

// Navigation is a keyboard move of the current cell.
type Navigation int

const (
	NavUp Navigation = iota
	NavDown
	NavPageUp
	NavPageDown
	NavHome
	NavEnd
)

func (n Navigation) String() string {
	switch n {
	case NavUp:
		return "up"
	case NavDown:
		return "down"
	case NavPageUp:
		return "page_up"
	case NavPageDown:
		return "page_down"
	case NavHome:
		return "home"
	case NavEnd:
		return "end"
	default:
		return "unknown"
	}
}

// MoveCurrent moves the current cell over the visible slots and scrolls it
// into view. Without a current cell the move starts at the first displayed
// slot. It reports whether the current cell moved.
func (c *Controller) MoveCurrent(nav Navigation) bool {
	from := c.CurrentSlot()
	if from < 0 {
		from = c.window.FirstScrollingSlot()
	}
	if from < 0 {
		return false
	}

	to := -1
	switch nav {
	case NavUp:
		to = c.index.PreviousVisibleSlot(from)
	case NavDown:
		to = c.index.NextVisibleSlot(from)
	case NavPageUp:
		to = c.pageFrom(from, c.index.PreviousVisibleSlot)
	case NavPageDown:
		to = c.pageFrom(from, c.index.NextVisibleSlot)
	case NavHome:
		to = c.index.FirstVisibleSlot()
	case NavEnd:
		to = c.index.LastVisibleSlot()
	}
	if to < 0 || to == from && c.CurrentSlot() == from {
		return false
	}
	c.logger.Debug("move current", "nav", nav.String(), "from", from, "to", to)
	c.ScrollSlotIntoView(c.currentColumn, to, true)
	return true
}

// pageFrom walks from slot with step until a viewport worth of height was
// passed, stopping at the last slot step returns.
func (c *Controller) pageFrom(from int, step func(int) int) int {
	var acc float64
	s := from
	for {
		next := step(s)
		if next < 0 {
			break
		}
		h := c.slotHeight(next)
		if acc+h > c.viewport && s != from {
			break
		}
		acc += h
		s = next
	}
	if s == from {
		return -1
	}
	return s
}
