package element

// Element is a realized visual element occupying one slot: a *Row, a
// *GroupHeader or a *GroupFooter. The set is closed; Kind is the tag.
type Element interface {
	Kind() Kind
	Common() *Base
}

// Owner is the non-owning back reference elements keep to their grid. The
// grid owns elements; elements only query shared context through it.
type Owner interface {
	ColumnCount() int
}

// Base carries the state shared by every element kind.
type Base struct {
	slot int

	// Last measured height. Zero until the element was measured once.
	height   float64
	measured bool

	// Hidden elements are fully recycled and must not be drawn.
	visible bool

	state State

	owner Owner
}

func (b *Base) Common() *Base { return b }

func (b *Base) Slot() int { return b.slot }

func (b *Base) SetSlot(slot int) { b.slot = slot }

// Height returns the last measured height.
func (b *Base) Height() float64 { return b.height }

func (b *Base) IsMeasured() bool { return b.measured }

// SetMeasuredHeight records the height the layout collaborator measured.
func (b *Base) SetMeasuredHeight(h float64) {
	b.height = h
	b.measured = true
}

// InvalidateMeasure forces the next height query to measure again.
func (b *Base) InvalidateMeasure() {
	b.measured = false
}

func (b *Base) IsVisible() bool { return b.visible }

func (b *Base) SetVisible(v bool) { b.visible = v }

func (b *Base) State() State { return b.state }

// SetState moves the element through the recycle lifecycle. Only the pools
// and the generator call this.
func (b *Base) SetState(s State) { b.state = s }

func (b *Base) Owner() Owner { return b.owner }

func (b *Base) SetOwner(o Owner) { b.owner = o }

func newBase() Base {
	return Base{slot: -1, visible: true, state: StateActive}
}
