// Package recycle keeps element instances that scrolled out of view so
// they can be handed back instead of allocated.
//
// A pooled element is in one of two tiers. Recyclable elements were
// unrealized recently and are still attached to the owner, only hidden, so
// reusing them is cheap. Fully recycled elements were detached by a
// cleanup pass. Acquisition prefers the recyclable tier.
package recycle

import (
	"fmt"
	"iter"

	"github.com/hnimtadd/gridvirt/grid/datastruct"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/utils"
)

// Elem is an element type a Pool can hold.
type Elem interface {
	comparable
	element.Element
}

// Tier tells where an acquired element came from.
type Tier int

const (
	TierNone Tier = iota
	TierRecyclable
	TierFullyRecycled
)

func (t Tier) String() string {
	switch t {
	case TierRecyclable:
		return "recyclable"
	case TierFullyRecycled:
		return "fully_recycled"
	default:
		return "none"
	}
}

type Pool[E Elem] struct {
	recyclable *datastruct.IntrusiveLinkedList[E]
	fully      *datastruct.IntrusiveLinkedList[E]

	// Zero means unbounded.
	maxRecyclable int
	maxFully      int
}

func NewPool[E Elem](maxRecyclable, maxFully int) *Pool[E] {
	return &Pool[E]{
		recyclable:    datastruct.NewIntrusiveLinkedList[E](),
		fully:         datastruct.NewIntrusiveLinkedList[E](),
		maxRecyclable: maxRecyclable,
		maxFully:      maxFully,
	}
}

// Len returns the number of recyclable and fully recycled elements.
func (p *Pool[E]) Len() (int, int) {
	return p.recyclable.Len(), p.fully.Len()
}

// Release puts an unrealized element into the recyclable tier. An element
// can be pooled once; releasing it twice is a programming error.
func (p *Pool[E]) Release(e E) {
	base := e.Common()
	utils.Assert(base.State() == element.StateActive, fmt.Sprintf("element released twice: %s", base.State()))
	base.SetState(element.StateRecyclable)
	base.SetVisible(false)
	base.SetSlot(-1)
	p.recyclable.Append(&datastruct.Node[E]{Data: e})

	if p.maxRecyclable > 0 && p.recyclable.Len() > p.maxRecyclable {
		p.demote(p.recyclable.PopFirst().Data)
	}
}

func (p *Pool[E]) demote(e E) {
	base := e.Common()
	if p.maxFully > 0 && p.fully.Len() >= p.maxFully {
		base.SetState(element.StateDiscarded)
		return
	}
	base.SetState(element.StateFullyRecycled)
	p.fully.Append(&datastruct.Node[E]{Data: e})
}

func activate[E Elem](e E) E {
	base := e.Common()
	base.SetState(element.StateActive)
	base.SetVisible(true)
	return e
}

// TryAcquire hands back the most recently released element, or reports
// false when the pool is empty.
func (p *Pool[E]) TryAcquire() (E, Tier, bool) {
	if n := p.recyclable.Pop(); n != nil {
		return activate(n.Data), TierRecyclable, true
	}
	if n := p.fully.Pop(); n != nil {
		return activate(n.Data), TierFullyRecycled, true
	}
	var zero E
	return zero, TierNone, false
}

// TryAcquireMatching prefers a recyclable element for which match holds,
// then falls back to TryAcquire.
func (p *Pool[E]) TryAcquireMatching(match func(E) bool) (E, Tier, bool) {
	for n := p.recyclable.Last; n != nil; n = n.Prev {
		if match(n.Data) {
			p.recyclable.Remove(n)
			return activate(n.Data), TierRecyclable, true
		}
	}
	return p.TryAcquire()
}

// FullyRecycle moves every recyclable element to the fully recycled tier.
// It returns the number of elements moved.
func (p *Pool[E]) FullyRecycle() int {
	moved := 0
	for n := p.recyclable.PopFirst(); n != nil; n = p.recyclable.PopFirst() {
		n.Data.Common().SetVisible(false)
		p.demote(n.Data)
		moved++
	}
	return moved
}

// Clear discards every pooled element.
func (p *Pool[E]) Clear() {
	for _, l := range []*datastruct.IntrusiveLinkedList[E]{p.recyclable, p.fully} {
		for n := l.PopFirst(); n != nil; n = l.PopFirst() {
			n.Data.Common().SetState(element.StateDiscarded)
		}
	}
}

// All yields every pooled element, recyclable first.
func (p *Pool[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for e := range p.recyclable.All() {
			if !yield(e) {
				return
			}
		}
		for e := range p.fully.All() {
			if !yield(e) {
				return
			}
		}
	}
}
