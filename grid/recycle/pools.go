package recycle

import (
	"github.com/hnimtadd/gridvirt/grid/dispatch"
	"github.com/hnimtadd/gridvirt/grid/element"
)

// Pools holds one pool per element kind.
type Pools struct {
	Rows    *Pool[*element.Row]
	Headers *Pool[*element.GroupHeader]
	Footers *Pool[*element.GroupFooter]

	cleanup dispatch.Token
}

func NewPools(maxRecyclable, maxFully int) *Pools {
	return &Pools{
		Rows:    NewPool[*element.Row](maxRecyclable, maxFully),
		Headers: NewPool[*element.GroupHeader](maxRecyclable, maxFully),
		Footers: NewPool[*element.GroupFooter](maxRecyclable, maxFully),
	}
}

// Release routes e to the pool of its kind.
func (p *Pools) Release(e element.Element) {
	switch e := e.(type) {
	case *element.Row:
		p.Rows.Release(e)
	case *element.GroupHeader:
		p.Headers.Release(e)
	case *element.GroupFooter:
		p.Footers.Release(e)
	default:
		panic("recycle: unknown element type")
	}
}

func (p *Pools) FullyRecycle() int {
	return p.Rows.FullyRecycle() + p.Headers.FullyRecycle() + p.Footers.FullyRecycle()
}

func (p *Pools) Clear() {
	p.Rows.Clear()
	p.Headers.Clear()
	p.Footers.Clear()
}

// Len returns the number of pooled elements of every kind per tier.
func (p *Pools) Len() (recyclable, fully int) {
	for _, n := range [][2]int{
		pair(p.Rows.Len()),
		pair(p.Headers.Len()),
		pair(p.Footers.Len()),
	} {
		recyclable += n[0]
		fully += n[1]
	}
	return recyclable, fully
}

func pair(a, b int) [2]int { return [2]int{a, b} }

// ScheduleCleanup posts a FullyRecycle pass. Scheduling again before the
// pass ran supersedes it, so only the newest pass does any work. done, if
// not nil, receives the number of elements moved.
func (p *Pools) ScheduleCleanup(d *dispatch.Dispatcher, done func(moved int)) dispatch.Token {
	var token dispatch.Token
	token = d.Post(func() {
		if token != p.cleanup {
			return
		}
		moved := p.FullyRecycle()
		if done != nil {
			done(moved)
		}
	})
	p.cleanup = token
	return token
}
