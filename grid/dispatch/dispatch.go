// Package dispatch runs deferred work on the owner's thread. Nothing here
// starts a goroutine: callbacks run when the owner calls RunPending, the
// way a UI loop drains its posted work between input events.
package dispatch

import "sync"

// Token identifies one posted callback. Tokens grow monotonically, so a
// callback can tell whether newer work of the same kind superseded it.
type Token uint64

type task struct {
	token Token
	fn    func()
}

type Dispatcher struct {
	mu    sync.Mutex
	queue []task
	last  Token
}

func New() *Dispatcher {
	return &Dispatcher{}
}

// Post queues fn and returns its token. Post is safe to call from any
// goroutine and from inside a running callback.
func (d *Dispatcher) Post(fn func()) Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last++
	d.queue = append(d.queue, task{token: d.last, fn: fn})
	return d.last
}

// Last is the token of the newest posted callback.
func (d *Dispatcher) Last() Token {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// RunPending runs the callbacks queued before the call, in post order.
// Callbacks posted while running wait for the next call. It returns the
// number of callbacks run.
func (d *Dispatcher) RunPending() int {
	d.mu.Lock()
	batch := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, t := range batch {
		t.fn()
	}
	return len(batch)
}

// Drain runs callbacks until the queue stays empty or limit batches ran.
func (d *Dispatcher) Drain(limit int) int {
	total := 0
	for range limit {
		n := d.RunPending()
		if n == 0 {
			break
		}
		total += n
	}
	return total
}
