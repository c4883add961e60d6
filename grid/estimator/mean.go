package estimator

// mean is a cumulative average with a fallback for the empty case.
type mean struct {
	sum   float64
	count int
	hint  float64
}

func (m *mean) value() float64 {
	if m.count == 0 {
		return m.hint
	}
	return m.sum / float64(m.count)
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

// replace swaps an old sample for a new one without changing the count.
func (m *mean) replace(old, v float64) {
	if m.count == 0 {
		m.add(v)
		return
	}
	m.sum += v - old
}

// recent is a fixed-size ring of the latest samples.
type recent struct {
	buf  []float64
	next int
	full bool
}

func newRecent(size int) *recent {
	return &recent{buf: make([]float64, size)}
}

func (r *recent) add(v float64) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *recent) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

func (r *recent) stats() (avg, lo, hi float64) {
	n := r.len()
	if n == 0 {
		return 0, 0, 0
	}
	lo, hi = r.buf[0], r.buf[0]
	var sum float64
	for _, v := range r.buf[:n] {
		sum += v
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return sum / float64(n), lo, hi
}

func (r *recent) reset() {
	r.next = 0
	r.full = false
}
