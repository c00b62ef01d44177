package chat

// ring is a fixed-capacity FIFO of interactions. Pushing into a full ring
// overwrites the oldest entry in place; no element ever moves.
type ring struct {
	buf    []Interaction
	oldest int
	n      int
}

func newRing(capacity int) ring {
	return ring{buf: make([]Interaction, capacity)}
}

func (r *ring) len() int { return r.n }

func (r *ring) push(it Interaction) {
	if r.n == len(r.buf) {
		r.buf[r.oldest] = it
		r.oldest = (r.oldest + 1) % len(r.buf)
		return
	}
	r.buf[(r.oldest+r.n)%len(r.buf)] = it
	r.n++
}

func (r *ring) popNewest() {
	if r.n == 0 {
		return
	}
	r.n--
	r.buf[(r.oldest+r.n)%len(r.buf)] = Interaction{}
}

// each visits entries oldest first.
func (r *ring) each(f func(Interaction)) {
	for i := 0; i < r.n; i++ {
		f(r.buf[(r.oldest+i)%len(r.buf)])
	}
}
