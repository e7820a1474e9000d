package particle

// Pool is a fixed-capacity arena of particle slots with free-list reuse and
// a compact index of live slots. It never reallocates after construction;
// the free list and active list are pre-sized to capacity. The pool is the
// sole owner of particle memory.
type Pool struct {
	particles []Particle
	freeList  []int
	active    []int // compact list of live slot indices, in spawn order
	count     int
}

// NewPool creates a pool with the given fixed capacity.
func NewPool(capacity int) (*Pool, error) {
	if capacity <= 0 {
		return nil, configErr("capacity", "must be > 0, got %d", capacity)
	}
	p := &Pool{
		particles: make([]Particle, capacity),
		freeList:  make([]int, capacity),
		active:    make([]int, 0, capacity),
	}
	// Reversed so slots hand out in index order.
	for i := range p.freeList {
		p.freeList[i] = capacity - 1 - i
	}
	return p, nil
}

// Allocate claims a free slot and returns its index. ok is false when the
// pool is saturated; that is backpressure, not an error — the caller drops
// the spawn.
func (p *Pool) Allocate() (int, bool) {
	n := len(p.freeList)
	if n == 0 {
		return 0, false
	}
	idx := p.freeList[n-1]
	p.freeList = p.freeList[:n-1]
	p.particles[idx] = Particle{Alive: true}
	p.active = append(p.active, idx)
	p.count++
	return idx, true
}

// At returns the particle in slot idx. The pointer is borrowed; it must not
// be held past the current frame.
func (p *Pool) At(idx int) *Particle {
	return &p.particles[idx]
}

// Live returns the compact list of live slot indices in spawn order. The
// slice is valid only until the next Update/Clear; it is not restartable
// across frames.
func (p *Pool) Live() []int {
	return p.active
}

// Count returns the number of live particles.
func (p *Pool) Count() int {
	return p.count
}

// Capacity returns the fixed slot count.
func (p *Pool) Capacity() int {
	return len(p.particles)
}

// reapExpired frees every particle whose age has passed its lifetime and
// compacts the active list in place. This is the only path that returns
// slots to the free list, which keeps double-free unreachable.
func (p *Pool) reapExpired() int {
	write := 0
	reaped := 0
	for _, idx := range p.active {
		pt := &p.particles[idx]
		if pt.Age > pt.Lifetime {
			pt.Alive = false
			p.freeList = append(p.freeList, idx)
			p.count--
			reaped++
			continue
		}
		p.active[write] = idx
		write++
	}
	p.active = p.active[:write]
	return reaped
}

// Clear frees all slots. Any previously borrowed particle pointers are
// invalid afterwards.
func (p *Pool) Clear() {
	for _, idx := range p.active {
		p.particles[idx].Alive = false
	}
	p.active = p.active[:0]
	p.freeList = p.freeList[:0]
	for i := len(p.particles) - 1; i >= 0; i-- {
		p.freeList = append(p.freeList, i)
	}
	p.count = 0
}
