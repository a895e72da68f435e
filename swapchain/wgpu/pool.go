package wgpu

import (
	"sync"

	"github.com/tiago-pinto/camview/swapchain"
)

// pooled is what the pool rotates. Targets remember the pool generation
// they were allocated under so stale ones can be dropped after a resize.
type pooled interface {
	generation() uint64
	retire()
}

// pool hands out a fixed number of render targets and blocks the producer
// while all of them are in flight. Allocation and destruction of the
// targets themselves is delegated so the rotation logic stays independent
// of GPU state.
type pool struct {
	mu    sync.Mutex
	cond  *sync.Cond
	alloc func(gen uint64) (pooled, error)

	depth       int
	gen         uint64
	free        []pooled
	outstanding int
	closed      bool
}

func newPool(depth int, alloc func(gen uint64) (pooled, error)) *pool {
	p := &pool{depth: depth, alloc: alloc}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// fill allocates targets until depth is reached for the current
// generation. Called under p.mu.
func (p *pool) fillLocked() error {
	for len(p.free)+p.outstanding < p.depth {
		t, err := p.alloc(p.gen)
		if err != nil {
			return err
		}
		p.free = append(p.free, t)
	}
	return nil
}

// acquire blocks until a target is free. It returns swapchain.ErrClosed
// once the pool is closed, including for callers blocked at that moment.
func (p *pool) acquire() (pooled, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.free) == 0 && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return nil, swapchain.ErrClosed
	}
	t := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.outstanding++
	return t, nil
}

// release returns a target to the free list. Targets from a previous
// generation are retired and replaced with a current-generation
// allocation.
func (p *pool) release(t pooled) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outstanding--
	if p.closed {
		t.retire()
		return
	}
	if t.generation() != p.gen {
		t.retire()
		if n, err := p.alloc(p.gen); err == nil {
			p.free = append(p.free, n)
		}
	} else {
		p.free = append(p.free, t)
	}
	p.cond.Broadcast()
}

// reset starts a new generation: free targets are retired and reallocated
// with the new alloc function, in-flight targets are replaced as they come
// back through release.
func (p *pool) reset(alloc func(gen uint64) (pooled, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return swapchain.ErrClosed
	}
	p.gen++
	p.alloc = alloc
	for _, t := range p.free {
		t.retire()
	}
	p.free = p.free[:0]
	err := p.fillLocked()
	p.cond.Broadcast()
	return err
}

// close retires all free targets and unblocks waiters. Targets still in
// flight are retired when released.
func (p *pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, t := range p.free {
		t.retire()
	}
	p.free = nil
	p.cond.Broadcast()
}
