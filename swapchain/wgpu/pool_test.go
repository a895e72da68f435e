package wgpu

import (
	"errors"
	"testing"
	"time"

	"github.com/tiago-pinto/camview/swapchain"
)

type stubTarget struct {
	gen     uint64
	retired bool
}

func (s *stubTarget) generation() uint64 { return s.gen }
func (s *stubTarget) retire()            { s.retired = true }

func stubAlloc(count *int) func(gen uint64) (pooled, error) {
	return func(gen uint64) (pooled, error) {
		*count++
		return &stubTarget{gen: gen}, nil
	}
}

func TestPoolAcquireRelease(t *testing.T) {
	allocs := 0
	p := newPool(2, stubAlloc(&allocs))
	if err := p.reset(p.alloc); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if allocs != 2 {
		t.Fatalf("allocations = %d, want 2", allocs)
	}

	a, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	b, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if a == b {
		t.Error("pool handed out the same target twice")
	}

	p.release(a)
	c, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if c != a {
		t.Error("released target was not reused")
	}
	p.release(b)
	p.release(c)
	if allocs != 2 {
		t.Errorf("allocations = %d, want 2 (no churn in steady state)", allocs)
	}
}

func TestPoolBlocksWhenExhausted(t *testing.T) {
	allocs := 0
	p := newPool(1, stubAlloc(&allocs))
	if err := p.reset(p.alloc); err != nil {
		t.Fatalf("reset: %v", err)
	}

	held, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	got := make(chan pooled)
	go func() {
		next, err := p.acquire()
		if err != nil {
			close(got)
			return
		}
		got <- next
	}()

	select {
	case <-got:
		t.Fatal("acquire returned while the pool was exhausted")
	case <-time.After(20 * time.Millisecond):
	}

	p.release(held)

	select {
	case next := <-got:
		if next != nil {
			p.release(next)
		}
	case <-time.After(time.Second):
		t.Fatal("acquire stayed blocked after release")
	}
}

func TestPoolResetRetiresStaleTargets(t *testing.T) {
	allocs := 0
	p := newPool(2, stubAlloc(&allocs))
	if err := p.reset(p.alloc); err != nil {
		t.Fatalf("reset: %v", err)
	}

	inFlight, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	oldGen := inFlight.generation()

	if err := p.reset(p.alloc); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	// The free target was retired and replaced at the new generation.
	fresh, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire after reset: %v", err)
	}
	if fresh.generation() == oldGen {
		t.Error("acquired target still has the old generation")
	}

	// The in-flight target is retired on release and replaced.
	p.release(inFlight)
	if !inFlight.(*stubTarget).retired {
		t.Error("stale in-flight target was not retired")
	}
	replacement, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire replacement: %v", err)
	}
	if replacement.generation() == oldGen {
		t.Error("replacement target has the old generation")
	}
	p.release(fresh)
	p.release(replacement)
}

func TestPoolCloseUnblocksAndRetires(t *testing.T) {
	allocs := 0
	p := newPool(1, stubAlloc(&allocs))
	if err := p.reset(p.alloc); err != nil {
		t.Fatalf("reset: %v", err)
	}

	held, err := p.acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := p.acquire()
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	p.close()

	select {
	case err := <-errCh:
		if !errors.Is(err, swapchain.ErrClosed) {
			t.Errorf("acquire after close = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("acquire stayed blocked after close")
	}

	// In-flight targets are retired as they come back.
	p.release(held)
	if !held.(*stubTarget).retired {
		t.Error("in-flight target not retired after close")
	}

	p.close() // idempotent
}

func TestPoolResetAfterCloseFails(t *testing.T) {
	allocs := 0
	p := newPool(1, stubAlloc(&allocs))
	p.close()
	if err := p.reset(p.alloc); !errors.Is(err, swapchain.ErrClosed) {
		t.Errorf("reset after close = %v, want ErrClosed", err)
	}
}

func TestPoolAllocFailurePropagates(t *testing.T) {
	errAlloc := errors.New("out of device memory")
	p := newPool(2, func(gen uint64) (pooled, error) {
		return nil, errAlloc
	})
	if err := p.reset(p.alloc); !errors.Is(err, errAlloc) {
		t.Errorf("reset = %v, want allocation error", err)
	}
}
