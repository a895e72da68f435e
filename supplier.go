package camview

import (
	"errors"
	"time"

	"github.com/tiago-pinto/camview/swapchain"
)

// onTick runs on the display clock's goroutine once per refresh interval.
// It may execute concurrently with a render pass; the two serialize only on
// the slot mutex.
func (p *SurfaceProvider) onTick(time.Time) {
	p.acquireDrawable()
}

// acquireDrawable blockingly requests the next free drawable from the swap
// chain and publishes it into the slot. The wait is bounded by the chain's
// buffering depth in the steady state and is acceptable unbounded otherwise
// because it runs off the render thread.
func (p *SurfaceProvider) acquireDrawable() {
	d, err := p.chain.NextDrawable()
	if err != nil {
		if !errors.Is(err, swapchain.ErrClosed) {
			p.logger.Warn("camview: drawable acquisition failed", "err", err)
		}
		return
	}

	// The blocking wait may have spanned a Stop or the start of teardown.
	// A result obtained after either must not reach the slot.
	if !p.valid.Load() || !p.active.Load() {
		d.Discard()
		return
	}

	p.mu.Lock()
	// Re-checked under the mutex: teardown discards the slot while holding
	// it, and no write may land after that.
	if !p.valid.Load() || !p.active.Load() {
		p.mu.Unlock()
		d.Discard()
		return
	}
	if old := p.drawable; old != nil {
		// The render loop never consumed the previous drawable; the
		// slot keeps only the most recent one.
		old.Discard()
	}
	p.drawable = d
	p.mu.Unlock()
}
