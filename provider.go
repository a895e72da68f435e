package camview

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tiago-pinto/camview/swapchain"
)

// DrawFunc draws additional content for one frame. It runs synchronously
// inside the render pass with the canvas already transformed to frame-native
// coordinates. An error aborts the pass before anything is presented and
// propagates to the RenderFrame caller.
type DrawFunc func(*Canvas) error

// SurfaceProvider bridges a frame-delivery pipeline to a display-synchronized
// output surface.
//
// Lifecycle: New → Start → SetSize (repeatable) → RenderFrame (repeatable,
// externally serialized) → Close. Close invalidates the provider
// permanently; a closed provider drops all further work.
//
// The display-clock-driven acquisition loop and the caller-driven render loop
// share one drawable slot under one mutex; see the package documentation for
// the full model.
type SurfaceProvider struct {
	cfg    config
	chain  swapchain.SwapChain
	clock  DisplayClock
	logger *slog.Logger

	// valid is the one-way teardown flag: cleared exactly once by Close,
	// checked at render entry and after every blocking acquisition wait.
	valid atomic.Bool

	// active mirrors the clock registration: set by Start, cleared by
	// Stop and Close. An acquisition that returns from a blocking wait
	// after the loop stopped discards its result instead of publishing.
	active atomic.Bool

	// mu guards the drawable slot, the only state shared between the
	// acquisition loop and the render loop. The acquisition side holds it
	// only to swap the slot; the render side holds it for the whole pass.
	mu       sync.Mutex
	drawable swapchain.Drawable

	// sizeMu guards target dimensions and lifecycle bookkeeping touched
	// from the host thread.
	sizeMu  sync.Mutex
	width   int
	height  int
	started bool
	closed  bool
	ended   atomic.Bool // set under FailurePolicyEndSession

	// rctx is the lazily-created render context; built on the first
	// RenderFrame after SetSize and never rebuilt.
	rctx *renderContext

	// frameMu guards the frame-rate meter fed by RenderFrame.
	frameMu   sync.Mutex
	frameRate rateMeter
}

// renderContext carries per-session drawing state whose construction is
// deferred until the first sized render pass.
type renderContext struct {
	bridge  ImageBridge
	overlay *diagnosticsOverlay
}

// New constructs a SurfaceProvider. The swap chain (and with it the GPU
// device and command queue of GPU backends) is created here, once, and lives
// until Close.
func New(opts ...Option) (*SurfaceProvider, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = Logger()
	}

	chain := cfg.chain
	if chain == nil {
		var err error
		chainOpts := swapchain.Options{Label: "camview", Device: cfg.device}
		if cfg.chainBackend != "" {
			chain, err = swapchain.NewByName(cfg.chainBackend, chainOpts)
		} else {
			chain, err = swapchain.New(chainOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("camview: create swap chain: %w", err)
		}
	}
	propagateLogger(chain, logger)

	clock := cfg.clock
	if clock == nil {
		clock = NewTickerClock(60)
	}

	p := &SurfaceProvider{
		cfg:    cfg,
		chain:  chain,
		clock:  clock,
		logger: logger,
	}
	p.valid.Store(true)
	return p, nil
}

// Start registers the acquisition loop with the display clock. Each tick
// acquires the next free drawable and publishes it into the slot.
func (p *SurfaceProvider) Start() error {
	p.sizeMu.Lock()
	defer p.sizeMu.Unlock()
	if p.closed {
		return nil
	}
	if p.started {
		return nil
	}
	p.active.Store(true)
	if err := p.clock.Start(p.onTick); err != nil {
		p.active.Store(false)
		return fmt.Errorf("camview: start display clock: %w", err)
	}
	p.started = true
	p.logger.Info("camview: acquisition loop started", "target_hz", p.clock.TargetRate())
	return nil
}

// Stop unregisters from the display clock. Idempotent; safe to call multiple
// times and during teardown. Already-published drawables stay in the slot
// until consumed or Close.
func (p *SurfaceProvider) Stop() {
	p.sizeMu.Lock()
	defer p.sizeMu.Unlock()
	p.stopLocked()
}

func (p *SurfaceProvider) stopLocked() {
	if !p.started {
		return
	}
	// Cleared before the clock stops: an acquisition already blocked in
	// NextDrawable outlives the unregistration and re-checks this flag
	// when it unblocks.
	p.active.Store(false)
	p.clock.Stop()
	p.started = false
}

// SetSize sets the target dimensions and resizes the swap chain backing
// store to width*scale by height*scale, where scale is the display's
// pixel-density factor. The latest call fully supersedes any prior one.
// The render context is not recreated; only the backing store changes.
func (p *SurfaceProvider) SetSize(width, height int) {
	p.sizeMu.Lock()
	defer p.sizeMu.Unlock()
	if p.closed {
		return
	}

	p.width = width
	p.height = height

	pw := int(float64(width) * p.cfg.scale)
	ph := int(float64(height) * p.cfg.scale)
	if err := p.chain.Resize(pw, ph); err != nil {
		p.logger.Warn("camview: backing store resize failed", "err", err)
		return
	}
	p.logger.Debug("camview: backing store resized", "w", pw, "h", ph, "scale", p.cfg.scale)
}

// Layer returns the underlying platform surface or layer handle for
// embedding into a view hierarchy, or nil when the active backend has none.
func (p *SurfaceProvider) Layer() any {
	if nl, ok := p.chain.(swapchain.NativeLayer); ok {
		return nl.NativeHandle()
	}
	return nil
}

// FrameRate returns the measured RenderFrame rate in Hz, or 0 before the
// first frames arrive.
func (p *SurfaceProvider) FrameRate() float64 {
	p.frameMu.Lock()
	defer p.frameMu.Unlock()
	return p.frameRate.rate()
}

// Close invalidates the provider, stops the acquisition loop, releases the
// published drawable, and closes the swap chain. Close is idempotent.
// After Close every RenderFrame is a silent no-op.
func (p *SurfaceProvider) Close() error {
	p.sizeMu.Lock()
	if p.closed {
		p.sizeMu.Unlock()
		return nil
	}
	p.closed = true

	// Invalidate before releasing anything: acquisitions that return from
	// a blocking wait after this point discard their result, and no
	// further render pass proceeds past its entry check.
	p.valid.Store(false)
	p.stopLocked()
	p.sizeMu.Unlock()

	p.mu.Lock()
	if p.drawable != nil {
		p.drawable.Discard()
		p.drawable = nil
	}
	p.mu.Unlock()

	if err := p.chain.Close(); err != nil {
		return fmt.Errorf("camview: close swap chain: %w", err)
	}
	return nil
}
