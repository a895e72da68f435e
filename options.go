package camview

import (
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/tiago-pinto/camview/swapchain"
)

// FailurePolicy decides what happens to the rendering session after a
// fatal-per-call failure (drawing-surface construction failure or an empty
// frame buffer). The failing pass itself always aborts without submitting
// GPU work.
type FailurePolicy int

const (
	// FailurePolicyAbortFrame drops only the failing frame; subsequent
	// RenderFrame calls proceed normally. This is the default.
	FailurePolicyAbortFrame FailurePolicy = iota

	// FailurePolicyEndSession invalidates the provider on the first
	// fatal-per-call failure; subsequent RenderFrame calls return
	// ErrSessionEnded.
	FailurePolicyEndSession
)

// Option configures a SurfaceProvider during creation.
type Option func(*config)

// config holds provider configuration assembled from Options.
type config struct {
	clock         DisplayClock
	chain         swapchain.SwapChain
	chainBackend  string
	device        gpucontext.DeviceProvider
	bridge        ImageBridge
	scale         float64
	overlay       bool
	failurePolicy FailurePolicy
	logger        *slog.Logger
}

func defaultConfig() config {
	return config{
		bridge: defaultBridge,
		scale:  1,
	}
}

// WithDisplayClock sets the display refresh source driving the drawable
// acquisition loop. Defaults to a 60 Hz TickerClock.
func WithDisplayClock(c DisplayClock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithSwapChain injects a pre-built swap chain instead of selecting one from
// the backend registry. The provider takes ownership and closes it.
func WithSwapChain(sc swapchain.SwapChain) Option {
	return func(cfg *config) { cfg.chain = sc }
}

// WithSwapChainBackend selects a specific registered swap chain backend by
// name instead of priority order.
func WithSwapChainBackend(name string) Option {
	return func(cfg *config) { cfg.chainBackend = name }
}

// WithGPUDevice shares the host application's GPU device with the swap
// chain instead of letting a GPU backend create a dedicated one. Providers
// that also expose direct HAL access (HalDevice/HalQueue) skip adapter
// enumeration entirely. Ignored by CPU backends and by WithSwapChain.
func WithGPUDevice(dp gpucontext.DeviceProvider) Option {
	return func(cfg *config) { cfg.device = dp }
}

// WithImageBridge replaces the frame-to-image conversion. The default bridge
// converts camera-typical layouts (YCbCr, BGRA, ...) to RGBA.
func WithImageBridge(b ImageBridge) Option {
	return func(cfg *config) {
		if b != nil {
			cfg.bridge = b
		}
	}
}

// WithScaleFactor sets the display's pixel-density scale factor. SetSize
// multiplies logical dimensions by it when sizing the backing store.
func WithScaleFactor(scale float64) Option {
	return func(cfg *config) {
		if scale > 0 {
			cfg.scale = scale
		}
	}
}

// WithDiagnosticsOverlay enables a fixed-position readout of the current and
// target frame rates, composited after the callback on every pass. Purely
// additive; it does not affect the cover-fit transform.
func WithDiagnosticsOverlay(enabled bool) Option {
	return func(cfg *config) { cfg.overlay = enabled }
}

// WithFailurePolicy sets how fatal-per-call render failures affect the
// session. Defaults to FailurePolicyAbortFrame.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(cfg *config) { cfg.failurePolicy = p }
}

// WithLogger sets the logger for this provider and its swap chain,
// overriding the package-level logger for this instance.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}
