package swapchain

import (
	"errors"
	"image"

	"github.com/gogpu/gpucontext"
)

// Errors returned by swap chain operations.
var (
	// ErrClosed is returned when operating on a closed swap chain.
	ErrClosed = errors.New("swapchain: chain is closed")

	// ErrNoBackend is returned by New when no registered backend is
	// available on this system.
	ErrNoBackend = errors.New("swapchain: no backend available")

	// ErrUnknownBackend is returned by NewByName for unregistered names.
	ErrUnknownBackend = errors.New("swapchain: unknown backend")
)

// Drawable is one presentable render target drawn from a swap chain's pool.
//
// A drawable is held by at most one owner at a time: the chain (free), the
// acquisition loop or the slot (published), or a render pass (in flight). It
// must be returned by exactly one call to Present or Discard, after which it
// must not be touched.
type Drawable interface {
	// Bounds returns the drawable's pixel rectangle.
	Bounds() image.Rectangle

	// RGBA returns the CPU-addressable backing store for this pass.
	// Returns nil if the drawable's backing store is unavailable.
	RGBA() *image.RGBA

	// Present submits the backing store for display and returns the
	// drawable to the pool. The drawable must not be used afterwards.
	Present() error

	// Discard returns the drawable to the pool without presenting.
	Discard()
}

// SwapChain manages a bounded pool of rotating drawables.
type SwapChain interface {
	// NextDrawable blocks until a drawable is free and returns it.
	// It returns ErrClosed once the chain is closed; a close while a
	// caller is blocked unblocks that caller with ErrClosed.
	NextDrawable() (Drawable, error)

	// Resize replaces the backing store dimensions. In-flight drawables
	// keep their old size and are dropped from the pool when returned.
	Resize(width, height int) error

	// Close releases the chain's resources. Close is idempotent.
	Close() error
}

// NativeLayer is implemented by chains that can expose an underlying
// platform surface or device handle for embedding into a view hierarchy.
type NativeLayer interface {
	NativeHandle() any
}

// Options configures swap chain creation.
type Options struct {
	// Width and Height are the initial backing store dimensions. Zero is
	// allowed; NextDrawable then blocks until the first Resize.
	Width, Height int

	// Depth is the number of drawables in the pool. Zero means
	// DefaultDepth.
	Depth int

	// Label is an optional debug label applied to backend resources.
	Label string

	// Device optionally shares a host GPU device with the chain instead
	// of creating a dedicated one. GPU backends probe it for direct HAL
	// access; the software backend ignores it.
	Device gpucontext.DeviceProvider

	// OnPresent, if set, is invoked by CPU-backed chains with the
	// presented pixels. Hosts use it to blit into their own windowing
	// layer; tests use it to observe output.
	OnPresent func(*image.RGBA)
}

// DefaultDepth is the pool depth used when Options.Depth is zero.
// Triple buffering keeps one drawable on screen, one published, and one
// available to the acquisition loop.
const DefaultDepth = 3

func (o Options) depth() int {
	if o.Depth <= 0 {
		return DefaultDepth
	}
	return o.Depth
}
