package swapchain

import (
	"image"
	"log/slog"
	"sync"
)

func init() {
	Register("software", 10, NewSoftware, nil)
}

// softwareChain is a CPU-backed swap chain. Drawables render to plain RGBA
// images; Present hands the pixels to Options.OnPresent. It backs tests,
// headless hosts, and systems without a usable GPU adapter.
type softwareChain struct {
	mu   sync.Mutex
	cond *sync.Cond

	opts   Options
	logger *slog.Logger

	width, height int
	generation    uint64

	free        []*softDrawable
	outstanding int
	closed      bool
}

// NewSoftware creates a CPU-backed swap chain.
func NewSoftware(opts Options) (SwapChain, error) {
	c := &softwareChain{
		opts:   opts,
		logger: slog.New(slog.DiscardHandler),
	}
	c.cond = sync.NewCond(&c.mu)
	if opts.Width > 0 && opts.Height > 0 {
		if err := c.Resize(opts.Width, opts.Height); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetLogger installs the logger shared by the owning provider.
func (c *softwareChain) SetLogger(l *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l != nil {
		c.logger = l
	}
}

// NextDrawable implements SwapChain. It blocks while every drawable is in
// flight or the chain is unsized.
func (c *softwareChain) NextDrawable() (Drawable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.free) == 0 && !c.closed {
		c.cond.Wait()
	}
	if c.closed {
		return nil, ErrClosed
	}

	d := c.free[len(c.free)-1]
	c.free = c.free[:len(c.free)-1]
	c.outstanding++
	return d, nil
}

// Resize implements SwapChain. The latest dimensions fully supersede any
// prior call; free drawables are reallocated immediately, in-flight ones are
// replaced when they return.
func (c *softwareChain) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if width == c.width && height == c.height {
		return nil
	}

	c.width = width
	c.height = height
	c.generation++

	c.free = c.free[:0]
	if width > 0 && height > 0 {
		for i := c.outstanding; i < c.opts.depth(); i++ {
			c.free = append(c.free, c.newDrawable())
		}
	}
	c.cond.Broadcast()
	return nil
}

// Close implements SwapChain.
func (c *softwareChain) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.free = nil
	c.cond.Broadcast()
	return nil
}

// NativeHandle implements NativeLayer. The software chain has no platform
// surface; hosts receive pixels through Options.OnPresent instead.
func (c *softwareChain) NativeHandle() any { return nil }

// newDrawable allocates a drawable at the current size and generation.
// The caller must hold c.mu.
func (c *softwareChain) newDrawable() *softDrawable {
	return &softDrawable{
		chain:      c,
		img:        image.NewRGBA(image.Rect(0, 0, c.width, c.height)),
		generation: c.generation,
	}
}

// requeue returns a drawable to the pool. Drawables from a superseded
// generation are dropped and replaced by one at the current size.
func (c *softwareChain) requeue(d *softDrawable) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.outstanding--
	if c.closed {
		return
	}
	if d.generation == c.generation {
		c.free = append(c.free, d)
	} else if c.width > 0 && c.height > 0 {
		c.logger.Debug("swapchain: dropped stale drawable",
			"have", d.img.Bounds(), "want", image.Rect(0, 0, c.width, c.height))
		c.free = append(c.free, c.newDrawable())
	}
	c.cond.Signal()
}

// softDrawable is one pooled RGBA render target.
type softDrawable struct {
	chain      *softwareChain
	img        *image.RGBA
	generation uint64
}

// Bounds implements Drawable.
func (d *softDrawable) Bounds() image.Rectangle { return d.img.Bounds() }

// RGBA implements Drawable.
func (d *softDrawable) RGBA() *image.RGBA { return d.img }

// Present implements Drawable.
func (d *softDrawable) Present() error {
	if fn := d.chain.opts.OnPresent; fn != nil {
		fn(d.img)
	}
	d.chain.requeue(d)
	return nil
}

// Discard implements Drawable.
func (d *softDrawable) Discard() {
	d.chain.requeue(d)
}

