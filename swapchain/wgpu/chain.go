package wgpu

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/tiago-pinto/camview/swapchain"
)

func init() {
	swapchain.Register("wgpu", 100, New, available)
}

// available reports whether a Vulkan HAL backend is compiled in. Adapter
// enumeration is deferred to New so availability stays cheap.
func available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

// fenceTimeout bounds the wait for a presentation submit.
const fenceTimeout = 5 * time.Second

// Chain is a GPU swap chain. Drawables expose a CPU staging image; Present
// uploads it to the drawable's source texture and blits onto the chain's
// target texture. The target texture is handed out via NativeHandle for
// embedding.
type Chain struct {
	mu     sync.Mutex
	dev    *device
	blit   *blitPipeline
	pool   *pool
	opts   swapchain.Options
	logger *slog.Logger

	width, height int
	targetTex     hal.Texture
	targetView    hal.TextureView

	closed bool
}

var (
	_ swapchain.SwapChain   = (*Chain)(nil)
	_ swapchain.NativeLayer = (*Chain)(nil)
)

// New opens a chain on the shared device from opts.Device, or on a
// dedicated Vulkan device when no provider is given.
func New(opts swapchain.Options) (swapchain.SwapChain, error) {
	logger := slog.New(slog.DiscardHandler)

	dev, err := openDevice(opts.Device, logger)
	if err != nil {
		return nil, fmt.Errorf("swapchain: open device: %w", err)
	}
	blit, err := newBlitPipeline(dev.device, opts.Label)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("swapchain: %w", err)
	}

	c := &Chain{
		dev:    dev,
		blit:   blit,
		opts:   opts,
		logger: logger,
	}
	depth := opts.Depth
	if depth <= 0 {
		depth = swapchain.DefaultDepth
	}
	c.pool = newPool(depth, c.allocDrawable)

	if opts.Width > 0 && opts.Height > 0 {
		if err := c.Resize(opts.Width, opts.Height); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// SetLogger replaces the chain's logger. Called by hosts that propagate
// their logging configuration into the chain.
func (c *Chain) SetLogger(logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger != nil {
		c.logger = logger
	}
}

// NextDrawable blocks until a drawable is free.
func (c *Chain) NextDrawable() (swapchain.Drawable, error) {
	t, err := c.pool.acquire()
	if err != nil {
		return nil, err
	}
	return t.(*drawable), nil
}

// Resize recreates the target texture and starts a new drawable
// generation. In-flight drawables keep their old size and are replaced
// when they come back to the pool.
func (c *Chain) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("swapchain: invalid size %dx%d", width, height)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return swapchain.ErrClosed
	}
	if err := c.createTarget(width, height); err != nil {
		c.mu.Unlock()
		return err
	}
	c.width = width
	c.height = height
	c.mu.Unlock()

	c.logger.Debug("swapchain: resized", "width", width, "height", height)
	return c.pool.reset(c.allocDrawable)
}

// NativeHandle returns the chain's target texture for host embedding.
func (c *Chain) NativeHandle() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetTex
}

// Close destroys all GPU resources. Blocked NextDrawable callers are
// released with ErrClosed. Close is idempotent.
func (c *Chain) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.pool.close()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyTargetLocked()
	if c.blit != nil && c.dev != nil {
		c.blit.destroy(c.dev.device)
		c.blit = nil
	}
	if c.dev != nil {
		c.dev.Close()
		c.dev = nil
	}
	return nil
}

// createTarget replaces the blit destination texture. Called under c.mu.
func (c *Chain) createTarget(width, height int) error {
	c.destroyTargetLocked()

	tex, err := c.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         c.opts.Label + "_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("swapchain: create target texture: %w", err)
	}
	view, err := c.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: c.opts.Label + "_target_view",
	})
	if err != nil {
		c.dev.device.DestroyTexture(tex)
		return fmt.Errorf("swapchain: create target view: %w", err)
	}
	c.targetTex = tex
	c.targetView = view
	return nil
}

func (c *Chain) destroyTargetLocked() {
	if c.dev == nil {
		return
	}
	if c.targetView != nil {
		c.dev.device.DestroyTextureView(c.targetView)
		c.targetView = nil
	}
	if c.targetTex != nil {
		c.dev.device.DestroyTexture(c.targetTex)
		c.targetTex = nil
	}
}

// allocDrawable builds one pool target at the chain's current size.
func (c *Chain) allocDrawable(gen uint64) (pooled, error) {
	c.mu.Lock()
	width, height := c.width, c.height
	c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("swapchain: chain has no size")
	}

	label := fmt.Sprintf("%s_drawable_g%d", c.opts.Label, gen)
	tex, err := c.dev.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("swapchain: create drawable texture: %w", err)
	}
	view, err := c.dev.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.dev.device.DestroyTexture(tex)
		return nil, fmt.Errorf("swapchain: create drawable view: %w", err)
	}
	bind, err := c.blit.bindGroup(c.dev.device, label, view)
	if err != nil {
		c.dev.device.DestroyTextureView(view)
		c.dev.device.DestroyTexture(tex)
		return nil, fmt.Errorf("swapchain: create drawable bind group: %w", err)
	}

	return &drawable{
		chain: c,
		gen:   gen,
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		tex:   tex,
		view:  view,
		bind:  bind,
	}, nil
}

// present uploads d's staging pixels and blits them onto the target.
func (c *Chain) present(d *drawable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return swapchain.ErrClosed
	}

	b := d.img.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy())

	c.dev.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: d.tex, MipLevel: 0},
		d.img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(d.img.Stride),
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	encoder, err := c.dev.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: c.opts.Label + "_present",
	})
	if err != nil {
		return fmt.Errorf("swapchain: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("present"); err != nil {
		return fmt.Errorf("swapchain: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: c.opts.Label + "_blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       c.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rp.SetPipeline(c.blit.pipeline)
	rp.SetBindGroup(0, d.bind, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("swapchain: end encoding: %w", err)
	}
	defer c.dev.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.dev.device.CreateFence()
	if err != nil {
		return fmt.Errorf("swapchain: create fence: %w", err)
	}
	defer c.dev.device.DestroyFence(fence)

	if err := c.dev.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("swapchain: submit: %w", err)
	}
	fenceOK, err := c.dev.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("swapchain: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// drawable is one pool target: a staging image plus the GPU objects that
// carry it to the screen.
type drawable struct {
	chain *Chain
	gen   uint64
	img   *image.RGBA
	tex   hal.Texture
	view  hal.TextureView
	bind  hal.BindGroup
}

var _ swapchain.Drawable = (*drawable)(nil)

func (d *drawable) Bounds() image.Rectangle { return d.img.Bounds() }
func (d *drawable) RGBA() *image.RGBA       { return d.img }

// Present uploads, blits, and returns the drawable to the pool. The
// drawable goes back to the pool even when presentation fails; the error
// reports the lost frame.
func (d *drawable) Present() error {
	err := d.chain.present(d)
	d.chain.pool.release(d)
	return err
}

// Discard returns the drawable to the pool without presenting.
func (d *drawable) Discard() {
	d.chain.pool.release(d)
}

func (d *drawable) generation() uint64 { return d.gen }

// retire destroys the drawable's GPU objects. Called by the pool when the
// drawable's generation has been superseded or the chain is closing.
func (d *drawable) retire() {
	c := d.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dev == nil {
		return
	}
	if d.bind != nil {
		c.dev.device.DestroyBindGroup(d.bind)
		d.bind = nil
	}
	if d.view != nil {
		c.dev.device.DestroyTextureView(d.view)
		d.view = nil
	}
	if d.tex != nil {
		c.dev.device.DestroyTexture(d.tex)
		d.tex = nil
	}
}
