package camview

import (
	"errors"
	"fmt"
	"time"

	"github.com/tiago-pinto/camview/swapchain"
)

// RenderFrame renders one delivered frame to the published drawable and
// presents it.
//
// The pass is a defined no-op (nil error, callback not invoked) when the
// provider has been closed, when SetSize was never called, or when no
// drawable is currently published (a dropped frame).
//
// Fatal-per-call failures (drawing-surface construction, empty frame buffer)
// abort only this pass with no GPU submission; under
// FailurePolicyEndSession they additionally end the session. Errors returned
// by draw propagate unchanged, also without submission.
//
// RenderFrame must not be invoked concurrently with itself; the frame
// pipeline serializes calls. It may run concurrently with the acquisition
// loop, from which it is isolated by holding the slot mutex for the entire
// pass.
func (p *SurfaceProvider) RenderFrame(frame FrameBuffer, draw DrawFunc) error {
	if !p.valid.Load() {
		return nil
	}
	if p.ended.Load() {
		return ErrSessionEnded
	}

	// Caller misuse: render before the surface has a size. Silent no-op;
	// in particular the render context must not be created yet.
	p.sizeMu.Lock()
	sized := p.width > 0 && p.height > 0
	p.sizeMu.Unlock()
	if !sized {
		return nil
	}

	if p.rctx == nil {
		p.rctx = &renderContext{
			bridge:  p.cfg.bridge,
			overlay: newDiagnosticsOverlay(),
		}
		p.logger.Debug("camview: render context created")
	}

	// The slot mutex is held from surface construction through submission:
	// drawable replacement stalls for at most one pass while a frame is in
	// flight.
	p.mu.Lock()
	defer p.mu.Unlock()

	d := p.drawable
	if d == nil {
		return nil
	}
	// Ownership transfers out of the slot; the drawable is presented or
	// discarded exactly once below.
	p.drawable = nil

	consumed, err := p.renderPass(d, frame, draw)
	if err != nil {
		if !consumed {
			d.Discard()
		}
		if isFatalPassError(err) && p.cfg.failurePolicy == FailurePolicyEndSession {
			p.ended.Store(true)
			p.logger.Warn("camview: session ended by render failure", "err", err)
			return fmt.Errorf("%w: %w", ErrSessionEnded, err)
		}
		return err
	}

	p.frameMu.Lock()
	p.frameRate.observe(time.Now())
	p.frameMu.Unlock()
	return nil
}

// renderPass draws one frame into d's backing store and presents it.
// consumed reports whether the drawable was handed to Present; when false
// the caller still owns it and must discard.
func (p *SurfaceProvider) renderPass(d swapchain.Drawable, frame FrameBuffer, draw DrawFunc) (consumed bool, _ error) {
	canvas, err := newCanvas(d.RGBA())
	if err != nil {
		return false, fmt.Errorf("wrap drawable: %w", err)
	}

	pixels, err := frame.Lock()
	if err != nil {
		return false, fmt.Errorf("camview: %w", err)
	}
	defer frame.Unlock()

	img, err := p.rctx.bridge(pixels)
	if err != nil {
		return false, fmt.Errorf("camview: image bridge: %w", err)
	}

	ib := img.Bounds()
	cf := coverFit(float64(ib.Dx()), float64(ib.Dy()),
		float64(canvas.Width()), float64(canvas.Height()))

	// The transform restore is pinned to the pass, not to the happy path:
	// whatever the callback does to the stack, the canvas leaves the pass
	// with its pre-pass transform.
	depth := canvas.SaveCount()
	canvas.Push()
	defer canvas.popTo(depth)

	canvas.Transform(cf.Matrix())
	canvas.DrawImage(img, 0, 0)

	if err := draw(canvas); err != nil {
		return false, err
	}

	canvas.popTo(depth)

	if p.cfg.overlay {
		p.frameMu.Lock()
		current := p.frameRate.rate()
		p.frameMu.Unlock()
		p.rctx.overlay.draw(canvas, current, p.clock.TargetRate())
	}

	if err := canvas.Flush(); err != nil {
		return false, fmt.Errorf("camview: flush canvas: %w", err)
	}
	if err := d.Present(); err != nil {
		return true, fmt.Errorf("camview: present drawable: %w", err)
	}
	return true, nil
}

// isFatalPassError reports whether err is one of the fatal-per-call
// failures subject to FailurePolicy, as opposed to a callback error, which
// always stays the caller's to handle.
func isFatalPassError(err error) bool {
	return errors.Is(err, ErrSurfaceCreation) || errors.Is(err, ErrEmptyFrame)
}
