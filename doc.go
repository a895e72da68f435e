// Package camview bridges a sequential stream of camera or video frames to a
// GPU-backed, display-refresh-synchronized preview surface, while letting
// host code draw arbitrary overlay content in frame-native coordinates on
// every frame.
//
// # Overview
//
// camview sits between a frame-delivery pipeline (a camera capture session, a
// decoder, a network stream) and an output swap chain. Two independent actors
// drive it:
//
//   - A display clock fires once per refresh interval; on each tick the
//     provider blockingly acquires the next free drawable from the swap chain
//     and publishes it into a single-slot holder.
//   - The frame pipeline calls RenderFrame once per delivered frame; the
//     provider consumes the published drawable, draws the frame with a
//     cover-fit crop, invokes the caller's draw callback, and presents.
//
// The two actors share exactly one mutable resource, the drawable slot,
// guarded by one mutex. A render pass with no published drawable is a
// defined no-op: the frame is dropped, not an error.
//
// # Quick Start
//
//	sp, err := camview.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sp.Close()
//
//	if err := sp.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	sp.SetSize(1080, 1920)
//
//	// Called by the frame pipeline, one frame at a time.
//	err = sp.RenderFrame(frame, func(c *camview.Canvas) error {
//	    // Frame-native coordinates: a box at (100,100) lands on the same
//	    // image pixels regardless of the output surface size.
//	    c.SetRGBA(1, 0, 0, 1)
//	    c.StrokeRect(100, 100, 400, 400, 4)
//	    return nil
//	})
//
// # Architecture
//
// The library is organized into:
//   - Public API: SurfaceProvider, Canvas, Matrix, FrameBuffer, DisplayClock
//   - swapchain: Drawable and SwapChain interfaces, backend registry,
//     software swap chain
//   - swapchain/wgpu: GPU swap chain built on gogpu/wgpu
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// Inside a RenderFrame callback the canvas is pre-transformed so that
// coordinates address source-image pixels; the cover-fit crop maps them onto
// the output surface.
//
// # Concurrency
//
// SurfaceProvider methods are safe to call concurrently with the clock-driven
// acquisition loop. RenderFrame itself must not be invoked concurrently with
// itself; the frame pipeline is expected to deliver frames sequentially.
package camview
