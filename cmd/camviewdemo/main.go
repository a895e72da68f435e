// Command camviewdemo runs a synthetic camera session against a software
// swap chain and reports the presented output as PNG snapshots.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/tiago-pinto/camview"
	"github.com/tiago-pinto/camview/swapchain"

	// Register swap chain backends.
	_ "github.com/tiago-pinto/camview/swapchain/wgpu"
)

func main() {
	var (
		width   = flag.Int("width", 640, "view width")
		height  = flag.Int("height", 480, "view height")
		frames  = flag.Int("frames", 120, "frames to deliver")
		rate    = flag.Float64("rate", 60, "display refresh rate in Hz")
		outdir  = flag.String("outdir", "", "directory for PNG snapshots (empty = none)")
		backend = flag.String("backend", "software", "swap chain backend name")
		overlay = flag.Bool("overlay", true, "draw the frame-rate overlay")
		verbose = flag.Bool("v", false, "debug logging")
		camW    = flag.Int("camw", 1920, "synthetic camera frame width")
		camH    = flag.Int("camh", 1080, "synthetic camera frame height")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	camview.SetLogger(logger)

	logger.Info("available backends", "names", swapchain.Available())

	presented := 0
	chain, err := swapchain.NewByName(*backend, swapchain.Options{
		Label: "camviewdemo",
		OnPresent: func(img *image.RGBA) {
			presented++
			if *outdir != "" && presented%30 == 0 {
				savePNG(logger, *outdir, presented, img)
			}
		},
	})
	if err != nil {
		logger.Error("create swap chain", "backend", *backend, "err", err)
		os.Exit(1)
	}

	provider, err := camview.New(
		camview.WithSwapChain(chain),
		camview.WithDisplayClock(camview.NewTickerClock(*rate)),
		camview.WithDiagnosticsOverlay(*overlay),
	)
	if err != nil {
		logger.Error("create surface provider", "err", err)
		os.Exit(1)
	}
	defer provider.Close()

	provider.SetSize(*width, *height)
	if err := provider.Start(); err != nil {
		logger.Error("start provider", "err", err)
		os.Exit(1)
	}

	buf := camview.NewMemoryFrameBuffer(nil)
	interval := time.Second / time.Duration(*rate)

	for i := 0; i < *frames; i++ {
		buf.Store(syntheticFrame(*camW, *camH, i))

		err := provider.RenderFrame(buf, func(c *camview.Canvas) error {
			// Reticle at the frame center; the centered crop puts it
			// at the view center too.
			c.SetRGBA(1, 1, 1, 0.9)
			cx, cy := float64(*camW)/2, float64(*camH)/2
			c.FillRect(cx-20, cy-1, 40, 2)
			c.FillRect(cx-1, cy-20, 2, 40)
			return nil
		})
		if err != nil {
			logger.Error("render frame", "frame", i, "err", err)
			os.Exit(1)
		}
		time.Sleep(interval)
	}

	provider.Stop()
	logger.Info("session done",
		"delivered", *frames,
		"presented", presented,
		"fps", provider.FrameRate())
}

// syntheticFrame renders a moving diagonal gradient so consecutive frames
// are visually distinct.
func syntheticFrame(w, h, n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	phase := float64(n) * 0.05
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y)/float64(w+h) + phase
			v := uint8((math.Sin(t*2*math.Pi)*0.5 + 0.5) * 255)
			img.SetRGBA(x, y, color.RGBA{R: v, G: uint8(x * 255 / w), B: uint8(y * 255 / h), A: 255})
		}
	}
	return img
}

func savePNG(logger *slog.Logger, dir string, n int, img *image.RGBA) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("create output dir", "err", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", n))
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("create snapshot", "err", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		logger.Warn("encode snapshot", "frame", n, "err", err)
	}
}
