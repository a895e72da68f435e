package camview

import (
	"sync"
	"time"
)

// DisplayClock drives the drawable acquisition loop: it invokes a callback
// once per display refresh interval. Implementations are owned by the host
// platform (a vsync source, CVDisplayLink, a choreographer); TickerClock is
// provided for hosts without a native source.
type DisplayClock interface {
	// Start registers onTick and begins delivering ticks. Ticks are
	// delivered from a dedicated goroutine, never from the caller of
	// Start. Start on a running clock replaces the callback.
	Start(onTick func(now time.Time)) error

	// Stop ceases tick delivery and unregisters the callback. Stop is
	// idempotent and safe to call during teardown; it does not block on
	// an in-flight tick.
	Stop()

	// Rate returns the measured tick rate in Hz, or 0 before the first
	// ticks arrive.
	Rate() float64

	// TargetRate returns the nominal refresh rate in Hz.
	TargetRate() float64
}

// TickerClock is a DisplayClock built on time.Ticker. It approximates a
// display refresh source for headless hosts, tests, and the demo binary.
type TickerClock struct {
	hz float64

	mu     sync.Mutex
	stopCh chan struct{}
	rate   rateMeter
}

// NewTickerClock returns a clock ticking at the given rate. Rates at or
// below zero default to 60 Hz.
func NewTickerClock(hz float64) *TickerClock {
	if hz <= 0 {
		hz = 60
	}
	return &TickerClock{hz: hz}
}

// Start implements DisplayClock.
func (c *TickerClock) Start(onTick func(now time.Time)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopCh != nil {
		close(c.stopCh)
	}
	stopCh := make(chan struct{})
	c.stopCh = stopCh

	interval := time.Duration(float64(time.Second) / c.hz)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				c.mu.Lock()
				c.rate.observe(now)
				c.mu.Unlock()
				onTick(now)
			case <-stopCh:
				return
			}
		}
	}()
	return nil
}

// Stop implements DisplayClock.
func (c *TickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
}

// Rate implements DisplayClock.
func (c *TickerClock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate.rate()
}

// TargetRate implements DisplayClock.
func (c *TickerClock) TargetRate() float64 { return c.hz }

// rateMeter measures an event rate as an exponential moving average of
// inter-event intervals. The zero value is ready to use. Not safe for
// concurrent use; callers must serialize observe and rate.
type rateMeter struct {
	last     time.Time
	interval float64 // seconds, EMA
}

// emaWeight balances responsiveness against jitter for per-frame intervals.
const emaWeight = 0.1

func (m *rateMeter) observe(now time.Time) {
	if !m.last.IsZero() {
		dt := now.Sub(m.last).Seconds()
		if dt > 0 {
			if m.interval == 0 {
				m.interval = dt
			} else {
				m.interval += emaWeight * (dt - m.interval)
			}
		}
	}
	m.last = now
}

func (m *rateMeter) rate() float64 {
	if m.interval <= 0 {
		return 0
	}
	return 1 / m.interval
}
