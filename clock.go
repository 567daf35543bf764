package materialize

// TickSource hands out frame tickers. It abstracts the host's display refresh
// clock so the engine can be driven by a window loop, a terminal loop or a
// test.
type TickSource interface {
	// Attach registers fn to be called once per frame with the frame delta
	// in seconds. The returned Ticker controls the registration.
	Attach(fn func(dt float64)) Ticker
}

// Ticker is one registration on a TickSource.
type Ticker interface {
	// Pause stops fn from firing until Resume.
	Pause()
	// Resume lets fn fire again.
	Resume()
	// Paused reports whether the ticker is paused.
	Paused() bool
	// Detach removes the registration permanently. Safe to call more than once
	// and from inside the tick callback.
	Detach()
}

// FrameClock is a stepped TickSource. The host calls Advance once per
// displayed frame; tests call it directly to step time deterministically.
type FrameClock struct {
	tickers []*frameTicker
	frames  uint64
}

// NewFrameClock creates a FrameClock with no tickers attached.
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Attach implements TickSource.
func (c *FrameClock) Attach(fn func(dt float64)) Ticker {
	t := &frameTicker{fn: fn}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance fires every attached, unpaused ticker in attach order. Tickers
// attached during Advance first fire on the next call.
func (c *FrameClock) Advance(dt float64) {
	c.frames++
	n := len(c.tickers)
	for i := 0; i < n; i++ {
		t := c.tickers[i]
		if t.detached || t.paused {
			continue
		}
		t.fn(dt)
	}

	// Drop detached tickers, preserving order.
	live := c.tickers[:0]
	for _, t := range c.tickers {
		if !t.detached {
			live = append(live, t)
		}
	}
	clear(c.tickers[len(live):])
	c.tickers = live
}

// Frames returns the number of Advance calls so far.
func (c *FrameClock) Frames() uint64 {
	return c.frames
}

// Attached returns the number of tickers that have not been detached.
func (c *FrameClock) Attached() int {
	n := 0
	for _, t := range c.tickers {
		if !t.detached {
			n++
		}
	}
	return n
}

type frameTicker struct {
	fn       func(dt float64)
	paused   bool
	detached bool
}

func (t *frameTicker) Pause()       { t.paused = true }
func (t *frameTicker) Resume()      { t.paused = false }
func (t *frameTicker) Paused() bool { return t.paused }
func (t *frameTicker) Detach()      { t.detached = true }
