package materialize

import "fmt"

const (
	// DefaultDuration is the base animation duration in clock units.
	DefaultDuration = 2.0
	// DefaultClockStep is the fixed clock increment applied per tick. It does
	// not scale with the frame delta, so real-world speed follows frame rate.
	DefaultClockStep = 0.6
)

// State is the engine's lifecycle state.
type State uint8

const (
	StateStopped State = iota // tick source detached, clock zeroed
	StateRunning              // ticks advance the clock
	StatePaused               // tick source attached but not firing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// CompletionListener is notified once per completed animation cycle.
type CompletionListener interface {
	AnimationCycleCompleted()
}

// ListenerFunc adapts a plain function to CompletionListener.
type ListenerFunc func()

// AnimationCycleCompleted calls f.
func (f ListenerFunc) AnimationCycleCompleted() { f() }

// Placement is a visible particle's color and current position on the
// render surface.
type Placement struct {
	Color Color
	Pos   Vec2
}

// Frame is the result of one tick: the placements to draw and the clock
// value they were computed at. Placements aliases an engine-owned buffer and
// is only valid until the next tick.
type Frame struct {
	Placements []Placement
	Clock      float64
	// Completed is true when this frame finished a cycle. Clock holds the
	// value before the reset.
	Completed bool
	Cycle     int
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Origin is the point every particle starts from, in surface coordinates.
	Origin Vec2
	// Surface is the render surface size. The particle set is centered on it.
	Surface Vec2
	// Duration is the base animation duration. Non-positive uses DefaultDuration.
	Duration float64
	// ClockStep is the clock increment per tick. Non-positive uses DefaultClockStep.
	ClockStep float64
	// OnRepaint is called once per tick with the freshly computed frame.
	OnRepaint func(Frame)
	// Listeners are notified when a cycle completes.
	Listeners []CompletionListener
}

// Engine animates a ParticleSet from the origin to each particle's target.
// It is driven by a TickSource and is not safe for concurrent use: every
// method must be called from the goroutine that drives the tick source.
type Engine struct {
	src    TickSource
	ticker Ticker
	state  State
	clock  float64

	origin    Vec2
	surface   Vec2
	duration  float64
	step      float64
	onRepaint func(Frame)
	listeners []CompletionListener

	set        *ParticleSet
	pending    *ParticleSet
	hasPending bool

	frame  Frame
	buf    []Placement
	cycles int
	ticks  int
}

// NewEngine creates an engine attached to src and in the running state.
// src may be nil, in which case the engine only advances on direct Tick calls.
func NewEngine(src TickSource, opts EngineOptions) *Engine {
	e := &Engine{
		src:       src,
		origin:    opts.Origin,
		surface:   opts.Surface,
		duration:  opts.Duration,
		step:      opts.ClockStep,
		onRepaint: opts.OnRepaint,
		listeners: append([]CompletionListener(nil), opts.Listeners...),
	}
	if e.duration <= 0 {
		if opts.Duration < 0 {
			Logger().Warn("negative duration, using default", "value", opts.Duration)
		}
		e.duration = DefaultDuration
	}
	if e.step <= 0 {
		if opts.ClockStep < 0 {
			Logger().Warn("negative clock step, using default", "value", opts.ClockStep)
		}
		e.step = DefaultClockStep
	}
	e.attach()
	return e
}

// attach acquires a fresh ticker and enters the running state.
func (e *Engine) attach() {
	if e.src != nil {
		e.ticker = e.src.Attach(e.Tick)
	}
	e.state = StateRunning
}

// Tick advances the clock by the fixed step, computes the frame and requests
// a repaint. A paused engine ignores ticks. A stopped engine restarts first,
// so Reset followed by Tick leaves the engine running one step past zero.
func (e *Engine) Tick(dt float64) {
	switch e.state {
	case StatePaused:
		return
	case StateStopped:
		e.Restart()
	}
	e.applyPending()
	e.clock += e.step
	e.ticks++

	clock := e.clock
	var completed bool
	e.buf, completed = e.Positions(e.buf[:0])
	e.frame = Frame{
		Placements: e.buf,
		Clock:      clock,
		Completed:  completed,
		Cycle:      e.cycles,
	}
	if e.onRepaint != nil {
		e.onRepaint(e.frame)
	}
}

// Positions appends the placement of every visible particle to dst and
// reports whether this pass completed a cycle. Particles whose delay has not
// elapsed are not yet spawned and are omitted. When every particle has
// arrived the clock is reset to zero and the listeners are notified; the
// engine keeps running. With no particle set configured nothing is appended
// and no cycle completes.
func (e *Engine) Positions(dst []Placement) ([]Placement, bool) {
	e.applyPending()
	set := e.set
	if set.Len() == 0 {
		return dst, false
	}

	offset := e.centerOffset()
	arrived := 0
	for i := range set.Particles {
		p := &set.Particles[i]
		pos, visible, done := Place(p, e.clock, e.origin, e.duration, offset)
		if !visible {
			continue
		}
		if done {
			arrived++
		}
		dst = append(dst, Placement{Color: p.Color, Pos: pos})
	}
	if arrived < len(set.Particles) {
		return dst, false
	}
	e.completeCycle()
	return dst, true
}

// Place computes one particle's position at clock. visible is false while the
// particle's delay has not elapsed. Once the particle's local time reaches
// duration + DelayDuration it is arrived and sits exactly on its target plus
// offset.
func Place(p *Particle, clock float64, origin Vec2, duration float64, offset Vec2) (pos Vec2, visible, arrived bool) {
	delay := float64(p.DelayTime)
	if clock < delay {
		return Vec2{}, false, false
	}
	total := duration + float64(p.DelayDuration)
	local := clock - delay
	end := p.Target.Add(offset)
	if local >= total {
		return end, true, true
	}
	return Vec2{
		X: EaseInOutQuad(local, origin.X, end.X, total),
		Y: EaseInOutQuad(local, origin.Y, end.Y, total),
	}, true, false
}

// centerOffset moves image coordinates so the image midpoint lands on the
// surface midpoint. The image half size uses integer division.
func (e *Engine) centerOffset() Vec2 {
	return Vec2{
		X: e.surface.X/2 - float64(e.set.Width/2),
		Y: e.surface.Y/2 - float64(e.set.Height/2),
	}
}

func (e *Engine) completeCycle() {
	e.cycles++
	Logger().Debug("animation cycle completed",
		"cycle", e.cycles,
		"ticks", e.ticks,
		"particles", e.set.Len())
	e.clock = 0
	e.ticks = 0
	for _, l := range append([]CompletionListener(nil), e.listeners...) {
		l.AnimationCycleCompleted()
	}
}

// applyPending installs a particle set queued by SetParticles.
func (e *Engine) applyPending() {
	if !e.hasPending {
		return
	}
	e.set = e.pending
	e.pending = nil
	e.hasPending = false
	e.clock = 0
	e.ticks = 0
	Logger().Info("particle set swapped", "particles", e.set.Len())
}

// SetParticles queues set to replace the current particle set. The swap
// happens at the start of the next tick or Positions pass, never during one,
// and restarts the cycle clock. Passing nil clears the set.
func (e *Engine) SetParticles(set *ParticleSet) {
	e.pending = set
	e.hasPending = true
}

// Particles returns the active particle set, or nil.
func (e *Engine) Particles() *ParticleSet {
	return e.set
}

// Pause stops the tick source from firing. The clock is kept.
// No-op unless running.
func (e *Engine) Pause() {
	if e.state != StateRunning {
		return
	}
	if e.ticker != nil {
		e.ticker.Pause()
	}
	e.state = StatePaused
}

// Resume lets a paused tick source fire again without touching the clock.
// No-op unless paused.
func (e *Engine) Resume() {
	if e.state != StatePaused {
		return
	}
	if e.ticker != nil {
		e.ticker.Resume()
	}
	e.state = StateRunning
}

// Reset detaches the tick source, zeroes the clock and stops the engine.
// Safe in any state; once it returns no further ticks are delivered.
func (e *Engine) Reset() {
	if e.ticker != nil {
		e.ticker.Detach()
		e.ticker = nil
	}
	e.clock = 0
	e.ticks = 0
	e.frame = Frame{}
	e.state = StateStopped
}

// Restart resets the engine and attaches a fresh ticker.
func (e *Engine) Restart() {
	e.Reset()
	e.attach()
	Logger().Info("animation restarted")
}

// AddListener registers l for cycle completion events.
func (e *Engine) AddListener(l CompletionListener) {
	e.listeners = append(e.listeners, l)
}

// SetOrigin moves the point particles start from.
func (e *Engine) SetOrigin(origin Vec2) {
	e.origin = origin
}

// SetSurface sets the render surface size used to center the particle set.
func (e *Engine) SetSurface(size Vec2) {
	e.surface = size
}

// SetDuration changes the base animation duration from the next tick on.
// Non-positive values use DefaultDuration.
func (e *Engine) SetDuration(d float64) {
	if d <= 0 {
		d = DefaultDuration
	}
	e.duration = d
}

// SetClockStep changes the per-tick clock increment from the next tick on.
// Non-positive values use DefaultClockStep.
func (e *Engine) SetClockStep(step float64) {
	if step <= 0 {
		step = DefaultClockStep
	}
	e.step = step
}

// Frame returns the frame computed by the most recent tick.
func (e *Engine) Frame() Frame {
	return e.frame
}

// Clock returns the current clock value.
func (e *Engine) Clock() float64 { return e.clock }

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Cycles returns the number of completed cycles.
func (e *Engine) Cycles() int { return e.cycles }

// Origin returns the start point.
func (e *Engine) Origin() Vec2 { return e.origin }

// Surface returns the render surface size.
func (e *Engine) Surface() Vec2 { return e.surface }

// Duration returns the base animation duration.
func (e *Engine) Duration() float64 { return e.duration }

// ClockStep returns the per-tick clock increment.
func (e *Engine) ClockStep() float64 { return e.step }
