package materialize

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Pulse tweens a single value from From to To each time it is triggered.
// It implements CompletionListener so a finished cycle can flash the origin.
// Call Update(dt) once per frame.
type Pulse struct {
	From, To float64
	Duration float32
	Ease     ease.TweenFunc

	tween *gween.Tween
	Value float64
	Done  bool
}

// NewPulse creates an idle pulse resting at to.
func NewPulse(from, to float64, duration float32, fn ease.TweenFunc) *Pulse {
	return &Pulse{
		From:     from,
		To:       to,
		Duration: duration,
		Ease:     fn,
		Value:    to,
		Done:     true,
	}
}

// Trigger restarts the tween from From.
func (p *Pulse) Trigger() {
	p.tween = gween.New(float32(p.From), float32(p.To), p.Duration, p.Ease)
	p.Value = p.From
	p.Done = false
}

// AnimationCycleCompleted implements CompletionListener.
func (p *Pulse) AnimationCycleCompleted() {
	p.Trigger()
}

// Update advances the tween by dt seconds.
func (p *Pulse) Update(dt float32) {
	if p.Done || p.tween == nil {
		return
	}
	val, finished := p.tween.Update(dt)
	p.Value = float64(val)
	p.Done = finished
}

// originMarkerSize is the marker edge length at full pulse.
const originMarkerSize = 8.0

// DrawOriginMarker draws a square centered on origin whose size and alpha
// follow the pulse value. Nothing is drawn while the pulse rests at zero.
func DrawOriginMarker(target *ebiten.Image, origin Vec2, p *Pulse, c Color) {
	v := clamp01(p.Value)
	if v == 0 {
		return
	}
	size := 1 + (originMarkerSize-1)*v
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(origin.X-size/2, origin.Y-size/2)
	op.ColorScale.ScaleWithColor(Color{c.R, c.G, c.B, c.A * v}.toRGBA())
	target.DrawImage(WhitePixel, &op)
}
