package materialize

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

func TestPulseStartsIdle(t *testing.T) {
	p := NewPulse(1, 0, 0.5, ease.Linear)
	if !p.Done || p.Value != 0 {
		t.Errorf("new pulse Done=%v Value=%v, want idle at 0", p.Done, p.Value)
	}
	p.Update(0.1)
	if p.Value != 0 {
		t.Errorf("idle pulse moved to %v", p.Value)
	}
}

func TestPulseTriggerRunsToEnd(t *testing.T) {
	p := NewPulse(1, 0, 0.5, ease.Linear)
	p.Trigger()
	if p.Done || p.Value != 1 {
		t.Fatalf("triggered pulse Done=%v Value=%v, want running at 1", p.Done, p.Value)
	}

	p.Update(0.25)
	if p.Value <= 0.4 || p.Value >= 0.6 {
		t.Errorf("Value at half = %v, want ~0.5", p.Value)
	}
	if p.Done {
		t.Error("pulse finished early")
	}

	for i := 0; i < 10 && !p.Done; i++ {
		p.Update(0.1)
	}
	if !p.Done || p.Value != 0 {
		t.Errorf("Done=%v Value=%v, want finished at 0", p.Done, p.Value)
	}
}

func TestPulseListensForCompletion(t *testing.T) {
	p := NewPulse(1, 0, 0.5, ease.OutQuad)
	e := NewEngine(nil, EngineOptions{Duration: 1, ClockStep: 1, Listeners: []CompletionListener{p}})
	e.SetParticles(&ParticleSet{Width: 1, Height: 1, Particles: []Particle{{Color: ColorWhite}}})
	e.Tick(0)
	if e.Cycles() != 1 {
		t.Fatalf("cycles = %d, want 1", e.Cycles())
	}
	if p.Done {
		t.Error("completion should trigger the pulse")
	}
}

func TestDrawOriginMarker(t *testing.T) {
	target := ebiten.NewImage(16, 16)
	p := NewPulse(1, 0, 0.5, ease.Linear)
	// Idle pulses draw nothing; a triggered one must not panic.
	DrawOriginMarker(target, Vec2{8, 0}, p, ColorWhite)
	p.Trigger()
	DrawOriginMarker(target, Vec2{8, 0}, p, ColorWhite)
}
