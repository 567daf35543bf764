// Package chime plays a short tone whenever an animation cycle completes.
package chime

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/materialize"
)

const (
	sampleRate = beep.SampleRate(48000)
	// toneLength is how long each chime lasts.
	toneLength = 400 * time.Millisecond
)

// Chime is a materialize.CompletionListener that plays a decaying sine tone
// on the speaker. The zero value is unusable; create one with New.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	freq        float64
	initialized bool
}

// New creates a chime at the given frequency in Hz.
func New(freq float64) *Chime {
	if freq <= 0 {
		freq = 880
	}
	return &Chime{
		mixer: &beep.Mixer{},
		freq:  freq,
	}
}

// Init opens the speaker. Until Init succeeds completions are silent.
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("chime: init speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences any playing tones.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// AnimationCycleCompleted implements materialize.CompletionListener.
func (c *Chime) AnimationCycleCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	tone := beep.Take(sampleRate.N(toneLength), NewTone(sampleRate, c.freq, toneLength))
	speaker.Lock()
	c.mixer.Add(tone)
	speaker.Unlock()
	materialize.Logger().Debug("chime played", "freq", c.freq)
}

// Tone is a sine wave with an exponential decay envelope.
type Tone struct {
	sr    beep.SampleRate
	freq  float64
	decay float64
	pos   int
}

// NewTone creates a tone that has decayed to about 1% after length.
func NewTone(sr beep.SampleRate, freq float64, length time.Duration) *Tone {
	return &Tone{
		sr:    sr,
		freq:  freq,
		decay: math.Log(100) / length.Seconds(),
	}
}

// Stream implements beep.Streamer.
func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		s := float64(t.pos) / float64(t.sr)
		v := 0.25 * math.Sin(2*math.Pi*t.freq*s) * math.Exp(-t.decay*s)
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (t *Tone) Err() error {
	return nil
}
