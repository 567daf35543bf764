package materialize

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var opaqueRed = color.NRGBA{R: 255, A: 255}

func TestSample2x2RowMajor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{R: 51, G: 102, B: 153, A: 255})

	set, err := Sample(img, SampleOptions{MaxParticlesPerAxis: 2, Rand: NewRand(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 4 {
		t.Fatalf("particles = %d, want 4", set.Len())
	}
	if set.Width != 2 || set.Height != 2 {
		t.Errorf("size = %dx%d, want 2x2", set.Width, set.Height)
	}

	want := []struct {
		target Vec2
		color  Color
	}{
		{Vec2{0, 0}, Color{1, 0, 0, 1}},
		{Vec2{1, 0}, Color{0, 1, 0, 1}},
		{Vec2{0, 1}, Color{0, 0, 1, 1}},
		{Vec2{1, 1}, Color{0.2, 0.4, 0.6, 1}},
	}
	for i, w := range want {
		p := set.Particles[i]
		if p.Target != w.target {
			t.Errorf("particle %d target = %v, want %v", i, p.Target, w.target)
		}
		assertNear(t, "R", p.Color.R, w.color.R)
		assertNear(t, "G", p.Color.G, w.color.G)
		assertNear(t, "B", p.Color.B, w.color.B)
		assertNear(t, "A", p.Color.A, w.color.A)
	}
}

func TestSampleIgnoreWhite(t *testing.T) {
	white := solidImage(1, 1, color.NRGBA{255, 255, 255, 255})

	set, err := Sample(white, SampleOptions{IgnoreWhite: true})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 0 {
		t.Errorf("particles = %d, want 0 for ignored white", set.Len())
	}

	set, err = Sample(white, SampleOptions{IgnoreBlack: true})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Errorf("particles = %d, want 1 when only black is ignored", set.Len())
	}
}

func TestSampleIgnoreBlack(t *testing.T) {
	black := solidImage(1, 1, color.NRGBA{0, 0, 0, 255})

	set, err := Sample(black, SampleOptions{IgnoreBlack: true})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 0 {
		t.Errorf("particles = %d, want 0 for ignored black", set.Len())
	}

	set, err = Sample(black, SampleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Errorf("particles = %d, want 1 without filters", set.Len())
	}
}

func TestSampleTransparentAlwaysSkipped(t *testing.T) {
	for _, c := range []color.NRGBA{
		{0, 0, 0, 0},
		{255, 255, 255, 0},
		{255, 0, 0, 0},
	} {
		set, err := Sample(solidImage(3, 3, c), SampleOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if set.Len() != 0 {
			t.Errorf("color %v: particles = %d, want 0", c, set.Len())
		}
	}
}

func TestSampleEveryPixelWhenUnbounded(t *testing.T) {
	img := solidImage(7, 5, opaqueRed)
	// Punch two transparent holes.
	img.SetNRGBA(2, 1, color.NRGBA{})
	img.SetNRGBA(6, 4, color.NRGBA{})

	set, err := Sample(img, SampleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 7*5-2 {
		t.Errorf("particles = %d, want %d", set.Len(), 7*5-2)
	}
}

func TestSampleStride(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		max    int
		want   int
		wantXs []float64
	}{
		{"even", 10, 10, 5, 25, []float64{0, 2, 4, 6, 8}},
		{"clamped", 10, 10, 20, 100, nil},
		{"per axis", 10, 4, 2, 4, []float64{0, 5}},
		{"unbounded", 3, 3, 0, 9, []float64{0, 1, 2}},
	}
	for _, tt := range tests {
		set, err := Sample(solidImage(tt.w, tt.h, opaqueRed), SampleOptions{MaxParticlesPerAxis: tt.max})
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if set.Len() != tt.want {
			t.Errorf("%s: particles = %d, want %d", tt.name, set.Len(), tt.want)
		}
		for i, x := range tt.wantXs {
			if got := set.Particles[i].Target.X; got != x {
				t.Errorf("%s: particle %d X = %v, want %v", tt.name, i, got, x)
			}
		}
	}
}

func TestSampleOverrideFiltersOnOriginalColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, opaqueRed)

	override := ColorWhite
	set, err := Sample(img, SampleOptions{IgnoreWhite: true, OverrideColor: &override})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Fatalf("particles = %d, want 1", set.Len())
	}
	p := set.Particles[0]
	if p.Target != (Vec2{1, 0}) {
		t.Errorf("target = %v, want {1 0}", p.Target)
	}
	if p.Color != ColorWhite {
		t.Errorf("color = %v, want override %v", p.Color, ColorWhite)
	}
}

func TestSampleJitterBounds(t *testing.T) {
	const radius = 3.0
	img := solidImage(11, 11, opaqueRed)

	set, err := Sample(img, SampleOptions{JitterRadius: radius, Rand: NewRand(99)})
	if err != nil {
		t.Fatal(err)
	}
	moved := 0
	i := 0
	for y := 0; y < 11; y++ {
		for x := 0; x < 11; x++ {
			p := set.Particles[i]
			i++
			fx, fy := float64(x), float64(y)
			if p.Target.X < fx-radius || p.Target.X >= fx+radius {
				t.Errorf("(%d,%d) X = %v outside [%v, %v)", x, y, p.Target.X, fx-radius, fx+radius)
			}
			if p.Target.Y < fy-radius || p.Target.Y >= fy+radius {
				t.Errorf("(%d,%d) Y = %v outside [%v, %v)", x, y, p.Target.Y, fy-radius, fy+radius)
			}
			if p.Target != (Vec2{fx, fy}) {
				moved++
			}
		}
	}
	if moved == 0 {
		t.Error("expected jitter to move particles")
	}
}

func TestSampleNegativeJitterDisabled(t *testing.T) {
	set, err := Sample(solidImage(4, 4, opaqueRed), SampleOptions{JitterRadius: -5})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range set.Particles {
		want := Vec2{float64(i % 4), float64(i / 4)}
		if p.Target != want {
			t.Errorf("particle %d target = %v, want %v", i, p.Target, want)
		}
	}
}

func TestSampleDelayBounds(t *testing.T) {
	set, err := Sample(solidImage(40, 40, opaqueRed), SampleOptions{Rand: NewRand(3)})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range set.Particles {
		if !DefaultDelayTime.contains(p.DelayTime) {
			t.Fatalf("particle %d DelayTime = %d, want [0,30)", i, p.DelayTime)
		}
		if !DefaultDelayDuration.contains(p.DelayDuration) {
			t.Fatalf("particle %d DelayDuration = %d, want [0,10)", i, p.DelayDuration)
		}
	}

	set, err = Sample(solidImage(5, 5, opaqueRed), SampleOptions{
		DelayTime:     Range{5, 6},
		DelayDuration: Range{2, 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range set.Particles {
		if p.DelayTime != 5 || p.DelayDuration != 2 {
			t.Fatalf("delays = (%d, %d), want (5, 2)", p.DelayTime, p.DelayDuration)
		}
	}

	// Negative and inverted ranges fall back to the defaults.
	for _, r := range []Range{{-10, -5}, {-3, 0}, {8, 4}} {
		set, err = Sample(solidImage(4, 4, opaqueRed), SampleOptions{
			DelayTime:     r,
			DelayDuration: r,
			Rand:          NewRand(5),
		})
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range set.Particles {
			if !DefaultDelayTime.contains(p.DelayTime) || !DefaultDelayDuration.contains(p.DelayDuration) {
				t.Fatalf("range %v: particle %d delays = (%d, %d), want defaults",
					r, i, p.DelayTime, p.DelayDuration)
			}
		}
	}
}

func TestSampledSetDoesNotCompleteOnFirstTick(t *testing.T) {
	set, err := Sample(solidImage(4, 4, opaqueRed), SampleOptions{
		DelayTime:     Range{-10, -5},
		DelayDuration: Range{-3, 0},
		Rand:          NewRand(5),
	})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(nil, EngineOptions{Duration: 2, ClockStep: 0.5})
	e.SetParticles(set)
	e.Tick(0)
	if e.Cycles() != 0 {
		t.Errorf("cycles = %d after one tick, want 0", e.Cycles())
	}
}

func TestSampleSeededReproducible(t *testing.T) {
	img := solidImage(9, 6, opaqueRed)
	opts := func() SampleOptions {
		return SampleOptions{JitterRadius: 2, Rand: NewRand(42)}
	}
	a, err := Sample(img, opts())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sample(img, opts())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different particle sets")
	}
}

func TestSampleSameFilteredSetAcrossSeeds(t *testing.T) {
	img := solidImage(6, 6, opaqueRed)
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(4, 2, color.NRGBA{})

	a, err := Sample(img, SampleOptions{IgnoreWhite: true, Rand: NewRand(1)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sample(img, SampleOptions{IgnoreWhite: true, Rand: NewRand(2)})
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Particles {
		if a.Particles[i].Target != b.Particles[i].Target || a.Particles[i].Color != b.Particles[i].Color {
			t.Errorf("particle %d differs outside delays", i)
		}
	}
}

func TestSampleSubImageTargetsRelativeToOrigin(t *testing.T) {
	img := solidImage(8, 8, opaqueRed)
	sub := img.SubImage(image.Rect(4, 4, 6, 6))

	set, err := Sample(sub, SampleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 4 {
		t.Fatalf("particles = %d, want 4", set.Len())
	}
	if set.Particles[3].Target != (Vec2{1, 1}) {
		t.Errorf("last target = %v, want {1 1}", set.Particles[3].Target)
	}
}

// panicImage reports a valid size but fails to produce pixels.
type panicImage struct{}

func (panicImage) ColorModel() color.Model { return color.NRGBAModel }
func (panicImage) Bounds() image.Rectangle { return image.Rect(0, 0, 4, 4) }
func (panicImage) At(x, y int) color.Color { panic("pixel data unavailable") }

func TestSampleInvalidImage(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil", nil},
		{"zero width", image.NewNRGBA(image.Rect(0, 0, 0, 5))},
		{"zero height", image.NewNRGBA(image.Rect(0, 0, 5, 0))},
		{"unreadable", panicImage{}},
	}
	for _, tt := range tests {
		set, err := Sample(tt.img, SampleOptions{})
		if !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: err = %v, want ErrInvalidImage", tt.name, err)
		}
		if set != nil {
			t.Errorf("%s: got %d particles, want nil set", tt.name, set.Len())
		}
	}
}

func TestSampleReleasesBuffer(t *testing.T) {
	before := borrowedBuffers.Load()
	if _, err := Sample(solidImage(16, 16, opaqueRed), SampleOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := Sample(panicImage{}, SampleOptions{}); err == nil {
		t.Fatal("expected error")
	}
	if got := borrowedBuffers.Load(); got != before {
		t.Errorf("borrowed buffers = %d, want %d", got, before)
	}
}

func TestBorrowNRGBAIsZeroed(t *testing.T) {
	a := borrowNRGBA(4, 4)
	for i := range a.Pix {
		a.Pix[i] = 0xff
	}
	releaseNRGBA(a)

	b := borrowNRGBA(4, 4)
	defer releaseNRGBA(b)
	for i, v := range b.Pix {
		if v != 0 {
			t.Fatalf("pix[%d] = %d, want 0", i, v)
		}
	}
	if b.Stride != 16 || b.Rect != image.Rect(0, 0, 4, 4) {
		t.Errorf("stride=%d rect=%v, want 16 and 4x4", b.Stride, b.Rect)
	}
}
