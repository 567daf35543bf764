package materialize

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"golang.org/x/image/draw"
)

// ErrInvalidImage is returned when an image has no pixels or its pixel data
// cannot be read.
var ErrInvalidImage = errors.New("materialize: invalid image")

// SampleOptions controls how Sample turns pixels into particles.
type SampleOptions struct {
	// MaxParticlesPerAxis bounds the sampling grid. Zero samples every pixel;
	// otherwise the stride on each axis is dimension / MaxParticlesPerAxis,
	// never less than 1.
	MaxParticlesPerAxis int
	// IgnoreBlack skips fully black pixels (r+g+b == 0).
	IgnoreBlack bool
	// IgnoreWhite skips fully white pixels (r+g+b == 3). Both tests use
	// straight-alpha channels, so a translucent white pixel is also skipped.
	IgnoreWhite bool
	// OverrideColor, when set, replaces the color of every emitted particle.
	// Filtering still uses the sampled color.
	OverrideColor *Color
	// JitterRadius perturbs each target axis by up to ±JitterRadius.
	// Zero or negative disables jitter.
	JitterRadius float64
	// DelayTime and DelayDuration bound the random timing offsets.
	// Zero values, negative minimums and inverted ranges use
	// DefaultDelayTime and DefaultDelayDuration.
	DelayTime     Range
	DelayDuration Range
	// Rand is the random source for delays and jitter. Nil uses a randomly
	// seeded source.
	Rand *rand.Rand
}

// normalized returns a copy with out-of-range values replaced by defaults.
func (o SampleOptions) normalized() SampleOptions {
	if o.MaxParticlesPerAxis < 0 {
		Logger().Warn("negative max particles per axis, sampling every pixel", "value", o.MaxParticlesPerAxis)
		o.MaxParticlesPerAxis = 0
	}
	if o.JitterRadius < 0 {
		Logger().Warn("negative jitter radius, jitter disabled", "value", o.JitterRadius)
		o.JitterRadius = 0
	}
	o.DelayTime = normalizedDelay("delay time", o.DelayTime, DefaultDelayTime)
	o.DelayDuration = normalizedDelay("delay duration", o.DelayDuration, DefaultDelayDuration)
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// normalizedDelay returns def for the zero range and for ranges that could
// draw a negative delay or are inverted.
func normalizedDelay(name string, r, def Range) Range {
	if r == (Range{}) {
		return def
	}
	if r.Min < 0 || r.Max < r.Min {
		Logger().Warn("invalid "+name+" range, using default", "min", r.Min, "max", r.Max)
		return def
	}
	return r
}

// Sample reads img and returns one particle per sampled, unfiltered pixel in
// row-major order. It fails with ErrInvalidImage when img is nil, has zero
// width or height, or its pixels cannot be read; no particles are returned
// in that case.
func Sample(img image.Image, opts SampleOptions) (*ParticleSet, error) {
	if img == nil {
		return nil, fmt.Errorf("sample: nil image: %w", ErrInvalidImage)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sample: size %dx%d: %w", w, h, ErrInvalidImage)
	}
	opts = opts.normalized()

	buf := borrowNRGBA(w, h)
	defer releaseNRGBA(buf)
	if err := readPixels(buf, img); err != nil {
		return nil, err
	}

	strideX, strideY := 1, 1
	if n := opts.MaxParticlesPerAxis; n > 0 {
		strideX = max(w/n, 1)
		strideY = max(h/n, 1)
	}

	set := &ParticleSet{Width: w, Height: h}
	for y := 0; y < h; y += strideY {
		for x := 0; x < w; x += strideX {
			i := buf.PixOffset(x, y)
			c := Color{
				R: float64(buf.Pix[i]) / 255.0,
				G: float64(buf.Pix[i+1]) / 255.0,
				B: float64(buf.Pix[i+2]) / 255.0,
				A: float64(buf.Pix[i+3]) / 255.0,
			}
			if skipPixel(c, opts.IgnoreBlack, opts.IgnoreWhite) {
				continue
			}
			p := newParticle(c, x, y, opts.DelayTime, opts.DelayDuration, opts.Rand)
			if opts.OverrideColor != nil {
				p = p.withOverride(*opts.OverrideColor)
			}
			p = p.withJitter(opts.JitterRadius, opts.Rand)
			set.Particles = append(set.Particles, p)
		}
	}

	Logger().Debug("sampled image",
		"width", w, "height", h,
		"strideX", strideX, "strideY", strideY,
		"particles", len(set.Particles))
	return set, nil
}

// skipPixel reports whether a sampled color produces no particle.
func skipPixel(c Color, ignoreBlack, ignoreWhite bool) bool {
	if c.A == 0 {
		return true
	}
	sum := c.R + c.G + c.B
	return (ignoreWhite && sum == 3) || (ignoreBlack && sum == 0)
}

// readPixels converts src into dst as straight-alpha RGBA8. Images whose
// At method panics are reported as ErrInvalidImage.
func readPixels(dst *image.NRGBA, src image.Image) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sample: read pixels: %v: %w", r, ErrInvalidImage)
		}
	}()
	draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
	return nil
}
