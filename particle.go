package materialize

import "math/rand/v2"

// Default delay bounds, in clock units.
var (
	DefaultDelayTime     = Range{0, 30}
	DefaultDelayDuration = Range{0, 10}
)

// Particle is one sampled pixel: its color, its destination inside the source
// image, and two random timing offsets fixed at construction.
type Particle struct {
	Color Color
	// Target is the pixel position relative to the image origin.
	Target Vec2
	// DelayTime is the number of clock units before the particle spawns.
	DelayTime int
	// DelayDuration is added to the base animation duration for this particle.
	DelayDuration int
}

// newParticle builds a particle at (x, y) and draws its timing offsets.
func newParticle(c Color, x, y int, delayTime, delayDuration Range, rng *rand.Rand) Particle {
	return Particle{
		Color:         c,
		Target:        Vec2{float64(x), float64(y)},
		DelayTime:     delayTime.Draw(rng),
		DelayDuration: delayDuration.Draw(rng),
	}
}

// withOverride returns p recolored to c.
func (p Particle) withOverride(c Color) Particle {
	p.Color = c
	return p
}

// withJitter returns p with each target axis moved to a uniform value in
// [v-radius, v+radius). A non-positive radius leaves p unchanged.
func (p Particle) withJitter(radius float64, rng *rand.Rand) Particle {
	if radius <= 0 {
		return p
	}
	p.Target.X += rng.Float64()*2*radius - radius
	p.Target.Y += rng.Float64()*2*radius - radius
	return p
}

// ParticleSet is the ordered output of Sample. Particles are stored in
// row-major traversal order. Width and Height are the source image size and
// are used to recenter the set on the render surface.
type ParticleSet struct {
	Particles []Particle
	Width     int
	Height    int
}

// Len returns the number of particles, or 0 for a nil set.
func (s *ParticleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Particles)
}

// MaxArrival returns the largest DelayTime + duration + DelayDuration over
// the set: the clock value at which the last particle arrives.
func (s *ParticleSet) MaxArrival(duration float64) float64 {
	var m float64
	if s == nil {
		return m
	}
	for i := range s.Particles {
		p := &s.Particles[i]
		if t := float64(p.DelayTime) + duration + float64(p.DelayDuration); t > m {
			m = t
		}
	}
	return m
}
