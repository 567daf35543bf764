// Package materialize turns a raster image into a field of colored point
// particles and animates them from a single origin onto their sampled
// positions, each particle with its own spawn delay and duration.
//
// # Sampling
//
// [Sample] walks an image's pixels in row-major order, optionally striding to
// bound the particle count, skips transparent (and optionally pure black or
// white) pixels and emits one [Particle] per remaining pixel:
//
//	set, err := materialize.Sample(img, materialize.SampleOptions{
//		MaxParticlesPerAxis: 200,
//		IgnoreWhite:         true,
//		Rand:                materialize.NewRand(42),
//	})
//
// # Animation
//
// An [Engine] owns a particle set and a clock. It attaches to a [TickSource];
// every tick advances the clock by a fixed step, recomputes each particle's
// position with [EaseInOutQuad] and hands the resulting [Frame] to the
// renderer. When every particle has arrived the clock resets and each
// [CompletionListener] is notified, and the next cycle begins.
//
//	clock := materialize.NewFrameClock()
//	engine := materialize.NewEngine(clock, materialize.EngineOptions{
//		Origin:  materialize.Vec2{X: 400},
//		Surface: materialize.Vec2{X: 800, Y: 600},
//	})
//	engine.SetParticles(set)
//	clock.Advance(1.0 / 60) // once per displayed frame
//
// [Engine.Pause], [Engine.Resume], [Engine.Reset] and [Engine.Restart] drive
// the Stopped/Running/Paused lifecycle. All engine calls must come from the
// goroutine that advances the clock.
//
// # Hosts
//
// [Game] runs an engine inside an [Ebitengine] window. The term subpackage
// renders to a terminal with tcell, chime plays a sound on completion and
// watch reloads configuration and images when they change on disk.
//
// [Ebitengine]: https://ebitengine.org
package materialize
