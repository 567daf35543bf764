package materialize

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// GameOptions configures a Game.
type GameOptions struct {
	// Background is the surface clear color.
	Background Color
	// Blend is the particle blend mode.
	Blend BlendMode
	// ShowOverlay prints FPS and engine state in the corner.
	ShowOverlay bool
	// MarkerColor tints the origin pulse shown when a cycle completes.
	// The zero value uses white.
	MarkerColor Color
	// ScreenshotDir overrides DefaultScreenshotDir.
	ScreenshotDir string
	// Script, when set, is stepped once per frame before the clock advances.
	Script *Script
	// OnUpdate runs at the start of every Update. A non-nil error ends the game.
	OnUpdate func() error
	// FollowOrigin keeps the origin at the top center of the window as it
	// is resized.
	FollowOrigin bool
}

// Game hosts an Engine in an Ebitengine window. Update advances the frame
// clock, Draw renders the engine's latest frame and Layout keeps the engine
// centered on the window.
//
// Keys: Space pauses or resumes, R restarts, X resets, S takes a screenshot.
type Game struct {
	engine   *Engine
	clock    *FrameClock
	renderer Renderer
	pulse    *Pulse
	shots    screenshotQueue
	stats    frameStats
	opts     GameOptions
}

// NewGame wraps e, which must be attached to clock.
func NewGame(clock *FrameClock, e *Engine, opts GameOptions) *Game {
	if opts.MarkerColor == (Color{}) {
		opts.MarkerColor = ColorWhite
	}
	g := &Game{
		engine:   e,
		clock:    clock,
		renderer: Renderer{Blend: opts.Blend},
		pulse:    NewPulse(1, 0, 0.5, ease.OutQuad),
		shots:    screenshotQueue{dir: opts.ScreenshotDir},
		opts:     opts,
	}
	e.AddListener(g.pulse)
	return g
}

// Engine returns the hosted engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Screenshot queues a labeled capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.shots.push(label)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.opts.OnUpdate != nil {
		if err := g.opts.OnUpdate(); err != nil {
			return err
		}
	}
	g.handleKeys()
	if g.opts.Script != nil {
		g.opts.Script.Step(g.engine, g.Screenshot)
	}

	dt := 1.0 / float64(ebiten.TPS())
	t0 := time.Now()
	g.clock.Advance(dt)
	g.stats.addTick(time.Since(t0))
	g.pulse.Update(float32(dt))
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.engine.State() == StatePaused {
			g.engine.Resume()
		} else {
			g.engine.Pause()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.engine.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.engine.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.Screenshot("key")
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	t0 := time.Now()
	screen.Fill(g.opts.Background.toRGBA())
	frame := g.engine.Frame()
	g.renderer.DrawFrame(screen, frame)
	DrawOriginMarker(screen, g.engine.Origin(), g.pulse, g.opts.MarkerColor)
	g.stats.addDraw(time.Since(t0), len(frame.Placements))

	// Capture before the overlay so screenshots show only the scene.
	g.shots.flush(screen)
	if g.opts.ShowOverlay {
		DrawOverlay(screen, g.engine)
	}
}

// Layout implements ebiten.Game. The surface follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := Vec2{X: float64(outsideWidth), Y: float64(outsideHeight)}
	if size != g.engine.Surface() {
		g.engine.SetSurface(size)
		if g.opts.FollowOrigin {
			g.engine.SetOrigin(Vec2{X: size.X / 2})
		}
	}
	return outsideWidth, outsideHeight
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title         string
	Width, Height int
}

// Run opens a window and runs g until the window closes or Update fails.
func Run(g *Game, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "materialize"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
