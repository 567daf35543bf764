// Package term renders a materialize engine in a terminal using tcell.
//
// Every terminal cell shows two vertically stacked surface pixels through the
// upper half block glyph: the foreground paints the upper pixel and the
// background the lower one.
package term

import (
	"context"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/materialize"
)

const upperHalfBlock = '▀'

// DefaultFPS is the frame rate used when Options.FPS is zero.
const DefaultFPS = 30

// Options configures a terminal run.
type Options struct {
	// FPS is the frame clock rate.
	FPS int
	// Background is blended under translucent particles and fills empty cells.
	Background materialize.Color
	// OnFrame runs before each clock advance. A non-nil error ends the run.
	OnFrame func() error
	// FollowOrigin keeps the origin at the top center of the surface.
	FollowOrigin bool
}

// Surface projects engine frames onto a tcell screen.
type Surface struct {
	screen tcell.Screen
	bg     materialize.Color

	cols, rows int
	// scale is the number of engine pixels per half-cell on each axis.
	scale float64
	// pix holds one blended color per half-cell, rows*2 high; set marks
	// which entries a particle touched this frame.
	pix []materialize.Color
	set []bool
}

// NewSurface wraps an initialized screen.
func NewSurface(screen tcell.Screen, bg materialize.Color) *Surface {
	s := &Surface{screen: screen, bg: bg, scale: 1}
	s.Resize()
	return s
}

// Resize re-reads the screen size and reallocates the pixel grid.
func (s *Surface) Resize() {
	s.cols, s.rows = s.screen.Size()
	n := s.cols * s.rows * 2
	if cap(s.pix) < n {
		s.pix = make([]materialize.Color, n)
		s.set = make([]bool, n)
	}
	s.pix = s.pix[:n]
	s.set = s.set[:n]
}

// Fit picks the smallest integer scale at which a w x h image fits the grid
// and returns the engine surface size matching the grid at that scale.
func (s *Surface) Fit(w, h int) materialize.Vec2 {
	s.scale = 1
	if s.cols > 0 && s.rows > 0 {
		sx := math.Ceil(float64(w) / float64(s.cols))
		sy := math.Ceil(float64(h) / float64(s.rows*2))
		s.scale = max(1, sx, sy)
	}
	return s.Size()
}

// Size returns the engine surface size covered by the grid.
func (s *Surface) Size() materialize.Vec2 {
	return materialize.Vec2{
		X: float64(s.cols) * s.scale,
		Y: float64(s.rows*2) * s.scale,
	}
}

// Project maps a surface position onto a cell and half. ok is false when the
// position falls outside the grid.
func (s *Surface) Project(pos materialize.Vec2) (col, row int, upper, ok bool) {
	px := int(math.Floor(pos.X / s.scale))
	py := int(math.Floor(pos.Y / s.scale))
	if px < 0 || py < 0 || px >= s.cols || py >= s.rows*2 {
		return 0, 0, false, false
	}
	return px, py / 2, py%2 == 0, true
}

// Draw composites frame over the background and writes every cell.
// The caller calls Show.
func (s *Surface) Draw(frame materialize.Frame) {
	for i := range s.pix {
		s.pix[i] = s.bg
		s.set[i] = false
	}
	for i := range frame.Placements {
		p := &frame.Placements[i]
		col, row, upper, ok := s.Project(p.Pos)
		if !ok {
			continue
		}
		idx := (row*2)*s.cols + col
		if !upper {
			idx += s.cols
		}
		s.pix[idx] = over(p.Color, s.pix[idx])
		s.set[idx] = true
	}
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			top := s.pix[(row*2)*s.cols+col]
			bottom := s.pix[(row*2+1)*s.cols+col]
			style := tcell.StyleDefault.
				Foreground(toTcell(top)).
				Background(toTcell(bottom))
			s.screen.SetContent(col, row, upperHalfBlock, nil, style)
		}
	}
}

// Lit reports whether a particle touched the given cell half in the last Draw.
func (s *Surface) Lit(col, row int, upper bool) bool {
	idx := (row*2)*s.cols + col
	if !upper {
		idx += s.cols
	}
	if idx < 0 || idx >= len(s.set) {
		return false
	}
	return s.set[idx]
}

// over composites src onto an opaque dst.
func over(src, dst materialize.Color) materialize.Color {
	a := src.A
	return materialize.Color{
		R: src.R*a + dst.R*(1-a),
		G: src.G*a + dst.G*(1-a),
		B: src.B*a + dst.B*(1-a),
		A: 1,
	}
}

func toTcell(c materialize.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(math.Round(min(max(v, 0), 1) * 255))
}

// Run drives clock at opts.FPS, draws e's frames on screen and handles keys
// until ctx is done, the user quits (q, Esc, Ctrl-C) or OnFrame fails.
// Keys: Space pauses or resumes, r restarts, x resets.
// screen must be initialized; Run does not call Fini.
func Run(ctx context.Context, screen tcell.Screen, e *materialize.Engine, clock *materialize.FrameClock, opts Options) error {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	surface := NewSurface(screen, opts.Background)
	fit := func() {
		size := surface.Size()
		if set := e.Particles(); set != nil {
			size = surface.Fit(set.Width, set.Height)
		}
		e.SetSurface(size)
		if opts.FollowOrigin {
			e.SetOrigin(materialize.Vec2{X: size.X / 2})
		}
	}
	fit()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	dt := 1.0 / float64(fps)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				surface.Resize()
				fit()
				screen.Sync()
			case *tcell.EventKey:
				if handleKey(ev, e) {
					return nil
				}
			}
		case <-ticker.C:
			if opts.OnFrame != nil {
				if err := opts.OnFrame(); err != nil {
					return err
				}
			}
			prev := e.Particles()
			clock.Advance(dt)
			if e.Particles() != prev {
				fit()
			}
			surface.Draw(e.Frame())
			screen.Show()
		}
	}
}

// handleKey applies a lifecycle key and reports whether to quit.
func handleKey(ev *tcell.EventKey, e *materialize.Engine) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			if e.State() == materialize.StatePaused {
				e.Resume()
			} else {
				e.Pause()
			}
		case 'r':
			e.Restart()
		case 'x':
			e.Reset()
		}
	}
	return false
}
