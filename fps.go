package materialize

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DrawOverlay prints FPS/TPS and the engine's lifecycle state in the top-left
// corner of target.
func DrawOverlay(target *ebiten.Image, e *Engine) {
	frame := e.Frame()
	ebitenutil.DebugPrint(target, fmt.Sprintf(
		"FPS: %.1f\nTPS: %.1f\nstate: %s\nclock: %.1f\nparticles: %d/%d\ncycles: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		e.State(), e.Clock(),
		len(frame.Placements), e.Particles().Len(),
		e.Cycles(),
	))
}
