package materialize

import "github.com/hajimehoshi/ebiten/v2"

// BlendMode selects how particles are composited onto the surface.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
)

// ParseBlendMode maps "normal" and "add" to a BlendMode. Anything else is
// BlendNormal.
func ParseBlendMode(s string) BlendMode {
	if s == "add" {
		return BlendAdd
	}
	return BlendNormal
}

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	if b == BlendAdd {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}

// maxBatchQuads caps the quads submitted per DrawTriangles32 call.
const maxBatchQuads = 1 << 14

// Renderer draws frames as batched unit quads. The zero value is ready to
// use; its vertex buffers are reused between frames.
type Renderer struct {
	Blend BlendMode

	verts []ebiten.Vertex
	inds  []uint32
}

// DrawFrame draws one 1x1 colored square per placement onto target.
func (r *Renderer) DrawFrame(target *ebiten.Image, frame Frame) {
	ps := frame.Placements
	for len(ps) > 0 {
		n := min(len(ps), maxBatchQuads)
		r.submit(target, ps[:n])
		ps = ps[n:]
	}
}

func (r *Renderer) submit(target *ebiten.Image, ps []Placement) {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]

	// Corners of the unit quad: (0,0), (1,0), (0,1), (1,1).
	qx := [4]float32{0, 1, 0, 1}
	qy := [4]float32{0, 0, 1, 1}

	for i := range ps {
		p := &ps[i]
		cr, cg, cb, ca := p.Color.premul()
		x, y := float32(p.Pos.X), float32(p.Pos.Y)
		base := uint32(len(r.verts))
		for j := 0; j < 4; j++ {
			r.verts = append(r.verts, ebiten.Vertex{
				DstX:   x + qx[j],
				DstY:   y + qy[j],
				SrcX:   qx[j],
				SrcY:   qy[j],
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		r.inds = append(r.inds,
			base+0, base+1, base+2,
			base+1, base+3, base+2,
		)
	}
	if len(r.verts) == 0 {
		return
	}

	var op ebiten.DrawTrianglesOptions
	op.Blend = r.Blend.EbitenBlend()
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	target.DrawTriangles32(r.verts, r.inds, WhitePixel, &op)
}
