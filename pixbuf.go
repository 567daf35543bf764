package materialize

import (
	"image"
	"sync"
	"sync/atomic"
)

// pixPool recycles the transient straight-alpha buffers the sampler decodes
// into. Buffers are borrowed for the duration of one Sample call.
var pixPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0)
		return &b
	},
}

// borrowedBuffers counts buffers currently checked out of pixPool.
var borrowedBuffers atomic.Int64

// borrowNRGBA returns a zeroed w x h NRGBA image backed by a pooled buffer.
// Every call must be paired with releaseNRGBA.
func borrowNRGBA(w, h int) *image.NRGBA {
	bp := pixPool.Get().(*[]byte)
	n := 4 * w * h
	if cap(*bp) < n {
		*bp = make([]byte, n)
	}
	pix := (*bp)[:n]
	clear(pix)
	borrowedBuffers.Add(1)
	return &image.NRGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// releaseNRGBA returns img's buffer to the pool. img must not be used after.
func releaseNRGBA(img *image.NRGBA) {
	pix := img.Pix[:0]
	img.Pix = nil
	pixPool.Put(&pix)
	borrowedBuffers.Add(-1)
}
