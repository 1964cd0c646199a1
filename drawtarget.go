package vitrine

import (
	"image"
	"image/color"
	"image/draw"
)

// DrawTarget exposes the in-progress buffer's memory as a drawable image.
// It is only valid between the Lock that produced it and the following
// Commit; the painting caller is the sole writer in that span.
type DrawTarget struct {
	buffer *PixelBuffer
	img    *image.RGBA
}

func newDrawTarget(buffer *PixelBuffer) *DrawTarget {
	return &DrawTarget{
		buffer: buffer,
		img: &image.RGBA{
			Pix:    buffer.Data(),
			Stride: buffer.Stride(),
			Rect:   buffer.Size().Bounds(),
		},
	}
}

// RGBA is the buffer memory viewed as an image. Writes land directly in the
// shared memory region.
func (self *DrawTarget) RGBA() *image.RGBA {
	return self.img
}

func (self *DrawTarget) Bounds() image.Rectangle {
	return self.img.Rect
}

func (self *DrawTarget) Fill(rect image.Rectangle, c color.RGBA) {
	draw.Draw(self.img, rect.Intersect(self.img.Rect), image.NewUniform(c), image.Point{}, draw.Src)
}
