package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Matrix is a read-only grid of brightness samples in [0, 255].
type Matrix interface {
	Width() int
	Height() int
	// Row returns exactly Width samples of row y. Callers must not modify
	// the slice. Implementations must be safe for concurrent reads.
	Row(y int) []byte
}

// Gray is a row-major Matrix backed by a byte slice.
type Gray struct {
	w, h   int
	stride int
	pix    []byte
}

var _ Matrix = (*Gray)(nil)

// NewGray wraps pix as a w x h matrix. pix is not copied.
func NewGray(w, h int, pix []byte) (*Gray, error) {
	return NewGrayStride(w, h, w, pix)
}

// NewGrayStride is NewGray for buffers whose rows are stride bytes apart.
func NewGrayStride(w, h, stride int, pix []byte) (*Gray, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidMatrix, w, h)
	}
	if stride < w {
		return nil, fmt.Errorf("%w: stride %d < width %d", ErrInvalidMatrix, stride, w)
	}
	if h > 0 && len(pix) < (h-1)*stride+w {
		return nil, fmt.Errorf(
			"%w: buffer of %d bytes too short for %dx%d", ErrInvalidMatrix, len(pix), w, h)
	}
	return &Gray{w: w, h: h, stride: stride, pix: pix}, nil
}

// GrayFromImage converts img to brightness samples using the standard luma model.
func GrayFromImage(img image.Image) *Gray {
	b := img.Bounds()
	if b.Empty() {
		return &Gray{}
	}
	if g, ok := img.(*image.Gray); ok {
		off := g.PixOffset(b.Min.X, b.Min.Y)
		return &Gray{w: b.Dx(), h: b.Dy(), stride: g.Stride, pix: g.Pix[off:]}
	}
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			pix[y*w+x] = c.Y
		}
	}
	return &Gray{w: w, h: h, stride: w, pix: pix}
}

func (g *Gray) Width() int  { return g.w }
func (g *Gray) Height() int { return g.h }

func (g *Gray) Row(y int) []byte {
	off := y * g.stride
	return g.pix[off : off+g.w : off+g.w]
}

// Uniform returns a w x h matrix where every sample is v.
func Uniform(w, h int, v byte) *Gray {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = v
	}
	return &Gray{w: w, h: h, stride: w, pix: pix}
}
