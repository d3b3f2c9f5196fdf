package source

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/mush1e/ascii-cam/internal/raster"
)

// maxFramePixels bounds the size of a prepared frame.
const maxFramePixels = 1 << 26

// CheckFrameSize rejects frame sizes that are not positive or too large to
// allocate.
func CheckFrameSize(w, h int) error {
	if w <= 0 || h <= 0 || float64(w)*float64(h) > maxFramePixels {
		return fmt.Errorf("%w: frame size %dx%d", ErrUnsupported, w, h)
	}
	return nil
}

// TargetSize is the size a w x h frame is resized to before rasterizing into
// cols columns: one sample per column, rows shrunk by scale. Both sides are at
// least 1.
func TargetSize(w, h, cols int, scale float64) (int, int) {
	tw := cols
	th := 0
	if w > 0 {
		fh := float64(tw) * (float64(h) / float64(w)) * scale
		if !(fh < math.MaxInt32) {
			fh = math.MaxInt32
		}
		th = int(fh)
	}
	if tw <= 0 {
		tw = 1
	}
	if th <= 0 {
		th = 1
	}
	return tw, th
}

// Prepare resizes img to TargetSize with a Lanczos filter and converts it to
// brightness samples.
func Prepare(img image.Image, cols int, scale float64) (*raster.Gray, error) {
	b := img.Bounds()
	tw, th := TargetSize(b.Dx(), b.Dy(), cols, scale)
	if err := CheckFrameSize(tw, th); err != nil {
		return nil, err
	}
	return grayFromNRGBA(imaging.Grayscale(imaging.Resize(img, tw, th, imaging.Lanczos))), nil
}

// grayFromNRGBA takes the red channel of an image already made gray.
func grayFromNRGBA(img *image.NRGBA) *raster.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			pix[y*w+x] = row[x*4]
		}
	}
	g, _ := raster.NewGray(w, h, pix)
	return g
}
