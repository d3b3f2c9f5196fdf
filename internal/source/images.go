package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	. "github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/raster"
)

// Glob lists the files of dir whose base name matches pattern, sorted by name.
func Glob(dir, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("source: bad pattern %q: %w", pattern, err)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range ents {
		if !e.IsDir() && g.Match(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

type ImageConfig struct {
	Columns int
	Scale   float64
	// Loop restarts from the first file after the last one.
	Loop bool
}

var _ Source = (*ImageSource)(nil)

// ImageSource decodes still images (png, jpeg, gif, bmp, webp) one per
// frame. Animated GIFs yield every frame.
type ImageSource struct {
	cfg     ImageConfig
	paths   []string
	next    int
	pending []*raster.Gray
	log     Logger
}

func NewImageSource(paths []string, cfg ImageConfig, lx LoggerX) *ImageSource {
	return &ImageSource{cfg: cfg, paths: paths, log: NewLogToX(lx, "images")}
}

func (s *ImageSource) Next(ctx context.Context) (raster.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for len(s.pending) == 0 {
		if s.next >= len(s.paths) {
			if !s.cfg.Loop || len(s.paths) == 0 {
				return nil, io.EOF
			}
			s.next = 0
		}
		p := s.paths[s.next]
		s.next++
		frames, err := s.load(p)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", p, err)
		}
		s.pending = frames
	}
	m := s.pending[0]
	s.pending = s.pending[1:]
	return m, nil
}

func (s *ImageSource) Close() error {
	s.pending = nil
	s.next = len(s.paths)
	return nil
}

func (s *ImageSource) load(p string) ([]*raster.Gray, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return s.decode(data)
}

func (s *ImageSource) decode(data []byte) ([]*raster.Gray, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	s.log.LogPrintf(DEBUG, "decoding %s image of %d bytes", format, len(data))

	switch format {
	case "gif":
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		frames := composeGIF(g)
		out := make([]*raster.Gray, len(frames))
		for i, f := range frames {
			if out[i], err = Prepare(f, s.cfg.Columns, s.cfg.Scale); err != nil {
				return nil, err
			}
		}
		return out, nil
	case "jpeg", "png", "bmp", "webp":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if format == "jpeg" {
			img = orientImage(exifOrient(bytes.NewReader(data)), img)
		}
		g, err := Prepare(img, s.cfg.Columns, s.cfg.Scale)
		if err != nil {
			return nil, err
		}
		return []*raster.Gray{g}, nil
	default:
		return nil, fmt.Errorf("%w: format %q", ErrUnsupported, format)
	}
}

// composeGIF draws each frame over the previous canvas, honoring the
// background and previous disposal methods.
func composeGIF(g *gif.GIF) []image.Image {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		for _, p := range g.Image {
			w = max(w, p.Rect.Max.X)
			h = max(h, p.Rect.Max.Y)
		}
	}
	bounds := image.Rect(0, 0, w, h)
	canvas := image.NewRGBA(bounds)
	out := make([]image.Image, 0, len(g.Image))
	for i, p := range g.Image {
		var saved *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewRGBA(bounds)
			draw.Draw(saved, bounds, canvas, image.Point{}, draw.Src)
		}
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

		frame := image.NewRGBA(bounds)
		draw.Draw(frame, bounds, canvas, image.Point{}, draw.Src)
		out = append(out, frame)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	return out
}
