package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mush1e/ascii-cam/internal/config"
	. "github.com/mush1e/ascii-cam/internal/logx"
)

// Open builds the source described by sc producing frames for the given
// column count and scale.
func Open(
	ctx context.Context, sc config.SourceConfig, columns int, scale float64,
	lx LoggerX) (Source, error) {

	switch sc.Kind {
	case "webcam":
		return OpenFFmpeg(ctx, FFmpegConfig{
			FFmpeg:        sc.FFmpeg,
			FFprobe:       sc.FFprobe,
			Input:         sc.Device,
			Format:        sc.Format,
			CaptureWidth:  sc.Width,
			CaptureHeight: sc.Height,
			CaptureFPS:    sc.FPS,
			Columns:       columns,
			Scale:         scale,
		}, lx)
	case "video":
		if sc.Input == "" {
			return nil, fmt.Errorf("%w: video source without input", ErrUnsupported)
		}
		return OpenFFmpeg(ctx, FFmpegConfig{
			FFmpeg:    sc.FFmpeg,
			FFprobe:   sc.FFprobe,
			Input:     sc.Input,
			OutputFPS: sc.FPS,
			Columns:   columns,
			Scale:     scale,
		}, lx)
	case "images":
		paths, err := imagePaths(sc)
		if err != nil {
			return nil, err
		}
		return NewImageSource(paths, ImageConfig{
			Columns: columns,
			Scale:   scale,
			Loop:    sc.Loop,
		}, lx), nil
	default:
		return nil, fmt.Errorf("%w: source kind %q", ErrUnsupported, sc.Kind)
	}
}

func imagePaths(sc config.SourceConfig) ([]string, error) {
	if sc.Pattern == "" {
		if sc.Input == "" {
			return nil, fmt.Errorf("%w: image source without input", ErrUnsupported)
		}
		return []string{sc.Input}, nil
	}
	dir := sc.Input
	if dir == "" {
		dir = "."
	}
	paths, err := Glob(filepath.Clean(dir), sc.Pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files in %q match %q", ErrUnsupported, dir, sc.Pattern)
	}
	return paths, nil
}
