package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	. "github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/raster"
)

type FFmpegConfig struct {
	FFmpeg  string // binary, "ffmpeg" when empty
	FFprobe string // binary, "ffprobe" when empty
	Input   string
	// Format is the demuxer forced with -f, e.g. "v4l2" for a webcam.
	Format string
	// Capture options for devices; 0 keeps the device default.
	CaptureWidth, CaptureHeight, CaptureFPS int
	// OutputFPS resamples the stream with the fps filter when > 0.
	OutputFPS int
	Columns   int
	Scale     float64
}

var _ Source = (*FFmpeg)(nil)

// FFmpeg decodes any input ffmpeg understands into fixed size gray frames
// read from a rawvideo pipe.
type FFmpeg struct {
	cmd     *exec.Cmd
	out     io.ReadCloser
	w, h    int
	log     Logger
	closed  sync.Once
	waited  sync.Once
	waitErr error
}

// OpenFFmpeg starts ffmpeg. The input size is probed unless the capture size
// is given. The process is killed when ctx is done.
func OpenFFmpeg(ctx context.Context, cfg FFmpegConfig, lx LoggerX) (*FFmpeg, error) {
	log := NewLogToX(lx, "ffmpeg")

	iw, ih := cfg.CaptureWidth, cfg.CaptureHeight
	if iw <= 0 || ih <= 0 {
		var err error
		iw, ih, err = Probe(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	w, h := TargetSize(iw, ih, cfg.Columns, cfg.Scale)
	if err := CheckFrameSize(w, h); err != nil {
		return nil, err
	}
	log.LogPrintf(INFO, "input %q %dx%d, frames %dx%d", cfg.Input, iw, ih, w, h)

	bin := cfg.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, ffmpegArgs(cfg, w, h)...)
	cmd.Stderr = NewWriter(log, WARN)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("source: creating stdout pipe: %w", err)
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("source: starting ffmpeg: %w", err)
	}

	return &FFmpeg{cmd: cmd, out: out, w: w, h: h, log: log}, nil
}

// wait reaps the process once and returns its exit status.
func (f *FFmpeg) wait() error {
	f.waited.Do(func() {
		f.waitErr = f.cmd.Wait()
		if f.waitErr != nil {
			f.log.LogPrintf(DEBUG, "ffmpeg process ended with error: %v", f.waitErr)
		}
	})
	return f.waitErr
}

func ffmpegArgs(cfg FFmpegConfig, w, h int) []string {
	args := []string{"-nostdin", "-loglevel", "error"}
	if cfg.Format != "" {
		args = append(args, "-f", cfg.Format)
		if cfg.CaptureWidth > 0 && cfg.CaptureHeight > 0 {
			args = append(args, "-video_size",
				strconv.Itoa(cfg.CaptureWidth)+"x"+strconv.Itoa(cfg.CaptureHeight))
		}
		if cfg.CaptureFPS > 0 {
			args = append(args, "-framerate", strconv.Itoa(cfg.CaptureFPS))
		}
	}
	vf := fmt.Sprintf("scale=%d:%d:flags=lanczos,format=gray", w, h)
	if cfg.OutputFPS > 0 {
		vf = fmt.Sprintf("fps=%d,", cfg.OutputFPS) + vf
	}
	return append(args,
		"-i", cfg.Input,
		"-vf", vf,
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1",
	)
}

// Size returns the dimensions of produced frames.
func (f *FFmpeg) Size() (int, int) { return f.w, f.h }

func (f *FFmpeg) Next(ctx context.Context) (raster.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, f.w*f.h)
	if _, err := io.ReadFull(f.out, buf); err != nil {
		if err == io.EOF {
			// a clean end of stream only if ffmpeg exited cleanly
			if werr := f.wait(); werr != nil {
				return nil, fmt.Errorf("source: ffmpeg: %w", werr)
			}
			return nil, io.EOF
		}
		return nil, fmt.Errorf("source: reading frame: %w", err)
	}
	return raster.NewGray(f.w, f.h, buf)
}

// Close stops ffmpeg and waits for it to exit.
func (f *FFmpeg) Close() error {
	f.closed.Do(func() {
		f.out.Close()
		if f.cmd.Process != nil {
			f.cmd.Process.Kill()
		}
		f.wait()
	})
	return nil
}

type probeResult struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// Probe asks ffprobe for the size of the first video stream.
func Probe(ctx context.Context, cfg FFmpegConfig) (int, int, error) {
	bin := cfg.FFprobe
	if bin == "" {
		bin = "ffprobe"
	}
	args := []string{"-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height", "-of", "json"}
	if cfg.Format != "" {
		args = append(args, "-f", cfg.Format)
	}
	out, err := exec.CommandContext(ctx, bin, append(args, cfg.Input)...).Output()
	if err != nil {
		return 0, 0, fmt.Errorf("source: probing %q: %w", cfg.Input, err)
	}
	return parseProbe(out)
}

func parseProbe(b []byte) (int, int, error) {
	var pr probeResult
	if err := json.Unmarshal(b, &pr); err != nil {
		return 0, 0, fmt.Errorf("source: bad ffprobe output: %w", err)
	}
	if len(pr.Streams) == 0 || pr.Streams[0].Width <= 0 || pr.Streams[0].Height <= 0 {
		return 0, 0, fmt.Errorf("%w: no video stream", ErrUnsupported)
	}
	return pr.Streams[0].Width, pr.Streams[0].Height, nil
}
