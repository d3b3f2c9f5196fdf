package sink

import (
	"bufio"
	"io"
	"os"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"github.com/zeebo/blake3"

	"github.com/mush1e/ascii-cam/internal/raster"
)

// Sink displays rasterized frames.
type Sink interface {
	WriteFrame(f raster.Frame) error
	Close() error
}

const clearScreen = "\033[H\033[2J"

type TerminalConfig struct {
	// Clear repaints from the top-left corner of a cleared screen.
	Clear bool
	// Dedupe skips frames identical to the last one written.
	Dedupe bool
}

var _ Sink = (*Terminal)(nil)

// Terminal writes each frame as text followed by a newline.
type Terminal struct {
	w    *bufio.Writer
	cfg  TerminalConfig
	last [32]byte
	have bool

	Written, Skipped int
}

// NewTerminal writes to f. Clearing is disabled when f is not a terminal so
// piped output stays plain text.
func NewTerminal(f *os.File, cfg TerminalConfig) *Terminal {
	fd := f.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return NewWriter(colorable.NewColorable(f), cfg)
	}
	cfg.Clear = false
	return NewWriter(f, cfg)
}

func NewWriter(w io.Writer, cfg TerminalConfig) *Terminal {
	return &Terminal{w: bufio.NewWriterSize(w, 64<<10), cfg: cfg}
}

func (t *Terminal) WriteFrame(f raster.Frame) error {
	s := f.String()
	if t.cfg.Dedupe {
		sum := blake3.Sum256([]byte(s))
		if t.have && sum == t.last {
			t.Skipped++
			return nil
		}
		t.last, t.have = sum, true
	}
	if t.cfg.Clear {
		t.w.WriteString(clearScreen)
	}
	t.w.WriteString(s)
	t.w.WriteByte('\n')
	t.Written++
	return t.w.Flush()
}

func (t *Terminal) Close() error {
	return t.w.Flush()
}
