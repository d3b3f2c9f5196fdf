package filelogger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"

	"github.com/mush1e/ascii-cam/internal/logx"
)

type UseColor int

const (
	ColorAuto UseColor = iota
	ColorOn
	ColorOff
)

// ParseUseColor accepts "auto" (or ""), "on" and "off".
func ParseUseColor(s string) (UseColor, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always":
		return ColorOn, nil
	case "off", "never":
		return ColorOff, nil
	}
	return 0, fmt.Errorf("unknown color mode %q", s)
}

type logLevels [logx.LevelCount]string

var levelstrings = [2]logLevels{
	// uncolored
	{
		logx.DEBUG:    "   DEBUG",
		logx.INFO:     "    INFO",
		logx.NOTICE:   "  NOTICE",
		logx.WARN:     " WARNING",
		logx.ERROR:    "   ERROR",
		logx.CRITICAL: "CRITICAL",
	},
	// colored
	{
		logx.DEBUG:    "\033[37m   DEBUG\033[0m",
		logx.INFO:     "\033[34m    INFO\033[0m",
		logx.NOTICE:   "\033[32m  NOTICE\033[0m",
		logx.WARN:     "\033[33m WARNING\033[0m",
		logx.ERROR:    "\033[31m   ERROR\033[0m",
		logx.CRITICAL: "\033[35mCRITICAL\033[0m",
	},
}

var formatstrings = [2]string{
	" %s [%s] ",
	" %s [\033[36m%s\033[0m] ",
}

var timeformats = [2]string{
	"2006-01-02 15:04:05",
	"15:04:05",
}

var _ logx.LoggerX = (*FileLogger)(nil)

type FileLogger struct {
	l   sync.Mutex
	w   splitter
	t   uint // 1 when colored
	m   logx.Level
	now func() time.Time
}

// NewFileLogger logs to f. With ColorAuto, colors are used only when f is a
// terminal.
func NewFileLogger(f *os.File, logLevel logx.Level, c UseColor) *FileLogger {
	fd := f.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if c == ColorOn || (c == ColorAuto && tty) {
		return New(colorable.NewColorable(f), logLevel, true)
	}
	return New(f, logLevel, false)
}

// New logs to w without any terminal detection.
func New(w io.Writer, logLevel logx.Level, colored bool) *FileLogger {
	l := &FileLogger{m: logLevel, now: time.Now}
	l.w.w = bufio.NewWriter(w)
	if colored {
		l.t = 1
	}
	return l
}

func (l *FileLogger) Level() logx.Level {
	return l.m
}

func (l *FileLogger) prepareWrite(section string, lvl logx.Level) {
	l.w.reset()
	l.w.p.WriteString(l.now().Format(timeformats[l.t]))
	fmt.Fprintf(&l.w.p, formatstrings[l.t], levelstrings[l.t][lvl], section)
}

func (l *FileLogger) LogPrintX(section string, lvl logx.Level, v ...any) {
	if l.m > lvl {
		return
	}

	l.l.Lock()
	defer l.l.Unlock()

	l.prepareWrite(section, lvl)
	fmt.Fprint(&l.w, v...)
	l.w.finish()
}

func (l *FileLogger) LogPrintfX(section string, lvl logx.Level, fmts string, v ...any) {
	if l.m > lvl {
		return
	}

	l.l.Lock()
	defer l.l.Unlock()

	l.prepareWrite(section, lvl)
	fmt.Fprintf(&l.w, fmts, v...)
	l.w.finish()
}
