package logx

import (
	"fmt"
	"io"
	"strings"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	NOTICE
	WARN
	ERROR
	CRITICAL
	LevelCount
)

var levelNames = [LevelCount]string{
	DEBUG:    "debug",
	INFO:     "info",
	NOTICE:   "notice",
	WARN:     "warn",
	ERROR:    "error",
	CRITICAL: "critical",
}

func (l Level) String() string {
	if l >= 0 && l < LevelCount {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts level names as printed by Level.String.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return WARN, nil
	}
	for i, n := range levelNames {
		if n == s {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// LoggerX is a logger shared by several sections of the program.
type LoggerX interface {
	Level() Level
	LogPrintX(section string, lvl Level, v ...any)
	LogPrintfX(section string, lvl Level, fmt string, v ...any)
}

// Logger is a LoggerX bound to one section.
type Logger interface {
	Level() Level
	LogPrint(lvl Level, v ...any)
	LogPrintf(lvl Level, fmt string, v ...any)
}

var _ Logger = LogToX{}

type LogToX struct {
	section string
	logx    LoggerX
}

func NewLogToX(logx LoggerX, section string) LogToX {
	return LogToX{section: section, logx: logx}
}

func (l LogToX) Level() Level {
	return l.logx.Level()
}
func (l LogToX) LogPrint(lvl Level, v ...any) {
	l.logx.LogPrintX(l.section, lvl, v...)
}
func (l LogToX) LogPrintf(lvl Level, fmt string, v ...any) {
	l.logx.LogPrintfX(l.section, lvl, fmt, v...)
}

var _ LoggerX = NopLogger{}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Level() Level                             { return LevelCount }
func (NopLogger) LogPrintX(string, Level, ...any)          {}
func (NopLogger) LogPrintfX(string, Level, string, ...any) {}

// NewWriter returns a writer logging each written line at lvl.
// Used to forward output of child processes.
func NewWriter(log Logger, lvl Level) io.Writer {
	return lineWriter{log: log, lvl: lvl}
}

type lineWriter struct {
	log Logger
	lvl Level
}

func (w lineWriter) Write(b []byte) (int, error) {
	if w.lvl < w.log.Level() {
		return len(b), nil
	}
	for _, line := range strings.Split(strings.TrimRight(string(b), "\n"), "\n") {
		if line != "" {
			w.log.LogPrint(w.lvl, line)
		}
	}
	return len(b), nil
}
