package logx

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	min   Level
	lines []string
}

func (r *recorder) Level() Level { return r.min }
func (r *recorder) LogPrintX(section string, lvl Level, v ...any) {
	if lvl >= r.min {
		r.lines = append(r.lines, fmt.Sprintf("%s %s %s", lvl, section, fmt.Sprint(v...)))
	}
}
func (r *recorder) LogPrintfX(section string, lvl Level, f string, v ...any) {
	r.LogPrintX(section, lvl, fmt.Sprintf(f, v...))
}

func TestLogToX(t *testing.T) {
	r := &recorder{min: INFO}
	l := NewLogToX(r, "player")
	l.LogPrint(DEBUG, "hidden")
	l.LogPrintf(WARN, "%d frames dropped", 3)
	assert.Equal(t, []string{"warn player 3 frames dropped"}, r.lines)
	assert.Equal(t, INFO, l.Level())
}

func TestParseLevel(t *testing.T) {
	for lvl := DEBUG; lvl < LevelCount; lvl++ {
		got, err := ParseLevel(lvl.String())
		require.NoError(t, err)
		assert.Equal(t, lvl, got)
	}
	got, err := ParseLevel(" Warning ")
	require.NoError(t, err)
	assert.Equal(t, WARN, got)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWriter(t *testing.T) {
	r := &recorder{min: DEBUG}
	w := NewWriter(NewLogToX(r, "ffmpeg"), NOTICE)
	_, err := io.WriteString(w, "frame=1\n\nframe=2\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"notice ffmpeg frame=1", "notice ffmpeg frame=2"}, r.lines)

	r = &recorder{min: ERROR}
	w = NewWriter(NewLogToX(r, "ffmpeg"), NOTICE)
	n, err := io.WriteString(w, "ignored\n")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Empty(t, r.lines)
}
