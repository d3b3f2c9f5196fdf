package player

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/raster"
)

type fakeSource struct {
	frames []raster.Matrix
	err    error
	next   int
	closed bool
}

func (s *fakeSource) Next(ctx context.Context) (raster.Matrix, error) {
	if s.next >= len(s.frames) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	m := s.frames[s.next]
	s.next++
	return m, nil
}

func (s *fakeSource) Close() error { s.closed = true; return nil }

type fakeSink struct {
	frames  []string
	onFrame func()
}

func (s *fakeSink) WriteFrame(f raster.Frame) error {
	s.frames = append(s.frames, f.String())
	if s.onFrame != nil {
		s.onFrame()
	}
	return nil
}

func (s *fakeSink) Close() error { return nil }

var rc = raster.Config{Columns: 2, Scale: 1, Ramp: raster.DarkToLight}

func TestRunToEndOfStream(t *testing.T) {
	src := &fakeSource{frames: []raster.Matrix{
		raster.Uniform(4, 4, 0),
		raster.Uniform(4, 4, 255),
	}}
	snk := &fakeSink{}
	p := New(src, snk, rc, Config{}, logx.NopLogger{})
	require.NoError(t, p.Run(context.Background(), nil))
	assert.Equal(t, []string{"@@\n@@", "  \n  "}, snk.frames)
	assert.Equal(t, 2, p.Stats.Frames)
}

func TestRunPaced(t *testing.T) {
	src := &fakeSource{frames: []raster.Matrix{
		raster.Uniform(4, 4, 0),
		raster.Uniform(4, 4, 0),
		raster.Uniform(4, 4, 0),
	}}
	snk := &fakeSink{}
	p := New(src, snk, rc, Config{FPS: 200, Workers: 2}, logx.NopLogger{})
	require.NoError(t, p.Run(context.Background(), nil))
	assert.Len(t, snk.frames, 3)
}

func TestRunQuitKey(t *testing.T) {
	frames := make([]raster.Matrix, 100)
	for i := range frames {
		frames[i] = raster.Uniform(4, 4, 128)
	}
	keys := make(chan rune, 2)
	snk := &fakeSink{}
	snk.onFrame = func() {
		if len(snk.frames) == 3 {
			keys <- 'x'
			keys <- 'q'
		}
	}
	p := New(&fakeSource{frames: frames}, snk, rc, Config{QuitKey: 'q'}, logx.NopLogger{})
	require.NoError(t, p.Run(context.Background(), keys))
	assert.Len(t, snk.frames, 3)
}

func TestRunCanceled(t *testing.T) {
	frames := make([]raster.Matrix, 100)
	for i := range frames {
		frames[i] = raster.Uniform(4, 4, 128)
	}
	ctx, cancel := context.WithCancel(context.Background())
	snk := &fakeSink{}
	snk.onFrame = func() {
		if len(snk.frames) == 5 {
			cancel()
		}
	}
	p := New(&fakeSource{frames: frames}, snk, rc, Config{FPS: 1000}, logx.NopLogger{})
	require.NoError(t, p.Run(ctx, nil))
	assert.Len(t, snk.frames, 5)
}

func TestRunGrabFailure(t *testing.T) {
	boom := errors.New("device unplugged")
	src := &fakeSource{frames: []raster.Matrix{raster.Uniform(4, 4, 0)}, err: boom}
	p := New(src, &fakeSink{}, rc, Config{}, logx.NopLogger{})
	err := p.Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, p.Stats.Frames)
}

func TestRunInvalidConfig(t *testing.T) {
	src := &fakeSource{frames: []raster.Matrix{raster.Uniform(4, 4, 0)}}
	p := New(src, &fakeSink{}, raster.Config{Columns: 2, Scale: 1}, Config{}, logx.NopLogger{})
	assert.ErrorIs(t, p.Run(context.Background(), nil), raster.ErrInvalidConfig)
}

func TestReadKeys(t *testing.T) {
	var got []rune
	for k := range readKeys(strings.NewReader("aq")) {
		got = append(got, k)
	}
	assert.Equal(t, []rune{'a', 'q'}, got)
}

func TestRunClosedKeys(t *testing.T) {
	keys := make(chan rune)
	close(keys)
	src := &fakeSource{frames: []raster.Matrix{raster.Uniform(4, 4, 0), raster.Uniform(4, 4, 0)}}
	snk := &fakeSink{}
	p := New(src, snk, rc, Config{FPS: 500, QuitKey: 'q'}, logx.NopLogger{})
	require.NoError(t, p.Run(context.Background(), keys))
	assert.Len(t, snk.frames, 2)
}
