package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	. "github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/raster"
	"github.com/mush1e/ascii-cam/internal/sink"
	"github.com/mush1e/ascii-cam/internal/source"
)

type Config struct {
	// FPS paces the loop; 0 runs as fast as the source delivers.
	FPS int
	// QuitKey stops playback when read from the key channel; 0 disables it.
	QuitKey rune
	// Workers is passed to raster.RasterizeParallel.
	Workers int
}

// Stats is updated as the player runs.
type Stats struct {
	Frames int
	// FPS is the rate measured over the last full second.
	FPS float64
}

type Player struct {
	src source.Source
	snk sink.Sink
	rc  raster.Config
	cfg Config
	log Logger
	now func() time.Time

	Stats Stats
}

func New(src source.Source, snk sink.Sink, rc raster.Config, cfg Config, lx LoggerX) *Player {
	return &Player{
		src: src,
		snk: snk,
		rc:  rc,
		cfg: cfg,
		log: NewLogToX(lx, "player"),
		now: time.Now,
	}
}

var errQuit = errors.New("quit")

// Run plays frames until end of stream, the quit key, or ctx is done, all of
// which return nil. A failed frame grab stops playback with an error.
func (p *Player) Run(ctx context.Context, keys <-chan rune) error {
	var tick <-chan time.Time
	if p.cfg.FPS > 0 {
		t := time.NewTicker(time.Second / time.Duration(p.cfg.FPS))
		defer t.Stop()
		tick = t.C
	}

	count, start := 0, p.now()
	for {
		if err := p.poll(ctx, keys, nil); err != nil {
			return p.stopped(err)
		}

		m, err := p.src.Next(ctx)
		if err == io.EOF {
			p.log.LogPrintf(INFO, "end of stream after %d frames", p.Stats.Frames)
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return p.stopped(ctx.Err())
			}
			return fmt.Errorf("player: failed to grab frame: %w", err)
		}

		f, err := raster.RasterizeParallel(m, p.rc, p.cfg.Workers)
		if err != nil {
			return err
		}
		if err = p.snk.WriteFrame(f); err != nil {
			return fmt.Errorf("player: writing frame: %w", err)
		}
		p.Stats.Frames++

		count++
		if elapsed := p.now().Sub(start); elapsed > time.Second {
			p.Stats.FPS = float64(count) / elapsed.Seconds()
			p.log.LogPrintf(DEBUG, "fps %.2f (target %d)", p.Stats.FPS, p.cfg.FPS)
			count, start = 0, p.now()
		}

		if tick != nil {
			if err = p.poll(ctx, keys, tick); err != nil {
				return p.stopped(err)
			}
		}
	}
}

// poll checks for cancellation and the quit key. With a non-nil tick it
// blocks until the next tick.
func (p *Player) poll(ctx context.Context, keys <-chan rune, tick <-chan time.Time) error {
	for {
		if tick == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case k, ok := <-keys:
				if !ok {
					return nil
				}
				if p.quit(k) {
					return errQuit
				}
				continue
			default:
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k, ok := <-keys:
			if !ok {
				keys = nil
			} else if p.quit(k) {
				return errQuit
			}
		case <-tick:
			return nil
		}
	}
}

func (p *Player) quit(k rune) bool {
	return p.cfg.QuitKey != 0 && k == p.cfg.QuitKey
}

func (p *Player) stopped(err error) error {
	switch {
	case err == errQuit:
		p.log.LogPrintf(INFO, "quit after %d frames", p.Stats.Frames)
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		p.log.LogPrintf(INFO, "stopped after %d frames", p.Stats.Frames)
		return nil
	default:
		return err
	}
}
