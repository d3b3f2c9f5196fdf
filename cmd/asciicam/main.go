package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mush1e/ascii-cam/internal/config"
	fl "github.com/mush1e/ascii-cam/internal/filelogger"
	. "github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/player"
	"github.com/mush1e/ascii-cam/internal/sink"
	"github.com/mush1e/ascii-cam/internal/source"
)

func main() {
	cfgpath := flag.String("config", "", "TOML config file")
	kind := flag.String("source", "", "webcam, video or images")
	input := flag.String("input", "", "video file, image file or image directory")
	pattern := flag.String("pattern", "", "glob selecting images inside -input")
	device := flag.String("device", "", "capture device")
	cols := flag.Int("cols", 0, "output columns (0: config value)")
	scale := flag.Float64("scale", 0, "aspect scale (0: config value)")
	invert := flag.Bool("invert", false, "use the light-to-dark ramp")
	ramp := flag.String("ramp", "", "custom glyph ramp, darkest first")
	fps := flag.Int("fps", -1, "target frames per second (0: unpaced)")
	loop := flag.Bool("loop", false, "loop image sequences")
	flag.Parse()

	cfg := config.Default
	if *cfgpath != "" {
		var err error
		cfg, err = config.Load(*cfgpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source.Kind = *kind
		case "input":
			cfg.Source.Input = *input
		case "pattern":
			cfg.Source.Pattern = *pattern
		case "device":
			cfg.Source.Device = *device
		case "cols":
			cfg.Raster.Columns = *cols
			cfg.Raster.AutoColumns = false
		case "scale":
			cfg.Raster.Scale = *scale
		case "invert":
			cfg.Raster.Invert = *invert
		case "ramp":
			cfg.Raster.Ramp = *ramp
		case "fps":
			cfg.Player.FPS = *fps
		case "loop":
			cfg.Source.Loop = *loop
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	lgr := fl.NewFileLogger(os.Stderr, cfg.LogLevel(), cfg.LogColor())
	if err := run(cfg, lgr); err != nil {
		lgr.LogPrintfX("main", ERROR, "%v", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, lx LoggerX) error {
	log := NewLogToX(lx, "main")

	columns := cfg.Raster.Columns
	if cfg.Raster.AutoColumns {
		if w, _, err := sink.Size(os.Stdout); err == nil && w > 0 {
			columns = w
		} else {
			log.LogPrintf(DEBUG, "terminal size unknown, using %d columns", columns)
		}
	}
	rc, err := cfg.Raster.BuildColumns(columns)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := source.Open(ctx, cfg.Source, rc.Columns, rc.Scale, lx)
	if err != nil {
		return err
	}
	defer src.Close()

	out := sink.NewTerminal(os.Stdout, sink.TerminalConfig{
		Clear:  cfg.Player.Clear,
		Dedupe: cfg.Player.Dedupe,
	})
	defer out.Close()

	pcfg := player.Config{FPS: cfg.Player.FPS, Workers: cfg.Raster.Workers}
	var keys <-chan rune
	if q := []rune(cfg.Player.QuitKey); len(q) == 1 {
		pcfg.QuitKey = q[0]
		var restore func()
		keys, restore, err = player.Keys(os.Stdin)
		if err != nil {
			log.LogPrintf(WARN, "no key input: %v", err)
		} else {
			defer restore()
		}
		log.LogPrintf(NOTICE, "Press '%c' to quit.", pcfg.QuitKey)
	}

	p := player.New(src, out, rc, pcfg, lx)
	if err = p.Run(ctx, keys); err != nil {
		return err
	}
	log.LogPrintf(INFO, "ASCII stream ended after %d frames (%d repaints skipped)",
		p.Stats.Frames, out.Skipped)
	return nil
}
