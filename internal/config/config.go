package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mush1e/ascii-cam/internal/filelogger"
	"github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/raster"
)

var ErrInvalid = errors.New("config: invalid value")

// Duration is a time.Duration written as a string ("10s", "150ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(b))
	return
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type RasterConfig struct {
	Columns int `toml:"columns"`
	// AutoColumns takes the column count from the terminal width when known.
	AutoColumns bool    `toml:"auto_columns"`
	Scale       float64 `toml:"scale"`
	Invert      bool    `toml:"invert"`
	Ramp        string  `toml:"ramp"`
	Spans       string  `toml:"spans"`
	Workers     int     `toml:"workers"`
}

type SourceConfig struct {
	// Kind is one of "webcam", "video", "images".
	Kind    string `toml:"kind"`
	Device  string `toml:"device"`
	Format  string `toml:"format"`
	Input   string `toml:"input"`
	Pattern string `toml:"pattern"`
	// Width and Height request a capture resolution; 0 keeps the device default.
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	FPS     int    `toml:"fps"`
	Loop    bool   `toml:"loop"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

type PlayerConfig struct {
	FPS     int    `toml:"fps"`
	Clear   bool   `toml:"clear"`
	Dedupe  bool   `toml:"dedupe"`
	QuitKey string `toml:"quit_key"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	FrameBuffer  int      `toml:"frame_buffer"`
	FPS          int      `toml:"fps"`
	MaxUpload    int64    `toml:"max_upload"`
	// Bounds on the raster settings a client may upload.
	MaxColumns int     `toml:"max_columns"`
	MinScale   float64 `toml:"min_scale"`
	MaxScale   float64 `toml:"max_scale"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Color string `toml:"color"`
}

type Config struct {
	Raster RasterConfig `toml:"raster"`
	Source SourceConfig `toml:"source"`
	Player PlayerConfig `toml:"player"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

var Default = Config{
	Raster: RasterConfig{
		Columns: 150,
		Scale:   0.5,
		Invert:  true,
		Spans:   "skip",
	},
	Source: SourceConfig{
		Kind:    "webcam",
		Device:  "/dev/video0",
		Format:  "v4l2",
		Width:   640,
		Height:  480,
		FFmpeg:  "ffmpeg",
		FFprobe: "ffprobe",
	},
	Player: PlayerConfig{
		FPS:     30,
		Clear:   true,
		Dedupe:  true,
		QuitKey: "q",
	},
	Server: ServerConfig{
		Addr:         ":8080",
		ReadTimeout:  Duration{10 * time.Second},
		WriteTimeout: Duration{30 * time.Second},
		FrameBuffer:  300,
		FPS:          10,
		MaxUpload:    256 << 20,
		MaxColumns:   1000,
		MinScale:     0.05,
		MaxScale:     20,
	},
	Log: LogConfig{
		Level: "info",
		Color: "auto",
	},
}

// Load reads a TOML file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	c := Default
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err = checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Parse is Load for an in-memory document.
func Parse(doc string) (Config, error) {
	c := Default
	md, err := toml.Decode(doc, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err = checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	if u := md.Undecoded(); len(u) != 0 {
		keys := make([]string, len(u))
		for i := range u {
			keys[i] = u[i].String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := c.Raster.Build(); err != nil {
		return err
	}
	switch c.Source.Kind {
	case "webcam", "video", "images":
	default:
		return fmt.Errorf("%w: source.kind %q", ErrInvalid, c.Source.Kind)
	}
	if c.Source.Width < 0 || c.Source.Height < 0 || c.Source.FPS < 0 {
		return fmt.Errorf("%w: negative source resolution or fps", ErrInvalid)
	}
	if c.Player.FPS < 0 {
		return fmt.Errorf("%w: player.fps %d", ErrInvalid, c.Player.FPS)
	}
	if len([]rune(c.Player.QuitKey)) > 1 {
		return fmt.Errorf("%w: player.quit_key %q is not a single key", ErrInvalid, c.Player.QuitKey)
	}
	if c.Server.FrameBuffer < 0 || c.Server.FPS <= 0 || c.Server.MaxUpload <= 0 {
		return fmt.Errorf("%w: server frame_buffer, fps and max_upload", ErrInvalid)
	}
	if c.Server.MaxColumns < 1 || !(c.Server.MinScale > 0 && c.Server.MinScale <= c.Server.MaxScale) ||
		math.IsInf(c.Server.MaxScale, 0) {
		return fmt.Errorf("%w: server max_columns %d, scale range [%v, %v]",
			ErrInvalid, c.Server.MaxColumns, c.Server.MinScale, c.Server.MaxScale)
	}
	if _, err := logx.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := filelogger.ParseUseColor(c.Log.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Build converts the section into a validated raster.Config.
func (r RasterConfig) Build() (raster.Config, error) {
	return r.BuildColumns(r.Columns)
}

// BuildColumns is Build with the column count overridden.
func (r RasterConfig) BuildColumns(columns int) (raster.Config, error) {
	rc, err := raster.NewConfig(columns, r.Scale, raster.SelectRamp(r.Invert, r.Ramp))
	if err != nil {
		return raster.Config{}, err
	}
	if rc.Spans, err = raster.ParseSpanMode(r.Spans); err != nil {
		return raster.Config{}, err
	}
	return rc, nil
}

// LogLevel and LogColor assume a validated config.
func (c Config) LogLevel() logx.Level {
	l, _ := logx.ParseLevel(c.Log.Level)
	return l
}

func (c Config) LogColor() filelogger.UseColor {
	u, _ := filelogger.ParseUseColor(c.Log.Color)
	return u
}
