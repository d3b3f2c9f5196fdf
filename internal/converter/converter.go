package converter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mush1e/ascii-cam/internal/config"
	. "github.com/mush1e/ascii-cam/internal/logx"
	"github.com/mush1e/ascii-cam/internal/raster"
	"github.com/mush1e/ascii-cam/internal/source"
)

// jobTTL bounds how long finished jobs wait for a client.
const jobTTL = 10 * time.Minute

type FrameData struct {
	Content string `json:"content"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type Job struct {
	FramesChan chan *FrameData
}

type Options struct {
	Raster      config.RasterConfig
	Source      config.SourceConfig
	FPS         int
	FrameBuffer int
	MaxUpload   int64
	// Accepted ranges for uploaded cols and scale.
	MaxColumns         int
	MinScale, MaxScale float64
}

func OptionsFromConfig(c config.Config) Options {
	return Options{
		Raster:      c.Raster,
		Source:      c.Source,
		FPS:         c.Server.FPS,
		FrameBuffer: c.Server.FrameBuffer,
		MaxUpload:   c.Server.MaxUpload,
		MaxColumns:  c.Server.MaxColumns,
		MinScale:    c.Server.MinScale,
		MaxScale:    c.Server.MaxScale,
	}
}

type openFunc func(ctx context.Context, cfg source.FFmpegConfig, lx LoggerX) (source.Source, error)

// Converter turns uploaded videos into streams of ASCII frames.
type Converter struct {
	opts Options
	lx   LoggerX
	log  Logger
	open openFunc

	jobsMu sync.RWMutex
	jobs   map[string]*Job
}

func New(opts Options, lx LoggerX) *Converter {
	return &Converter{
		opts: opts,
		lx:   lx,
		log:  NewLogToX(lx, "converter"),
		open: func(ctx context.Context, cfg source.FFmpegConfig, lx LoggerX) (source.Source, error) {
			return source.OpenFFmpeg(ctx, cfg, lx)
		},
		jobs: make(map[string]*Job),
	}
}

// BadRequestError marks errors caused by the uploaded form.
type BadRequestError struct{ Err error }

func (e BadRequestError) Error() string { return e.Err.Error() }
func (e BadRequestError) Unwrap() error { return e.Err }

func (c *Converter) rasterConfig(r *http.Request) (raster.Config, error) {
	rc := c.opts.Raster
	if v := r.FormValue("cols"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return raster.Config{}, fmt.Errorf("bad cols %q", v)
		}
		if n < 1 || n > c.opts.MaxColumns {
			return raster.Config{}, fmt.Errorf("cols %d out of range [1, %d]", n, c.opts.MaxColumns)
		}
		rc.Columns = n
	}
	if v := r.FormValue("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return raster.Config{}, fmt.Errorf("bad scale %q", v)
		}
		// NaN fails both comparisons
		if !(f >= c.opts.MinScale && f <= c.opts.MaxScale) {
			return raster.Config{}, fmt.Errorf("scale %v out of range [%v, %v]",
				f, c.opts.MinScale, c.opts.MaxScale)
		}
		rc.Scale = f
	}
	if v := r.FormValue("invert"); v != "" {
		rc.Invert = v == "on" || v == "true" || v == "1"
	}
	if v := r.FormValue("ramp"); v != "" {
		rc.Ramp = v
	}
	return rc.Build()
}

func (c *Converter) StartJob(r *http.Request) (string, error) {
	file, header, err := r.FormFile("video")
	if err != nil {
		return "", BadRequestError{fmt.Errorf("error getting uploaded file: %v", err)}
	}
	defer file.Close()

	if header.Size > c.opts.MaxUpload {
		return "", BadRequestError{fmt.Errorf("file of %d bytes exceeds limit", header.Size)}
	}
	rc, err := c.rasterConfig(r)
	if err != nil {
		return "", BadRequestError{err}
	}

	c.log.LogPrintf(INFO, "Processing file: %s, size: %d bytes", header.Filename, header.Size)

	tmpF, err := os.CreateTemp("", "vid-*")
	if err != nil {
		return "", fmt.Errorf("error creating temp file: %v", err)
	}
	tmpPath := tmpF.Name()

	if _, err := io.Copy(tmpF, file); err != nil {
		tmpF.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("error copying file: %v", err)
	}
	tmpF.Close()

	jobID := strconv.FormatInt(time.Now().UnixNano(), 10)
	job := c.addJob(jobID)
	go c.process(tmpPath, jobID, rc, job.FramesChan)

	return jobID, nil
}

func (c *Converter) addJob(jobID string) *Job {
	job := &Job{FramesChan: make(chan *FrameData, c.opts.FrameBuffer)}
	c.jobsMu.Lock()
	c.jobs[jobID] = job
	c.jobsMu.Unlock()
	return job
}

func (c *Converter) removeJob(jobID string) {
	c.jobsMu.Lock()
	delete(c.jobs, jobID)
	c.jobsMu.Unlock()
}

func (c *Converter) process(path, jobID string, rc raster.Config, framesChan chan<- *FrameData) {
	frameCount, dropped := 0, 0
	defer func() {
		close(framesChan)
		if path != "" {
			os.Remove(path)
		}
		time.AfterFunc(jobTTL, func() { c.removeJob(jobID) })
		c.log.LogPrintf(INFO, "Job %s completed: %d frames, %d dropped", jobID, frameCount, dropped)
	}()

	ctx := context.Background()
	src, err := c.open(ctx, source.FFmpegConfig{
		FFmpeg:    c.opts.Source.FFmpeg,
		FFprobe:   c.opts.Source.FFprobe,
		Input:     path,
		OutputFPS: c.opts.FPS,
		Columns:   rc.Columns,
		Scale:     rc.Scale,
	}, c.lx)
	if err != nil {
		c.log.LogPrintf(ERROR, "Job %s: %v", jobID, err)
		return
	}
	defer src.Close()

	for {
		m, err := src.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.LogPrintf(WARN, "Job %s: error reading frame: %v", jobID, err)
			}
			return
		}
		f, err := raster.Rasterize(m, rc)
		if err != nil {
			c.log.LogPrintf(ERROR, "Job %s: %v", jobID, err)
			return
		}
		frameCount++

		frameData := &FrameData{
			Content: f.String(),
			Width:   rc.Columns,
			Height:  len(f.Lines),
		}
		select {
		case framesChan <- frameData:
		default:
			dropped++
			c.log.LogPrint(DEBUG, "Dropped frame due to slow client")
		}
	}
}

func (c *Converter) StreamJob(w http.ResponseWriter, ctx context.Context, jobID string) {
	c.jobsMu.RLock()
	job, ok := c.jobs[jobID]
	c.jobsMu.RUnlock()

	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// one client per job
	c.removeJob(jobID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	interval := 100 * time.Millisecond
	if c.opts.FPS > 0 {
		interval = time.Second / time.Duration(c.opts.FPS)
	}
	frameInterval := time.NewTicker(interval)
	defer frameInterval.Stop()

	for {
		select {
		case frame, ok := <-job.FramesChan:
			if !ok {
				fmt.Fprintf(w, "event: end\ndata: {\"status\":\"complete\"}\n\n")
				flusher.Flush()
				return
			}

			select {
			case <-frameInterval.C:
			case <-ctx.Done():
				return
			}

			data, _ := json.Marshal(frame)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()

		case <-ctx.Done():
			return
		}
	}
}
