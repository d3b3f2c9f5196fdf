package converter

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	. "github.com/mush1e/ascii-cam/internal/logx"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	tplUpload = template.Must(template.ParseFS(templateFS, "templates/upload.html"))
	tplResult = template.Must(template.ParseFS(templateFS, "templates/result.html"))
)

// Handler serves the upload form, accepts uploads and streams results.
func (c *Converter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.uploadPage)
	mux.HandleFunc("/upload", c.uploadHandler)
	mux.HandleFunc("/stream/", c.streamHandler)
	return mux
}

func (c *Converter) uploadPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := tplUpload.Execute(w, c.opts.Raster); err != nil {
		c.log.LogPrintf(WARN, "rendering upload page: %v", err)
	}
}

func (c *Converter) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxUpload+1<<20)
	jobID, err := c.StartJob(r)
	if err != nil {
		var bre BadRequestError
		if errors.As(err, &bre) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.log.LogPrintf(ERROR, "upload: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tplResult.Execute(w, jobID); err != nil {
		c.log.LogPrintf(WARN, "rendering result page: %v", err)
	}
}

func (c *Converter) streamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/stream/")
	if jobID == "" {
		http.Error(w, "Missing job ID", http.StatusBadRequest)
		return
	}
	c.StreamJob(w, r.Context(), jobID)
}
