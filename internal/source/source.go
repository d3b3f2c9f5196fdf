package source

import (
	"context"
	"errors"

	"github.com/mush1e/ascii-cam/internal/raster"
)

var ErrUnsupported = errors.New("source: unsupported input")

// Source yields one brightness matrix per polling cycle. Next returns io.EOF
// at end of stream; any other error is a read failure for the caller to handle.
type Source interface {
	Next(ctx context.Context) (raster.Matrix, error)
	Close() error
}
