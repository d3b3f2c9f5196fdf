package raster

import "errors"

var (
	// ErrInvalidConfig is returned for configs that can never produce a frame:
	// negative column count, non-positive or non-finite scale, empty ramp.
	ErrInvalidConfig = errors.New("raster: invalid config")

	// ErrInvalidMatrix is returned for negative dimensions or a pixel buffer
	// too short for the declared dimensions.
	ErrInvalidMatrix = errors.New("raster: invalid matrix")
)
