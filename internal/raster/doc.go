// Package raster converts brightness matrices into fixed-width blocks of
// text. Each output glyph stands for the mean brightness of one cell of the
// input, quantized linearly onto a glyph ramp.
//
// For a W x H input and Columns c the cell width is W/c, the cell height is
// the cell width times Scale, and the frame has floor(H / cellHeight) rows.
// Cells whose sample span rounds to zero are dropped unless ClampSpans is
// set. All functions are pure and safe for concurrent use.
package raster
