package raster

import (
	"fmt"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cfg(columns int, scale float64, r Ramp) Config {
	return Config{Columns: columns, Scale: scale, Ramp: r}
}

func TestRenderUniformWhite(t *testing.T) {
	out, err := Render(Uniform(10, 10, 255), cfg(5, 1.0, DarkToLight))
	require.NoError(t, err)
	want := strings.TrimSuffix(strings.Repeat("     \n", 5), "\n")
	assert.Equal(t, want, out)
}

func TestRenderUniformBlack(t *testing.T) {
	out, err := Render(Uniform(10, 10, 0), cfg(5, 1.0, DarkToLight))
	require.NoError(t, err)
	assert.Equal(t, "@@@@@\n@@@@@\n@@@@@\n@@@@@\n@@@@@", out)
}

func TestRenderUniformEndsOfRamp(t *testing.T) {
	for _, r := range []Ramp{DarkToLight, LightToDark, MustParseRamp("ab"), MustParseRamp("x")} {
		f, err := Rasterize(Uniform(12, 9, 0), cfg(4, 1.5, r))
		require.NoError(t, err)
		for _, l := range f.Lines {
			assert.Equal(t, strings.Repeat(string(r.Glyph(0)), 4), l)
		}

		f, err = Rasterize(Uniform(12, 9, 255), cfg(4, 1.5, r))
		require.NoError(t, err)
		for _, l := range f.Lines {
			assert.Equal(t, strings.Repeat(string(r.Glyph(r.Len()-1)), 4), l)
		}
	}
}

func TestRasterizeRowCount(t *testing.T) {
	tests := []struct {
		w, h, cols int
		scale      float64
		rows       int
	}{
		{10, 10, 5, 1.0, 5},
		{600, 480, 150, 0.5, 240},
		{100, 50, 10, 2.0, 2},
		{7, 3, 7, 1.0, 3},
		{80, 60, 80, 1.0, 60},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%dx%d/%d/%v", tc.w, tc.h, tc.cols, tc.scale), func(t *testing.T) {
			g, err := ComputeGeometry(tc.w, tc.h, cfg(tc.cols, tc.scale, DarkToLight))
			require.NoError(t, err)
			assert.Equal(t, tc.rows, g.Rows)

			f, err := Rasterize(Uniform(tc.w, tc.h, 128), cfg(tc.cols, tc.scale, DarkToLight))
			require.NoError(t, err)
			assert.LessOrEqual(t, len(f.Lines), tc.rows)
			for _, l := range f.Lines {
				assert.LessOrEqual(t, len([]rune(l)), tc.cols)
			}
		})
	}
}

func TestRasterizeSkipsCollapsedRows(t *testing.T) {
	// cellHeight 0.5: every other row span rounds to zero height.
	f, err := Rasterize(Uniform(4, 4, 0), cfg(4, 0.5, DarkToLight))
	require.NoError(t, err)
	assert.Len(t, f.Lines, 4)
	g, err := ComputeGeometry(4, 4, cfg(4, 0.5, DarkToLight))
	require.NoError(t, err)
	assert.Equal(t, 8, g.Rows)
}

func TestRasterizeSkipsCollapsedColumns(t *testing.T) {
	// 3 samples over 5 columns: cellWidth 0.6 collapses two columns.
	f, err := Rasterize(Uniform(3, 30, 0), cfg(5, 10, DarkToLight))
	require.NoError(t, err)
	require.Len(t, f.Lines, 5)
	for _, l := range f.Lines {
		assert.Equal(t, "@@@", l)
	}
}

func TestRasterizeClampSpans(t *testing.T) {
	c := cfg(5, 10, DarkToLight)
	c.Spans = ClampSpans
	f, err := Rasterize(Uniform(3, 30, 0), c)
	require.NoError(t, err)
	require.Len(t, f.Lines, 5)
	for _, l := range f.Lines {
		assert.Equal(t, "@@@@@", l)
	}

	c = cfg(4, 0.5, DarkToLight)
	c.Spans = ClampSpans
	f, err = Rasterize(Uniform(4, 4, 255), c)
	require.NoError(t, err)
	assert.Len(t, f.Lines, 8)
}

func TestRasterizeAveragesCells(t *testing.T) {
	// left half 0, right half 255 -> one dark and one light glyph per row
	pix := make([]byte, 0, 16)
	for y := 0; y < 4; y++ {
		pix = append(pix, 0, 0, 255, 255)
	}
	m, err := NewGray(4, 4, pix)
	require.NoError(t, err)
	out, err := Render(m, cfg(2, 1, DarkToLight))
	require.NoError(t, err)
	assert.Equal(t, "@ \n@ ", out)

	// one cell with mean 127.5 -> floor(0.5*9) = 4
	m, err = NewGray(2, 1, []byte{0, 255})
	require.NoError(t, err)
	out, err = Render(m, cfg(1, 0.5, DarkToLight))
	require.NoError(t, err)
	assert.Equal(t, string(DarkToLight.Glyph(4)), out)
}

func TestRasterizeCustomMatrix(t *testing.T) {
	m := rowFunc{w: 6, h: 3, f: func(x, y int) byte { return byte(x * 51) }}
	out, err := Render(m, cfg(6, 1, MustParseRamp("012345")))
	require.NoError(t, err)
	assert.Equal(t, "012345\n012345\n012345", out)
}

func TestRasterizeDegenerate(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		c    Config
	}{
		{"zero columns", Uniform(10, 10, 255), cfg(0, 1, DarkToLight)},
		{"zero width", Uniform(0, 10, 255), cfg(5, 1, DarkToLight)},
		{"zero height", Uniform(10, 0, 255), cfg(5, 1, DarkToLight)},
		{"too short for one row", Uniform(10, 1, 255), cfg(5, 1, DarkToLight)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Render(tc.m, tc.c)
			require.NoError(t, err)
			assert.Empty(t, out)
		})
	}
}

func TestRasterizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		c    Config
		want error
	}{
		{"negative columns", Uniform(4, 4, 0), cfg(-1, 1, DarkToLight), ErrInvalidConfig},
		{"zero scale", Uniform(4, 4, 0), cfg(2, 0, DarkToLight), ErrInvalidConfig},
		{"negative scale", Uniform(4, 4, 0), cfg(2, -1, DarkToLight), ErrInvalidConfig},
		{"empty ramp", Uniform(4, 4, 0), cfg(2, 1, Ramp{}), ErrInvalidConfig},
		{"vanishing scale", Uniform(4, 4, 0), cfg(2, 1e-300, DarkToLight), ErrInvalidConfig},
		{"nil matrix", nil, cfg(2, 1, DarkToLight), ErrInvalidMatrix},
		{"negative dims", rowFunc{w: -1, h: 4}, cfg(2, 1, DarkToLight), ErrInvalidMatrix},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Rasterize(tc.m, tc.c)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRasterizeIdempotent(t *testing.T) {
	m := rowFunc{w: 64, h: 48, f: func(x, y int) byte { return byte((x*7 + y*13) % 256) }}
	c := cfg(20, 0.5, DarkToLight)
	a, err := Render(m, c)
	require.NoError(t, err)
	b, err := Render(m, c)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRasterizeParallelMatchesSerial(t *testing.T) {
	m := rowFunc{w: 97, h: 61, f: func(x, y int) byte { return byte((x*x + 3*y) % 256) }}
	for _, c := range []Config{
		cfg(31, 0.5, DarkToLight),
		cfg(97, 1.0, LightToDark),
		cfg(200, 0.45, DarkToLight),
		{Columns: 200, Scale: 0.45, Ramp: DarkToLight, Spans: ClampSpans},
	} {
		want, err := Rasterize(m, c)
		require.NoError(t, err)
		for _, workers := range []int{0, 1, 2, 3, 8, 1000} {
			got, err := RasterizeParallel(m, c, workers)
			require.NoError(t, err)
			if !assert.Equal(t, want, got, "workers=%d", workers) {
				t.Logf("config: %s", spew.Sdump(c))
			}
		}
	}
}

func TestQuantizeMonotonic(t *testing.T) {
	for _, n := range []int{1, 2, 10, 70} {
		prev := 0
		for v := 0.0; v <= 255; v += 0.25 {
			idx := Quantize(v, n)
			assert.GreaterOrEqual(t, idx, prev)
			assert.True(t, idx >= 0 && idx < n)
			prev = idx
		}
		assert.Equal(t, 0, Quantize(0, n))
		assert.Equal(t, n-1, Quantize(255, n))
	}
	assert.Equal(t, 0, Quantize(-10, 10))
	assert.Equal(t, 9, Quantize(300, 10))
}

type rowFunc struct {
	w, h int
	f    func(x, y int) byte
}

func (r rowFunc) Width() int  { return r.w }
func (r rowFunc) Height() int { return r.h }
func (r rowFunc) Row(y int) []byte {
	row := make([]byte, r.w)
	for x := range row {
		row[x] = r.f(x, y)
	}
	return row
}
