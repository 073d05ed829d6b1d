package datamodel

import (
	"math"

	"github.com/pkg/errors"
)

// Image2D is a single-channel raster of arbitrary range, stored row-major.
type Image2D struct {
	Width  int
	Height int
	Pix    []float64
}

// NewImage2D allocates a zero-filled width x height raster.
func NewImage2D(width, height int) *Image2D {
	return &Image2D{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// Validate reports ErrShape when the raster is empty or its buffer does not
// match its dimensions.
func (m *Image2D) Validate() error {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return errors.Wrap(ErrShape, "image must be a non-empty 2D array")
	}
	if len(m.Pix) != m.Width*m.Height {
		return errors.Wrapf(ErrShape, "image %dx%d has %d values", m.Width, m.Height, len(m.Pix))
	}
	return nil
}

func (m *Image2D) At(x, y int) float64 {
	return m.Pix[y*m.Width+x]
}

func (m *Image2D) Set(x, y int, v float64) {
	m.Pix[y*m.Width+x] = v
}

// MinMax ignores NaN values. An all-NaN image reports (NaN, NaN).
func (m *Image2D) MinMax() (float64, float64) {
	return NaNMinMax(m.Pix)
}

// Scale returns a copy with every value multiplied by f.
func (m *Image2D) Scale(f float64) *Image2D {
	out := &Image2D{Width: m.Width, Height: m.Height, Pix: make([]float64, len(m.Pix))}
	for i, v := range m.Pix {
		out.Pix[i] = v * f
	}
	return out
}

// Resize resamples to width x height with bilinear interpolation using
// half-pixel centres and edge replication, matching INTER_LINEAR.
func (m *Image2D) Resize(width, height int) *Image2D {
	out := NewImage2D(width, height)
	if m.Width == width && m.Height == height {
		copy(out.Pix, m.Pix)
		return out
	}

	sx := float64(m.Width) / float64(width)
	sy := float64(m.Height) / float64(height)

	xs0, xs1, xw := linearTaps(width, m.Width, sx)
	for y := 0; y < height; y++ {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		if y0 < 0 {
			y0, wy = 0, 0
		}
		if y0 >= m.Height-1 {
			y0, wy = m.Height-1, 0
		}
		y1 := min(y0+1, m.Height-1)

		row0 := m.Pix[y0*m.Width : (y0+1)*m.Width]
		row1 := m.Pix[y1*m.Width : (y1+1)*m.Width]
		dst := out.Pix[y*width : (y+1)*width]
		for x := range dst {
			top := row0[xs0[x]]*(1-xw[x]) + row0[xs1[x]]*xw[x]
			bot := row1[xs0[x]]*(1-xw[x]) + row1[xs1[x]]*xw[x]
			dst[x] = top*(1-wy) + bot*wy
		}
	}
	return out
}

func linearTaps(dst, src int, scale float64) ([]int, []int, []float64) {
	i0 := make([]int, dst)
	i1 := make([]int, dst)
	w := make([]float64, dst)
	for x := 0; x < dst; x++ {
		f := (float64(x)+0.5)*scale - 0.5
		x0 := int(math.Floor(f))
		fw := f - float64(x0)
		if x0 < 0 {
			x0, fw = 0, 0
		}
		if x0 >= src-1 {
			x0, fw = src-1, 0
		}
		i0[x] = x0
		i1[x] = min(x0+1, src-1)
		w[x] = fw
	}
	return i0, i1, w
}

// NaNMinMax returns the minimum and maximum of the non-NaN values in x.
func NaNMinMax(x []float64) (float64, float64) {
	lo, hi := math.NaN(), math.NaN()
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}
