package datamodel

import (
	"github.com/pkg/errors"
)

// Volume is an H x W x S scalar volume. Data is slice-major: slice s starts at
// s*Height*Width and is stored row-major within the slice.
type Volume struct {
	Height int
	Width  int
	Depth  int
	Data   []float64
}

func NewVolume(height, width, depth int) *Volume {
	return &Volume{Height: height, Width: width, Depth: depth, Data: make([]float64, height*width*depth)}
}

func (v *Volume) Validate() error {
	if v == nil || v.Height <= 0 || v.Width <= 0 || v.Depth <= 0 {
		return errors.Wrap(ErrShape, "volume must be a non-empty 3D array")
	}
	if len(v.Data) != v.Height*v.Width*v.Depth {
		return errors.Wrapf(ErrShape, "volume %dx%dx%d has %d values", v.Height, v.Width, v.Depth, len(v.Data))
	}
	return nil
}

// Slice returns a copy of slice i along the last axis.
func (v *Volume) Slice(i int) *Image2D {
	n := v.Height * v.Width
	out := &Image2D{Width: v.Width, Height: v.Height, Pix: make([]float64, n)}
	copy(out.Pix, v.Data[i*n:(i+1)*n])
	return out
}

// WithData returns a volume of the same geometry backed by data.
func (v *Volume) WithData(data []float64) *Volume {
	return &Volume{Height: v.Height, Width: v.Width, Depth: v.Depth, Data: data}
}
