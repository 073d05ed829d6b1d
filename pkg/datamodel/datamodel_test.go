package datamodel

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/frankban/quicktest"
)

func TestTensor_NewTensor(t *testing.T) {
	c := quicktest.New(t)

	tensor, err := NewTensor([]int64{1, 2, 3}, make([]float32, 6))
	c.Assert(err, quicktest.IsNil)
	c.Assert(tensor.Len(), quicktest.Equals, 6)

	_, err = NewTensor([]int64{2, 2}, make([]float32, 3))
	c.Assert(errors.Is(err, ErrShape), quicktest.IsTrue)

	_, err = NewTensor([]int64{0, 2}, nil)
	c.Assert(errors.Is(err, ErrShape), quicktest.IsTrue)
}

func TestTensor_Unsqueeze(t *testing.T) {
	c := quicktest.New(t)

	tensor := &Tensor{Shape: []int64{224, 224}, Data: make([]float32, 224*224)}
	batched := tensor.Unsqueeze().Unsqueeze()
	c.Assert(batched.Shape, quicktest.DeepEquals, []int64{1, 1, 224, 224})
	c.Assert(tensor.Shape, quicktest.DeepEquals, []int64{224, 224})
}

func TestImage2D_Resize(t *testing.T) {
	c := quicktest.New(t)

	testCases := []struct {
		name     string
		src      *Image2D
		w, h     int
		expected []float64
	}{
		{
			name:     "identity",
			src:      &Image2D{Width: 2, Height: 1, Pix: []float64{1, 2}},
			w:        2,
			h:        1,
			expected: []float64{1, 2},
		},
		{
			name:     "upscale row",
			src:      &Image2D{Width: 2, Height: 1, Pix: []float64{0, 4}},
			w:        4,
			h:        1,
			expected: []float64{0, 1, 3, 4},
		},
		{
			name:     "downscale averages pairs",
			src:      &Image2D{Width: 4, Height: 1, Pix: []float64{0, 2, 4, 6}},
			w:        2,
			h:        1,
			expected: []float64{1, 5},
		},
		{
			name:     "constant stays constant",
			src:      &Image2D{Width: 4, Height: 4, Pix: []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}},
			w:        2,
			h:        8,
			expected: []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7},
		},
	}

	for _, tc := range testCases {
		c.Run(tc.name, func(c *quicktest.C) {
			out := tc.src.Resize(tc.w, tc.h)
			c.Assert(out.Width, quicktest.Equals, tc.w)
			c.Assert(out.Height, quicktest.Equals, tc.h)
			c.Assert(out.Pix, quicktest.DeepEquals, tc.expected)
		})
	}
}

func TestNaNMinMax(t *testing.T) {
	c := quicktest.New(t)

	lo, hi := NaNMinMax([]float64{math.NaN(), 3, -1, math.NaN(), 2})
	c.Assert(lo, quicktest.Equals, -1.0)
	c.Assert(hi, quicktest.Equals, 3.0)

	lo, _ = NaNMinMax([]float64{math.NaN()})
	c.Assert(math.IsNaN(lo), quicktest.IsTrue)
}

func TestVolume_Slice(t *testing.T) {
	c := quicktest.New(t)

	v := NewVolume(2, 3, 2)
	for i := range v.Data {
		v.Data[i] = float64(i)
	}
	c.Assert(v.Validate(), quicktest.IsNil)

	s := v.Slice(1)
	c.Assert(s.Width, quicktest.Equals, 3)
	c.Assert(s.Height, quicktest.Equals, 2)
	c.Assert(s.Pix, quicktest.DeepEquals, []float64{6, 7, 8, 9, 10, 11})

	s.Pix[0] = -1
	c.Assert(v.Data[6], quicktest.Equals, 6.0)
}

func TestBBox_Rect(t *testing.T) {
	c := quicktest.New(t)

	b := BBox{X1: 10, Y1: 20.9, X2: 100.5, Y2: 200}.Scale(1024.0 / 224.0)
	c.Assert(b.Rect(), quicktest.Equals, image.Rect(45, 95, 459, 914))
}
