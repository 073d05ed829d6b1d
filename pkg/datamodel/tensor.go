package datamodel

import (
	"fmt"

	"github.com/pkg/errors"
)

// Tensor is a dense row-major float32 array handed to and returned from a
// model forward pass.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NewTensor checks that data holds exactly as many elements as shape describes.
func NewTensor(shape []int64, data []float32) (*Tensor, error) {
	n := int64(1)
	for _, d := range shape {
		if d <= 0 {
			return nil, errors.Wrapf(ErrShape, "non-positive dimension in %v", shape)
		}
		n *= d
	}
	if int64(len(data)) != n {
		return nil, errors.Wrapf(ErrShape, "shape %v needs %d values, got %d", shape, n, len(data))
	}
	return &Tensor{Shape: append([]int64(nil), shape...), Data: data}, nil
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Unsqueeze prepends a dimension of size one. The data is shared.
func (t *Tensor) Unsqueeze() *Tensor {
	return &Tensor{Shape: append([]int64{1}, t.Shape...), Data: t.Data}
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.Shape)
}
