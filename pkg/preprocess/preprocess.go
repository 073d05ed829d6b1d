package preprocess

import (
	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

const (
	// InputSize is the square edge every model consumes.
	InputSize = 224
	// PixelScale divides raw pixel values before resizing, whatever the bit
	// depth of the source.
	PixelScale = 255.0
	// ChannelMean and ChannelStd were measured on the training set.
	ChannelMean float32 = 0.49
	ChannelStd  float32 = 0.248
)

// ToModelInput turns a raw 2D scan into a normalized (1, 224, 224) float32
// tensor.
func ToModelInput(img *datamodel.Image2D) (*datamodel.Tensor, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	resized := img.Scale(1 / PixelScale).Resize(InputSize, InputSize)

	data := make([]float32, len(resized.Pix))
	for i, v := range resized.Pix {
		data[i] = (float32(v) - ChannelMean) / ChannelStd
	}
	return datamodel.NewTensor([]int64{1, InputSize, InputSize}, data)
}

// ToSegmentationInput resizes an already standardized slice and adds the
// channel and batch dimensions, giving (1, 1, 224, 224).
func ToSegmentationInput(slice *datamodel.Image2D) (*datamodel.Tensor, error) {
	if err := slice.Validate(); err != nil {
		return nil, err
	}

	resized := slice.Resize(InputSize, InputSize)

	data := make([]float32, len(resized.Pix))
	for i, v := range resized.Pix {
		data[i] = float32(v)
	}
	return datamodel.NewTensor([]int64{1, 1, InputSize, InputSize}, data)
}
