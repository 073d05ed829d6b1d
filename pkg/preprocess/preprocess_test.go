package preprocess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

func TestToModelInput(t *testing.T) {
	img := datamodel.NewImage2D(512, 300)
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	tensor, err := ToModelInput(img)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, InputSize, InputSize}, tensor.Shape)
	require.Equal(t, InputSize*InputSize, tensor.Len())

	want := (float32(1) - ChannelMean) / ChannelStd
	for _, v := range tensor.Data {
		require.InDelta(t, want, v, 1e-5)
	}
}

func TestToModelInput_Zero(t *testing.T) {
	tensor, err := ToModelInput(datamodel.NewImage2D(224, 224))
	require.NoError(t, err)
	assert.InDelta(t, -ChannelMean/ChannelStd, tensor.Data[0], 1e-6)
}

func TestToModelInput_Shape(t *testing.T) {
	testCases := []*datamodel.Image2D{
		nil,
		{Width: 0, Height: 10},
		{Width: 2, Height: 2, Pix: []float64{1, 2, 3}},
	}
	for _, img := range testCases {
		_, err := ToModelInput(img)
		assert.True(t, errors.Is(err, datamodel.ErrShape))
	}
}

func TestToSegmentationInput(t *testing.T) {
	slice := datamodel.NewImage2D(320, 320)
	for i := range slice.Pix {
		slice.Pix[i] = 0.5
	}

	tensor, err := ToSegmentationInput(slice)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 1, InputSize, InputSize}, tensor.Shape)
	assert.Equal(t, float32(0.5), tensor.Data[InputSize*InputSize/2])
}
