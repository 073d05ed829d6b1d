package cam_test

import (
	"context"
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instill-ai/medical-backend/pkg/cam"
	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/mock"
)

func filled(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func inputTensor() *datamodel.Tensor {
	return &datamodel.Tensor{Shape: []int64{1, 224, 224}, Data: make([]float32, 224*224)}
}

func TestCompute_ConstantFeatures(t *testing.T) {
	ctrl := gomock.NewController(t)

	model := mock.NewMockCAMModel(ctrl)
	model.EXPECT().
		Infer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *datamodel.Tensor) ([]*datamodel.Tensor, error) {
			assert.Equal(t, []int64{1, 1, 224, 224}, in.Shape)
			return []*datamodel.Tensor{
				{Shape: []int64{1, 1}, Data: []float32{0.7}},
				{Shape: []int64{1, 512, 7, 7}, Data: filled(512*49, 1)},
			}, nil
		})
	model.EXPECT().ClassifierWeights().Return(filled(512, 1))

	act, prob, err := cam.Compute(context.Background(), model, inputTensor())
	require.NoError(t, err)

	assert.Equal(t, 7, act.Width)
	assert.Equal(t, 7, act.Height)
	for _, v := range act.Pix {
		assert.Equal(t, 0.0, v)
	}
	assert.InDelta(t, 1/(1+math.Exp(-0.7)), prob, 1e-6)
}

func TestCompute_Normalized(t *testing.T) {
	ctrl := gomock.NewController(t)

	// channel 0 ramps across the 2x2 map, channel 1 is constant
	features := []float32{
		0, 1, 2, 3,
		5, 5, 5, 5,
	}
	model := mock.NewMockCAMModel(ctrl)
	model.EXPECT().Infer(gomock.Any(), gomock.Any()).Return([]*datamodel.Tensor{
		{Shape: []int64{1, 1}, Data: []float32{0}},
		{Shape: []int64{1, 2, 2, 2}, Data: features},
	}, nil)
	model.EXPECT().ClassifierWeights().Return([]float32{2, -1})

	act, prob, err := cam.Compute(context.Background(), model, inputTensor())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1.0 / 3, 2.0 / 3, 1}, act.Pix)
	assert.Equal(t, 0.5, prob)
}

func TestCompute_MalformedOutputs(t *testing.T) {
	testCases := []struct {
		name    string
		outputs []*datamodel.Tensor
		weights []float32
	}{
		{
			name:    "single output",
			outputs: []*datamodel.Tensor{{Shape: []int64{1, 1}, Data: []float32{1}}},
		},
		{
			name: "features not 4D",
			outputs: []*datamodel.Tensor{
				{Shape: []int64{1, 1}, Data: []float32{1}},
				{Shape: []int64{4, 4}, Data: filled(16, 1)},
			},
		},
		{
			name: "weight count mismatch",
			outputs: []*datamodel.Tensor{
				{Shape: []int64{1, 1}, Data: []float32{1}},
				{Shape: []int64{1, 4, 2, 2}, Data: filled(16, 1)},
			},
			weights: filled(3, 1),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			model := mock.NewMockCAMModel(ctrl)
			model.EXPECT().Infer(gomock.Any(), gomock.Any()).Return(tc.outputs, nil)
			model.EXPECT().ClassifierWeights().Return(tc.weights).AnyTimes()

			_, _, err := cam.Compute(context.Background(), model, inputTensor())
			assert.ErrorIs(t, err, datamodel.ErrInference)
		})
	}
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, cam.Sigmoid(0))
	assert.InDelta(t, 1, cam.Sigmoid(40), 1e-12)
	assert.InDelta(t, 0, cam.Sigmoid(-40), 1e-12)
}
