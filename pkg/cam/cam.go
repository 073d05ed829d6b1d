// Package cam computes class activation maps from a classifier's final
// convolutional features and its linear head.
package cam

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/inference"
)

// A CAM whose spread is at most this is reported as all zeros.
const degenerateRange = 1e-7

// Compute runs model on a single preprocessed image of shape (1, H, W) and
// returns the activation map normalized into [0, 1] together with the
// positive-class probability.
//
// The model must return two outputs: the logit and the feature map of shape
// (1, C, h, w), with C equal to the length of the classifier weights.
func Compute(ctx context.Context, model inference.CAMModel, input *datamodel.Tensor) (*datamodel.Image2D, float64, error) {
	outputs, err := model.Infer(ctx, input.Unsqueeze())
	if err != nil {
		return nil, 0, err
	}
	if len(outputs) != 2 {
		return nil, 0, errors.Wrapf(datamodel.ErrInference, "expected logit and features, got %d outputs", len(outputs))
	}
	logit, features := outputs[0], outputs[1]
	if logit == nil || features == nil || logit.Len() < 1 {
		return nil, 0, errors.Wrap(datamodel.ErrInference, "empty model output")
	}

	if len(features.Shape) != 4 || features.Shape[0] != 1 {
		return nil, 0, errors.Wrapf(datamodel.ErrInference, "features must be (1, C, h, w), got %v", features.Shape)
	}
	c, h, w := int(features.Shape[1]), int(features.Shape[2]), int(features.Shape[3])
	if c <= 0 || h <= 0 || w <= 0 || features.Len() != c*h*w {
		return nil, 0, errors.Wrapf(datamodel.ErrInference, "features %v hold %d values", features.Shape, features.Len())
	}

	weights := model.ClassifierWeights()
	if len(weights) != c {
		return nil, 0, errors.Wrapf(datamodel.ErrInference, "classifier has %d weights for %d channels", len(weights), c)
	}

	f := mat.NewDense(c, h*w, toFloat64(features.Data))
	wv := mat.NewVecDense(c, toFloat64(weights))

	var v mat.VecDense
	v.MulVec(f.T(), wv)

	act := &datamodel.Image2D{Width: w, Height: h, Pix: normalize(v.RawVector().Data)}
	return act, Sigmoid(float64(logit.Data[0])), nil
}

// Sigmoid is the logistic function.
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func normalize(x []float64) []float64 {
	out := make([]float64, len(x))
	lo, hi := floats.Min(x), floats.Max(x)
	if hi-lo <= degenerateRange {
		return out
	}
	for i, v := range x {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

func toFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
