// Package volume rescales scan intensities before slicing and inference.
package volume

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

// Degenerate inputs (spread below this) are mapped to all zeros.
const epsilon = 1e-5

// Normalize returns the z-score of x using the population standard deviation.
func Normalize(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	mean, std := stat.PopMeanStdDev(x, nil)
	if std < epsilon {
		return out
	}
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}

// Standardize rescales x into [0, 1] using its NaN-ignoring minimum and
// maximum. NaN inputs map to 0.
func Standardize(x []float64) []float64 {
	out := make([]float64, len(x))
	lo, hi := datamodel.NaNMinMax(x)
	if math.IsNaN(lo) || hi-lo < epsilon {
		return out
	}

	rng := hi - lo
	for i, v := range x {
		switch {
		case math.IsNaN(v), v <= lo:
			out[i] = 0
		case v >= hi:
			out[i] = 1
		default:
			out[i] = (v - lo) / rng
		}
	}
	return out
}

// NormalizeVolume applies Normalize over the whole volume.
func NormalizeVolume(v *datamodel.Volume) *datamodel.Volume {
	return v.WithData(Normalize(v.Data))
}

// StandardizeVolume applies Standardize over the whole volume.
func StandardizeVolume(v *datamodel.Volume) *datamodel.Volume {
	return v.WithData(Standardize(v.Data))
}
