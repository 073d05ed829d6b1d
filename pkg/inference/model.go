package inference

import (
	"context"
	"fmt"

	"github.com/instill-ai/medical-backend/config"
	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

// Variant is the closed set of model families the service can serve.
type Variant int

const (
	VariantUnspecified Variant = iota
	VariantPneumoniaCAM
	VariantCardiacBBox
	VariantAtriumSegmentation
)

func (v Variant) String() string {
	switch v {
	case VariantPneumoniaCAM:
		return config.VariantPneumoniaCAM
	case VariantCardiacBBox:
		return config.VariantCardiacBBox
	case VariantAtriumSegmentation:
		return config.VariantAtriumSegmentation
	default:
		return "unspecified"
	}
}

// ParseVariant maps a configuration value onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case config.VariantPneumoniaCAM:
		return VariantPneumoniaCAM, nil
	case config.VariantCardiacBBox:
		return VariantCardiacBBox, nil
	case config.VariantAtriumSegmentation:
		return VariantAtriumSegmentation, nil
	}
	return VariantUnspecified, fmt.Errorf("unknown model variant %q", s)
}

// Model is an opaque forward pass. Implementations must be safe for
// concurrent use.
type Model interface {
	Name() string
	Variant() Variant
	Infer(ctx context.Context, input *datamodel.Tensor) ([]*datamodel.Tensor, error)
}

// CAMModel additionally exposes the final linear layer's weight row for the
// positive class, used to project the feature map.
type CAMModel interface {
	Model
	ClassifierWeights() []float32
}
