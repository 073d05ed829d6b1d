// Package decoder reads uploaded scan files into scalar rasters.
package decoder

import (
	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

// ImageDecoder reads a single 2D scan from a staged file.
type ImageDecoder interface {
	Decode2D(path string) (*datamodel.Image2D, error)
}

// VolumeDecoder reads a 3D scan from a staged file.
type VolumeDecoder interface {
	Decode3D(path string) (*datamodel.Volume, error)
}
