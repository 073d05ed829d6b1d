package service

import (
	"github.com/pkg/errors"
)

// ErrMissingFile is returned when the request carries no scan upload.
var ErrMissingFile = errors.New("no file provided")

// ErrNoSegmentationModel is returned when no atrium segmentation model was
// loaded at start-up.
var ErrNoSegmentationModel = errors.New("no segmentation model loaded")
