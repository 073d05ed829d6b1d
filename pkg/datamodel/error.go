package datamodel

import (
	"errors"
)

type Error struct {

	// Error code
	Status int32 `json:"status"`

	// Short description of the error
	Title string `json:"title"`

	// Human-readable error message
	Detail string `json:"detail"`

	// Same message as Detail, read by the viewer frontend
	Error string `json:"error"`
}

// ErrDecode is returned when an upload cannot be parsed as a scan.
var ErrDecode = errors.New("failed to decode scan")

// ErrShape is returned when decoded data has the wrong dimensionality.
var ErrShape = errors.New("unexpected array shape")

// ErrInference is returned when a forward pass fails or its outputs are malformed.
var ErrInference = errors.New("inference failed")
