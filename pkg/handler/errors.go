package handler

import (
	"errors"
	"net/http"

	"github.com/instill-ai/medical-backend/pkg/inference"
	"github.com/instill-ai/medical-backend/pkg/service"
)

// Messages read by the viewer frontend.
const (
	msgUnknownModel = "Unknown model requested."
	msgMissingFile  = "No file provided."
)

// statusFor maps a pipeline error onto the HTTP status and message returned to
// the client. Anything that is not a validation failure is a 500 carrying the
// error text.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, inference.ErrUnknownModel):
		return http.StatusBadRequest, msgUnknownModel
	case errors.Is(err, service.ErrMissingFile),
		errors.Is(err, http.ErrMissingFile),
		errors.Is(err, http.ErrNotMultipart),
		errors.Is(err, http.ErrMissingBoundary):
		return http.StatusBadRequest, msgMissingFile
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
