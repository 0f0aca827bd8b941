package batches

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/scorecard/internal/records"
)

// Domain errors for batch operations.
var (
	ErrNotFound       = errors.New("batch not found")
	ErrInvalidName    = errors.New("batch name must not be empty")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrInvalidID      = errors.New("invalid organization id")
	ErrNoSource       = errors.New("no archived upload for batch")
)

// MapHTTPStatus maps batch and record errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoSource):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return records.MapHTTPStatus(err)
}
