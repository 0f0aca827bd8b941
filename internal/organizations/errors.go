package organizations

import (
	"errors"
	"net/http"
)

// Domain errors for organization operations.
var (
	ErrNotFound    = errors.New("organization not found")
	ErrDuplicate   = errors.New("organization already exists")
	ErrInvalidName = errors.New("organization name is required")
	ErrInvalidID   = errors.New("invalid organization id")
)

// MapHTTPStatus maps organization domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
