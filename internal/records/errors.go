package records

import (
	"errors"
	"net/http"
)

// Domain errors for record operations.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidPerspective = errors.New("invalid perspective")
	ErrInvalidField       = errors.New("field is not editable")
	ErrInvalidUpdate      = errors.New("invalid field value")
	ErrInvalidScope       = errors.New("invalid batch id scope")
	ErrEmptyBatch         = errors.New("batch has no records")
	ErrInvalidID          = errors.New("invalid identifier")
)

// MapHTTPStatus maps record domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidPerspective) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrInvalidUpdate) ||
		errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
