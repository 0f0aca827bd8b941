package ingest

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/scorecard/internal/organizations"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/tables"
)

// Domain errors for upload operations.
var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrBusy           = errors.New("another upload for this organization is in progress")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrMissingFile    = errors.New("file is required")
	ErrInvalidID      = errors.New("invalid organization id")
)

// MapHTTPStatus maps upload errors, including those surfaced from parsing
// and the record store, to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, tables.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, tables.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingColumns):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBusy), errors.Is(err, records.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, organizations.ErrNotFound), errors.Is(err, records.ErrNotFound):
		// records.ErrNotFound here means the organization vanished mid-upload.
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
