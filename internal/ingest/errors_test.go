package ingest_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/scorecard/internal/ingest"
	"github.com/JaimeStill/scorecard/internal/organizations"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/tables"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("parse: %w", tables.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{fmt.Errorf("parse: %w", tables.ErrMalformedInput), http.StatusBadRequest},
		{&ingest.MissingColumnsError{Columns: []string{"actual"}}, http.StatusUnprocessableEntity},
		{ingest.ErrBusy, http.StatusConflict},
		{organizations.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("store batch: %w", records.ErrNotFound), http.StatusNotFound},
		{ingest.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{ingest.ErrMissingFile, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ingest.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
