package tables

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates the filename does not carry a tabular extension.
	ErrUnsupportedFormat = errors.New("unsupported file type: expected .csv, .xlsx, or .xls")
	// ErrMalformedInput indicates the file could not be decoded as a table.
	ErrMalformedInput = errors.New("malformed input")
)

func malformed(cause error) error {
	return fmt.Errorf("%w: %w", ErrMalformedInput, cause)
}
