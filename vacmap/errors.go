package vacmap

import (
	"errors"
	"fmt"
)

// ErrFormatNotFound is returned when the format prober exhausts every
// candidate layout without a plausible match. Callers may fall back to a
// fixed-offset assumption or abort.
var ErrFormatNotFound = errors.New("no plausible binary layout found")

// InsufficientDataError reports a buffer too small for the declared grid
// dimensions. It is checked up front, before any classification.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("map data too small: %d bytes, need %d", e.Have, e.Need)
}

// MalformedMetadataError reports a missing or wrongly shaped field in one
// of the metadata documents.
type MalformedMetadataError struct {
	Doc   string
	Field string
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("%s: missing or invalid field %q", e.Doc, e.Field)
}
