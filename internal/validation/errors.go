package validation

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no validation result has been persisted yet.
	ErrNotFound = errors.New("validation result not found")
	// ErrPersist indicates the result or its report could not be written.
	ErrPersist = errors.New("persist validation result")
)

// MapHTTPStatus maps validation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
