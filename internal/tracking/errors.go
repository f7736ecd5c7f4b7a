package tracking

import (
	"errors"
	"net/http"
)

var (
	ErrRunNotFound    = errors.New("run not found")
	ErrRunClosed      = errors.New("run already ended")
	ErrDuplicateRun   = errors.New("run already exists")
	ErrUnknownBackend = errors.New("unknown tracking backend")
)

// MapHTTPStatus maps tracking errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrRunNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrRunClosed) || errors.Is(err, ErrDuplicateRun) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
