package dashboard

import (
	"errors"
	"net/http"
)

var (
	ErrUnknownDocument  = errors.New("unknown dashboard document")
	ErrDocumentNotFound = errors.New("dashboard document not synced")
	ErrSyncFailed       = errors.New("dashboard sync failed")
)

// MapHTTPStatus maps dashboard errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownDocument) || errors.Is(err, ErrDocumentNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
