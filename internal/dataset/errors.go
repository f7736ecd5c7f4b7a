package dataset

import "errors"

var (
	// ErrNotFound indicates the dataset source does not exist.
	ErrNotFound = errors.New("dataset not found")
	// ErrMalformed indicates the dataset could not be decoded.
	ErrMalformed = errors.New("dataset malformed")
)
