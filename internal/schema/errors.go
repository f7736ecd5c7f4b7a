package schema

import "errors"

// Configuration errors. Both are fatal to a validation run.
var (
	ErrSchemaRead    = errors.New("schema unreadable")
	ErrSchemaInvalid = errors.New("schema malformed")
)
