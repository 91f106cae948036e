package hub

import "errors"

var (
	// ErrValidation reports a missing or malformed required field. The hub is left unchanged.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports an unknown item id. The hub is left unchanged.
	ErrNotFound = errors.New("item not found")
)
