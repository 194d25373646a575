package api

import "errors"

// Sentinel errors for request handling.
var (
	// ErrBadRequest indicates a malformed or unparseable request.
	ErrBadRequest = errors.New("bad request")
)
