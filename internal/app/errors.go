package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrInvalidCredential means a team or admin password did not match.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUnknownTeam means the submission named a team outside the
	// configured list.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrUnknownTile means the request named a tile missing from the
	// definition table.
	ErrUnknownTile = errors.New("unknown tile")

	// ErrNotStarted means an operation ran before Start.
	ErrNotStarted = errors.New("service not started")
)
