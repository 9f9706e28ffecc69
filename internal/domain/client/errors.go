package client

import "errors"

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrDuplicateID indicates another client already uses the identifier.
	ErrDuplicateID = errors.New("duplicate client id")
	// ErrUnknownStatus indicates a status outside the known set.
	ErrUnknownStatus = errors.New("unknown client status")
	// ErrInvalidInput indicates invalid input for client operations.
	ErrInvalidInput = errors.New("invalid client input")
)
