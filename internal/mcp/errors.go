package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/pronix-hub/internal/domain/client"
	"github.com/rpggio/pronix-hub/internal/spreadsheet"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, client.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "client not found", RecoveryHint: "Call list_clients to find valid IDs"}
	case errors.Is(err, spreadsheet.ErrMalformed):
		return &APIError{Code: "MALFORMED_SPREADSHEET", Message: err.Error(), RecoveryHint: "Check the file format and header row; the previous base was kept"}
	case errors.Is(err, client.ErrDuplicateID):
		return &APIError{Code: "DUPLICATE_ID", Message: err.Error(), RecoveryHint: "Use a unique ID_Cliente"}
	case errors.Is(err, client.ErrUnknownStatus):
		return &APIError{Code: "UNKNOWN_STATUS", Message: "unknown client status", RecoveryHint: "Call client_options for the known statuses"}
	case errors.Is(err, client.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, errUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: err.Error(), RecoveryHint: "Send a valid bearer token"}
	default:
		return nil
	}
}

// toolError converts a service error into the error returned from a tool.
func toolError(op string, err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
