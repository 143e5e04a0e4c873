// Package handlers defines HTTP-layer error codes used across all API
// endpoints. These codes give clients a stable, machine-readable taxonomy
// that supplements the human-readable message in the envelope.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror common HTTP status semantics.
//   - Domain-specific codes (already_exists, relay_failed, ...) are reserved
//     for failures that the status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeAlreadyExists      = "already_exists"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeMissingText        = "missing_text"
	ErrCodeRelayFailed        = "relay_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeSaveFailed         = "save_failed"
	ErrCodeDeleteFailed       = "delete_failed"
)
