// Package services defines the business logic for accounts, chats, and the
// completion relay. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrUsernameTaken indicates that registration failed because the
	// username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for every failed login attempt.
	// It deliberately does not distinguish an unknown username from a wrong
	// password, so callers cannot probe for account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyText is returned when a relay request contains no text.
	ErrEmptyText = errors.New("text is empty")

	// ErrInvalidChat is returned when a chat to be saved is missing its id
	// or owner.
	ErrInvalidChat = errors.New("chat id and owner are required")
)
