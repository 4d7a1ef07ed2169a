package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeInvalidRoom     = "invalid_room"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeRoleplayFailed  = "roleplay_failed"
)

var (
	ErrInvalidRoom   = errors.New("invalid room name")
	ErrNotRegistered = errors.New("connection not registered")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
