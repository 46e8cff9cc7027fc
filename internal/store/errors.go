package store

import "errors"

// Store-level errors; handlers map these to HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrRequestPending     = errors.New("friend request already pending")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrInvalidDecision    = errors.New("decision must be accepted or rejected")
	ErrEmptyMessage       = errors.New("message cannot be empty")
)
