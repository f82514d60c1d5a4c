package domain

import "errors"

var (
	// ErrInvalidScore is returned when a score submission is not a usable number.
	ErrInvalidScore = errors.New("invalid score value")
	// ErrSourceUnavailable indicates the upstream question source failed or timed out.
	ErrSourceUnavailable = errors.New("question source unavailable")
	// ErrUserNotFound indicates a user id or email has no matching identity record.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = errors.New("email already in use")
)
