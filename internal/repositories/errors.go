package repositories

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound is returned when no post matches the lookup.
	ErrPostNotFound = errors.New("post not found")
	// ErrDuplicateUser is returned when an insert collides with an
	// existing username or email.
	ErrDuplicateUser = errors.New("username or email already taken")
)
