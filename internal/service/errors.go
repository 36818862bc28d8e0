package service

import "errors"

var (
	// ErrAllFieldsRequired signals a missing or malformed field in a create
	// or update request.
	ErrAllFieldsRequired = errors.New("all fields are required")

	// ErrUserIDRequired signals a delete request without a user id.
	ErrUserIDRequired = errors.New("user id is required")

	// ErrNoUsers signals an empty users collection on list.
	ErrNoUsers = errors.New("no users found")

	// ErrUserNotFound signals that an id does not resolve to a user.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername signals a username already held by another user.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUserHasNotes signals that a user still owns notes and cannot be
	// deleted.
	ErrUserHasNotes = errors.New("user has notes, cannot delete")
)
