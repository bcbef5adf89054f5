package storage

import "errors"

var (
	ErrUserExist    = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrLocked       = errors.New("locked")
	// ErrSlugConflict is a unique violation on invitations.slug.
	ErrSlugConflict = errors.New("slug conflict")
)
