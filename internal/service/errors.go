package service

import "errors"

// Sentinel errors the HTTP layer maps to status codes. Repositories wrap
// driver errors; services translate them into these before they cross
// the boundary.
var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists is returned when registering with an email already in use.
	ErrEmailExists = errors.New("email already registered")
	// ErrUserDeactivated is returned for accounts with is_active cleared.
	ErrUserDeactivated = errors.New("account is deactivated")
	// ErrNotFound covers lookups of records that do not exist or are deleted.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyReviewed is returned when a user reviews the same book twice.
	ErrAlreadyReviewed = errors.New("book already reviewed by user")
	// ErrAlreadyFavorited is returned when a user favorites the same book twice.
	ErrAlreadyFavorited = errors.New("book already favorited")
)
