package services

import "errors"

// Failure kinds returned by stores and services. Controllers map these
// onto HTTP statuses; anything unrecognized is treated as internal.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrNoRecipients    = errors.New("no recipients in range")

	// Reserved for idempotency-key collisions; nothing raises it yet.
	ErrConflict = errors.New("conflict")
)
