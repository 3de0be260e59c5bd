package domain

import "errors"

// Sentinel errors shared across services and repositories. Callers match
// with errors.Is; services wrap them with user-facing detail.
var (
	// ErrUnauthenticated means no requester identity was supplied.
	ErrUnauthenticated = errors.New("authorization required")

	// ErrForbidden means the requester is not the owner of the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means the input was malformed or out of range.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidFilter means a query filter used an unknown field or
	// operator tag, or violated the single-inequality-field rule.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a duplicate registration/wishlist entry or a
	// sold-out conference.
	ErrConflict = errors.New("conflict")
)
