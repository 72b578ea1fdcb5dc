// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the calling union does not own
// the row it is trying to read or mutate, while ErrDeckLimit signals
// that a member has already spent their raid deck budget for the season.
package repository

import "errors"

// ErrNotFound is returned when a row cannot be found in the DB.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// row owned by a different union. Handlers should translate this into
// an HTTP 403 response with no further detail.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert collides with existing state,
// such as adding a member whose name is already on the season roster.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDeckLimit is returned when a raid battle insert would exceed the
// per-member deck budget for the season. The check is atomic with the
// insert, so concurrent submissions cannot overshoot the cap.
var ErrDeckLimit = errors.New("deck limit reached")
