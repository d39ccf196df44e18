package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, malformed enum value).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller is authenticated but not allowed
// to perform the operation (non-organizer mutating a trip, non-admin calling
// an admin operation). The operation stops with no side effect.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when the caller's identity cannot be
// established (missing or invalid credentials or session token).
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict is returned when a write collides with existing state,
// e.g. signing up with an email that is already registered.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrPaymentFailed is returned when the payment processor does not report a
// successful charge for the supplied payment intent. No upgrade write
// happens when this error is returned.
// Handlers should map this to HTTP 402.
var ErrPaymentFailed = errors.New("payment failed")
