// Package repository implements the data access layer on top of MySQL.
// This file defines the sentinel errors shared across repositories and
// services.  They form the error taxonomy of the API: handlers translate
// them into HTTP status codes (not-found -> 404, conflict and invalid
// argument -> 400, forbidden -> 403, anything else -> 500), so every
// failure path below the HTTP layer must surface one of these values or
// wrap it.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another user's
// reservation or purchase.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when the entity exists but is not in a state
// that permits the requested transition: reserving a ticket that is not
// AVAILABLE, paying a purchase that is not PENDING, and so on.
var ErrConflict = errors.New("conflict")

// ErrInvalidArgument is returned for malformed input that survived
// request binding, such as an empty ticket id list.
var ErrInvalidArgument = errors.New("invalid argument")

// Per-entity not-found sentinels.  Distinct values keep handler error
// messages specific without string matching.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrFilmNotFound     = errors.New("film not found")
	ErrHallNotFound     = errors.New("hall not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrCategoryNotFound = errors.New("seat category not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrReviewNotFound   = errors.New("review not found")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrFilmNotFound, ErrHallNotFound, ErrSeatNotFound,
		ErrCategoryNotFound, ErrSessionNotFound, ErrTicketNotFound,
		ErrPurchaseNotFound, ErrPaymentNotFound, ErrReviewNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
