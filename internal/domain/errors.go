package domain

import "errors"

var (
	// ErrInvalidRange: malformed or inverted date window.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrDatesUnavailable: the window collides with a blocking reservation
	// or a maintenance window.
	ErrDatesUnavailable = errors.New("dates unavailable")
	// ErrMaintenanceOverlap: a maintenance window collides with another
	// maintenance window on the same hotel.
	ErrMaintenanceOverlap = errors.New("maintenance window overlap")
	// ErrNotFound: the referenced entity does not exist (or is not visible
	// to the acting hotel owner).
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the actor lacks the role an owner-scoped operation needs.
	ErrForbidden = errors.New("forbidden")
)
