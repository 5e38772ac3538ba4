package domain

import "time"

// WaitlistEntry records guest interest in a window that was unavailable at
// request time. No overlap invariant: any number of guests may wait on the
// same dates.
type WaitlistEntry struct {
	ID         string
	HotelID    int64
	GuestName  string
	GuestEmail string
	Dates      DateRange
	CreatedAt  time.Time
}
