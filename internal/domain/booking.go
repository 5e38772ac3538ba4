package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingRefunded  BookingStatus = "refunded"
)

// BlocksAvailability reports whether a reservation in this status counts as a
// conflict source. Cancelled/completed/refunded bookings never block dates.
func (s BookingStatus) BlocksAvailability() bool {
	return s == BookingPending || s == BookingConfirmed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// RoomAllocation is one room's share of a reservation.
type RoomAllocation struct {
	RoomType        string  `json:"room_type"`
	Capacity        int     `json:"capacity"`
	NightlyRate     float64 `json:"nightly_rate"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// Reservation is the authoritative booking record. Rows are never deleted;
// cancellation is a status transition so refund audit stays queryable.
type Reservation struct {
	ID          string
	HotelID     int64
	GuestID     string
	Dates       DateRange
	Adults      int
	Children    int
	Rooms       int
	Allocations []RoomAllocation
	TotalCost   float64
	Status      BookingStatus
	Payment     PaymentStatus
	// ReminderSent is flipped by an external scheduled job.
	ReminderSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
