package domain

import "time"

// MaintenanceWindow is an owner-initiated blackout. Within one hotel two
// windows may not overlap; overlap with existing reservations is allowed
// (owners coordinate that manually, search keeps guests out).
type MaintenanceWindow struct {
	ID          string
	HotelID     int64
	Title       string
	Description *string
	Dates       DateRange
	Priority    string
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
}
