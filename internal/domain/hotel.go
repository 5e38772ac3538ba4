package domain

import "time"

// HotelListing is the read-mostly catalog entity, owned by the external
// listing service and mirrored locally by the ingestor. Reservations and
// maintenance windows reference it by id only; availability is always a
// join at query time, never denormalized into the listing.
type HotelListing struct {
	ID            int64
	Name          string
	City          string
	Country       string
	Address       *string
	Stars         int
	PricePerNight float64
	MaxAdults     int
	MaxChildren   int
	Facilities    []string
	Types         []string
	Tags          []string
	Amenities     map[string][]string // group name -> amenity names
	Featured      bool
	TotalBookings int64
	TotalRevenue  float64
	UpdatedAt     time.Time
	RawJSON       []byte // full listing payload as received
}
