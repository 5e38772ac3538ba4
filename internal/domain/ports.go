package domain

import "context"

type CatalogRepository interface {
	// Write paths (ingestor)
	UpsertListing(ctx context.Context, h HotelListing) error
	LogMiss(ctx context.Context, id int64, status int, reason string) error

	// Read paths
	GetListing(ctx context.Context, id int64) (HotelListing, error)
	// SearchListings applies the filter predicate minus the excluded ids,
	// then sorts, paginates and facets over that same predicate.
	SearchListings(ctx context.Context, q SearchQuery, excluded ExcludedHotels, pageSize int) (SearchPage, error)
}

type BookingRepository interface {
	// Create re-runs the reservation overlap predicate inside the insert
	// transaction and returns ErrDatesUnavailable if a blocking row exists.
	Create(ctx context.Context, r Reservation) error
	Get(ctx context.Context, id string) (Reservation, error)
	// UpdateDates re-checks overlap against the hotel's other reservations
	// (excluding id) inside the update transaction.
	UpdateDates(ctx context.Context, id string, hotelID int64, rng DateRange) error
	UpdateStatus(ctx context.Context, id string, status BookingStatus, payment PaymentStatus) error

	// Overlap Detector queries.
	HasOverlap(ctx context.Context, hotelID int64, rng DateRange, excludeID string) (bool, error)
	HotelsWithOverlap(ctx context.Context, rng DateRange) ([]int64, error)
}

type MaintenanceRepository interface {
	// Create returns ErrMaintenanceOverlap when the window collides with an
	// existing window on the same hotel.
	Create(ctx context.Context, w MaintenanceWindow) error
	Delete(ctx context.Context, hotelID int64, id string) error

	HasOverlap(ctx context.Context, hotelID int64, rng DateRange) (bool, error)
	HotelsWithOverlap(ctx context.Context, rng DateRange) ([]int64, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, e WaitlistEntry) error
	ListForHotel(ctx context.Context, hotelID int64) ([]WaitlistEntry, error)
}

// Cache is the shared key/value cache (hotel detail reads).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Notifier emits fire-and-forget events to the notification collaborator.
// Delivery failure must never affect the booking outcome; callers log and
// move on.
type Notifier interface {
	BookingConfirmed(ctx context.Context, r Reservation) error
	BookingUpdated(ctx context.Context, r Reservation) error
	BookingCancelled(ctx context.Context, r Reservation) error
	WaitlistJoined(ctx context.Context, e WaitlistEntry) error
}

// ListingClient reads hotel documents from the external listing service.
type ListingClient interface {
	GetListing(ctx context.Context, id int64) (map[string]any, error)
}
