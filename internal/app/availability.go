package app

import (
	"context"

	"staybook/internal/domain"
)

// AvailabilityDetector reconciles the two conflict sources — the booking
// ledger and the maintenance ledger — under the half-open overlap rule.
// It has no state of its own: the booking path uses the point query as a
// pre-write gate, the search path uses the bulk query (one set query per
// ledger, never row-by-row).
type AvailabilityDetector struct {
	bookings    domain.BookingRepository
	maintenance domain.MaintenanceRepository
}

func NewAvailabilityDetector(b domain.BookingRepository, m domain.MaintenanceRepository) *AvailabilityDetector {
	return &AvailabilityDetector{bookings: b, maintenance: m}
}

// HasConflict reports whether any pending/confirmed reservation or any
// maintenance window on the hotel overlaps rng. excludeBookingID skips one
// reservation (the one being modified); pass "" on the create path.
func (d *AvailabilityDetector) HasConflict(ctx context.Context, hotelID int64, rng domain.DateRange, excludeBookingID string) (bool, error) {
	if err := rng.Validate(); err != nil {
		return false, err
	}
	booked, err := d.bookings.HasOverlap(ctx, hotelID, rng, excludeBookingID)
	if err != nil {
		return false, err
	}
	if booked {
		return true, nil
	}
	return d.maintenance.HasOverlap(ctx, hotelID, rng)
}

// ConflictingHotels returns the hotel-id sets blocked for rng, split by
// source so search can report per-source exclusion counts.
func (d *AvailabilityDetector) ConflictingHotels(ctx context.Context, rng domain.DateRange) (booked, maintenance []int64, err error) {
	if err := rng.Validate(); err != nil {
		return nil, nil, err
	}
	booked, err = d.bookings.HotelsWithOverlap(ctx, rng)
	if err != nil {
		return nil, nil, err
	}
	maintenance, err = d.maintenance.HotelsWithOverlap(ctx, rng)
	if err != nil {
		return nil, nil, err
	}
	return booked, maintenance, nil
}
