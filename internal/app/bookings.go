package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

// BookingService owns the reservation ledger operations. Payment is asserted
// to have cleared before Create is called (the payment collaborator's
// concern), so new bookings land confirmed/paid directly.
type BookingService struct {
	repo     domain.BookingRepository
	detector *AvailabilityDetector
	notifier domain.Notifier
	locks    *hotelLocks
}

func NewBookingService(repo domain.BookingRepository, det *AvailabilityDetector, n domain.Notifier) *BookingService {
	return &BookingService{repo: repo, detector: det, notifier: n, locks: newHotelLocks()}
}

type CreateBookingInput struct {
	HotelID     int64
	GuestID     string
	Dates       domain.DateRange
	Adults      int
	Children    int
	Rooms       int
	Allocations []domain.RoomAllocation
	TotalCost   float64
}

func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.Reservation, error) {
	if err := in.Dates.Validate(); err != nil {
		return domain.Reservation{}, err
	}

	// Serialize check-then-write per hotel.
	l := s.locks.get(in.HotelID)
	l.Lock()
	defer l.Unlock()

	conflict, err := s.detector.HasConflict(ctx, in.HotelID, in.Dates, "")
	if err != nil {
		return domain.Reservation{}, err
	}
	if conflict {
		return domain.Reservation{}, domain.ErrDatesUnavailable
	}

	now := time.Now().UTC()
	r := domain.Reservation{
		ID:          uuid.NewString(),
		HotelID:     in.HotelID,
		GuestID:     in.GuestID,
		Dates:       in.Dates,
		Adults:      in.Adults,
		Children:    in.Children,
		Rooms:       in.Rooms,
		Allocations: in.Allocations,
		TotalCost:   in.TotalCost,
		Status:      domain.BookingConfirmed,
		Payment:     domain.PaymentPaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return domain.Reservation{}, err
	}

	s.notify(ctx, "booking_confirmed", r)
	return r, nil
}

// ChangeDates revalidates the new window against the hotel's other
// reservations and maintenance windows; on conflict the reservation is
// left unchanged.
func (s *BookingService) ChangeDates(ctx context.Context, id string, rng domain.DateRange) (domain.Reservation, error) {
	if err := rng.Validate(); err != nil {
		return domain.Reservation{}, err
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	l := s.locks.get(r.HotelID)
	l.Lock()
	defer l.Unlock()

	conflict, err := s.detector.HasConflict(ctx, r.HotelID, rng, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if conflict {
		return domain.Reservation{}, domain.ErrDatesUnavailable
	}
	if err := s.repo.UpdateDates(ctx, id, r.HotelID, rng); err != nil {
		return domain.Reservation{}, err
	}
	r.Dates = rng
	r.UpdatedAt = time.Now().UTC()

	s.notify(ctx, "booking_updated", r)
	return r, nil
}

// Cancel transitions status to cancelled and, if payment was captured,
// flips payment to refunded (status fields only; money movement is the
// payment collaborator's job). Cancelling an already-cancelled booking is
// a no-op that still succeeds. Never deletes, never re-checks overlap.
func (s *BookingService) Cancel(ctx context.Context, id string) (domain.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if r.Status == domain.BookingCancelled {
		return r, nil
	}

	r.Status = domain.BookingCancelled
	if r.Payment == domain.PaymentPaid {
		r.Payment = domain.PaymentRefunded
	}
	if err := s.repo.UpdateStatus(ctx, id, r.Status, r.Payment); err != nil {
		return domain.Reservation{}, err
	}

	s.notify(ctx, "booking_cancelled", r)
	return r, nil
}

// ChangeStatus applies a status transition. Cancellation routes through
// Cancel so its refund and idempotency rules hold; other transitions keep
// the payment status untouched. Setting the current status again is a no-op.
func (s *BookingService) ChangeStatus(ctx context.Context, id string, status domain.BookingStatus) (domain.Reservation, error) {
	if status == domain.BookingCancelled {
		return s.Cancel(ctx, id)
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if r.Status == status {
		return r, nil
	}

	r.Status = status
	if err := s.repo.UpdateStatus(ctx, id, r.Status, r.Payment); err != nil {
		return domain.Reservation{}, err
	}

	s.notify(ctx, "booking_updated", r)
	return r, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (domain.Reservation, error) {
	return s.repo.Get(ctx, id)
}

// notify is fire-and-forget: a broker failure must never surface as a
// booking failure. Dispatch happens after the nil check so a missing
// notifier is a clean no-op.
func (s *BookingService) notify(ctx context.Context, event string, r domain.Reservation) {
	if s.notifier == nil {
		return
	}
	var err error
	switch event {
	case "booking_confirmed":
		err = s.notifier.BookingConfirmed(ctx, r)
	case "booking_updated":
		err = s.notifier.BookingUpdated(ctx, r)
	case "booking_cancelled":
		err = s.notifier.BookingCancelled(ctx, r)
	}
	if err != nil {
		log.Warn().Err(err).Str("event", event).Str("booking_id", r.ID).Msg("notification publish failed")
	}
}
