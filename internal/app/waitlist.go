package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook/internal/domain"
)

// WaitlistService records guest interest in windows that were unavailable.
// Entries carry no overlap invariant; promotion to a notification when the
// window clears happens outside this service.
type WaitlistService struct {
	repo     domain.WaitlistRepository
	notifier domain.Notifier
}

func NewWaitlistService(repo domain.WaitlistRepository, n domain.Notifier) *WaitlistService {
	return &WaitlistService{repo: repo, notifier: n}
}

type JoinWaitlistInput struct {
	HotelID    int64
	GuestName  string
	GuestEmail string
	Dates      domain.DateRange
}

func (s *WaitlistService) Join(ctx context.Context, in JoinWaitlistInput) (domain.WaitlistEntry, error) {
	if err := in.Dates.Validate(); err != nil {
		return domain.WaitlistEntry{}, err
	}
	e := domain.WaitlistEntry{
		ID:         uuid.NewString(),
		HotelID:    in.HotelID,
		GuestName:  in.GuestName,
		GuestEmail: in.GuestEmail,
		Dates:      in.Dates,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return domain.WaitlistEntry{}, err
	}
	if s.notifier != nil {
		if err := s.notifier.WaitlistJoined(ctx, e); err != nil {
			log.Warn().Err(err).Str("entry_id", e.ID).Msg("waitlist notification publish failed")
		}
	}
	return e, nil
}

func (s *WaitlistService) ListForHotel(ctx context.Context, hotelID int64) ([]domain.WaitlistEntry, error) {
	return s.repo.ListForHotel(ctx, hotelID)
}
