package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"staybook/internal/domain"
)

// MaintenanceService owns owner-initiated blackout windows. Creation rejects
// maintenance-vs-maintenance overlap only; an owner may schedule maintenance
// over an existing reservation (guests are protected by search-time
// exclusion, not by a creation rule).
type MaintenanceService struct {
	repo domain.MaintenanceRepository
}

func NewMaintenanceService(repo domain.MaintenanceRepository) *MaintenanceService {
	return &MaintenanceService{repo: repo}
}

type CreateMaintenanceInput struct {
	HotelID     int64
	Title       string
	Description *string
	Dates       domain.DateRange
	Priority    string
	CreatedBy   string
}

func (s *MaintenanceService) Create(ctx context.Context, in CreateMaintenanceInput) (domain.MaintenanceWindow, error) {
	if err := in.Dates.Validate(); err != nil {
		return domain.MaintenanceWindow{}, err
	}
	if in.Priority == "" {
		in.Priority = "normal"
	}
	w := domain.MaintenanceWindow{
		ID:          uuid.NewString(),
		HotelID:     in.HotelID,
		Title:       in.Title,
		Description: in.Description,
		Dates:       in.Dates,
		Priority:    in.Priority,
		Status:      "scheduled",
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return domain.MaintenanceWindow{}, err
	}
	return w, nil
}

// Delete is unconditional by id, scoped to the owning hotel.
func (s *MaintenanceService) Delete(ctx context.Context, hotelID int64, id string) error {
	return s.repo.Delete(ctx, hotelID, id)
}
