package mysql

import (
	"context"
	"database/sql"
	"errors"

	"staybook/internal/domain"
)

// MaintenanceRepo persists owner maintenance windows. Same transactional
// overlap guard as reservations, but against other windows only: a window
// may legitimately cover existing bookings.
type MaintenanceRepo struct{ db *sql.DB }

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

func (r *MaintenanceRepo) Create(ctx context.Context, w domain.MaintenanceWindow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var found string
	err = tx.QueryRowContext(ctx, maintenanceOverlapForUpdateSQL,
		w.HotelID, w.Dates.CheckOut(), w.Dates.CheckIn(),
	).Scan(&found)
	switch {
	case err == nil:
		return domain.ErrMaintenanceOverlap
	case errors.Is(err, sql.ErrNoRows):
	default:
		return err
	}

	if _, err := tx.ExecContext(ctx, insertMaintenanceSQL,
		w.ID, w.HotelID, w.Title, valStr(w.Description),
		w.Dates.CheckIn(), w.Dates.CheckOut(),
		w.Priority, w.Status, w.CreatedBy,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MaintenanceRepo) Delete(ctx context.Context, hotelID int64, id string) error {
	res, err := r.db.ExecContext(ctx, deleteMaintenanceSQL, id, hotelID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepo) HasOverlap(ctx context.Context, hotelID int64, rng domain.DateRange) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, maintenanceOverlapSQL,
		hotelID, rng.CheckOut(), rng.CheckIn(),
	).Scan(&exists)
	return exists, err
}

func (r *MaintenanceRepo) HotelsWithOverlap(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	return queryHotelIDs(ctx, r.db, maintenanceConflictHotelsSQL, rng)
}
