package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"staybook/internal/domain"
)

// BookingRepo persists reservations. Writes that depend on the absence of
// an overlap re-check it inside the transaction with a locking read, so
// two racing writers cannot both pass.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) Create(ctx context.Context, b domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkReservationOverlap(ctx, tx, b.HotelID, b.Dates, b.ID); err != nil {
		return err
	}

	alloc, err := json.Marshal(b.Allocations)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, insertReservationSQL,
		b.ID, b.HotelID, b.GuestID,
		b.Dates.CheckIn(), b.Dates.CheckOut(),
		b.Adults, b.Children, b.Rooms,
		string(alloc), b.TotalCost,
		string(b.Status), string(b.Payment), b.ReminderSent,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *BookingRepo) Get(ctx context.Context, id string) (domain.Reservation, error) {
	var (
		b                 domain.Reservation
		alloc             []byte
		status, payStatus string
	)
	err := r.db.QueryRowContext(ctx, getReservationSQL, id).Scan(
		&b.ID, &b.HotelID, &b.GuestID,
		&b.Dates.Start, &b.Dates.End,
		&b.Adults, &b.Children, &b.Rooms,
		&alloc, &b.TotalCost,
		&status, &payStatus, &b.ReminderSent,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	b.Status = domain.BookingStatus(status)
	b.Payment = domain.PaymentStatus(payStatus)
	_ = json.Unmarshal(alloc, &b.Allocations)
	return b, nil
}

// UpdateDates moves a reservation; the overlap re-check excludes the
// reservation itself so unchanged or shifted-in-place windows pass.
func (r *BookingRepo) UpdateDates(ctx context.Context, id string, hotelID int64, rng domain.DateRange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := checkReservationOverlap(ctx, tx, hotelID, rng, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, updateReservationDatesSQL, rng.CheckIn(), rng.CheckOut(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, payment domain.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, updateReservationStatusSQL, string(status), string(payment), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingRepo) HasOverlap(ctx context.Context, hotelID int64, rng domain.DateRange, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, reservationOverlapSQL,
		hotelID, rng.CheckOut(), rng.CheckIn(), excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *BookingRepo) HotelsWithOverlap(ctx context.Context, rng domain.DateRange) ([]int64, error) {
	return queryHotelIDs(ctx, r.db, reservationConflictHotelsSQL, rng)
}

func checkReservationOverlap(ctx context.Context, tx *sql.Tx, hotelID int64, rng domain.DateRange, excludeID string) error {
	var found string
	err := tx.QueryRowContext(ctx, reservationOverlapForUpdateSQL,
		hotelID, rng.CheckOut(), rng.CheckIn(), excludeID,
	).Scan(&found)
	switch {
	case err == nil:
		return domain.ErrDatesUnavailable
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return err
	}
}

func queryHotelIDs(ctx context.Context, db *sql.DB, query string, rng domain.DateRange) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, rng.CheckOut(), rng.CheckIn())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
