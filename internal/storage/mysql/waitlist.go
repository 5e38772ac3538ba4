package mysql

import (
	"context"
	"database/sql"

	"staybook/internal/domain"
)

type WaitlistRepo struct{ db *sql.DB }

func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

func (r *WaitlistRepo) Create(ctx context.Context, e domain.WaitlistEntry) error {
	_, err := r.db.ExecContext(ctx, insertWaitlistSQL,
		e.ID, e.HotelID, e.GuestName, e.GuestEmail,
		e.Dates.CheckIn(), e.Dates.CheckOut(),
	)
	return err
}

func (r *WaitlistRepo) ListForHotel(ctx context.Context, hotelID int64) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, listWaitlistSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WaitlistEntry
	for rows.Next() {
		var e domain.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.HotelID, &e.GuestName, &e.GuestEmail,
			&e.Dates.Start, &e.Dates.End, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
