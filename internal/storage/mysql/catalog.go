package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"staybook/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valJSONSlice(v []string) any {
	if v == nil {
		return nil
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func valJSONMap(v map[string][]string) any {
	if v == nil {
		return nil
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// CatalogRepo is the local read model of the listing collaborator's catalog.
type CatalogRepo struct{ db *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) UpsertListing(ctx context.Context, h domain.HotelListing) error {
	_, err := r.db.ExecContext(ctx, upsertListingSQL,
		h.ID,
		h.Name,
		h.City,
		h.Country,
		valStr(h.Address),
		h.Stars,
		h.PricePerNight,
		h.MaxAdults,
		h.MaxChildren,
		valJSONSlice(h.Facilities),
		valJSONSlice(h.Types),
		valJSONSlice(h.Tags),
		valJSONMap(h.Amenities),
		h.Featured,
		valJSON(h.RawJSON),
	)
	return err
}

func (r *CatalogRepo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

func (r *CatalogRepo) GetListing(ctx context.Context, id int64) (domain.HotelListing, error) {
	row := r.db.QueryRowContext(ctx, getListingSQL, id)
	h, err := scanListing(row)
	if err == sql.ErrNoRows {
		return domain.HotelListing{}, domain.ErrNotFound
	}
	return h, err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanListing(row rowScanner) (domain.HotelListing, error) {
	var h domain.HotelListing
	var addr sql.NullString
	var facilities, types, tags, amenities []byte

	if err := row.Scan(
		&h.ID,
		&h.Name,
		&h.City,
		&h.Country,
		&addr,
		&h.Stars,
		&h.PricePerNight,
		&h.MaxAdults,
		&h.MaxChildren,
		&facilities,
		&types,
		&tags,
		&amenities,
		&h.Featured,
		&h.TotalBookings,
		&h.TotalRevenue,
		&h.UpdatedAt,
	); err != nil {
		return domain.HotelListing{}, err
	}

	if addr.Valid {
		a := addr.String
		h.Address = &a
	}
	_ = json.Unmarshal(facilities, &h.Facilities)
	_ = json.Unmarshal(types, &h.Types)
	_ = json.Unmarshal(tags, &h.Tags)
	_ = json.Unmarshal(amenities, &h.Amenities)
	return h, nil
}
