package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"staybook/internal/domain"
)

// predicate is an accumulating WHERE builder. All facet and count queries
// run against the exact predicate that produced the page, so facets and
// results can never disagree.
type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(p.clauses, " AND ")
}

// buildPredicate translates the filter set. Facilities/tags/amenities are
// AND semantics (one clause per value), types/stars are OR.
func buildPredicate(q domain.SearchQuery) *predicate {
	p := &predicate{}

	if loc := strings.ToLower(strings.TrimSpace(q.Location)); loc != "" {
		like := "%" + loc + "%"
		p.add("(LOWER(city) LIKE ? OR LOWER(country) LIKE ? OR LOWER(COALESCE(address_raw,'')) LIKE ?)", like, like, like)
	}
	if q.Adults > 0 {
		p.add("max_adults >= ?", q.Adults)
	}
	if q.Children > 0 {
		p.add("max_children >= ?", q.Children)
	}
	for _, f := range q.Facilities {
		p.add("JSON_CONTAINS(COALESCE(facilities, JSON_ARRAY()), JSON_QUOTE(?))", f)
	}
	if len(q.Types) > 0 {
		b, _ := json.Marshal(q.Types)
		p.add("JSON_OVERLAPS(COALESCE(types, JSON_ARRAY()), CAST(? AS JSON))", string(b))
	}
	if len(q.Stars) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(q.Stars)), ",")
		args := make([]any, 0, len(q.Stars))
		for _, s := range q.Stars {
			args = append(args, s)
		}
		p.add("stars IN ("+marks+")", args...)
	}
	for _, t := range q.Tags {
		p.add("JSON_CONTAINS(COALESCE(tags, JSON_ARRAY()), JSON_QUOTE(?))", t)
	}
	for _, a := range q.Amenities {
		// amenities is an object of group -> []name; JSON_SEARCH covers
		// every sub-group.
		p.add("JSON_SEARCH(COALESCE(amenities, JSON_OBJECT()), 'one', ?) IS NOT NULL", a)
	}
	if q.MinPrice != nil {
		p.add("price_per_night >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		p.add("price_per_night <= ?", *q.MaxPrice)
	}
	if q.FeaturedOnly {
		p.add("featured = 1")
	}
	return p
}

func notIn(p *predicate, ids []int64) {
	if len(ids) == 0 {
		return
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	p.add("id NOT IN ("+marks+")", args...)
}

func orderBy(sort string) string {
	switch sort {
	case domain.SortPriceAsc:
		return "price_per_night ASC, id ASC"
	case domain.SortPriceDesc:
		return "price_per_night DESC, id ASC"
	case domain.SortUpdated:
		return "updated_at DESC, id ASC"
	case domain.SortPopular:
		return "total_bookings DESC, id ASC"
	default:
		// stable two-key default keeps ordering deterministic across pages
		return "stars DESC, price_per_night ASC, id ASC"
	}
}

// SearchListings runs the filtered, availability-narrowed catalog query:
// page + total + facets over one predicate, plus per-source exclusion
// counts against the un-narrowed predicate.
func (r *CatalogRepo) SearchListings(ctx context.Context, q domain.SearchQuery, excluded domain.ExcludedHotels, pageSize int) (domain.SearchPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	base := buildPredicate(q)
	narrowed := buildPredicate(q)
	union := unionIDs(excluded.Booked, excluded.Maintenance)
	notIn(narrowed, union)

	out := domain.SearchPage{
		Page:     page,
		PageSize: pageSize,
		Facets:   domain.Facets{Stars: map[int]int{}, Types: map[string]int{}},
	}

	// total over the same predicate as the returned page
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels WHERE "+narrowed.where(), narrowed.args...,
	).Scan(&out.Total); err != nil {
		return domain.SearchPage{}, err
	}
	out.Pages = (out.Total + pageSize - 1) / pageSize

	// page of listings
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM hotels WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
			listingColumns, narrowed.where(), orderBy(q.Sort)),
		append(append([]any{}, narrowed.args...), pageSize, (page-1)*pageSize)...,
	)
	if err != nil {
		return domain.SearchPage{}, err
	}
	defer rows.Close()
	for rows.Next() {
		h, err := scanListing(rows)
		if err != nil {
			return domain.SearchPage{}, err
		}
		out.Items = append(out.Items, h)
	}
	if err := rows.Err(); err != nil {
		return domain.SearchPage{}, err
	}

	if err := r.facets(ctx, narrowed, &out.Facets); err != nil {
		return domain.SearchPage{}, err
	}

	// how many filter-matching hotels each conflict source removed
	var err2 error
	out.Exclusions.ByBookings, err2 = r.countIn(ctx, base, excluded.Booked)
	if err2 != nil {
		return domain.SearchPage{}, err2
	}
	out.Exclusions.ByMaintenance, err2 = r.countIn(ctx, base, excluded.Maintenance)
	if err2 != nil {
		return domain.SearchPage{}, err2
	}

	return out, nil
}

// facets computes star counts, unwound type counts and the price envelope
// over the narrowed predicate.
func (r *CatalogRepo) facets(ctx context.Context, p *predicate, f *domain.Facets) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT stars, COUNT(*) FROM hotels WHERE "+p.where()+" GROUP BY stars", p.args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var stars, n int
		if err := rows.Scan(&stars, &n); err != nil {
			return err
		}
		f.Stars[stars] = n
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// a hotel with three types contributes to three buckets
	trows, err := r.db.QueryContext(ctx,
		`SELECT jt.tv, COUNT(*)
		 FROM hotels,
		      JSON_TABLE(COALESCE(types, JSON_ARRAY()), '$[*]' COLUMNS (tv VARCHAR(64) PATH '$')) AS jt
		 WHERE `+p.where()+` GROUP BY jt.tv`, p.args...)
	if err != nil {
		return err
	}
	defer trows.Close()
	for trows.Next() {
		var tv string
		var n int
		if err := trows.Scan(&tv, &n); err != nil {
			return err
		}
		f.Types[tv] = n
	}
	if err := trows.Err(); err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MIN(price_per_night),0), COALESCE(MAX(price_per_night),0) FROM hotels WHERE "+p.where(),
		p.args...,
	).Scan(&f.MinPrice, &f.MaxPrice)
}

// countIn counts filter-matching hotels inside one conflict-id set.
func (r *CatalogRepo) countIn(ctx context.Context, base *predicate, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := append([]any{}, base.args...)
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels WHERE "+base.where()+" AND id IN ("+marks+")", args...,
	).Scan(&n)
	return n, err
}

func unionIDs(a, b []int64) []int64 {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
