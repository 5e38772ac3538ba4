package app

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/adapters/observability"
	"staybook/internal/cache"
	"staybook/internal/domain"
)

// SearchService is the availability-filtered catalog query. Undated searches
// go through the FIFO result cache; dated searches bypass it entirely (read
// and write) because availability moves faster than any tolerable TTL.
type SearchService struct {
	catalog  domain.CatalogRepository
	detector *AvailabilityDetector
	results  *cache.ResultCache
	detail   domain.Cache
	ttl      time.Duration
	pageSize int
}

func NewSearchService(c domain.CatalogRepository, det *AvailabilityDetector, results *cache.ResultCache, detail domain.Cache, detailTTL time.Duration, pageSize int) *SearchService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &SearchService{catalog: c, detector: det, results: results, detail: detail, ttl: detailTTL, pageSize: pageSize}
}

func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	if q.Dated() {
		if err := q.Window.Validate(); err != nil {
			return domain.SearchPage{}, err
		}
		booked, maint, err := s.detector.ConflictingHotels(ctx, *q.Window)
		if err != nil {
			return domain.SearchPage{}, err
		}
		page, err := s.catalog.SearchListings(ctx, q, domain.ExcludedHotels{Booked: booked, Maintenance: maint}, s.pageSize)
		if err != nil {
			return domain.SearchPage{}, err
		}
		observability.ObserveExclusions(page.Exclusions.ByBookings, page.Exclusions.ByMaintenance)
		return page, nil
	}

	key := cache.Key(q, s.pageSize)
	if page, ok := s.results.Get(key); ok {
		observability.ObserveCache("results", "hit")
		page.ServedFromCache = true
		return page, nil
	}
	observability.ObserveCache("results", "miss")

	page, err := s.catalog.SearchListings(ctx, q, domain.ExcludedHotels{}, s.pageSize)
	if err != nil {
		return domain.SearchPage{}, err
	}
	s.results.Put(key, page)
	observability.ObserveCache("results", "set")
	return page, nil
}

// GetHotel serves the undated hotel detail read through the shared cache.
// Cache failures degrade to a repository read.
func (s *SearchService) GetHotel(ctx context.Context, id int64) (domain.HotelListing, error) {
	key := fmt.Sprintf("hotel:%d", id)
	var h domain.HotelListing
	// a corrupt cache entry reads as a miss, never as a half-decoded listing
	if ok, err := s.detail.Get(ctx, key, &h); err == nil && ok {
		return h, nil
	}
	h, err := s.catalog.GetListing(ctx, id)
	if err != nil {
		return domain.HotelListing{}, err
	}
	_ = s.detail.Set(ctx, key, h, int(s.ttl.Seconds()))
	return h, nil
}
