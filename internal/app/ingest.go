package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staybook/internal/domain"
)

// IngestionService mirrors listing documents from the listing collaborator
// into the local catalog read model.
type IngestionService struct {
	listings domain.ListingClient
	repo     domain.CatalogRepository
	cache    domain.Cache
}

func NewIngestionService(c domain.ListingClient, r domain.CatalogRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{listings: c, repo: r, cache: cache}
}

// IngestListing fetches one listing and upserts it. Known 404/401/403
// responses are recorded as misses and stop gracefully; the stale detail
// cache entry is evicted either way so an old snapshot is never served.
func (s *IngestionService) IngestListing(ctx context.Context, id int64) error {
	p, err := s.listings.GetListing(ctx, id)
	if err != nil {
		low := strings.ToLower(err.Error())

		if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
			_ = s.repo.LogMiss(ctx, id, 404, "not found")
			s.invalidateListing(ctx, id)
			return nil
		}
		if strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
			strings.Contains(low, "401") || strings.Contains(low, "unauthorized") {
			_ = s.repo.LogMiss(ctx, id, 403, "inactive")
			s.invalidateListing(ctx, id)
			return nil
		}

		// network/5xx/JSON errors bubble up
		return err
	}

	h := mapListing(id, p)
	if err := s.repo.UpsertListing(ctx, h); err != nil {
		return fmt.Errorf("upsert listing %d: %w", id, err)
	}
	s.invalidateListing(ctx, id)
	return nil
}

func (s *IngestionService) invalidateListing(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("hotel:%d", id))
}
