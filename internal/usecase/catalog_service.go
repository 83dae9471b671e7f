package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dinebook/backend/internal/domain"
	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:venues"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService loads the venue catalog with caching
type CatalogService struct {
	cache    domain.CacheRepository
	provider domain.CatalogProvider
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	provider domain.CatalogProvider,
	config CatalogServiceConfig,
	logger *zap.Logger,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{
		cache:    cache,
		provider: provider,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Venues returns the current catalog.
// Flow: check cache -> fetch from provider -> cache -> return
func (s *CatalogService) Venues(ctx context.Context) ([]domain.Venue, error) {
	if venues, err := s.getFromCache(ctx); err == nil {
		return venues, nil
	}

	venues, err := s.provider.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	if err := s.setInCache(ctx, venues); err != nil {
		s.logger.Warn("failed to cache venue catalog", zap.Error(err))
	}

	s.logger.Debug("loaded venue catalog", zap.Int("venues", len(venues)))
	return venues, nil
}

// Invalidate drops the cached catalog so the next read goes to the provider
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogCacheKey)
}

func (s *CatalogService) getFromCache(ctx context.Context) ([]domain.Venue, error) {
	data, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, err
	}

	var venues []domain.Venue
	if err := json.Unmarshal(data, &venues); err != nil {
		s.logger.Warn("discarding unreadable cached catalog", zap.Error(err))
		return nil, domain.ErrCacheMiss
	}
	return venues, nil
}

func (s *CatalogService) setInCache(ctx context.Context, venues []domain.Venue) error {
	data, err := json.Marshal(venues)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, catalogCacheKey, data, s.cacheTTL)
}
