package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/dinebook/backend/internal/domain"
	"go.uber.org/zap"
)

// VenueSource is the read side of the catalog used by recommendation flows
type VenueSource interface {
	Venues(ctx context.Context) ([]domain.Venue, error)
}

// RecommendationService answers one-shot recommendation requests
type RecommendationService struct {
	catalog VenueSource
	matcher *VibeMatcher
	logger  *zap.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(catalog VenueSource, matcher *VibeMatcher, logger *zap.Logger) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		catalog: catalog,
		matcher: matcher,
		logger:  logger,
	}
}

// Recommend validates the answers and returns the top ranked venues
func (s *RecommendationService) Recommend(
	ctx context.Context,
	answers domain.Answers,
	locale domain.Locale,
) ([]domain.ScoredResult, error) {
	if err := ValidateAnswers(answers); err != nil {
		return nil, err
	}

	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return nil, err
	}

	results := s.matcher.Rank(venues, answers, locale)

	s.logger.Info("recommendations computed",
		zap.String("mood", answers.Mood),
		zap.String("category", answers.Category),
		zap.String("region", answers.Region),
		zap.Int("catalogSize", len(venues)),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// RegionOptions returns the region choices derived from the live catalog
func (s *RecommendationService) RegionOptions(ctx context.Context) ([]string, error) {
	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.BuildRegionOptions(venues), nil
}

// Questions returns the localized questionnaire with live region options
func (s *RecommendationService) Questions(ctx context.Context, locale domain.Locale) ([]Question, error) {
	regions, err := s.RegionOptions(ctx)
	if err != nil {
		return nil, err
	}
	return Questions(locale, regions), nil
}

// ValidateAnswers rejects moods and categories the questionnaire never offers.
// Region is free-form here since the catalog may change between requests.
func ValidateAnswers(answers domain.Answers) error {
	if !isOffered(answers.Mood, fixedOptions[domain.AnswerMood]) {
		return fmt.Errorf("%w: unknown mood %q", domain.ErrInvalidAnswer, answers.Mood)
	}
	if !isOffered(answers.Category, fixedOptions[domain.AnswerCategory]) {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidAnswer, answers.Category)
	}
	if strings.TrimSpace(answers.Region) == "" {
		return fmt.Errorf("%w: region is required", domain.ErrInvalidAnswer)
	}
	return nil
}

// catalogInvalidator is implemented by venue sources that cache the catalog
type catalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RefreshCatalog drops any cached catalog, reloads it and returns its size
func (s *RecommendationService) RefreshCatalog(ctx context.Context) (int, error) {
	if inv, ok := s.catalog.(catalogInvalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			return 0, fmt.Errorf("%w: invalidate catalog: %v", domain.ErrCacheUnavailable, err)
		}
	}

	venues, err := s.catalog.Venues(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Info("venue catalog refreshed", zap.Int("venues", len(venues)))
	return len(venues), nil
}
