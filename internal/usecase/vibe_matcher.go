package usecase

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dinebook/backend/internal/domain"
	"go.uber.org/zap"
)

// Scoring bands
const (
	categoryMatchPoints = 50 // Venue type fits the requested category
	moodMatchPoints     = 30 // Venue fits the requested mood
	regionExactPoints   = 20 // City equals the requested region
	regionFuzzyPoints   = 15 // Region appears somewhere in the venue text
	regionAnyPoints     = 10 // Flat bonus when the user is flexible on region
	ratingMultiplier    = 2  // Rating band is rating * 2
	maxRating           = 5.0
)

// MaxScore is the theoretical ceiling used only for display normalization
const MaxScore = categoryMatchPoints + moodMatchPoints + regionExactPoints + int(maxRating*ratingMultiplier)

// Engine defaults
const (
	defaultTopN             = 3
	defaultMaxRegionOptions = 5
	topRatedThreshold       = 4.5
)

// moodKeywords are the haystack terms that earn the mood band.
// Fancy is judged on price range instead and is not listed here.
var moodKeywords = map[string][]string{
	domain.MoodChill:  {"quiet", "cozy", "هادئ"},
	domain.MoodLively: {"music", "busy", "crowded"},
	domain.MoodWork:   {"wifi", "quiet"},
}

// fancyPriceRanges are the price ranges that count as fancy
var fancyPriceRanges = map[string]bool{"$$$": true, "$$$$": true}

// VibeMatcherConfig holds configuration for the vibe matcher
type VibeMatcherConfig struct {
	TopN               int
	MaxRegionOptions   int
	EnableDebugLogging bool
}

// VibeMatcher scores and ranks venues against a questionnaire response.
// It holds no per-query state and is safe for concurrent use.
type VibeMatcher struct {
	topN               int
	maxRegionOptions   int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewVibeMatcher creates a new matcher with the given configuration
func NewVibeMatcher(config VibeMatcherConfig, logger *zap.Logger) *VibeMatcher {
	topN := config.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	maxRegions := config.MaxRegionOptions
	if maxRegions <= 0 {
		maxRegions = defaultMaxRegionOptions
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &VibeMatcher{
		topN:               topN,
		maxRegionOptions:   maxRegions,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// BuildRegionOptions derives the region choices from the catalog.
// Cities are deduplicated in first-seen order; empty, single-character and
// coordinate-looking values are dropped.
func (m *VibeMatcher) BuildRegionOptions(venues []domain.Venue) []string {
	seen := make(map[string]bool)
	options := []string{}

	for _, venue := range venues {
		city := strings.TrimSpace(venue.City)
		if seen[city] {
			continue
		}
		seen[city] = true

		if !isValidRegion(city) {
			continue
		}

		options = append(options, city)
		if len(options) == m.maxRegionOptions {
			break
		}
	}

	return options
}

// isValidRegion rejects empty, too short, and numeric/coordinate city values
func isValidRegion(city string) bool {
	if utf8.RuneCountInString(city) < 2 {
		return false
	}
	for _, r := range city {
		if r == '.' || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Score computes the additive match score of a venue for the given answers.
// Unknown mood, category or region values contribute nothing to their band.
func (m *VibeMatcher) Score(venue domain.Venue, answers domain.Answers) int {
	score := answerBands(venue, answers) + ratingBand(venue.Rating)

	if m.enableDebugLogging {
		m.logger.Debug("scored venue",
			zap.String("venue", venue.Name),
			zap.String("mood", answers.Mood),
			zap.String("category", answers.Category),
			zap.String("region", answers.Region),
			zap.Int("score", score),
		)
	}

	return score
}

// answerBands sums the category, mood and region bands
func answerBands(venue domain.Venue, answers domain.Answers) int {
	haystack := buildHaystack(venue)
	return categoryBand(venue, answers.Category) +
		moodBand(venue, haystack, answers.Mood) +
		regionBand(venue, haystack, answers.Region)
}

// rankKey is the unrounded score. Ordering on it keeps 4.6 ahead of 4.4
// even though both round to the same rating band.
func rankKey(venue domain.Venue, answers domain.Answers) float64 {
	return float64(answerBands(venue, answers)) + venue.Rating*ratingMultiplier
}

func categoryBand(venue domain.Venue, category string) int {
	switch category {
	case domain.CategoryFood:
		if !venue.IsCafe() {
			return categoryMatchPoints
		}
	case domain.CategoryCoffee:
		if venue.IsCafe() {
			return categoryMatchPoints
		}
	}
	return 0
}

func moodBand(venue domain.Venue, haystack, mood string) int {
	switch mood {
	case domain.MoodFancy:
		if fancyPriceRanges[venue.PriceRange] {
			return moodMatchPoints
		}
	case domain.MoodWork:
		if venue.IsCafe() || containsAny(haystack, moodKeywords[mood]) {
			return moodMatchPoints
		}
	case domain.MoodChill, domain.MoodLively:
		if containsAny(haystack, moodKeywords[mood]) {
			return moodMatchPoints
		}
	}
	return 0
}

func regionBand(venue domain.Venue, haystack, region string) int {
	if region == domain.RegionAny {
		return regionAnyPoints
	}
	if region == "" {
		return 0
	}
	if strings.EqualFold(venue.City, region) {
		return regionExactPoints
	}
	if strings.Contains(haystack, strings.ToLower(region)) {
		return regionFuzzyPoints
	}
	return 0
}

// ratingBand rounds to the nearest point so scores stay integral
func ratingBand(rating float64) int {
	return int(math.Round(rating * ratingMultiplier))
}

// buildHaystack joins the venue's free-text fields into one lowercase blob
func buildHaystack(venue domain.Venue) string {
	return strings.ToLower(strings.Join([]string{
		venue.City,
		venue.Address,
		venue.NameLocalized,
		venue.Name,
		venue.CuisineType,
		venue.Description,
	}, " "))
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// Rank scores every venue and returns the best matches, highest score first.
// Venues are ordered on the unrounded score; exact ties keep their catalog
// order. The input slice is not modified.
func (m *VibeMatcher) Rank(venues []domain.Venue, answers domain.Answers, locale domain.Locale) []domain.ScoredResult {
	type candidate struct {
		key    float64
		result domain.ScoredResult
	}

	candidates := make([]candidate, 0, len(venues))
	for _, venue := range venues {
		score := m.Score(venue, answers)
		candidates = append(candidates, candidate{
			key: rankKey(venue, answers),
			result: domain.ScoredResult{
				Venue:           venue,
				Score:           score,
				MatchPercentage: MatchPercentage(score),
				MatchReason:     m.Explain(venue, answers, locale),
			},
		})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.key, a.key)
	})

	if len(candidates) > m.topN {
		candidates = candidates[:m.topN]
	}

	scored := make([]domain.ScoredResult, len(candidates))
	for i, c := range candidates {
		scored[i] = c.result
	}

	if m.enableDebugLogging {
		for i, result := range scored {
			m.logger.Debug("ranked venue",
				zap.Int("position", i+1),
				zap.String("venue", result.Name),
				zap.Int("score", result.Score),
			)
		}
	}

	return scored
}

// MatchPercentage normalizes a raw score against MaxScore for display
func MatchPercentage(score int) int {
	pct := int(math.Round(float64(score) / float64(MaxScore) * 100))
	return min(100, pct)
}
