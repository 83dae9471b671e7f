package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dinebook/backend/internal/domain"
)

// Rating bounds enforced at ingestion
const (
	minRating = 0.0
	maxRating = 5.0
)

// RawVenue is a catalog row as stored in the hosted database. Different
// screens wrote the same data under different column names, so several
// aliases are accepted for most fields.
type RawVenue struct {
	ID any `json:"id"`

	Name  string `json:"name"`
	Title string `json:"title"`

	NameAr        string `json:"name_ar"`
	NameArCamel   string `json:"nameAr"`
	NameLocalized string `json:"name_localized"`

	City    string `json:"city"`
	Address string `json:"address"`
	Type    string `json:"type"`

	CuisineType      string `json:"cuisine_type"`
	CuisineTypeCamel string `json:"cuisineType"`
	Cuisine          string `json:"cuisine"`

	PriceRange      string `json:"price_range"`
	PriceRangeCamel string `json:"priceRange"`

	Rating any `json:"rating"`

	Description   string `json:"description"`
	DescriptionAr string `json:"description_ar"`

	ImageURL      string `json:"image_url"`
	ImageURLCamel string `json:"imageUrl"`
	Image         string `json:"image"`
}

// Normalize maps a raw row into the canonical venue shape
func Normalize(raw RawVenue) domain.Venue {
	return domain.Venue{
		ID:            formatID(raw.ID),
		Name:          firstNonEmpty(raw.Name, raw.Title),
		NameLocalized: firstNonEmpty(raw.NameAr, raw.NameArCamel, raw.NameLocalized),
		City:          strings.TrimSpace(raw.City),
		Address:       strings.TrimSpace(raw.Address),
		Type:          strings.ToLower(strings.TrimSpace(raw.Type)),
		CuisineType:   firstNonEmpty(raw.CuisineType, raw.CuisineTypeCamel, raw.Cuisine),
		PriceRange:    firstNonEmpty(raw.PriceRange, raw.PriceRangeCamel),
		Rating:        parseRating(raw.Rating),
		Description:   joinNonEmpty(raw.Description, raw.DescriptionAr),
		ImageURL:      firstNonEmpty(raw.ImageURL, raw.ImageURLCamel, raw.Image),
	}
}

// NormalizeAll maps every raw row, preserving order
func NormalizeAll(rows []RawVenue) []domain.Venue {
	venues := make([]domain.Venue, 0, len(rows))
	for _, row := range rows {
		venues = append(venues, Normalize(row))
	}
	return venues
}

// parseRating accepts numbers and numeric strings and clamps into [0, 5].
// Anything unparseable counts as unrated.
func parseRating(v any) float64 {
	var rating float64
	switch r := v.(type) {
	case float64:
		rating = r
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return 0
		}
		rating = parsed
	default:
		return 0
	}

	if math.IsNaN(rating) {
		return 0
	}
	return math.Max(minRating, math.Min(maxRating, rating))
}

func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", id)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// joinNonEmpty keeps bilingual descriptions searchable as one text
func joinNonEmpty(values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
