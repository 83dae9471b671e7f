package domain

// Questionnaire answer keys, in the order they are asked
const (
	AnswerMood     = "mood"
	AnswerCategory = "category"
	AnswerRegion   = "region"
)

// Moods
const (
	MoodChill  = "chill"
	MoodLively = "lively"
	MoodFancy  = "fancy"
	MoodWork   = "work"
)

// Categories
const (
	CategoryFood   = "food"
	CategoryCoffee = "coffee"
)

// RegionAny skips region matching in favour of a flat flexibility bonus
const RegionAny = "any"

// Locale selects the language of user-facing text
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"
)

// ParseLocale returns the matching locale, defaulting to English
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleArabic {
		return LocaleArabic
	}
	return LocaleEnglish
}

// Answers holds one questionnaire response
type Answers struct {
	Mood     string `json:"mood"`
	Category string `json:"category"`
	Region   string `json:"region"`
}

// Get returns the answer stored under key
func (a Answers) Get(key string) string {
	switch key {
	case AnswerMood:
		return a.Mood
	case AnswerCategory:
		return a.Category
	case AnswerRegion:
		return a.Region
	}
	return ""
}

// With returns a copy of a with key set to value
func (a Answers) With(key, value string) Answers {
	switch key {
	case AnswerMood:
		a.Mood = value
	case AnswerCategory:
		a.Category = value
	case AnswerRegion:
		a.Region = value
	}
	return a
}

// RecommendRequest represents a one-shot recommendation request
type RecommendRequest struct {
	Mood     string `json:"mood" binding:"required"`
	Category string `json:"category" binding:"required"`
	Region   string `json:"region" binding:"required"`
	Locale   string `json:"locale,omitempty"`
}

// Answers extracts the questionnaire answers from the request
func (r RecommendRequest) Answers() Answers {
	return Answers{Mood: r.Mood, Category: r.Category, Region: r.Region}
}

// ScoredResult is a venue with its score for one questionnaire response
type ScoredResult struct {
	Venue
	Score           int    `json:"score"`
	MatchPercentage int    `json:"matchPercentage"` // display-only, 0-100
	MatchReason     string `json:"matchReason"`
}
