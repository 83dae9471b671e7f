package usecase

import "github.com/dinebook/backend/internal/domain"

type reasonKey int

const (
	reasonElegant reasonKey = iota
	reasonFocus
	reasonCozy
	reasonTopRated
	reasonGeneric
)

var matchReasons = map[reasonKey]map[domain.Locale]string{
	reasonElegant: {
		domain.LocaleEnglish: "An elegant spot for a refined night out",
		domain.LocaleArabic:  "مكان أنيق لأمسية راقية",
	},
	reasonFocus: {
		domain.LocaleEnglish: "A quiet place to focus and get work done",
		domain.LocaleArabic:  "مكان هادئ للتركيز وإنجاز العمل",
	},
	reasonCozy: {
		domain.LocaleEnglish: "A cozy, relaxed atmosphere to unwind",
		domain.LocaleArabic:  "أجواء مريحة ودافئة للاسترخاء",
	},
	reasonTopRated: {
		domain.LocaleEnglish: "One of the top rated places around",
		domain.LocaleArabic:  "من أعلى الأماكن تقييماً",
	},
	reasonGeneric: {
		domain.LocaleEnglish: "Matches your preferences",
		domain.LocaleArabic:  "يطابق تفضيلاتك",
	},
}

// Explain returns a short human-readable reason for recommending the venue.
// Rules are checked in order and the first one that applies wins.
func (m *VibeMatcher) Explain(venue domain.Venue, answers domain.Answers, locale domain.Locale) string {
	return reasonText(explainKey(venue, answers), locale)
}

func explainKey(venue domain.Venue, answers domain.Answers) reasonKey {
	switch {
	case answers.Mood == domain.MoodFancy:
		return reasonElegant
	case answers.Mood == domain.MoodWork:
		return reasonFocus
	case answers.Mood == domain.MoodChill:
		return reasonCozy
	case venue.Rating > topRatedThreshold:
		return reasonTopRated
	default:
		return reasonGeneric
	}
}

func reasonText(key reasonKey, locale domain.Locale) string {
	texts := matchReasons[key]
	if text, ok := texts[locale]; ok {
		return text
	}
	return texts[domain.LocaleEnglish]
}
