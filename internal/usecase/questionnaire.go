package usecase

import (
	"fmt"
	"time"

	"github.com/dinebook/backend/internal/domain"
)

// QuestionnaireState is the phase a questionnaire is in
type QuestionnaireState string

const (
	StateQuestion    QuestionnaireState = "question"
	StateCalculating QuestionnaireState = "calculating"
	StateResults     QuestionnaireState = "results"
)

// questionOrder lists the answer keys in the order they are asked
var questionOrder = []string{domain.AnswerMood, domain.AnswerCategory, domain.AnswerRegion}

// Option is one selectable answer
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a localized questionnaire step
type Question struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

type localizedText map[domain.Locale]string

func (t localizedText) in(locale domain.Locale) string {
	if s, ok := t[locale]; ok {
		return s
	}
	return t[domain.LocaleEnglish]
}

var questionPrompts = map[string]localizedText{
	domain.AnswerMood: {
		domain.LocaleEnglish: "What's the vibe today?",
		domain.LocaleArabic:  "ما هو المزاج اليوم؟",
	},
	domain.AnswerCategory: {
		domain.LocaleEnglish: "Food or coffee?",
		domain.LocaleArabic:  "طعام أم قهوة؟",
	},
	domain.AnswerRegion: {
		domain.LocaleEnglish: "Where would you like to go?",
		domain.LocaleArabic:  "إلى أين تود الذهاب؟",
	},
}

var fixedOptions = map[string][]string{
	domain.AnswerMood:     {domain.MoodChill, domain.MoodLively, domain.MoodFancy, domain.MoodWork},
	domain.AnswerCategory: {domain.CategoryFood, domain.CategoryCoffee},
}

var optionLabels = map[string]localizedText{
	domain.MoodChill:      {domain.LocaleEnglish: "Chill & cozy", domain.LocaleArabic: "هادئ ومريح"},
	domain.MoodLively:     {domain.LocaleEnglish: "Lively & social", domain.LocaleArabic: "حيوي واجتماعي"},
	domain.MoodFancy:      {domain.LocaleEnglish: "Fancy night out", domain.LocaleArabic: "سهرة فاخرة"},
	domain.MoodWork:       {domain.LocaleEnglish: "Work & focus", domain.LocaleArabic: "عمل وتركيز"},
	domain.CategoryFood:   {domain.LocaleEnglish: "Food", domain.LocaleArabic: "طعام"},
	domain.CategoryCoffee: {domain.LocaleEnglish: "Coffee", domain.LocaleArabic: "قهوة"},
	domain.RegionAny:      {domain.LocaleEnglish: "Anywhere", domain.LocaleArabic: "أي مكان"},
}

// Questions returns the three questionnaire steps. The region step offers the
// given catalog regions followed by "any".
func Questions(locale domain.Locale, regions []string) []Question {
	questions := make([]Question, 0, len(questionOrder))
	for _, key := range questionOrder {
		values := optionValues(key, regions)
		options := make([]Option, 0, len(values))
		for _, value := range values {
			label := value
			if text, ok := optionLabels[value]; ok {
				label = text.in(locale)
			}
			options = append(options, Option{Value: value, Label: label})
		}
		questions = append(questions, Question{
			Key:     key,
			Prompt:  questionPrompts[key].in(locale),
			Options: options,
		})
	}
	return questions
}

func optionValues(key string, regions []string) []string {
	if key == domain.AnswerRegion {
		values := make([]string, 0, len(regions)+1)
		values = append(values, regions...)
		return append(values, domain.RegionAny)
	}
	return fixedOptions[key]
}

// Questionnaire is an immutable snapshot of one questionnaire run.
// Every transition returns a new value and leaves the receiver untouched.
type Questionnaire struct {
	State            QuestionnaireState    `json:"state"`
	Step             int                   `json:"step"`
	Answers          domain.Answers        `json:"answers"`
	Results          []domain.ScoredResult `json:"results,omitempty"`
	CalculatingSince time.Time             `json:"calculatingSince,omitempty"`
}

// NewQuestionnaire returns a questionnaire at the first question
func NewQuestionnaire() Questionnaire {
	return Questionnaire{State: StateQuestion, Step: 0}
}

// CurrentKey returns the answer key of the current question, or "" outside the question state
func (q Questionnaire) CurrentKey() string {
	if q.State != StateQuestion || q.Step < 0 || q.Step >= len(questionOrder) {
		return ""
	}
	return questionOrder[q.Step]
}

// Select records option for the current question and advances. Selecting the
// last answer moves the questionnaire into the calculating state at now.
func (q Questionnaire) Select(option string, regions []string, now time.Time) (Questionnaire, error) {
	key := q.CurrentKey()
	if key == "" {
		return q, fmt.Errorf("%w: cannot answer while %s", domain.ErrInvalidTransition, q.State)
	}

	if !isOffered(option, optionValues(key, regions)) {
		return q, fmt.Errorf("%w: %q is not a valid %s", domain.ErrInvalidAnswer, option, key)
	}

	next := q
	next.Answers = q.Answers.With(key, option)
	if q.Step < len(questionOrder)-1 {
		next.Step = q.Step + 1
		return next, nil
	}

	next.State = StateCalculating
	next.CalculatingSince = now
	return next, nil
}

// Back returns to the previous question. Answers are kept so the earlier
// selection can be overwritten.
func (q Questionnaire) Back() (Questionnaire, error) {
	if q.State != StateQuestion || q.Step == 0 {
		return q, fmt.Errorf("%w: cannot go back from %s step %d", domain.ErrInvalidTransition, q.State, q.Step)
	}
	next := q
	next.Step = q.Step - 1
	return next, nil
}

// ReadyAt reports whether the calculating delay has elapsed by now
func (q Questionnaire) ReadyAt(now time.Time, delay time.Duration) bool {
	return q.State == StateCalculating && !now.Before(q.CalculatingSince.Add(delay))
}

// Complete moves a calculating questionnaire to the results state
func (q Questionnaire) Complete(results []domain.ScoredResult) (Questionnaire, error) {
	if q.State != StateCalculating {
		return q, fmt.Errorf("%w: cannot complete from %s", domain.ErrInvalidTransition, q.State)
	}
	next := q
	next.State = StateResults
	next.Results = results
	return next, nil
}

// Reset clears answers and results and starts over
func (q Questionnaire) Reset() Questionnaire {
	return NewQuestionnaire()
}

func isOffered(option string, values []string) bool {
	for _, v := range values {
		if v == option {
			return true
		}
	}
	return false
}
