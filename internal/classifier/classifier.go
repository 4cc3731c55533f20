// Package classifier talks to the external mood classification service.
package classifier

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/dmitrijs2005/timeline/internal/server/models"
)

var (
	// ErrRateLimited is returned when the service answers 429.
	ErrRateLimited = errors.New("classifier rate limited")

	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("classifier api key is not configured")
)

// Input is one entry submitted for classification.
type Input struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

// Result is the classification of one Input.
type Result struct {
	ID          string  `json:"id"`
	Rating      float64 `json:"rating"`
	Mood        string  `json:"mood"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	Rationale   string  `json:"rationale"`
	Score       float64 `json:"score"`
}

// Classifier classifies up to common.ClassifierMaxBatch entries per call and
// returns results in input order.
type Classifier interface {
	Classify(ctx context.Context, entries []Input) ([]Result, error)
}

// Analysis converts a raw result into the stored form, applying the
// service's clamping rules: rating rounded into 1..100 with 0 read as 50,
// score clamped to -15..15, and neutral defaults for empty text fields.
func (r Result) Analysis() *models.MoodAnalysis {
	rating := r.Rating
	if rating == 0 || math.IsNaN(rating) {
		rating = 50
	}
	rating = math.Max(1, math.Min(100, math.Round(rating)))

	score := r.Score
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(-15, math.Min(15, score))

	return &models.MoodAnalysis{
		Rating:      int(rating),
		Mood:        ParseMood(r.Mood),
		Description: orDefault(r.Description, "neutral"),
		Emoji:       orDefault(r.Emoji, "😐"),
		Score:       score,
		Rationale:   orDefault(r.Rationale, "No analysis available"),
	}
}

// ParseMood maps a free-form mood label onto the known set, defaulting to
// neutral.
func ParseMood(s string) models.Mood {
	switch models.Mood(strings.ToLower(strings.TrimSpace(s))) {
	case models.MoodPositive:
		return models.MoodPositive
	case models.MoodNegative:
		return models.MoodNegative
	default:
		return models.MoodNeutral
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
