// Package models defines server-side data models persisted in the database
// and the pure derivation rules attached to them.
package models

import (
	"strings"
	"time"
	"unicode/utf16"
)

// ExcerptMaxLen bounds Entry.Excerpt, ellipsis included.
const ExcerptMaxLen = 220

// Date key layouts.
const (
	DayKeyLayout   = "2006-01-02"
	MonthKeyLayout = "2006-01"
)

// Mood is the coarse sentiment of an entry.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNegative Mood = "negative"
	MoodNeutral  Mood = "neutral"
)

// MoodAnalysis is the classifier's verdict for one entry. Rationale doubles
// as a version marker: analyses without it predate the current classifier
// and are recomputed.
type MoodAnalysis struct {
	Rating      int     `json:"rating"`
	Mood        Mood    `json:"mood"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	Score       float64 `json:"score"`
	Rationale   string  `json:"rationale,omitempty"`
}

// Entry is one journal record owned by a user.
type Entry struct {
	ID           string
	UserID       string
	Text         string
	Excerpt      string
	CreatedAt    time.Time
	DayKey       string
	MonthKey     string
	Mood         Mood
	MoodAnalysis *MoodAnalysis
	ImageRef     string
	BatchID      string
}

// NewEntry builds an entry and derives Excerpt, DayKey and MonthKey from
// text and createdAt. The keys use createdAt's own location, so callers
// pass local time.
func NewEntry(id, userID, text string, createdAt time.Time) *Entry {
	dayKey := createdAt.Format(DayKeyLayout)
	return &Entry{
		ID:        id,
		UserID:    userID,
		Text:      text,
		Excerpt:   MakeExcerpt(text, ExcerptMaxLen),
		CreatedAt: createdAt,
		DayKey:    dayKey,
		MonthKey:  dayKey[:7],
	}
}

// NeedsMoodAnalysis reports whether the mood queue should (re)classify e.
func (e *Entry) NeedsMoodAnalysis() bool {
	return e.Text != "" && (e.MoodAnalysis == nil || e.MoodAnalysis.Rationale == "")
}

// MakeExcerpt collapses whitespace runs to single spaces and truncates the
// result to max UTF-16 code units, the last one being "…" when truncated.
// A surrogate pair split by the cut is dropped whole.
func MakeExcerpt(text string, max int) string {
	oneLine := strings.Join(strings.Fields(text), " ")
	units := utf16.Encode([]rune(oneLine))
	if len(units) <= max {
		return oneLine
	}
	cut := units[:max-1]
	if n := len(cut); n > 0 && cut[n-1] >= 0xd800 && cut[n-1] < 0xdc00 {
		cut = cut[:n-1]
	}
	return strings.TrimRight(string(utf16.Decode(cut)), " ") + "…"
}

// HashString is the polynomial string hash h = h*31 + c over UTF-16 code
// units, wrapping at 32 bits. It selects month-index sample slots.
func HashString(s string) uint32 {
	var h uint32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + uint32(c)
	}
	return h
}
