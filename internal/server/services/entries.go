package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MaxEntryLength bounds the text of a manually added entry, in characters.
const MaxEntryLength = 20000

// NewEntry is the input of AddEntry. A zero CreatedAt means now.
type NewEntry struct {
	Text      string
	CreatedAt time.Time
	ImageRef  string
}

// MoodUpdate is the input of UpdateEntry.
type MoodUpdate struct {
	Mood     models.Mood
	Analysis *models.MoodAnalysis
}

// EntryService owns the entry lifecycle: creation with month indexing,
// deletion through the archive, and mood write-back.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	months      *MonthIndexAggregator
	archive     *ArchiveService
	logger      logging.Logger

	loc   *time.Location
	now   func() time.Time
	newID func() string
}

func NewEntryService(db *sql.DB, repomanager repomanager.RepositoryManager, months *MonthIndexAggregator,
	archive *ArchiveService, logger logging.Logger) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		months:      months,
		archive:     archive,
		logger:      logger.With("module", "entries"),
		loc:         time.Local,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// ValidateText applies the single-entry add rules.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: entry text is empty", common.ErrorValidation)
	}
	if n := utf8.RuneCountInString(text); n > MaxEntryLength {
		return fmt.Errorf("%w: entry is %d characters long, the limit is %d", common.ErrorValidation, n, MaxEntryLength)
	}
	return nil
}

// AddEntry validates and stores a new entry, then folds it into the month
// index. Index failures are logged, not returned.
func (s *EntryService) AddEntry(ctx context.Context, userID string, in NewEntry) (*models.Entry, error) {
	if err := ValidateText(in.Text); err != nil {
		return nil, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now().In(s.loc)
	}

	return s.create(ctx, userID, in.Text, createdAt, "", in.ImageRef)
}

func (s *EntryService) create(ctx context.Context, userID, text string, createdAt time.Time, batchID, imageRef string) (*models.Entry, error) {
	e := models.NewEntry(s.newID(), userID, text, createdAt)
	e.BatchID = batchID
	e.ImageRef = imageRef

	if err := s.repomanager.Entries(s.db).Create(ctx, e); err != nil {
		return nil, fmt.Errorf("error creating entry: %w", err)
	}

	if err := s.months.Record(ctx, e); err != nil {
		s.logger.Error(ctx, "month index update failed", "user", userID, "month", e.MonthKey, "entry", e.ID, "error", err)
	}

	return e, nil
}

// GetEntry returns one entry of the user.
func (s *EntryService) GetEntry(ctx context.Context, userID, id string) (*models.Entry, error) {
	return s.repomanager.Entries(s.db).GetByID(ctx, userID, id)
}

// ListEntries returns the user's entries, newest first.
func (s *EntryService) ListEntries(ctx context.Context, userID string) ([]*models.Entry, error) {
	list, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	return list, nil
}

// UpdateEntry stores a mood classification for an entry.
func (s *EntryService) UpdateEntry(ctx context.Context, userID, id string, u MoodUpdate) error {
	return s.repomanager.Entries(s.db).UpdateMood(ctx, userID, id, u.Mood, u.Analysis)
}

// DeleteEntry archives the entry, trims the archive and removes the entry.
// Archive and trim failures are logged; a missing entry yields
// common.ErrorNotFound.
func (s *EntryService) DeleteEntry(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Entries(s.db)

	e, err := repo.GetByID(ctx, userID, id)
	switch {
	case err == nil:
		if err := s.archive.Archive(ctx, e); err != nil {
			s.logger.Warn(ctx, "archive copy failed", "user", userID, "entry", id, "error", err)
		}
		if _, err := s.archive.Trim(ctx, userID); err != nil {
			s.logger.Warn(ctx, "archive trim failed", "user", userID, "error", err)
		}
	case errors.Is(err, common.ErrorNotFound):
	default:
		return fmt.Errorf("error reading entry: %w", err)
	}

	return repo.DeleteByID(ctx, userID, id)
}

// ListMonths returns the user's month digests, newest month first.
func (s *EntryService) ListMonths(ctx context.Context, userID string) ([]*models.MonthIndex, error) {
	return s.repomanager.Months(s.db).ListByUser(ctx, userID)
}
