package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BatchService imports entries in bulk and undoes imports.
type BatchService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	entries     *EntryService
	logger      logging.Logger

	now   func() time.Time
	newID func() string
}

func NewBatchService(db *sql.DB, repomanager repomanager.RepositoryManager, entries *EntryService, logger logging.Logger) *BatchService {
	return &BatchService{
		db:          db,
		repomanager: repomanager,
		entries:     entries,
		logger:      logger.With("module", "batches"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// DeleteBatch removes every entry carrying batchID, one by one and without
// archiving, then the batch record. It is not atomic: an error part way
// leaves the remaining entries and the record in place.
func (s *BatchService) DeleteBatch(ctx context.Context, userID, batchID string) (int, error) {
	repo := s.repomanager.Entries(s.db)

	all, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error listing entries: %w", err)
	}

	deleted := 0
	for _, e := range all {
		if e.BatchID != batchID {
			continue
		}
		if err := repo.DeleteByID(ctx, userID, e.ID); err != nil {
			return deleted, fmt.Errorf("error deleting entry %s: %w", e.ID, err)
		}
		deleted++
	}

	if _, err := s.repomanager.Batches(s.db).DeleteByBatchID(ctx, userID, batchID); err != nil {
		return deleted, fmt.Errorf("error deleting batch record: %w", err)
	}

	s.logger.Info(ctx, "batch deleted", "user", userID, "batch", batchID, "entries", deleted)
	return deleted, nil
}

// ListBatches returns the user's import batches, newest first.
func (s *BatchService) ListBatches(ctx context.Context, userID string) ([]*models.Batch, error) {
	return s.repomanager.Batches(s.db).ListByUser(ctx, userID)
}

// BatchEntryCounts maps each batch id to the number of its entries still
// present.
func (s *BatchService) BatchEntryCounts(ctx context.Context, userID string) (map[string]int, error) {
	all, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}

	counts := make(map[string]int)
	for _, e := range all {
		if e.BatchID != "" {
			counts[e.BatchID]++
		}
	}
	return counts, nil
}
