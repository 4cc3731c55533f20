package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
)

// Predicate selects entries.
type Predicate func(e *models.Entry) bool

// HasBatch matches entries created by any import.
func HasBatch() Predicate {
	return func(e *models.Entry) bool { return e.BatchID != "" }
}

// InBatches matches entries created by one of the given imports. Entries
// written by hand never match, even when an empty id is passed.
func InBatches(batchIDs ...string) Predicate {
	set := make(map[string]struct{}, len(batchIDs))
	for _, id := range batchIDs {
		set[id] = struct{}{}
	}
	return func(e *models.Entry) bool {
		if e.BatchID == "" {
			return false
		}
		_, ok := set[e.BatchID]
		return ok
	}
}

// BulkDeleteService deletes many entries in size-limited transactions.
type BulkDeleteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archive     *ArchiveService
	logger      logging.Logger
	chunkSize   int
}

func NewBulkDeleteService(db *sql.DB, repomanager repomanager.RepositoryManager, archive *ArchiveService, logger logging.Logger) *BulkDeleteService {
	return &BulkDeleteService{
		db:          db,
		repomanager: repomanager,
		archive:     archive,
		logger:      logger.With("module", "bulkdelete"),
		chunkSize:   common.MaxBatchWrite,
	}
}

// BulkDelete archives and deletes every entry matching match. Deletes are
// committed in chunks of at most chunkSize; each chunk is atomic on its own.
// The archive is trimmed once at the end. It returns the number of deleted
// entries.
func (s *BulkDeleteService) BulkDelete(ctx context.Context, userID string, match Predicate) (int, error) {
	all, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error listing entries: %w", err)
	}

	var deleted int64
	chunk := make([]string, 0, s.chunkSize)

	commit := func() error {
		if len(chunk) == 0 {
			return nil
		}
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			n, err := s.repomanager.Entries(tx).DeleteByIDs(ctx, userID, chunk)
			if err != nil {
				return err
			}
			deleted += n
			return nil
		})
		if err != nil {
			return fmt.Errorf("error deleting chunk: %w", err)
		}
		chunk = chunk[:0]
		return nil
	}

	for _, e := range all {
		if !match(e) {
			continue
		}
		if err := s.archive.Archive(ctx, e); err != nil {
			s.logger.Warn(ctx, "archive copy failed", "user", userID, "entry", e.ID, "error", err)
		}
		chunk = append(chunk, e.ID)
		if len(chunk) >= s.chunkSize {
			if err := commit(); err != nil {
				return int(deleted), err
			}
		}
	}
	if err := commit(); err != nil {
		return int(deleted), err
	}

	if _, err := s.archive.Trim(ctx, userID); err != nil {
		s.logger.Warn(ctx, "archive trim failed", "user", userID, "error", err)
	}

	s.logger.Info(ctx, "bulk delete finished", "user", userID, "deleted", deleted)
	return int(deleted), nil
}
