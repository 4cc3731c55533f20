package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ArchiveService keeps a bounded, newest-first copy of deleted entries.
type ArchiveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	limit       int
	now         func() time.Time
	newID       func() string
}

func NewArchiveService(db *sql.DB, repomanager repomanager.RepositoryManager) *ArchiveService {
	return &ArchiveService{
		db:          db,
		repomanager: repomanager,
		limit:       common.ArchiveLimit,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Archive stores a copy of e stamped with the current time.
func (s *ArchiveService) Archive(ctx context.Context, e *models.Entry) error {
	a := models.NewArchivedEntry(s.newID(), e, s.now())
	if err := s.repomanager.Archive(s.db).Create(ctx, a); err != nil {
		return fmt.Errorf("error archiving entry: %w", err)
	}
	return nil
}

// Trim deletes everything beyond the newest limit archive rows and reports
// how many rows went away. It does not lock against concurrent archiving.
func (s *ArchiveService) Trim(ctx context.Context, userID string) (int64, error) {
	repo := s.repomanager.Archive(s.db)

	ids, err := repo.ListIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(ids) <= s.limit {
		return 0, nil
	}

	var deleted int64
	for _, chunk := range chunkStrings(ids[s.limit:], common.MaxBatchWrite) {
		n, err := repo.DeleteByIDs(ctx, userID, chunk)
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, nil
}

// List returns archived entries, most recently deleted first.
func (s *ArchiveService) List(ctx context.Context, userID string) ([]*models.ArchivedEntry, error) {
	return s.repomanager.Archive(s.db).ListByUser(ctx, userID)
}

func chunkStrings(s []string, size int) [][]string {
	var chunks [][]string
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}
	return chunks
}
