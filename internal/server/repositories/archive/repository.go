// Package archive persists copies of deleted entries.
package archive

import (
	"context"

	"github.com/dmitrijs2005/timeline/internal/server/models"
)

// Repository is the per-user archive of deleted entries.
type Repository interface {
	Create(ctx context.Context, a *models.ArchivedEntry) error

	// ListByUser returns archived entries, most recently deleted first.
	ListByUser(ctx context.Context, userID string) ([]*models.ArchivedEntry, error)

	// ListIDs returns archive row ids, most recently deleted first.
	ListIDs(ctx context.Context, userID string) ([]string, error)

	// DeleteByIDs removes up to common.MaxBatchWrite archive rows.
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
