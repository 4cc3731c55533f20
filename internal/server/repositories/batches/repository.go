// Package batches persists the registry of bulk imports.
package batches

import (
	"context"

	"github.com/dmitrijs2005/timeline/internal/server/models"
)

// Repository stores one row per import batch.
type Repository interface {
	Create(ctx context.Context, b *models.Batch) error

	// ListByUser returns the user's batches, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Batch, error)

	// DeleteByBatchID removes every registry row carrying batchID and
	// reports how many went away.
	DeleteByBatchID(ctx context.Context, userID, batchID string) (int64, error)
}
