// Package months persists the per-month digest of a user's entries.
package months

import (
	"context"

	"github.com/dmitrijs2005/timeline/internal/server/models"
)

// Repository stores MonthIndex rows with optimistic versioning.
type Repository interface {
	// Get returns the index for (userID, monthKey) or common.ErrorNotFound.
	Get(ctx context.Context, userID, monthKey string) (*models.MonthIndex, error)

	// Insert creates the first index of a month. Losing a race against
	// another insert yields common.ErrVersionConflict.
	Insert(ctx context.Context, m *models.MonthIndex) error

	// Update writes m if the stored version still equals expected and bumps
	// the version; otherwise it yields common.ErrVersionConflict.
	Update(ctx context.Context, m *models.MonthIndex, expected int64) error

	// ListByUser returns all month digests of the user, newest month first.
	ListByUser(ctx context.Context, userID string) ([]*models.MonthIndex, error)
}
