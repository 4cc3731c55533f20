// Package entries persists journal entries for the server.
package entries

import (
	"context"

	"github.com/dmitrijs2005/timeline/internal/server/models"
)

// Repository is the entry store contract used by services.
type Repository interface {
	// Create inserts a new entry.
	Create(ctx context.Context, entry *models.Entry) error

	// GetByID returns one entry or common.ErrorNotFound.
	GetByID(ctx context.Context, userID, id string) (*models.Entry, error)

	// ListByUser returns all entries of the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Entry, error)

	// UpdateMood attaches a classification to an entry.
	UpdateMood(ctx context.Context, userID, id string, mood models.Mood, analysis *models.MoodAnalysis) error

	// DeleteByID removes one entry or returns common.ErrorNotFound.
	DeleteByID(ctx context.Context, userID, id string) error

	// DeleteByIDs removes up to common.MaxBatchWrite entries in one statement
	// and returns how many rows went away.
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
