package archive

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/entries"
	"github.com/dmitrijs2005/timeline/internal/timex"
)

// Entry fields first, in the layout entries.ScanEntry expects.
const archiveColumns = `original_id, user_id, text, excerpt, created_at, day_key, month_key, mood, mood_analysis, image_ref, batch_id, id, deleted_at`

// SQLRepository implements Repository over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, a *models.ArchivedEntry) error {
	analysis, err := entries.EncodeAnalysis(a.MoodAnalysis)
	if err != nil {
		return err
	}

	query := `INSERT INTO archive (` + archiveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.ExecContext(ctx, query,
		a.OriginalID, a.UserID, a.Text, a.Excerpt, timex.Stamp(a.CreatedAt), a.DayKey, a.MonthKey,
		string(a.Mood), analysis, a.ImageRef, a.BatchID, a.ArchiveID, timex.Stamp(a.DeletedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]*models.ArchivedEntry, error) {
	query := `SELECT ` + archiveColumns + ` FROM archive WHERE user_id = $1 ORDER BY deleted_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select archive: %w", err)
	}
	defer rows.Close()

	var result []*models.ArchivedEntry
	for rows.Next() {
		var archiveID, deletedAt string
		e, err := entries.ScanEntry(rows, &archiveID, &deletedAt)
		if err != nil {
			return nil, err
		}
		at, err := timex.ParseStamp(deletedAt)
		if err != nil {
			return nil, fmt.Errorf("bad deleted_at %q: %w", deletedAt, err)
		}
		result = append(result, &models.ArchivedEntry{
			Entry:      *e,
			ArchiveID:  archiveID,
			OriginalID: e.ID,
			DeletedAt:  at,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) ListIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM archive WHERE user_id = $1 ORDER BY deleted_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select archive ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SQLRepository) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if len(ids) > common.MaxBatchWrite {
		return 0, fmt.Errorf("%d deletes: %w", len(ids), common.ErrBatchTooLarge)
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	query := `DELETE FROM archive WHERE user_id = $1 AND id IN (` + dbx.Placeholders(2, len(ids)) + `)`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete archive rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
