package batches

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/timex"
)

// SQLRepository implements Repository over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, b *models.Batch) error {
	ids := b.EntryIDs
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode entry ids: %w", err)
	}

	query := `INSERT INTO batches (id, user_id, batch_id, entry_ids, entry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query, b.ID, b.UserID, b.BatchID, string(encoded), b.EntryCount, timex.Stamp(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]*models.Batch, error) {
	query := `SELECT id, user_id, batch_id, entry_ids, entry_count, created_at
		FROM batches WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select batches: %w", err)
	}
	defer rows.Close()

	var result []*models.Batch
	for rows.Next() {
		var (
			b         models.Batch
			ids       string
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.BatchID, &ids, &b.EntryCount, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &b.EntryIDs); err != nil {
			return nil, fmt.Errorf("bad entry_ids: %w", err)
		}
		if b.CreatedAt, err = timex.ParseStamp(createdAt); err != nil {
			return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) DeleteByBatchID(ctx context.Context, userID, batchID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE user_id = $1 AND batch_id = $2`, userID, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
