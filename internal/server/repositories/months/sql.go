package months

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/timex"
)

const monthColumns = `user_id, month_key, count, samples, first_at, last_at, version, updated_at`

// SQLRepository implements Repository over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Get(ctx context.Context, userID, monthKey string) (*models.MonthIndex, error) {
	query := `SELECT ` + monthColumns + ` FROM month_index WHERE user_id = $1 AND month_key = $2`

	m, err := scanMonth(r.db.QueryRowContext(ctx, query, userID, monthKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *SQLRepository) Insert(ctx context.Context, m *models.MonthIndex) error {
	samples, err := json.Marshal(nonNil(m.Samples))
	if err != nil {
		return fmt.Errorf("encode samples: %w", err)
	}

	query := `INSERT INTO month_index (` + monthColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7)
		ON CONFLICT (user_id, month_key) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		m.UserID, m.MonthKey, m.Count, string(samples), m.FirstAt, m.LastAt, timex.Stamp(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectWritten(res)
}

func (r *SQLRepository) Update(ctx context.Context, m *models.MonthIndex, expected int64) error {
	samples, err := json.Marshal(nonNil(m.Samples))
	if err != nil {
		return fmt.Errorf("encode samples: %w", err)
	}

	query := `UPDATE month_index
		SET count = $1, samples = $2, first_at = $3, last_at = $4, updated_at = $5, version = version + 1
		WHERE user_id = $6 AND month_key = $7 AND version = $8`

	res, err := r.db.ExecContext(ctx, query,
		m.Count, string(samples), m.FirstAt, m.LastAt, timex.Stamp(m.UpdatedAt), m.UserID, m.MonthKey, expected)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectWritten(res)
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]*models.MonthIndex, error) {
	query := `SELECT ` + monthColumns + ` FROM month_index WHERE user_id = $1 ORDER BY month_key DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select months: %w", err)
	}
	defer rows.Close()

	var result []*models.MonthIndex
	for rows.Next() {
		m, err := scanMonth(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func expectWritten(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrVersionConflict
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMonth(row scanner) (*models.MonthIndex, error) {
	var (
		m         models.MonthIndex
		samples   string
		updatedAt string
	)
	if err := row.Scan(&m.UserID, &m.MonthKey, &m.Count, &samples, &m.FirstAt, &m.LastAt, &m.Version, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(samples), &m.Samples); err != nil {
		return nil, fmt.Errorf("bad samples: %w", err)
	}
	t, err := timex.ParseStamp(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}
	m.UpdatedAt = t
	return &m, nil
}
