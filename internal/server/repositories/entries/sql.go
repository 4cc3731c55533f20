package entries

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

const entryColumns = `id, user_id, text, excerpt, created_at, day_key, month_key, mood, mood_analysis, image_ref, batch_id`

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Queries use $N placeholders, which both pgx and modernc sqlite accept.
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, e *models.Entry) error {
	analysis, err := EncodeAnalysis(e.MoodAnalysis)
	if err != nil {
		return err
	}

	query := `INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Text, e.Excerpt, timex.Stamp(e.CreatedAt), e.DayKey, e.MonthKey,
		string(e.Mood), analysis, e.ImageRef, e.BatchID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 AND id = $2`

	e, err := ScanEntry(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		e, err := ScanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) UpdateMood(ctx context.Context, userID, id string, mood models.Mood, analysis *models.MoodAnalysis) error {
	encoded, err := EncodeAnalysis(analysis)
	if err != nil {
		return err
	}

	query := `UPDATE entries SET mood = $1, mood_analysis = $2 WHERE user_id = $3 AND id = $4`
	res, err := r.db.ExecContext(ctx, query, string(mood), encoded, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) DeleteByID(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return expectOneRow(res)
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

	query := `DELETE FROM entries WHERE user_id = $1 AND id IN (` + dbx.Placeholders(2, len(ids)) + `)`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// ScanEntry reads one row laid out as entryColumns. The archive repository
// shares the layout for its entry fields.
func ScanEntry(row scanner, extra ...any) (*models.Entry, error) {
	var (
		e         models.Entry
		createdAt string
		mood      string
		analysis  sql.NullString
	)

	dest := []any{&e.ID, &e.UserID, &e.Text, &e.Excerpt, &createdAt, &e.DayKey, &e.MonthKey,
		&mood, &analysis, &e.ImageRef, &e.BatchID}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	t, err := timex.ParseStamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	e.Mood = models.Mood(mood)

	if analysis.Valid && analysis.String != "" {
		var ma models.MoodAnalysis
		if err := json.Unmarshal([]byte(analysis.String), &ma); err != nil {
			return nil, fmt.Errorf("bad mood_analysis: %w", err)
		}
		e.MoodAnalysis = &ma
	}

	return &e, nil
}

// EncodeAnalysis renders a mood analysis for the mood_analysis column;
// nil maps to SQL NULL.
func EncodeAnalysis(ma *models.MoodAnalysis) (sql.NullString, error) {
	if ma == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(ma)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode mood analysis: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
