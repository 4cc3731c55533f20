package months

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

var columns = []string{"user_id", "month_key", "count", "samples", "first_at", "last_at", "version", "updated_at"}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM month_index WHERE user_id = $1 AND month_key = $2`)).
		WithArgs("u1", "2025-03").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"u1", "2025-03", int64(3), `["a","b","c"]`, "2025-03-01T12:00:00.000Z", "2025-03-09T12:00:00.000Z", int64(3), "2025-03-09T12:00:01.000Z"))

	got, err := repo.Get(context.Background(), "u1", "2025-03")
	require.NoError(t, err)

	want := &models.MonthIndex{
		UserID:    "u1",
		MonthKey:  "2025-03",
		Count:     3,
		Samples:   []string{"a", "b", "c"},
		FirstAt:   "2025-03-01T12:00:00.000Z",
		LastAt:    "2025-03-09T12:00:00.000Z",
		Version:   3,
		UpdatedAt: time.Date(2025, 3, 9, 12, 0, 1, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("month mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM month_index`).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Get(context.Background(), "u1", "2025-03")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInsert_ConflictWhenRowExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	m := &models.MonthIndex{UserID: "u1", MonthKey: "2025-03", Count: 1, Samples: []string{"x"},
		FirstAt: "2025-03-01T12:00:00.000Z", LastAt: "2025-03-01T12:00:00.000Z", UpdatedAt: time.Unix(0, 0)}

	q := `INSERT INTO month_index .* ON CONFLICT \(user_id, month_key\) DO NOTHING`
	mock.ExpectExec(q).
		WithArgs("u1", "2025-03", int64(1), `["x"]`, m.FirstAt, m.LastAt, "1970-01-01T00:00:00.000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Insert(context.Background(), m))

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Insert(context.Background(), m), common.ErrVersionConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_VersionGuard(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	m := &models.MonthIndex{UserID: "u1", MonthKey: "2025-03", Count: 2, UpdatedAt: time.Unix(0, 0)}

	q := regexp.QuoteMeta(`WHERE user_id = $6 AND month_key = $7 AND version = $8`)
	mock.ExpectExec(q).
		WithArgs(int64(2), `[]`, "", "", "1970-01-01T00:00:00.000Z", "u1", "2025-03", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), m, 4))

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Update(context.Background(), m, 4), common.ErrVersionConflict)
}

func TestUpdate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE month_index`).WillReturnError(errors.New("boom"))
	err := repo.Update(context.Background(), &models.MonthIndex{}, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrVersionConflict)
}

func TestListByUser_BadSamples(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY month_key DESC`)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("u1", "2025-03", int64(1), `not json`, "", "", int64(1), "2025-03-09T12:00:01.000Z"))

	_, err := repo.ListByUser(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad samples")
}
