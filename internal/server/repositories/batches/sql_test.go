package batches

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timeline/internal/server/models"
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

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO batches`).
		WithArgs("r1", "u1", "batch_1700000000000", `["e1","e2"]`, 2, "2023-11-14T22:13:20.000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Batch{
		ID:         "r1",
		UserID:     "u1",
		BatchID:    "batch_1700000000000",
		EntryIDs:   []string{"e1", "e2"},
		EntryCount: 2,
		CreatedAt:  time.UnixMilli(1700000000000),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "batch_id", "entry_ids", "entry_count", "created_at"}).
		AddRow("r2", "u1", "batch_2", `["c"]`, 1, "2025-01-02T00:00:00.000Z").
		AddRow("r1", "u1", "batch_1", `["a","b"]`, 2, "2025-01-01T00:00:00.000Z")
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs("u1").
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "batch_2", list[0].BatchID)
	assert.Equal(t, []string{"a", "b"}, list[1].EntryIDs)
	assert.Equal(t, 2, list[1].EntryCount)
}

func TestDeleteByBatchID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM batches WHERE user_id = $1 AND batch_id = $2`)).
		WithArgs("u1", "batch_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.DeleteByBatchID(context.Background(), "u1", "batch_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec(`DELETE FROM batches`).WillReturnError(errors.New("boom"))
	_, err = repo.DeleteByBatchID(context.Background(), "u1", "batch_1")
	assert.Error(t, err)
}
