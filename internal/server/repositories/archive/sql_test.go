package archive

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/timeline/internal/common"
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

func TestCreate_KeepsOriginalID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	e := models.NewEntry("e1", "u1", "gone", time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC))
	a := models.NewArchivedEntry("a1", e, time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC))

	mock.ExpectExec(`INSERT INTO archive`).
		WithArgs("e1", "u1", "gone", "gone", "2025-02-01T12:00:00.000Z", "2025-02-01", "2025-02",
			"", sql.NullString{}, "", "", "a1", "2025-02-02T08:00:00.000Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"original_id", "user_id", "text", "excerpt", "created_at", "day_key", "month_key",
		"mood", "mood_analysis", "image_ref", "batch_id", "id", "deleted_at"}).
		AddRow("e1", "u1", "t", "t", "2025-02-01T12:00:00.000Z", "2025-02-01", "2025-02",
			"neutral", nil, "", "batch_9", "a1", "2025-02-02T08:00:00.000Z")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM archive WHERE user_id = $1 ORDER BY deleted_at DESC`)).
		WithArgs("u1").
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ArchiveID)
	assert.Equal(t, "e1", list[0].OriginalID)
	assert.Equal(t, "e1", list[0].ID)
	assert.Equal(t, "batch_9", list[0].BatchID)
	assert.True(t, list[0].DeletedAt.Equal(time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)))
}

func TestListIDs_And_DeleteByIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM archive`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a3").AddRow("a2").AddRow("a1"))

	ids, err := repo.ListIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "a2", "a1"}, ids)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM archive WHERE user_id = $1 AND id IN ($2, $3)`)).
		WithArgs("u1", "a2", "a1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteByIDs(context.Background(), "u1", ids[1:])
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.DeleteByIDs(context.Background(), "u1", make([]string, common.MaxBatchWrite+1))
	assert.ErrorIs(t, err, common.ErrBatchTooLarge)

	require.NoError(t, mock.ExpectationsWereMet())
}
