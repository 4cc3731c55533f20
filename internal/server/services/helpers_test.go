package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/entries"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	months  *MonthIndexAggregator
	archive *ArchiveService
	entries *EntryService
	batches *BatchService
	bulk    *BulkDeleteService
}

func newTestDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()

	db, err := repomanager.OpenDB(ctx, repomanager.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(repomanager.DriverSQLite)
	require.NoError(t, err)

	goose.SetLogger(goose.NopLogger())
	require.NoError(t, rm.RunMigrations(ctx, db))
	return db, rm
}

// newFixture wires the services over a fresh database. wrap, when given,
// decorates the repository manager seen by the services.
func newFixture(t *testing.T, wrap func(repomanager.RepositoryManager) repomanager.RepositoryManager) *fixture {
	t.Helper()
	db, rm := newTestDB(t)
	if wrap != nil {
		rm = wrap(rm)
	}

	log := logging.Nop()
	f := &fixture{db: db, rm: rm}
	f.months = NewMonthIndexAggregator(db, rm)
	f.months.policy = dbx.RetryPolicy{MaxRetries: 5, Base: time.Millisecond}
	f.archive = NewArchiveService(db, rm)
	f.entries = NewEntryService(db, rm, f.months, f.archive, log)
	f.entries.loc = time.UTC
	f.batches = NewBatchService(db, rm, f.entries, log)
	f.bulk = NewBulkDeleteService(db, rm, f.archive, log)
	return f
}

// stepClock returns a clock that advances one millisecond per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Millisecond)
		return cur
	}
}

// seedEntries inserts n entries directly, bypassing the month index.
func seedEntries(t *testing.T, f *fixture, userID, batchID string, n int) []string {
	t.Helper()
	ctx := context.Background()
	repo := f.rm.Entries(f.db)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%s-%04d", userID, batchID, i)
		e := models.NewEntry(id, userID, fmt.Sprintf("entry %d", i), base.Add(time.Duration(i)*time.Minute))
		e.BatchID = batchID
		require.NoError(t, repo.Create(ctx, e))
		ids[i] = id
	}
	return ids
}

func countArchive(t *testing.T, f *fixture, userID string) int {
	t.Helper()
	list, err := f.archive.List(context.Background(), userID)
	require.NoError(t, err)
	return len(list)
}

// countingManager records the size of every chunked entry delete.
type countingManager struct {
	repomanager.RepositoryManager

	mu     sync.Mutex
	chunks []int
}

func (m *countingManager) Entries(db dbx.DBTX) entries.Repository {
	return &countingEntries{Repository: m.RepositoryManager.Entries(db), m: m}
}

type countingEntries struct {
	entries.Repository
	m *countingManager
}

func (c *countingEntries) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	c.m.mu.Lock()
	c.m.chunks = append(c.m.chunks, len(ids))
	c.m.mu.Unlock()
	return c.Repository.DeleteByIDs(ctx, userID, ids)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
