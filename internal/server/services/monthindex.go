package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/dbx"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timeline/internal/timex"
)

// MonthIndexAggregator folds new entries into the per-month digest.
type MonthIndexAggregator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      dbx.RetryPolicy
	sampleSize  int
	now         func() time.Time
}

func NewMonthIndexAggregator(db *sql.DB, repomanager repomanager.RepositoryManager) *MonthIndexAggregator {
	return &MonthIndexAggregator{
		db:          db,
		repomanager: repomanager,
		policy:      dbx.DefaultRetryPolicy,
		sampleSize:  common.MonthSampleSize,
		now:         time.Now,
	}
}

// Record runs one read-modify-write of the entry's month in a transaction.
// A concurrent writer makes the version check fail and the whole
// transaction is retried.
func (a *MonthIndexAggregator) Record(ctx context.Context, e *models.Entry) error {
	at := timex.Stamp(e.CreatedAt)

	return dbx.WithRetryTx(ctx, a.db, a.policy, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repomanager.Months(tx)

		cur, err := repo.Get(ctx, e.UserID, e.MonthKey)
		if errors.Is(err, common.ErrorNotFound) {
			next := models.MonthIndex{UserID: e.UserID, MonthKey: e.MonthKey}.
				Record(e.ID, e.Excerpt, at, a.sampleSize)
			next.UpdatedAt = a.now()
			return repo.Insert(ctx, &next)
		}
		if err != nil {
			return err
		}

		next := cur.Record(e.ID, e.Excerpt, at, a.sampleSize)
		next.UpdatedAt = a.now()
		return repo.Update(ctx, &next, cur.Version)
	})
}
