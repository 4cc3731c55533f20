package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/importfmt"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/timex"
)

// Progress receives the number of records stored so far and the total.
type Progress func(current, total int)

// Import stores every record as an entry dated at local noon of its date,
// all sharing one fresh batch id, and registers the batch once all entries
// are in. Records whose date is not a real calendar day are dropped like
// any other malformed record. A failure part way leaves the already stored
// entries without a batch record. Importing the same records twice creates
// duplicates.
func (s *BatchService) Import(ctx context.Context, userID string, records []importfmt.Record, progress Progress) (*models.Batch, error) {
	valid := make([]importfmt.Record, 0, len(records))
	dates := make([]time.Time, 0, len(records))
	for _, r := range records {
		at, err := timex.NoonLocal(r.Date, s.entries.loc)
		if err != nil {
			s.logger.Warn(ctx, "import record dropped", "user", userID, "date", r.Date)
			continue
		}
		valid = append(valid, r)
		dates = append(dates, at)
	}
	if len(valid) == 0 {
		return nil, common.ErrNoEntries
	}
	records = valid

	started := s.now()
	batchID := fmt.Sprintf("batch_%d", started.UnixMilli())

	ids := make([]string, 0, len(records))
	for i, r := range records {
		e, err := s.entries.create(ctx, userID, r.Content, dates[i], batchID, "")
		if err != nil {
			return nil, fmt.Errorf("import stopped at record %d of %d: %w", i+1, len(records), err)
		}
		ids = append(ids, e.ID)
		if progress != nil {
			progress(i+1, len(records))
		}
	}

	b := &models.Batch{
		ID:         s.newID(),
		UserID:     userID,
		BatchID:    batchID,
		EntryIDs:   ids,
		EntryCount: len(ids),
		CreatedAt:  s.now(),
	}
	if err := s.repomanager.Batches(s.db).Create(ctx, b); err != nil {
		return nil, fmt.Errorf("error registering batch %s: %w", batchID, err)
	}

	s.logger.Info(ctx, "batch imported", "user", userID, "batch", batchID, "entries", len(ids))
	return b, nil
}
