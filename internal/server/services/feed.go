package services

import (
	"context"
	"reflect"
	"time"

	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/models"
)

// ChangeFeed streams snapshots of a user's entries that satisfy a predicate.
type ChangeFeed interface {
	// Subscribe emits the current matching snapshot and then every changed
	// one. The channel is closed when ctx ends.
	Subscribe(ctx context.Context, userID string, match Predicate) <-chan []*models.Entry
}

// PollingFeed implements ChangeFeed by re-reading the store on an interval.
type PollingFeed struct {
	entries  *EntryService
	interval time.Duration
	logger   logging.Logger
}

func NewPollingFeed(entries *EntryService, interval time.Duration, logger logging.Logger) *PollingFeed {
	return &PollingFeed{
		entries:  entries,
		interval: interval,
		logger:   logger.With("module", "feed"),
	}
}

func (f *PollingFeed) Subscribe(ctx context.Context, userID string, match Predicate) <-chan []*models.Entry {
	out := make(chan []*models.Entry)

	go func() {
		defer close(out)

		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()

		var last []*models.Entry
		first := true

		for {
			all, err := f.entries.ListEntries(ctx, userID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				f.logger.Warn(ctx, "feed poll failed", "user", userID, "error", err)
			} else {
				snapshot := filterEntries(all, match)
				if first || !reflect.DeepEqual(snapshot, last) {
					select {
					case out <- snapshot:
					case <-ctx.Done():
						return
					}
					last = snapshot
					first = false
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func filterEntries(all []*models.Entry, match Predicate) []*models.Entry {
	out := make([]*models.Entry, 0, len(all))
	for _, e := range all {
		if match == nil || match(e) {
			out = append(out, e)
		}
	}
	return out
}
