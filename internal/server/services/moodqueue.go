package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/timeline/internal/classifier"
	"github.com/dmitrijs2005/timeline/internal/common"
	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/models"
)

// QueueStatus is a snapshot of a mood queue.
type QueueStatus struct {
	Pending    int  `json:"pending"`
	Processing bool `json:"processing"`
	Processed  int  `json:"processed"`
	Total      int  `json:"total"`
	Errors     int  `json:"errors"`
}

// QueueOptions tune batching and pacing of a mood queue.
type QueueOptions struct {
	BatchSize int
	Delay     time.Duration
	Backoff   time.Duration
}

// DefaultQueueOptions classify 15 entries per call, pause 3s between calls
// and 10s after a rate limit.
var DefaultQueueOptions = QueueOptions{BatchSize: 15, Delay: 3 * time.Second, Backoff: 10 * time.Second}

// Sleeper pauses for d or until ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ready is implemented by classifiers that can tell up front whether a call
// would be refused, e.g. for a missing API key.
type ready interface {
	Ready() error
}

// Queue classifies one user's entries that lack a current mood analysis.
// At most one pass runs at a time.
type Queue struct {
	userID     string
	entries    *EntryService
	classifier classifier.Classifier
	logger     logging.Logger
	opts       QueueOptions
	sleep      Sleeper

	mu      sync.Mutex
	status  QueueStatus
	running bool
	abort   atomic.Bool
	wg      sync.WaitGroup
}

func NewQueue(userID string, entries *EntryService, c classifier.Classifier, opts QueueOptions, logger logging.Logger) *Queue {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultQueueOptions.BatchSize
	}
	if opts.BatchSize > common.ClassifierMaxBatch {
		opts.BatchSize = common.ClassifierMaxBatch
	}
	return &Queue{
		userID:     userID,
		entries:    entries,
		classifier: c,
		logger:     logger.With("module", "moodqueue", "user", userID),
		opts:       opts,
		sleep:      sleepContext,
	}
}

// Status returns a copy of the current state.
func (q *Queue) Status() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

// Run performs one pass in the caller's goroutine.
func (q *Queue) Run(ctx context.Context) error {
	if err := q.begin(); err != nil {
		return err
	}
	defer q.finish()
	return q.pass(ctx)
}

// Start launches a pass in the background. The pass is detached from ctx
// cancellation so it outlives the request that started it; use Stop.
func (q *Queue) Start(ctx context.Context) error {
	if err := q.begin(); err != nil {
		return err
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer q.finish()
		if err := q.pass(context.WithoutCancel(ctx)); err != nil {
			q.logger.Error(ctx, "mood queue pass failed", "error", err)
		}
	}()
	return nil
}

// Stop asks the running pass to end before its next batch.
func (q *Queue) Stop() {
	q.abort.Store(true)
}

// Wait blocks until background passes have returned.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Watch keeps Pending and Total in step with the feed until ctx ends.
func (q *Queue) Watch(ctx context.Context, feed ChangeFeed) {
	for snapshot := range feed.Subscribe(ctx, q.userID, (*models.Entry).NeedsMoodAnalysis) {
		q.mu.Lock()
		q.status.Pending = len(snapshot)
		q.status.Total = q.status.Pending + q.status.Processed
		q.mu.Unlock()
	}
}

func (q *Queue) begin() error {
	if r, ok := q.classifier.(ready); ok {
		if err := r.Ready(); err != nil {
			return err
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return common.ErrQueueRunning
	}
	q.running = true
	q.status.Processing = true
	q.abort.Store(false)
	return nil
}

func (q *Queue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running = false
	q.status.Processing = false
}

func (q *Queue) pass(ctx context.Context) error {
	all, err := q.entries.ListEntries(ctx, q.userID)
	if err != nil {
		return err
	}

	var pending []classifier.Input
	for _, e := range all {
		if e.NeedsMoodAnalysis() {
			pending = append(pending, classifier.Input{ID: e.ID, Text: e.Text, Date: e.DayKey})
		}
	}

	q.mu.Lock()
	q.status.Total = len(pending)
	q.status.Pending = len(pending)
	q.status.Processed = 0
	q.status.Errors = 0
	q.mu.Unlock()

	q.logger.Info(ctx, "mood queue pass started", "pending", len(pending))

	size := q.opts.BatchSize
	for i := 0; i < len(pending); i += size {
		if q.abort.Load() {
			q.logger.Info(ctx, "mood queue pass aborted")
			break
		}

		batch := pending[i:min(i+size, len(pending))]
		more := i+size < len(pending)

		results, err := q.classifier.Classify(ctx, batch)
		var pause time.Duration
		switch {
		case err == nil:
			updated := q.apply(ctx, results)
			q.mu.Lock()
			q.status.Processed += updated
			q.status.Errors += len(batch) - updated
			q.status.Pending = max(0, q.status.Pending-updated)
			q.mu.Unlock()
			if more {
				pause = q.opts.Delay
			}
		case errors.Is(err, classifier.ErrRateLimited):
			q.logger.Warn(ctx, "classifier rate limited, backing off", "batch", len(batch))
			q.addErrors(len(batch))
			pause = q.opts.Backoff
		case errors.Is(err, classifier.ErrNoAPIKey):
			q.addErrors(len(batch))
			return err
		default:
			q.logger.Error(ctx, "classifier batch failed", "batch", len(batch), "error", err)
			q.addErrors(len(batch))
		}

		if pause > 0 {
			if err := q.sleep(ctx, pause); err != nil {
				return err
			}
		}
	}

	st := q.Status()
	q.logger.Info(ctx, "mood queue pass finished", "processed", st.Processed, "errors", st.Errors)
	return nil
}

func (q *Queue) addErrors(n int) {
	q.mu.Lock()
	q.status.Errors += n
	q.mu.Unlock()
}

func (q *Queue) apply(ctx context.Context, results []classifier.Result) int {
	updated := 0
	for _, r := range results {
		analysis := r.Analysis()
		err := q.entries.UpdateEntry(ctx, q.userID, r.ID, MoodUpdate{Mood: analysis.Mood, Analysis: analysis})
		if err != nil {
			q.logger.Warn(ctx, "mood write-back failed", "entry", r.ID, "error", err)
			continue
		}
		updated++
	}
	return updated
}

// QueueManager vends one Queue per user.
type QueueManager struct {
	entries    *EntryService
	classifier classifier.Classifier
	feed       ChangeFeed
	opts       QueueOptions
	logger     logging.Logger

	mu     sync.Mutex
	queues map[string]*Queue
	ctx    context.Context
}

// NewQueueManager builds a manager. When feed is non-nil every new queue
// watches it for pending counts until ctx ends.
func NewQueueManager(ctx context.Context, entries *EntryService, c classifier.Classifier, feed ChangeFeed,
	opts QueueOptions, logger logging.Logger) *QueueManager {
	return &QueueManager{
		entries:    entries,
		classifier: c,
		feed:       feed,
		opts:       opts,
		logger:     logger,
		queues:     make(map[string]*Queue),
		ctx:        ctx,
	}
}

// Queue returns the user's queue, creating it on first use.
func (m *QueueManager) Queue(userID string) *Queue {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q, ok := m.queues[userID]; ok {
		return q
	}
	q := NewQueue(userID, m.entries, m.classifier, m.opts, m.logger)
	m.queues[userID] = q
	if m.feed != nil {
		go q.Watch(m.ctx, m.feed)
	}
	return q
}

// StopAll aborts every running pass and waits for them to return.
func (m *QueueManager) StopAll() {
	m.mu.Lock()
	queues := make([]*Queue, 0, len(m.queues))
	for _, q := range m.queues {
		queues = append(queues, q)
	}
	m.mu.Unlock()

	for _, q := range queues {
		q.Stop()
	}
	for _, q := range queues {
		q.Wait()
	}
}
