package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	AddEntry(ctx context.Context, text string, createdAt *time.Time, imageRef string) (*api.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context) ([]api.Entry, error)

	ImportBatch(ctx context.Context, text string) (*api.Batch, error)
	DeleteBatch(ctx context.Context, batchID string) (int, error)
	ListBatches(ctx context.Context) ([]api.Batch, error)
	BulkDelete(ctx context.Context, allBatches bool, batchIDs []string) (int, error)

	ListArchive(ctx context.Context) ([]api.ArchivedEntry, error)
	ListMonths(ctx context.Context) ([]api.Month, error)

	CreateImageUpload(ctx context.Context) (key string, url string, err error)
	GetImageURL(ctx context.Context, key string) (string, error)

	StartQueue(ctx context.Context) (*api.QueueStatus, error)
	StopQueue(ctx context.Context) (*api.QueueStatus, error)
	QueueStatus(ctx context.Context) (*api.QueueStatus, error)
}
