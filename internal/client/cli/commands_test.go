package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
	"github.com/dmitrijs2005/timeline/internal/client/client"
	"github.com/dmitrijs2005/timeline/internal/client/config"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records calls and serves canned data.
type fakeClient struct {
	calls []string

	entries  []api.Entry
	batches  []api.Batch
	archive  []api.ArchivedEntry
	months   []api.Month
	statuses []*api.QueueStatus

	addedText  string
	addedAt    *time.Time
	importText string
	bulkAll    bool
	bulkIDs    []string
	deleted    []string
	err        error
	closed     bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.record("Ping") }

func (f *fakeClient) AddEntry(ctx context.Context, text string, createdAt *time.Time, imageRef string) (*api.Entry, error) {
	f.addedText, f.addedAt = text, createdAt
	if err := f.record("AddEntry"); err != nil {
		return nil, err
	}
	return &api.Entry{ID: "e-new", DayKey: "2024-03-10", Text: text}, nil
}

func (f *fakeClient) DeleteEntry(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.record("DeleteEntry")
}

func (f *fakeClient) ListEntries(ctx context.Context) ([]api.Entry, error) {
	return f.entries, f.record("ListEntries")
}

func (f *fakeClient) ImportBatch(ctx context.Context, text string) (*api.Batch, error) {
	f.importText = text
	if err := f.record("ImportBatch"); err != nil {
		return nil, err
	}
	return &api.Batch{BatchID: "batch_1", EntryCount: 2}, nil
}

func (f *fakeClient) DeleteBatch(ctx context.Context, batchID string) (int, error) {
	return 3, f.record("DeleteBatch:" + batchID)
}

func (f *fakeClient) ListBatches(ctx context.Context) ([]api.Batch, error) {
	return f.batches, f.record("ListBatches")
}

func (f *fakeClient) BulkDelete(ctx context.Context, allBatches bool, batchIDs []string) (int, error) {
	f.bulkAll, f.bulkIDs = allBatches, batchIDs
	return 5, f.record("BulkDelete")
}

func (f *fakeClient) ListArchive(ctx context.Context) ([]api.ArchivedEntry, error) {
	return f.archive, f.record("ListArchive")
}

func (f *fakeClient) ListMonths(ctx context.Context) ([]api.Month, error) {
	return f.months, f.record("ListMonths")
}

func (f *fakeClient) CreateImageUpload(ctx context.Context) (string, string, error) {
	return "users/u/k", "http://invalid.test/put", f.record("CreateImageUpload")
}

func (f *fakeClient) GetImageURL(ctx context.Context, key string) (string, error) {
	return "http://invalid.test/get/" + key, f.record("GetImageURL")
}

func (f *fakeClient) nextStatus() *api.QueueStatus {
	if len(f.statuses) == 0 {
		return &api.QueueStatus{}
	}
	st := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return st
}

func (f *fakeClient) StartQueue(ctx context.Context) (*api.QueueStatus, error) {
	return f.nextStatus(), f.record("StartQueue")
}

func (f *fakeClient) StopQueue(ctx context.Context) (*api.QueueStatus, error) {
	return f.nextStatus(), f.record("StopQueue")
}

func (f *fakeClient) QueueStatus(ctx context.Context) (*api.QueueStatus, error) {
	return f.nextStatus(), f.record("QueueStatus")
}

// run executes the CLI with args against fake and returns its output.
func run(t *testing.T, fake *fakeClient, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	a := NewApp()
	a.reader = rdr(stdin)
	a.dial = func(*config.Config) (client.Client, error) { return fake, nil }

	cmd := NewRootCommand(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.json")}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestAdd_FromArgs(t *testing.T) {
	fake := &fakeClient{}
	out, err := run(t, fake, "", "add", "walked", "along", "the", "river", "--date", "2024-03-10")
	require.NoError(t, err)

	assert.Equal(t, "walked along the river", fake.addedText)
	require.NotNil(t, fake.addedAt)
	assert.Equal(t, 12, fake.addedAt.Hour())
	assert.Equal(t, "2024-03-10", fake.addedAt.Format("2006-01-02"))
	assert.Contains(t, out, "Added e-new")
	assert.True(t, fake.closed)
}

func TestAdd_PromptsWhenNoArgs(t *testing.T) {
	fake := &fakeClient{}
	_, err := run(t, fake, "line one\nline two\n\n", "add")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", fake.addedText)
	assert.Nil(t, fake.addedAt)
}

func TestAdd_BadDate(t *testing.T) {
	fake := &fakeClient{}
	_, err := run(t, fake, "", "add", "x", "--date", "10/03/2024")
	require.Error(t, err)
	assert.Empty(t, fake.calls)
}

func TestList_FiltersMonthAndShowsMood(t *testing.T) {
	fake := &fakeClient{entries: []api.Entry{
		{ID: "e1", DayKey: "2024-03-10", MonthKey: "2024-03", Excerpt: "march entry",
			MoodAnalysis: &api.MoodAnalysis{Mood: "positive", Emoji: "😊", Rating: 80}},
		{ID: "e2", DayKey: "2024-02-01", MonthKey: "2024-02", Excerpt: "february entry"},
	}}

	out, err := run(t, fake, "", "list", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "march entry")
	assert.Contains(t, out, "positive 80")
	assert.NotContains(t, out, "february entry")
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, &fakeClient{}, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "none")
}

func TestDelete_Each(t *testing.T) {
	fake := &fakeClient{}
	out, err := run(t, fake, "", "delete", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fake.deleted)
	assert.Contains(t, out, "Deleted b")
}

func TestDelete_PropagatesError(t *testing.T) {
	fake := &fakeClient{err: client.ErrNotFound}
	_, err := run(t, fake, "", "delete", "gone")
	assert.True(t, errors.Is(err, client.ErrNotFound))
}

func TestImport_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt")
	content := "2024-01-15 : first\n~`~\n2024-01-16 : second"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	fake := &fakeClient{}
	out, err := run(t, fake, "", "import", path)
	require.NoError(t, err)
	assert.Equal(t, content, fake.importText)
	assert.Contains(t, out, "Imported 2 entries as batch_1")
}

func TestImport_Stdin(t *testing.T) {
	fake := &fakeClient{}
	_, err := run(t, fake, "2024-01-15 : first", "import", "-")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 : first", fake.importText)
}

func TestBatchesAndUndo(t *testing.T) {
	fake := &fakeClient{batches: []api.Batch{{BatchID: "batch_9", EntryCount: 4, LiveCount: 1, CreatedAt: time.Now()}}}

	out, err := run(t, fake, "", "batches")
	require.NoError(t, err)
	assert.Contains(t, out, "batch_9")

	out, err = run(t, fake, "", "undo", "batch_9")
	require.NoError(t, err)
	assert.Contains(t, fake.calls, "DeleteBatch:batch_9")
	assert.Contains(t, out, "Removed 3 entries")
}

func TestBulkDelete(t *testing.T) {
	t.Run("needs a selector", func(t *testing.T) {
		fake := &fakeClient{}
		_, err := run(t, fake, "", "bulk-delete", "--yes")
		require.Error(t, err)
		assert.Empty(t, fake.calls)
	})

	t.Run("aborts without confirmation", func(t *testing.T) {
		fake := &fakeClient{}
		out, err := run(t, fake, "no\n", "bulk-delete", "--all")
		require.NoError(t, err)
		assert.Contains(t, out, "Aborted.")
		assert.Empty(t, fake.calls)
	})

	t.Run("confirmed batches", func(t *testing.T) {
		fake := &fakeClient{}
		out, err := run(t, fake, "delete\n", "bulk-delete", "--batch", "b1,b2")
		require.NoError(t, err)
		assert.False(t, fake.bulkAll)
		assert.Equal(t, []string{"b1", "b2"}, fake.bulkIDs)
		assert.Contains(t, out, "Deleted 5 entries")
	})

	t.Run("all with --yes", func(t *testing.T) {
		fake := &fakeClient{}
		_, err := run(t, fake, "", "bulk-delete", "--all", "-y")
		require.NoError(t, err)
		assert.True(t, fake.bulkAll)
	})
}

func TestArchiveAndMonths(t *testing.T) {
	fake := &fakeClient{
		archive: []api.ArchivedEntry{{Entry: api.Entry{Excerpt: "gone but kept"}, OriginalID: "orig-1", DeletedAt: time.Now()}},
		months:  []api.Month{{MonthKey: "2024-03", Count: 12, Samples: []string{"a", "b"}, FirstAt: "2024-03-01T08:00:00.000Z"}},
	}

	out, err := run(t, fake, "", "archive")
	require.NoError(t, err)
	assert.Contains(t, out, "orig-1")
	assert.Contains(t, out, "gone but kept")

	out, err = run(t, fake, "", "months")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "12")
}

func TestQueue_WatchUntilIdle(t *testing.T) {
	fake := &fakeClient{statuses: []*api.QueueStatus{
		{Pending: 20, Processing: true, Total: 20},
		{Pending: 5, Processing: true, Processed: 15, Total: 20},
		{Pending: 0, Processing: false, Processed: 20, Total: 20},
	}}

	out, err := run(t, fake, "", "queue", "start", "--watch", "--interval", "1ms")
	require.NoError(t, err)
	assert.Equal(t, []string{"StartQueue", "QueueStatus", "QueueStatus"}, fake.calls)
	assert.Contains(t, out, "processed 20/20")
	assert.Contains(t, out, "idle")
}

func TestQueue_Stop(t *testing.T) {
	fake := &fakeClient{}
	_, err := run(t, fake, "", "queue", "stop")
	require.NoError(t, err)
	assert.Equal(t, []string{"StopQueue"}, fake.calls)
}

func TestImageURL(t *testing.T) {
	fake := &fakeClient{}
	out, err := run(t, fake, "", "image", "url", "users/u/k")
	require.NoError(t, err)
	assert.Contains(t, out, "http://invalid.test/get/users/u/k")
}

func TestLogin_SavesToken(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("jwt-value"), nil }

	color.NoColor = true
	path := filepath.Join(t.TempDir(), "config.json")

	a := NewApp()
	cmd := NewRootCommand(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--server", "journal.example:443", "login"})
	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jwt-value", cfg.AccessToken)
	assert.Equal(t, "journal.example:443", cfg.ServerEndpointAddr)
}
