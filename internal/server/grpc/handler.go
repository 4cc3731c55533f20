package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
	"github.com/dmitrijs2005/timeline/internal/importfmt"
	"github.com/dmitrijs2005/timeline/internal/server/models"
	"github.com/dmitrijs2005/timeline/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) AddEntry(ctx context.Context, req *api.AddEntryRequest) (*api.EntryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	in := services.NewEntry{Text: req.Text, ImageRef: req.ImageRef}
	if req.CreatedAt != nil {
		in.CreatedAt = *req.CreatedAt
	}

	e, err := s.svc.Entries.AddEntry(ctx, userID, in)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "entry added", "user", userID, "entry", e.ID)
	return &api.EntryResponse{Entry: entryToAPI(e)}, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.svc.Entries.DeleteEntry(ctx, userID, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, req *api.Empty) (*api.ListEntriesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.Entries.ListEntries(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListEntriesResponse{Entries: make([]api.Entry, 0, len(list))}
	for _, e := range list {
		resp.Entries = append(resp.Entries, entryToAPI(e))
	}
	return resp, nil
}

func (s *GRPCServer) ImportBatch(ctx context.Context, req *api.ImportBatchRequest) (*api.ImportBatchResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records := importfmt.Parse(req.Text)
	b, err := s.svc.Batches.Import(ctx, userID, records, func(current, total int) {
		s.logger.Debug(ctx, "import progress", "user", userID, "current", current, "total", total)
	})
	if err != nil {
		return nil, toStatus(err)
	}

	out := batchToAPI(b)
	out.LiveCount = b.EntryCount
	return &api.ImportBatchResponse{Batch: out}, nil
}

func (s *GRPCServer) DeleteBatch(ctx context.Context, req *api.BatchRequest) (*api.CountResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.BatchID == "" {
		return nil, status.Error(codes.InvalidArgument, "batch_id is required")
	}

	n, err := s.svc.Batches.DeleteBatch(ctx, userID, req.BatchID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.CountResponse{Deleted: n}, nil
}

func (s *GRPCServer) ListBatches(ctx context.Context, req *api.Empty) (*api.ListBatchesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.Batches.ListBatches(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	counts, err := s.svc.Batches.BatchEntryCounts(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListBatchesResponse{Batches: make([]api.Batch, 0, len(list))}
	for _, b := range list {
		out := batchToAPI(b)
		out.LiveCount = counts[b.BatchID]
		resp.Batches = append(resp.Batches, out)
	}
	return resp, nil
}

func (s *GRPCServer) BulkDelete(ctx context.Context, req *api.BulkDeleteRequest) (*api.CountResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var match services.Predicate
	switch {
	case req.AllBatches:
		match = services.HasBatch()
	case len(req.BatchIDs) > 0:
		match = services.InBatches(req.BatchIDs...)
	default:
		return nil, status.Error(codes.InvalidArgument, "either all_batches or batch_ids is required")
	}

	n, err := s.svc.Bulk.BulkDelete(ctx, userID, match)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.CountResponse{Deleted: n}, nil
}

func (s *GRPCServer) ListArchive(ctx context.Context, req *api.Empty) (*api.ListArchiveResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.Archive.List(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListArchiveResponse{Entries: make([]api.ArchivedEntry, 0, len(list))}
	for _, a := range list {
		resp.Entries = append(resp.Entries, api.ArchivedEntry{
			Entry:      entryToAPI(&a.Entry),
			ArchiveID:  a.ArchiveID,
			OriginalID: a.OriginalID,
			DeletedAt:  a.DeletedAt,
		})
	}
	return resp, nil
}

func (s *GRPCServer) ListMonths(ctx context.Context, req *api.Empty) (*api.ListMonthsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.Entries.ListMonths(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListMonthsResponse{Months: make([]api.Month, 0, len(list))}
	for _, m := range list {
		resp.Months = append(resp.Months, api.Month{
			MonthKey: m.MonthKey,
			Count:    m.Count,
			Samples:  m.Samples,
			FirstAt:  m.FirstAt,
			LastAt:   m.LastAt,
		})
	}
	return resp, nil
}

func (s *GRPCServer) CreateImageUpload(ctx context.Context, req *api.Empty) (*api.ImageUploadResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	key, url, err := s.svc.Images.CreateUpload(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ImageUploadResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) GetImageURL(ctx context.Context, req *api.ImageURLRequest) (*api.ImageURLResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	url, err := s.svc.Images.GetURL(ctx, userID, req.Key)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ImageURLResponse{URL: url}, nil
}

func (s *GRPCServer) StartQueue(ctx context.Context, req *api.Empty) (*api.QueueStatus, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q := s.svc.Queues.Queue(userID)
	if err := q.Start(ctx); err != nil {
		return nil, toStatus(err)
	}
	return queueStatusToAPI(q.Status()), nil
}

func (s *GRPCServer) StopQueue(ctx context.Context, req *api.Empty) (*api.QueueStatus, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q := s.svc.Queues.Queue(userID)
	q.Stop()
	return queueStatusToAPI(q.Status()), nil
}

func (s *GRPCServer) QueueStatus(ctx context.Context, req *api.Empty) (*api.QueueStatus, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return queueStatusToAPI(s.svc.Queues.Queue(userID).Status()), nil
}

func entryToAPI(e *models.Entry) api.Entry {
	out := api.Entry{
		ID:        e.ID,
		Text:      e.Text,
		Excerpt:   e.Excerpt,
		CreatedAt: e.CreatedAt,
		DayKey:    e.DayKey,
		MonthKey:  e.MonthKey,
		Mood:      string(e.Mood),
		ImageRef:  e.ImageRef,
		BatchID:   e.BatchID,
	}
	if ma := e.MoodAnalysis; ma != nil {
		out.MoodAnalysis = &api.MoodAnalysis{
			Rating:      ma.Rating,
			Mood:        string(ma.Mood),
			Description: ma.Description,
			Emoji:       ma.Emoji,
			Score:       ma.Score,
			Rationale:   ma.Rationale,
		}
	}
	return out
}

func batchToAPI(b *models.Batch) api.Batch {
	return api.Batch{
		ID:         b.ID,
		BatchID:    b.BatchID,
		EntryIDs:   b.EntryIDs,
		EntryCount: b.EntryCount,
		CreatedAt:  b.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

func queueStatusToAPI(st services.QueueStatus) *api.QueueStatus {
	return &api.QueueStatus{
		Pending:    st.Pending,
		Processing: st.Processing,
		Processed:  st.Processed,
		Total:      st.Total,
		Errors:     st.Errors,
	}
}
