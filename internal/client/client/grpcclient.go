package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
	"github.com/dmitrijs2005/timeline/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewTimelineClient connects to endpointURL. Extra dial options are
// appended after the defaults.
func NewTimelineClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// call encodes req, invokes method and decodes the reply into resp.
func (s *GRPCClient) call(ctx context.Context, method string, req, resp any) error {
	in, err := api.Encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, api.FullMethod(method), in, out); err != nil {
		return s.mapError(err)
	}
	if resp == nil {
		return nil
	}
	return api.Decode(out, resp)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrPrecondition, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var resp api.PingResponse
	return s.call(ctx, api.MethodPing, api.Empty{}, &resp)
}

func (s *GRPCClient) AddEntry(ctx context.Context, text string, createdAt *time.Time, imageRef string) (*api.Entry, error) {
	var resp api.EntryResponse
	req := api.AddEntryRequest{Text: text, CreatedAt: createdAt, ImageRef: imageRef}
	if err := s.call(ctx, api.MethodAddEntry, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Entry, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id string) error {
	return s.call(ctx, api.MethodDeleteEntry, api.IDRequest{ID: id}, nil)
}

func (s *GRPCClient) ListEntries(ctx context.Context) ([]api.Entry, error) {
	var resp api.ListEntriesResponse
	if err := s.call(ctx, api.MethodListEntries, api.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (s *GRPCClient) ImportBatch(ctx context.Context, text string) (*api.Batch, error) {
	var resp api.ImportBatchResponse
	if err := s.call(ctx, api.MethodImportBatch, api.ImportBatchRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return &resp.Batch, nil
}

func (s *GRPCClient) DeleteBatch(ctx context.Context, batchID string) (int, error) {
	var resp api.CountResponse
	if err := s.call(ctx, api.MethodDeleteBatch, api.BatchRequest{BatchID: batchID}, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (s *GRPCClient) ListBatches(ctx context.Context) ([]api.Batch, error) {
	var resp api.ListBatchesResponse
	if err := s.call(ctx, api.MethodListBatches, api.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Batches, nil
}

func (s *GRPCClient) BulkDelete(ctx context.Context, allBatches bool, batchIDs []string) (int, error) {
	var resp api.CountResponse
	req := api.BulkDeleteRequest{AllBatches: allBatches, BatchIDs: batchIDs}
	if err := s.call(ctx, api.MethodBulkDelete, req, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (s *GRPCClient) ListArchive(ctx context.Context) ([]api.ArchivedEntry, error) {
	var resp api.ListArchiveResponse
	if err := s.call(ctx, api.MethodListArchive, api.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (s *GRPCClient) ListMonths(ctx context.Context) ([]api.Month, error) {
	var resp api.ListMonthsResponse
	if err := s.call(ctx, api.MethodListMonths, api.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Months, nil
}

func (s *GRPCClient) CreateImageUpload(ctx context.Context) (string, string, error) {
	var resp api.ImageUploadResponse
	if err := s.call(ctx, api.MethodCreateImageUpload, api.Empty{}, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

func (s *GRPCClient) GetImageURL(ctx context.Context, key string) (string, error) {
	var resp api.ImageURLResponse
	if err := s.call(ctx, api.MethodGetImageURL, api.ImageURLRequest{Key: key}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (s *GRPCClient) queueCall(ctx context.Context, method string) (*api.QueueStatus, error) {
	var resp api.QueueStatus
	if err := s.call(ctx, method, api.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) StartQueue(ctx context.Context) (*api.QueueStatus, error) {
	return s.queueCall(ctx, api.MethodStartQueue)
}

func (s *GRPCClient) StopQueue(ctx context.Context) (*api.QueueStatus, error) {
	return s.queueCall(ctx, api.MethodStopQueue)
}

func (s *GRPCClient) QueueStatus(ctx context.Context) (*api.QueueStatus, error) {
	return s.queueCall(ctx, api.MethodQueueStatus)
}
