// Package grpc exposes the timeline services over gRPC. Messages travel as
// google.protobuf.Struct values shaped by package api.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/services"
	"google.golang.org/grpc"
)

// Services groups the application services the server dispatches to.
type Services struct {
	Entries *services.EntryService
	Batches *services.BatchService
	Bulk    *services.BulkDeleteService
	Archive *services.ArchiveService
	Images  *services.ImageService
	Queues  *services.QueueManager
}

type GRPCServer struct {
	address   string
	logger    logging.Logger
	jwtSecret []byte
	svc       Services
}

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		svc:       svc,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Run listens on the configured address and serves until ctx ends.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx ends, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&serviceDesc, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
