package grpc

import (
	"context"

	"github.com/dmitrijs2005/timeline/internal/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// TimelineServer is the handler type registered with the service
// description.
type TimelineServer interface {
	Ping(context.Context, *api.Empty) (*api.PingResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: api.ServiceName,
	HandlerType: (*TimelineServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(api.MethodPing, (*GRPCServer).Ping),
		unary(api.MethodAddEntry, (*GRPCServer).AddEntry),
		unary(api.MethodDeleteEntry, (*GRPCServer).DeleteEntry),
		unary(api.MethodListEntries, (*GRPCServer).ListEntries),
		unary(api.MethodImportBatch, (*GRPCServer).ImportBatch),
		unary(api.MethodDeleteBatch, (*GRPCServer).DeleteBatch),
		unary(api.MethodListBatches, (*GRPCServer).ListBatches),
		unary(api.MethodBulkDelete, (*GRPCServer).BulkDelete),
		unary(api.MethodListArchive, (*GRPCServer).ListArchive),
		unary(api.MethodListMonths, (*GRPCServer).ListMonths),
		unary(api.MethodCreateImageUpload, (*GRPCServer).CreateImageUpload),
		unary(api.MethodGetImageURL, (*GRPCServer).GetImageURL),
		unary(api.MethodStartQueue, (*GRPCServer).StartQueue),
		unary(api.MethodStopQueue, (*GRPCServer).StopQueue),
		unary(api.MethodQueueStatus, (*GRPCServer).QueueStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "timeline/v1/timeline.proto",
}

// unary adapts a typed handler to a MethodDesc that decodes the request
// Struct into Req and encodes Resp back into a Struct.
func unary[Req, Resp any](name string, fn func(*GRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			handler := func(ctx context.Context, req any) (any, error) {
				var r Req
				if err := api.Decode(req.(*structpb.Struct), &r); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				out, err := fn(srv.(*GRPCServer), ctx, &r)
				if err != nil {
					return nil, err
				}
				encoded, err := api.Encode(out)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return encoded, nil
			}

			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: api.FullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}
