// Package client talks to the timeline backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     entries, import batches, bulk delete, the archive, the month index,
//     image URLs and the mood queue.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor, and maps
//     gRPC status codes to sentinel errors.
//
// Messages travel as google.protobuf.Struct values shaped by package api.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound,
// ErrInvalidRequest, ErrPrecondition.
package client
