// Package api defines the wire contract of the timeline gRPC service shared
// by server and client: the service and method names, and JSON-shaped
// messages carried as google.protobuf.Struct payloads.
package api

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "timeline.v1.Timeline"

// Method names.
const (
	MethodPing              = "Ping"
	MethodAddEntry          = "AddEntry"
	MethodDeleteEntry       = "DeleteEntry"
	MethodListEntries       = "ListEntries"
	MethodImportBatch       = "ImportBatch"
	MethodDeleteBatch       = "DeleteBatch"
	MethodListBatches       = "ListBatches"
	MethodBulkDelete        = "BulkDelete"
	MethodListArchive       = "ListArchive"
	MethodListMonths        = "ListMonths"
	MethodCreateImageUpload = "CreateImageUpload"
	MethodGetImageURL       = "GetImageURL"
	MethodStartQueue        = "StartQueue"
	MethodStopQueue         = "StopQueue"
	MethodQueueStatus       = "QueueStatus"
)

// FullMethod returns the gRPC path of a method, e.g. "/timeline.v1.Timeline/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Encode converts a message into a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return structpb.NewStruct(m)
}

// Decode fills v from a Struct produced by Encode. A nil Struct leaves v
// untouched.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}
