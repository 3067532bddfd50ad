// Package rpc is the gRPC surface shared by the gateway, coordinator,
// robots, and pricing service. Messages are plain structs carried by a JSON
// codec registered under the "json" content subtype; the service
// descriptors and stubs are written out by hand, so nothing here is
// generated.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype every grocer service speaks.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return CodecName
}

// callOptions pins the JSON codec onto every outgoing call from the stubs
// in this package, ahead of any caller-supplied options.
func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
