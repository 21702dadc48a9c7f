package execpb

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is sent as content-subtype, so peers see application/grpc+proto
const CodecName = "proto"

// Codec marshals execpb messages in protobuf wire format
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("execpb: cannot marshal %T", v)
	}
	return m.MarshalWire(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("execpb: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

func (Codec) Name() string {
	return CodecName
}

// ServerCodec returns the server option that decodes requests with Codec
func ServerCodec() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}
