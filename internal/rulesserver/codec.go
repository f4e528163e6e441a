package rulesserver

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// CodecName is the gRPC content subtype the Rules service speaks.
const CodecName = "pbstruct"

// StructCodec carries request and response structs over gRPC as
// google.protobuf.Struct messages in protobuf wire format. Values that are
// already proto messages are encoded directly.
type StructCodec struct{}

// Marshal encodes v. Non-proto values must encode to a JSON object.
func (StructCodec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}
	s, err := ToStruct(v)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// Unmarshal decodes data into v.
func (StructCodec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return fmt.Errorf("decoding struct message: %w", err)
	}
	return FromStruct(s, v)
}

func (StructCodec) Name() string { return CodecName }

// ToStruct converts a message struct to a google.protobuf.Struct through its
// JSON field names.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encoding %T as struct: %w", v, err)
	}
	return s, nil
}

// FromStruct fills v from s.
func FromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("rendering struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %T: %w", v, err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(StructCodec{})
}
