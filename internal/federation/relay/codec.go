// Package relay is an optional gRPC fanout collaborator that streams
// already-computed federation.FederationEventFrame values to subscribers
// (SPEC_FULL.md §0.6 DOMAIN). It is additive: internal/federation itself
// never imports google.golang.org/grpc.
package relay

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is registered with grpc's encoding package so the relay
// server and generated-free clients can exchange frames without a .proto
// schema — the wire payload is already a flat map[string]string produced
// by the §4.3 envelope codec, not a protobuf message.
const jsonCodecName = "airtrace-json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
