package relay

import "google.golang.org/grpc"

// StreamFramesRequest is the single RPC's request message. Because the
// relay registers the "airtrace-json" codec instead of a protoc-generated
// message, this is a plain struct — no generated marshal/unmarshal code
// is required.
type StreamFramesRequest struct {
	RouteKey string `json:"route_key"`
}

// relayServer is the interface a StreamFrames handler is invoked against,
// mirroring the teacher's generated VisualiserServiceServer shape without
// codegen.
type relayServer interface {
	streamFrames(req *StreamFramesRequest, stream grpc.ServerStream) error
}

func streamFramesHandler(srv interface{}, stream grpc.ServerStream) error {
	req := new(StreamFramesRequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(relayServer).streamFrames(req, stream)
}

// serviceDesc is the hand-built equivalent of a protoc-generated
// grpc.ServiceDesc: one server-streaming method, no codegen required
// because the wire shape is already fixed by the §4.3 envelope codec
// (SPEC_FULL.md §0.6).
var serviceDesc = grpc.ServiceDesc{
	ServiceName: "airtrace.federation.Relay",
	HandlerType: (*relayServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamFrames",
			Handler:       streamFramesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "internal/federation/relay/service.go",
}

// RegisterRelayServer registers srv's StreamFrames method against s using
// serviceDesc, the same role grpc_server.go's
// pb.RegisterVisualiserServiceServer call plays for the teacher's
// protoc-generated service.
func RegisterRelayServer(s *grpc.Server, srv relayServer) {
	s.RegisterService(&serviceDesc, srv)
}
