package relay

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"

	"github.com/airtrace/core/internal/diag"
	"github.com/airtrace/core/internal/federation"
)

// Config configures the relay's gRPC listener, mirroring the shape of
// visualiser.Config in the teacher repo.
type Config struct {
	ListenAddr     string
	MaxSubscribers int
}

// DefaultConfig returns sensible relay defaults.
func DefaultConfig() Config {
	return Config{ListenAddr: "localhost:50151", MaxSubscribers: 16}
}

type subscriber struct {
	id       string
	routeKey string
	frameCh  chan federation.FederationEventFrame
	doneCh   chan struct{}
}

// Server implements the relay RPC service, fanning out
// federation.FederationEventFrame values published via Publish to every
// subscriber whose requested route_key matches (empty route_key
// subscribes to all routes). Grounded on visualiser.Publisher's
// clientsMu-guarded subscriber map.
type Server struct {
	cfg    Config
	server *grpc.Server

	subs   map[string]*subscriber
	subsMu sync.RWMutex

	frameCount atomic.Uint64
	running    atomic.Bool
}

// NewServer constructs a relay server around cfg.
func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg, subs: make(map[string]*subscriber)}
}

// Start begins listening and serving the relay RPC.
func (s *Server) Start() error {
	if s.running.Load() {
		return fmt.Errorf("relay: already running")
	}
	lis, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("relay: listen: %w", err)
	}
	s.server = grpc.NewServer()
	RegisterRelayServer(s.server, s)
	s.running.Store(true)

	go func() {
		if err := s.server.Serve(lis); err != nil && s.running.Load() {
			diag.Logf("[relay] serve error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully stops the relay's gRPC server.
func (s *Server) Stop() {
	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	if s.server != nil {
		s.server.GracefulStop()
	}
}

// Publish fans frame out to every subscriber whose route_key matches (or
// which subscribed to all routes). A slow subscriber has the frame
// dropped for it rather than blocking the publisher, matching
// broadcastLoop's non-blocking send.
func (s *Server) Publish(frame federation.FederationEventFrame) {
	if !s.running.Load() {
		return
	}
	s.frameCount.Add(1)

	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		if sub.routeKey != "" && sub.routeKey != frame.RouteKey {
			continue
		}
		select {
		case sub.frameCh <- frame:
		default:
			diag.Logf("[relay] dropping frame for slow subscriber %s", sub.id)
		}
	}
}

// streamFrames implements relayServer, subscribing stream for the
// duration of the RPC and forwarding every matching published frame as a
// JSON-encoded flat map via the airtrace-json codec.
func (s *Server) streamFrames(req *StreamFramesRequest, stream grpc.ServerStream) error {
	sub := &subscriber{
		routeKey: req.RouteKey,
		frameCh:  make(chan federation.FederationEventFrame, 16),
		doneCh:   make(chan struct{}),
	}
	id := fmt.Sprintf("relay-%p", sub)
	sub.id = id

	s.subsMu.Lock()
	if len(s.subs) >= s.cfg.MaxSubscribers {
		s.subsMu.Unlock()
		return fmt.Errorf("relay: max subscribers reached")
	}
	s.subs[id] = sub
	s.subsMu.Unlock()

	defer func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-sub.frameCh:
			m := frame.ToFlatMap()
			if err := stream.SendMsg(m); err != nil {
				return err
			}
		}
	}
}

var _ relayServer = (*Server)(nil)
