package analytics

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/proctor-alert/internal/domain/analytics"
)

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "proctor.v1.Analytics"
	// GetSnapshotMethod is the full method path used by clients.
	GetSnapshotMethod = "/" + ServiceName + "/GetSnapshot"
)

// SnapshotServer is the server API for the Analytics service.
type SnapshotServer interface {
	GetSnapshot(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// Provider returns the most recent snapshot, if any.
type Provider interface {
	Latest() (domain.Snapshot, bool)
}

// Server implements SnapshotServer on top of a Provider.
type Server struct {
	// provider supplies the snapshot to serve.
	provider Provider
}

// NewServer wires the provider into a gRPC handler.
func NewServer(provider Provider) *Server {
	return &Server{
		provider: provider,
	}
}

// GetSnapshot returns the latest snapshot or Unavailable before the first poll succeeds.
func (s *Server) GetSnapshot(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, ok := s.provider.Latest()
	if !ok {
		return nil, status.Error(codes.Unavailable, "no snapshot received yet")
	}

	payload, err := structpb.NewStruct(snapshot.Map())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode snapshot")
	}

	return payload, nil
}

// Register attaches the service to a gRPC server.
func Register(registrar grpc.ServiceRegistrar, srv SnapshotServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are static by nature.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SnapshotServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSnapshot",
			Handler:    getSnapshotHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proctor/v1/analytics.proto",
}

func getSnapshotHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(SnapshotServer).GetSnapshot(ctx, in) //nolint:forcetypeassert // Guaranteed by RegisterService.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetSnapshotMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SnapshotServer).GetSnapshot(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // See above.
	}

	return interceptor(ctx, in, info, handler)
}

// Store keeps the most recent snapshot for the relay. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	snapshot domain.Snapshot
	ok       bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return new(Store)
}

// Put replaces the stored snapshot.
func (s *Store) Put(snapshot domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	s.ok = true
}

// Invalidate drops the stored snapshot so GetSnapshot reports Unavailable
// until the next Put.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = domain.Snapshot{}
	s.ok = false
}

// Latest returns the stored snapshot and whether one was stored.
func (s *Store) Latest() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot, s.ok
}
