package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/proctor-alert/internal/api/grpc/analytics"
	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

// errRelayAddressRequired is returned when the relay address is missing.
var errRelayAddressRequired = errors.New("relay address must be provided")

// GRPCSource reads snapshots from another monitor's relay.
type GRPCSource struct {
	// conn is the connection to the relay.
	conn *grpc.ClientConn
	// callTimeout bounds each GetSnapshot call.
	callTimeout time.Duration
	// now stamps fetched snapshots.
	now func() time.Time
}

// GRPCOption configures a GRPCSource.
type GRPCOption func(*grpcSettings)

// grpcSettings collects options before dialing.
type grpcSettings struct {
	callTimeout time.Duration
	now         func() time.Time
	dialOptions []grpc.DialOption
}

// WithCallTimeout sets a default timeout for relay calls.
func WithCallTimeout(timeout time.Duration) GRPCOption {
	return func(s *grpcSettings) {
		if timeout > 0 {
			s.callTimeout = timeout
		}
	}
}

// WithDialOptions appends gRPC dial options, e.g. a bufconn dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) GRPCOption {
	return func(s *grpcSettings) {
		s.dialOptions = append(s.dialOptions, opts...)
	}
}

// WithGRPCClock sets the clock used to stamp snapshots.
func WithGRPCClock(now func() time.Time) GRPCOption {
	return func(s *grpcSettings) {
		if now != nil {
			s.now = now
		}
	}
}

// DialGRPC creates a relay source. The connection is established lazily and
// uses insecure transport credentials; run relays on a trusted network.
func DialGRPC(address string, opts ...GRPCOption) (*GRPCSource, error) {
	if address == "" {
		return nil, errRelayAddressRequired
	}

	settings := &grpcSettings{
		callTimeout: 5 * time.Second,
		now:         time.Now,
		dialOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	}

	for _, opt := range opts {
		opt(settings)
	}

	conn, err := grpc.NewClient(address, settings.dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}

	return &GRPCSource{
		conn:        conn,
		callTimeout: settings.callTimeout,
		now:         settings.now,
	}, nil
}

// Close releases the underlying connection.
func (s *GRPCSource) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}

	return s.conn.Close()
}

// Fetch calls GetSnapshot once and decodes the payload.
func (s *GRPCSource) Fetch(ctx context.Context) (analytics.Snapshot, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	payload := new(structpb.Struct)
	if err := s.conn.Invoke(callCtx, api.GetSnapshotMethod, new(emptypb.Empty), payload); err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: get snapshot: %w", ErrTransport, err)
	}

	body, err := protojson.Marshal(payload)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: encode payload: %w", ErrFormat, err)
	}

	snapshot, err := analytics.Decode(body, s.now())
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return snapshot, nil
}

// callContext returns a context bounded by the call timeout when configured.
func (s *GRPCSource) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.callTimeout)
}
