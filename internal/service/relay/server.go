package relay

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"

	api "github.com/oshokin/proctor-alert/internal/api/grpc/analytics"
	"github.com/oshokin/proctor-alert/internal/logger"
)

// ErrNoListenAddress indicates an empty relay address.
var ErrNoListenAddress = errors.New("no relay listen address configured")

// Server exposes a snapshot provider over gRPC.
type Server struct {
	lis  net.Listener
	grpc *grpc.Server
}

// Listen binds address and registers the analytics service for provider.
func Listen(ctx context.Context, address string, provider api.Provider) (*Server, error) {
	listenAddress, err := ResolveListenAddress(address)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.Register(grpcServer, api.NewServer(provider))

	return &Server{lis: lis, grpc: grpcServer}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Serve blocks until ctx is canceled and the server has stopped gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ctx = logger.WithName(ctx, "relay")

	logger.InfoKV(ctx, "Snapshot relay listening", "listen_address", s.Addr().String())

	// Closed after GracefulStop returns so Serve does not exit early.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down snapshot relay")
		s.grpc.GracefulStop()
		close(done)
	}()

	if err := s.grpc.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Snapshot relay stopped")

	return nil
}

// ResolveListenAddress validates address. An empty host such as ":7070"
// binds on all interfaces.
func ResolveListenAddress(address string) (string, error) {
	if address == "" {
		return "", ErrNoListenAddress
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "", fmt.Errorf("invalid relay address format %q: %w", address, err)
	}

	return net.JoinHostPort(host, port), nil
}
