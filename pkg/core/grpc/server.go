package grpc

import (
	"context"
	"net"

	"github.com/msto63/occlum-exec/pkg/core/logging"
	"google.golang.org/grpc"
)

var serverLogger = logging.New("grpc-server")

// Server wraps a gRPC server with the recovery and logging interceptors
type Server struct {
	server   *grpc.Server
	listener net.Listener
}

// NewServer creates a new gRPC server
func NewServer(opts ...grpc.ServerOption) *Server {
	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(),
			LoggingInterceptor(),
		),
	}

	// Append custom options
	serverOpts = append(serverOpts, opts...)

	return &Server{
		server: grpc.NewServer(serverOpts...),
	}
}

// GRPCServer returns the underlying gRPC server for service registration
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// ServeAsync serves on lis in a goroutine
func (s *Server) ServeAsync(lis net.Listener) {
	s.listener = lis
	go func() {
		if err := s.server.Serve(lis); err != nil {
			serverLogger.Error("gRPC server error", "error", err)
		}
	}()
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.server.GracefulStop()
}

// StopWithTimeout stops the server, forcing it when ctx ends first
func (s *Server) StopWithTimeout(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		s.server.Stop()
	}
}

// Address returns the listener address
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
