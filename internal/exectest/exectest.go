// Package exectest provides a scripted execution service served over a real
// gRPC unix socket for client tests.
package exectest

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msto63/occlum-exec/api/execpb"
	coreGrpc "github.com/msto63/occlum-exec/pkg/core/grpc"
)

// Service is a fake OcclumExec service. Set the exported fields before
// serving; the recorded calls are read through the accessor methods.
type Service struct {
	execpb.UnimplementedExecServer

	// Health is returned by StatusCheck
	Health execpb.ServingStatus

	// Launch is returned by ExecCommand together with Handle
	Launch execpb.LaunchStatus
	Handle int32

	// Polls lists GetResult replies in order; the last one repeats
	Polls []execpb.GetResultResponse

	mu       sync.Mutex
	polled   int
	requests []*execpb.ExecCommRequest
	kills    []*execpb.KillProcessRequest
	stops    []uint32
	onStop   func(seconds uint32)
}

func (s *Service) StatusCheck(ctx context.Context, in *execpb.HealthCheckRequest) (*execpb.HealthCheckResponse, error) {
	return &execpb.HealthCheckResponse{Status: s.Health}, nil
}

func (s *Service) ExecCommand(ctx context.Context, in *execpb.ExecCommRequest) (*execpb.ExecCommResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, in)
	return &execpb.ExecCommResponse{Status: s.Launch, ProcessId: s.Handle}, nil
}

func (s *Service) GetResult(ctx context.Context, in *execpb.GetResultRequest) (*execpb.GetResultResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Polls) == 0 {
		return &execpb.GetResultResponse{Status: execpb.ResultStatusUnknown}, nil
	}
	i := s.polled
	if i >= len(s.Polls) {
		i = len(s.Polls) - 1
	}
	s.polled++
	resp := s.Polls[i]
	return &resp, nil
}

func (s *Service) KillProcess(ctx context.Context, in *execpb.KillProcessRequest) (*execpb.KillProcessResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kills = append(s.kills, in)
	return &execpb.KillProcessResponse{}, nil
}

func (s *Service) StopServer(ctx context.Context, in *execpb.StopRequest) (*execpb.StopResponse, error) {
	s.mu.Lock()
	s.stops = append(s.stops, in.Time)
	onStop := s.onStop
	s.mu.Unlock()

	if onStop != nil {
		onStop(in.Time)
	}
	return &execpb.StopResponse{}, nil
}

// Requests returns the submissions received so far
func (s *Service) Requests() []*execpb.ExecCommRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*execpb.ExecCommRequest(nil), s.requests...)
}

// Kills returns the signal requests received so far
func (s *Service) Kills() []*execpb.KillProcessRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*execpb.KillProcessRequest(nil), s.kills...)
}

// Stops returns the timeouts of the stop requests received so far
func (s *Service) Stops() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.stops...)
}

// PollCount returns the number of GetResult calls served
func (s *Service) PollCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polled
}

// SocketPath returns a fresh unix socket path that nothing listens on. The
// directory lives under os.TempDir because t.TempDir paths can exceed the
// socket path limit.
func SocketPath(t testing.TB) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "exectest")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "exec.sock")
}

// Target returns the gRPC target for a socket path
func Target(sock string) string {
	return "unix://" + sock
}

// Serve starts svc on sock. A StopServer call shuts the server down within
// the requested number of seconds.
func Serve(t testing.TB, svc *Service, sock string) *coreGrpc.Server {
	t.Helper()

	lis, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("Listen(%s) error = %v", sock, err)
	}

	srv := coreGrpc.NewServer(execpb.ServerCodec())
	execpb.RegisterExecServer(srv.GRPCServer(), svc)

	svc.mu.Lock()
	svc.onStop = func(seconds uint32) {
		// GracefulStop waits for this handler, so stop after replying
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(seconds)*time.Second)
			defer cancel()
			srv.StopWithTimeout(ctx)
		}()
	}
	svc.mu.Unlock()

	srv.ServeAsync(lis)
	t.Cleanup(srv.Stop)
	return srv
}

// Start serves svc on a fresh socket and returns its target
func Start(t testing.TB, svc *Service) string {
	t.Helper()
	sock := SocketPath(t)
	Serve(t, svc, sock)
	return Target(sock)
}
