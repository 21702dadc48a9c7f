package execclient

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/msto63/occlum-exec/api/execpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errUnavailable = status.Error(codes.Unavailable, "connection refused")

// fakeRPC is a scripted execpb.ExecClient
type fakeRPC struct {
	mu    sync.Mutex
	calls []string

	// probeErrs is consumed one entry per probe; nil entries and an empty
	// list answer with health
	probeErrs []error
	health    execpb.ServingStatus
	probeOpts [][]grpc.CallOption

	execResp   *execpb.ExecCommResponse
	execErr    error
	execReqs   []*execpb.ExecCommRequest
	sockDirSet bool

	// results is consumed one entry per poll; the last entry repeats
	results   []*execpb.GetResultResponse
	resultErr error
	polls     int

	kills   []*execpb.KillProcessRequest
	killErr error
	onKill  func()

	stops   []*execpb.StopRequest
	stopErr error
}

func (f *fakeRPC) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeRPC) StatusCheck(ctx context.Context, in *execpb.HealthCheckRequest, opts ...grpc.CallOption) (*execpb.HealthCheckResponse, error) {
	f.record("StatusCheck")
	f.probeOpts = append(f.probeOpts, opts)
	if len(f.probeErrs) > 0 {
		err := f.probeErrs[0]
		if len(f.probeErrs) > 1 {
			f.probeErrs = f.probeErrs[1:]
		}
		if err != nil {
			return nil, err
		}
	}
	return &execpb.HealthCheckResponse{Status: f.health}, nil
}

func (f *fakeRPC) StopServer(ctx context.Context, in *execpb.StopRequest, opts ...grpc.CallOption) (*execpb.StopResponse, error) {
	f.record("StopServer")
	f.stops = append(f.stops, in)
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return &execpb.StopResponse{}, nil
}

func (f *fakeRPC) ExecCommand(ctx context.Context, in *execpb.ExecCommRequest, opts ...grpc.CallOption) (*execpb.ExecCommResponse, error) {
	f.record("ExecCommand")
	f.execReqs = append(f.execReqs, in)
	if info, err := os.Stat(filepath.Dir(in.Sockpath)); err == nil && info.IsDir() {
		f.sockDirSet = true
	}
	if f.execErr != nil {
		return nil, f.execErr
	}
	if f.execResp == nil {
		return nil, errors.New("no scripted ExecCommand reply")
	}
	return f.execResp, nil
}

func (f *fakeRPC) GetResult(ctx context.Context, in *execpb.GetResultRequest, opts ...grpc.CallOption) (*execpb.GetResultResponse, error) {
	f.record("GetResult")
	f.polls++
	if f.resultErr != nil {
		return nil, f.resultErr
	}
	if len(f.results) == 0 {
		return &execpb.GetResultResponse{}, nil
	}
	resp := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return resp, nil
}

func (f *fakeRPC) KillProcess(ctx context.Context, in *execpb.KillProcessRequest, opts ...grpc.CallOption) (*execpb.KillProcessResponse, error) {
	f.record("KillProcess")
	f.kills = append(f.kills, in)
	if f.onKill != nil {
		f.onKill()
	}
	if f.killErr != nil {
		return nil, f.killErr
	}
	return &execpb.KillProcessResponse{}, nil
}

// countingLauncher records launches and optionally fails
type countingLauncher struct {
	launches int
	err      error
	onLaunch func()
}

func (l *countingLauncher) Launch(ctx context.Context) error {
	l.launches++
	if l.onLaunch != nil {
		l.onLaunch()
	}
	return l.err
}

// newTestClient builds a client whose waits return at once and are recorded
func newTestClient(rpc *fakeRPC, launcher Launcher) (*Client, *[]time.Duration) {
	cfg := DefaultConfig("127.0.0.1:7878")
	c := New(rpc, cfg, launcher)

	var waits []time.Duration
	c.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
	return c, &waits
}
