// ============================================================================
// occlum-exec - Client for the Occlum execution service
// ============================================================================
//
// Package:     execclient
// Description: Per-run client context for the execution service
// License:     MIT
// ============================================================================

package execclient

import (
	"context"
	"os"
	"time"

	"github.com/msto63/occlum-exec/api/execpb"
	coreGrpc "github.com/msto63/occlum-exec/pkg/core/grpc"
	"github.com/msto63/occlum-exec/pkg/core/logging"
	"google.golang.org/grpc"
)

// FailureExitCode is returned to the caller for any client-side failure
const FailureExitCode = -1

// DefaultMaxStopTimeout is the upper bound, in seconds, for stop requests
const DefaultMaxStopTimeout uint32 = 3

// Config holds the client settings for one run
type Config struct {
	Transport coreGrpc.ClientConfig

	// ProbeTimeout bounds a single health probe; 0 means no bound
	ProbeTimeout time.Duration

	// RequestTimeout bounds every other call; 0 means no bound
	RequestTimeout time.Duration

	// LaunchDelay is the wait between spawning the service and re-probing
	LaunchDelay time.Duration

	// PollInterval is the wait between two GetResult calls
	PollInterval time.Duration

	// MaxStopTimeout clamps the timeout sent with a stop request
	MaxStopTimeout uint32
}

// DefaultConfig returns the default settings for target
func DefaultConfig(target string) Config {
	return Config{
		Transport:      coreGrpc.DefaultClientConfig(target),
		ProbeTimeout:   5 * time.Second,
		LaunchDelay:    100 * time.Millisecond,
		PollInterval:   100 * time.Millisecond,
		MaxStopTimeout: DefaultMaxStopTimeout,
	}
}

// Handle identifies an execution on the remote service
type Handle int32

// Client is the per-run context passed through every operation. It issues
// one call at a time and is not safe for concurrent use.
type Client struct {
	cfg      Config
	rpc      execpb.ExecClient
	conn     *grpc.ClientConn
	launcher Launcher
	signals  <-chan os.Signal
	logger   *logging.Logger

	afterSubmit func(Handle)

	// after is time.After; replaced in tests
	after func(time.Duration) <-chan time.Time
}

// Connect builds the connection handle for cfg.Transport.Target. A failure
// here aborts the run.
func Connect(cfg Config, launcher Launcher) (*Client, error) {
	conn, err := coreGrpc.Dial(cfg.Transport)
	if err != nil {
		return nil, newError(CodeTransportUnavailable, "connect", "failed to create client", err)
	}

	c := New(execpb.NewExecClient(conn), cfg, launcher)
	c.conn = conn
	return c, nil
}

// New creates a client over an existing service binding
func New(rpc execpb.ExecClient, cfg Config, launcher Launcher) *Client {
	if cfg.MaxStopTimeout == 0 {
		cfg.MaxStopTimeout = DefaultMaxStopTimeout
	}
	return &Client{
		cfg:      cfg,
		rpc:      rpc,
		launcher: launcher,
		logger:   logging.New("execclient"),
		after:    time.After,
	}
}

// ForwardSignals makes WaitResult relay signals from ch to the running
// execution between two polls
func (c *Client) ForwardSignals(ch <-chan os.Signal) {
	c.signals = ch
}

// AfterSubmit registers fn to run in Run once the service has accepted the
// command and before the first poll
func (c *Client) AfterSubmit(fn func(Handle)) {
	c.afterSubmit = fn
}

// Close releases the connection
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Run is the exec path: it makes sure the service runs, submits the command
// and waits for its exit code
func (c *Client) Run(ctx context.Context, command string, parameters, environment []string) (int32, error) {
	if err := c.EnsureRunning(ctx); err != nil {
		return FailureExitCode, err
	}

	handle, err := c.Submit(ctx, command, parameters, environment)
	if err != nil {
		return FailureExitCode, err
	}
	c.logger.Debug("command submitted", "command", command, "handle", handle)

	if c.afterSubmit != nil {
		c.afterSubmit(handle)
	}

	code, err := c.WaitResult(ctx, handle)
	if err != nil {
		return FailureExitCode, err
	}
	return code, nil
}

// callContext applies RequestTimeout to ctx
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
