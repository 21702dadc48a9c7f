package execclient

import (
	"context"

	"github.com/msto63/occlum-exec/api/execpb"
	"google.golang.org/grpc"
)

// HealthStatus is the client's view of the service
type HealthStatus int

const (
	HealthUnreachable HealthStatus = iota
	HealthServing
	HealthNotServing
)

func (s HealthStatus) String() string {
	switch s {
	case HealthServing:
		return "serving"
	case HealthNotServing:
		return "not serving"
	default:
		return "unreachable"
	}
}

// Probe performs one health check. Any call error makes the service
// unreachable. A reported UNKNOWN status counts as serving.
func (c *Client) Probe(ctx context.Context) (HealthStatus, error) {
	return c.probe(ctx)
}

func (c *Client) probe(ctx context.Context, opts ...grpc.CallOption) (HealthStatus, error) {
	if c.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ProbeTimeout)
		defer cancel()
	}

	resp, err := c.rpc.StatusCheck(ctx, &execpb.HealthCheckRequest{}, opts...)
	if err != nil {
		return HealthUnreachable, newError(CodeTransportUnavailable, "probe", "service unreachable", err)
	}

	if resp.Status == execpb.ServingStatusNotServing {
		return HealthNotServing, nil
	}
	return HealthServing, nil
}

// EnsureRunning probes the service and launches it at most once when it is
// unreachable. A service that answers but is not serving is never relaunched.
func (c *Client) EnsureRunning(ctx context.Context) error {
	const op = "ensure_running"

	var opts []grpc.CallOption
	launched := false
	for {
		status, err := c.probe(ctx, opts...)
		switch {
		case err == nil && status == HealthNotServing:
			return newError(CodeServiceNotServing, op, "service present but not serving", nil)
		case err == nil:
			c.logger.Debug("Service is running", "target", c.cfg.Transport.Target)
			return nil
		case launched:
			return newError(CodeLaunchFailed, op, "failed to launch service", err)
		}

		if c.launcher == nil {
			return newError(CodeLaunchFailed, op, "failed to launch service", err)
		}

		c.logger.Info("Service is not running, launching it", "target", c.cfg.Transport.Target)
		if lerr := c.launcher.Launch(ctx); lerr != nil {
			return newError(CodeLaunchFailed, op, "failed to launch service", lerr)
		}
		launched = true

		select {
		case <-c.after(c.cfg.LaunchDelay):
		case <-ctx.Done():
			return newError(CodeLaunchFailed, op, "failed to launch service", ctx.Err())
		}

		// The channel is in backoff after the failed probe. Retry now and let
		// the second probe wait, up to ProbeTimeout, for the connection.
		// Without a ProbeTimeout the wait would be unbounded, so the second
		// probe fails fast instead.
		if c.conn != nil {
			c.conn.ResetConnectBackoff()
		}
		if c.cfg.ProbeTimeout > 0 {
			opts = []grpc.CallOption{grpc.WaitForReady(true)}
		}
	}
}
