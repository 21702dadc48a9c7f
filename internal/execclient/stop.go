package execclient

import (
	"context"

	"github.com/msto63/occlum-exec/api/execpb"
)

// ClampStopTimeout limits requested to max seconds
func ClampStopTimeout(requested, max uint32) uint32 {
	if requested > max {
		return max
	}
	return requested
}

// Stop asks the service to shut down within the clamped timeout. It reports
// whether the request was delivered; a call error means the service was
// already gone, which is not a failure.
func (c *Client) Stop(ctx context.Context, requested uint32) bool {
	timeout := ClampStopTimeout(requested, c.cfg.MaxStopTimeout)

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.rpc.StopServer(callCtx, &execpb.StopRequest{Time: timeout}); err != nil {
		c.logger.Debug("Stop request failed, server not running", "target", c.cfg.Transport.Target, "error", err)
		return false
	}

	c.logger.Debug("Stop request delivered", "timeout_seconds", timeout)
	return true
}
