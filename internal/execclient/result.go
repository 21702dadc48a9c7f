package execclient

import (
	"context"
	"os"
	"syscall"

	"github.com/msto63/occlum-exec/api/execpb"
)

// WaitResult polls the service until the execution stops and returns its
// exit code. Signals registered with ForwardSignals are relayed between polls.
// There is no overall deadline; only ctx ends the wait early.
func (c *Client) WaitResult(ctx context.Context, h Handle) (int32, error) {
	const op = "wait_result"

	for {
		callCtx, cancel := c.callContext(ctx)
		resp, err := c.rpc.GetResult(callCtx, &execpb.GetResultRequest{ProcessId: int32(h)})
		cancel()
		if err != nil {
			return FailureExitCode, newError(CodeTransportUnavailable, op, "failed to get result", err)
		}

		switch resp.Status {
		case execpb.ResultStatusStopped:
			return resp.Result, nil
		case execpb.ResultStatusRunning:
			c.pause(ctx, h)
		default:
			return FailureExitCode, newError(CodeRemoteReportedError, op, "result status "+resp.Status.String(), nil)
		}
	}
}

// pause waits one poll interval, forwarding signals as they arrive
func (c *Client) pause(ctx context.Context, h Handle) {
	timer := c.after(c.cfg.PollInterval)
	for {
		select {
		case <-timer:
			return
		case <-ctx.Done():
			return
		case sig, ok := <-c.signals:
			if !ok {
				c.signals = nil
				continue
			}
			c.SendSignal(ctx, h, SignalNumber(sig))
		}
	}
}

// SignalNumber converts sig to the number sent on the wire
func SignalNumber(sig os.Signal) int32 {
	if s, ok := sig.(syscall.Signal); ok {
		return int32(s)
	}
	return int32(syscall.SIGTERM)
}

// SendSignal asks the service to deliver sig to the execution and reports
// whether the request went through. Delivery problems are logged and never
// fail the run.
func (c *Client) SendSignal(ctx context.Context, h Handle, sig int32) bool {
	if err := c.Kill(ctx, h, sig); err != nil {
		c.logger.Warn("Signal not delivered", "handle", h, "signal", sig, "error", err)
		return false
	}
	c.logger.Debug("Signal delivered", "handle", h, "signal", sig)
	return true
}

// Kill asks the service to deliver sig to the execution and reports the
// outcome
func (c *Client) Kill(ctx context.Context, h Handle, sig int32) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.rpc.KillProcess(callCtx, &execpb.KillProcessRequest{ProcessId: int32(h), Signal: sig}); err != nil {
		return newError(CodeSignalDeliveryFailed, "send_signal", "failed to send signal", err)
	}
	return nil
}
