package execclient

import (
	"context"
	"os"
	"path/filepath"

	"github.com/msto63/occlum-exec/api/execpb"
)

const (
	// tempDirPattern names the per-submission companion directory
	tempDirPattern = "occlum_tmp"

	// SocketName is the companion socket path handed to the service
	SocketName = "remote_client_occlum.sock"
)

// NewExecRequest builds the submission for command. Parameter and environment
// order is kept as given.
func NewExecRequest(command string, parameters, environment []string, sockpath string) *execpb.ExecCommRequest {
	return &execpb.ExecCommRequest{
		ProcessId:   uint32(os.Getpid()),
		Command:     command,
		Parameters:  append([]string(nil), parameters...),
		Enviroments: append([]string(nil), environment...),
		Sockpath:    sockpath,
	}
}

// Submit sends one execution request and returns the handle the service
// assigned. The companion directory is removed when Submit returns.
func (c *Client) Submit(ctx context.Context, command string, parameters, environment []string) (Handle, error) {
	const op = "submit"

	if command == "" {
		return 0, newError(CodeInvalidRequest, op, "command must not be empty", nil)
	}

	dir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return 0, newError(CodeInternal, op, "failed to create temporary directory", err)
	}
	defer os.RemoveAll(dir)

	req := NewExecRequest(command, parameters, environment, filepath.Join(dir, SocketName))

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.rpc.ExecCommand(callCtx, req)
	if err != nil {
		return 0, newError(CodeTransportUnavailable, op, "failed to send request", err)
	}

	switch resp.Status {
	case execpb.LaunchStatusRunning:
		return Handle(resp.ProcessId), nil
	case execpb.LaunchStatusLaunchFailed:
		return 0, newError(CodeRemoteSubmissionFailed, op, "failed to launch the process", nil)
	default:
		return 0, newError(CodeRemoteSubmissionFailed, op, "unexpected launch status "+resp.Status.String(), nil)
	}
}
