// ============================================================================
// occlum-exec - Client for the Occlum execution service
// ============================================================================
//
// Package:     execclient
// Description: Detached launch of the execution service
// License:     MIT
// ============================================================================

package execclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/msto63/occlum-exec/pkg/core/logging"
)

// DefaultServerPath is the service binary resolved through PATH
const DefaultServerPath = "occlum_exec_server"

// Launcher starts the execution service in the background
type Launcher interface {
	Launch(ctx context.Context) error
}

// LaunchFunc adapts a function to the Launcher interface
type LaunchFunc func(ctx context.Context) error

// Launch calls f(ctx)
func (f LaunchFunc) Launch(ctx context.Context) error {
	return f(ctx)
}

// ProcessLauncher spawns the service binary detached from the client. The
// spawned process outlives the client and is never supervised.
type ProcessLauncher struct {
	Path    string
	Args    []string
	LogFile string

	logger *logging.Logger
}

// NewProcessLauncher creates a launcher for the binary at path
func NewProcessLauncher(path string, args []string, logFile string) *ProcessLauncher {
	if path == "" {
		path = DefaultServerPath
	}
	return &ProcessLauncher{
		Path:    path,
		Args:    args,
		LogFile: logFile,
		logger:  logging.New("launcher"),
	}
}

// Launch starts the service and returns once the process exists. It does not
// wait for the service to accept connections.
func (l *ProcessLauncher) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Not CommandContext: the service must survive the end of this run
	cmd := exec.Command(l.Path, l.Args...)
	cmd.Stdin = nil

	out, err := l.output()
	if err != nil {
		return err
	}
	if out != nil {
		defer out.Close()
		cmd.Stdout = out
		cmd.Stderr = out
	}

	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.Path, err)
	}

	pid := cmd.Process.Pid
	l.logger.Info("Service process started", "path", l.Path, "pid", pid)

	// Reap the child if it exits while this client is still alive
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("Service process exited", "pid", pid, "error", err)
			return
		}
		l.logger.Debug("Service process exited", "pid", pid)
	}()

	return nil
}

// output opens the log file, or returns nil so the child writes to the null
// device
func (l *ProcessLauncher) output() (io.WriteCloser, error) {
	if l.LogFile == "" {
		return nil, nil
	}
	f, err := os.OpenFile(l.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open service log %s: %w", l.LogFile, err)
	}
	return f, nil
}
