package cmd

import (
	"github.com/msto63/occlum-exec/internal/execclient"
	"github.com/msto63/occlum-exec/pkg/core/config"
)

// clientConfig maps the file configuration onto the client settings
func clientConfig(c *config.Config) execclient.Config {
	ec := execclient.DefaultConfig(c.Client.Target)
	ec.Transport.KeepaliveInterval = c.Client.KeepaliveInterval.Duration
	ec.Transport.KeepaliveTimeout = c.Client.KeepaliveTimeout.Duration
	ec.ProbeTimeout = c.Client.ProbeTimeout.Duration
	ec.RequestTimeout = c.Client.RequestTimeout.Duration
	ec.LaunchDelay = c.Server.LaunchDelay.Duration
	ec.PollInterval = c.Exec.PollInterval.Duration
	ec.MaxStopTimeout = c.Stop.MaxTimeout
	return ec
}

// newClient connects to the configured service. Only the exec path may
// launch the service.
func newClient(autoLaunch bool) (*execclient.Client, error) {
	var launcher execclient.Launcher
	if autoLaunch {
		launcher = execclient.NewProcessLauncher(cfg.Server.Path, cfg.Server.Args, cfg.Server.LogFile)
	}
	return execclient.Connect(clientConfig(cfg), launcher)
}
