package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/msto63/occlum-exec/internal/execclient"
	"github.com/msto63/occlum-exec/pkg/core/config"
	"github.com/msto63/occlum-exec/pkg/core/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	target   string
	logLevel string
	verbose  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "occlum-exec",
	Short: "Client for the Occlum execution service",
	Long: `occlum-exec runs programs through the Occlum execution service.

The service is started in the background when it is not running. The exit
code of the remote program becomes the exit code of this command; any
failure on the client side exits with -1.

Commands:
  exec     - Run a program and wait for its exit code
  stop     - Ask the service to shut down
  status   - Show whether the service is serving
  kill     - Send a signal to a running program`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// exitError ends the process with code without printing anything
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	return exitCode(rootCmd.ExecuteContext(context.Background()))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	printError(err)
	return execclient.FailureExitCode
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfig+" or ./configs/occlum-exec.toml)")
	rootCmd.PersistentFlags().StringVar(&target, "target", "", "service address, host:port or unix:///path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	cfg.ApplyEnvOverrides()
	if target != "" {
		cfg.Client.Target = target
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Configure(logging.LoggerConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
