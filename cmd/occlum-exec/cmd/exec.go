package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/msto63/occlum-exec/internal/execclient"
	"github.com/msto63/occlum-exec/pkg/core/config"
	"github.com/spf13/cobra"
)

var (
	execEnv    []string
	inheritEnv bool
)

var execCmd = &cobra.Command{
	Use:   "exec <path> [args...]",
	Short: "Run a program on the execution service",
	Long: `Runs the program at <path> inside the execution service and waits for it
to finish. The service is launched first if it is not reachable.

Flags after <path> belong to the program. SIGINT, SIGTERM and SIGHUP received
while waiting are forwarded to the program.`,
	Example: `  occlum-exec exec /bin/hello_world
  occlum-exec exec --env LANG=C /bin/ls -l /`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().SetInterspersed(false)
	execCmd.Flags().StringArrayVarP(&execEnv, "env", "e", nil, "environment entry KEY=VALUE for the program (repeatable)")
	execCmd.Flags().BoolVar(&inheritEnv, "inherit-env", false, "also pass this client's environment to the program")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	command, params := buildArgv(args)

	var environ []string
	if inheritEnv {
		environ = os.Environ()
	}
	env, err := buildEnv(cfg.Exec.Env, execEnv, environ)
	if err != nil {
		return err
	}

	client, err := newClient(true)
	if err != nil {
		return err
	}
	defer client.Close()

	// Signals only make sense once there is a program to forward them to
	sigs := make(chan os.Signal, 4)
	defer signal.Stop(sigs)
	client.AfterSubmit(func(execclient.Handle) {
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		client.ForwardSignals(sigs)
	})

	code, err := client.Run(cmd.Context(), command, params, env)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: int(code)}
	}
	return nil
}

// buildArgv splits args into the command path and the parameter list, whose
// first entry is the base name of the path
func buildArgv(args []string) (string, []string) {
	command := args[0]
	params := make([]string, 0, len(args))
	params = append(params, filepath.Base(command))
	params = append(params, args[1:]...)
	return command, params
}

// buildEnv concatenates the configured entries, the flag entries and the
// inherited environment, in that order
func buildEnv(configured, flags, inherited []string) ([]string, error) {
	for _, kv := range flags {
		if err := config.ValidateEnvEntry(kv); err != nil {
			return nil, fmt.Errorf("--env: %w", err)
		}
	}

	env := make([]string, 0, len(configured)+len(flags)+len(inherited))
	env = append(env, configured...)
	env = append(env, flags...)
	env = append(env, inherited...)
	return env, nil
}
