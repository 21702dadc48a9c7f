package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/msto63/occlum-exec/internal/execclient"
	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill <handle> <signal>",
	Short: "Send a signal to a program running on the service",
	Long: `Asks the execution service to deliver a signal to the program identified by
<handle>. The signal is a number or a name such as TERM or SIGKILL.

Delivery is best effort: the outcome is printed and the command exits with 0
either way.`,
	Example: `  occlum-exec kill 42 TERM
  occlum-exec kill 42 9`,
	Args: cobra.ExactArgs(2),
	RunE: runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
}

var signalNames = map[string]syscall.Signal{
	"HUP":  syscall.SIGHUP,
	"INT":  syscall.SIGINT,
	"QUIT": syscall.SIGQUIT,
	"KILL": syscall.SIGKILL,
	"TERM": syscall.SIGTERM,
}

func runKill(cmd *cobra.Command, args []string) error {
	handle, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid handle %q: %w", args[0], err)
	}
	sig, err := parseSignal(args[1])
	if err != nil {
		return err
	}

	client, err := newClient(false)
	if err != nil {
		return err
	}
	defer client.Close()

	if client.SendSignal(cmd.Context(), execclient.Handle(handle), sig) {
		fmt.Fprintf(cmd.OutOrStdout(), "Signal %d sent to %d.\n", sig, handle)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Signal %d could not be delivered to %d.\n", sig, handle)
	}
	return nil
}

// parseSignal accepts a positive number or a name with or without SIG prefix
func parseSignal(s string) (int32, error) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid signal %q", s)
		}
		return int32(n), nil
	}

	name := strings.TrimPrefix(strings.ToUpper(s), "SIG")
	if sig, ok := signalNames[name]; ok {
		return int32(sig), nil
	}
	return 0, fmt.Errorf("unknown signal %q", s)
}
