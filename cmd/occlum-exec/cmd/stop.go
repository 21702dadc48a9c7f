package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopTimeout uint32

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask the execution service to shut down",
	Long: `Sends a stop request to the execution service. The timeout is clamped to
stop.max_timeout seconds. A service that is not running is not an error.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().Uint32Var(&stopTimeout, "timeout", 0, "seconds the service may take to stop (default: stop.default_timeout)")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	timeout := cfg.Stop.DefaultTimeout
	if cmd.Flags().Changed("timeout") {
		timeout = stopTimeout
	}

	client, err := newClient(false)
	if err != nil {
		return err
	}
	defer client.Close()

	if client.Stop(cmd.Context(), timeout) {
		fmt.Fprintln(cmd.OutOrStdout(), "The server has received the stop request.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "The server is not running.")
	}
	return nil
}
