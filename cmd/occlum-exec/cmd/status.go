package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/msto63/occlum-exec/internal/execclient"
	"github.com/spf13/cobra"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#94A3B8")

	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted).Width(10)

	statusStyles = map[execclient.HealthStatus]lipgloss.Style{
		execclient.HealthServing:     lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		execclient.HealthNotServing:  lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		execclient.HealthUnreachable: lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the execution service is serving",
	Long: `Runs a single health check against the execution service. The service is
never launched by this command. Exits with 0 only when the service is serving.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	defer client.Close()

	status, _ := client.Probe(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), renderStatus(cfg.Client.Target, status))

	if status != execclient.HealthServing {
		return &exitError{code: 1}
	}
	return nil
}

func renderStatus(target string, status execclient.HealthStatus) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Occlum execution service"),
		labelStyle.Render("Target")+target,
		labelStyle.Render("Status")+statusStyles[status].Render(status.String()),
	)
}
