// Package cli holds the cobra commands of the vibepm binary.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vibepm/internal/client"
	"vibepm/internal/config"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// RootCmd assembles every subcommand.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vibepm",
		Short:         "VibePM - personal project planning backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api", "", "API base URL for client commands (default http://localhost:$SERVER_PORT)")
	root.PersistentFlags().String("token", "", "bearer token for client commands (default $VIBEPM_TOKEN)")

	root.AddCommand(ServeCmd())
	root.AddCommand(MigrateCmd())
	root.AddCommand(PurgeCmd())
	root.AddCommand(TokenCmd())
	root.AddCommand(PromoteCmd())
	root.AddCommand(BoardCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failMark, err)
		os.Exit(1)
	}
}

// apiClient builds a client from the persistent flags, falling back to the
// loaded configuration.
func apiClient(cmd *cobra.Command, cfg *config.Config, extra ...client.Option) *client.Client {
	base, _ := cmd.Flags().GetString("api")
	if strings.TrimSpace(base) == "" {
		base = "http://localhost:" + cfg.ServerPort
	}
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("VIBEPM_TOKEN")
	}

	var opts []client.Option
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(base, append(opts, extra...)...)
}
