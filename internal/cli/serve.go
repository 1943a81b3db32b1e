package cli

import (
	"github.com/spf13/cobra"

	"vibepm/internal/config"
	"vibepm/internal/server"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := server.Init(config.Load())
			if err != nil {
				return err
			}
			s.Run()
			return nil
		},
	}
}
