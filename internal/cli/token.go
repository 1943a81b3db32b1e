package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibepm/internal/auth"
	"vibepm/internal/config"
)

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if !cfg.AuthEnabled() {
				return fmt.Errorf("JWT_SECRET is not set; the API accepts requests without a token")
			}
			subject, _ := cmd.Flags().GetString("subject")
			token, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry).GenerateToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("subject", "owner", "token subject")
	return cmd
}
