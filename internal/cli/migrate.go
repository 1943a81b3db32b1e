package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibepm/internal/config"
	"vibepm/internal/database"
	"vibepm/internal/repository"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations and split legacy inline analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := database.MigrateUp(cfg.MigrationURL()); err != nil {
				return err
			}
			fmt.Printf("%s Schema up to date\n", okMark)

			skip, _ := cmd.Flags().GetBool("skip-captures")
			if skip {
				return nil
			}
			db, err := database.Open(cfg.DSN())
			if err != nil {
				return err
			}
			defer database.Close(db)

			n, err := repository.NewQuickCaptureRepository(db).SplitLegacyAnalyses(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to split legacy analyses: %w", err)
			}
			fmt.Printf("%s Moved %d inline analyses into their own column\n", okMark, n)
			return nil
		},
	}
	up.Flags().Bool("skip-captures", false, "do not rewrite captures with inline analyses")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			if err := database.MigrateDown(config.Load().MigrationURL(), steps); err != nil {
				return err
			}
			fmt.Printf("%s Rolled back %d migration(s)\n", okMark, steps)
			return nil
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}
