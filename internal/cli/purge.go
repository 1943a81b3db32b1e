package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vibepm/internal/config"
	"vibepm/internal/database"
	"vibepm/internal/repository"
	"vibepm/internal/settings"
)

func PurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently remove soft-deleted projects and captures past retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(config.Load().DSN())
			if err != nil {
				return err
			}
			defer database.Close(db)

			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				app := settings.NewResolver(repository.NewSettingRepository(db)).Load(cmd.Context())
				days = app.SoftDeleteRetentionDays
			}
			before := time.Now().AddDate(0, 0, -days)

			res, err := repository.NewDataRepository(db).PurgeDeleted(cmd.Context(), before)
			if err != nil {
				return fmt.Errorf("failed to purge: %w", err)
			}
			mark := okMark
			if res.Projects == 0 && res.Captures == 0 {
				mark = warnMark
			}
			fmt.Printf("%s Purged %d project(s) and %d capture(s) deleted before %s\n",
				mark, res.Projects, res.Captures, before.Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().Int("days", 0, "retention in days (default: softDeleteRetentionDays setting)")
	return cmd
}
