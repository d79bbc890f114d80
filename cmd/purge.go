package cmd

import (
	"fmt"
	"time"

	"modctl/internal/config"
	"modctl/internal/storage"

	"github.com/spf13/cobra"
)

// PurgeCmd is the scheduled retention sweep: it deletes rejected comments
// older than the retention window. Count and delete share the same filter,
// so --dry-run reports exactly what a real run would remove.
func PurgeCmd(store *storage.Store, cfg *config.Config) *cobra.Command {
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete rejected comments past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if days <= 0 {
				days = cfg.RetentionDays
			}
			cutoff := time.Now().AddDate(0, 0, -days)

			if dryRun {
				count, err := store.CountOldRejected(cutoff)
				if err != nil {
					return fmt.Errorf("failed to count old rejected comments: %w", err)
				}
				fmt.Printf("%d rejected comment(s) older than %d days would be deleted.\n", count, days)
				return nil
			}

			deleted, err := store.DeleteOldRejected(cutoff)
			if err != nil {
				return fmt.Errorf("failed to delete old rejected comments: %w", err)
			}
			fmt.Printf("Deleted %d rejected comment(s) older than %d days.\n", deleted, days)
			return nil
		},
	}
	purgeCmd.Flags().Int("days", 0, "Retention window in days (defaults to config retention_days)")
	purgeCmd.Flags().Bool("dry-run", false, "Report the count without deleting")
	return purgeCmd
}
