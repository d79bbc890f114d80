package cmd

import (
	"encoding/json"
	"fmt"

	"modctl/internal/config"
	"modctl/internal/model"
	"modctl/internal/storage"

	"github.com/spf13/cobra"
)

// EnqueueCmd queues a raw moderation task for an existing comment. Useful to
// re-drive a comment whose task was lost after a state change committed.
func EnqueueCmd(store *storage.Store, cfg *config.Config) *cobra.Command {
	var enqueueCmd = &cobra.Command{
		Use:   "enqueue <task(json)>",
		Short: "Queue a moderation task for an existing comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var task model.Task
			if err := json.Unmarshal([]byte(args[0]), &task); err != nil {
				return fmt.Errorf("invalid task JSON: %w", err)
			}

			if task.CommentID == 0 {
				return fmt.Errorf("task 'comment_id' is empty")
			}

			if task.MaxRetries == 0 {
				task.MaxRetries = cfg.MaxRetries
			}

			if err := store.EnqueueTask(&task); err != nil {
				return fmt.Errorf("failed to enqueue task: %v", err)
			}
			fmt.Printf("Task %s enqueued for comment %d.\n", task.ID, task.CommentID)
			return nil
		},
	}
	return enqueueCmd
}
