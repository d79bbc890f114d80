package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"modctl/internal/config"
	"modctl/internal/model"
	"modctl/internal/storage"

	"github.com/spf13/cobra"
)

// SubmitCmd creates a comment in the submitted state and enqueues its first
// moderation task, capturing submission metadata for the spam checker.
func SubmitCmd(store *storage.Store, cfg *config.Config) *cobra.Command {
	var submitCmd = &cobra.Command{
		Use:   "submit <comment(json)>",
		Short: "Submit a comment and queue it for moderation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var comment model.Comment
			if err := json.Unmarshal([]byte(args[0]), &comment); err != nil {
				return fmt.Errorf("invalid comment JSON: %w", err)
			}

			if comment.Author == "" || comment.Email == "" || comment.Text == "" {
				return fmt.Errorf("comment 'author', 'email' or 'text' is empty")
			}

			comment.State = model.StateSubmitted
			comment.CreatedAt = time.Now()

			if err := store.CreateComment(&comment); err != nil {
				return fmt.Errorf("failed to create comment: %v", err)
			}

			reviewURL, _ := cmd.Flags().GetString("review-url")
			userAgent, _ := cmd.Flags().GetString("user-agent")
			referrer, _ := cmd.Flags().GetString("referrer")
			permalink, _ := cmd.Flags().GetString("permalink")

			task := model.Task{
				CommentID: comment.ID,
				ReviewURL: reviewURL,
				Context: map[string]string{
					"user_agent": userAgent,
					"referrer":   referrer,
					"permalink":  permalink,
				},
				MaxRetries: cfg.MaxRetries,
			}
			if err := store.EnqueueTask(&task); err != nil {
				return fmt.Errorf("failed to enqueue moderation task: %v", err)
			}

			fmt.Printf("Comment %d submitted, task %s queued.\n", comment.ID, task.ID)
			return nil
		},
	}
	submitCmd.Flags().String("review-url", "", "URL moderators use to review the comment")
	submitCmd.Flags().String("user-agent", "", "User agent captured at submission")
	submitCmd.Flags().String("referrer", "", "Referrer captured at submission")
	submitCmd.Flags().String("permalink", "", "Permalink of the page the comment was posted on")
	return submitCmd
}
