package cmd

import (
	"fmt"
	"strconv"

	"modctl/internal/config"
	"modctl/internal/model"
	"modctl/internal/storage"
	"modctl/internal/workflow"

	"github.com/spf13/cobra"
)

// ReviewCmd is the human moderation action. It publishes or rejects a
// comment sitting in ham/potential_spam, and on publish enqueues a fresh
// task so the walker resumes with photo optimization.
func ReviewCmd(store *storage.Store, cfg *config.Config) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Accept or reject comments awaiting moderation",
	}

	publishCmd := &cobra.Command{
		Use:   "publish [comment-id]",
		Short: "Publish a reviewed comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyReview(store, cfg, args[0], true)
		},
	}

	rejectCmd := &cobra.Command{
		Use:   "reject [comment-id]",
		Short: "Reject a reviewed comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyReview(store, cfg, args[0], false)
		},
	}

	reviewCmd.AddCommand(publishCmd)
	reviewCmd.AddCommand(rejectCmd)
	return reviewCmd
}

func applyReview(store *storage.Store, cfg *config.Config, rawID string, publish bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid comment id: %s", rawID)
	}

	comment, err := store.GetComment(id)
	if err != nil {
		return err
	}
	if comment == nil {
		return fmt.Errorf("no comment found with ID %d", id)
	}

	var transition workflow.Transition
	switch {
	case publish && comment.State == model.StateHam:
		transition = workflow.TransitionPublish
	case publish && comment.State == model.StatePotentialSpam:
		transition = workflow.TransitionPublishHam
	case !publish && comment.State == model.StateHam:
		transition = workflow.TransitionReject
	case !publish && comment.State == model.StatePotentialSpam:
		transition = workflow.TransitionRejectHam
	default:
		return fmt.Errorf("comment %d is in state %q and cannot be reviewed", id, comment.State)
	}

	applied, err := store.ApplyTransition(id, transition)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("comment %d changed state concurrently, review not applied", id)
	}
	fmt.Printf("Comment %d: applied %s.\n", id, transition)

	if !publish {
		return nil
	}

	// Published comments go back through the pipeline for photo
	// optimization.
	task := model.Task{CommentID: id, MaxRetries: cfg.MaxRetries}
	if err := store.EnqueueTask(&task); err != nil {
		return fmt.Errorf("failed to enqueue follow-up task: %v", err)
	}
	fmt.Printf("Task %s enqueued for optimization.\n", task.ID)
	return nil
}
