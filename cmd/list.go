package cmd

import (
	"fmt"

	"modctl/internal/model"
	"modctl/internal/storage"

	"github.com/spf13/cobra"
)

func ListCmd(store *storage.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List comments by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Published comments are the public default, everything else is
			// opt-in via --state.
			state, _ := cmd.Flags().GetString("state")

			comments, err := store.ListCommentsByState(state)
			if err != nil {
				return fmt.Errorf("failed to list comments: %w", err)
			}

			if len(comments) == 0 {
				fmt.Printf("No comments found in state: %s\n", state)
				return nil
			}

			fmt.Printf("--- Comments in '%s' state ---\n", state)
			fmt.Println("ID\tAuthor\t\tCreated\t\t\tText")
			for _, c := range comments {
				text := c.Text
				if len(text) > 40 {
					text = text[:40] + "..."
				}
				fmt.Printf("%d\t%s\t\t%s\t%s\n", c.ID, c.Author, c.CreatedAt.Format("2006-01-02 15:04"), text)
			}
			return nil
		},
	}
	cmd.Flags().String("state", model.StatePublished, "Filter comments by state (submitted, ham, potential_spam, rejected_spam, rejected, published, optimized)")
	return cmd
}

func StatusCmd(store *storage.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a summary of comment and task states",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := store.GetCommentStats()
			if err != nil {
				return fmt.Errorf("failed to get comment stats: %w", err)
			}

			fmt.Println("--- Comment States ---")
			if len(stats) == 0 {
				fmt.Println("No comments.")
			}
			for state, count := range stats {
				fmt.Printf("%s: \t%d\n", state, count)
			}

			taskStats, err := store.GetTaskStats()
			if err != nil {
				return fmt.Errorf("failed to get task stats: %w", err)
			}

			fmt.Println("\n--- Task Queue ---")
			if len(taskStats) == 0 {
				fmt.Println("No tasks in the queue.")
			}
			for state, count := range taskStats {
				fmt.Printf("%s: \t%d\n", state, count)
			}
			return nil
		},
	}
	return cmd
}
