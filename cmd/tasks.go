package cmd

import (
	"fmt"
	"log"

	"modctl/internal/model"
	"modctl/internal/storage"

	"github.com/spf13/cobra"
)

func TasksCmd(store *storage.Store) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and manage moderation tasks",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")
			tasks, err := store.ListTasksByState(state)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Printf("No tasks found in state: %s\n", state)
				return nil
			}

			fmt.Printf("--- Tasks in '%s' state ---\n", state)
			fmt.Println("ID\t\tComment\t\tAttempts\tOutput")
			for _, task := range tasks {
				fmt.Printf("%s\t%d\t\t%d\t%s\n", task.ID, task.CommentID, task.Attempts, task.Output)
			}
			return nil
		},
	}
	listCmd.Flags().String("state", model.TaskDead, "Filter tasks by state (pending, processing, done, failed, dead)")

	retryCmd := &cobra.Command{
		Use:   "retry [task-id]",
		Short: "Retry a specific dead task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := args[0]
			if err := store.RetryDeadTask(taskID); err != nil {
				return err
			}
			log.Printf("Task %s moved back to 'pending' state.", taskID)
			return nil
		},
	}

	tasksCmd.AddCommand(listCmd)
	tasksCmd.AddCommand(retryCmd)
	return tasksCmd
}
