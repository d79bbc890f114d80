package cmd

import (
	"log"

	"modctl/internal/config"
	"modctl/internal/storage"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "modctl",
	Short: "A comment moderation pipeline",
}

func Execute(store *storage.Store, cfg *config.Config) {

	rootCmd.AddCommand(SubmitCmd(store, cfg))
	rootCmd.AddCommand(EnqueueCmd(store, cfg))
	rootCmd.AddCommand(ListCmd(store))
	rootCmd.AddCommand(StatusCmd(store))
	rootCmd.AddCommand(ReviewCmd(store, cfg))
	rootCmd.AddCommand(WorkerCmd(store, cfg))
	rootCmd.AddCommand(PurgeCmd(store, cfg))
	rootCmd.AddCommand(TasksCmd(store))
	rootCmd.AddCommand(ConfigCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
