package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"modctl/internal/config"
	"modctl/internal/image"
	"modctl/internal/notify"
	"modctl/internal/spam"
	"modctl/internal/storage"
	"modctl/internal/walker"

	"github.com/spf13/cobra"
)

func WorkerCmd(store *storage.Store, cfg *config.Config) *cobra.Command {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage walker worker processes",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start one or more walker workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")

			log.Printf("Starting %d worker(s)...", count)
			log.Println("Press Ctrl+C to shut down gracefully.")

			// This context will be canceled when an OS signal is received.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var wg sync.WaitGroup

			checker := spam.NewHTTPChecker(cfg.SpamCheckURL)
			notifier := notify.NewReviewNotifier(notify.LogSender{Logger: log.Default()}, cfg.AdminEmail)
			w := walker.New(store, store, checker, notifier, image.Resizer{}, cfg.PhotoDir, log.Default())

			for i := 1; i <= count; i++ {
				wg.Add(1)
				r := walker.NewRunner(i, store, w, cfg)

				// Run the runner in a new goroutine.
				// Pass 'ctx' so it knows when to shut down.
				go r.Run(ctx, &wg)
			}

			// Listen for shutdown signals (Ctrl+C)
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				sig := <-sigCh
				log.Printf("Received signal: %v. Shutting down...", sig)
				cancel()
			}()

			wg.Wait()

			log.Println("All workers have shut down. Exiting.")
			return nil
		},
	}

	startCmd.Flags().Int("count", 1, "Number of workers to start")
	workerCmd.AddCommand(startCmd)

	return workerCmd
}
