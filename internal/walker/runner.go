package walker

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"modctl/internal/config"
	"modctl/internal/model"
	"modctl/internal/storage"
	"modctl/internal/workflow"
)

// Runner polls the task queue and feeds claimed tasks to the walker.
type Runner struct {
	ID     int
	Store  *storage.Store
	Walker *Walker
	Config *config.Config
}

func NewRunner(id int, store *storage.Store, w *Walker, cfg *config.Config) *Runner {
	return &Runner{
		ID:     id,
		Store:  store,
		Walker: w,
		Config: cfg,
	}
}

// Run is the main loop for the runner.
// It polls for tasks and walks them until the context is canceled.
func (r *Runner) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Printf("Worker %d: Starting", r.ID)

	// Poll for tasks every second
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d: Shutting down...", r.ID)
			return
		case <-ticker.C:
			r.processTask(ctx)
		}
	}
}

// processTask claims and walks a single task.
func (r *Runner) processTask(ctx context.Context) {
	task, err := r.Store.ClaimTask()
	if err != nil {
		log.Printf("Worker %d: Error claiming task: %v", r.ID, err)
		return
	}
	if task == nil {
		return // No task runnable, just loop again
	}

	log.Printf("Worker %d: Processing task %s (comment %d)", r.ID, task.ID, task.CommentID)

	walkErr := r.Walker.Process(ctx, task)

	task.UpdatedAt = time.Now()

	switch {
	case walkErr == nil:
		task.State = model.TaskDone
	case errors.Is(walkErr, workflow.ErrVerdictOutOfRange):
		// Broken scorer contract. Retrying cannot help, so the task goes
		// straight to dead where an operator will see it.
		task.State = model.TaskDead
		task.Output = walkErr.Error()
		log.Printf("Worker %d: FATAL: task %s dead-lettered: %v", r.ID, task.ID, walkErr)
	case task.Attempts >= task.MaxRetries:
		task.State = model.TaskDead
		task.Output = walkErr.Error()
		log.Printf("Worker %d: Task %s moved to dead after %d attempts: %v", r.ID, task.ID, task.Attempts, walkErr)
	default:
		task.State = model.TaskFailed
		task.Output = walkErr.Error()

		// Calculate exponential backoff
		delay := math.Pow(r.Config.BackoffBase, float64(task.Attempts))
		task.NextRunAt = time.Now().Add(time.Second * time.Duration(delay))

		log.Printf("Worker %d: Task %s failed, retry in %.0fs: %v", r.ID, task.ID, delay, walkErr)
	}

	if err := r.Store.UpdateTask(task); err != nil {
		log.Printf("Worker %d: Error updating task %s: %v", r.ID, task.ID, err)
	}
}
