package walker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"modctl/internal/image"
	"modctl/internal/model"
	"modctl/internal/spam"
	"modctl/internal/workflow"
)

// CommentStore is the slice of the record store the walker needs: a load and
// an atomic conditional transition.
type CommentStore interface {
	GetComment(id int64) (*model.Comment, error)
	ApplyTransition(id int64, t workflow.Transition) (bool, error)
}

// TaskQueue re-enqueues a task for a later walker pass.
type TaskQueue interface {
	EnqueueTask(task *model.Task) error
}

// Notifier asks the moderation audience to review a comment.
type Notifier interface {
	SendReviewRequest(comment *model.Comment, reviewURL string) error
}

// Walker advances one comment through the moderation pipeline, one guarded
// step per task delivery. All collaborators are injected.
type Walker struct {
	store     CommentStore
	queue     TaskQueue
	checker   spam.Checker
	notifier  Notifier
	optimizer image.Optimizer
	photoDir  string
	logger    *log.Logger
}

func New(store CommentStore, queue TaskQueue, checker spam.Checker, notifier Notifier,
	optimizer image.Optimizer, photoDir string, logger *log.Logger) *Walker {
	return &Walker{
		store:     store,
		queue:     queue,
		checker:   checker,
		notifier:  notifier,
		optimizer: optimizer,
		photoDir:  photoDir,
		logger:    logger,
	}
}

// Process consumes one task delivery. Guards are checked in fixed priority
// order and the first match wins, so each invocation performs at most one
// state-mutating action. A nil return consumes the task; a non-nil return
// leaves it to the queue's retry policy.
func (w *Walker) Process(ctx context.Context, task *model.Task) error {
	comment, err := w.store.GetComment(task.CommentID)
	if err != nil {
		return fmt.Errorf("load comment %d: %w", task.CommentID, err)
	}
	if comment == nil {
		// Deleted between enqueue and delivery (retention sweep, most
		// likely). Consume the task.
		w.logger.Printf("comment %d no longer exists, consuming task %s", task.CommentID, task.ID)
		return nil
	}

	switch {
	case workflow.Can(comment.State, workflow.TransitionAccept):
		return w.screen(ctx, task, comment)
	case workflow.Can(comment.State, workflow.TransitionPublish),
		workflow.Can(comment.State, workflow.TransitionPublishHam):
		return w.requestReview(task, comment)
	case workflow.Can(comment.State, workflow.TransitionOptimize):
		return w.optimize(task, comment)
	default:
		w.logger.Printf("dropping task %s: comment %d in state %q needs no automated action",
			task.ID, comment.ID, comment.State)
		return nil
	}
}

// screen scores a submitted comment, applies the matching transition and
// re-enqueues the task so the next pass evaluates the new state. This is the
// only branch that re-enqueues, and it does so only after the state change
// is committed.
func (w *Walker) screen(ctx context.Context, task *model.Task, comment *model.Comment) error {
	verdict, err := w.checker.Score(ctx, comment, task.Context)
	if err != nil {
		return fmt.Errorf("score comment %d: %w", comment.ID, err)
	}
	transition, err := workflow.TransitionForVerdict(verdict)
	if err != nil {
		return fmt.Errorf("comment %d: %w", comment.ID, err)
	}

	applied, err := w.store.ApplyTransition(comment.ID, transition)
	if err != nil {
		return fmt.Errorf("apply %s to comment %d: %w", transition, comment.ID, err)
	}
	if !applied {
		// Another walker moved the comment first. It re-enqueued if the new
		// state needs it, so this delivery is done.
		w.logger.Printf("lost transition race on comment %d, consuming task %s", comment.ID, task.ID)
		return nil
	}
	w.logger.Printf("comment %d: applied %s (verdict %d)", comment.ID, transition, verdict)

	next := &model.Task{
		CommentID:  task.CommentID,
		ReviewURL:  task.ReviewURL,
		Context:    task.Context,
		MaxRetries: task.MaxRetries,
	}
	if err := w.queue.EnqueueTask(next); err != nil {
		// State is committed; redelivery of this task is a safe no-op that
		// retries only the enqueue.
		return fmt.Errorf("re-enqueue task for comment %d: %w", comment.ID, err)
	}
	return nil
}

// requestReview notifies the moderation audience and consumes the task.
// Publication is a human decision; a fresh task arrives once it is made.
// A redelivery while the comment still awaits review sends the notification
// again. That duplicate is accepted, not suppressed.
func (w *Walker) requestReview(task *model.Task, comment *model.Comment) error {
	if err := w.notifier.SendReviewRequest(comment, task.ReviewURL); err != nil {
		return fmt.Errorf("notify review of comment %d: %w", comment.ID, err)
	}
	w.logger.Printf("comment %d (%s): review requested at %s", comment.ID, comment.State, task.ReviewURL)
	return nil
}

// optimize resizes the photo, if any, then marks the comment optimized. The
// transition is never applied with an unprocessed photo: a resize failure
// leaves the comment published and the task retryable.
func (w *Walker) optimize(task *model.Task, comment *model.Comment) error {
	if comment.PhotoFilename != "" {
		if err := w.optimizer.Resize(filepath.Join(w.photoDir, comment.PhotoFilename)); err != nil {
			return fmt.Errorf("resize photo of comment %d: %w", comment.ID, err)
		}
	}

	applied, err := w.store.ApplyTransition(comment.ID, workflow.TransitionOptimize)
	if err != nil {
		return fmt.Errorf("apply optimize to comment %d: %w", comment.ID, err)
	}
	if !applied {
		w.logger.Printf("lost transition race on comment %d, consuming task %s", comment.ID, task.ID)
		return nil
	}
	w.logger.Printf("comment %d: optimized", comment.ID)
	return nil
}
