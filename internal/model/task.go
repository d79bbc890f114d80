package model

import "time"

const (
	TaskPending    = "pending"
	TaskProcessing = "processing"
	TaskDone       = "done"
	TaskFailed     = "failed"
	TaskDead       = "dead"
)

// Task is one queued moderation pass over a comment. Context carries
// submission metadata (user agent, referrer, permalink) forwarded to the
// spam checker.
type Task struct {
	ID         string            `json:"id"`
	CommentID  int64             `json:"comment_id"`
	ReviewURL  string            `json:"review_url"`
	Context    map[string]string `json:"context,omitempty"`
	State      string            `json:"state"`
	Attempts   int               `json:"attempts"`
	MaxRetries int               `json:"max_retries"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	NextRunAt  time.Time         `json:"-"` // We add this for backoff, ignore in JSON
	Output     string            `json:"output,omitempty"`
}
