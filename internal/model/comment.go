package model

import "time"

const (
	StateSubmitted     = "submitted"
	StateHam           = "ham"
	StatePotentialSpam = "potential_spam"
	StateRejectedSpam  = "rejected_spam"
	StateRejected      = "rejected"
	StatePublished     = "published"
	StateOptimized     = "optimized"
)

// RejectedStates is the terminal family the retention sweep deletes from.
var RejectedStates = []string{StateRejected, StateRejectedSpam}

type Comment struct {
	ID            int64     `json:"id"`
	Author        string    `json:"author"`
	Email         string    `json:"email"`
	Text          string    `json:"text"`
	PhotoFilename string    `json:"photo_filename,omitempty"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
}
