package workflow

import (
	"errors"
	"fmt"

	"modctl/internal/model"
)

// ErrIllegalTransition means a transition was applied to a comment whose
// current state is not the transition's declared source. State is never
// mutated when this is returned.
var ErrIllegalTransition = errors.New("illegal transition")

type Transition string

const (
	TransitionAccept      Transition = "accept"
	TransitionMightBeSpam Transition = "might_be_spam"
	TransitionRejectSpam  Transition = "reject_spam"
	TransitionPublish     Transition = "publish"
	TransitionPublishHam  Transition = "publish_ham"
	TransitionReject      Transition = "reject"
	TransitionRejectHam   Transition = "reject_ham"
	TransitionOptimize    Transition = "optimize"
)

type rule struct {
	from string
	to   string
}

// The comment state machine. The walker drives accept/might_be_spam/
// reject_spam and optimize; publish/publish_ham and reject/reject_ham are
// applied only by the human review action.
var transitions = map[Transition]rule{
	TransitionAccept:      {from: model.StateSubmitted, to: model.StateHam},
	TransitionMightBeSpam: {from: model.StateSubmitted, to: model.StatePotentialSpam},
	TransitionRejectSpam:  {from: model.StateSubmitted, to: model.StateRejectedSpam},
	TransitionPublish:     {from: model.StateHam, to: model.StatePublished},
	TransitionPublishHam:  {from: model.StatePotentialSpam, to: model.StatePublished},
	TransitionReject:      {from: model.StateHam, to: model.StateRejected},
	TransitionRejectHam:   {from: model.StatePotentialSpam, to: model.StateRejected},
	TransitionOptimize:    {from: model.StatePublished, to: model.StateOptimized},
}

// Can reports whether t is applicable to a comment currently in state.
func Can(state string, t Transition) bool {
	r, ok := transitions[t]
	return ok && r.from == state
}

// Endpoints returns the declared source and target states of t.
func Endpoints(t Transition) (from, to string, err error) {
	r, ok := transitions[t]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown transition %q", ErrIllegalTransition, t)
	}
	return r.from, r.to, nil
}
