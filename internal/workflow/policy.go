package workflow

import (
	"errors"
	"fmt"
)

// ErrVerdictOutOfRange means the spam checker returned a verdict outside
// {0,1,2}. That is a broken scorer contract, not a spam decision, so it is
// surfaced instead of defaulted.
var ErrVerdictOutOfRange = errors.New("spam verdict out of range")

// TransitionForVerdict maps a spam checker verdict to the transition to
// apply to a submitted comment: 2 is certain spam, 1 is suspect, 0 is ham.
func TransitionForVerdict(verdict int) (Transition, error) {
	switch verdict {
	case 2:
		return TransitionRejectSpam, nil
	case 1:
		return TransitionMightBeSpam, nil
	case 0:
		return TransitionAccept, nil
	}
	return "", fmt.Errorf("%w: %d", ErrVerdictOutOfRange, verdict)
}
