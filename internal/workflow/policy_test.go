package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionForVerdict(t *testing.T) {
	tr, err := TransitionForVerdict(0)
	assert.NoError(t, err)
	assert.Equal(t, TransitionAccept, tr)

	tr, err = TransitionForVerdict(1)
	assert.NoError(t, err)
	assert.Equal(t, TransitionMightBeSpam, tr)

	tr, err = TransitionForVerdict(2)
	assert.NoError(t, err)
	assert.Equal(t, TransitionRejectSpam, tr)
}

func TestTransitionForVerdictOutOfRange(t *testing.T) {
	// A broken scorer contract must surface, never default to a verdict.
	for _, verdict := range []int{-1, 3, 42} {
		_, err := TransitionForVerdict(verdict)
		assert.True(t, errors.Is(err, ErrVerdictOutOfRange), "verdict %d", verdict)
	}
}
