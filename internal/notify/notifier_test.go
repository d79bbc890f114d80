package notify

import (
	"testing"

	"modctl/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewNotifierRendersAndSends(t *testing.T) {
	sender := NewMemorySender()
	notifier := NewReviewNotifier(sender, "mods@example.com")

	comment := &model.Comment{
		ID:     42,
		Author: "Jane",
		Email:  "jane@example.com",
		Text:   "great talk!",
		State:  model.StateHam,
	}

	err := notifier.SendReviewRequest(comment, "https://example.com/admin/review/42")
	require.NoError(t, err)

	deliveries := sender.Deliveries()
	require.Len(t, deliveries, 1)
	d := deliveries[0]
	assert.Equal(t, "mods@example.com", d.Recipient)
	assert.Contains(t, d.Subject, "Jane")
	assert.Contains(t, d.Body, "great talk!")
	assert.Contains(t, d.Body, "jane@example.com")
	assert.Contains(t, d.Body, "https://example.com/admin/review/42")
	assert.False(t, d.SentAt.IsZero())
}

func TestMemorySenderReturnsCopies(t *testing.T) {
	sender := NewMemorySender()
	require.NoError(t, sender.Send(Delivery{Recipient: "a@b.c"}))

	got := sender.Deliveries()
	got[0].Recipient = "mutated"

	assert.Equal(t, "a@b.c", sender.Deliveries()[0].Recipient)
}
