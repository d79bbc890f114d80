package notify

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"text/template"
	"time"

	"modctl/internal/model"
)

// Delivery is a rendered notification handed to a Sender.
type Delivery struct {
	Recipient string
	Subject   string
	Body      string
	SentAt    time.Time
}

// Sender delivers a rendered notification to a recipient.
type Sender interface {
	Send(Delivery) error
}

var reviewTemplate = template.Must(template.New("comment_review").Parse(
	`A new comment is awaiting moderation.

Author: {{.Comment.Author}} <{{.Comment.Email}}>
State:  {{.Comment.State}}

{{.Comment.Text}}

Accept or reject it here: {{.ReviewURL}}
`))

// ReviewNotifier renders review requests and hands them to a Sender,
// addressed to the moderation audience.
type ReviewNotifier struct {
	sender    Sender
	recipient string
}

func NewReviewNotifier(sender Sender, recipient string) *ReviewNotifier {
	return &ReviewNotifier{sender: sender, recipient: recipient}
}

func (n *ReviewNotifier) SendReviewRequest(comment *model.Comment, reviewURL string) error {
	var body strings.Builder
	data := struct {
		Comment   *model.Comment
		ReviewURL string
	}{comment, reviewURL}
	if err := reviewTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("render review notification: %w", err)
	}
	return n.sender.Send(Delivery{
		Recipient: n.recipient,
		Subject:   fmt.Sprintf("New comment from %s awaiting review", comment.Author),
		Body:      body.String(),
		SentAt:    time.Now().UTC(),
	})
}

// LogSender writes deliveries to the log. It stands in for a real mail
// transport, which is deployment-specific.
type LogSender struct {
	Logger *log.Logger
}

func (s LogSender) Send(d Delivery) error {
	s.Logger.Printf("notify %s: %s", d.Recipient, d.Subject)
	return nil
}

// MemorySender stores deliveries in memory for inspection/testing.
type MemorySender struct {
	mu         sync.Mutex
	deliveries []Delivery
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (m *MemorySender) Send(delivery Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, delivery)
	return nil
}

// Deliveries returns a copy of deliveries seen so far.
func (m *MemorySender) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}
