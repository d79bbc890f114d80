package walker

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"modctl/internal/model"
	"modctl/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	comment *model.Comment
	applied []workflow.Transition
}

func (f *fakeStore) GetComment(id int64) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.comment == nil || f.comment.ID != id {
		return nil, nil
	}
	c := *f.comment
	return &c, nil
}

func (f *fakeStore) ApplyTransition(id int64, t workflow.Transition) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, to, err := workflow.Endpoints(t)
	if err != nil {
		return false, err
	}
	if f.comment == nil || f.comment.ID != id || f.comment.State != from {
		return false, nil
	}
	f.comment.State = to
	f.applied = append(f.applied, t)
	return true, nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*model.Task
	err   error
}

func (f *fakeQueue) EnqueueTask(task *model.Task) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
	return nil
}

type fakeChecker struct {
	verdict int
	err     error
	calls   int
}

func (f *fakeChecker) Score(_ context.Context, _ *model.Comment, _ map[string]string) (int, error) {
	f.calls++
	return f.verdict, f.err
}

type fakeNotifier struct {
	reviewURLs []string
	err        error
}

func (f *fakeNotifier) SendReviewRequest(_ *model.Comment, reviewURL string) error {
	if f.err != nil {
		return f.err
	}
	f.reviewURLs = append(f.reviewURLs, reviewURL)
	return nil
}

type fakeOptimizer struct {
	resized []string
	err     error
}

func (f *fakeOptimizer) Resize(filename string) error {
	if f.err != nil {
		return f.err
	}
	f.resized = append(f.resized, filename)
	return nil
}

type fixture struct {
	store     *fakeStore
	queue     *fakeQueue
	checker   *fakeChecker
	notifier  *fakeNotifier
	optimizer *fakeOptimizer
	walker    *Walker
}

func newFixture(comment *model.Comment) *fixture {
	f := &fixture{
		store:     &fakeStore{comment: comment},
		queue:     &fakeQueue{},
		checker:   &fakeChecker{},
		notifier:  &fakeNotifier{},
		optimizer: &fakeOptimizer{},
	}
	f.walker = New(f.store, f.queue, f.checker, f.notifier, f.optimizer,
		"/photos", discardLogger())
	return f
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func task(commentID int64) *model.Task {
	return &model.Task{
		ID:        "task-1",
		CommentID: commentID,
		ReviewURL: "https://example.com/admin/review/1",
		Context:   map[string]string{"user_agent": "test-agent"},
	}
}

func TestAbsentCommentConsumesTask(t *testing.T) {
	f := newFixture(nil)

	err := f.walker.Process(context.Background(), task(99))

	require.NoError(t, err)
	assert.Zero(t, f.checker.calls)
	assert.Empty(t, f.queue.tasks)
	assert.Empty(t, f.notifier.reviewURLs)
}

func TestHamVerdictAcceptsAndRequeues(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StateSubmitted})
	f.checker.verdict = 0

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Equal(t, model.StateHam, f.store.comment.State)
	assert.Equal(t, []workflow.Transition{workflow.TransitionAccept}, f.store.applied)

	require.Len(t, f.queue.tasks, 1)
	next := f.queue.tasks[0]
	assert.Equal(t, int64(1), next.CommentID)
	assert.Equal(t, "https://example.com/admin/review/1", next.ReviewURL)
	assert.Equal(t, map[string]string{"user_agent": "test-agent"}, next.Context)
}

func TestSuspectVerdictFlagsPotentialSpam(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StateSubmitted})
	f.checker.verdict = 1

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Equal(t, model.StatePotentialSpam, f.store.comment.State)
	assert.Len(t, f.queue.tasks, 1)
}

func TestBlatantSpamRejectsThenDropsOnRedelivery(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StateSubmitted})
	f.checker.verdict = 2

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Equal(t, model.StateRejectedSpam, f.store.comment.State)
	require.Len(t, f.queue.tasks, 1)

	// The re-enqueued task lands on a terminal state: no guard matches, no
	// side effect, no further requeue.
	err = f.walker.Process(context.Background(), f.queue.tasks[0])

	require.NoError(t, err)
	assert.Equal(t, 1, f.checker.calls)
	assert.Len(t, f.queue.tasks, 1)
	assert.Empty(t, f.notifier.reviewURLs)
}

func TestVerdictOutOfRangeIsFatal(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StateSubmitted})
	f.checker.verdict = 9

	err := f.walker.Process(context.Background(), task(1))

	assert.True(t, errors.Is(err, workflow.ErrVerdictOutOfRange))
	assert.Equal(t, model.StateSubmitted, f.store.comment.State)
	assert.Empty(t, f.queue.tasks)
}

func TestCheckerFailureIsRetryable(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StateSubmitted})
	f.checker.err = errors.New("connection refused")

	err := f.walker.Process(context.Background(), task(1))

	assert.Error(t, err)
	assert.Equal(t, model.StateSubmitted, f.store.comment.State)
	assert.Empty(t, f.queue.tasks)
}

func TestAwaitingReviewNotifiesWithoutRequeue(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StateHam})

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Equal(t, model.StateHam, f.store.comment.State)
	assert.Empty(t, f.store.applied)
	assert.Empty(t, f.queue.tasks)
	assert.Equal(t, []string{"https://example.com/admin/review/1"}, f.notifier.reviewURLs)

	// Redelivery while still awaiting review sends a second notification.
	// Documented behavior, not deduplicated.
	err = f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Len(t, f.notifier.reviewURLs, 2)
}

func TestPotentialSpamAlsoAwaitsReview(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StatePotentialSpam})

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Len(t, f.notifier.reviewURLs, 1)
	assert.Empty(t, f.queue.tasks)
}

func TestOptimizeResizesPhotoThenAdvances(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StatePublished, PhotoFilename: "photo.png"})

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Equal(t, []string{"/photos/photo.png"}, f.optimizer.resized)
	assert.Equal(t, model.StateOptimized, f.store.comment.State)
	assert.Empty(t, f.queue.tasks)
}

func TestOptimizeWithoutPhotoSkipsResize(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StatePublished})

	err := f.walker.Process(context.Background(), task(1))

	require.NoError(t, err)
	assert.Empty(t, f.optimizer.resized)
	assert.Equal(t, model.StateOptimized, f.store.comment.State)
}

func TestResizeFailureBlocksOptimize(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StatePublished, PhotoFilename: "photo.png"})
	f.optimizer.err = errors.New("corrupt image")

	err := f.walker.Process(context.Background(), task(1))

	assert.Error(t, err)
	assert.Equal(t, model.StatePublished, f.store.comment.State)
	assert.Empty(t, f.store.applied)
}

func TestConcurrentDeliveriesMutateOnce(t *testing.T) {
	f := newFixture(&model.Comment{ID: 1, State: model.StatePublished})

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.walker.Process(context.Background(), task(1)))
		}()
	}
	wg.Wait()

	// The conditional update admits exactly one winner; every other
	// delivery resolves as a consumed no-op.
	assert.Equal(t, []workflow.Transition{workflow.TransitionOptimize}, f.store.applied)
	assert.Equal(t, model.StateOptimized, f.store.comment.State)
}
