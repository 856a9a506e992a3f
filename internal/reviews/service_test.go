package reviews

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

type stubAlerter struct {
	mu        sync.Mutex
	calls     int
	placeName string
	err       error
}

func (s *stubAlerter) SendAlert(_ context.Context, _ Review, placeName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.placeName = placeName
	return s.err
}

// blockingAlerter holds every send until release is closed or the context ends.
type blockingAlerter struct {
	release  chan struct{}
	started  chan struct{}
	deadline chan bool
	outcome  chan error
}

func newBlockingAlerter() *blockingAlerter {
	return &blockingAlerter{
		release:  make(chan struct{}),
		started:  make(chan struct{}, 1),
		deadline: make(chan bool, 1),
		outcome:  make(chan error, 1),
	}
}

func (b *blockingAlerter) SendAlert(ctx context.Context, _ Review, _ string) error {
	_, hasDeadline := ctx.Deadline()
	b.deadline <- hasDeadline
	b.started <- struct{}{}
	var err error
	select {
	case <-b.release:
	case <-ctx.Done():
		err = ctx.Err()
	}
	b.outcome <- err
	return err
}

type countingObserver struct {
	seen []string
}

func (o *countingObserver) ObserveReview(sentiment string) {
	o.seen = append(o.seen, sentiment)
}

type failingRepository struct {
	*MemoryRepository
}

func (failingRepository) Append(context.Context, Review) error {
	return errors.New("unavailable")
}

func TestSubmitNegativeTriggersAlert(t *testing.T) {
	alerter := &stubAlerter{}
	observer := &countingObserver{}
	svc := NewService(NewMemoryRepository(), logging.Default(), WithAlerter(alerter), WithObserver(observer))

	review, err := svc.Submit(context.Background(), SubmitRequest{
		Text:      "  the toilet is broken ",
		PlaceID:   "WC-1",
		PlaceName: "Toilet",
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, SentimentNegative, review.Sentiment)
	assert.Equal(t, "the toilet is broken", review.Text)
	svc.Wait()
	assert.Equal(t, 1, alerter.calls)
	assert.Equal(t, "Toilet", alerter.placeName)
	assert.Equal(t, []string{"negative"}, observer.seen)
}

func TestSubmitPositiveSkipsAlert(t *testing.T) {
	alerter := &stubAlerter{}
	svc := NewService(NewMemoryRepository(), logging.Default(), WithAlerter(alerter))

	review, err := svc.Submit(context.Background(), SubmitRequest{Text: "lovely cafe", PlaceID: "CAFE"})
	require.NoError(t, err)
	assert.Equal(t, SentimentPositive, review.Sentiment)
	assert.Zero(t, alerter.calls)
}

func TestSubmitAlertFailureIsSwallowed(t *testing.T) {
	alerter := &stubAlerter{err: errors.New("smtp down")}
	svc := NewService(NewMemoryRepository(), logging.Default(), WithAlerter(alerter))

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "worst coffee", PlaceID: "CAFE"})
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, 1, alerter.calls)
}

func TestSubmitDoesNotWaitForAlert(t *testing.T) {
	alerter := newBlockingAlerter()
	svc := NewService(NewMemoryRepository(), logging.Default(), WithAlerter(alerter), WithAlertTimeout(time.Minute))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), SubmitRequest{Text: "the toilet is dirty", PlaceID: "WC-1"})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on the alert sender")
	}

	<-alerter.started
	assert.True(t, <-alerter.deadline, "alert context should carry the alert timeout")
	close(alerter.release)
	svc.Wait()
}

func TestAlertOutlivesCanceledRequest(t *testing.T) {
	alerter := newBlockingAlerter()
	svc := NewService(NewMemoryRepository(), logging.Default(), WithAlerter(alerter), WithAlertTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Submit(ctx, SubmitRequest{Text: "broken door", PlaceID: "B1-3"})
	require.NoError(t, err)
	<-alerter.started
	cancel()

	time.Sleep(10 * time.Millisecond)
	close(alerter.release)
	svc.Wait()
	assert.NoError(t, <-alerter.outcome, "request cancellation must not abort the alert")
}

func TestAlertTimeoutBoundsSlowSender(t *testing.T) {
	alerter := newBlockingAlerter()
	svc := NewService(NewMemoryRepository(), logging.Default(), WithAlerter(alerter), WithAlertTimeout(20*time.Millisecond))

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "dirty floor", PlaceID: "WC-1"})
	require.NoError(t, err)

	waited := make(chan struct{})
	go func() {
		svc.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not bounded by the alert timeout")
	}
	assert.ErrorIs(t, <-alerter.outcome, context.DeadlineExceeded)
}

func TestSubmitRepositoryFailure(t *testing.T) {
	svc := NewService(failingRepository{NewMemoryRepository()}, logging.Default())

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "fine"})
	assert.Error(t, err)
}

func TestSummarizeKeepsMostRecent(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc := NewService(repo, logging.Default(), WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))

	texts := []string{"nice", "dirty floor", "ok", "good", "great", "noisy", "clean"}
	for _, text := range texts {
		_, err := svc.Submit(context.Background(), SubmitRequest{Text: text, PlaceID: "LIB"})
		require.NoError(t, err)
	}
	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "other place", PlaceID: "CAFE"})
	require.NoError(t, err)

	summary, err := svc.Summarize(context.Background(), "LIB", 5)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 7, Positive: 5, Negative: 2}, summary.Stats)
	require.Len(t, summary.Recent, 5)
	assert.Equal(t, "ok", summary.Recent[0].Text)
	assert.Equal(t, "clean", summary.Recent[4].Text)
}

func TestSummarizeRequiresPlace(t *testing.T) {
	svc := NewService(NewMemoryRepository(), logging.Default())
	_, err := svc.Summarize(context.Background(), " ", 5)
	assert.ErrorIs(t, err, ErrNoPlace)
}
