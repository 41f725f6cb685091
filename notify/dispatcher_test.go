package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bistro-boss/models"
	"bistro-boss/utils"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySender struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []utils.Email
}

func (s *flakySender) Send(_ context.Context, email utils.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, email)
	return nil
}

func (s *flakySender) snapshot() (int, []utils.Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]utils.Email(nil), s.sent...)
}

type memorySink struct {
	mu     sync.Mutex
	delay  time.Duration
	failed []models.FailedNotification
}

func (m *memorySink) SaveFailedNotification(_ context.Context, n models.FailedNotification) error {
	time.Sleep(m.delay)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, n)
	return nil
}

func (m *memorySink) snapshot() []models.FailedNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FailedNotification(nil), m.failed...)
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func testOptions() Options {
	return Options{Workers: 1, QueueSize: 4, MaxRetries: 2, BaseBackoff: time.Millisecond}
}

func TestDispatcher_RetriesUntilDelivered(t *testing.T) {
	sender := &flakySender{failures: 2}
	sink := &memorySink{}
	d := NewDispatcher(sender, sink, quietLogger(), testOptions())
	d.Start()

	require.NoError(t, d.Enqueue(utils.Email{To: "diner@bistro.com", Subject: "Order"}))
	require.NoError(t, d.Shutdown(context.Background()))

	calls, sent := sender.snapshot()
	assert.Equal(t, 3, calls)
	require.Len(t, sent, 1)
	assert.Equal(t, "diner@bistro.com", sent[0].To)
	assert.Empty(t, sink.snapshot())
}

func TestDispatcher_DeadLettersAfterRetries(t *testing.T) {
	sender := &flakySender{failures: 100}
	sink := &memorySink{}
	d := NewDispatcher(sender, sink, quietLogger(), testOptions())
	d.Start()

	require.NoError(t, d.Enqueue(utils.Email{To: "diner@bistro.com", Subject: "Order"}))
	require.NoError(t, d.Shutdown(context.Background()))

	calls, sent := sender.snapshot()
	assert.Equal(t, 3, calls) // first attempt + 2 retries
	assert.Empty(t, sent)

	failed := sink.snapshot()
	require.Len(t, failed, 1)
	assert.Equal(t, "diner@bistro.com", failed[0].To)
	assert.Equal(t, 3, failed[0].Attempts)
	assert.Contains(t, failed[0].Error, "smtp unavailable")
}

func TestDispatcher_FullQueueDeadLetters(t *testing.T) {
	sink := &memorySink{}
	opts := testOptions()
	opts.QueueSize = 1
	d := NewDispatcher(&flakySender{}, sink, quietLogger(), opts)
	// no workers: the queue never drains

	require.NoError(t, d.Enqueue(utils.Email{To: "first@bistro.com"}))
	require.NoError(t, d.Enqueue(utils.Email{To: "second@bistro.com"}))

	assert.Eventually(t, func() bool {
		failed := sink.snapshot()
		return len(failed) == 1 && failed[0].To == "second@bistro.com"
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_RejectsAfterShutdown(t *testing.T) {
	d := NewDispatcher(&flakySender{}, nil, quietLogger(), testOptions())
	d.Start()
	require.NoError(t, d.Shutdown(context.Background()))
	require.NoError(t, d.Shutdown(context.Background()))

	assert.ErrorIs(t, d.Enqueue(utils.Email{To: "late@bistro.com"}), ErrDispatcherClosed)
}

func TestDispatcher_ShutdownWaitsForOverflowDeadLetters(t *testing.T) {
	sink := &memorySink{delay: 50 * time.Millisecond}
	opts := testOptions()
	opts.QueueSize = 1
	d := NewDispatcher(&flakySender{}, sink, quietLogger(), opts)

	require.NoError(t, d.Enqueue(utils.Email{To: "first@bistro.com"}))
	require.NoError(t, d.Enqueue(utils.Email{To: "overflow@bistro.com"}))
	require.NoError(t, d.Shutdown(context.Background()))

	failed := sink.snapshot()
	require.Len(t, failed, 1)
	assert.Equal(t, "overflow@bistro.com", failed[0].To)
}
