package journal

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/pkg/kafka"
	"github.com/shamroze153/FM-Portal/pkg/retry"
)

// MockJournal is a mock implementation of repository.JournalRepository
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) EnsureSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockJournal) Append(ctx context.Context, evt *domain.DispatchEvent) error {
	return m.Called(ctx, evt).Error(0)
}

// fakeConsumer hands out queued batches, then blocks until ctx ends
type fakeConsumer struct {
	mu        sync.Mutex
	batches   [][]*kafka.Record
	committed [][]*kafka.Record
	drained   chan struct{}
}

func newFakeConsumer(batches ...[]*kafka.Record) *fakeConsumer {
	return &fakeConsumer{batches: batches, drained: make(chan struct{})}
}

func (c *fakeConsumer) Poll(ctx context.Context) ([]*kafka.Record, error) {
	c.mu.Lock()
	if len(c.batches) > 0 {
		b := c.batches[0]
		c.batches = c.batches[1:]
		c.mu.Unlock()
		return b, nil
	}
	c.mu.Unlock()
	select {
	case <-c.drained:
	default:
		close(c.drained)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *fakeConsumer) CommitRecords(_ context.Context, records []*kafka.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = append(c.committed, records)
	return nil
}

func (c *fakeConsumer) commits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.committed)
}

// recordingDLQ captures dead letters, failing while err is set
type recordingDLQ struct {
	mu   sync.Mutex
	sent []*retry.DLQMessage
	err  error
}

func (d *recordingDLQ) PublishToDLQ(_ context.Context, msg *retry.DLQMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, msg)
	return nil
}

func (d *recordingDLQ) DLQTopic(originalTopic string) string {
	return originalTopic + ".dlq"
}

func record(t *testing.T, evt domain.DispatchEvent) *kafka.Record {
	t.Helper()
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	return &kafka.Record{Topic: "dispatch-events", Value: raw, Headers: map[string]string{"event_type": string(evt.EventType)}}
}

var fastRetry = retry.Policy{Attempts: 3, Initial: time.Millisecond, Max: time.Millisecond}

func TestWorker_JournalsAndCommits(t *testing.T) {
	repo := new(MockJournal)
	repo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.DispatchEvent) bool { return e.EventID == "e1" })).Return(nil).Once()
	repo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.DispatchEvent) bool { return e.EventID == "e2" })).Return(nil).Once()

	consumer := newFakeConsumer([]*kafka.Record{
		record(t, domain.DispatchEvent{EventID: "e1", EventType: domain.EventTicketFiled, Version: domain.EventVersion}),
		record(t, domain.DispatchEvent{EventID: "e2", EventType: domain.EventScoreAdjusted, Version: domain.EventVersion}),
	})
	w := NewWorker(WorkerConfig{Retry: fastRetry}, consumer, repo, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	<-consumer.drained
	cancel()
	require.NoError(t, <-done)

	repo.AssertExpectations(t)
	assert.Equal(t, 1, consumer.commits())
}

func TestWorker_RetriesTransientFailure(t *testing.T) {
	repo := new(MockJournal)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("conn reset")).Twice()
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	w := NewWorker(WorkerConfig{Retry: fastRetry}, newFakeConsumer(), repo, nil, nil)
	err := w.ProcessBatch(context.Background(), []*kafka.Record{
		record(t, domain.DispatchEvent{EventID: "e1", EventType: domain.EventTicketResolved}),
	})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Append", 3)
}

func TestWorker_DeadLettersPoisonRecords(t *testing.T) {
	repo := new(MockJournal)
	repo.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	dlq := &recordingDLQ{}
	consumer := newFakeConsumer([]*kafka.Record{
		{Topic: "dispatch-events", Key: []byte("T-1"), Offset: 4, Value: []byte("{not json")},
		record(t, domain.DispatchEvent{EventType: domain.EventTicketFiled}),
		record(t, domain.DispatchEvent{EventID: "e3", EventType: domain.EventZoneTakeover}),
	})
	w := NewWorker(WorkerConfig{Retry: fastRetry}, consumer, repo, dlq, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	<-consumer.drained
	cancel()
	require.NoError(t, <-done)

	repo.AssertNumberOfCalls(t, "Append", 1)
	require.Len(t, dlq.sent, 2)
	assert.Equal(t, "dispatch-events", dlq.sent[0].OriginalTopic)
	assert.Equal(t, []byte("{not json"), dlq.sent[0].Payload)
	assert.Equal(t, []byte("T-1"), dlq.sent[0].OriginalKey)
	assert.Equal(t, int64(4), dlq.sent[0].Offset)
	assert.Contains(t, dlq.sent[0].Error, ErrPoisonEvent.Error())
	assert.Equal(t, "ticket.filed", dlq.sent[1].Headers["event_type"])
	assert.Equal(t, 1, consumer.commits())
}

func TestWorker_StopsWithoutCommitWhenDeadLetterFails(t *testing.T) {
	repo := new(MockJournal)
	dlq := &recordingDLQ{err: errors.New("broker down")}
	consumer := newFakeConsumer([]*kafka.Record{
		{Topic: "dispatch-events", Value: []byte("{not json")},
	})
	w := NewWorker(WorkerConfig{Retry: fastRetry}, consumer, repo, dlq, nil)

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Equal(t, 0, consumer.commits())
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestWorker_StopsWithoutCommitWhenJournalDown(t *testing.T) {
	repo := new(MockJournal)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	consumer := newFakeConsumer([]*kafka.Record{
		record(t, domain.DispatchEvent{EventID: "e1", EventType: domain.EventTicketFiled}),
	})
	w := NewWorker(WorkerConfig{Retry: fastRetry}, consumer, repo, nil, nil)

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Equal(t, 0, consumer.commits())
	repo.AssertNumberOfCalls(t, "Append", 3)
}

func TestDecodeEvent(t *testing.T) {
	_, err := decodeEvent([]byte(`{"event_id":"x"}`))
	assert.ErrorIs(t, err, ErrPoisonEvent)

	evt, err := decodeEvent([]byte(`{"event_id":"x","event_type":"ticket.filed","version":1}`))
	require.NoError(t, err)
	assert.Equal(t, domain.EventTicketFiled, evt.EventType)
}
