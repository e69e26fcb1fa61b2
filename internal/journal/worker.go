// Package journal copies the dispatch event stream into the PostgreSQL audit
// journal.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/metrics"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/pkg/kafka"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/retry"
)

// ErrPoisonEvent marks a record that can never be journaled
var ErrPoisonEvent = errors.New("undecodable dispatch event")

// Consumer is the subset of *kafka.Consumer the worker needs
type Consumer interface {
	Poll(ctx context.Context) ([]*kafka.Record, error)
	CommitRecords(ctx context.Context, records []*kafka.Record) error
}

// WorkerConfig holds configuration for the journal worker
type WorkerConfig struct {
	// Retry bounds the attempts per event before the worker gives up
	Retry retry.Policy
	// PollBackoff is the pause after a failed poll
	PollBackoff time.Duration
}

// Worker consumes dispatch events and appends them to the journal
type Worker struct {
	cfg      WorkerConfig
	consumer Consumer
	repo     repository.JournalRepository
	dlq      retry.DLQPublisher
	log      *logger.Logger
}

// NewWorker creates a new journal worker. Poison records go to dlq.
func NewWorker(cfg WorkerConfig, consumer Consumer, repo repository.JournalRepository, dlq retry.DLQPublisher, log *logger.Logger) *Worker {
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	if cfg.PollBackoff <= 0 {
		cfg.PollBackoff = time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	if dlq == nil {
		dlq = retry.NoOpDLQPublisher{}
	}
	return &Worker{
		cfg:      cfg,
		consumer: consumer,
		repo:     repo,
		dlq:      dlq,
		log:      log.Named("journal"),
	}
}

// Run polls until ctx is done. It returns an error only when an event could
// not be journaled or dead-lettered after every retry; offsets for that batch
// stay uncommitted so a restarted worker replays it.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("journal worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info("journal worker stopped")
			return nil
		}

		records, err := w.consumer.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.log.Error("failed to poll kafka", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.PollBackoff):
			}
			continue
		}
		if len(records) == 0 {
			continue
		}

		if err := w.ProcessBatch(ctx, records); err != nil {
			if ctx.Err() != nil {
				continue
			}
			return err
		}

		if err := w.consumer.CommitRecords(ctx, records); err != nil {
			w.log.Error("failed to commit offsets", zap.Error(err), zap.Int("records", len(records)))
		}
	}
}

// ProcessBatch journals records in order. Poison records are published to the
// dead letter topic; the batch fails if that publish fails.
func (w *Worker) ProcessBatch(ctx context.Context, records []*kafka.Record) error {
	for _, rec := range records {
		err := w.processRecord(ctx, rec)
		if errors.Is(err, ErrPoisonEvent) {
			err = w.deadLetter(ctx, rec, err)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) deadLetter(ctx context.Context, rec *kafka.Record, cause error) error {
	msg := &retry.DLQMessage{
		OriginalTopic: rec.Topic,
		OriginalKey:   rec.Key,
		Partition:     rec.Partition,
		Offset:        rec.Offset,
		Payload:       rec.Value,
		Headers:       rec.Headers,
		Error:         cause.Error(),
		Attempts:      1,
	}
	topic := w.dlq.DLQTopic(rec.Topic)
	if _, err := retry.Do(ctx, w.cfg.Retry, func(ctx context.Context) error {
		return w.dlq.PublishToDLQ(ctx, msg)
	}); err != nil {
		return fmt.Errorf("dead-letter %s[%d]@%d: %w", rec.Topic, rec.Partition, rec.Offset, err)
	}

	w.log.Warn("poison record moved to dead letter topic",
		zap.Error(cause),
		zap.String("topic", rec.Topic),
		zap.String("dlq_topic", topic),
		zap.Int32("partition", rec.Partition),
		zap.Int64("offset", rec.Offset),
	)
	return nil
}

func (w *Worker) processRecord(ctx context.Context, rec *kafka.Record) error {
	evt, err := decodeEvent(rec.Value)
	if err != nil {
		metrics.RecordJournalWrite(ctx, domain.EventType(rec.Header("event_type")), err)
		return err
	}

	attempts, err := retry.Do(ctx, w.cfg.Retry, func(ctx context.Context) error {
		return w.repo.Append(ctx, evt)
	})
	metrics.RecordJournalWrite(ctx, evt.EventType, err)
	if err != nil {
		return fmt.Errorf("journal event %s after %d attempts: %w", evt.EventID, attempts, err)
	}

	w.log.Debug("event journaled",
		zap.String("event_id", evt.EventID),
		zap.String("event_type", string(evt.EventType)),
		zap.Int("attempts", attempts),
	)
	return nil
}

func decodeEvent(raw []byte) (*domain.DispatchEvent, error) {
	var evt domain.DispatchEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPoisonEvent, err)
	}
	if evt.EventID == "" || evt.EventType == "" {
		return nil, fmt.Errorf("%w: missing event id or type", ErrPoisonEvent)
	}
	return &evt, nil
}
