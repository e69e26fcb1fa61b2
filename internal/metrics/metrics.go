package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

const meterName = "fm-portal/dispatch"

var (
	// Dispatch counters
	TicketsFiled    *telemetry.Counter
	TicketsResolved *telemetry.Counter

	// Advisor
	AdvisorFallbacks *telemetry.Counter
	AdvisorLatency   *telemetry.Histogram

	// Scoring
	ScoreAdjustments *telemetry.Counter

	// Journal worker
	JournalWrites   *telemetry.Counter
	JournalFailures *telemetry.Counter

	initOnce sync.Once
)

// Init creates the instruments on the global meter provider. Recording
// before Init is a no-op.
func Init() {
	initOnce.Do(func() {
		m := telemetry.Meter(meterName)

		TicketsFiled = telemetry.NewCounter(m, "tickets_filed_total", "Total number of tickets filed")
		TicketsResolved = telemetry.NewCounter(m, "tickets_resolved_total", "Total number of tickets resolved")
		AdvisorFallbacks = telemetry.NewCounter(m, "advisor_fallback_total", "Dispatches that did not use the advisor's answer")
		AdvisorLatency = telemetry.NewHistogram(m, "advisor_latency", "Assignment advisor round trip", "s")
		ScoreAdjustments = telemetry.NewCounter(m, "score_adjustments_total", "Ledger entries written")
		JournalWrites = telemetry.NewCounter(m, "journal_writes_total", "Events written to the audit journal")
		JournalFailures = telemetry.NewCounter(m, "journal_failures_total", "Events the journal gave up on")
	})
}

// RecordTicketFiled records a filed ticket and how it was assigned
func RecordTicketFiled(ctx context.Context, t *domain.Ticket, source domain.AssignmentSource) {
	TicketsFiled.Add(ctx, 1,
		attribute.String("severity", string(t.Severity)),
		attribute.String("assignment", string(source)),
	)
	if source == domain.AssignmentFallback {
		AdvisorFallbacks.Add(ctx, 1)
	}
}

// RecordTicketResolved records a resolution
func RecordTicketResolved(ctx context.Context, t *domain.Ticket) {
	TicketsResolved.Add(ctx, 1, attribute.String("severity", string(t.Severity)))
}

// RecordAdvisorCall records the latency of one advisor call
func RecordAdvisorCall(ctx context.Context, start time.Time, err error) {
	AdvisorLatency.Since(ctx, start, attribute.Bool("error", err != nil))
}

// RecordScoreAdjustment records one ledger entry
func RecordScoreAdjustment(ctx context.Context, e *domain.LedgerEntry) {
	if e == nil {
		return
	}
	ScoreAdjustments.Add(ctx, 1,
		attribute.String("kind", string(e.Kind)),
		attribute.String("reason", e.Reason),
	)
}

// RecordJournalWrite records the outcome of one journal append
func RecordJournalWrite(ctx context.Context, eventType domain.EventType, err error) {
	attrs := attribute.String("event_type", string(eventType))
	if err != nil {
		JournalFailures.Add(ctx, 1, attrs)
		return
	}
	JournalWrites.Add(ctx, 1, attrs)
}
