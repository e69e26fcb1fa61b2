package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

// JournalRepository persists committed dispatch events for audit. It is
// write-only from the engine's point of view.
type JournalRepository interface {
	EnsureSchema(ctx context.Context) error
	// Append records evt. Replaying the same event id is a no-op.
	Append(ctx context.Context, evt *domain.DispatchEvent) error
}

// TxBeginner is satisfied by *pgxpool.Pool
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresJournalRepository implements JournalRepository using PostgreSQL
type PostgresJournalRepository struct {
	db TxBeginner
}

// NewPostgresJournalRepository creates a new PostgresJournalRepository
func NewPostgresJournalRepository(db TxBeginner) *PostgresJournalRepository {
	return &PostgresJournalRepository{db: db}
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS dispatch_events (
	event_id    TEXT PRIMARY KEY,
	event_type  TEXT NOT NULL,
	version     INT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	payload     JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS dispatch_tickets (
	id          TEXT PRIMARY KEY,
	asset_id    INT NOT NULL,
	severity    TEXT NOT NULL,
	issue       TEXT NOT NULL,
	status      TEXT NOT NULL,
	assigned_to TEXT NOT NULL,
	assignment  TEXT,
	filed_at    TIMESTAMPTZ NOT NULL,
	resolved_at TIMESTAMPTZ,
	resolver    TEXT
);

CREATE TABLE IF NOT EXISTS score_ledger (
	id         TEXT PRIMARY KEY,
	technician TEXT NOT NULL,
	kind       TEXT NOT NULL,
	delta      INT NOT NULL CHECK (delta >= 0),
	reason     TEXT NOT NULL,
	at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_score_ledger_technician ON score_ledger (technician, at);
`

// EnsureSchema creates the journal tables if they do not exist
func (r *PostgresJournalRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return tx.Commit(ctx)
}

// Append writes the event row and its projection in one transaction
func (r *PostgresJournalRepository) Append(ctx context.Context, evt *domain.DispatchEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.journal.append")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", evt.EventID),
		attribute.String("event_type", string(evt.EventType)),
	)

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO dispatch_events (event_id, event_type, version, occurred_at, payload)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (event_id) DO NOTHING
		`, evt.EventID, string(evt.EventType), evt.Version, evt.OccurredAt, payload)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// already journaled
			return nil
		}

		if evt.Ticket != nil {
			if err := upsertTicket(ctx, tx, evt.Ticket, evt.Assignment); err != nil {
				return err
			}
		}
		if evt.LedgerEntry != nil {
			if err := insertLedgerEntry(ctx, tx, evt.LedgerEntry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func upsertTicket(ctx context.Context, tx pgx.Tx, t *domain.Ticket, source domain.AssignmentSource) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO dispatch_tickets (
			id, asset_id, severity, issue, status, assigned_to, assignment,
			filed_at, resolved_at, resolver
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			resolved_at = EXCLUDED.resolved_at,
			resolver = EXCLUDED.resolver,
			assignment = COALESCE(dispatch_tickets.assignment, EXCLUDED.assignment)
	`,
		t.ID,
		t.AssetID,
		string(t.Severity),
		t.Issue,
		string(t.Status),
		t.AssignedTo,
		nullString(string(source)),
		t.Timestamp,
		t.ResolvedAt,
		t.Resolver,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ticket %s: %w", t.ID, err)
	}
	return nil
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO score_ledger (id, technician, kind, delta, reason, at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Technician, string(e.Kind), e.Delta, e.Reason, e.At)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", e.ID, err)
	}
	return nil
}

// nullString converts empty string to nil for nullable columns
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
