package service

import (
	"context"
	"iter"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/repository"
)

// DispatchService defines ticket filing and resolution
type DispatchService interface {
	// FileTicket validates the complaint, picks an assignee and stores the ticket
	FileTicket(ctx context.Context, assetID int, severity domain.Severity, issue string) (*FiledTicket, error)
	// ResolveTicket closes a ticket; a second call fails with ErrAlreadyResolved
	ResolveTicket(ctx context.Context, ticketID, resolver string) (*domain.Ticket, error)
	// GetTicket retrieves a ticket by id
	GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
	// ListTickets lists tickets newest first
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]*domain.Ticket, error)
}

// FiledTicket is a stored ticket plus how its assignee was chosen
type FiledTicket struct {
	Ticket     *domain.Ticket
	Assignment domain.AssignmentSource
}

// RosterService defines technician attendance, scoring and tasks
type RosterService interface {
	ListTechnicians(ctx context.Context) ([]domain.Technician, error)
	GetTechnician(ctx context.Context, name string) (*domain.Technician, error)
	SetAttendance(ctx context.Context, name string, present bool) (*domain.Technician, error)
	// AwardPoints adds delta points. reason defaults to a manual award.
	AwardPoints(ctx context.Context, name string, delta int, reason string) (*domain.LedgerEntry, *domain.Technician, error)
	// DeductDemerits adds demerits. A nil delta takes the size from the reason table.
	DeductDemerits(ctx context.Context, name string, delta *int, reason string) (*domain.LedgerEntry, *domain.Technician, error)
	Ledger(ctx context.Context, name string) ([]domain.LedgerEntry, error)
	// Rank yields the leaderboard lazily
	Rank(ctx context.Context) (iter.Seq[domain.RankedTechnician], error)
	// Elite returns the top n of Rank
	Elite(ctx context.Context, n int) ([]domain.RankedTechnician, error)
	AssignTask(ctx context.Context, name, task string) (*domain.Technician, error)
	CompleteTask(ctx context.Context, owner, task, completedBy string) (*repository.TaskCompletion, error)
	ShuffleTask(ctx context.Context, from, task, to string) (*domain.Technician, *domain.Technician, error)
}

// AssetService defines read access to the registry
type AssetService interface {
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	GetAsset(ctx context.Context, id int) (*domain.Asset, error)
}

// ZoneService defines the zone partition and takeovers
type ZoneService interface {
	// Zones partitions the current registry and attaches owners
	Zones(ctx context.Context) ([]domain.ZoneAssignment, error)
	SetOverride(ctx context.Context, zone domain.Zone, name string) (*domain.ZoneAssignment, *domain.LedgerEntry, error)
	ClearOverride(ctx context.Context, zone domain.Zone) (*domain.ZoneAssignment, error)
	// ZoneCheck records a done checklist for an asset in zone and rewards its controller
	ZoneCheck(ctx context.Context, zone domain.Zone, assetID int, kind domain.ChecklistType) (*repository.ZoneCheckResult, error)
}

// ComplianceService defines checklist recording and aggregation
type ComplianceService interface {
	RecordChecklist(ctx context.Context, rec domain.ChecklistRecord) (*domain.ChecklistRecord, error)
	// Compliance returns one line per checklist type and the registry size
	Compliance(ctx context.Context) ([]domain.ComplianceLine, int, error)
}

// InventoryService defines tool and refrigerant stock
type InventoryService interface {
	ListTools(ctx context.Context) ([]domain.Tool, error)
	ListRefrigerants(ctx context.Context) ([]domain.Refrigerant, error)
	UpdateTool(ctx context.Context, name string, quantity int) (*domain.Tool, error)
	UpdateRefrigerant(ctx context.Context, name string, kg float64) (*domain.Refrigerant, error)
}

// DiagnosticService produces display-only diagnostic text
type DiagnosticService interface {
	Diagnose(ctx context.Context, issue string) (string, error)
}
