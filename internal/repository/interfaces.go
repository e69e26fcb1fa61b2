package repository

import (
	"context"

	"github.com/shamroze153/FM-Portal/internal/domain"
)

// AssignFunc picks the final assignee from the attending set as it is at commit time
type AssignFunc func(current []domain.Candidate) string

// AssetRepository defines read access to the asset registry
type AssetRepository interface {
	// ListAssets returns every asset ordered by id
	ListAssets(ctx context.Context) ([]domain.Asset, error)
	// GetAsset retrieves an asset by id
	GetAsset(ctx context.Context, id int) (*domain.Asset, error)
}

// TicketRepository defines ticket storage. CreateTicket applies the asset
// side effects in the same critical section as the insert.
type TicketRepository interface {
	// CreateTicket stores t after setting AssignedTo via assign
	CreateTicket(ctx context.Context, t *domain.Ticket, assign AssignFunc) (*domain.Ticket, error)
	// ResolveTicket moves a ticket to Resolved
	ResolveTicket(ctx context.Context, id, resolver string) (*domain.Ticket, error)
	// GetTicket retrieves a ticket by id
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	// ListTickets lists tickets newest first
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]*domain.Ticket, error)
}

// TaskCompletion is the outcome of CompleteTask
type TaskCompletion struct {
	Owner       *domain.Technician
	CompletedBy *domain.Technician
	Entry       *domain.LedgerEntry
}

// TechnicianRepository defines roster and scoring ledger storage
type TechnicianRepository interface {
	// ListTechnicians returns the roster in roster order
	ListTechnicians(ctx context.Context) ([]domain.Technician, error)
	// GetTechnician retrieves a technician by name
	GetTechnician(ctx context.Context, name string) (*domain.Technician, error)
	// SetAttendance sets the attendance flag
	SetAttendance(ctx context.Context, name string, present bool) (*domain.Technician, error)
	// AdjustScore appends a ledger entry and applies it
	AdjustScore(ctx context.Context, name string, kind domain.LedgerKind, delta int, reason string) (*domain.LedgerEntry, *domain.Technician, error)
	// Ledger returns one technician's entries oldest first
	Ledger(ctx context.Context, name string) ([]domain.LedgerEntry, error)
	// AddTask appends a task to a technician's list
	AddTask(ctx context.Context, name, task string) (*domain.Technician, error)
	// CompleteTask removes task from owner and awards points to completedBy
	CompleteTask(ctx context.Context, owner, task, completedBy string, points int) (*TaskCompletion, error)
	// MoveTask hands a task to an attending technician
	MoveTask(ctx context.Context, from, task, to string) (*domain.Technician, *domain.Technician, error)
}

// ZoneControl is the stored responsibility state of one zone
type ZoneControl struct {
	DefaultOwner string
	Override     string
}

// ZoneCheckResult is the outcome of RecordZoneCheck
type ZoneCheckResult struct {
	Record     domain.ChecklistRecord
	Controller string
	// Entry is nil when the controller is not a roster member or points is zero
	Entry *domain.LedgerEntry
}

// ZoneRepository defines zone responsibility storage
type ZoneRepository interface {
	// ZoneControls returns default owner and override per zone
	ZoneControls(ctx context.Context) (map[domain.Zone]ZoneControl, error)
	// SetZoneOverride records a takeover. bonus points go to name only when
	// name is a roster member; the returned entry is nil otherwise.
	SetZoneOverride(ctx context.Context, zone domain.Zone, name string, bonus int) (*domain.LedgerEntry, error)
	// ClearZoneOverride restores the default owner
	ClearZoneOverride(ctx context.Context, zone domain.Zone) error
}

// ChecklistRepository defines checklist record storage
type ChecklistRepository interface {
	// RecordChecklist stores a record for an existing asset
	RecordChecklist(ctx context.Context, rec domain.ChecklistRecord) (*domain.ChecklistRecord, error)
	// RecordZoneCheck stores a done record for an asset inside zone and
	// awards points to the zone's current controller
	RecordZoneCheck(ctx context.Context, zone domain.Zone, assetID int, kind domain.ChecklistType, points int) (*ZoneCheckResult, error)
	// ListChecklists returns all records oldest first
	ListChecklists(ctx context.Context) ([]domain.ChecklistRecord, error)
}

// InventoryRepository defines tool and refrigerant storage
type InventoryRepository interface {
	ListTools(ctx context.Context) ([]domain.Tool, error)
	ListRefrigerants(ctx context.Context) ([]domain.Refrigerant, error)
	SetToolQuantity(ctx context.Context, name string, quantity int) (*domain.Tool, error)
	SetRefrigerantKg(ctx context.Context, name string, kg float64) (*domain.Refrigerant, error)
}

// Store is everything the engine keeps in memory
type Store interface {
	AssetRepository
	TicketRepository
	TechnicianRepository
	ZoneRepository
	ChecklistRepository
	InventoryRepository
}
