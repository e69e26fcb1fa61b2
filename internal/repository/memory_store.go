package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shamroze153/FM-Portal/internal/domain"
)

// StoreSeed is the initial state of a MemoryStore
type StoreSeed struct {
	Assets       []domain.Asset
	Technicians  []domain.Technician
	Tools        []domain.Tool
	Refrigerants []domain.Refrigerant
	// ZoneOwners must name an owner for every zone
	ZoneOwners map[domain.Zone]string
}

// StoreOption customizes a MemoryStore
type StoreOption func(*MemoryStore)

// WithClock replaces time.Now (tests)
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator replaces uuid generation for ledger entries (tests)
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *MemoryStore) { s.newID = newID }
}

// MemoryStore owns all engine state behind one RWMutex. Every mutating
// method validates before it writes, so a failed call leaves no trace.
// Reads hand out copies.
type MemoryStore struct {
	mu sync.RWMutex

	assets     []domain.Asset // ordered by id
	assetIndex map[int]int

	tickets     map[string]*domain.Ticket
	ticketOrder []string

	roster    []*domain.Technician // roster order
	techIndex map[string]int
	ledger    []domain.LedgerEntry

	zoneOwners    map[domain.Zone]string
	zoneOverrides map[domain.Zone]string

	checklists []domain.ChecklistRecord

	tools        []domain.Tool
	refrigerants []domain.Refrigerant

	now   func() time.Time
	newID func() string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore validates seed and builds the store. Opening point and
// demerit balances are written to the ledger so net scores stay recomputable.
func NewMemoryStore(seed StoreSeed, opts ...StoreOption) (*MemoryStore, error) {
	s := &MemoryStore{
		assetIndex:    make(map[int]int, len(seed.Assets)),
		tickets:       make(map[string]*domain.Ticket),
		techIndex:     make(map[string]int, len(seed.Technicians)),
		zoneOwners:    make(map[domain.Zone]string, len(domain.Zones)),
		zoneOverrides: make(map[domain.Zone]string),
		tools:         slices.Clone(seed.Tools),
		refrigerants:  slices.Clone(seed.Refrigerants),
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.assets = slices.Clone(seed.Assets)
	slices.SortFunc(s.assets, func(a, b domain.Asset) int { return a.ID - b.ID })
	for i, a := range s.assets {
		if a.ID <= 0 {
			return nil, fmt.Errorf("asset id must be positive, got %d", a.ID)
		}
		if _, dup := s.assetIndex[a.ID]; dup {
			return nil, fmt.Errorf("duplicate asset id %d", a.ID)
		}
		if a.Status != "" && !a.Status.Valid() {
			return nil, fmt.Errorf("asset %d: unknown status %q", a.ID, a.Status)
		}
		s.assetIndex[a.ID] = i
	}

	for _, seeded := range seed.Technicians {
		name, err := domain.NormalizeName(seeded.Name)
		if err != nil {
			return nil, err
		}
		if _, dup := s.techIndex[name]; dup {
			return nil, fmt.Errorf("duplicate technician %q", name)
		}
		if seeded.Points < 0 || seeded.Demerits < 0 {
			return nil, fmt.Errorf("technician %q: opening balances must not be negative", name)
		}

		t := &domain.Technician{Name: name, Attendance: seeded.Attendance, Tasks: slices.Clone(seeded.Tasks)}
		s.techIndex[name] = len(s.roster)
		s.roster = append(s.roster, t)

		if seeded.Points > 0 {
			s.appendEntry(t, domain.LedgerKindPoints, seeded.Points, domain.ReasonOpeningBalance)
		}
		if seeded.Demerits > 0 {
			s.appendEntry(t, domain.LedgerKindDemerits, seeded.Demerits, domain.ReasonOpeningBalance)
		}
	}

	for _, z := range domain.Zones {
		owner := strings.TrimSpace(seed.ZoneOwners[z])
		if owner == "" {
			return nil, fmt.Errorf("zone %s has no default owner", z)
		}
		s.zoneOwners[z] = owner
	}

	for _, tool := range s.tools {
		if tool.Quantity < 0 {
			return nil, fmt.Errorf("tool %q: %w", tool.Name, domain.ErrInvalidQuantity)
		}
	}
	for _, r := range s.refrigerants {
		if r.Kg < 0 {
			return nil, fmt.Errorf("refrigerant %q: %w", r.Name, domain.ErrInvalidQuantity)
		}
	}

	return s, nil
}

// appendEntry must be called with the write lock held (or during construction)
func (s *MemoryStore) appendEntry(t *domain.Technician, kind domain.LedgerKind, delta int, reason string) domain.LedgerEntry {
	e := domain.LedgerEntry{
		ID:         s.newID(),
		Technician: t.Name,
		Kind:       kind,
		Delta:      delta,
		Reason:     reason,
		At:         s.now(),
	}
	e.Apply(t)
	s.ledger = append(s.ledger, e)
	return e
}

func (s *MemoryStore) tech(name string) (*domain.Technician, bool) {
	i, ok := s.techIndex[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	return s.roster[i], true
}

func (s *MemoryStore) candidates() []domain.Candidate {
	out := make([]domain.Candidate, 0, len(s.roster))
	for _, t := range s.roster {
		if t.Attendance {
			out = append(out, domain.Candidate{Name: t.Name, CurrentTaskCount: len(t.Tasks)})
		}
	}
	return out
}

// --- Assets ---

func (s *MemoryStore) ListAssets(_ context.Context) ([]domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets), nil
}

func (s *MemoryStore) GetAsset(_ context.Context, id int) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.assetIndex[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	a := s.assets[i]
	return &a, nil
}

// --- Tickets ---

func (s *MemoryStore) CreateTicket(_ context.Context, t *domain.Ticket, assign AssignFunc) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ai, ok := s.assetIndex[t.AssetID]
	if !ok {
		return nil, domain.ErrInvalidAsset
	}
	if _, dup := s.tickets[t.ID]; dup || t.ID == "" {
		return nil, fmt.Errorf("ticket id %q is not unique", t.ID)
	}

	stored := t.Clone()
	if assign != nil {
		stored.AssignedTo = assign(s.candidates())
	}
	s.assets[ai].RecordComplaint()
	s.tickets[stored.ID] = stored
	s.ticketOrder = append(s.ticketOrder, stored.ID)
	return stored.Clone(), nil
}

func (s *MemoryStore) ResolveTicket(_ context.Context, id, resolver string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	if err := t.Resolve(resolver, s.now()); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (s *MemoryStore) GetTicket(_ context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) ListTickets(_ context.Context, filter domain.TicketFilter) ([]*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Ticket, 0, len(s.ticketOrder))
	for i := len(s.ticketOrder) - 1; i >= 0; i-- {
		t := s.tickets[s.ticketOrder[i]]
		if filter.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// --- Roster & ledger ---

func (s *MemoryStore) ListTechnicians(_ context.Context) ([]domain.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Technician, len(s.roster))
	for i, t := range s.roster {
		out[i] = *t.Clone()
	}
	return out, nil
}

func (s *MemoryStore) GetTechnician(_ context.Context, name string) (*domain.Technician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tech(name)
	if !ok {
		return nil, domain.ErrTechnicianNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) SetAttendance(_ context.Context, name string, present bool) (*domain.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tech(name)
	if !ok {
		return nil, domain.ErrTechnicianNotFound
	}
	t.Attendance = present
	return t.Clone(), nil
}

func (s *MemoryStore) AdjustScore(_ context.Context, name string, kind domain.LedgerKind, delta int, reason string) (*domain.LedgerEntry, *domain.Technician, error) {
	if delta < 0 {
		return nil, nil, domain.ErrInvalidDelta
	}
	if kind != domain.LedgerKindPoints && kind != domain.LedgerKindDemerits {
		return nil, nil, fmt.Errorf("unknown ledger kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tech(name)
	if !ok {
		return nil, nil, domain.ErrTechnicianNotFound
	}
	e := s.appendEntry(t, kind, delta, reason)
	return &e, t.Clone(), nil
}

func (s *MemoryStore) Ledger(_ context.Context, name string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tech(name)
	if !ok {
		return nil, domain.ErrTechnicianNotFound
	}
	out := []domain.LedgerEntry{}
	for _, e := range s.ledger {
		if e.Technician == t.Name {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) AddTask(_ context.Context, name, task string) (*domain.Technician, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, domain.ErrInvalidTask
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tech(name)
	if !ok {
		return nil, domain.ErrTechnicianNotFound
	}
	t.Tasks = append(t.Tasks, task)
	return t.Clone(), nil
}

func (s *MemoryStore) CompleteTask(_ context.Context, owner, task, completedBy string, points int) (*TaskCompletion, error) {
	if points < 0 {
		return nil, domain.ErrInvalidDelta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.tech(owner)
	if !ok {
		return nil, domain.ErrTechnicianNotFound
	}
	by := o
	if strings.TrimSpace(completedBy) != "" {
		if by, ok = s.tech(completedBy); !ok {
			return nil, domain.ErrTechnicianNotFound
		}
	}
	idx := o.TaskIndex(task)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}

	o.Tasks = slices.Delete(o.Tasks, idx, idx+1)
	res := &TaskCompletion{}
	if points > 0 {
		e := s.appendEntry(by, domain.LedgerKindPoints, points, domain.ReasonTaskCompleted)
		res.Entry = &e
	}
	res.Owner = o.Clone()
	res.CompletedBy = by.Clone()
	return res, nil
}

func (s *MemoryStore) MoveTask(_ context.Context, from, task, to string) (*domain.Technician, *domain.Technician, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.tech(from)
	if !ok {
		return nil, nil, domain.ErrTechnicianNotFound
	}
	dst, ok := s.tech(to)
	if !ok {
		return nil, nil, domain.ErrTechnicianNotFound
	}
	if !dst.Attendance {
		return nil, nil, domain.ErrTechnicianAbsent
	}
	idx := src.TaskIndex(task)
	if idx < 0 {
		return nil, nil, domain.ErrTaskNotFound
	}

	if src != dst {
		src.Tasks = slices.Delete(src.Tasks, idx, idx+1)
		dst.Tasks = append(dst.Tasks, task)
	}
	return src.Clone(), dst.Clone(), nil
}

// --- Zones ---

func (s *MemoryStore) ZoneControls(_ context.Context) (map[domain.Zone]ZoneControl, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.Zone]ZoneControl, len(domain.Zones))
	for _, z := range domain.Zones {
		out[z] = ZoneControl{DefaultOwner: s.zoneOwners[z], Override: s.zoneOverrides[z]}
	}
	return out, nil
}

func (s *MemoryStore) SetZoneOverride(_ context.Context, zone domain.Zone, name string, bonus int) (*domain.LedgerEntry, error) {
	if _, ok := s.zoneOwners[zone]; !ok {
		return nil, domain.ErrInvalidZone
	}
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if bonus < 0 {
		return nil, domain.ErrInvalidDelta
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoneOverrides[zone] = name

	t, member := s.tech(name)
	if !member || bonus == 0 {
		return nil, nil
	}
	e := s.appendEntry(t, domain.LedgerKindPoints, bonus, domain.ReasonZoneTakeover)
	return &e, nil
}

func (s *MemoryStore) ClearZoneOverride(_ context.Context, zone domain.Zone) error {
	if _, ok := s.zoneOwners[zone]; !ok {
		return domain.ErrInvalidZone
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.zoneOverrides, zone)
	return nil
}

// --- Checklists ---

func (s *MemoryStore) RecordChecklist(_ context.Context, rec domain.ChecklistRecord) (*domain.ChecklistRecord, error) {
	if _, err := domain.ParseChecklistType(string(rec.Type)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assetIndex[rec.AssetID]; !ok {
		return nil, domain.ErrInvalidAsset
	}
	if rec.Technician != "" {
		t, ok := s.tech(rec.Technician)
		if !ok {
			return nil, domain.ErrTechnicianNotFound
		}
		rec.Technician = t.Name
	}
	if rec.At.IsZero() {
		rec.At = s.now()
	}
	s.checklists = append(s.checklists, rec)
	return &rec, nil
}

func (s *MemoryStore) RecordZoneCheck(_ context.Context, zone domain.Zone, assetID int, kind domain.ChecklistType, points int) (*ZoneCheckResult, error) {
	if _, ok := s.zoneOwners[zone]; !ok {
		return nil, domain.ErrInvalidZone
	}
	if _, err := domain.ParseChecklistType(string(kind)); err != nil {
		return nil, err
	}
	if points < 0 {
		return nil, domain.ErrInvalidDelta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assetIndex[assetID]; !ok {
		return nil, domain.ErrInvalidAsset
	}
	if z, ok := domain.PartitionZones(s.assets).ZoneOf(assetID); !ok || z != zone {
		return nil, domain.ErrAssetNotInZone
	}

	controller := domain.Controller(s.zoneOwners[zone], s.zoneOverrides[zone])
	rec := domain.ChecklistRecord{Type: kind, AssetID: assetID, Done: true, Technician: controller, At: s.now()}
	s.checklists = append(s.checklists, rec)

	res := &ZoneCheckResult{Record: rec, Controller: controller}
	if t, member := s.tech(controller); member && points > 0 {
		e := s.appendEntry(t, domain.LedgerKindPoints, points, domain.ReasonZoneChecklist)
		res.Entry = &e
	}
	return res, nil
}

func (s *MemoryStore) ListChecklists(_ context.Context) ([]domain.ChecklistRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.checklists), nil
}

// --- Inventory ---

func (s *MemoryStore) ListTools(_ context.Context) ([]domain.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tools), nil
}

func (s *MemoryStore) ListRefrigerants(_ context.Context) ([]domain.Refrigerant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.refrigerants), nil
}

func (s *MemoryStore) SetToolQuantity(_ context.Context, name string, quantity int) (*domain.Tool, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tools {
		if s.tools[i].Name == name {
			s.tools[i].Quantity = quantity
			t := s.tools[i]
			return &t, nil
		}
	}
	return nil, domain.ErrToolNotFound
}

func (s *MemoryStore) SetRefrigerantKg(_ context.Context, name string, kg float64) (*domain.Refrigerant, error) {
	if kg < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.refrigerants {
		if strings.EqualFold(s.refrigerants[i].Name, name) {
			s.refrigerants[i].Kg = kg
			r := s.refrigerants[i]
			return &r, nil
		}
	}
	return nil, domain.ErrRefrigerantNotFound
}
