package service

import (
	"context"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/metrics"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

// rosterService implements RosterService
type rosterService struct {
	store                repository.TechnicianRepository
	events               eventEmitter
	log                  *logger.Logger
	taskCompletionPoints int
}

// NewRosterService creates a new RosterService
func NewRosterService(store repository.TechnicianRepository, publisher EventPublisher, log *logger.Logger, taskCompletionPoints int) RosterService {
	if log == nil {
		log = logger.NewNop()
	}
	return &rosterService{
		store:                store,
		events:               newEventEmitter(publisher, log),
		log:                  log.Named("roster"),
		taskCompletionPoints: taskCompletionPoints,
	}
}

func (s *rosterService) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	return s.store.ListTechnicians(ctx)
}

func (s *rosterService) GetTechnician(ctx context.Context, name string) (*domain.Technician, error) {
	return s.store.GetTechnician(ctx, name)
}

// SetAttendance marks a technician present or absent
func (s *rosterService) SetAttendance(ctx context.Context, name string, present bool) (*domain.Technician, error) {
	t, err := s.store.SetAttendance(ctx, name, present)
	if err != nil {
		return nil, err
	}
	s.log.Info("attendance changed", zap.String("technician", t.Name), zap.Bool("present", present))
	s.events.emit(ctx, domain.EventAttendanceChanged, func(evt *domain.DispatchEvent) {
		evt.Attendance = &domain.AttendanceData{Technician: t.Name, Present: present}
	})
	return t, nil
}

// AwardPoints adds points through the ledger
func (s *rosterService) AwardPoints(ctx context.Context, name string, delta int, reason string) (*domain.LedgerEntry, *domain.Technician, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.ReasonManualAward
	}
	return s.adjust(ctx, name, domain.LedgerKindPoints, delta, reason)
}

// DeductDemerits adds demerits through the ledger. With no explicit delta
// the reason must be one of the known demerit reasons.
func (s *rosterService) DeductDemerits(ctx context.Context, name string, delta *int, reason string) (*domain.LedgerEntry, *domain.Technician, error) {
	reason = strings.TrimSpace(reason)
	var points int
	switch {
	case delta != nil:
		points = *delta
		if reason == "" {
			reason = domain.ReasonManualDemerit
		}
	default:
		known, ok := domain.LookupDemeritReason(reason)
		if !ok {
			return nil, nil, domain.ErrUnknownDemeritReason
		}
		points = known.Points
	}
	return s.adjust(ctx, name, domain.LedgerKindDemerits, points, reason)
}

func (s *rosterService) adjust(ctx context.Context, name string, kind domain.LedgerKind, delta int, reason string) (*domain.LedgerEntry, *domain.Technician, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.roster.adjust_score")
	defer span.End()

	if delta < 0 {
		return nil, nil, domain.ErrInvalidDelta
	}
	entry, t, err := s.store.AdjustScore(ctx, name, kind, delta, reason)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, nil, err
	}

	metrics.RecordScoreAdjustment(ctx, entry)
	s.log.Info("score adjusted",
		zap.String("technician", t.Name),
		zap.String("kind", string(kind)),
		zap.Int("delta", delta),
		zap.String("reason", reason),
		zap.Int("net_score", t.NetScore()),
	)
	s.events.emitLedger(ctx, entry)
	return entry, t, nil
}

func (s *rosterService) Ledger(ctx context.Context, name string) ([]domain.LedgerEntry, error) {
	return s.store.Ledger(ctx, name)
}

// Rank snapshots the roster and yields it by net score
func (s *rosterService) Rank(ctx context.Context) (iter.Seq[domain.RankedTechnician], error) {
	roster, err := s.store.ListTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Rank(roster), nil
}

// Elite returns the top n technicians
func (s *rosterService) Elite(ctx context.Context, n int) ([]domain.RankedTechnician, error) {
	seq, err := s.Rank(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Top(seq, n), nil
}

func (s *rosterService) AssignTask(ctx context.Context, name, task string) (*domain.Technician, error) {
	t, err := s.store.AddTask(ctx, name, task)
	if err != nil {
		return nil, err
	}
	s.log.Info("task assigned", zap.String("technician", t.Name), zap.String("task", strings.TrimSpace(task)))
	return t, nil
}

// CompleteTask removes the task and rewards whoever completed it
func (s *rosterService) CompleteTask(ctx context.Context, owner, task, completedBy string) (*repository.TaskCompletion, error) {
	res, err := s.store.CompleteTask(ctx, owner, task, completedBy, s.taskCompletionPoints)
	if err != nil {
		return nil, err
	}
	metrics.RecordScoreAdjustment(ctx, res.Entry)
	s.log.Info("task completed",
		zap.String("owner", res.Owner.Name),
		zap.String("completed_by", res.CompletedBy.Name),
		zap.String("task", task),
	)
	s.events.emitLedger(ctx, res.Entry)
	return res, nil
}

// ShuffleTask moves a task to an attending technician
func (s *rosterService) ShuffleTask(ctx context.Context, from, task, to string) (*domain.Technician, *domain.Technician, error) {
	src, dst, err := s.store.MoveTask(ctx, from, task, to)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("task shuffled", zap.String("from", src.Name), zap.String("to", dst.Name), zap.String("task", task))
	return src, dst, nil
}
