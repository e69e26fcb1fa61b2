package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/advisor"
	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/metrics"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

// DispatchConfig configures the dispatch service
type DispatchConfig struct {
	// AdvisorTimeout bounds the single advisor call per filing
	AdvisorTimeout time.Duration
	NewID          func() string
	Now            func() time.Time
}

// dispatchService implements DispatchService
type dispatchService struct {
	store   repository.Store
	advisor advisor.AssignmentAdvisor
	events  eventEmitter
	log     *logger.Logger
	cfg     DispatchConfig
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	store repository.Store,
	adv advisor.AssignmentAdvisor,
	publisher EventPublisher,
	log *logger.Logger,
	cfg DispatchConfig,
) DispatchService {
	if adv == nil {
		adv = advisor.UnavailableAdvisor{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.AdvisorTimeout <= 0 {
		cfg.AdvisorTimeout = 3 * time.Second
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &dispatchService{
		store:   store,
		advisor: adv,
		events:  newEventEmitter(publisher, log),
		log:     log.Named("dispatch"),
		cfg:     cfg,
	}
}

// FileTicket validates the complaint, consults the advisor outside the store
// lock, then commits with the assignee re-checked against the attending set.
func (s *dispatchService) FileTicket(ctx context.Context, assetID int, severity domain.Severity, issue string) (*FiledTicket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.dispatch.file_ticket")
	defer span.End()
	span.SetAttributes(attribute.Int("asset_id", assetID), attribute.String("severity", string(severity)))

	if _, err := s.store.GetAsset(ctx, assetID); err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.ErrInvalidAsset
		}
		return nil, err
	}
	ticket, err := domain.NewTicket(s.cfg.NewID(), assetID, severity, issue, "", s.cfg.Now())
	if err != nil {
		return nil, err
	}

	roster, err := s.store.ListTechnicians(ctx)
	if err != nil {
		return nil, err
	}
	candidates := domain.Candidates(roster)

	suggestion, suggestErr := "", error(domain.ErrAdvisorUnavailable)
	if len(candidates) > 0 {
		suggestion, suggestErr = s.suggest(ctx, advisor.AssignmentRequest{
			Candidates: candidates,
			Severity:   ticket.Severity,
			Issue:      ticket.Issue,
		})
	}

	var source domain.AssignmentSource
	stored, err := s.store.CreateTicket(ctx, ticket, func(current []domain.Candidate) string {
		var name string
		name, source = domain.ChooseAssignee(current, suggestion, suggestErr)
		return name
	})
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("assigned_to", stored.AssignedTo), attribute.String("assignment", string(source)))
	metrics.RecordTicketFiled(ctx, stored, source)
	s.log.Info("ticket filed",
		zap.String("ticket_id", stored.ID),
		zap.Int("asset_id", stored.AssetID),
		zap.String("assigned_to", stored.AssignedTo),
		zap.String("assignment", string(source)),
	)

	s.events.emit(ctx, domain.EventTicketFiled, func(evt *domain.DispatchEvent) {
		evt.Ticket = stored
		evt.Assignment = source
	})
	return &FiledTicket{Ticket: stored, Assignment: source}, nil
}

func (s *dispatchService) suggest(ctx context.Context, req advisor.AssignmentRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.AdvisorTimeout)
	defer cancel()

	start := time.Now()
	name, err := s.advisor.Suggest(ctx, req)
	metrics.RecordAdvisorCall(ctx, start, err)
	if err != nil {
		s.log.Warn("assignment advisor failed, using fallback", zap.Error(err))
		return "", err
	}
	if !domain.ContainsCandidate(req.Candidates, name) {
		s.log.Warn("assignment advisor suggested a non-candidate", zap.String("suggestion", name))
	}
	return name, nil
}

// ResolveTicket resolves a ticket
func (s *dispatchService) ResolveTicket(ctx context.Context, ticketID, resolver string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.dispatch.resolve_ticket")
	defer span.End()
	span.SetAttributes(attribute.String("ticket_id", ticketID))

	t, err := s.store.ResolveTicket(ctx, ticketID, resolver)
	if err != nil {
		return nil, err
	}

	metrics.RecordTicketResolved(ctx, t)
	s.log.Info("ticket resolved", zap.String("ticket_id", t.ID), zap.String("resolver", resolver))
	s.events.emit(ctx, domain.EventTicketResolved, func(evt *domain.DispatchEvent) {
		evt.Ticket = t
	})
	return t, nil
}

// GetTicket retrieves a ticket by id
func (s *dispatchService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.store.GetTicket(ctx, ticketID)
}

// ListTickets lists tickets newest first
func (s *dispatchService) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]*domain.Ticket, error) {
	return s.store.ListTickets(ctx, filter)
}
