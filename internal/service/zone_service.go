package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/metrics"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

// ZonePoints are the rewards attached to zone operations
type ZonePoints struct {
	TakeoverBonus int
	Checklist     int
}

// zoneService implements ZoneService
type zoneService struct {
	store  repository.Store
	events eventEmitter
	log    *logger.Logger
	points ZonePoints
}

// NewZoneService creates a new ZoneService
func NewZoneService(store repository.Store, publisher EventPublisher, log *logger.Logger, points ZonePoints) ZoneService {
	if log == nil {
		log = logger.NewNop()
	}
	return &zoneService{
		store:  store,
		events: newEventEmitter(publisher, log),
		log:    log.Named("zones"),
		points: points,
	}
}

// Zones recomputes the partition from the current registry
func (s *zoneService) Zones(ctx context.Context) ([]domain.ZoneAssignment, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	controls, err := s.store.ZoneControls(ctx)
	if err != nil {
		return nil, err
	}

	partition := domain.PartitionZones(assets)
	out := make([]domain.ZoneAssignment, 0, len(domain.Zones))
	for _, z := range domain.Zones {
		out = append(out, assignment(z, controls[z], partition[z]))
	}
	return out, nil
}

func (s *zoneService) zone(ctx context.Context, z domain.Zone) (*domain.ZoneAssignment, error) {
	zones, err := s.Zones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].Zone == z {
			return &zones[i], nil
		}
	}
	return nil, domain.ErrInvalidZone
}

func assignment(z domain.Zone, ctrl repository.ZoneControl, assets []domain.Asset) domain.ZoneAssignment {
	return domain.ZoneAssignment{
		Zone:         z,
		DefaultOwner: ctrl.DefaultOwner,
		Override:     ctrl.Override,
		Controller:   domain.Controller(ctrl.DefaultOwner, ctrl.Override),
		Assets:       assets,
	}
}

// SetOverride hands the zone to name and pays the takeover bonus to roster members
func (s *zoneService) SetOverride(ctx context.Context, z domain.Zone, name string) (*domain.ZoneAssignment, *domain.LedgerEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.zone.set_override")
	defer span.End()

	entry, err := s.store.SetZoneOverride(ctx, z, name, s.points.TakeoverBonus)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, nil, err
	}
	za, err := s.zone(ctx, z)
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordScoreAdjustment(ctx, entry)
	s.log.Info("zone takeover",
		zap.String("zone", string(z)),
		zap.String("controller", za.Controller),
		zap.Bool("bonus_paid", entry != nil),
	)
	s.events.emit(ctx, domain.EventZoneTakeover, func(evt *domain.DispatchEvent) {
		evt.ZoneTakeover = &domain.ZoneTakeoverData{Zone: z, Controller: za.Controller}
	})
	s.events.emitLedger(ctx, entry)
	return za, entry, nil
}

// ClearOverride gives the zone back to its default owner
func (s *zoneService) ClearOverride(ctx context.Context, z domain.Zone) (*domain.ZoneAssignment, error) {
	if err := s.store.ClearZoneOverride(ctx, z); err != nil {
		return nil, err
	}
	za, err := s.zone(ctx, z)
	if err != nil {
		return nil, err
	}

	s.log.Info("zone override cleared", zap.String("zone", string(z)), zap.String("controller", za.Controller))
	s.events.emit(ctx, domain.EventZoneTakeover, func(evt *domain.DispatchEvent) {
		evt.ZoneTakeover = &domain.ZoneTakeoverData{Zone: z, Controller: za.Controller, Cleared: true}
	})
	return za, nil
}

// ZoneCheck records the "all good" check for an asset in the zone
func (s *zoneService) ZoneCheck(ctx context.Context, z domain.Zone, assetID int, kind domain.ChecklistType) (*repository.ZoneCheckResult, error) {
	res, err := s.store.RecordZoneCheck(ctx, z, assetID, kind, s.points.Checklist)
	if err != nil {
		return nil, err
	}
	metrics.RecordScoreAdjustment(ctx, res.Entry)
	s.log.Info("zone check recorded",
		zap.String("zone", string(z)),
		zap.Int("asset_id", assetID),
		zap.String("type", string(kind)),
		zap.String("controller", res.Controller),
	)
	s.events.emitLedger(ctx, res.Entry)
	return res, nil
}
