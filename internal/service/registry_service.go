package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shamroze153/FM-Portal/internal/advisor"
	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/pkg/logger"
)

// assetService implements AssetService
type assetService struct {
	store repository.AssetRepository
}

// NewAssetService creates a new AssetService
func NewAssetService(store repository.AssetRepository) AssetService {
	return &assetService{store: store}
}

func (s *assetService) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	return s.store.ListAssets(ctx)
}

func (s *assetService) GetAsset(ctx context.Context, id int) (*domain.Asset, error) {
	return s.store.GetAsset(ctx, id)
}

// complianceService implements ComplianceService
type complianceService struct {
	store repository.Store
}

// NewComplianceService creates a new ComplianceService
func NewComplianceService(store repository.Store) ComplianceService {
	return &complianceService{store: store}
}

func (s *complianceService) RecordChecklist(ctx context.Context, rec domain.ChecklistRecord) (*domain.ChecklistRecord, error) {
	return s.store.RecordChecklist(ctx, rec)
}

// Compliance counts distinct done assets per type against the registry size
func (s *complianceService) Compliance(ctx context.Context) ([]domain.ComplianceLine, int, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, 0, err
	}
	records, err := s.store.ListChecklists(ctx)
	if err != nil {
		return nil, 0, err
	}
	return domain.ComputeCompliance(records, len(assets)), len(assets), nil
}

// inventoryService implements InventoryService
type inventoryService struct {
	store repository.InventoryRepository
	log   *logger.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(store repository.InventoryRepository, log *logger.Logger) InventoryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &inventoryService{store: store, log: log.Named("inventory")}
}

func (s *inventoryService) ListTools(ctx context.Context) ([]domain.Tool, error) {
	return s.store.ListTools(ctx)
}

func (s *inventoryService) ListRefrigerants(ctx context.Context) ([]domain.Refrigerant, error) {
	return s.store.ListRefrigerants(ctx)
}

func (s *inventoryService) UpdateTool(ctx context.Context, name string, quantity int) (*domain.Tool, error) {
	t, err := s.store.SetToolQuantity(ctx, name, quantity)
	if err != nil {
		return nil, err
	}
	s.log.Info("tool quantity updated", zap.String("tool", t.Name), zap.Int("quantity", t.Quantity))
	return t, nil
}

func (s *inventoryService) UpdateRefrigerant(ctx context.Context, name string, kg float64) (*domain.Refrigerant, error) {
	r, err := s.store.SetRefrigerantKg(ctx, name, kg)
	if err != nil {
		return nil, err
	}
	s.log.Info("refrigerant stock updated", zap.String("refrigerant", r.Name), zap.Float64("kg", r.Kg))
	return r, nil
}

// diagnosticService implements DiagnosticService
type diagnosticService struct {
	advisor advisor.DiagnosticAdvisor
	log     *logger.Logger
}

// NewDiagnosticService creates a new DiagnosticService
func NewDiagnosticService(adv advisor.DiagnosticAdvisor, log *logger.Logger) DiagnosticService {
	if adv == nil {
		adv = advisor.StaticDiagnostic{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &diagnosticService{advisor: adv, log: log.Named("diagnostics")}
}

// Diagnose never fails on advisor errors; the text is display only
func (s *diagnosticService) Diagnose(ctx context.Context, issue string) (string, error) {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return "", domain.ErrInvalidIssue
	}
	text, err := s.advisor.Diagnose(ctx, issue)
	if err != nil || text == "" {
		if err != nil {
			s.log.Warn("diagnostic advisor failed", zap.Error(err))
		}
		return advisor.NoDiagnostic, nil
	}
	return text, nil
}
