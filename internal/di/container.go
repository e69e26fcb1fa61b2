package di

import (
	"fmt"

	"github.com/shamroze153/FM-Portal/internal/advisor"
	"github.com/shamroze153/FM-Portal/internal/handler"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/internal/seed"
	"github.com/shamroze153/FM-Portal/internal/service"
	"github.com/shamroze153/FM-Portal/pkg/config"
	"github.com/shamroze153/FM-Portal/pkg/logger"
	"github.com/shamroze153/FM-Portal/pkg/middleware"
	"github.com/shamroze153/FM-Portal/pkg/redis"
)

// Container holds all dependencies for the dispatch service
type Container struct {
	// Infrastructure
	Redis     *redis.Client
	Publisher service.EventPublisher

	// Repositories
	Store *repository.MemoryStore

	// Advisors
	AssignmentAdvisor advisor.AssignmentAdvisor
	DiagnosticAdvisor advisor.DiagnosticAdvisor

	// Services
	DispatchService   service.DispatchService
	RosterService     service.RosterService
	AssetService      service.AssetService
	ZoneService       service.ZoneService
	ComplianceService service.ComplianceService
	InventoryService  service.InventoryService
	DiagnosticService service.DiagnosticService

	// Handlers
	Handlers *handler.Handlers
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	Logger *logger.Logger
	// Redis is nil when idempotency is disabled
	Redis *redis.Client
	// Publisher is nil when Kafka is disabled
	Publisher service.EventPublisher
	// Registry overrides the seed file and default layout (tests)
	Registry *seed.Registry
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	c := &Container{
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
	}
	if c.Publisher == nil {
		c.Publisher = service.NewNoOpEventPublisher()
	}

	// Initialize repositories
	registry := cfg.Registry
	if registry == nil {
		var err error
		registry, err = loadRegistry(cfg.Config.Seed)
		if err != nil {
			return nil, err
		}
	}
	storeSeed, err := registry.StoreSeed(cfg.Config.Dispatch.ZoneOwners())
	if err != nil {
		return nil, fmt.Errorf("build seed: %w", err)
	}
	c.Store, err = repository.NewMemoryStore(storeSeed)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	// Initialize advisors
	var breakerState func() string
	if adv := cfg.Config.Advisor; adv.Enabled {
		httpAdv := advisor.NewHTTPAdvisor(advisor.HTTPConfig{
			URL:              adv.URL,
			APIKey:           adv.APIKey,
			Model:            adv.Model,
			Timeout:          adv.Timeout,
			BreakerThreshold: adv.BreakerThreshold,
			BreakerCooldown:  adv.BreakerCooldown,
		}, log)
		c.AssignmentAdvisor = httpAdv
		c.DiagnosticAdvisor = httpAdv
		breakerState = func() string { return "breaker " + httpAdv.Breaker().State().String() }
	} else {
		c.AssignmentAdvisor = advisor.UnavailableAdvisor{}
		c.DiagnosticAdvisor = advisor.StaticDiagnostic{}
		breakerState = func() string { return "disabled" }
	}

	// Initialize services
	d := cfg.Config.Dispatch
	c.DispatchService = service.NewDispatchService(c.Store, c.AssignmentAdvisor, c.Publisher, log, service.DispatchConfig{
		AdvisorTimeout: cfg.Config.Advisor.Timeout,
	})
	c.RosterService = service.NewRosterService(c.Store, c.Publisher, log, d.TaskCompletionPoints)
	c.AssetService = service.NewAssetService(c.Store)
	c.ZoneService = service.NewZoneService(c.Store, c.Publisher, log, service.ZonePoints{
		TakeoverBonus: d.TakeoverBonus,
		Checklist:     d.ChecklistPoints,
	})
	c.ComplianceService = service.NewComplianceService(c.Store)
	c.InventoryService = service.NewInventoryService(c.Store, log)
	c.DiagnosticService = service.NewDiagnosticService(c.DiagnosticAdvisor, log)

	// Initialize handlers
	checks := map[string]handler.HealthChecker{"redis": nil}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	health := handler.NewHealthHandler(checks)
	health.AddInfo("advisor", breakerState)

	c.Handlers = &handler.Handlers{
		Health:     health,
		Asset:      handler.NewAssetHandler(c.AssetService),
		Ticket:     handler.NewTicketHandler(c.DispatchService),
		Technician: handler.NewTechnicianHandler(c.RosterService),
		Zone:       handler.NewZoneHandler(c.ZoneService),
		Compliance: handler.NewComplianceHandler(c.ComplianceService),
		Inventory:  handler.NewInventoryHandler(c.InventoryService),
		Diagnostic: handler.NewDiagnosticHandler(c.DiagnosticService),
	}

	return c, nil
}

// RouterConfig returns the middleware inputs for handler.RegisterRoutes
func (c *Container) RouterConfig(cfg *config.Config) handler.RouterConfig {
	rc := handler.RouterConfig{
		Auth: middleware.AuthConfig{
			Enabled: cfg.JWT.Enabled,
			Secret:  cfg.JWT.Secret,
			Issuer:  cfg.JWT.Issuer,
		},
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
	}
	if c.Redis != nil {
		rc.Idempotency = c.Redis
	}
	return rc
}

func loadRegistry(cfg config.SeedConfig) (*seed.Registry, error) {
	if cfg.File == "" {
		return seed.Default(cfg.AssetCount), nil
	}
	r, err := seed.Load(cfg.File)
	if err != nil {
		return nil, err
	}
	return r, nil
}
