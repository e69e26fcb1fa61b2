package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shamroze153/FM-Portal/pkg/middleware"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Health     *HealthHandler
	Asset      *AssetHandler
	Ticket     *TicketHandler
	Technician *TechnicianHandler
	Zone       *ZoneHandler
	Compliance *ComplianceHandler
	Inventory  *InventoryHandler
	Diagnostic *DiagnosticHandler
}

// RouterConfig holds the optional middleware inputs
type RouterConfig struct {
	Auth middleware.AuthConfig
	// Idempotency is nil when Redis is not configured
	Idempotency    middleware.RedisClient
	IdempotencyTTL time.Duration
}

// RegisterRoutes mounts the dispatch API on r
func RegisterRoutes(r *gin.Engine, h *Handlers, cfg RouterConfig) {
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	admin := middleware.RequireRole(cfg.Auth, middleware.RoleAdmin)

	v1 := r.Group("/api/v1")

	assets := v1.Group("/assets")
	{
		assets.GET("", h.Asset.List)
		assets.GET("/:id", h.Asset.GetByID)
	}

	tickets := v1.Group("/tickets")
	{
		create := []gin.HandlerFunc{h.Ticket.Create}
		if cfg.Idempotency != nil {
			create = append([]gin.HandlerFunc{middleware.Idempotency(middleware.IdempotencyConfig{
				Redis: cfg.Idempotency,
				TTL:   cfg.IdempotencyTTL,
			})}, create...)
		}
		tickets.POST("", create...)
		tickets.GET("", h.Ticket.List)
		tickets.GET("/:id", h.Ticket.GetByID)
		tickets.POST("/:id/resolve", h.Ticket.Resolve)
	}

	techs := v1.Group("/technicians")
	{
		techs.GET("", h.Technician.List)
		techs.GET("/:name", h.Technician.GetByName)
		techs.PUT("/:name/attendance", h.Technician.SetAttendance)
		techs.POST("/:name/points", h.Technician.AwardPoints)
		techs.POST("/:name/demerits", admin, h.Technician.DeductDemerits)
		techs.GET("/:name/ledger", h.Technician.Ledger)
		techs.POST("/:name/tasks", h.Technician.AddTask)
		techs.POST("/:name/tasks/complete", h.Technician.CompleteTask)
		techs.POST("/:name/tasks/shuffle", h.Technician.ShuffleTask)
	}

	v1.GET("/leaderboard", h.Technician.Leaderboard)
	v1.GET("/leaderboard/elite", h.Technician.Elite)
	v1.GET("/demerit-reasons", h.Technician.DemeritReasons)

	zones := v1.Group("/zones")
	{
		zones.GET("", h.Zone.List)
		zones.PUT("/:zone/override", h.Zone.SetOverride)
		zones.DELETE("/:zone/override", admin, h.Zone.ClearOverride)
		zones.POST("/:zone/checklists", h.Zone.Check)
	}

	v1.GET("/compliance", h.Compliance.Report)
	v1.POST("/compliance/checklists", h.Compliance.Record)

	inventory := v1.Group("/inventory")
	{
		inventory.GET("/tools", h.Inventory.ListTools)
		inventory.PUT("/tools/:name", admin, h.Inventory.UpdateTool)
		inventory.GET("/refrigerants", h.Inventory.ListRefrigerants)
		inventory.PUT("/refrigerants/:name", admin, h.Inventory.UpdateRefrigerant)
	}

	v1.POST("/diagnostics", h.Diagnostic.Diagnose)
}
