package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/dto"
	"github.com/shamroze153/FM-Portal/internal/service"
	"github.com/shamroze153/FM-Portal/pkg/response"
	"github.com/shamroze153/FM-Portal/pkg/telemetry"
)

// ZoneHandler handles zone partition and takeover requests
type ZoneHandler struct {
	zones service.ZoneService
}

// NewZoneHandler creates a new ZoneHandler
func NewZoneHandler(zones service.ZoneService) *ZoneHandler {
	return &ZoneHandler{zones: zones}
}

// List handles GET /zones
func (h *ZoneHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.zone.List")
	defer span.End()

	zones, err := h.zones.Zones(ctx)
	if err != nil {
		respondError(c, span, err, "Failed to partition zones")
		return
	}

	out := make([]*dto.ZoneResponse, len(zones))
	for i, z := range zones {
		out[i] = dto.NewZoneResponse(z)
	}
	span.SetStatus(codes.Ok, "")
	response.List(c, out, len(out))
}

// SetOverride handles PUT /zones/:zone/override
func (h *ZoneHandler) SetOverride(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.zone.SetOverride")
	defer span.End()

	zone, err := domain.ParseZone(c.Param("zone"))
	if err != nil {
		respondError(c, span, err, "Invalid zone")
		return
	}

	var req dto.ZoneOverrideRequest
	if !bindJSON(c, span, &req) {
		return
	}
	span.SetAttributes(attribute.String("zone", string(zone)), attribute.String("technician", req.Technician))

	assignment, entry, err := h.zones.SetOverride(ctx, zone, req.Technician)
	if err != nil {
		respondError(c, span, err, "Failed to take over zone")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{
		"zone":  dto.NewZoneResponse(*assignment),
		"bonus": entry,
	})
}

// ClearOverride handles DELETE /zones/:zone/override
func (h *ZoneHandler) ClearOverride(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.zone.ClearOverride")
	defer span.End()

	zone, err := domain.ParseZone(c.Param("zone"))
	if err != nil {
		respondError(c, span, err, "Invalid zone")
		return
	}

	assignment, err := h.zones.ClearOverride(ctx, zone)
	if err != nil {
		respondError(c, span, err, "Failed to clear override")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.NewZoneResponse(*assignment))
}

// Check handles POST /zones/:zone/checks - marks a checklist done for the
// zone controller
func (h *ZoneHandler) Check(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.zone.Check")
	defer span.End()

	zone, err := domain.ParseZone(c.Param("zone"))
	if err != nil {
		respondError(c, span, err, "Invalid zone")
		return
	}

	var req dto.ZoneCheckRequest
	if !bindJSON(c, span, &req) {
		return
	}
	kind, err := domain.ParseChecklistType(req.Type)
	if err != nil {
		respondError(c, span, err, "Invalid checklist type")
		return
	}

	res, err := h.zones.ZoneCheck(ctx, zone, req.AssetID, kind)
	if err != nil {
		respondError(c, span, err, "Failed to record zone check")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Created(c, dto.ZoneCheckResponse{
		Record:     res.Record,
		Controller: res.Controller,
		Entry:      res.Entry,
	})
}
