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

// AssetHandler serves the asset registry
type AssetHandler struct {
	assets service.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// List handles GET /assets
func (h *AssetHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.asset.List")
	defer span.End()

	assets, err := h.assets.ListAssets(ctx)
	if err != nil {
		respondError(c, span, err, "Failed to list assets")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.List(c, assets, len(assets))
}

// GetByID handles GET /assets/:id
func (h *AssetHandler) GetByID(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.asset.GetByID")
	defer span.End()

	id, ok := intParam(c, "id")
	if !ok {
		badRequest(c, span, "Invalid asset ID")
		return
	}
	span.SetAttributes(attribute.Int("asset_id", id))

	a, err := h.assets.GetAsset(ctx, id)
	if err != nil {
		respondError(c, span, err, "Failed to get asset")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, a)
}

// ComplianceHandler serves checklist recording and the compliance report
type ComplianceHandler struct {
	compliance service.ComplianceService
}

// NewComplianceHandler creates a new ComplianceHandler
func NewComplianceHandler(compliance service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance}
}

// Record handles POST /checklists
func (h *ComplianceHandler) Record(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.compliance.Record")
	defer span.End()

	var req dto.ChecklistRequest
	if !bindJSON(c, span, &req) {
		return
	}
	kind, err := domain.ParseChecklistType(req.Type)
	if err != nil {
		respondError(c, span, err, "Invalid checklist type")
		return
	}

	rec, err := h.compliance.RecordChecklist(ctx, domain.ChecklistRecord{
		Type:       kind,
		AssetID:    req.AssetID,
		Done:       req.IsDone(),
		Technician: req.Technician,
	})
	if err != nil {
		respondError(c, span, err, "Failed to record checklist")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Created(c, rec)
}

// Report handles GET /compliance
func (h *ComplianceHandler) Report(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.compliance.Report")
	defer span.End()

	lines, total, err := h.compliance.Compliance(ctx)
	if err != nil {
		respondError(c, span, err, "Failed to compute compliance")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.ComplianceResponse{TotalAssets: total, Lines: lines})
}

// InventoryHandler serves the tool kit and refrigerant stock
type InventoryHandler struct {
	inventory service.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// ListTools handles GET /inventory/tools
func (h *InventoryHandler) ListTools(c *gin.Context) {
	tools, err := h.inventory.ListTools(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.List(c, tools, len(tools))
}

// ListRefrigerants handles GET /inventory/refrigerants
func (h *InventoryHandler) ListRefrigerants(c *gin.Context) {
	refs, err := h.inventory.ListRefrigerants(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.List(c, refs, len(refs))
}

// UpdateTool handles PUT /inventory/tools/:name
func (h *InventoryHandler) UpdateTool(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.UpdateTool")
	defer span.End()

	var req dto.UpdateToolRequest
	if !bindJSON(c, span, &req) {
		return
	}

	tool, err := h.inventory.UpdateTool(ctx, c.Param("name"), *req.Quantity)
	if err != nil {
		respondError(c, span, err, "Failed to update tool")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, tool)
}

// UpdateRefrigerant handles PUT /inventory/refrigerants/:name
func (h *InventoryHandler) UpdateRefrigerant(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.inventory.UpdateRefrigerant")
	defer span.End()

	var req dto.UpdateRefrigerantRequest
	if !bindJSON(c, span, &req) {
		return
	}

	ref, err := h.inventory.UpdateRefrigerant(ctx, c.Param("name"), *req.Kg)
	if err != nil {
		respondError(c, span, err, "Failed to update refrigerant")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, ref)
}

// DiagnosticHandler serves free-text diagnostics
type DiagnosticHandler struct {
	diagnostics service.DiagnosticService
}

// NewDiagnosticHandler creates a new DiagnosticHandler
func NewDiagnosticHandler(diagnostics service.DiagnosticService) *DiagnosticHandler {
	return &DiagnosticHandler{diagnostics: diagnostics}
}

// Diagnose handles POST /diagnostics
func (h *DiagnosticHandler) Diagnose(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.diagnostic.Diagnose")
	defer span.End()

	var req dto.DiagnosticRequest
	if !bindJSON(c, span, &req) {
		return
	}

	text, err := h.diagnostics.Diagnose(ctx, req.Issue)
	if err != nil {
		respondError(c, span, err, "Failed to diagnose")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.DiagnosticResponse{Issue: req.Issue, Diagnostic: text})
}
