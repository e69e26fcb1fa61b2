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

// TicketHandler handles ticket-related HTTP requests
type TicketHandler struct {
	dispatch service.DispatchService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(dispatch service.DispatchService) *TicketHandler {
	return &TicketHandler{dispatch: dispatch}
}

// Create handles POST /tickets - files a complaint and assigns it
func (h *TicketHandler) Create(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.Create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateTicketRequest
	if !bindJSON(c, span, &req) {
		return
	}
	span.SetAttributes(attribute.Int("asset_id", req.AssetID))

	severity, err := domain.ParseSeverity(req.Severity)
	if err != nil {
		respondError(c, span, err, "Invalid severity")
		return
	}

	filed, err := h.dispatch.FileTicket(ctx, req.AssetID, severity, req.Issue)
	if err != nil {
		respondError(c, span, err, "Failed to file ticket")
		return
	}

	span.SetAttributes(attribute.String("ticket_id", filed.Ticket.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, dto.NewTicketResponse(filed.Ticket, filed.Assignment))
}

// List handles GET /tickets - lists tickets newest first
func (h *TicketHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.List")
	defer span.End()

	var q dto.TicketListFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, span, "Invalid query parameters")
		return
	}

	filter := domain.TicketFilter{AssetID: q.AssetID}
	if q.Status != "" {
		status, ok := domain.ParseTicketStatus(q.Status)
		if !ok {
			badRequest(c, span, "Unknown ticket status")
			return
		}
		filter.Status = status
	}

	tickets, err := h.dispatch.ListTickets(ctx, filter)
	if err != nil {
		respondError(c, span, err, "Failed to list tickets")
		return
	}

	resp := dto.NewTicketListResponse(tickets)
	span.SetStatus(codes.Ok, "")
	response.List(c, resp.Tickets, resp.Total)
}

// GetByID handles GET /tickets/:id
func (h *TicketHandler) GetByID(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.GetByID")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("ticket_id", id))

	t, err := h.dispatch.GetTicket(ctx, id)
	if err != nil {
		respondError(c, span, err, "Failed to get ticket")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.NewTicketResponse(t, ""))
}

// Resolve handles POST /tickets/:id/resolve
func (h *TicketHandler) Resolve(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.ticket.Resolve")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("ticket_id", id))

	var req dto.ResolveTicketRequest
	if !bindOptionalJSON(c, span, &req) {
		return
	}

	t, err := h.dispatch.ResolveTicket(ctx, id, req.Resolver)
	if err != nil {
		respondError(c, span, err, "Failed to resolve ticket")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.NewTicketResponse(t, ""))
}
