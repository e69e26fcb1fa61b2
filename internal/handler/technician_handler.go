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

// TechnicianHandler handles roster, scoring and task requests
type TechnicianHandler struct {
	roster service.RosterService
}

// NewTechnicianHandler creates a new TechnicianHandler
func NewTechnicianHandler(roster service.RosterService) *TechnicianHandler {
	return &TechnicianHandler{roster: roster}
}

// List handles GET /technicians
func (h *TechnicianHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.List")
	defer span.End()

	techs, err := h.roster.ListTechnicians(ctx)
	if err != nil {
		respondError(c, span, err, "Failed to list technicians")
		return
	}

	out := make([]*dto.TechnicianResponse, len(techs))
	for i := range techs {
		out[i] = dto.NewTechnicianResponse(&techs[i])
	}
	span.SetStatus(codes.Ok, "")
	response.List(c, out, len(out))
}

// GetByName handles GET /technicians/:name
func (h *TechnicianHandler) GetByName(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.GetByName")
	defer span.End()

	t, err := h.roster.GetTechnician(ctx, c.Param("name"))
	if err != nil {
		respondError(c, span, err, "Failed to get technician")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.NewTechnicianResponse(t))
}

// SetAttendance handles PUT /technicians/:name/attendance
func (h *TechnicianHandler) SetAttendance(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.SetAttendance")
	defer span.End()

	var req dto.AttendanceRequest
	if !bindJSON(c, span, &req) {
		return
	}

	t, err := h.roster.SetAttendance(ctx, c.Param("name"), *req.Present)
	if err != nil {
		respondError(c, span, err, "Failed to set attendance")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.NewTechnicianResponse(t))
}

// AwardPoints handles POST /technicians/:name/points
func (h *TechnicianHandler) AwardPoints(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.AwardPoints")
	defer span.End()

	var req dto.AwardPointsRequest
	if !bindJSON(c, span, &req) {
		return
	}
	span.SetAttributes(attribute.String("technician", c.Param("name")), attribute.Int("points", req.Points))

	entry, t, err := h.roster.AwardPoints(ctx, c.Param("name"), req.Points, req.Reason)
	if err != nil {
		respondError(c, span, err, "Failed to award points")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.ScoreAdjustmentResponse{Entry: *entry, Technician: dto.NewTechnicianResponse(t)})
}

// DeductDemerits handles POST /technicians/:name/demerits
func (h *TechnicianHandler) DeductDemerits(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.DeductDemerits")
	defer span.End()

	var req dto.DeductDemeritsRequest
	if !bindJSON(c, span, &req) {
		return
	}
	if valid, msg := req.Validate(); !valid {
		badRequest(c, span, msg)
		return
	}
	span.SetAttributes(attribute.String("technician", c.Param("name")), attribute.String("reason", req.Reason))

	entry, t, err := h.roster.DeductDemerits(ctx, c.Param("name"), req.Points, req.Reason)
	if err != nil {
		respondError(c, span, err, "Failed to deduct demerits")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.ScoreAdjustmentResponse{Entry: *entry, Technician: dto.NewTechnicianResponse(t)})
}

// Ledger handles GET /technicians/:name/ledger
func (h *TechnicianHandler) Ledger(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.Ledger")
	defer span.End()

	name := c.Param("name")
	entries, err := h.roster.Ledger(ctx, name)
	if err != nil {
		respondError(c, span, err, "Failed to read ledger")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.LedgerResponse{
		Technician: name,
		Entries:    entries,
		NetScore:   domain.NetScoreFromLedger(entries),
	})
}

// AddTask handles POST /technicians/:name/tasks
func (h *TechnicianHandler) AddTask(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.AddTask")
	defer span.End()

	var req dto.AddTaskRequest
	if !bindJSON(c, span, &req) {
		return
	}

	t, err := h.roster.AssignTask(ctx, c.Param("name"), req.Task)
	if err != nil {
		respondError(c, span, err, "Failed to assign task")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Created(c, dto.NewTechnicianResponse(t))
}

// CompleteTask handles POST /technicians/:name/tasks/complete
func (h *TechnicianHandler) CompleteTask(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.CompleteTask")
	defer span.End()

	var req dto.CompleteTaskRequest
	if !bindJSON(c, span, &req) {
		return
	}

	res, err := h.roster.CompleteTask(ctx, c.Param("name"), req.Task, req.CompletedBy)
	if err != nil {
		respondError(c, span, err, "Failed to complete task")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.TaskCompletionResponse{
		Owner:       dto.NewTechnicianResponse(res.Owner),
		CompletedBy: dto.NewTechnicianResponse(res.CompletedBy),
		Entry:       res.Entry,
	})
}

// ShuffleTask handles POST /technicians/:name/tasks/shuffle
func (h *TechnicianHandler) ShuffleTask(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.ShuffleTask")
	defer span.End()

	var req dto.ShuffleTaskRequest
	if !bindJSON(c, span, &req) {
		return
	}

	from, to, err := h.roster.ShuffleTask(ctx, c.Param("name"), req.Task, req.To)
	if err != nil {
		respondError(c, span, err, "Failed to shuffle task")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.TaskShuffleResponse{
		From: dto.NewTechnicianResponse(from),
		To:   dto.NewTechnicianResponse(to),
	})
}

// Leaderboard handles GET /leaderboard
func (h *TechnicianHandler) Leaderboard(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.Leaderboard")
	defer span.End()

	seq, err := h.roster.Rank(ctx)
	if err != nil {
		respondError(c, span, err, "Failed to rank technicians")
		return
	}
	rows := []domain.RankedTechnician{}
	for row := range seq {
		rows = append(rows, row)
	}
	span.SetStatus(codes.Ok, "")
	response.List(c, rows, len(rows))
}

// Elite handles GET /leaderboard/elite
func (h *TechnicianHandler) Elite(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.technician.Elite")
	defer span.End()

	rows, err := h.roster.Elite(ctx, domain.EliteSize)
	if err != nil {
		respondError(c, span, err, "Failed to rank technicians")
		return
	}
	span.SetStatus(codes.Ok, "")
	response.List(c, rows, len(rows))
}

// DemeritReasons handles GET /demerit-reasons
func (h *TechnicianHandler) DemeritReasons(c *gin.Context) {
	reasons := domain.DemeritReasons()
	response.List(c, reasons, len(reasons))
}
