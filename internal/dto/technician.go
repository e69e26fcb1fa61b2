package dto

import (
	"github.com/shamroze153/FM-Portal/internal/domain"
)

// AttendanceRequest sets a technician present or absent
type AttendanceRequest struct {
	Present *bool `json:"present" binding:"required"`
}

// AwardPointsRequest represents a manual point award
type AwardPointsRequest struct {
	Points int    `json:"points" binding:"gte=0"`
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

// DeductDemeritsRequest takes either an explicit point count or a known reason
type DeductDemeritsRequest struct {
	Points *int   `json:"points" binding:"omitempty"`
	Reason string `json:"reason" binding:"omitempty,max=200"`
}

// Validate validates the DeductDemeritsRequest
func (r *DeductDemeritsRequest) Validate() (bool, string) {
	if r.Points == nil && r.Reason == "" {
		return false, "Either points or a demerit reason is required"
	}
	return true, ""
}

// AddTaskRequest appends a task
type AddTaskRequest struct {
	Task string `json:"task" binding:"required,max=500"`
}

// CompleteTaskRequest completes one of the technician's tasks
type CompleteTaskRequest struct {
	Task        string `json:"task" binding:"required"`
	CompletedBy string `json:"completed_by" binding:"omitempty"`
}

// ShuffleTaskRequest hands a task to another technician
type ShuffleTaskRequest struct {
	Task string `json:"task" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// TechnicianResponse represents a roster member
type TechnicianResponse struct {
	Name       string   `json:"name"`
	Points     int      `json:"points"`
	Demerits   int      `json:"demerits"`
	NetScore   int      `json:"net_score"`
	Attendance bool     `json:"attendance"`
	Tasks      []string `json:"tasks"`
}

// NewTechnicianResponse converts a domain technician
func NewTechnicianResponse(t *domain.Technician) *TechnicianResponse {
	tasks := t.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	return &TechnicianResponse{
		Name:       t.Name,
		Points:     t.Points,
		Demerits:   t.Demerits,
		NetScore:   t.NetScore(),
		Attendance: t.Attendance,
		Tasks:      tasks,
	}
}

// ScoreAdjustmentResponse is returned by points and demerits endpoints
type ScoreAdjustmentResponse struct {
	Entry      domain.LedgerEntry  `json:"entry"`
	Technician *TechnicianResponse `json:"technician"`
}

// LedgerResponse lists one technician's ledger
type LedgerResponse struct {
	Technician string               `json:"technician"`
	Entries    []domain.LedgerEntry `json:"entries"`
	NetScore   int                  `json:"net_score"`
}

// TaskCompletionResponse is returned by the task completion endpoint
type TaskCompletionResponse struct {
	Owner       *TechnicianResponse `json:"owner"`
	CompletedBy *TechnicianResponse `json:"completed_by"`
	Entry       *domain.LedgerEntry `json:"entry,omitempty"`
}

// TaskShuffleResponse is returned by the shuffle endpoint
type TaskShuffleResponse struct {
	From *TechnicianResponse `json:"from"`
	To   *TechnicianResponse `json:"to"`
}
