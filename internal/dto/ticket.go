package dto

import (
	"time"

	"github.com/shamroze153/FM-Portal/internal/domain"
)

// CreateTicketRequest represents the request to file a complaint
type CreateTicketRequest struct {
	AssetID  int    `json:"asset_id" binding:"required,gt=0"`
	Severity string `json:"severity" binding:"required"`
	Issue    string `json:"issue" binding:"required,max=2000"`
}

// ResolveTicketRequest represents the request to resolve a ticket
type ResolveTicketRequest struct {
	Resolver string `json:"resolver" binding:"omitempty,max=200"`
}

// TicketListFilter holds the query parameters of the ticket list
type TicketListFilter struct {
	Status  string `form:"status"`
	AssetID int    `form:"asset_id" binding:"omitempty,gte=0"`
}

// TicketResponse represents a ticket
type TicketResponse struct {
	ID         string  `json:"id"`
	AssetID    int     `json:"asset_id"`
	Severity   string  `json:"severity"`
	Issue      string  `json:"issue"`
	Status     string  `json:"status"`
	AssignedTo string  `json:"assigned_to"`
	Assignment string  `json:"assignment,omitempty"`
	Timestamp  string  `json:"timestamp"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	Resolver   *string `json:"resolver,omitempty"`
}

// TicketListResponse represents a list of tickets
type TicketListResponse struct {
	Tickets []*TicketResponse `json:"tickets"`
	Total   int               `json:"total"`
}

// NewTicketResponse converts a domain ticket. source is empty for tickets
// read back after filing.
func NewTicketResponse(t *domain.Ticket, source domain.AssignmentSource) *TicketResponse {
	resp := &TicketResponse{
		ID:         t.ID,
		AssetID:    t.AssetID,
		Severity:   string(t.Severity),
		Issue:      t.Issue,
		Status:     string(t.Status),
		AssignedTo: t.AssignedTo,
		Assignment: string(source),
		Timestamp:  t.Timestamp.Format(time.RFC3339),
		Resolver:   t.Resolver,
	}
	if t.ResolvedAt != nil {
		at := t.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &at
	}
	return resp
}

// NewTicketListResponse converts a slice of tickets
func NewTicketListResponse(tickets []*domain.Ticket) *TicketListResponse {
	out := make([]*TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = NewTicketResponse(t, "")
	}
	return &TicketListResponse{Tickets: out, Total: len(out)}
}
