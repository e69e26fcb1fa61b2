package domain

import (
	"strings"
	"time"
)

// Severity of a complaint
type Severity string

const (
	SeverityMinor Severity = "Minor"
	SeverityMajor Severity = "Major"
)

// ParseSeverity accepts Minor/Major case-insensitively
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minor":
		return SeverityMinor, nil
	case "major":
		return SeverityMajor, nil
	}
	return "", ErrInvalidSeverity
}

// TicketStatus is the ticket lifecycle state. Transitions only move forward.
type TicketStatus string

const (
	TicketStatusOpen TicketStatus = "Open"
	// TicketStatusInProgress is reserved; nothing moves a ticket into it yet
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// ParseTicketStatus accepts the display value or a snake/lower-case form
func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", " ")) {
	case "open":
		return TicketStatusOpen, true
	case "in progress":
		return TicketStatusInProgress, true
	case "resolved":
		return TicketStatusResolved, true
	}
	return "", false
}

// Ticket is a complaint filed against an asset
type Ticket struct {
	ID         string       `json:"id"`
	AssetID    int          `json:"asset_id"`
	Severity   Severity     `json:"severity"`
	Issue      string       `json:"issue"`
	Status     TicketStatus `json:"status"`
	AssignedTo string       `json:"assigned_to"`
	Timestamp  time.Time    `json:"timestamp"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
	Resolver   *string      `json:"resolver,omitempty"`
}

// NewTicket validates the request fields and builds an Open ticket
func NewTicket(id string, assetID int, severity Severity, issue, assignedTo string, now time.Time) (*Ticket, error) {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return nil, ErrInvalidIssue
	}
	if severity != SeverityMinor && severity != SeverityMajor {
		return nil, ErrInvalidSeverity
	}
	return &Ticket{
		ID:         id,
		AssetID:    assetID,
		Severity:   severity,
		Issue:      issue,
		Status:     TicketStatusOpen,
		AssignedTo: assignedTo,
		Timestamp:  now,
	}, nil
}

// IsResolved reports whether the ticket reached its terminal state
func (t *Ticket) IsResolved() bool {
	return t.Status == TicketStatusResolved
}

// Resolve moves the ticket to Resolved. An empty resolver records none. A
// second call fails and changes nothing.
func (t *Ticket) Resolve(resolver string, now time.Time) error {
	if t.IsResolved() {
		return ErrAlreadyResolved
	}
	t.Status = TicketStatusResolved
	t.ResolvedAt = &now
	if resolver != "" {
		t.Resolver = &resolver
	}
	return nil
}

// Clone returns a deep copy safe to hand out of the store
func (t *Ticket) Clone() *Ticket {
	c := *t
	if t.ResolvedAt != nil {
		at := *t.ResolvedAt
		c.ResolvedAt = &at
	}
	if t.Resolver != nil {
		r := *t.Resolver
		c.Resolver = &r
	}
	return &c
}

// TicketFilter narrows ListTickets; zero values match everything
type TicketFilter struct {
	Status  TicketStatus
	AssetID int
}

// Matches reports whether t passes the filter
func (f TicketFilter) Matches(t *Ticket) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.AssetID != 0 && t.AssetID != f.AssetID {
		return false
	}
	return true
}
