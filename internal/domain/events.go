package domain

import "time"

// EventType names a dispatch event on the event stream
type EventType string

const (
	EventTicketFiled       EventType = "ticket.filed"
	EventTicketResolved    EventType = "ticket.resolved"
	EventScoreAdjusted     EventType = "score.adjusted"
	EventZoneTakeover      EventType = "zone.takeover"
	EventAttendanceChanged EventType = "attendance.changed"
)

// ZoneTakeoverData is the payload of a zone.takeover event
type ZoneTakeoverData struct {
	Zone       Zone   `json:"zone"`
	Controller string `json:"controller"`
	// Cleared is true when the override was removed
	Cleared bool `json:"cleared"`
}

// AttendanceData is the payload of an attendance.changed event
type AttendanceData struct {
	Technician string `json:"technician"`
	Present    bool   `json:"present"`
}

// DispatchEvent is the envelope published for every committed mutation.
// Exactly one payload field is set, matching EventType.
type DispatchEvent struct {
	EventID    string    `json:"event_id"`
	EventType  EventType `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Version    int       `json:"version"`

	Ticket       *Ticket           `json:"ticket,omitempty"`
	Assignment   AssignmentSource  `json:"assignment,omitempty"`
	LedgerEntry  *LedgerEntry      `json:"ledger_entry,omitempty"`
	ZoneTakeover *ZoneTakeoverData `json:"zone_takeover,omitempty"`
	Attendance   *AttendanceData   `json:"attendance,omitempty"`
}

// EventVersion is bumped on incompatible payload changes
const EventVersion = 1

// Key returns the partition key so events for one entity stay ordered
func (e *DispatchEvent) Key() string {
	switch {
	case e.Ticket != nil:
		return e.Ticket.ID
	case e.LedgerEntry != nil:
		return e.LedgerEntry.Technician
	case e.ZoneTakeover != nil:
		return "zone-" + string(e.ZoneTakeover.Zone)
	case e.Attendance != nil:
		return e.Attendance.Technician
	}
	return e.EventID
}
