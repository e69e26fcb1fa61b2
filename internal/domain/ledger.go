package domain

import "time"

// LedgerKind says which counter an entry moved
type LedgerKind string

const (
	LedgerKindPoints   LedgerKind = "points"
	LedgerKindDemerits LedgerKind = "demerits"
)

// Ledger reasons written by the engine itself
const (
	ReasonOpeningBalance = "opening balance"
	ReasonManualAward    = "manual award"
	ReasonManualDemerit  = "manual demerit"
	ReasonTaskCompleted  = "task completed"
	ReasonZoneTakeover   = "zone takeover"
	ReasonZoneChecklist  = "zone checklist"
)

// LedgerEntry is one applied, non-negative score delta
type LedgerEntry struct {
	ID         string     `json:"id"`
	Technician string     `json:"technician"`
	Kind       LedgerKind `json:"kind"`
	Delta      int        `json:"delta"`
	Reason     string     `json:"reason"`
	At         time.Time  `json:"at"`
}

// Signed returns the entry's contribution to the net score
func (e LedgerEntry) Signed() int {
	if e.Kind == LedgerKindDemerits {
		return -e.Delta
	}
	return e.Delta
}

// NetScoreFromLedger recomputes a net score from its history
func NetScoreFromLedger(entries []LedgerEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Signed()
	}
	return total
}

// Apply adds the entry's delta to the matching counter of t
func (e LedgerEntry) Apply(t *Technician) {
	switch e.Kind {
	case LedgerKindPoints:
		t.Points += e.Delta
	case LedgerKindDemerits:
		t.Demerits += e.Delta
	}
}

// DemeritReason is a named penalty with a fixed size
type DemeritReason struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

var demeritReasons = []DemeritReason{
	{Reason: "Missed Checklist", Points: 25},
	{Reason: "Attitude Issue", Points: 20},
	{Reason: "Safety Violation", Points: 30},
	{Reason: "Late Attendance", Points: 10},
	{Reason: "Tool Misplacement", Points: 15},
}

// DemeritReasons returns the penalty table
func DemeritReasons() []DemeritReason {
	out := make([]DemeritReason, len(demeritReasons))
	copy(out, demeritReasons)
	return out
}

// LookupDemeritReason finds a penalty by exact reason
func LookupDemeritReason(reason string) (DemeritReason, bool) {
	for _, r := range demeritReasons {
		if r.Reason == reason {
			return r, true
		}
	}
	return DemeritReason{}, false
}
