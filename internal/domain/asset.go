package domain

// AssetStatus is the lifecycle state of an HVAC unit
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "Active"
	AssetStatusMaintenance AssetStatus = "Maintenance"
	AssetStatusSpare       AssetStatus = "Spare"
	AssetStatusDisposed    AssetStatus = "Disposed"
	AssetStatusObsolete    AssetStatus = "Obsolete"
)

// Valid reports whether s is a known status
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusSpare, AssetStatusDisposed, AssetStatusObsolete:
		return true
	}
	return false
}

const (
	// MaxHealth is the health of a unit with no recorded complaints
	MaxHealth = 100.0
	// ComplaintHealthPenalty is subtracted from health for every filed ticket
	ComplaintHealthPenalty = 0.5
)

// Asset is a serviceable unit in the registry
type Asset struct {
	ID              int         `json:"id"`
	Campus          string      `json:"campus"`
	Floor           string      `json:"floor"`
	Room            string      `json:"room"`
	Type            string      `json:"type"`
	Capacity        string      `json:"capacity"`
	Status          AssetStatus `json:"status"`
	ComplaintCount  int         `json:"complaint_count"`
	Health          float64     `json:"health"`
	IssuesThisMonth int         `json:"issues_this_month"`
}

// RecordComplaint applies the counter side effects of a filed ticket
func (a *Asset) RecordComplaint() {
	a.ComplaintCount++
	a.IssuesThisMonth++
	a.Health -= ComplaintHealthPenalty
	if a.Health < 0 {
		a.Health = 0
	}
}
