package domain

import (
	"math"
	"strings"
	"time"
)

// ChecklistType is a maintenance cadence
type ChecklistType string

const (
	ChecklistDaily     ChecklistType = "Daily"
	ChecklistMonthly   ChecklistType = "Monthly"
	ChecklistQuarterly ChecklistType = "Quarterly"
)

// ChecklistTypes lists every cadence in display order
var ChecklistTypes = [3]ChecklistType{ChecklistDaily, ChecklistMonthly, ChecklistQuarterly}

// ParseChecklistType is case-insensitive
func ParseChecklistType(s string) (ChecklistType, error) {
	for _, t := range ChecklistTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", ErrInvalidChecklist
}

// ChecklistRecord marks one checklist run against one asset
type ChecklistRecord struct {
	Type       ChecklistType `json:"type"`
	AssetID    int           `json:"asset_id"`
	Done       bool          `json:"done"`
	Technician string        `json:"technician,omitempty"`
	At         time.Time     `json:"at"`
}

// ComplianceLine is the completion rate of one checklist type
type ComplianceLine struct {
	Type       ChecklistType `json:"type"`
	Completed  int           `json:"completed"`
	Total      int           `json:"total"`
	Percentage int           `json:"percentage"`
}

// CompliancePercentage is completed/total*100 clamped to [0,100] and rounded half up
func CompliancePercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	pct = math.Min(math.Max(pct, 0), 100)
	return int(math.Floor(pct + 0.5))
}

// ComputeCompliance counts distinct assets with a done record per type
func ComputeCompliance(records []ChecklistRecord, totalAssets int) []ComplianceLine {
	done := make(map[ChecklistType]map[int]struct{}, len(ChecklistTypes))
	for _, r := range records {
		if !r.Done {
			continue
		}
		if done[r.Type] == nil {
			done[r.Type] = make(map[int]struct{})
		}
		done[r.Type][r.AssetID] = struct{}{}
	}

	lines := make([]ComplianceLine, 0, len(ChecklistTypes))
	for _, t := range ChecklistTypes {
		completed := len(done[t])
		lines = append(lines, ComplianceLine{
			Type:       t,
			Completed:  completed,
			Total:      totalAssets,
			Percentage: CompliancePercentage(completed, totalAssets),
		})
	}
	return lines
}
