package dto

import (
	"github.com/shamroze153/FM-Portal/internal/domain"
)

// ZoneOverrideRequest hands a zone to someone other than its default owner
type ZoneOverrideRequest struct {
	Technician string `json:"technician" binding:"required,max=200"`
}

// ZoneCheckRequest marks a checklist done for an asset inside a zone
type ZoneCheckRequest struct {
	AssetID int    `json:"asset_id" binding:"required,gt=0"`
	Type    string `json:"type" binding:"required"`
}

// ZoneResponse represents one zone of the partition
type ZoneResponse struct {
	Zone         string         `json:"zone"`
	DefaultOwner string         `json:"default_owner"`
	Override     string         `json:"override,omitempty"`
	Controller   string         `json:"controller"`
	AssetCount   int            `json:"asset_count"`
	Assets       []domain.Asset `json:"assets"`
}

// NewZoneResponse converts a zone assignment
func NewZoneResponse(z domain.ZoneAssignment) *ZoneResponse {
	assets := z.Assets
	if assets == nil {
		assets = []domain.Asset{}
	}
	return &ZoneResponse{
		Zone:         string(z.Zone),
		DefaultOwner: z.DefaultOwner,
		Override:     z.Override,
		Controller:   z.Controller,
		AssetCount:   len(assets),
		Assets:       assets,
	}
}

// ZoneCheckResponse is returned after a zone check
type ZoneCheckResponse struct {
	Record     domain.ChecklistRecord `json:"record"`
	Controller string                 `json:"controller"`
	Entry      *domain.LedgerEntry    `json:"entry,omitempty"`
}

// ChecklistRequest records a checklist run against any asset
type ChecklistRequest struct {
	AssetID    int    `json:"asset_id" binding:"required,gt=0"`
	Type       string `json:"type" binding:"required"`
	Done       *bool  `json:"done"`
	Technician string `json:"technician" binding:"omitempty,max=200"`
}

// IsDone defaults Done to true
func (r *ChecklistRequest) IsDone() bool {
	return r.Done == nil || *r.Done
}

// ComplianceResponse lists completion per checklist type
type ComplianceResponse struct {
	TotalAssets int                     `json:"total_assets"`
	Lines       []domain.ComplianceLine `json:"lines"`
}
