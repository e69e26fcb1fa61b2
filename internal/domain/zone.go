package domain

import (
	"slices"
	"strings"
)

// Zone labels one quarter of the asset registry
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
	ZoneC Zone = "C"
	ZoneD Zone = "D"
)

// Zones lists every zone in partition order
var Zones = [4]Zone{ZoneA, ZoneB, ZoneC, ZoneD}

// ParseZone accepts a, A, "zone a" and similar
func ParseZone(s string) (Zone, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSpace(strings.TrimPrefix(s, "ZONE"))
	for _, z := range Zones {
		if string(z) == s {
			return z, nil
		}
	}
	return "", ErrInvalidZone
}

// ZonePartition maps each zone to its assets in ascending id order
type ZonePartition map[Zone][]Asset

// PartitionZones splits assets into four contiguous id ranges of ceil(n/4),
// the last zone taking the remainder. Input order does not matter.
func PartitionZones(assets []Asset) ZonePartition {
	sorted := slices.Clone(assets)
	slices.SortFunc(sorted, func(a, b Asset) int { return a.ID - b.ID })

	n := len(sorted)
	size := (n + len(Zones) - 1) / len(Zones)

	p := make(ZonePartition, len(Zones))
	for i, z := range Zones {
		lo := min(i*size, n)
		hi := min((i+1)*size, n)
		if i == len(Zones)-1 {
			hi = n
		}
		p[z] = sorted[lo:hi:hi]
	}
	return p
}

// ZoneOf finds the zone holding assetID
func (p ZonePartition) ZoneOf(assetID int) (Zone, bool) {
	for _, z := range Zones {
		for _, a := range p[z] {
			if a.ID == assetID {
				return z, true
			}
		}
	}
	return "", false
}

// ZoneAssignment is the responsible party for one zone
type ZoneAssignment struct {
	Zone         Zone    `json:"zone"`
	DefaultOwner string  `json:"default_owner"`
	Override     string  `json:"override,omitempty"`
	Controller   string  `json:"controller"`
	Assets       []Asset `json:"assets"`
}

// Controller returns the override when set, else the default owner
func Controller(defaultOwner, override string) string {
	if override != "" {
		return override
	}
	return defaultOwner
}
