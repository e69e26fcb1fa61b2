// Package seed builds the initial asset registry, roster and stock, either
// from a YAML file or from the built-in campus layout.
package seed

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/repository"
)

// Registry is the on-disk seed document
type Registry struct {
	Assets       []AssetYAML       `yaml:"assets"`
	Technicians  []TechnicianYAML  `yaml:"technicians"`
	Tools        []ToolYAML        `yaml:"tools"`
	Refrigerants []RefrigerantYAML `yaml:"refrigerants"`
	// ZoneOwners overrides the configured default owners, keyed by zone label
	ZoneOwners map[string]string `yaml:"zone_owners,omitempty"`
}

type AssetYAML struct {
	ID              int     `yaml:"id"`
	Campus          string  `yaml:"campus"`
	Floor           string  `yaml:"floor"`
	Room            string  `yaml:"room"`
	Type            string  `yaml:"type"`
	Capacity        string  `yaml:"capacity"`
	Status          string  `yaml:"status,omitempty"`
	ComplaintCount  int     `yaml:"complaint_count,omitempty"`
	Health          float64 `yaml:"health,omitempty"`
	IssuesThisMonth int     `yaml:"issues_this_month,omitempty"`
}

type TechnicianYAML struct {
	Name       string   `yaml:"name"`
	Points     int      `yaml:"points"`
	Demerits   int      `yaml:"demerits"`
	Attendance bool     `yaml:"attendance"`
	Tasks      []string `yaml:"tasks,omitempty"`
}

type ToolYAML struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

type RefrigerantYAML struct {
	Name string  `yaml:"name"`
	Type string  `yaml:"type"`
	Kg   float64 `yaml:"kg"`
}

// Load reads a seed document from path
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a seed document, rejecting unknown fields
func Parse(raw []byte) (*Registry, error) {
	var r Registry
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(r.Assets) == 0 {
		return nil, fmt.Errorf("seed file has no assets")
	}
	if len(r.Technicians) == 0 {
		return nil, fmt.Errorf("seed file has no technicians")
	}
	return &r, nil
}

// StoreSeed converts the document into store input. owners supplies the zone
// owners the document does not name.
func (r *Registry) StoreSeed(owners map[string]string) (repository.StoreSeed, error) {
	s := repository.StoreSeed{
		Assets:       make([]domain.Asset, len(r.Assets)),
		Technicians:  make([]domain.Technician, len(r.Technicians)),
		Tools:        make([]domain.Tool, len(r.Tools)),
		Refrigerants: make([]domain.Refrigerant, len(r.Refrigerants)),
		ZoneOwners:   make(map[domain.Zone]string, len(domain.Zones)),
	}

	for i, a := range r.Assets {
		status := domain.AssetStatus(a.Status)
		if a.Status == "" {
			status = domain.AssetStatusActive
		}
		health := a.Health
		if health == 0 {
			health = domain.MaxHealth
		}
		s.Assets[i] = domain.Asset{
			ID:              a.ID,
			Campus:          a.Campus,
			Floor:           a.Floor,
			Room:            a.Room,
			Type:            a.Type,
			Capacity:        a.Capacity,
			Status:          status,
			ComplaintCount:  a.ComplaintCount,
			Health:          health,
			IssuesThisMonth: a.IssuesThisMonth,
		}
	}
	for i, t := range r.Technicians {
		s.Technicians[i] = domain.Technician{
			Name:       t.Name,
			Points:     t.Points,
			Demerits:   t.Demerits,
			Attendance: t.Attendance,
			Tasks:      append([]string(nil), t.Tasks...),
		}
	}
	for i, t := range r.Tools {
		s.Tools[i] = domain.Tool{Name: t.Name, Quantity: t.Quantity}
	}
	for i, ref := range r.Refrigerants {
		s.Refrigerants[i] = domain.Refrigerant{Name: ref.Name, Type: domain.RefrigerantType(ref.Type), Kg: ref.Kg}
	}

	for _, src := range []map[string]string{owners, r.ZoneOwners} {
		for label, owner := range src {
			zone, err := domain.ParseZone(label)
			if err != nil {
				return repository.StoreSeed{}, fmt.Errorf("zone owner %q: %w", label, err)
			}
			if owner != "" {
				s.ZoneOwners[zone] = owner
			}
		}
	}
	return s, nil
}
