package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/repository"
)

var owners = map[string]string{"A": "Bilal", "B": "Asad", "C": "Taimoor", "D": "Saboor"}

func TestDefault(t *testing.T) {
	r := Default(163)
	require.Len(t, r.Assets, 163)
	assert.Equal(t, 1, r.Assets[0].ID)
	assert.Equal(t, "Maintenance", r.Assets[0].Status)
	assert.Equal(t, "Active", r.Assets[1].Status)
	assert.Equal(t, "North Campus", r.Assets[1].Campus)
	assert.Equal(t, "Room 262", r.Assets[162].Room)

	// deterministic across calls
	assert.Equal(t, r, Default(163))

	s, err := r.StoreSeed(owners)
	require.NoError(t, err)
	store, err := repository.NewMemoryStore(s)
	require.NoError(t, err)

	techs, err := store.ListTechnicians(t.Context())
	require.NoError(t, err)
	require.Len(t, techs, 4)
	assert.False(t, techs[3].Attendance)

	assets, err := store.ListAssets(t.Context())
	require.NoError(t, err)
	partition := domain.PartitionZones(assets)
	sizes := make([]int, 0, len(domain.Zones))
	for _, z := range domain.Zones {
		sizes = append(sizes, len(partition[z]))
	}
	assert.Equal(t, []int{41, 41, 41, 40}, sizes)
}

func TestLoad(t *testing.T) {
	doc := `
assets:
  - id: 2
    campus: Main Campus
    floor: Ground
    room: Room 1
    type: Split AC
    capacity: 1.5 Ton
  - id: 1
    campus: Main Campus
    floor: Roof
    room: Room 2
    type: Cassette
    capacity: 2.0 Ton
    status: Spare
technicians:
  - name: Bilal
    points: 10
    attendance: true
tools:
  - name: Amp Meter
    quantity: 1
refrigerants:
  - name: R32
    type: AC
    kg: 3.5
zone_owners:
  D: Bilal
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	r, err := Load(path)
	require.NoError(t, err)

	s, err := r.StoreSeed(owners)
	require.NoError(t, err)
	assert.Equal(t, "Bilal", s.ZoneOwners[domain.ZoneD])
	assert.Equal(t, "Asad", s.ZoneOwners[domain.ZoneB])
	assert.Equal(t, domain.AssetStatusActive, s.Assets[0].Status)
	assert.Equal(t, domain.MaxHealth, s.Assets[0].Health)
	assert.Equal(t, domain.AssetStatusSpare, s.Assets[1].Status)
	assert.Equal(t, domain.RefrigerantAC, s.Refrigerants[0].Type)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "assets: []\nbogus: 1\n"},
		{"no assets", "technicians:\n  - name: Bilal\n"},
		{"no technicians", "assets:\n  - id: 1\n"},
		{"malformed", "assets: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStoreSeed_BadZoneLabel(t *testing.T) {
	r := Default(4)
	r.ZoneOwners = map[string]string{"Z": "Bilal"}
	_, err := r.StoreSeed(owners)
	assert.ErrorIs(t, err, domain.ErrInvalidZone)
}
