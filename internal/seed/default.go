package seed

import "fmt"

var (
	campuses = []string{"Main Campus", "North Campus", "South Campus"}
	floors   = []string{"Ground", "1st", "2nd", "3rd", "Roof"}
)

// Default is the built-in registry: count split units laid out round-robin
// over campuses and floors, every tenth one under maintenance, plus the
// standing roster, tool kit and refrigerant stock.
func Default(count int) *Registry {
	r := &Registry{
		Assets: make([]AssetYAML, count),
		Technicians: []TechnicianYAML{
			{Name: "Bilal", Points: 150, Attendance: true, Tasks: []string{"Routine Filter Cleaning - 3rd Floor", "Check Gas Pressure - Server Room"}},
			{Name: "Asad", Points: 120, Demerits: 25, Attendance: true, Tasks: []string{"Capacitor Replacement - Ground Floor"}},
			{Name: "Taimoor", Points: 180, Attendance: true, Tasks: []string{"Thermostat Calibration - Admin Block"}},
			{Name: "Saboor", Points: 90, Demerits: 50, Attendance: false, Tasks: []string{"Outdoor Unit Descaling - Library"}},
		},
		Tools: []ToolYAML{
			{Name: "Adjustable Wrench", Quantity: 4},
			{Name: "Pliers Set", Quantity: 2},
			{Name: "Screwdriver Plus & Minus", Quantity: 2},
			{Name: "Amp Meter", Quantity: 2},
			{Name: "High Pressure Gauge", Quantity: 2},
			{Name: "Charging Line", Quantity: 6},
			{Name: "Flaring Tool", Quantity: 2},
			{Name: "Allen Key Set", Quantity: 2},
			{Name: "Swaging Tool", Quantity: 1},
			{Name: "File", Quantity: 2},
			{Name: "Tube Bender", Quantity: 1},
			{Name: "Tool Bag", Quantity: 2},
		},
		Refrigerants: []RefrigerantYAML{
			{Name: "R22", Type: "AC", Kg: 40},
			{Name: "R410", Type: "AC", Kg: 40},
			{Name: "R32", Type: "AC", Kg: 40},
			{Name: "R600", Type: "Fridge", Kg: 40},
			{Name: "R134", Type: "Fridge", Kg: 40},
		},
	}

	for i := range r.Assets {
		status := "Active"
		if i%10 == 0 {
			status = "Maintenance"
		}
		capacity := "2.0 Ton"
		if i%2 == 0 {
			capacity = "1.5 Ton"
		}
		r.Assets[i] = AssetYAML{
			ID:       i + 1,
			Campus:   campuses[i%len(campuses)],
			Floor:    floors[i%len(floors)],
			Room:     fmt.Sprintf("Room %d", 100+i),
			Type:     "Split AC",
			Capacity: capacity,
			Status:   status,
			Health:   100,
		}
	}
	return r
}
