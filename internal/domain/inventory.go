package domain

// Tool is a countable item in the technicians' kit
type Tool struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// RefrigerantType is the equipment class a gas is stocked for
type RefrigerantType string

const (
	RefrigerantAC     RefrigerantType = "AC"
	RefrigerantFridge RefrigerantType = "Fridge"
)

// Refrigerant is a gas stock in kilograms
type Refrigerant struct {
	Name string          `json:"name"`
	Type RefrigerantType `json:"type"`
	Kg   float64         `json:"kg"`
}
