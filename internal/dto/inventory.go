package dto

// UpdateToolRequest sets the quantity of a tool
type UpdateToolRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateRefrigerantRequest sets the stock of a refrigerant in kg
type UpdateRefrigerantRequest struct {
	Kg *float64 `json:"kg" binding:"required"`
}

// DiagnosticRequest asks for a diagnostic checklist
type DiagnosticRequest struct {
	Issue string `json:"issue" binding:"required,max=2000"`
}

// DiagnosticResponse carries display text only
type DiagnosticResponse struct {
	Issue      string `json:"issue"`
	Diagnostic string `json:"diagnostic"`
}
