package domain

import "errors"

// Domain errors
var (
	// Dispatch errors
	ErrInvalidAsset       = errors.New("asset does not exist")
	ErrInvalidIssue       = errors.New("issue text is required")
	ErrInvalidSeverity    = errors.New("severity must be Minor or Major")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrAlreadyResolved    = errors.New("ticket already resolved")
	ErrAdvisorUnavailable = errors.New("assignment advisor unavailable")

	// Registry errors
	ErrAssetNotFound = errors.New("asset not found")

	// Roster errors
	ErrTechnicianNotFound    = errors.New("technician not found")
	ErrInvalidTechnicianName = errors.New("technician name is required")
	ErrInvalidDelta          = errors.New("score delta must not be negative")
	ErrUnknownDemeritReason  = errors.New("unknown demerit reason")
	ErrTaskNotFound          = errors.New("task not found")
	ErrInvalidTask           = errors.New("task description is required")
	ErrTechnicianAbsent      = errors.New("technician is not attending")

	// Zone errors
	ErrInvalidZone      = errors.New("zone must be one of A, B, C, D")
	ErrAssetNotInZone   = errors.New("asset is not in zone")
	ErrInvalidChecklist = errors.New("checklist type must be Daily, Monthly or Quarterly")

	// Inventory errors
	ErrToolNotFound        = errors.New("tool not found")
	ErrRefrigerantNotFound = errors.New("refrigerant not found")
	ErrInvalidQuantity     = errors.New("quantity must not be negative")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrTechnicianNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrToolNotFound) ||
		errors.Is(err, ErrRefrigerantNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAsset) ||
		errors.Is(err, ErrInvalidIssue) ||
		errors.Is(err, ErrInvalidSeverity) ||
		errors.Is(err, ErrInvalidTechnicianName) ||
		errors.Is(err, ErrInvalidDelta) ||
		errors.Is(err, ErrUnknownDemeritReason) ||
		errors.Is(err, ErrInvalidTask) ||
		errors.Is(err, ErrInvalidZone) ||
		errors.Is(err, ErrAssetNotInZone) ||
		errors.Is(err, ErrInvalidChecklist) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyResolved) ||
		errors.Is(err, ErrTechnicianAbsent)
}
