package dispatch

import "github.com/heartmarshall/beavernet-backend/internal/domain"

// AssignInput holds parameters for assigning a unit to an incident.
type AssignInput struct {
	UnitID int64  `json:"unitId" validate:"required,gt=0"`
	Notes  string `json:"notes"  validate:"max=1024"`
}

// StatusInput holds parameters for an incident status change.
type StatusInput struct {
	Status domain.IncidentStatus `json:"status" validate:"required,oneof=pending dispatched en_route on_scene resolved closed"`
	Notes  string                `json:"notes"  validate:"max=1024"`
}

// Validate validates the status input.
func (i StatusInput) Validate() error {
	if !i.Status.IsValid() {
		return domain.NewValidationError("status", "invalid incident status")
	}
	return nil
}

// Validate validates the assign input.
func (i AssignInput) Validate() error {
	if i.UnitID <= 0 {
		return domain.NewValidationError("unitId", "required")
	}
	return nil
}
