package domain

import (
	"fmt"
	"time"
)

// Incident is an emergency call being worked by dispatch.
type Incident struct {
	Base
	IncidentNumber string         `json:"incidentNumber" db:"incident_number"`
	Type           string         `json:"type"           db:"type"         validate:"required,oneof=fire medical police hazmat animal traffic other"`
	Priority       string         `json:"priority"       db:"priority"     validate:"omitempty,oneof=low medium high critical"`
	Status         IncidentStatus `json:"status"         db:"status"       validate:"omitempty,oneof=pending dispatched en_route on_scene resolved closed"`
	Location       string         `json:"location"       db:"location"     validate:"required,max=256"`
	Description    string         `json:"description"    db:"description"`
	CallerName     string         `json:"callerName"     db:"caller_name"`
	CallerPhone    string         `json:"callerPhone"    db:"caller_phone"`
	ResolvedAt     *time.Time     `json:"resolvedAt"     db:"resolved_at"`
}

func (Incident) Collection() string { return "incidents" }

func (i *Incident) Normalize() {
	defaultString(&i.Priority, "medium")
	if i.Status == "" {
		i.Status = IncidentPending
	}
}

func (i *Incident) BeforeInsert(now time.Time) {
	if i.IncidentNumber == "" {
		i.IncidentNumber = fmt.Sprintf("INC-%d-%05d", now.Year(), i.ID)
	}
}

// KeepDerived restores fields a client edit may not change.
func (i *Incident) KeepDerived(prev Incident) {
	i.IncidentNumber = prev.IncidentNumber
	i.ResolvedAt = prev.ResolvedAt
}

// Unit is a vehicle or crew that can be assigned to incidents.
type Unit struct {
	Base
	CallSign          string     `json:"callSign"          db:"call_sign"           validate:"required,max=32"`
	UnitType          string     `json:"unitType"          db:"unit_type"           validate:"required,oneof=engine ambulance patrol animal_control hazmat command"`
	Status            UnitStatus `json:"status"            db:"status"              validate:"omitempty,oneof=available dispatched en_route on_scene out_of_service"`
	Station           string     `json:"station"           db:"station"`
	CurrentIncidentID *int64     `json:"currentIncidentId" db:"current_incident_id"`
}

func (Unit) Collection() string { return "units" }

func (u *Unit) Normalize() {
	u.CallSign = NormalizeCode(u.CallSign)
	if u.Status == "" {
		u.Status = UnitAvailable
	}
}

// IncidentUnit records one unit's assignment to an incident.
// ReleasedAt is nil while the assignment is active.
type IncidentUnit struct {
	Base
	IncidentID int64      `json:"incidentId" db:"incident_id" validate:"required,gt=0"`
	UnitID     int64      `json:"unitId"     db:"unit_id"     validate:"required,gt=0"`
	AssignedAt time.Time  `json:"assignedAt" db:"assigned_at"`
	ReleasedAt *time.Time `json:"releasedAt" db:"released_at"`
	Notes      string     `json:"notes"      db:"notes"`
}

func (IncidentUnit) Collection() string { return "incident_units" }

func (a *IncidentUnit) BeforeInsert(now time.Time) { defaultTime(&a.AssignedAt, now) }

// IsActive reports whether the unit is still attached to the incident.
func (a IncidentUnit) IsActive() bool { return a.ReleasedAt == nil }

// CallEntryLog is a call-taker's note, optionally linked to an incident.
type CallEntryLog struct {
	Base
	IncidentID  *int64    `json:"incidentId"  db:"incident_id" validate:"omitempty,gt=0"`
	CallerName  string    `json:"callerName"  db:"caller_name"`
	CallerPhone string    `json:"callerPhone" db:"caller_phone"`
	Summary     string    `json:"summary"     db:"summary"     validate:"required"`
	Operator    string    `json:"operator"    db:"operator"`
	ReceivedAt  time.Time `json:"receivedAt"  db:"received_at"`
}

func (CallEntryLog) Collection() string { return "call_entry_logs" }

func (CallEntryLog) SortColumn() string { return "-received_at" }

func (c *CallEntryLog) BeforeInsert(now time.Time) { defaultTime(&c.ReceivedAt, now) }
