package domain

import (
	"strings"
	"time"
)

// RiskLocation is a site whose hazards are assessed.
type RiskLocation struct {
	Base
	Name      string  `json:"name"      db:"name"      validate:"required,max=256"`
	Address   string  `json:"address"   db:"address"`
	Latitude  float64 `json:"latitude"  db:"latitude"  validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" db:"longitude" validate:"gte=-180,lte=180"`
	Category  string  `json:"category"  db:"category"  validate:"omitempty,oneof=other facility road park waterway building"`
	Notes     string  `json:"notes"     db:"notes"`
}

func (RiskLocation) Collection() string { return "risk_locations" }

func (RiskLocation) SortColumn() string { return "name" }

func (l *RiskLocation) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	defaultString(&l.Category, "other")
}

// RiskAssessment scores one hazard at a location. Score and RiskLevel are
// derived from Likelihood and Impact on every write.
type RiskAssessment struct {
	Base
	LocationID int64     `json:"locationId" db:"location_id" validate:"required,gt=0"`
	Title      string    `json:"title"      db:"title"       validate:"required,max=256"`
	Hazard     string    `json:"hazard"     db:"hazard"`
	Likelihood int       `json:"likelihood" db:"likelihood"  validate:"required,min=1,max=5"`
	Impact     int       `json:"impact"     db:"impact"      validate:"required,min=1,max=5"`
	Score      int       `json:"score"      db:"score"`
	RiskLevel  RiskLevel `json:"riskLevel"  db:"risk_level"`
	Assessor   string    `json:"assessor"   db:"assessor"`
	Status     string    `json:"status"     db:"status"      validate:"omitempty,oneof=draft active closed"`
}

func (RiskAssessment) Collection() string { return "risk_assessments" }

func (a *RiskAssessment) Normalize() {
	a.Score = a.Likelihood * a.Impact
	a.RiskLevel = RiskLevelForScore(a.Score)
	defaultString(&a.Status, "draft")
}

// MitigationPlan is a planned action that lowers an assessed risk.
type MitigationPlan struct {
	Base
	AssessmentID int64      `json:"assessmentId" db:"assessment_id" validate:"required,gt=0"`
	Title        string     `json:"title"        db:"title"         validate:"required,max=256"`
	Description  string     `json:"description"  db:"description"`
	Owner        string     `json:"owner"        db:"owner"`
	DueDate      *time.Time `json:"dueDate"      db:"due_date"`
	Cost         float64    `json:"cost"         db:"cost"          validate:"gte=0"`
	Status       string     `json:"status"       db:"status"        validate:"omitempty,oneof=planned in_progress completed cancelled"`
}

func (MitigationPlan) Collection() string { return "mitigation_plans" }

func (p *MitigationPlan) Normalize() { defaultString(&p.Status, "planned") }

// RiskEvent is something that actually happened at a location.
type RiskEvent struct {
	Base
	LocationID   *int64    `json:"locationId"   db:"location_id"   validate:"omitempty,gt=0"`
	AssessmentID *int64    `json:"assessmentId" db:"assessment_id" validate:"omitempty,gt=0"`
	Title        string    `json:"title"        db:"title"         validate:"required,max=256"`
	Description  string    `json:"description"  db:"description"`
	Severity     string    `json:"severity"     db:"severity"      validate:"omitempty,oneof=low medium high critical"`
	OccurredAt   time.Time `json:"occurredAt"   db:"occurred_at"   validate:"required"`
	ReportedBy   string    `json:"reportedBy"   db:"reported_by"`
}

func (RiskEvent) Collection() string { return "risk_events" }

func (RiskEvent) SortColumn() string { return "-occurred_at" }

func (e *RiskEvent) Normalize() { defaultString(&e.Severity, "low") }
