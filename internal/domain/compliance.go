package domain

import "time"

// AuditSchedule plans an audit of a department.
type AuditSchedule struct {
	Base
	Title        string    `json:"title"        db:"title"         validate:"required,max=256"`
	Department   string    `json:"department"   db:"department"`
	Auditor      string    `json:"auditor"      db:"auditor"`
	ScheduledFor time.Time `json:"scheduledFor" db:"scheduled_for" validate:"required"`
	Frequency    string    `json:"frequency"    db:"frequency"     validate:"omitempty,oneof=once monthly quarterly annually"`
	TemplateID   *int64    `json:"templateId"   db:"template_id"   validate:"omitempty,gt=0"`
	Status       string    `json:"status"       db:"status"        validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}

func (AuditSchedule) Collection() string { return "audit_schedules" }

func (AuditSchedule) SortColumn() string { return "scheduled_for" }

func (s *AuditSchedule) Normalize() {
	defaultString(&s.Frequency, "once")
	defaultString(&s.Status, "scheduled")
}

// AuditTemplate is a reusable checklist. Checklist holds one item per line.
type AuditTemplate struct {
	Base
	Name      string `json:"name"      db:"name"      validate:"required,max=256"`
	Category  string `json:"category"  db:"category"`
	Checklist string `json:"checklist" db:"checklist"`
	Version   int    `json:"version"   db:"version"   validate:"gte=0"`
}

func (AuditTemplate) Collection() string { return "audit_templates" }

func (t *AuditTemplate) Normalize() {
	if t.Version == 0 {
		t.Version = 1
	}
}

// AuditReport is the outcome of a performed audit.
type AuditReport struct {
	Base
	ScheduleID *int64 `json:"scheduleId" db:"schedule_id" validate:"omitempty,gt=0"`
	TemplateID *int64 `json:"templateId" db:"template_id" validate:"omitempty,gt=0"`
	Title      string `json:"title"      db:"title"       validate:"required,max=256"`
	Auditor    string `json:"auditor"    db:"auditor"`
	Findings   string `json:"findings"   db:"findings"`
	Score      int    `json:"score"      db:"score"       validate:"gte=0,lte=100"`
	Outcome    string `json:"outcome"    db:"outcome"     validate:"omitempty,oneof=compliant partially_compliant non_compliant"`
	Status     string `json:"status"     db:"status"      validate:"omitempty,oneof=draft submitted approved"`
}

func (AuditReport) Collection() string { return "audit_reports" }

func (r *AuditReport) Normalize() { defaultString(&r.Status, "draft") }

// AuditNonCompliance is a finding that requires corrective action.
type AuditNonCompliance struct {
	Base
	ReportID         int64      `json:"reportId"         db:"report_id"         validate:"required,gt=0"`
	Requirement      string     `json:"requirement"      db:"requirement"       validate:"required"`
	Description      string     `json:"description"      db:"description"`
	Severity         string     `json:"severity"         db:"severity"          validate:"omitempty,oneof=minor major critical"`
	CorrectiveAction string     `json:"correctiveAction" db:"corrective_action"`
	DueDate          *time.Time `json:"dueDate"          db:"due_date"`
	Status           string     `json:"status"           db:"status"            validate:"omitempty,oneof=open in_progress resolved"`
}

func (AuditNonCompliance) Collection() string { return "audit_non_compliances" }

func (n *AuditNonCompliance) Normalize() {
	defaultString(&n.Severity, "minor")
	defaultString(&n.Status, "open")
}

// AuditEvidence backs a report or a specific non-compliance.
type AuditEvidence struct {
	Base
	ReportID        int64     `json:"reportId"        db:"report_id"         validate:"required,gt=0"`
	NonComplianceID *int64    `json:"nonComplianceId" db:"non_compliance_id" validate:"omitempty,gt=0"`
	Title           string    `json:"title"           db:"title"             validate:"required,max=256"`
	EvidenceType    string    `json:"evidenceType"    db:"evidence_type"     validate:"omitempty,oneof=document photo interview observation"`
	Reference       string    `json:"reference"       db:"reference"`
	CollectedBy     string    `json:"collectedBy"     db:"collected_by"`
	CollectedAt     time.Time `json:"collectedAt"     db:"collected_at"`
}

func (AuditEvidence) Collection() string { return "audit_evidence" }

func (e *AuditEvidence) Normalize() { defaultString(&e.EvidenceType, "document") }

func (e *AuditEvidence) BeforeInsert(now time.Time) { defaultTime(&e.CollectedAt, now) }
