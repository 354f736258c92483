package domain

// AccessLevel is the single authorization attribute of a staff account.
// Route guards compare it by exact membership; there is no hierarchy.
type AccessLevel string

const (
	AccessAdmin      AccessLevel = "admin"
	AccessDispatcher AccessLevel = "dispatcher"
	AccessOfficer    AccessLevel = "officer"
	AccessClerk      AccessLevel = "clerk"
	AccessFinance    AccessLevel = "finance"
	AccessRisk       AccessLevel = "risk"
	AccessAuditor    AccessLevel = "auditor"
)

func (a AccessLevel) String() string { return string(a) }

func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessAdmin, AccessDispatcher, AccessOfficer, AccessClerk,
		AccessFinance, AccessRisk, AccessAuditor:
		return true
	}
	return false
}

// IncidentStatus tracks an incident through dispatch.
type IncidentStatus string

const (
	IncidentPending    IncidentStatus = "pending"
	IncidentDispatched IncidentStatus = "dispatched"
	IncidentEnRoute    IncidentStatus = "en_route"
	IncidentOnScene    IncidentStatus = "on_scene"
	IncidentResolved   IncidentStatus = "resolved"
	IncidentClosed     IncidentStatus = "closed"
)

func (s IncidentStatus) String() string { return string(s) }

func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentPending, IncidentDispatched, IncidentEnRoute,
		IncidentOnScene, IncidentResolved, IncidentClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the incident no longer holds units.
func (s IncidentStatus) IsTerminal() bool {
	return s == IncidentResolved || s == IncidentClosed
}

// UnitStatus is the availability of a response unit.
type UnitStatus string

const (
	UnitAvailable    UnitStatus = "available"
	UnitDispatched   UnitStatus = "dispatched"
	UnitEnRoute      UnitStatus = "en_route"
	UnitOnScene      UnitStatus = "on_scene"
	UnitOutOfService UnitStatus = "out_of_service"
)

func (s UnitStatus) String() string { return string(s) }

func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitAvailable, UnitDispatched, UnitEnRoute, UnitOnScene, UnitOutOfService:
		return true
	}
	return false
}

// DocumentStatus is the notarization state of a document.
type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentNotarized DocumentStatus = "notarized"
	DocumentRevoked   DocumentStatus = "revoked"
)

func (s DocumentStatus) String() string { return string(s) }

func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentDraft, DocumentNotarized, DocumentRevoked:
		return true
	}
	return false
}

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceIssued  InvoiceStatus = "issued"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoid    InvoiceStatus = "void"
)

func (s InvoiceStatus) String() string { return string(s) }

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceOverdue, InvoiceVoid:
		return true
	}
	return false
}

// IsPayable reports whether a payment may still be recorded against the invoice.
func (s InvoiceStatus) IsPayable() bool {
	return s == InvoiceDraft || s == InvoiceIssued || s == InvoiceOverdue
}

// RiskLevel buckets an assessment score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (l RiskLevel) String() string { return string(l) }

func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// RiskLevelForScore maps a likelihood x impact score (1..25) to a level.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score <= 4:
		return RiskLow
	case score <= 9:
		return RiskMedium
	case score <= 15:
		return RiskHigh
	default:
		return RiskCritical
	}
}
