package memory

import (
	"context"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

type backend struct{}

func (backend) Name() string               { return "memory" }
func (backend) Ping(context.Context) error { return nil }
func (backend) Close() error               { return nil }

// NewStore returns a Store whose collections live in process memory.
func NewStore() *storage.Store {
	return &storage.Store{
		Backend: backend{},

		Users: NewCollection[domain.User](),

		Incidents:     NewCollection[domain.Incident](),
		Units:         NewCollection[domain.Unit](),
		IncidentUnits: NewCollection[domain.IncidentUnit](),
		CallLogs:      NewCollection[domain.CallEntryLog](),

		Animals:            NewCollection[domain.Animal](),
		EnforcementReports: NewCollection[domain.EnforcementReport](),

		Customers: NewCollection[domain.Customer](),
		Documents: NewCollection[domain.Document](),

		Invoices:        NewCollection[domain.Invoice](),
		Payments:        NewCollection[domain.Payment](),
		PosTransactions: NewCollection[domain.PosTransaction](),

		RiskLocations:   NewCollection[domain.RiskLocation](),
		RiskAssessments: NewCollection[domain.RiskAssessment](),
		MitigationPlans: NewCollection[domain.MitigationPlan](),
		RiskEvents:      NewCollection[domain.RiskEvent](),

		AuditSchedules:      NewCollection[domain.AuditSchedule](),
		AuditTemplates:      NewCollection[domain.AuditTemplate](),
		AuditReports:        NewCollection[domain.AuditReport](),
		AuditNonCompliances: NewCollection[domain.AuditNonCompliance](),
		AuditEvidence:       NewCollection[domain.AuditEvidence](),

		Characters:           NewCollection[domain.Character](),
		Licenses:             NewCollection[domain.License](),
		VehicleRegistrations: NewCollection[domain.VehicleRegistration](),
	}
}
