// Package storage defines the keyed-collection contract shared by every
// persistence backend, plus the record lifecycle helpers the backends use
// so that ids, timestamps and derived fields behave identically everywhere.
package storage

import (
	"context"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// Record constrains a pointer to an entity that embeds domain.Base.
type Record[T any] interface {
	*T
	Meta() *domain.Base
	Collection() string
}

// Collection is a generic store of one entity type.
//
// Get and Update return domain.ErrNotFound for unknown ids. Update applies
// fn to a copy of the stored record; if fn returns an error nothing is
// written. Records are never deleted.
type Collection[T any] interface {
	Create(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id int64, fn func(*T) error) (T, error)
	Find(ctx context.Context, filters ...Filter) ([]T, error)
}

// Backend is the lifecycle side of a store implementation.
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// Store groups one collection per entity. It is built by a backend package
// and injected into services and handlers.
type Store struct {
	Backend Backend

	Users Collection[domain.User]

	Incidents     Collection[domain.Incident]
	Units         Collection[domain.Unit]
	IncidentUnits Collection[domain.IncidentUnit]
	CallLogs      Collection[domain.CallEntryLog]

	Animals            Collection[domain.Animal]
	EnforcementReports Collection[domain.EnforcementReport]

	Customers Collection[domain.Customer]
	Documents Collection[domain.Document]

	Invoices        Collection[domain.Invoice]
	Payments        Collection[domain.Payment]
	PosTransactions Collection[domain.PosTransaction]

	RiskLocations   Collection[domain.RiskLocation]
	RiskAssessments Collection[domain.RiskAssessment]
	MitigationPlans Collection[domain.MitigationPlan]
	RiskEvents      Collection[domain.RiskEvent]

	AuditSchedules      Collection[domain.AuditSchedule]
	AuditTemplates      Collection[domain.AuditTemplate]
	AuditReports        Collection[domain.AuditReport]
	AuditNonCompliances Collection[domain.AuditNonCompliance]
	AuditEvidence       Collection[domain.AuditEvidence]

	Characters           Collection[domain.Character]
	Licenses             Collection[domain.License]
	VehicleRegistrations Collection[domain.VehicleRegistration]
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	if s.Backend == nil {
		return nil
	}
	return s.Backend.Ping(ctx)
}

// Close releases backend resources.
func (s *Store) Close() error {
	if s.Backend == nil {
		return nil
	}
	return s.Backend.Close()
}

// Collections lists every collection name a store holds, in table order.
// Backends that need per-collection setup iterate this list.
func Collections() []string {
	return []string{
		domain.User{}.Collection(),
		domain.Incident{}.Collection(),
		domain.Unit{}.Collection(),
		domain.IncidentUnit{}.Collection(),
		domain.CallEntryLog{}.Collection(),
		domain.Animal{}.Collection(),
		domain.EnforcementReport{}.Collection(),
		domain.Customer{}.Collection(),
		domain.Document{}.Collection(),
		domain.Invoice{}.Collection(),
		domain.Payment{}.Collection(),
		domain.PosTransaction{}.Collection(),
		domain.RiskLocation{}.Collection(),
		domain.RiskAssessment{}.Collection(),
		domain.MitigationPlan{}.Collection(),
		domain.RiskEvent{}.Collection(),
		domain.AuditSchedule{}.Collection(),
		domain.AuditTemplate{}.Collection(),
		domain.AuditReport{}.Collection(),
		domain.AuditNonCompliance{}.Collection(),
		domain.AuditEvidence{}.Collection(),
		domain.Character{}.Collection(),
		domain.License{}.Collection(),
		domain.VehicleRegistration{}.Collection(),
	}
}
