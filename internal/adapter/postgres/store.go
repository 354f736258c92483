package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

type backend struct {
	pool *pgxpool.Pool
}

func (b backend) Name() string { return "postgres" }

func (b backend) Ping(ctx context.Context) error { return b.pool.Ping(ctx) }

func (b backend) Close() error {
	b.pool.Close()
	return nil
}

// NewStore returns a Store whose collections are PostgreSQL tables.
func NewStore(pool *pgxpool.Pool) *storage.Store {
	s := newStore(pool)
	s.Backend = backend{pool: pool}
	return s
}

func newStore(db DB) *storage.Store {
	tx := NewTxManager(db)

	return &storage.Store{
		Users: NewCollection[domain.User](db, tx),

		Incidents:     NewCollection[domain.Incident](db, tx),
		Units:         NewCollection[domain.Unit](db, tx),
		IncidentUnits: NewCollection[domain.IncidentUnit](db, tx),
		CallLogs:      NewCollection[domain.CallEntryLog](db, tx),

		Animals:            NewCollection[domain.Animal](db, tx),
		EnforcementReports: NewCollection[domain.EnforcementReport](db, tx),

		Customers: NewCollection[domain.Customer](db, tx),
		Documents: NewCollection[domain.Document](db, tx),

		Invoices:        NewCollection[domain.Invoice](db, tx),
		Payments:        NewCollection[domain.Payment](db, tx),
		PosTransactions: NewCollection[domain.PosTransaction](db, tx),

		RiskLocations:   NewCollection[domain.RiskLocation](db, tx),
		RiskAssessments: NewCollection[domain.RiskAssessment](db, tx),
		MitigationPlans: NewCollection[domain.MitigationPlan](db, tx),
		RiskEvents:      NewCollection[domain.RiskEvent](db, tx),

		AuditSchedules:      NewCollection[domain.AuditSchedule](db, tx),
		AuditTemplates:      NewCollection[domain.AuditTemplate](db, tx),
		AuditReports:        NewCollection[domain.AuditReport](db, tx),
		AuditNonCompliances: NewCollection[domain.AuditNonCompliance](db, tx),
		AuditEvidence:       NewCollection[domain.AuditEvidence](db, tx),

		Characters:           NewCollection[domain.Character](db, tx),
		Licenses:             NewCollection[domain.License](db, tx),
		VehicleRegistrations: NewCollection[domain.VehicleRegistration](db, tx),
	}
}
