package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// Options configures the Badger store.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger receives Badger's internal messages. If nil, they are dropped.
	Logger *slog.Logger
}

type releaser interface {
	release() error
}

type backend struct {
	db          *badger.DB
	collections []releaser
	err         error
}

func (b *backend) Name() string { return "badger" }

func (b *backend) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return nil
}

func (b *backend) Close() error {
	var errs []error
	for _, c := range b.collections {
		errs = append(errs, c.release())
	}
	errs = append(errs, b.db.Close())
	return errors.Join(errs...)
}

// Open opens (or creates) a Badger database and returns a Store over it.
func Open(opts Options) (*storage.Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(newLogger(opts.Logger))
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore returns a Store whose collections live in db. Closing the
// store releases the id sequences and closes db.
func NewStore(db *badger.DB) (*storage.Store, error) {
	b := &backend{db: db}

	s := &storage.Store{
		Backend: b,

		Users: register[domain.User](b),

		Incidents:     register[domain.Incident](b),
		Units:         register[domain.Unit](b),
		IncidentUnits: register[domain.IncidentUnit](b),
		CallLogs:      register[domain.CallEntryLog](b),

		Animals:            register[domain.Animal](b),
		EnforcementReports: register[domain.EnforcementReport](b),

		Customers: register[domain.Customer](b),
		Documents: register[domain.Document](b),

		Invoices:        register[domain.Invoice](b),
		Payments:        register[domain.Payment](b),
		PosTransactions: register[domain.PosTransaction](b),

		RiskLocations:   register[domain.RiskLocation](b),
		RiskAssessments: register[domain.RiskAssessment](b),
		MitigationPlans: register[domain.MitigationPlan](b),
		RiskEvents:      register[domain.RiskEvent](b),

		AuditSchedules:      register[domain.AuditSchedule](b),
		AuditTemplates:      register[domain.AuditTemplate](b),
		AuditReports:        register[domain.AuditReport](b),
		AuditNonCompliances: register[domain.AuditNonCompliance](b),
		AuditEvidence:       register[domain.AuditEvidence](b),

		Characters:           register[domain.Character](b),
		Licenses:             register[domain.License](b),
		VehicleRegistrations: register[domain.VehicleRegistration](b),
	}

	if b.err != nil {
		for _, c := range b.collections {
			_ = c.release()
		}
		return nil, b.err
	}
	return s, nil
}

// register opens a collection on b. After the first failure it returns
// nil and NewStore reports b.err.
func register[T any, P storage.Record[T]](b *backend) storage.Collection[T] {
	if b.err != nil {
		return nil
	}
	c, err := NewCollection[T, P](b.db)
	if err != nil {
		b.err = err
		return nil
	}
	b.collections = append(b.collections, c)
	return c
}
