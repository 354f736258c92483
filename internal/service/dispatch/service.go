// Package dispatch assigns response units to incidents and moves incidents
// through their status lifecycle.
package dispatch

import (
	"log/slog"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// Service implements dispatch workflows.
type Service struct {
	log         *slog.Logger
	incidents   storage.Collection[domain.Incident]
	units       storage.Collection[domain.Unit]
	assignments storage.Collection[domain.IncidentUnit]
	callLogs    storage.Collection[domain.CallEntryLog]
	now         func() time.Time
}

// NewService creates a new dispatch service instance.
func NewService(logger *slog.Logger, store *storage.Store) *Service {
	return &Service{
		log:         logger.With("service", "dispatch"),
		incidents:   store.Incidents,
		units:       store.Units,
		assignments: store.IncidentUnits,
		callLogs:    store.CallLogs,
		now:         storage.Now,
	}
}
