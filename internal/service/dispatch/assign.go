package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// Assign attaches a unit to an incident. The unit becomes dispatched to
// the incident and a pending incident becomes dispatched. Closed or
// resolved incidents and units that are not available are rejected with
// domain.ErrConflict.
func (s *Service) Assign(ctx context.Context, incidentID int64, in AssignInput) (domain.IncidentUnit, error) {
	if err := in.Validate(); err != nil {
		return domain.IncidentUnit{}, err
	}

	incident, err := s.incidents.Get(ctx, incidentID)
	if err != nil {
		return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: %w", err)
	}
	if incident.Status.IsTerminal() {
		return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: incident %s is %s: %w",
			incident.IncidentNumber, incident.Status, domain.ErrConflict)
	}

	unit, err := s.units.Get(ctx, in.UnitID)
	if err != nil {
		return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: %w", err)
	}
	if unit.Status != domain.UnitAvailable {
		return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: unit %s is %s: %w",
			unit.CallSign, unit.Status, domain.ErrConflict)
	}

	assignment, err := s.assignments.Create(ctx, domain.IncidentUnit{
		IncidentID: incident.ID,
		UnitID:     unit.ID,
		AssignedAt: s.now(),
		Notes:      in.Notes,
	})
	if err != nil {
		return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: %w", err)
	}

	_, err = s.units.Update(ctx, unit.ID, func(u *domain.Unit) error {
		u.Status = domain.UnitDispatched
		id := incident.ID
		u.CurrentIncidentID = &id
		return nil
	})
	if err != nil {
		return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: update unit: %w", err)
	}

	if incident.Status == domain.IncidentPending {
		_, err = s.incidents.Update(ctx, incident.ID, func(i *domain.Incident) error {
			if i.Status == domain.IncidentPending {
				i.Status = domain.IncidentDispatched
			}
			return nil
		})
		if err != nil {
			return domain.IncidentUnit{}, fmt.Errorf("dispatch.Assign: update incident: %w", err)
		}
	}

	s.log.InfoContext(ctx, "unit assigned",
		slog.Int64("incident_id", incident.ID),
		slog.Int64("unit_id", unit.ID),
		slog.String("call_sign", unit.CallSign),
	)

	return assignment, nil
}

// Assignments returns every assignment of an incident, active or released.
func (s *Service) Assignments(ctx context.Context, incidentID int64) ([]domain.IncidentUnit, error) {
	if _, err := s.incidents.Get(ctx, incidentID); err != nil {
		return nil, fmt.Errorf("dispatch.Assignments: %w", err)
	}

	out, err := s.assignments.Find(ctx, storage.Eq("incident_id", incidentID))
	if err != nil {
		return nil, fmt.Errorf("dispatch.Assignments: %w", err)
	}
	return out, nil
}
