package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
	"github.com/heartmarshall/beavernet-backend/pkg/ctxutil"
)

// ChangeStatus sets the incident status. Moving to resolved or closed
// stamps resolvedAt and releases every active assignment, returning the
// units to available. The release steps are not atomic: a failure leaves
// the assignments already released as they are.
func (s *Service) ChangeStatus(ctx context.Context, incidentID int64, in StatusInput) (domain.Incident, error) {
	if err := in.Validate(); err != nil {
		return domain.Incident{}, err
	}

	now := s.now()
	incident, err := s.incidents.Update(ctx, incidentID, func(i *domain.Incident) error {
		i.Status = in.Status
		if in.Status.IsTerminal() && i.ResolvedAt == nil {
			resolved := now
			i.ResolvedAt = &resolved
		}
		return nil
	})
	if err != nil {
		return domain.Incident{}, fmt.Errorf("dispatch.ChangeStatus: %w", err)
	}

	if in.Notes != "" {
		id := incident.ID
		_, err := s.callLogs.Create(ctx, domain.CallEntryLog{
			IncidentID: &id,
			Summary:    fmt.Sprintf("status changed to %s: %s", in.Status, in.Notes),
			Operator:   ctxutil.UsernameFromCtx(ctx),
			ReceivedAt: now,
		})
		if err != nil {
			return domain.Incident{}, fmt.Errorf("dispatch.ChangeStatus: log notes: %w", err)
		}
	}

	if in.Status.IsTerminal() {
		released, err := s.releaseUnits(ctx, incident.ID)
		if err != nil {
			return domain.Incident{}, fmt.Errorf("dispatch.ChangeStatus: %w", err)
		}
		s.log.InfoContext(ctx, "incident closed out",
			slog.Int64("incident_id", incident.ID),
			slog.String("status", in.Status.String()),
			slog.Int("units_released", released),
		)
	}

	return incident, nil
}

func (s *Service) releaseUnits(ctx context.Context, incidentID int64) (int, error) {
	assignments, err := s.assignments.Find(ctx, storage.Eq("incident_id", incidentID))
	if err != nil {
		return 0, fmt.Errorf("find assignments: %w", err)
	}

	released := 0
	for _, a := range assignments {
		if !a.IsActive() {
			continue
		}

		now := s.now()
		_, err := s.assignments.Update(ctx, a.ID, func(iu *domain.IncidentUnit) error {
			iu.ReleasedAt = &now
			return nil
		})
		if err != nil {
			return released, fmt.Errorf("release assignment %d: %w", a.ID, err)
		}

		// A unit already moved to another incident stays with it.
		_, err = s.units.Update(ctx, a.UnitID, func(u *domain.Unit) error {
			if u.CurrentIncidentID == nil || *u.CurrentIncidentID != incidentID {
				return nil
			}
			u.Status = domain.UnitAvailable
			u.CurrentIncidentID = nil
			return nil
		})
		if err != nil {
			return released, fmt.Errorf("release unit %d: %w", a.UnitID, err)
		}
		released++
	}
	return released, nil
}
