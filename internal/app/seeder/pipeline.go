package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// allPhases defines the canonical execution order.
var allPhases = []string{"users", "units", "audit_templates"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline loads fixtures into a store, one phase per record kind.
// Records whose natural key already exists are skipped, so re-running
// the pipeline is safe.
type Pipeline struct {
	log       *slog.Logger
	users     UserCreator
	units     storage.Collection[domain.Unit]
	templates storage.Collection[domain.AuditTemplate]
	validate  *validator.Validate
	cfg       Config
	results   map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, users UserCreator, store *storage.Store, cfg Config) *Pipeline {
	return &Pipeline{
		log:       log.With("component", "seeder"),
		users:     users,
		units:     store.Units,
		templates: store.AuditTemplates,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		cfg:       cfg,
		results:   make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline over fx. If phases is non-empty, only the listed
// phases run, still in canonical order.
func (p *Pipeline) Run(ctx context.Context, fx *Fixtures, phases []string) error {
	toRun, err := selectPhases(phases)
	if err != nil {
		return err
	}

	for _, phase := range toRun {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "users":
			result = p.runUsers(ctx, fx.Users)
		case "units":
			result = p.runUnits(ctx, fx.Units)
		case "audit_templates":
			result = p.runTemplates(ctx, fx.AuditTemplates)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("skipped", result.Skipped),
				slog.Int("errors", result.Errors),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func selectPhases(phases []string) ([]string, error) {
	if len(phases) == 0 {
		return allPhases, nil
	}

	filter := make(map[string]bool, len(phases))
	for _, ph := range phases {
		filter[ph] = true
	}

	var selected []string
	for _, ph := range allPhases {
		if filter[ph] {
			selected = append(selected, ph)
			delete(filter, ph)
		}
	}
	for ph := range filter {
		return nil, fmt.Errorf("unknown phase %q", ph)
	}
	return selected, nil
}

func (p *Pipeline) runUsers(ctx context.Context, fixtures []UserFixture) PhaseResult {
	var result PhaseResult
	for i, f := range fixtures {
		u, err := f.toDomain()
		if err == nil {
			err = p.validate.Struct(u)
		}
		if err != nil {
			p.recordInvalid(&result, "users", i, err)
			continue
		}

		if p.cfg.DryRun {
			result.Skipped++
			continue
		}

		_, err = p.users.Create(ctx, u)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			result.Skipped++
		case err != nil:
			return PhaseResult{Inserted: result.Inserted, Err: fmt.Errorf("create user %q: %w", u.Username, err)}
		default:
			result.Inserted++
		}
	}
	return result
}

func (p *Pipeline) runUnits(ctx context.Context, fixtures []UnitFixture) PhaseResult {
	var result PhaseResult
	for i, f := range fixtures {
		u, err := f.toDomain()
		if err == nil {
			err = p.validate.Struct(u)
		}
		if err != nil {
			p.recordInvalid(&result, "units", i, err)
			continue
		}

		inserted, err := insertMissing(ctx, p.units, storage.Eq("call_sign", u.CallSign), u, p.cfg.DryRun)
		if err != nil {
			return PhaseResult{Inserted: result.Inserted, Err: fmt.Errorf("unit %q: %w", u.CallSign, err)}
		}
		tally(&result, inserted)
	}
	return result
}

func (p *Pipeline) runTemplates(ctx context.Context, fixtures []TemplateFixture) PhaseResult {
	var result PhaseResult
	for i, f := range fixtures {
		t, err := f.toDomain()
		if err == nil {
			err = p.validate.Struct(t)
		}
		if err != nil {
			p.recordInvalid(&result, "audit_templates", i, err)
			continue
		}

		inserted, err := insertMissing(ctx, p.templates, storage.Eq("name", t.Name), t, p.cfg.DryRun)
		if err != nil {
			return PhaseResult{Inserted: result.Inserted, Err: fmt.Errorf("audit template %q: %w", t.Name, err)}
		}
		tally(&result, inserted)
	}
	return result
}

func (p *Pipeline) recordInvalid(result *PhaseResult, phase string, index int, err error) {
	result.Errors++
	p.log.Warn("invalid fixture",
		slog.String("phase", phase),
		slog.Int("index", index),
		slog.String("error", err.Error()),
	)
}

// insertMissing creates rec unless a record matching key already exists.
// In dry-run mode nothing is written and the record counts as skipped.
func insertMissing[T any](ctx context.Context, c storage.Collection[T], key storage.Filter, rec T, dryRun bool) (bool, error) {
	existing, err := c.Find(ctx, key)
	if err != nil {
		return false, fmt.Errorf("lookup: %w", err)
	}
	if len(existing) > 0 || dryRun {
		return false, nil
	}

	if _, err := c.Create(ctx, rec); err != nil {
		return false, fmt.Errorf("create: %w", err)
	}
	return true, nil
}

func tally(result *PhaseResult, inserted bool) {
	if inserted {
		result.Inserted++
	} else {
		result.Skipped++
	}
}
