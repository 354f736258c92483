package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/beavernet-backend/internal/config"
	"github.com/heartmarshall/beavernet-backend/internal/domain"
	authsvc "github.com/heartmarshall/beavernet-backend/internal/service/auth"
	"github.com/heartmarshall/beavernet-backend/internal/service/billing"
	"github.com/heartmarshall/beavernet-backend/internal/service/dispatch"
	"github.com/heartmarshall/beavernet-backend/internal/service/notary"
	"github.com/heartmarshall/beavernet-backend/internal/service/user"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
	"github.com/heartmarshall/beavernet-backend/internal/transport/middleware"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Logger  *slog.Logger
	Store   *storage.Store
	Version string

	Auth     *authsvc.Service
	Users    *user.Service
	Dispatch *dispatch.Service
	Notary   *notary.Service
	Billing  *billing.Service

	Realm         string
	CORS          config.CORSConfig
	PublicLimiter *middleware.RateLimiter

	// Metrics is nil when the Prometheus endpoint is disabled.
	Metrics     *middleware.Metrics
	MetricsPath string
}

// Access allow-lists per surface. Membership is exact.
var (
	accessUsers      = []domain.AccessLevel{domain.AccessAdmin}
	accessDispatch   = []domain.AccessLevel{domain.AccessAdmin, domain.AccessDispatcher}
	accessAnimals    = []domain.AccessLevel{domain.AccessAdmin, domain.AccessOfficer}
	accessNotary     = []domain.AccessLevel{domain.AccessAdmin, domain.AccessClerk}
	accessBilling    = []domain.AccessLevel{domain.AccessAdmin, domain.AccessFinance, domain.AccessClerk}
	accessRisk       = []domain.AccessLevel{domain.AccessAdmin, domain.AccessRisk}
	accessCompliance = []domain.AccessLevel{domain.AccessAdmin, domain.AccessAuditor}
	accessRegistry   = []domain.AccessLevel{domain.AccessAdmin, domain.AccessClerk, domain.AccessOfficer}
)

// NewRouter builds the HTTP handler for the whole API.
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	s := d.Store

	var instrument middleware.Middleware
	if d.Metrics != nil {
		instrument = d.Metrics.Instrument()
	}

	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(d.CORS),
		instrument,
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	health := NewHealthHandler(s, s.Backend.Name(), d.Version)
	r.Get("/health", health.Health)
	r.Get("/live", health.Live)
	r.Get("/ready", health.Ready)
	if d.Metrics != nil {
		r.Method(http.MethodGet, d.MetricsPath, d.Metrics.Handler())
	}

	documents := NewDocumentHandler(d.Notary, log)
	dispatchH := NewDispatchHandler(d.Dispatch, log)
	billingH := NewBillingHandler(d.Billing, log)

	r.Route("/public", func(r chi.Router) {
		r.Use(d.PublicLimiter.Limit())
		r.Get("/documents/verify/{token}", documents.Verify)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BasicAuth(d.Auth, d.Realm, log))

		r.Get("/me", Me)

		guarded(r, accessUsers, func(r chi.Router) {
			r.Route("/users", NewResource[domain.User](userRepository{svc: d.Users}, log,
				EqParam("username", "username"),
			).WithView(toUserView).Routes)
		})

		guarded(r, accessDispatch, func(r chi.Router) {
			incidents := NewResource[domain.Incident](s.Incidents, log,
				EqParam("status", "status"),
				EqParam("priority", "priority"),
			)
			r.Route("/incidents", func(r chi.Router) {
				incidents.Routes(r)
				r.Post("/{id}/status", dispatchH.ChangeStatus)
				r.Post("/{id}/assign", dispatchH.Assign)
				r.Get("/{id}/units", dispatchH.Units)
			})
			r.Route("/units", NewResource[domain.Unit](s.Units, log,
				EqParam("status", "status"),
				EqParam("unitType", "unit_type"),
			).Routes)
			r.Route("/incident-units", NewResource[domain.IncidentUnit](s.IncidentUnits, log,
				IntParam("incidentId", "incident_id"),
				IntParam("unitId", "unit_id"),
			).Routes)
			r.Route("/call-logs", NewResource[domain.CallEntryLog](s.CallLogs, log,
				IntParam("incidentId", "incident_id"),
			).Routes)
		})

		guarded(r, accessAnimals, func(r chi.Router) {
			r.Route("/animals", NewResource[domain.Animal](s.Animals, log,
				ContainsParam("ownerName", "owner_name"),
				EqParam("status", "status"),
				EqParam("species", "species"),
				EqParam("microchipId", "microchip_id"),
			).Routes)
			r.Route("/enforcement-reports", NewResource[domain.EnforcementReport](s.EnforcementReports, log,
				IntParam("animalId", "animal_id"),
				EqParam("status", "status"),
			).Routes)
		})

		guarded(r, accessNotary, func(r chi.Router) {
			r.Route("/customers", NewResource[domain.Customer](s.Customers, log,
				ContainsParam("name", "full_name"),
			).Routes)
			docs := NewResource[domain.Document](documentRepository{Collection: s.Documents, svc: d.Notary}, log,
				IntParam("customerId", "customer_id"),
				EqParam("status", "status"),
				EqParam("uid", "uid"),
			)
			r.Route("/documents", func(r chi.Router) {
				docs.Routes(r)
				r.Post("/{id}/notarize", documents.Notarize)
				r.Post("/{id}/revoke", documents.Revoke)
			})
		})

		guarded(r, accessBilling, func(r chi.Router) {
			invoices := NewResource[domain.Invoice](s.Invoices, log,
				IntParam("customerId", "customer_id"),
				EqParam("status", "status"),
			)
			r.Route("/invoices", func(r chi.Router) {
				invoices.Routes(r)
				r.Post("/{id}/pay", billingH.PayInvoice)
			})
			payments := NewResource[domain.Payment](s.Payments, log,
				IntParam("invoiceId", "invoice_id"),
				EqParam("status", "status"),
			)
			r.Route("/payments", func(r chi.Router) {
				r.Post("/orders", billingH.CreateOrder)
				r.Post("/orders/{orderId}/capture", billingH.CaptureOrder)
				payments.Routes(r)
			})
			r.Route("/pos-transactions", NewResource[domain.PosTransaction](s.PosTransactions, log,
				EqParam("terminal", "terminal"),
				EqParam("status", "status"),
			).Routes)
		})

		guarded(r, accessRisk, func(r chi.Router) {
			r.Route("/risk-locations", NewResource[domain.RiskLocation](s.RiskLocations, log,
				ContainsParam("name", "name"),
				EqParam("category", "category"),
			).Routes)
			r.Route("/risk-assessments", NewResource[domain.RiskAssessment](s.RiskAssessments, log,
				IntParam("locationId", "location_id"),
				EqParam("riskLevel", "risk_level"),
				EqParam("status", "status"),
			).Routes)
			r.Route("/mitigation-plans", NewResource[domain.MitigationPlan](s.MitigationPlans, log,
				IntParam("assessmentId", "assessment_id"),
				EqParam("status", "status"),
			).Routes)
			r.Route("/risk-events", NewResource[domain.RiskEvent](s.RiskEvents, log,
				IntParam("locationId", "location_id"),
				EqParam("severity", "severity"),
			).Routes)
		})

		guarded(r, accessCompliance, func(r chi.Router) {
			r.Route("/audit-schedules", NewResource[domain.AuditSchedule](s.AuditSchedules, log,
				EqParam("status", "status"),
				EqParam("department", "department"),
			).Routes)
			r.Route("/audit-templates", NewResource[domain.AuditTemplate](s.AuditTemplates, log,
				ContainsParam("name", "name"),
			).Routes)
			r.Route("/audit-reports", NewResource[domain.AuditReport](s.AuditReports, log,
				IntParam("scheduleId", "schedule_id"),
				EqParam("status", "status"),
			).Routes)
			r.Route("/audit-non-compliances", NewResource[domain.AuditNonCompliance](s.AuditNonCompliances, log,
				IntParam("reportId", "report_id"),
				EqParam("status", "status"),
			).Routes)
			r.Route("/audit-evidence", NewResource[domain.AuditEvidence](s.AuditEvidence, log,
				IntParam("reportId", "report_id"),
				IntParam("nonComplianceId", "non_compliance_id"),
			).Routes)
		})

		guarded(r, accessRegistry, func(r chi.Router) {
			r.Route("/characters", NewResource[domain.Character](s.Characters, log,
				ContainsParam("name", "last_name"),
			).Routes)
			r.Route("/licenses", NewResource[domain.License](s.Licenses, log,
				IntParam("characterId", "character_id"),
				EqParam("status", "status"),
			).Routes)
			r.Route("/vehicle-registrations", NewResource[domain.VehicleRegistration](s.VehicleRegistrations, log,
				EqParam("plate", "plate"),
				IntParam("characterId", "character_id"),
				EqParam("status", "status"),
			).Routes)
		})
	})

	return r
}

// guarded mounts routes behind an access-level allow-list.
func guarded(r chi.Router, levels []domain.AccessLevel, fn func(r chi.Router)) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAccess(levels...))
		fn(r)
	})
}
