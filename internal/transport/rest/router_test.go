package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/beavernet-backend/internal/adapter/memory"
	"github.com/heartmarshall/beavernet-backend/internal/adapter/payment"
	"github.com/heartmarshall/beavernet-backend/internal/auth"
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

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const testPassword = "dam-builder"

type testServer struct {
	handler http.Handler
	store   *storage.Store
}

type serverOption func(*Deps)

func withGateway(baseURL string) serverOption {
	return func(d *Deps) {
		gw := payment.NewGateway(config.PaymentConfig{
			BaseURL:      baseURL,
			ClientID:     "id",
			ClientSecret: "secret",
			Timeout:      5 * time.Second,
		}, d.Logger)
		d.Billing = billing.NewService(d.Logger, d.Store, gw)
	}
}

func withPublicLimit(rps float64, burst int) serverOption {
	return func(d *Deps) {
		d.PublicLimiter = middleware.NewRateLimiter(rps, burst, time.Minute)
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	ctx := context.Background()

	// Plain stored passwords keep the tests fast; bcrypt paths are covered
	// by the auth and user service tests.
	for _, level := range []domain.AccessLevel{
		domain.AccessAdmin, domain.AccessDispatcher, domain.AccessOfficer, domain.AccessClerk,
		domain.AccessFinance, domain.AccessRisk, domain.AccessAuditor,
	} {
		_, err := store.Users.Create(ctx, domain.User{
			Username:    string(level),
			Password:    testPassword,
			DisplayName: strings.ToUpper(string(level)),
			AccessLevel: level,
			Active:      true,
		})
		require.NoError(t, err)
	}
	_, err := store.Users.Create(ctx, domain.User{
		Username: "retired", Password: testPassword, AccessLevel: domain.AccessAdmin, Active: false,
	})
	require.NoError(t, err)

	tokens := auth.NewDocumentTokenManager("router-test-secret-at-least-32-characters", "beavernet-test")

	d := Deps{
		Logger:        logger,
		Store:         store,
		Version:       "test",
		Auth:          authsvc.NewService(logger, store.Users),
		Users:         user.NewService(logger, store.Users),
		Dispatch:      dispatch.NewService(logger, store),
		Notary:        notary.NewService(logger, store.Documents, tokens),
		Billing:       billing.NewService(logger, store, nil),
		Realm:         "BeaverNet",
		CORS:          config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET", AllowedHeaders: "Authorization"},
		PublicLimiter: middleware.NewRateLimiter(100, 100, time.Minute),
		Metrics:       middleware.NewMetrics(),
		MetricsPath:   "/metrics",
	}
	for _, opt := range opts {
		opt(&d)
	}
	t.Cleanup(d.PublicLimiter.Stop)

	return &testServer{handler: NewRouter(d), store: store}
}

func (s *testServer) do(t *testing.T, method, path, username string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + testPassword))
		req.Header.Set("Authorization", "Basic "+creds)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ---------------------------------------------------------------------------
// Authentication and access
// ---------------------------------------------------------------------------

func TestRouter_Authentication(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/incidents", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="BeaverNet"`, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/api/incidents", nil)
	req.SetBasicAuth("dispatcher", "wrong")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/me", "retired", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/incidents", "dispatcher", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UsernameIsCaseSensitive(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	for _, name := range []string{"ADMIN", "Admin", "aDmin"} {
		rec := srv.do(t, http.MethodGet, "/api/me", name, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}

	rec := srv.do(t, http.MethodGet, "/api/me", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode[domain.Identity](t, rec).Username)
}

func TestRouter_AccessMap(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		path    string
		allowed []string
		denied  []string
	}{
		{path: "/api/users", allowed: []string{"admin"}, denied: []string{"clerk", "dispatcher"}},
		{path: "/api/incidents", allowed: []string{"admin", "dispatcher"}, denied: []string{"officer", "finance"}},
		{path: "/api/animals", allowed: []string{"officer"}, denied: []string{"dispatcher"}},
		{path: "/api/documents", allowed: []string{"clerk"}, denied: []string{"finance"}},
		{path: "/api/invoices", allowed: []string{"finance", "clerk"}, denied: []string{"risk"}},
		{path: "/api/risk-events", allowed: []string{"risk"}, denied: []string{"auditor"}},
		{path: "/api/audit-evidence", allowed: []string{"auditor"}, denied: []string{"risk"}},
		{path: "/api/licenses", allowed: []string{"clerk", "officer"}, denied: []string{"finance"}},
	}

	for _, tt := range tests {
		for _, u := range tt.allowed {
			rec := srv.do(t, http.MethodGet, tt.path, u, nil)
			assert.Equal(t, http.StatusOK, rec.Code, "%s as %s", tt.path, u)
		}
		for _, u := range tt.denied {
			rec := srv.do(t, http.MethodGet, tt.path, u, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code, "%s as %s", tt.path, u)
		}
	}
}

func TestRouter_Me(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/me", "risk", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	id := decode[domain.Identity](t, rec)
	assert.Equal(t, "risk", id.Username)
	assert.Equal(t, "RISK", id.DisplayName)
	assert.Equal(t, domain.AccessRisk, id.AccessLevel)
	assert.NotZero(t, id.UserID)
}

// ---------------------------------------------------------------------------
// Generic collection endpoints
// ---------------------------------------------------------------------------

func TestRouter_IncidentCRUD(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/incidents", "dispatcher", map[string]any{
		"type":     "fire",
		"location": "Lodge 7, North Pond",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[domain.Incident](t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Regexp(t, `^INC-\d{4}-00001$`, created.IncidentNumber)
	assert.Equal(t, domain.IncidentPending, created.Status)
	assert.Equal(t, "medium", created.Priority)

	rec = srv.do(t, http.MethodGet, "/api/incidents/1", "dispatcher", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.IncidentNumber, decode[domain.Incident](t, rec).IncidentNumber)

	rec = srv.do(t, http.MethodPatch, "/api/incidents/1", "dispatcher", map[string]any{"priority": "high"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	patched := decode[domain.Incident](t, rec)
	assert.Equal(t, "high", patched.Priority)
	assert.Equal(t, created.Location, patched.Location)
	assert.Equal(t, created.IncidentNumber, patched.IncidentNumber)
	assert.True(t, patched.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, patched.UpdatedAt.After(created.UpdatedAt))

	rec = srv.do(t, http.MethodPut, "/api/incidents/1", "dispatcher", map[string]any{"id": 99, "description": "smoke"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[domain.Incident](t, rec).ID)
}

func TestRouter_InvalidPayloadsNeverReachStorage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/incidents", "dispatcher", map[string]any{"type": "spaceship"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "invalid request body", resp.Error)
	fields := map[string]string{}
	for _, d := range resp.Details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields, "type")
	assert.Contains(t, fields, "location")

	rec = srv.do(t, http.MethodPost, "/api/units", "dispatcher", `{"callSign": 12}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "callSign", decode[errorResponse](t, rec).Details[0].Field)

	rec = srv.do(t, http.MethodPost, "/api/units", "dispatcher", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	incidents, err := srv.store.Incidents.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, incidents)
	units, err := srv.store.Units.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestRouter_InvalidUpdateLeavesRecord(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	unit, err := srv.store.Units.Create(context.Background(), domain.Unit{CallSign: "E1", UnitType: "engine"})
	require.NoError(t, err)

	rec := srv.do(t, http.MethodPatch, "/api/units/1", "dispatcher", map[string]any{"status": "asleep"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status", decode[errorResponse](t, rec).Details[0].Field)

	got, err := srv.store.Units.Get(context.Background(), unit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitAvailable, got.Status)
	assert.True(t, got.UpdatedAt.Equal(unit.UpdatedAt))

	rec = srv.do(t, http.MethodPatch, "/api/units/42", "dispatcher", map[string]any{"station": "3"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GetErrors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/animals/7", "officer", nil).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/animals/seven", "officer", nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/nothing-here", "admin", nil).Code)
}

func TestRouter_ListFilters(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ctx := context.Background()

	for _, a := range []domain.Animal{
		{Name: "Rex", Species: "dog", OwnerName: "Bucky Beaver"},
		{Name: "Tom", Species: "cat", OwnerName: "Justin Beaver"},
		{Name: "Spot", Species: "dog", OwnerName: "Ottis Otter"},
	} {
		_, err := srv.store.Animals.Create(ctx, a)
		require.NoError(t, err)
	}

	rec := srv.do(t, http.MethodGet, "/api/animals?ownerName=beaver", "officer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Animal](t, rec), 2)

	rec = srv.do(t, http.MethodGet, "/api/animals?ownerName=beaver&species=dog", "officer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	animals := decode[[]domain.Animal](t, rec)
	require.Len(t, animals, 1)
	assert.Equal(t, "Rex", animals[0].Name)

	rec = srv.do(t, http.MethodGet, "/api/animals?color=brown", "officer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Animal](t, rec), 3)

	rec = srv.do(t, http.MethodGet, "/api/enforcement-reports?animalId=abc", "officer", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "invalid query parameter", resp.Error)
	assert.Equal(t, "animalId", resp.Details[0].Field)

	rec = srv.do(t, http.MethodGet, "/api/risk-events", "risk", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestRouter_UsersHidePasswords(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/users", "admin", map[string]any{
		"username":    "Clerk2",
		"password":    "stamp",
		"accessLevel": "clerk",
		"active":      true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "stamp")

	view := decode[UserView](t, rec)
	assert.Equal(t, "Clerk2", view.Username)

	stored, err := srv.store.Users.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, stored.PasswordIsHashed())

	rec = srv.do(t, http.MethodGet, "/api/users?username=Clerk2", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Len(t, decode[[]UserView](t, rec), 1)

	rec = srv.do(t, http.MethodPost, "/api/users", "admin", map[string]any{
		"username": "Clerk2", "password": "x", "accessLevel": "clerk",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/users", "admin", map[string]any{
		"username": "boss", "password": "x", "accessLevel": "mayor",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CreatedUserCanSignIn(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/users", "admin", map[string]any{
		"username":    "ranger",
		"password":    testPassword,
		"accessLevel": "officer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, decode[UserView](t, rec).Active)

	rec = srv.do(t, http.MethodGet, "/api/me", "ranger", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.AccessOfficer, decode[domain.Identity](t, rec).AccessLevel)

	rec = srv.do(t, http.MethodGet, "/api/animals", "ranger", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// An explicit false is kept.
	rec = srv.do(t, http.MethodPost, "/api/users", "admin", map[string]any{
		"username":    "intern",
		"password":    testPassword,
		"accessLevel": "clerk",
		"active":      false,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.False(t, decode[UserView](t, rec).Active)

	rec = srv.do(t, http.MethodGet, "/api/me", "intern", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---------------------------------------------------------------------------
// Dispatch workflow
// ---------------------------------------------------------------------------

func TestRouter_AssignAndResolve(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ctx := context.Background()

	incident, err := srv.store.Incidents.Create(ctx, domain.Incident{Type: "medical", Location: "Dam"})
	require.NoError(t, err)

	for _, cs := range []string{"A1", "A2"} {
		unit, err := srv.store.Units.Create(ctx, domain.Unit{CallSign: cs, UnitType: "ambulance"})
		require.NoError(t, err)

		rec := srv.do(t, http.MethodPost, "/api/incidents/1/assign", "dispatcher", map[string]any{"unitId": unit.ID})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := srv.do(t, http.MethodPost, "/api/incidents/1/assign", "dispatcher", map[string]any{"unitId": 99})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/incidents/5/assign", "dispatcher", map[string]any{"unitId": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/incidents/1/assign", "dispatcher", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/incidents/1/units", "dispatcher", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.IncidentUnit](t, rec), 2)

	rec = srv.do(t, http.MethodPost, "/api/incidents/1/status", "dispatcher", map[string]any{"status": "resolved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resolved := decode[domain.Incident](t, rec)
	assert.Equal(t, domain.IncidentResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, incident.ID, resolved.ID)

	units, err := srv.store.Units.List(ctx)
	require.NoError(t, err)
	for _, u := range units {
		assert.Equal(t, domain.UnitAvailable, u.Status)
		assert.Nil(t, u.CurrentIncidentID)
	}

	rec = srv.do(t, http.MethodPost, "/api/incidents/1/status", "dispatcher", map[string]any{"status": "melted"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// Notarization workflow
// ---------------------------------------------------------------------------

func TestRouter_DocumentLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/documents", "clerk", map[string]any{
		"customerId":   1,
		"title":        "Dam permit",
		"documentType": "certificate",
		"uid":          "DOC-forged",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode[domain.Document](t, rec)
	assert.NotEqual(t, "DOC-forged", doc.UID)
	require.NotEmpty(t, doc.VerificationToken)

	rec = srv.do(t, http.MethodGet, "/api/documents?uid="+doc.UID, "clerk", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Document](t, rec), 1)

	rec = srv.do(t, http.MethodPatch, "/api/documents/1", "clerk", map[string]any{"verificationToken": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, doc.VerificationToken, decode[domain.Document](t, rec).VerificationToken)

	rec = srv.do(t, http.MethodPost, "/api/documents/1/notarize", "clerk", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/documents/1/notarize", "clerk", map[string]any{"notaryName": "N. Otary"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/public/documents/verify/"+doc.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[notary.Verification](t, rec)
	assert.True(t, v.Valid)
	assert.Equal(t, doc.UID, v.UID)
	assert.Equal(t, domain.DocumentNotarized, v.Status)

	rec = srv.do(t, http.MethodPost, "/api/documents/1/revoke", "clerk", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/public/documents/verify/"+doc.VerificationToken, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[notary.Verification](t, rec).Valid)

	rec = srv.do(t, http.MethodGet, "/public/documents/verify/not-a-token", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PublicVerifyRateLimited(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, withPublicLimit(0.01, 2))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/public/documents/verify/x", "", nil).Code)
	}
	rec := srv.do(t, http.MethodGet, "/public/documents/verify/x", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

// ---------------------------------------------------------------------------
// Billing
// ---------------------------------------------------------------------------

func TestRouter_PayInvoice(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ctx := context.Background()

	invoice, err := srv.store.Invoices.Create(ctx, domain.Invoice{CustomerID: 3, Amount: 42.5, Status: domain.InvoiceIssued})
	require.NoError(t, err)

	rec := srv.do(t, http.MethodPost, "/api/invoices/1/pay", "finance", map[string]any{"method": "barter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/invoices/1/pay", "finance", map[string]any{"method": "card", "reference": "R-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[domain.Payment](t, rec)
	assert.Equal(t, 42.5, p.Amount)
	require.NotNil(t, p.InvoiceID)
	assert.Equal(t, invoice.ID, *p.InvoiceID)
	assert.Equal(t, "completed", p.Status)

	got, err := srv.store.Invoices.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, got.Status)

	rec = srv.do(t, http.MethodPost, "/api/invoices/1/pay", "clerk", map[string]any{"method": "cash"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/payments?invoiceId=1", "finance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Payment](t, rec), 1)
}

func TestRouter_UpdateKeepsDerivedFields(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ctx := context.Background()

	incident, err := srv.store.Incidents.Create(ctx, domain.Incident{Type: "fire", Location: "North dam"})
	require.NoError(t, err)
	require.NotEmpty(t, incident.IncidentNumber)

	rec := srv.do(t, http.MethodPatch, "/api/incidents/1", "dispatcher", map[string]any{
		"incidentNumber": "INC-FORGED",
		"resolvedAt":     "2026-01-02T03:04:05Z",
		"location":       "South dam",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[domain.Incident](t, rec)
	assert.Equal(t, incident.IncidentNumber, got.IncidentNumber)
	assert.Nil(t, got.ResolvedAt)
	assert.Equal(t, "South dam", got.Location)

	invoice, err := srv.store.Invoices.Create(ctx, domain.Invoice{CustomerID: 3, Amount: 10, Status: domain.InvoiceIssued})
	require.NoError(t, err)

	rec = srv.do(t, http.MethodPut, "/api/invoices/1", "finance", map[string]any{
		"invoiceNumber": "INV-FORGED",
		"paidAt":        "2026-01-02T03:04:05Z",
		"customerId":    3,
		"amount":        12,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	inv := decode[domain.Invoice](t, rec)
	assert.Equal(t, invoice.InvoiceNumber, inv.InvoiceNumber)
	assert.Nil(t, inv.PaidAt)
	assert.Equal(t, 12.0, inv.Amount)

	sale, err := srv.store.PosTransactions.Create(ctx, domain.PosTransaction{Terminal: "T1", Amount: 3, Method: "cash"})
	require.NoError(t, err)

	rec = srv.do(t, http.MethodPatch, "/api/pos-transactions/1", "finance", map[string]any{
		"transactionNumber": "POS-FORGED",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, sale.TransactionNumber, decode[domain.PosTransaction](t, rec).TransactionNumber)
}

func TestRouter_OrdersWithoutGateway(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/payments/orders", "finance", map[string]any{
		"amount": "10.00", "currency": "USD",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/payments/orders/ABC/capture", "finance", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_OrdersRelayGateway(t *testing.T) {
	t.Parallel()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/oauth2/token":
			io.WriteString(w, `{"access_token":"tok","expires_in":3600}`) //nolint:errcheck
		case "/v2/checkout/orders":
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":"ORDER-1","status":"CREATED"}`) //nolint:errcheck
		case "/v2/checkout/orders/ORDER-1/capture":
			w.WriteHeader(http.StatusUnprocessableEntity)
			io.WriteString(w, `{"name":"UNPROCESSABLE_ENTITY"}`) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(api.Close)

	srv := newTestServer(t, withGateway(api.URL))

	rec := srv.do(t, http.MethodPost, "/api/payments/orders", "finance", map[string]any{
		"amount": "10.5", "currency": "usd",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":"ORDER-1","status":"CREATED"}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/payments/orders/ORDER-1/capture", "finance", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"name":"UNPROCESSABLE_ENTITY"}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/api/payments/orders", "finance", map[string]any{
		"amount": "ten", "currency": "usd",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// Operational endpoints
// ---------------------------------------------------------------------------

func TestRouter_OperationalEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.Contains(t, health.Components, "memory")

	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/ready", "", nil).Code)

	srv.do(t, http.MethodGet, "/api/incidents", "dispatcher", nil)

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `beavernet_http_requests_total{method="GET",route="/api/incidents`)

	rec = srv.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_WithoutMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(d *Deps) { d.Metrics = nil })

	rec := srv.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("Origin", "https://portal.beavernet.example")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "https://portal.beavernet.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
