package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIncident_Defaults(t *testing.T) {
	t.Parallel()

	inc := Incident{Type: "fire", Location: "Main St"}
	inc.Normalize()

	assert.Equal(t, "medium", inc.Priority)
	assert.Equal(t, IncidentPending, inc.Status)
}

func TestIncident_BeforeInsert(t *testing.T) {
	t.Parallel()

	inc := Incident{Base: Base{ID: 42}}
	inc.BeforeInsert(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "INC-2026-00042", inc.IncidentNumber)

	// An existing number is kept.
	inc.BeforeInsert(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "INC-2026-00042", inc.IncidentNumber)
}

func TestInvoice_CodeAndCurrency(t *testing.T) {
	t.Parallel()

	inv := Invoice{Base: Base{ID: 7}, CustomerID: 1, Amount: 10, Currency: " eur"}
	inv.Normalize()
	inv.BeforeInsert(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, InvoiceDraft, inv.Status)
	assert.Equal(t, "INV-2026-000007", inv.InvoiceNumber)

	blank := Invoice{}
	blank.Normalize()
	assert.Equal(t, "USD", blank.Currency)
}

func TestPosTransaction_Code(t *testing.T) {
	t.Parallel()

	tx := PosTransaction{Base: Base{ID: 3}}
	tx.BeforeInsert(time.Date(2026, 2, 5, 13, 0, 0, 0, time.UTC))

	assert.Equal(t, "POS-20260205-000003", tx.TransactionNumber)
}

func TestKeepDerived(t *testing.T) {
	t.Parallel()

	resolved := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	inc := Incident{IncidentNumber: "INC-FORGED", Location: "Weir"}
	inc.KeepDerived(Incident{IncidentNumber: "INC-2026-00001", ResolvedAt: &resolved, Location: "Dam"})
	assert.Equal(t, "INC-2026-00001", inc.IncidentNumber)
	assert.Equal(t, &resolved, inc.ResolvedAt)
	assert.Equal(t, "Weir", inc.Location)

	inv := Invoice{InvoiceNumber: "INV-FORGED", PaidAt: &resolved, Amount: 5}
	inv.KeepDerived(Invoice{InvoiceNumber: "INV-2026-000001", Amount: 3})
	assert.Equal(t, "INV-2026-000001", inv.InvoiceNumber)
	assert.Nil(t, inv.PaidAt)
	assert.Equal(t, 5.0, inv.Amount)

	sale := PosTransaction{TransactionNumber: "POS-FORGED"}
	sale.KeepDerived(PosTransaction{TransactionNumber: "POS-20260301-000001"})
	assert.Equal(t, "POS-20260301-000001", sale.TransactionNumber)
}

func TestRiskAssessment_DerivesScore(t *testing.T) {
	t.Parallel()

	a := RiskAssessment{Likelihood: 3, Impact: 4}
	a.Normalize()
	assert.Equal(t, 12, a.Score)
	assert.Equal(t, RiskHigh, a.RiskLevel)

	a.Impact = 1
	a.Normalize()
	assert.Equal(t, 3, a.Score)
	assert.Equal(t, RiskLow, a.RiskLevel)
}

func TestRiskLevelForScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  RiskLevel
	}{
		{1, RiskLow}, {4, RiskLow},
		{5, RiskMedium}, {9, RiskMedium},
		{10, RiskHigh}, {15, RiskHigh},
		{16, RiskCritical}, {25, RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestBeforeInsert_DefaultsTimestamps(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	var a IncidentUnit
	a.BeforeInsert(now)
	assert.Equal(t, now, a.AssignedAt)

	given := now.Add(-time.Hour)
	c := CallEntryLog{ReceivedAt: given}
	c.BeforeInsert(now)
	assert.Equal(t, given, c.ReceivedAt)
}

func TestUser_PasswordIsHashed(t *testing.T) {
	t.Parallel()

	assert.True(t, (&User{Password: "$2a$10$abcdefghijklmnopqrstuv"}).PasswordIsHashed())
	assert.True(t, (&User{Password: "$2b$12$abcdefghijklmnopqrstuv"}).PasswordIsHashed())
	assert.False(t, (&User{Password: "beaver"}).PasswordIsHashed())
}

func TestUser_CreateDefaults(t *testing.T) {
	t.Parallel()

	var u User
	u.CreateDefaults()
	assert.True(t, u.Active)
}

func TestUser_NormalizeUsername(t *testing.T) {
	t.Parallel()

	u := User{Username: " Admin "}
	u.Normalize()
	assert.Equal(t, "Admin", u.Username)
}

func TestVehicleRegistration_Normalize(t *testing.T) {
	t.Parallel()

	v := VehicleRegistration{Plate: "bvr 123", VIN: "1hgcm82633a004352"}
	v.Normalize()

	assert.Equal(t, "BVR123", v.Plate)
	assert.Equal(t, "1HGCM82633A004352", v.VIN)
	assert.Equal(t, "valid", v.Status)
}

func TestEnums_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, AccessDispatcher.IsValid())
	assert.False(t, AccessLevel("superuser").IsValid())
	assert.True(t, IncidentResolved.IsTerminal())
	assert.True(t, IncidentClosed.IsTerminal())
	assert.False(t, IncidentOnScene.IsTerminal())
	assert.True(t, UnitOutOfService.IsValid())
	assert.False(t, UnitStatus("busy").IsValid())
	assert.True(t, InvoiceOverdue.IsPayable())
	assert.False(t, InvoicePaid.IsPayable())
	assert.False(t, InvoiceVoid.IsPayable())
	assert.True(t, DocumentRevoked.IsValid())
	assert.True(t, RiskCritical.IsValid())
}

func TestAuditTemplate_DefaultVersion(t *testing.T) {
	t.Parallel()

	tpl := AuditTemplate{Name: "Fire safety"}
	tpl.Normalize()
	assert.Equal(t, 1, tpl.Version)

	tpl.Version = 3
	tpl.Normalize()
	assert.Equal(t, 3, tpl.Version)
}
