package domain

import (
	"strings"
	"time"
)

// Customer is a member of the public served by the notary office.
type Customer struct {
	Base
	FullName string `json:"fullName" db:"full_name" validate:"required,max=256"`
	Email    string `json:"email"    db:"email"     validate:"omitempty,email"`
	Phone    string `json:"phone"    db:"phone"`
	Address  string `json:"address"  db:"address"`
	IDNumber string `json:"idNumber" db:"id_number"`
}

func (Customer) Collection() string { return "customers" }

func (Customer) SortColumn() string { return "full_name" }

func (c *Customer) Normalize() {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

// Document is a notarized (or to-be-notarized) record. UID and
// VerificationToken are issued by the notary service at creation.
type Document struct {
	Base
	CustomerID        int64          `json:"customerId"        db:"customer_id"        validate:"required,gt=0"`
	Title             string         `json:"title"             db:"title"              validate:"required,max=256"`
	DocumentType      string         `json:"documentType"      db:"document_type"      validate:"required,oneof=affidavit deed power_of_attorney contract certificate other"`
	UID               string         `json:"uid"               db:"uid"`
	VerificationToken string         `json:"verificationToken" db:"verification_token"`
	ContentHash       string         `json:"contentHash"       db:"content_hash"       validate:"omitempty,hexadecimal,len=64"`
	Status            DocumentStatus `json:"status"            db:"status"             validate:"omitempty,oneof=draft notarized revoked"`
	NotaryName        string         `json:"notaryName"        db:"notary_name"`
	NotarizedAt       *time.Time     `json:"notarizedAt"       db:"notarized_at"`
}

func (Document) Collection() string { return "documents" }

func (d *Document) Normalize() {
	if d.Status == "" {
		d.Status = DocumentDraft
	}
	d.ContentHash = strings.ToLower(d.ContentHash)
}
