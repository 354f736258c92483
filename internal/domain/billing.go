package domain

import (
	"fmt"
	"time"
)

const defaultCurrency = "USD"

// Invoice is an amount billed to a customer.
type Invoice struct {
	Base
	InvoiceNumber string        `json:"invoiceNumber" db:"invoice_number"`
	CustomerID    int64         `json:"customerId"    db:"customer_id"    validate:"required,gt=0"`
	Description   string        `json:"description"   db:"description"`
	Amount        float64       `json:"amount"        db:"amount"         validate:"gt=0"`
	Currency      string        `json:"currency"      db:"currency"       validate:"omitempty,len=3,alpha"`
	Status        InvoiceStatus `json:"status"        db:"status"         validate:"omitempty,oneof=draft issued paid overdue void"`
	DueDate       *time.Time    `json:"dueDate"       db:"due_date"`
	PaidAt        *time.Time    `json:"paidAt"        db:"paid_at"`
}

func (Invoice) Collection() string { return "invoices" }

func (i *Invoice) Normalize() {
	i.Currency = NormalizeCode(i.Currency)
	defaultString(&i.Currency, defaultCurrency)
	if i.Status == "" {
		i.Status = InvoiceDraft
	}
}

func (i *Invoice) BeforeInsert(now time.Time) {
	if i.InvoiceNumber == "" {
		i.InvoiceNumber = fmt.Sprintf("INV-%d-%06d", now.Year(), i.ID)
	}
}

// KeepDerived restores the number and the payment time, which only
// PayInvoice sets.
func (i *Invoice) KeepDerived(prev Invoice) {
	i.InvoiceNumber = prev.InvoiceNumber
	i.PaidAt = prev.PaidAt
}

// Payment is money received, usually against an invoice.
type Payment struct {
	Base
	InvoiceID   *int64     `json:"invoiceId"   db:"invoice_id"   validate:"omitempty,gt=0"`
	Amount      float64    `json:"amount"      db:"amount"       validate:"gt=0"`
	Currency    string     `json:"currency"    db:"currency"     validate:"omitempty,len=3,alpha"`
	Method      string     `json:"method"      db:"method"       validate:"required,oneof=cash card check transfer online"`
	Reference   string     `json:"reference"   db:"reference"`
	Status      string     `json:"status"      db:"status"       validate:"omitempty,oneof=pending completed failed refunded"`
	ProcessedAt *time.Time `json:"processedAt" db:"processed_at"`
}

func (Payment) Collection() string { return "payments" }

func (p *Payment) Normalize() {
	p.Currency = NormalizeCode(p.Currency)
	defaultString(&p.Currency, defaultCurrency)
	defaultString(&p.Status, "pending")
}

// PosTransaction is a counter sale recorded by a point-of-sale terminal.
type PosTransaction struct {
	Base
	TransactionNumber string  `json:"transactionNumber" db:"transaction_number"`
	Terminal          string  `json:"terminal"          db:"terminal"          validate:"required,max=64"`
	Amount            float64 `json:"amount"            db:"amount"            validate:"gt=0"`
	Currency          string  `json:"currency"          db:"currency"          validate:"omitempty,len=3,alpha"`
	Method            string  `json:"method"            db:"method"            validate:"required,oneof=cash card"`
	ItemDescription   string  `json:"itemDescription"   db:"item_description"`
	Cashier           string  `json:"cashier"           db:"cashier"`
	Status            string  `json:"status"            db:"status"            validate:"omitempty,oneof=completed voided refunded"`
}

func (PosTransaction) Collection() string { return "pos_transactions" }

func (p *PosTransaction) Normalize() {
	p.Currency = NormalizeCode(p.Currency)
	defaultString(&p.Currency, defaultCurrency)
	defaultString(&p.Status, "completed")
}

func (p *PosTransaction) BeforeInsert(now time.Time) {
	if p.TransactionNumber == "" {
		p.TransactionNumber = fmt.Sprintf("POS-%s-%06d", now.Format("20060102"), p.ID)
	}
}

func (p *PosTransaction) KeepDerived(prev PosTransaction) {
	p.TransactionNumber = prev.TransactionNumber
}
