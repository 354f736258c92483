package billing

import (
	"regexp"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

var amountPattern = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)

// PayInput holds parameters for paying an invoice.
type PayInput struct {
	Method    string `json:"method"    validate:"required,oneof=cash card check transfer online"`
	Reference string `json:"reference" validate:"max=128"`
}

// OrderInput holds parameters for opening a gateway order.
type OrderInput struct {
	Amount   string `json:"amount"   validate:"required"`
	Currency string `json:"currency" validate:"required,len=3,alpha"`
	Intent   string `json:"intent"   validate:"omitempty,oneof=CAPTURE AUTHORIZE"`
}

// Validate validates the order input.
func (i OrderInput) Validate() error {
	var errs []domain.FieldError

	if !amountPattern.MatchString(i.Amount) {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must be a decimal string with at most 2 fraction digits"})
	}
	if len(i.Currency) != 3 {
		errs = append(errs, domain.FieldError{Field: "currency", Message: "must be a 3-letter code"})
	}
	if i.Intent != "" && i.Intent != "CAPTURE" && i.Intent != "AUTHORIZE" {
		errs = append(errs, domain.FieldError{Field: "intent", Message: "must be CAPTURE or AUTHORIZE"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
