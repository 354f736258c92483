package domain

import "time"

// Animal is a registered, impounded or otherwise tracked animal.
type Animal struct {
	Base
	Name          string     `json:"name"          db:"name"`
	Species       string     `json:"species"       db:"species"        validate:"required,oneof=dog cat bird livestock wildlife other"`
	Breed         string     `json:"breed"         db:"breed"`
	Color         string     `json:"color"         db:"color"`
	OwnerName     string     `json:"ownerName"     db:"owner_name"`
	OwnerPhone    string     `json:"ownerPhone"    db:"owner_phone"`
	OwnerAddress  string     `json:"ownerAddress"  db:"owner_address"`
	MicrochipID   string     `json:"microchipId"   db:"microchip_id"`
	Status        string     `json:"status"        db:"status"         validate:"omitempty,oneof=registered impounded adopted released lost deceased"`
	LicenseExpiry *time.Time `json:"licenseExpiry" db:"license_expiry"`
}

func (Animal) Collection() string { return "animals" }

func (a *Animal) Normalize() {
	defaultString(&a.Status, "registered")
	a.MicrochipID = NormalizeCode(a.MicrochipID)
}

// EnforcementReport is an officer's write-up of an animal-related violation.
type EnforcementReport struct {
	Base
	AnimalID      *int64  `json:"animalId"      db:"animal_id"      validate:"omitempty,gt=0"`
	OfficerName   string  `json:"officerName"   db:"officer_name"   validate:"required"`
	ViolationType string  `json:"violationType" db:"violation_type" validate:"required,oneof=leash_law barking bite neglect at_large unlicensed other"`
	Location      string  `json:"location"      db:"location"`
	Description   string  `json:"description"   db:"description"`
	Action        string  `json:"action"        db:"action"         validate:"omitempty,oneof=warning citation impound none"`
	FineAmount    float64 `json:"fineAmount"    db:"fine_amount"    validate:"gte=0"`
	Status        string  `json:"status"        db:"status"         validate:"omitempty,oneof=open closed appealed"`
}

func (EnforcementReport) Collection() string { return "enforcement_reports" }

func (e *EnforcementReport) Normalize() {
	defaultString(&e.Action, "warning")
	defaultString(&e.Status, "open")
}
