package domain

import (
	"strings"
	"time"
)

// Character is a person on file with the registry.
type Character struct {
	Base
	FirstName   string     `json:"firstName"   db:"first_name"    validate:"required,max=128"`
	LastName    string     `json:"lastName"    db:"last_name"     validate:"required,max=128"`
	DateOfBirth *time.Time `json:"dateOfBirth" db:"date_of_birth"`
	Gender      string     `json:"gender"      db:"gender"`
	Address     string     `json:"address"     db:"address"`
	Phone       string     `json:"phone"       db:"phone"`
	Occupation  string     `json:"occupation"  db:"occupation"`
	Status      string     `json:"status"      db:"status"        validate:"omitempty,oneof=active wanted deceased"`
}

func (Character) Collection() string { return "characters" }

func (Character) SortColumn() string { return "last_name" }

func (c *Character) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	defaultString(&c.Status, "active")
}

// License is a permit issued to a character.
type License struct {
	Base
	CharacterID   int64      `json:"characterId"   db:"character_id"   validate:"required,gt=0"`
	LicenseType   string     `json:"licenseType"   db:"license_type"   validate:"required,oneof=driver commercial motorcycle firearm hunting fishing business"`
	LicenseNumber string     `json:"licenseNumber" db:"license_number" validate:"required,max=64"`
	Status        string     `json:"status"        db:"status"         validate:"omitempty,oneof=valid suspended revoked expired"`
	IssuedAt      *time.Time `json:"issuedAt"      db:"issued_at"`
	ExpiresAt     *time.Time `json:"expiresAt"     db:"expires_at"`
}

func (License) Collection() string { return "licenses" }

func (l *License) Normalize() {
	l.LicenseNumber = NormalizeCode(l.LicenseNumber)
	defaultString(&l.Status, "valid")
}

// VehicleRegistration ties a plate to a registered owner.
type VehicleRegistration struct {
	Base
	CharacterID int64      `json:"characterId" db:"character_id" validate:"required,gt=0"`
	Plate       string     `json:"plate"       db:"plate"        validate:"required,max=16"`
	Make        string     `json:"make"        db:"make"`
	Model       string     `json:"model"       db:"model"`
	Year        int        `json:"year"        db:"year"         validate:"omitempty,min=1900,max=2100"`
	Color       string     `json:"color"       db:"color"`
	VIN         string     `json:"vin"         db:"vin"          validate:"omitempty,len=17,alphanum"`
	Status      string     `json:"status"      db:"status"       validate:"omitempty,oneof=valid expired stolen impounded"`
	ExpiresAt   *time.Time `json:"expiresAt"   db:"expires_at"`
}

func (VehicleRegistration) Collection() string { return "vehicle_registrations" }

func (v *VehicleRegistration) Normalize() {
	v.Plate = NormalizeCode(v.Plate)
	v.VIN = NormalizeCode(v.VIN)
	defaultString(&v.Status, "valid")
}
