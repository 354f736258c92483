package seeder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

// Fixtures is the YAML document consumed by the pipeline.
type Fixtures struct {
	Users          []UserFixture     `yaml:"users"`
	Units          []UnitFixture     `yaml:"units"`
	AuditTemplates []TemplateFixture `yaml:"audit_templates"`
}

// UserFixture describes one staff account. Password may be plain text or a
// bcrypt hash. Accounts are active unless active: false is given.
type UserFixture struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
	Department  string `yaml:"department"`
	Position    string `yaml:"position"`
	AccessLevel string `yaml:"access_level"`
	Active      *bool  `yaml:"active"`
}

// UnitFixture describes one response unit.
type UnitFixture struct {
	CallSign string `yaml:"call_sign"`
	UnitType string `yaml:"unit_type"`
	Station  string `yaml:"station"`
}

// TemplateFixture describes one audit template.
type TemplateFixture struct {
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Checklist string `yaml:"checklist"`
	Version   int    `yaml:"version"`
}

// LoadFixtures reads and decodes the fixtures file at path.
func LoadFixtures(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	return ParseFixtures(f)
}

// ParseFixtures decodes a fixtures document. Unknown keys are rejected.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

func (f UserFixture) toDomain() (domain.User, error) {
	level := domain.AccessLevel(f.AccessLevel)
	switch {
	case f.Username == "":
		return domain.User{}, domain.NewValidationError("username", "required")
	case f.Password == "":
		return domain.User{}, domain.NewValidationError("password", "required")
	case !level.IsValid():
		return domain.User{}, domain.NewValidationError("access_level", fmt.Sprintf("unknown level %q", f.AccessLevel))
	}

	active := true
	if f.Active != nil {
		active = *f.Active
	}

	return domain.User{
		Username:    f.Username,
		Password:    f.Password,
		DisplayName: f.DisplayName,
		Department:  f.Department,
		Position:    f.Position,
		AccessLevel: level,
		Active:      active,
	}, nil
}

func (f UnitFixture) toDomain() (domain.Unit, error) {
	switch {
	case domain.NormalizeCode(f.CallSign) == "":
		return domain.Unit{}, domain.NewValidationError("call_sign", "required")
	case f.UnitType == "":
		return domain.Unit{}, domain.NewValidationError("unit_type", "required")
	}

	u := domain.Unit{CallSign: f.CallSign, UnitType: f.UnitType, Station: f.Station}
	u.Normalize()
	return u, nil
}

func (f TemplateFixture) toDomain() (domain.AuditTemplate, error) {
	if f.Name == "" {
		return domain.AuditTemplate{}, domain.NewValidationError("name", "required")
	}

	t := domain.AuditTemplate{Name: f.Name, Category: f.Category, Checklist: f.Checklist, Version: f.Version}
	t.Normalize()
	return t, nil
}
