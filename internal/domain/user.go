package domain

import "strings"

// User is a staff account that can sign in with Basic credentials.
// Password holds either a bcrypt hash or, for legacy records, the plain value.
type User struct {
	Base
	Username    string      `json:"username"    db:"username"     validate:"required,max=64"`
	Password    string      `json:"password"    db:"password"     validate:"required"`
	DisplayName string      `json:"displayName" db:"display_name" validate:"max=128"`
	Department  string      `json:"department"  db:"department"   validate:"max=128"`
	Position    string      `json:"position"    db:"position"     validate:"max=128"`
	AccessLevel AccessLevel `json:"accessLevel" db:"access_level" validate:"required,oneof=admin dispatcher officer clerk finance risk auditor"`
	Active      bool        `json:"active"      db:"active"`
}

func (User) Collection() string { return "users" }

// CreateDefaults makes new accounts active unless the request says otherwise.
func (u *User) CreateDefaults() {
	u.Active = true
}

func (u *User) Normalize() {
	u.Username = NormalizeUsername(u.Username)
	u.DisplayName = strings.TrimSpace(u.DisplayName)
}

// PasswordIsHashed reports whether the stored password is a bcrypt hash.
func (u *User) PasswordIsHashed() bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(u.Password, p) {
			return true
		}
	}
	return false
}
