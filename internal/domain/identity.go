package domain

// Identity is the authenticated staff member attached to a request.
type Identity struct {
	UserID      int64       `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Department  string      `json:"department"`
	Position    string      `json:"position"`
	AccessLevel AccessLevel `json:"accessLevel"`
}

// IdentityOf builds the request identity of u.
func IdentityOf(u User) Identity {
	return Identity{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Department:  u.Department,
		Position:    u.Position,
		AccessLevel: u.AccessLevel,
	}
}

// HasAccess reports whether the identity's level is one of levels.
func (i Identity) HasAccess(levels ...AccessLevel) bool {
	for _, l := range levels {
		if i.AccessLevel == l {
			return true
		}
	}
	return false
}
