package models

import "time"

// Identity is the caller resolved from a session. The zero value is anonymous.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Anonymous is the identity of a caller without a valid session.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool { return i.UserID == "" }

func (i Identity) IsAdmin() bool { return !i.IsAnonymous() && i.Role == RoleAdmin }

// Session is the server-side record behind the session cookie.
// Identity fields are copied at login and never refreshed.
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Username: s.Username, Role: NormalizeRole(string(s.Role))}
}
