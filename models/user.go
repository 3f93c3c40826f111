package models

// Role is the closed set of account roles. Authorization code should go
// through the predicates instead of comparing the raw string.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// CanModerate reports whether the role may edit or delete any resource
// regardless of ownership.
func (r Role) CanModerate() bool {
	return r == RoleAdmin
}

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"password,omitempty"` // bcrypt hash, stored under the legacy "password" key
	Role         Role   `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
}

// Sanitized returns a copy safe to send to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
