package authsession

import (
	"time"

	"github.com/google/uuid"
)

// User is the client-side cached copy of the authenticated principal's
// profile. The server owns it; the store refreshes it via the
// current-principal endpoint.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at,omitempty"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP      string     `json:"last_login_ip,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsEmailVerified reports whether the account's email address is verified.
func (u *User) IsEmailVerified() bool {
	return u != nil && u.EmailVerifiedAt != nil
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
