package authsession

// LoginResult reports the outcome of an accepted first-factor submission.
type LoginResult struct {
	// TwoFactorRequired is true when the server accepted the credentials but
	// requires a second factor before issuing a session
	TwoFactorRequired bool

	// TemporaryToken is the short-lived credential to complete verification
	// with, set iff TwoFactorRequired
	TemporaryToken string
}

// TwoFactorIntent selects which verification endpoint a code is submitted
// to. The caller states its intent explicitly; the store never infers it
// from incidental session state.
type TwoFactorIntent string

const (
	// TwoFactorLogin completes a login-time challenge using the pending
	// temporary token
	TwoFactorLogin TwoFactorIntent = "login"

	// TwoFactorConfirm re-confirms the second factor for an already
	// authenticated user
	TwoFactorConfirm TwoFactorIntent = "confirm"
)

// RegisterParams holds new-account data
type RegisterParams struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ResetPasswordParams holds the reset-token consumption data
type ResetPasswordParams struct {
	Email                string `json:"email"`
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// UpdateProfileParams holds editable profile fields
type UpdateProfileParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdatePasswordParams holds a password change for an authenticated user
type UpdatePasswordParams struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}
