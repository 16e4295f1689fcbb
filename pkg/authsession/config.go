package authsession

// Config holds the remote API paths the store talks to
type Config struct {
	UserPath               string `env:"AUTH_USER_PATH" envDefault:"/api/user"`
	LoginPath              string `env:"AUTH_LOGIN_PATH" envDefault:"/api/login"`
	LoginTwoFactorPath     string `env:"AUTH_LOGIN_2FA_PATH" envDefault:"/api/login/verify-2fa"`
	TwoFactorConfirmPath   string `env:"AUTH_2FA_CONFIRM_PATH" envDefault:"/api/2fa/verify"`
	RegisterPath           string `env:"AUTH_REGISTER_PATH" envDefault:"/api/register"`
	LogoutPath             string `env:"AUTH_LOGOUT_PATH" envDefault:"/api/logout"`
	ForgotPasswordPath     string `env:"AUTH_FORGOT_PASSWORD_PATH" envDefault:"/api/forgot-password"`
	ResetPasswordPath      string `env:"AUTH_RESET_PASSWORD_PATH" envDefault:"/api/reset-password"`
	VerificationEmailPath  string `env:"AUTH_VERIFICATION_EMAIL_PATH" envDefault:"/api/email/verification-notification"`
	VerificationStatusPath string `env:"AUTH_VERIFICATION_STATUS_PATH" envDefault:"/api/email/verification-status"`
	ProfilePath            string `env:"AUTH_PROFILE_PATH" envDefault:"/api/user/profile"`
	PasswordPath           string `env:"AUTH_PASSWORD_PATH" envDefault:"/api/user/password"`
	SessionsPath           string `env:"AUTH_SESSIONS_PATH" envDefault:"/api/sessions"`
}

// DefaultConfig returns default store configuration
func DefaultConfig() Config {
	return Config{
		UserPath:               "/api/user",
		LoginPath:              "/api/login",
		LoginTwoFactorPath:     "/api/login/verify-2fa",
		TwoFactorConfirmPath:   "/api/2fa/verify",
		RegisterPath:           "/api/register",
		LogoutPath:             "/api/logout",
		ForgotPasswordPath:     "/api/forgot-password",
		ResetPasswordPath:      "/api/reset-password",
		VerificationEmailPath:  "/api/email/verification-notification",
		VerificationStatusPath: "/api/email/verification-status",
		ProfilePath:            "/api/user/profile",
		PasswordPath:           "/api/user/password",
		SessionsPath:           "/api/sessions",
	}
}
