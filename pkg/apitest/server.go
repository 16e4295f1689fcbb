package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	xsrfCookieName    = "XSRF-TOKEN"
	xsrfHeaderName    = "X-XSRF-TOKEN"
	sessionCookieName = "stub_session"

	// The value is stored URL-encoded in the cookie so tests exercise the
	// client's percent-decoding, the way frameworks encode it on the wire.
	xsrfValue = "stub-xsrf==token"
)

// Server is an in-process stub of the remote authentication API.
type Server struct {
	srv *httptest.Server

	mu sync.Mutex

	email    string
	password string
	userID   uuid.UUID
	name     string

	twoFactorRequired bool
	validCode         string
	tempToken         string
	permToken         string

	sessionValue string // non-empty while the cookie session is valid
	whoamiFails  bool
	whoamiDelay  time.Duration
	loginDelay   time.Duration
	logoutFails  bool
	verified     bool

	rateLimited bool
	retryAfter  int

	// Call counters for asserting best-effort semantics
	LoginCalls  int
	LogoutCalls int
	WhoamiCalls int
}

// Option configures the stub server
type Option func(*Server)

// WithAccount sets the one account the stub accepts credentials for.
func WithAccount(email, password string) Option {
	return func(s *Server) {
		s.email = email
		s.password = password
	}
}

// WithTwoFactor makes login require a second factor: the stub responds with
// tempToken, accepts code against it, and issues permToken as the permanent
// bearer credential.
func WithTwoFactor(code, tempToken, permToken string) Option {
	return func(s *Server) {
		s.twoFactorRequired = true
		s.validCode = code
		s.tempToken = tempToken
		s.permToken = permToken
	}
}

// WithVerifiedEmail marks the account's email as verified.
func WithVerifiedEmail() Option {
	return func(s *Server) {
		s.verified = true
	}
}

// NewServer starts the stub and registers shutdown with t.Cleanup.
func NewServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		email:    "user@example.com",
		password: "password",
		userID:   uuid.New(),
		name:     "Stub User",
	}

	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/sanctum/csrf-cookie", s.handleHandshake)
	r.Get("/api/user", s.handleWhoami)
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/login/verify-2fa", s.handleVerifyLogin)
	r.Post("/api/2fa/verify", s.handleVerifyConfirm)
	r.Post("/api/register", s.handleRegister)
	r.Post("/api/logout", s.handleLogout)
	r.Post("/api/forgot-password", s.handleOK)
	r.Post("/api/reset-password", s.handleResetPassword)
	r.Post("/api/email/verification-notification", s.handleOK)
	r.Get("/api/email/verification-status", s.handleVerificationStatus)
	r.Put("/api/user/profile", s.handleUpdateProfile)
	r.Put("/api/user/password", s.handleUpdatePassword)
	r.Get("/api/sessions", s.handleListSessions)
	r.Delete("/api/sessions/{id}", s.handleRevokeSession)

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the stub's base URL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Authenticate marks the cookie session valid, as if a login had happened in
// an earlier process lifetime. The caller's client still needs the session
// cookie or bearer token; use IssueToken for token-based flows.
func (s *Server) Authenticate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionValue = "pre-authenticated"
}

// IssueToken makes the stub accept bearer as a valid credential.
func (s *Server) IssueToken(bearer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permToken = bearer
}

// FailWhoami makes the current-principal endpoint return 401 regardless of
// credentials until restored.
func (s *Server) FailWhoami(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whoamiFails = fail
}

// FailLogout makes the logout endpoint return 500, for asserting that local
// teardown proceeds regardless.
func (s *Server) FailLogout(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutFails = fail
}

// DelayWhoami delays the current-principal response, for racing it against
// teardown operations.
func (s *Server) DelayWhoami(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whoamiDelay = d
}

// DelayLogin delays the login response, for racing a login in flight against
// teardown operations.
func (s *Server) DelayLogin(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginDelay = d
}

// RateLimit makes login respond 429 with the given Retry-After seconds.
func (s *Server) RateLimit(retryAfterSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimited = true
	s.retryAfter = retryAfterSeconds
}

// Counters returns the login/logout/whoami call counts.
func (s *Server) Counters() (login, logout, whoami int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LoginCalls, s.LogoutCalls, s.WhoamiCalls
}

func (s *Server) handleHandshake(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:  xsrfCookieName,
		Value: url.QueryEscape(xsrfValue),
		Path:  "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// authorized reports whether the request carries a valid cookie session or
// the issued bearer token.
func (s *Server) authorized(r *http.Request) bool {
	if c, err := r.Cookie(sessionCookieName); err == nil && s.sessionValue != "" && c.Value == s.sessionValue {
		return true
	}
	if s.permToken != "" && r.Header.Get("Authorization") == "Bearer "+s.permToken {
		return true
	}
	// A pre-authenticated session accepts any cookie-less request holding
	// the marker value via Authenticate; token flows go through the branch
	// above.
	if s.sessionValue == "pre-authenticated" {
		return true
	}
	return false
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delay := s.whoamiDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.WhoamiCalls++

	if s.whoamiFails || !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	var verifiedAt *time.Time
	if s.verified {
		at := time.Now().Add(-24 * time.Hour).UTC()
		verifiedAt = &at
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":                 s.userID,
		"name":               s.name,
		"email":              s.email,
		"email_verified_at":  verifiedAt,
		"two_factor_enabled": s.twoFactorRequired,
		"created_at":         time.Now().Add(-30 * 24 * time.Hour).UTC(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	delay := s.loginDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoginCalls++

	if s.rateLimited {
		w.Header().Set("Retry-After", strconv.Itoa(s.retryAfter))
		writeError(w, http.StatusTooManyRequests, "Too many login attempts.")
		return
	}

	if !s.checkXSRF(r) {
		writeError(w, http.StatusForbidden, "CSRF token mismatch.")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Email != s.email || req.Password != s.password {
		writeError(w, http.StatusUnprocessableEntity, "These credentials do not match our records.")
		return
	}

	if s.twoFactorRequired {
		writeJSON(w, http.StatusOK, map[string]any{
			"two_factor_required": true,
			"temp_token":          s.tempToken,
		})
		return
	}

	s.startSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerifyLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Code      string `json:"code"`
		TempToken string `json:"temp_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.TempToken != s.tempToken || req.Code != s.validCode {
		writeError(w, http.StatusUnprocessableEntity, "The provided code is invalid.")
		return
	}

	s.startSession(w)
	writeJSON(w, http.StatusOK, map[string]any{"token": s.permToken})
}

func (s *Server) handleVerifyConfirm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code != s.validCode {
		writeError(w, http.StatusUnprocessableEntity, "The provided code is invalid.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"email": {"The email field is required."}},
		})
		return
	}

	s.email = req.Email
	s.password = req.Password
	if req.Name != "" {
		s.name = req.Name
	}
	s.startSession(w)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LogoutCalls++

	if s.logoutFails {
		writeError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	s.sessionValue = ""
	s.permToken = ""
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusUnprocessableEntity, "This password reset token is invalid.")
		return
	}

	// A reset invalidates every outstanding credential
	s.password = req.Password
	s.sessionValue = ""
	s.permToken = ""
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleVerificationStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verified": s.verified})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "The email field is required.")
		return
	}

	s.name = req.Name
	s.email = req.Email
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		Password        string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentPassword != s.password {
		writeError(w, http.StatusUnprocessableEntity, "The provided password does not match your current password.")
		return
	}

	s.password = req.Password
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	writeJSON(w, http.StatusOK, []map[string]any{
		{
			"id":             "sess-current",
			"ip_address":     "203.0.113.7",
			"user_agent":     "authkit test",
			"last_active_at": time.Now().UTC(),
			"current":        true,
		},
		{
			"id":             "sess-other",
			"ip_address":     "198.51.100.23",
			"user_agent":     "another device",
			"last_active_at": time.Now().Add(-2 * time.Hour).UTC(),
			"current":        false,
		},
	})
}

func (s *Server) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}

	if chi.URLParam(r, "id") == "" {
		writeError(w, http.StatusNotFound, "Session not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOK(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkXSRF(r *http.Request) bool {
	return r.Header.Get(xsrfHeaderName) == xsrfValue
}

func (s *Server) startSession(w http.ResponseWriter) {
	s.sessionValue = uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookieName,
		Value: s.sessionValue,
		Path:  "/",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
