package authsession

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrymomot/authkit/pkg/apiclient"
	"github.com/dmitrymomot/authkit/pkg/credstore"
)

// Store is the single source of truth for the client-side authentication
// session. It is the only component permitted to write session state, the
// persisted credential, or the HTTP client's bearer token. Safe for
// concurrent use.
type Store struct {
	client *apiclient.Client
	creds  credstore.Store
	config Config
	log    *slog.Logger
	hub    *watcherHub

	mu      sync.Mutex
	session Session
}

// New creates a session store over the given API client and credential
// storage. The store starts empty with IsLoading set; call Init to resolve
// any persisted credential against the remote API.
func New(client *apiclient.Client, creds credstore.Store, opts ...Option) *Store {
	s := &Store{
		client:  client,
		creds:   creds,
		config:  DefaultConfig(),
		log:     slog.New(slog.DiscardHandler),
		hub:     newWatcherHub(),
		session: newSession(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Snapshot returns a copy of the current session. Consumers must treat it as
// immutable; it never reflects later mutations.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone()
}

// Subscribe registers a watcher notified with a snapshot after every session
// mutation. The returned cancel function releases the watcher; it is
// idempotent. Slow watchers miss intermediate snapshots rather than blocking
// the store.
func (s *Store) Subscribe() (<-chan Session, func()) {
	return s.hub.subscribe()
}

// Init runs the one-time initialization protocol: load any persisted
// credential, establish the anti-forgery context, then resolve the current
// principal. Resolution failure is not surfaced as a user-visible error -
// the session settles as anonymous and the presumed-invalid credential is
// discarded. IsLoading is cleared unconditionally once resolution settles.
//
// The returned error is informational only (the remote API was unreachable);
// the session is in a valid anonymous shape regardless.
func (s *Store) Init(ctx context.Context) error {
	gen := s.generation()

	if token, err := s.creds.Get(ctx, credstore.TokenKey); err == nil && token != "" {
		s.client.SetToken(token)
	}

	if err := s.client.Handshake(ctx); err != nil {
		s.log.WarnContext(ctx, "anti-forgery handshake failed",
			slog.String("error", err.Error()))
	}

	resolveErr := s.resolvePrincipal(ctx, gen)
	if resolveErr != nil {
		s.log.DebugContext(ctx, "session resolution failed, starting anonymous",
			slog.String("error", resolveErr.Error()))
		s.teardown(ctx, false)
	}

	_ = s.apply(func(sess *Session) {
		sess.IsLoading = false
	})

	if resolveErr != nil && !apiclient.IsUnauthorized(resolveErr) {
		return resolveErr
	}
	return nil
}

// Revalidate silently repeats the current-principal resolution. Intended for
// foreground-visibility events while the session is marked authenticated; a
// no-op otherwise. On failure the session is torn down exactly as during
// initialization. Never returns an error and never panics the caller.
func (s *Store) Revalidate(ctx context.Context) {
	if !s.Snapshot().IsAuthenticated {
		return
	}

	if err := s.resolvePrincipal(ctx, s.generation()); err != nil {
		if errors.Is(err, ErrStaleOperation) {
			return
		}
		s.log.DebugContext(ctx, "session re-validation failed, tearing down",
			slog.String("error", err.Error()))
		s.teardown(ctx, false)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type loginResponse struct {
	TwoFactorRequired bool   `json:"two_factor_required"`
	TempToken         string `json:"temp_token"`
}

// Login refreshes the anti-forgery context and submits first-factor
// credentials. When the server requires a second factor, the session moves
// to the pending phase and the result carries the temporary token; otherwise
// the principal is resolved and the session becomes authenticated.
//
// Failures are returned verbatim as *apiclient.Error - notably a 429 keeps
// its Retry-After hint untouched so the caller can render a cooldown. The
// store never retries. A teardown completing while the login is in flight
// wins: the outcome is discarded and ErrStaleOperation returned.
func (s *Store) Login(ctx context.Context, email, password string, remember bool) (LoginResult, error) {
	gen := s.generation()

	if err := s.client.Handshake(ctx); err != nil {
		return LoginResult{}, err
	}

	var resp loginResponse
	if err := s.client.Post(ctx, s.config.LoginPath, loginRequest{
		Email:    email,
		Password: password,
		Remember: remember,
	}, &resp); err != nil {
		return LoginResult{}, err
	}

	if resp.TwoFactorRequired {
		if err := s.applyIfCurrent(gen, func(sess *Session) {
			sess.User = nil
			sess.IsAuthenticated = false
			sess.NeedsTwoFactor = true
			sess.TemporaryToken = resp.TempToken
		}); err != nil {
			return LoginResult{}, err
		}
		s.log.InfoContext(ctx, "login accepted, second factor outstanding")
		return LoginResult{TwoFactorRequired: true, TemporaryToken: resp.TempToken}, nil
	}

	if err := s.resolvePrincipal(ctx, gen); err != nil {
		return LoginResult{}, err
	}
	s.log.InfoContext(ctx, "login completed")
	return LoginResult{}, nil
}

// Register submits new-account data and, on success, resolves the principal
// and marks the session authenticated. Server validation errors are returned
// verbatim.
func (s *Store) Register(ctx context.Context, params RegisterParams) error {
	gen := s.generation()

	if err := s.client.Handshake(ctx); err != nil {
		return err
	}
	if err := s.client.Post(ctx, s.config.RegisterPath, params, nil); err != nil {
		return err
	}
	return s.resolvePrincipal(ctx, gen)
}

type verifyLoginRequest struct {
	Code      string `json:"code"`
	TempToken string `json:"temp_token"`
}

type verifyLoginResponse struct {
	Token string `json:"token"`
}

type verifyConfirmRequest struct {
	Code string `json:"code"`
}

// VerifyTwoFactor submits a TOTP code. The intent is explicit: TwoFactorLogin
// completes a pending login-time challenge with the stored temporary token and
// persists the returned permanent credential; TwoFactorConfirm re-confirms the
// factor for an already authenticated user. Both paths end by resolving the
// principal, which clears the pending sub-state.
func (s *Store) VerifyTwoFactor(ctx context.Context, code string, intent TwoFactorIntent) error {
	switch intent {
	case TwoFactorLogin:
		return s.verifyLoginTwoFactor(ctx, code)
	case TwoFactorConfirm:
		return s.verifyConfirmTwoFactor(ctx, code)
	default:
		return ErrUnknownTwoFactorIntent
	}
}

func (s *Store) verifyLoginTwoFactor(ctx context.Context, code string) error {
	s.mu.Lock()
	gen := s.session.Generation
	tempToken := s.session.TemporaryToken
	s.mu.Unlock()

	if tempToken == "" {
		return ErrNoPendingTwoFactor
	}

	var resp verifyLoginResponse
	if err := s.client.Post(ctx, s.config.LoginTwoFactorPath, verifyLoginRequest{
		Code:      code,
		TempToken: tempToken,
	}, &resp); err != nil {
		return err
	}

	// A teardown racing the verification wins; the fresh credential is
	// dropped rather than persisted into a torn-down session.
	if s.generation() != gen {
		return ErrStaleOperation
	}

	if resp.Token != "" {
		if err := s.creds.Set(ctx, credstore.TokenKey, resp.Token); err != nil {
			// The session still works for this process via the in-memory token
			s.log.WarnContext(ctx, "failed to persist credential",
				slog.String("error", err.Error()))
		}
		s.client.SetToken(resp.Token)
	}

	if err := s.resolvePrincipal(ctx, gen); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "second factor verified, login completed")
	return nil
}

func (s *Store) verifyConfirmTwoFactor(ctx context.Context, code string) error {
	gen := s.generation()
	if err := s.client.Post(ctx, s.config.TwoFactorConfirmPath, verifyConfirmRequest{Code: code}, nil); err != nil {
		return err
	}
	return s.resolvePrincipal(ctx, gen)
}

// Logout invalidates the server session on a best-effort basis and
// unconditionally tears down all local credential state: the persisted
// token, the client's bearer header, every client-held cookie, and the
// session itself. IsLoggingOut is set for the duration so consumers can
// render a blocking overlay, and is cleared regardless of outcome.
func (s *Store) Logout(ctx context.Context) {
	_ = s.apply(func(sess *Session) {
		sess.IsLoggingOut = true
	})
	defer func() {
		_ = s.apply(func(sess *Session) {
			sess.IsLoggingOut = false
		})
	}()

	if err := s.client.Post(ctx, s.config.LogoutPath, nil, nil); err != nil {
		s.log.DebugContext(ctx, "server logout failed, proceeding with local teardown",
			slog.String("error", err.Error()))
	}

	s.teardown(ctx, true)
	s.log.InfoContext(ctx, "logged out")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword requests a password-reset email. Pass-through; the server's
// message travels back verbatim.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	return s.client.Post(ctx, s.config.ForgotPasswordPath, forgotPasswordRequest{Email: email}, nil)
}

// ResetPassword consumes a reset token. On success it performs the same
// local-credential teardown as logout so a freshly reset account never
// remains in an authenticated client state. No logout side effects beyond
// that; navigation is the caller's concern.
func (s *Store) ResetPassword(ctx context.Context, params ResetPasswordParams) error {
	if err := s.client.Post(ctx, s.config.ResetPasswordPath, params, nil); err != nil {
		return err
	}
	s.teardown(ctx, true)
	return nil
}

// SendVerificationEmail asks the server to resend the address-verification
// email. Pass-through.
func (s *Store) SendVerificationEmail(ctx context.Context) error {
	return s.client.Post(ctx, s.config.VerificationEmailPath, nil, nil)
}

// CheckVerificationStatus polls the server for the account's email
// verification state. It never returns an error: any failure is treated as
// "not verified".
func (s *Store) CheckVerificationStatus(ctx context.Context) bool {
	var resp struct {
		Verified bool `json:"verified"`
	}
	if err := s.client.Get(ctx, s.config.VerificationStatusPath, &resp); err != nil {
		return false
	}
	return resp.Verified
}

// UpdateProfile submits edited profile fields and re-resolves the principal
// so the cached copy reflects the server's accepted state.
func (s *Store) UpdateProfile(ctx context.Context, params UpdateProfileParams) error {
	gen := s.generation()
	if err := s.client.Put(ctx, s.config.ProfilePath, params, nil); err != nil {
		return err
	}
	return s.resolvePrincipal(ctx, gen)
}

// UpdatePassword changes the password of an authenticated user. Pass-through;
// the existing session stays valid, the server only rotates the secret.
func (s *Store) UpdatePassword(ctx context.Context, params UpdatePasswordParams) error {
	return s.client.Put(ctx, s.config.PasswordPath, params, nil)
}

// RemoteSession describes one of the account's active sessions as reported
// by the server.
type RemoteSession struct {
	ID           string    `json:"id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	LastActiveAt time.Time `json:"last_active_at"`
	Current      bool      `json:"current"`
}

// ListRemoteSessions returns the account's active sessions.
func (s *Store) ListRemoteSessions(ctx context.Context) ([]RemoteSession, error) {
	var sessions []RemoteSession
	if err := s.client.Get(ctx, s.config.SessionsPath, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// RevokeRemoteSession asks the server to invalidate one of the account's
// sessions. Revoking the current session does not tear down local state;
// the next re-validation will.
func (s *Store) RevokeRemoteSession(ctx context.Context, id string) error {
	return s.client.Delete(ctx, s.config.SessionsPath+"/"+url.PathEscape(id), nil)
}

// RefreshUser re-resolves the principal and updates the cached profile.
// Idempotent relative to the same server-side ground truth; overlapping
// calls settle last-resolution-wins.
func (s *Store) RefreshUser(ctx context.Context) error {
	return s.resolvePrincipal(ctx, s.generation())
}

// resolvePrincipal performs the "who am I" call and, when the session
// generation still matches gen, marks the session authenticated with the
// returned profile. Callers capture gen before their first network call so a
// teardown landing anywhere in the operation invalidates the whole of it. A
// pending second factor is cleared: the server vouching for the principal is
// strictly newer truth.
func (s *Store) resolvePrincipal(ctx context.Context, gen uint64) error {
	var user User
	if err := s.client.Get(ctx, s.config.UserPath, &user); err != nil {
		return err
	}

	return s.applyIfCurrent(gen, func(sess *Session) {
		sess.User = &user
		sess.IsAuthenticated = true
		sess.NeedsTwoFactor = false
		sess.TemporaryToken = ""
	})
}

// teardown clears every piece of local credential state and resets the
// session to the anonymous shape, bumping the generation so in-flight
// operations discard their results. Cookies are dropped only on the logout
// and reset-password paths; a failed startup resolution keeps the
// anti-forgery cookie so the next login does not need a second handshake.
func (s *Store) teardown(ctx context.Context, dropCookies bool) {
	if err := s.creds.Delete(ctx, credstore.TokenKey); err != nil {
		s.log.WarnContext(ctx, "failed to discard persisted credential",
			slog.String("error", err.Error()))
	}
	s.client.ClearToken()
	if dropCookies {
		s.client.ResetCookies()
	}

	_ = s.apply(func(sess *Session) {
		*sess = Session{
			IsLoading:  sess.IsLoading,
			Generation: sess.Generation + 1,
		}
	})
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Generation
}

// apply mutates the session under the store lock, validating the structural
// invariants and the phase transition table, then notifies watchers with the
// new snapshot.
func (s *Store) apply(mutate func(*Session)) error {
	s.mu.Lock()
	current := s.session
	next := current.clone()
	mutate(&next)

	if !next.valid() || !canTransition(current.Phase(), next.Phase()) {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	s.session = next
	snapshot := next.clone()
	s.mu.Unlock()

	s.hub.notify(snapshot)
	return nil
}

// applyIfCurrent applies the mutation only when the session generation still
// matches gen; otherwise the result is stale (a teardown won the race) and
// is discarded.
func (s *Store) applyIfCurrent(gen uint64, mutate func(*Session)) error {
	s.mu.Lock()
	if s.session.Generation != gen {
		s.mu.Unlock()
		return ErrStaleOperation
	}

	current := s.session
	next := current.clone()
	mutate(&next)

	if !next.valid() || !canTransition(current.Phase(), next.Phase()) {
		s.mu.Unlock()
		return ErrInvalidTransition
	}

	s.session = next
	snapshot := next.clone()
	s.mu.Unlock()

	s.hub.notify(snapshot)
	return nil
}
