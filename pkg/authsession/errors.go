package authsession

import "errors"

var (
	// ErrNoPendingTwoFactor indicates a login-time verification was attempted
	// without an active temporary token
	ErrNoPendingTwoFactor = errors.New("authsession.no_pending_two_factor")

	// ErrUnknownTwoFactorIntent indicates an unrecognized verification intent
	ErrUnknownTwoFactorIntent = errors.New("authsession.unknown_two_factor_intent")

	// ErrInvalidTransition indicates a session mutation violated the phase
	// transition table
	ErrInvalidTransition = errors.New("authsession.invalid_transition")

	// ErrStaleOperation indicates an operation's result was discarded because
	// the session generation advanced while it was in flight
	ErrStaleOperation = errors.New("authsession.stale_operation")

	// ErrNotAuthenticated indicates an operation that requires an
	// authenticated session was called without one
	ErrNotAuthenticated = errors.New("authsession.not_authenticated")
)
