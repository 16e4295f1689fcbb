// Package authsession implements the client-side authentication session
// store: the single source of truth for whether a user is authenticated,
// whether a second factor is outstanding, and how the persisted bearer
// credential moves between durable storage and the HTTP client.
//
// A Store mediates every state transition. Consumers read immutable Session
// snapshots and subscribe for change notifications; nothing else is allowed
// to write session state or touch credential storage.
//
// # Architecture
//
// The store is a small state machine over four phases - anonymous,
// pending second factor, authenticated, logging out - with an explicit
// transition table checked on every mutation. Two structural invariants are
// enforced unconditionally: a pending second factor and a fully
// authenticated session are mutually exclusive, and a user profile is held
// iff the session is authenticated.
//
// Asynchronous operations capture the session generation when they start and
// discard their result if a logout or password reset has advanced it in the
// meantime, so a slow "who am I" response can never resurrect a session that
// was just torn down.
//
// # Usage
//
//	store := authsession.New(client, creds)
//	if err := store.Init(ctx); err != nil {
//		// remote API unreachable; session settles as anonymous
//	}
//
//	result, err := store.Login(ctx, email, password, true)
//	switch {
//	case apiclient.IsRateLimited(err):
//		// render cooldown from RetryAfterSeconds
//	case err != nil:
//		// render the message verbatim
//	case result.TwoFactorRequired:
//		// hand control to the 2FA verification flow
//	}
//
// Every operation either leaves the session in a stated valid shape or
// returns the normalized API error untouched; partial updates do not occur.
package authsession
