package guard

import (
	"slices"

	"github.com/dmitrymomot/authkit/pkg/authsession"
)

// DecisionKind classifies a guard outcome.
type DecisionKind string

const (
	// Allow means the view renders its children
	Allow DecisionKind = "allow"
	// Loading means a neutral loading state renders; nothing is decided yet
	Loading DecisionKind = "loading"
	// Redirect means navigation to Target must happen instead of rendering
	Redirect DecisionKind = "redirect"
)

// Decision is the outcome of evaluating a guard at a location.
type Decision struct {
	Kind DecisionKind

	// Target is the redirect destination, set iff Kind is Redirect
	Target string

	// Intended carries the originally requested location so the login flow
	// can return the user there afterwards
	Intended string
}

// Paths holds the view locations the guards decide between
type Paths struct {
	// Login is the anonymous entry view
	Login string `env:"GUARD_LOGIN_PATH" envDefault:"/login"`

	// TwoFactor is the second-factor verification view
	TwoFactor string `env:"GUARD_TWO_FACTOR_PATH" envDefault:"/login/verify-2fa"`

	// Landing is the default authenticated landing view
	Landing string `env:"GUARD_LANDING_PATH" envDefault:"/dashboard"`

	// ResetPaths are the password-reset views that stay reachable even while
	// authenticated
	ResetPaths []string `env:"GUARD_RESET_PATHS" envSeparator:"," envDefault:"/forgot-password,/reset-password"`
}

// DefaultPaths returns the default view locations
func DefaultPaths() Paths {
	return Paths{
		Login:      "/login",
		TwoFactor:  "/login/verify-2fa",
		Landing:    "/dashboard",
		ResetPaths: []string{"/forgot-password", "/reset-password"},
	}
}

// SessionSource supplies the session snapshot guards decide from.
// *authsession.Store satisfies it.
type SessionSource interface {
	Snapshot() authsession.Session
}

// Guard evaluates route decisions against a session source.
type Guard struct {
	source SessionSource
	paths  Paths
}

// Option configures the guard
type Option func(*Guard)

// WithPaths replaces the default view locations.
func WithPaths(p Paths) Option {
	return func(g *Guard) {
		g.paths = p
	}
}

// New creates a guard over the given session source.
func New(source SessionSource, opts ...Option) *Guard {
	g := &Guard{
		source: source,
		paths:  DefaultPaths(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protected decides whether a protected view at path may render. Any panic
// reading the session fails closed to the login redirect.
func (g *Guard) Protected(path string) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = Decision{Kind: Redirect, Target: g.paths.Login}
		}
	}()
	return ProtectedDecision(g.source.Snapshot(), path, g.paths)
}

// Public decides whether a public view at path may render. intended is an
// optional destination hint attached to the navigation; it is preserved on
// the redirect. Panics fail closed to the login redirect.
func (g *Guard) Public(path, intended string) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = Decision{Kind: Redirect, Target: g.paths.Login}
		}
	}()
	return PublicDecision(g.source.Snapshot(), path, intended, g.paths)
}

// ProtectedDecision is the pure decision function behind Guard.Protected.
//
// The pending second factor is checked before authentication so that a
// snapshot carrying both flags still forces the verification view; a user is
// never shown protected content while a second factor is outstanding.
func ProtectedDecision(sess authsession.Session, path string, paths Paths) Decision {
	if sess.IsLoading {
		return Decision{Kind: Loading}
	}

	if sess.NeedsTwoFactor {
		if path != paths.TwoFactor {
			return Decision{Kind: Redirect, Target: paths.TwoFactor}
		}
		return Decision{Kind: Allow}
	}

	if !sess.IsAuthenticated {
		return Decision{Kind: Redirect, Target: paths.Login, Intended: path}
	}

	return Decision{Kind: Allow}
}

// PublicDecision is the pure decision function behind Guard.Public.
func PublicDecision(sess authsession.Session, path, intended string, paths Paths) Decision {
	if sess.IsLoading {
		return Decision{Kind: Loading}
	}

	if sess.IsAuthenticated && !slices.Contains(paths.ResetPaths, path) {
		target := paths.Landing
		if intended != "" {
			target = intended
		}
		return Decision{Kind: Redirect, Target: target, Intended: intended}
	}

	return Decision{Kind: Allow}
}
