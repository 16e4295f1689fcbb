package authsession

// Phase is a state of the client-side authentication machine.
type Phase string

const (
	// PhaseAnonymous means no credentials are established
	PhaseAnonymous Phase = "anonymous"
	// PhasePendingTwoFactor means the first factor was accepted and a second
	// factor is outstanding
	PhasePendingTwoFactor Phase = "pending_two_factor"
	// PhaseAuthenticated means a principal is resolved and protected content
	// may be rendered
	PhaseAuthenticated Phase = "authenticated"
	// PhaseLoggingOut means local teardown is in progress
	PhaseLoggingOut Phase = "logging_out"
)

// transitions is the allowed phase transition table. Self-loops cover
// idempotent refreshes; every phase may fall back to anonymous because
// teardown (logout, password reset, failed re-validation) always wins.
// Logging-out never leads anywhere but anonymous.
var transitions = map[Phase]map[Phase]bool{
	PhaseAnonymous: {
		PhaseAnonymous:        true,
		PhasePendingTwoFactor: true,
		PhaseAuthenticated:    true,
		PhaseLoggingOut:       true,
	},
	PhasePendingTwoFactor: {
		PhasePendingTwoFactor: true,
		PhaseAuthenticated:    true,
		PhaseAnonymous:        true,
		PhaseLoggingOut:       true,
	},
	PhaseAuthenticated: {
		PhaseAuthenticated: true,
		PhaseLoggingOut:    true,
		PhaseAnonymous:     true,
	},
	PhaseLoggingOut: {
		PhaseLoggingOut: true,
		PhaseAnonymous:  true,
	},
}

// canTransition reports whether moving from one phase to another is allowed.
func canTransition(from, to Phase) bool {
	return transitions[from][to]
}
