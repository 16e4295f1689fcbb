package authsession

// Session is the authoritative client-side authentication snapshot. Values
// handed to consumers are copies; mutating one has no effect on the store.
type Session struct {
	// User is the cached profile of the authenticated principal, nil otherwise
	User *User `json:"user,omitempty"`

	// IsAuthenticated is true iff User is present
	IsAuthenticated bool `json:"is_authenticated"`

	// IsLoading is true during the initial session resolution; consumers
	// must render a neutral loading state while set
	IsLoading bool `json:"is_loading"`

	// NeedsTwoFactor is true when credentials were accepted but a second
	// factor is outstanding; mutually exclusive with IsAuthenticated
	NeedsTwoFactor bool `json:"needs_two_factor"`

	// TemporaryToken is the short-lived credential issued after first-factor
	// success, present iff NeedsTwoFactor is true
	TemporaryToken string `json:"-"`

	// IsLoggingOut distinguishes "logout in progress" from "not authenticated"
	IsLoggingOut bool `json:"is_logging_out"`

	// Generation increases monotonically on every teardown; in-flight
	// operations discard their result when it has advanced
	Generation uint64 `json:"-"`
}

// newSession returns the empty snapshot the store starts from: anonymous and
// still loading.
func newSession() Session {
	return Session{IsLoading: true}
}

// Phase derives the state-machine phase from the snapshot.
func (s Session) Phase() Phase {
	switch {
	case s.IsLoggingOut:
		return PhaseLoggingOut
	case s.NeedsTwoFactor:
		return PhasePendingTwoFactor
	case s.IsAuthenticated:
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

// valid reports whether the snapshot satisfies the structural invariants.
func (s Session) valid() bool {
	if s.NeedsTwoFactor && s.IsAuthenticated {
		return false
	}
	if (s.User != nil) != s.IsAuthenticated {
		return false
	}
	if s.NeedsTwoFactor != (s.TemporaryToken != "") {
		return false
	}
	return true
}

func (s Session) clone() Session {
	c := s
	c.User = s.User.clone()
	return c
}
