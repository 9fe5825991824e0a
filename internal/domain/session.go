package domain

// Mode selects which backing store serves a gateway call.
type Mode string

const (
	// ModeLocal operates against the local snapshot store.
	ModeLocal Mode = "local"
	// ModeRemote operates against the per-owner remote document store.
	// It additionally requires an authenticated session; without one the
	// gateway silently resolves the call to ModeLocal.
	ModeRemote Mode = "remote"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeLocal || m == ModeRemote
}

// Session carries the caller's identity for the duration of one request.
// The zero value is the unauthenticated demo session.
type Session struct {
	// OwnerID is the authenticated identifier used to partition remote
	// records per user. Empty for demo sessions.
	OwnerID string
}

// Authenticated reports whether the session carries an owner identity.
func (s Session) Authenticated() bool {
	return s.OwnerID != ""
}

// DefaultMode returns the mode the UI layer passes when the user has not
// chosen explicitly: remote for authenticated sessions, local otherwise.
func (s Session) DefaultMode() Mode {
	if s.Authenticated() {
		return ModeRemote
	}
	return ModeLocal
}
