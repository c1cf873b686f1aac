package domain

// ProfileStatus is the tri-state profile-completeness flag of an Identity.
type ProfileStatus int

const (
	// ProfileUnknown means the backend has not been asked yet.
	ProfileUnknown ProfileStatus = iota
	// ProfilePresent means a profile record exists.
	ProfilePresent
	// ProfileMissing means the user still has to onboard.
	ProfileMissing
)

// ProfileStatusOf converts a resolved boolean into a ProfileStatus.
func ProfileStatusOf(has bool) ProfileStatus {
	if has {
		return ProfilePresent
	}
	return ProfileMissing
}

// Resolved reports whether the status is either present or missing.
func (p ProfileStatus) Resolved() bool {
	return p == ProfilePresent || p == ProfileMissing
}

// CanBecome reports whether p may move to next. An unknown status may
// resolve either way; a resolved one only moves from missing to present.
func (p ProfileStatus) CanBecome(next ProfileStatus) bool {
	switch {
	case p == next, p == ProfileUnknown:
		return true
	default:
		return p == ProfileMissing && next == ProfilePresent
	}
}

func (p ProfileStatus) String() string {
	switch p {
	case ProfilePresent:
		return "present"
	case ProfileMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Identity represents an authenticated principal.
// ID and Token are always set together.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	Token       string
	HasProfile  ProfileStatus
}

// Valid reports whether the identity carries both an id and a token.
func (i *Identity) Valid() bool {
	return i != nil && i.ID != "" && i.Token != ""
}

// Clone returns a copy that callers may mutate freely.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// SessionStatus is the state of the session state machine.
type SessionStatus string

const (
	StatusLoggedOut      SessionStatus = "logged_out"
	StatusAuthenticating SessionStatus = "authenticating"
	StatusProfileUnknown SessionStatus = "logged_in_profile_unknown"
	StatusHasProfile     SessionStatus = "logged_in_has_profile"
	StatusNoProfile      SessionStatus = "logged_in_no_profile"
)

// SessionState is the snapshot handed to observers of the session.
// Identity is nil while logged out. Pending is true exactly while a
// login, register or profile-check call is outstanding.
type SessionState struct {
	Identity *Identity
	Pending  bool
}

// Status derives the state-machine state from the snapshot.
func (s SessionState) Status() SessionStatus {
	if s.Identity == nil {
		if s.Pending {
			return StatusAuthenticating
		}
		return StatusLoggedOut
	}
	switch s.Identity.HasProfile {
	case ProfilePresent:
		return StatusHasProfile
	case ProfileMissing:
		return StatusNoProfile
	default:
		return StatusProfileUnknown
	}
}

// LoggedIn reports whether an identity is present.
func (s SessionState) LoggedIn() bool {
	return s.Identity != nil
}

// TargetView is the profile gate: where the presentation layer should route.
func (s SessionState) TargetView() View {
	if s.Identity == nil {
		return ViewLanding
	}
	if s.Identity.HasProfile == ProfilePresent {
		return ViewHome
	}
	return ViewOnboarding
}
