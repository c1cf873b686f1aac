package domain

// View names the screen the presentation layer should show.
// The core only emits it; routing is up to the caller.
type View string

const (
	ViewLanding    View = "landing"
	ViewOnboarding View = "onboarding"
	ViewHome       View = "home"
)
