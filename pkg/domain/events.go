package domain

import (
	"context"
	"time"
)

// EventType defines the category of an outcome.
type EventType string

const (
	EventLogin               EventType = "login"
	EventRegister            EventType = "register"
	EventLogout              EventType = "logout"
	EventProfileChecked      EventType = "profile_checked"
	EventProfileCreated      EventType = "profile_created"
	EventPackagesReady       EventType = "packages_ready"
	EventPackagesFailed      EventType = "packages_failed"
	EventItinerarySaved      EventType = "itinerary_saved"
	EventItinerarySaveFailed EventType = "itinerary_save_failed"
)

// Outcome is the labeled result of a core operation. The presentation
// layer decides how to surface it (toast, log line, exit code).
type Outcome struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Success   bool      `json:"success"`
	// Message is human readable and safe to show to the traveler.
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// NewOutcome stamps an outcome with the current time.
func NewOutcome(t EventType, success bool, message string, err error) Outcome {
	return Outcome{
		Timestamp: time.Now(),
		Type:      t,
		Success:   success,
		Message:   message,
		Err:       err,
	}
}

// Hooks defines callbacks for outcome observability.
type Hooks struct {
	OnOutcome func(context.Context, Outcome)
}

// Emit calls OnOutcome if it is set.
func (h Hooks) Emit(ctx context.Context, o Outcome) {
	if h.OnOutcome != nil {
		h.OnOutcome(ctx, o)
	}
}
