package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/muesli/termenv"
)

// Printer writes colored status lines. The zero value is not usable; use
// NewPrinter.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
}

// NewPrinter detects the color support of w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, profile: termenv.NewOutput(w).Profile}
}

// NewPlainPrinter never emits escape codes.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w, profile: termenv.Ascii}
}

// Outcome prints one outcome as a check or cross line.
func (p *Printer) Outcome(o domain.Outcome) {
	if o.Success {
		fmt.Fprintf(p.w, "%s %s\n", p.color("✓", "#22c55e"), o.Message)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.color("✗", "#ef4444"), o.Message)
}

// Session prints who is logged in and where the profile gate routes them.
func (p *Printer) Session(s domain.SessionState) {
	if !s.LoggedIn() {
		fmt.Fprintf(p.w, "%s logged out\n", p.color("●", "#9ca3af"))
		return
	}

	id := s.Identity
	name := id.DisplayName
	if name == "" {
		name = id.Email
	}

	var dot termenv.Style
	var next string
	switch s.Status() {
	case domain.StatusHasProfile:
		dot, next = p.color("●", "#22c55e"), "ready to plan"
	case domain.StatusNoProfile:
		dot, next = p.color("●", "#f59e0b"), "run `wanderbuddy profile create` to finish onboarding"
	default:
		dot, next = p.color("●", "#60a5fa"), "checking profile"
	}
	fmt.Fprintf(p.w, "%s %s (%s)\n", dot, name, id.ID)
	fmt.Fprintf(p.w, "  profile: %s, %s\n", id.HasProfile, next)
}

func (p *Printer) color(s, hex string) termenv.Style {
	return p.profile.String(s).Foreground(p.profile.Color(hex))
}
