package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wanderbuddy/pkg/domain"
)

type edge struct {
	from, to domain.SessionStatus
	label    string
}

// sessionEdges is the session state machine, profile gate included.
var sessionEdges = []edge{
	{domain.StatusLoggedOut, domain.StatusAuthenticating, "login / register"},
	{domain.StatusAuthenticating, domain.StatusLoggedOut, "rejected"},
	{domain.StatusAuthenticating, domain.StatusHasProfile, "profile found"},
	{domain.StatusAuthenticating, domain.StatusNoProfile, "404 / unreachable"},
	{domain.StatusLoggedOut, domain.StatusProfileUnknown, "restore"},
	{domain.StatusProfileUnknown, domain.StatusHasProfile, "profile found"},
	{domain.StatusProfileUnknown, domain.StatusNoProfile, "404 / unreachable"},
	{domain.StatusNoProfile, domain.StatusHasProfile, "create profile"},
	{domain.StatusHasProfile, domain.StatusLoggedOut, "logout"},
	{domain.StatusNoProfile, domain.StatusLoggedOut, "logout"},
}

var labels = map[domain.SessionStatus]string{
	domain.StatusLoggedOut:      "Logged out",
	domain.StatusAuthenticating: "Authenticating",
	domain.StatusProfileUnknown: "Logged in, profile unknown",
	domain.StatusHasProfile:     "Home",
	domain.StatusNoProfile:      "Onboarding",
}

// SessionMermaid produces a Mermaid flowchart of the session lifecycle.
// Shapes:
// - LoggedOut: ((Circle))
// - transient states: [/Parallelogram/]
// - routed views: [Rectangle]
// current, when set, is highlighted.
func SessionMermaid(current domain.SessionStatus) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range []domain.SessionStatus{
		domain.StatusLoggedOut,
		domain.StatusAuthenticating,
		domain.StatusProfileUnknown,
		domain.StatusNoProfile,
		domain.StatusHasProfile,
	} {
		opener, closer := "[", "]"
		switch s {
		case domain.StatusLoggedOut:
			opener, closer = "((", "))"
		case domain.StatusAuthenticating, domain.StatusProfileUnknown:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(string(s)), opener, labels[s], closer))
	}

	for _, e := range sessionEdges {
		label := strings.ReplaceAll(e.label, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(string(e.from)), label, sanitizeMermaidID(string(e.to))))
	}

	if current != "" {
		sb.WriteString("\n    %% Current state\n")
		// Force black text (color:#000) for contrast on any theme.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(current))))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
