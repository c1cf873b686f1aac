package ports

import (
	"context"
	"errors"

	"github.com/aretw0/wanderbuddy/pkg/domain"
)

var (
	// ErrRejected is matched by backend errors for non-success answers
	// the client caused (4xx other than 404).
	ErrRejected = errors.New("rejected by backend")

	// ErrUnavailable is matched by backend errors when the backend could not
	// be reached or failed on its side (transport errors, 5xx).
	ErrUnavailable = errors.New("backend unavailable")
)

// Auth carries the caller's identity into an authenticated request.
type Auth struct {
	UserID string
	Token  string
}

// AuthOf extracts the request credentials of an identity.
func AuthOf(id *domain.Identity) Auth {
	if id == nil {
		return Auth{}
	}
	return Auth{UserID: id.ID, Token: id.Token}
}

// LoginResult is the backend answer to a successful login.
// UserID may be empty when the backend does not return one.
type LoginResult struct {
	UserID      string
	AccessToken string
}

// Backend defines the travel backend contract consumed by the core.
// Implementations return errors matching ErrNotFound, ErrRejected or
// ErrUnavailable so callers can classify failures without knowing the transport.
type Backend interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Register(ctx context.Context, email, password string) error

	// FetchProfile returns nil when a profile exists for auth.UserID.
	FetchProfile(ctx context.Context, auth Auth) error
	CreateProfile(ctx context.Context, auth Auth, profile domain.Profile) error

	SuggestFromPrompt(ctx context.Context, auth Auth, prompt string) ([]domain.TravelPackage, error)
	SuggestFromFilters(ctx context.Context, auth Auth, query domain.FilterQuery) ([]domain.TravelPackage, error)

	SaveItinerary(ctx context.Context, auth Auth, pkg domain.TravelPackage) error
	ListItineraries(ctx context.Context, auth Auth) ([]domain.TravelPackage, error)
}
