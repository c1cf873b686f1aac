package testutils

import (
	"context"
	"errors"

	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/ports"
)

var errNotStubbed = errors.New("not stubbed")

// StubBackend is a ports.Backend whose behavior is set per test through
// function fields. Calls with no function set fail with ports.ErrUnavailable.
type StubBackend struct {
	LoginFn              func(ctx context.Context, email, password string) (ports.LoginResult, error)
	RegisterFn           func(ctx context.Context, email, password string) error
	FetchProfileFn       func(ctx context.Context, auth ports.Auth) error
	CreateProfileFn      func(ctx context.Context, auth ports.Auth, profile domain.Profile) error
	SuggestFromPromptFn  func(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error)
	SuggestFromFiltersFn func(ctx context.Context, auth ports.Auth, query domain.FilterQuery) ([]domain.TravelPackage, error)
	SaveItineraryFn      func(ctx context.Context, auth ports.Auth, pkg domain.TravelPackage) error
	ListItinerariesFn    func(ctx context.Context, auth ports.Auth) ([]domain.TravelPackage, error)
}

var _ ports.Backend = (*StubBackend)(nil)

func unstubbed() error {
	return errors.Join(ports.ErrUnavailable, errNotStubbed)
}

func (s *StubBackend) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	if s.LoginFn == nil {
		return ports.LoginResult{}, unstubbed()
	}
	return s.LoginFn(ctx, email, password)
}

func (s *StubBackend) Register(ctx context.Context, email, password string) error {
	if s.RegisterFn == nil {
		return unstubbed()
	}
	return s.RegisterFn(ctx, email, password)
}

func (s *StubBackend) FetchProfile(ctx context.Context, auth ports.Auth) error {
	if s.FetchProfileFn == nil {
		return unstubbed()
	}
	return s.FetchProfileFn(ctx, auth)
}

func (s *StubBackend) CreateProfile(ctx context.Context, auth ports.Auth, profile domain.Profile) error {
	if s.CreateProfileFn == nil {
		return unstubbed()
	}
	return s.CreateProfileFn(ctx, auth, profile)
}

func (s *StubBackend) SuggestFromPrompt(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error) {
	if s.SuggestFromPromptFn == nil {
		return nil, unstubbed()
	}
	return s.SuggestFromPromptFn(ctx, auth, prompt)
}

func (s *StubBackend) SuggestFromFilters(ctx context.Context, auth ports.Auth, query domain.FilterQuery) ([]domain.TravelPackage, error) {
	if s.SuggestFromFiltersFn == nil {
		return nil, unstubbed()
	}
	return s.SuggestFromFiltersFn(ctx, auth, query)
}

func (s *StubBackend) SaveItinerary(ctx context.Context, auth ports.Auth, pkg domain.TravelPackage) error {
	if s.SaveItineraryFn == nil {
		return unstubbed()
	}
	return s.SaveItineraryFn(ctx, auth, pkg)
}

func (s *StubBackend) ListItineraries(ctx context.Context, auth ports.Auth) ([]domain.TravelPackage, error) {
	if s.ListItinerariesFn == nil {
		return nil, unstubbed()
	}
	return s.ListItinerariesFn(ctx, auth)
}
