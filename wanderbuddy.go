package wanderbuddy

import (
	"context"
	"log/slog"

	"github.com/aretw0/wanderbuddy/internal/logging"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/observability"
	"github.com/aretw0/wanderbuddy/pkg/orchestrator"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/aretw0/wanderbuddy/pkg/session"
)

// Client is the high-level entry point of the library. It wires a session
// manager and a package orchestrator over the same backend and feeds the
// current identity into every package request.
type Client struct {
	session  *session.Manager
	packages *orchestrator.Orchestrator

	hooks      domain.Hooks
	logger     *slog.Logger
	metrics    *observability.Metrics
	storageKey string
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithHooks registers outcome hooks on both components.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics counts superseded package responses.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithStorageKey overrides the key the session is persisted under.
func WithStorageKey(key string) Option {
	return func(c *Client) {
		c.storageKey = key
	}
}

// New builds a logged-out Client. Call Restore to resume a persisted session.
func New(backend ports.Backend, store ports.KeyValueStore, opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}

	sessionOpts := []session.Option{
		session.WithLogger(c.logger.With("component", "session")),
		session.WithHooks(c.hooks),
	}
	if c.storageKey != "" {
		sessionOpts = append(sessionOpts, session.WithStorageKey(c.storageKey))
	}
	c.session = session.NewManager(backend, store, sessionOpts...)

	c.packages = orchestrator.New(backend,
		orchestrator.WithLogger(c.logger.With("component", "packages")),
		orchestrator.WithHooks(c.hooks),
		orchestrator.WithMetrics(c.metrics),
	)
	return c
}

// Session returns the session manager.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Packages returns the package orchestrator.
func (c *Client) Packages() *orchestrator.Orchestrator {
	return c.packages
}

// Restore resumes the persisted session, if any.
func (c *Client) Restore(ctx context.Context) (domain.SessionState, error) {
	return c.session.Restore(ctx)
}

// SubmitPrompt asks for packages matching text as the current traveler.
func (c *Client) SubmitPrompt(ctx context.Context, text string) (domain.RequestResult, error) {
	return c.packages.SubmitPrompt(ctx, c.session.Identity(), text)
}

// SubmitFilters asks for packages matching query as the current traveler.
func (c *Client) SubmitFilters(ctx context.Context, query domain.FilterQuery) (domain.RequestResult, error) {
	return c.packages.SubmitFilters(ctx, c.session.Identity(), query)
}

// ToggleExpanded expands or collapses a package of the current result set.
func (c *Client) ToggleExpanded(packageID string) domain.RequestResult {
	return c.packages.ToggleExpanded(packageID)
}

// SaveItinerary saves the package with the given id from the current
// result set. An id outside the result set is a validation failure.
func (c *Client) SaveItinerary(ctx context.Context, packageID string) error {
	pkg, ok := c.packages.Result().Find(packageID)
	if !ok {
		err := domain.NewValidationError("no package "+packageID+" in the current results", "package_id")
		c.hooks.Emit(ctx, domain.NewOutcome(domain.EventItinerarySaveFailed, false, err.Error(), err))
		return err
	}
	return c.packages.SaveItinerary(ctx, c.session.Identity(), pkg)
}

// Itineraries lists the current traveler's saved packages.
func (c *Client) Itineraries(ctx context.Context) ([]domain.TravelPackage, error) {
	return c.packages.Itineraries(ctx, c.session.Identity())
}

// Logout ends the session and drops the result set that belonged to it.
func (c *Client) Logout(ctx context.Context) {
	c.packages.Reset()
	c.session.Logout(ctx)
}

// Wait blocks until background work started by Restore is finished.
func (c *Client) Wait() {
	c.session.Wait()
}
