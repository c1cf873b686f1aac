package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/wanderbuddy/internal/logging"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/observability"
	"github.com/aretw0/wanderbuddy/pkg/ports"
)

// Orchestrator owns one RequestResult. Safe for concurrent use.
type Orchestrator struct {
	backend ports.Backend
	logger  *slog.Logger
	hooks   domain.Hooks
	metrics *observability.Metrics

	mu     sync.Mutex
	result domain.RequestResult
	// latest is the sequence number of the newest submission; settled is
	// the newest one that has come back. Pending while they differ.
	latest  uint64
	settled uint64
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger configures a logger for the Orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithHooks registers outcome hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// WithMetrics counts superseded responses.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// New creates an Orchestrator with an empty result set.
func New(backend ports.Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend: backend,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result returns a copy of the current result set.
func (o *Orchestrator) Result() domain.RequestResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result.Clone()
}

// Pending reports whether the newest submission is still waiting for the backend.
func (o *Orchestrator) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest != o.settled
}

// Expanded returns the expanded package, if any.
func (o *Orchestrator) Expanded() (domain.TravelPackage, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result.Expanded()
}

// SubmitPrompt asks the backend for packages matching free text.
func (o *Orchestrator) SubmitPrompt(ctx context.Context, id *domain.Identity, text string) (domain.RequestResult, error) {
	query := domain.PromptQuery{Text: text}
	return o.submit(ctx, id, query, func(ctx context.Context, auth ports.Auth) ([]domain.TravelPackage, error) {
		return o.backend.SuggestFromPrompt(ctx, auth, query.Text)
	})
}

// SubmitFilters asks the backend for packages matching structured filters.
// An empty travel type is sent as flexible.
func (o *Orchestrator) SubmitFilters(ctx context.Context, id *domain.Identity, query domain.FilterQuery) (domain.RequestResult, error) {
	query = query.Normalized()
	return o.submit(ctx, id, query, func(ctx context.Context, auth ports.Auth) ([]domain.TravelPackage, error) {
		return o.backend.SuggestFromFilters(ctx, auth, query)
	})
}

type suggestFunc func(ctx context.Context, auth ports.Auth) ([]domain.TravelPackage, error)

// submit validates locally, then runs fetch under a fresh sequence number.
// Only the newest submission may replace the result set; an older one that
// comes back later returns a RequestError of kind RequestSuperseded and
// leaves everything untouched.
func (o *Orchestrator) submit(ctx context.Context, id *domain.Identity, query domain.PackageQuery, fetch suggestFunc) (domain.RequestResult, error) {
	if err := requireIdentity(id); err != nil {
		return o.Result(), err
	}
	if err := query.Validate(); err != nil {
		return o.Result(), err
	}

	o.mu.Lock()
	o.latest++
	seq := o.latest
	o.mu.Unlock()

	o.logger.Debug("Package request submitted", "seq", seq, "user_id", id.ID)
	pkgs, err := fetch(ctx, ports.AuthOf(id))

	o.mu.Lock()
	if seq != o.latest {
		current := o.result.Clone()
		o.mu.Unlock()
		o.metrics.IncSuperseded()
		o.logger.Debug("Discarding superseded package response", "seq", seq)
		return current, &domain.RequestError{Kind: domain.RequestSuperseded, Reason: "a newer request was submitted", Err: err}
	}
	o.settled = seq
	if err != nil {
		current := o.result.Clone()
		o.mu.Unlock()
		reqErr := &domain.RequestError{Kind: domain.RequestFailed, Reason: "could not generate packages", Err: err}
		o.logger.Info("Package request failed", "seq", seq, "err", err)
		o.hooks.Emit(ctx, domain.NewOutcome(domain.EventPackagesFailed, false, reqErr.Error(), reqErr))
		return current, reqErr
	}
	o.result = domain.RequestResult{Query: query, Packages: pkgs}
	current := o.result.Clone()
	o.mu.Unlock()

	o.logger.Info("Packages ready", "seq", seq, "count", len(pkgs))
	o.hooks.Emit(ctx, domain.NewOutcome(domain.EventPackagesReady, true, packagesMessage(len(pkgs)), nil))
	return current, nil
}

// ToggleExpanded expands packageID, or collapses it if it is already
// expanded. It never touches the network.
func (o *Orchestrator) ToggleExpanded(packageID string) domain.RequestResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.result = o.result.Toggled(packageID)
	return o.result.Clone()
}

// Reset empties the result set. Any submission still in flight becomes
// superseded.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.latest++
	o.settled = o.latest
	o.result = domain.RequestResult{}
}

// SaveItinerary stores pkg for the traveler. The result set and selection
// are never changed, whatever the outcome.
func (o *Orchestrator) SaveItinerary(ctx context.Context, id *domain.Identity, pkg domain.TravelPackage) error {
	if err := requireIdentity(id); err != nil {
		o.hooks.Emit(ctx, domain.NewOutcome(domain.EventItinerarySaveFailed, false, err.Error(), err))
		return err
	}

	if err := o.backend.SaveItinerary(ctx, ports.AuthOf(id), pkg); err != nil {
		reqErr := &domain.RequestError{Kind: domain.RequestFailed, Reason: "could not save the itinerary", Err: err}
		o.logger.Info("Itinerary save failed", "package_id", pkg.PackageID, "err", err)
		o.hooks.Emit(ctx, domain.NewOutcome(domain.EventItinerarySaveFailed, false, reqErr.Error(), reqErr))
		return reqErr
	}

	o.logger.Info("Itinerary saved", "package_id", pkg.PackageID)
	o.hooks.Emit(ctx, domain.NewOutcome(domain.EventItinerarySaved, true, "Itinerary saved: "+pkg.Title, nil))
	return nil
}

// Itineraries lists the traveler's saved packages. A traveler with none
// gets an empty slice.
func (o *Orchestrator) Itineraries(ctx context.Context, id *domain.Identity) ([]domain.TravelPackage, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	pkgs, err := o.backend.ListItineraries(ctx, ports.AuthOf(id))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return []domain.TravelPackage{}, nil
		}
		return nil, &domain.RequestError{Kind: domain.RequestFailed, Reason: "could not list itineraries", Err: err}
	}
	if pkgs == nil {
		pkgs = []domain.TravelPackage{}
	}
	return pkgs, nil
}

func requireIdentity(id *domain.Identity) error {
	if !id.Valid() {
		return &domain.RequestError{Kind: domain.RequestValidationFailed, Reason: "log in first", Err: domain.ErrNotLoggedIn}
	}
	return nil
}

func packagesMessage(n int) string {
	switch n {
	case 0:
		return "No packages matched"
	case 1:
		return "1 package ready"
	default:
		return fmt.Sprintf("%d packages ready", n)
	}
}
