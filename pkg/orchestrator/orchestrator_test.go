package orchestrator_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/wanderbuddy/internal/testutils"
	httpadapter "github.com/aretw0/wanderbuddy/pkg/adapters/http"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/observability"
	"github.com/aretw0/wanderbuddy/pkg/orchestrator"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var traveler = &domain.Identity{
	ID:         "u-1",
	Email:      "ana@example.com",
	Token:      testutils.TokenFor("u-1"),
	HasProfile: domain.ProfilePresent,
}

func validFilters() domain.FilterQuery {
	return domain.FilterQuery{
		FromDate:    "2025-06-01",
		ToDate:      "2025-06-07",
		Destination: "Lisbon",
		Budget:      "1500",
	}
}

func newOrchestrator(t *testing.T, opts ...orchestrator.Option) (*orchestrator.Orchestrator, *testutils.Backend) {
	t.Helper()
	fake := testutils.NewBackend(t)
	client, err := httpadapter.New(fake.URL())
	require.NoError(t, err)
	return orchestrator.New(client, opts...), fake
}

func TestOrchestrator_SubmitPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("Replaces Result Set", func(t *testing.T) {
		orch, fake := newOrchestrator(t)

		res, err := orch.SubmitPrompt(ctx, traveler, "a week of sun and seafood")
		require.NoError(t, err)
		require.Len(t, res.Packages, 2)
		assert.Equal(t, "pkg-1", res.Packages[0].PackageID)
		assert.Equal(t, "pkg-2", res.Packages[1].PackageID)
		assert.Equal(t, domain.PromptQuery{Text: "a week of sun and seafood"}, res.Query)
		assert.Equal(t, 1, fake.Calls(testutils.RouteSuggestPrompt))
		assert.False(t, orch.Pending())
	})

	t.Run("Clears Expanded Selection", func(t *testing.T) {
		orch, _ := newOrchestrator(t)
		_, err := orch.SubmitPrompt(ctx, traveler, "beach")
		require.NoError(t, err)
		orch.ToggleExpanded("pkg-1")

		res, err := orch.SubmitPrompt(ctx, traveler, "mountains")
		require.NoError(t, err)
		assert.Empty(t, res.ExpandedPackageID)
	})

	t.Run("Empty Prompt Skips Network", func(t *testing.T) {
		orch, fake := newOrchestrator(t)

		_, err := orch.SubmitPrompt(ctx, traveler, "   ")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		assert.Zero(t, fake.TotalCalls())
		assert.False(t, orch.Pending())
	})

	t.Run("Logged Out", func(t *testing.T) {
		orch, fake := newOrchestrator(t)

		_, err := orch.SubmitPrompt(ctx, nil, "beach")
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
		assert.Zero(t, fake.TotalCalls())
	})

	t.Run("Failure Keeps Previous Result", func(t *testing.T) {
		orch, fake := newOrchestrator(t)
		before, err := orch.SubmitPrompt(ctx, traveler, "beach")
		require.NoError(t, err)

		fake.FailWith(testutils.RouteSuggestPrompt, http.StatusInternalServerError)
		res, err := orch.SubmitPrompt(ctx, traveler, "mountains")
		assert.ErrorIs(t, err, domain.ErrRequestFailed)
		assert.Equal(t, before, res)
		assert.Equal(t, before, orch.Result())
		assert.False(t, orch.Pending())
	})
}

func TestOrchestrator_SubmitFilters(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		orch, fake := newOrchestrator(t)
		fake.SetPackages(testutils.PackagesTitled("Tokyo"))

		res, err := orch.SubmitFilters(ctx, traveler, validFilters())
		require.NoError(t, err)
		require.Len(t, res.Packages, 1)
		assert.Equal(t, "id-Tokyo", res.Packages[0].PackageID)

		q, ok := res.Query.(domain.FilterQuery)
		require.True(t, ok)
		assert.Equal(t, domain.TravelFlexible, q.TravelType)
	})

	t.Run("Mixed Case Travel Type Is Canonical", func(t *testing.T) {
		orch, _ := newOrchestrator(t)
		q := validFilters()
		q.TravelType = "Solo"

		res, err := orch.SubmitFilters(ctx, traveler, q)
		require.NoError(t, err)
		sent, ok := res.Query.(domain.FilterQuery)
		require.True(t, ok)
		assert.Equal(t, domain.TravelSolo, sent.TravelType)
	})

	t.Run("Missing Destination Skips Network", func(t *testing.T) {
		orch, fake := newOrchestrator(t)
		q := validFilters()
		q.Destination = ""

		_, err := orch.SubmitFilters(ctx, traveler, q)
		require.ErrorIs(t, err, domain.ErrValidationFailed)
		var reqErr *domain.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, []string{"destination"}, reqErr.Fields)
		assert.Zero(t, fake.TotalCalls())
	})

	t.Run("End Before Start", func(t *testing.T) {
		orch, fake := newOrchestrator(t)
		q := validFilters()
		q.FromDate = "2025-01-01"
		q.ToDate = "2024-12-31"

		_, err := orch.SubmitFilters(ctx, traveler, q)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		assert.Zero(t, fake.TotalCalls())
	})
}

func TestOrchestrator_ToggleExpanded(t *testing.T) {
	ctx := context.Background()
	orch, fake := newOrchestrator(t)
	_, err := orch.SubmitPrompt(ctx, traveler, "beach")
	require.NoError(t, err)
	calls := fake.TotalCalls()

	res := orch.ToggleExpanded("pkg-2")
	assert.Equal(t, "pkg-2", res.ExpandedPackageID)
	pkg, ok := orch.Expanded()
	require.True(t, ok)
	assert.Equal(t, "pkg-2", pkg.PackageID)

	res = orch.ToggleExpanded("pkg-1")
	assert.Equal(t, "pkg-1", res.ExpandedPackageID)

	res = orch.ToggleExpanded("pkg-1")
	assert.Empty(t, res.ExpandedPackageID)
	_, ok = orch.Expanded()
	assert.False(t, ok)

	assert.Equal(t, calls, fake.TotalCalls())
}

func TestOrchestrator_ReturnedResultsAreCopies(t *testing.T) {
	ctx := context.Background()
	orch, _ := newOrchestrator(t)

	res, err := orch.SubmitPrompt(ctx, traveler, "beach")
	require.NoError(t, err)
	require.NotEmpty(t, res.Packages[0].Days)
	require.NotEmpty(t, res.Packages[0].LocalTransport)

	res.Packages[0].Days[0].Date = "MUTATED"
	res.Packages[0].Days[0].Activities[0].Place = "MUTATED"
	res.Packages[0].LocalTransport[0] = "MUTATED"
	res.Packages[0].Accommodation["name"] = "MUTATED"

	orch.ToggleExpanded("pkg-1")
	pkg, ok := orch.Expanded()
	require.True(t, ok)
	pkg.Days[0].Date = "MUTATED"

	current := orch.Result().Packages[0]
	assert.Equal(t, "2025-01-01", current.Days[0].Date)
	assert.NotEqual(t, "MUTATED", current.Days[0].Activities[0].Place)
	assert.Equal(t, "tram", current.LocalTransport[0])
	assert.Equal(t, "Alfama Guesthouse", current.Accommodation["name"])
}

func TestOrchestrator_SaveItinerary(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var events []domain.EventType
	hooks := domain.Hooks{OnOutcome: func(_ context.Context, o domain.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, o.Type)
	}}

	orch, fake := newOrchestrator(t, orchestrator.WithHooks(hooks))
	_, err := orch.SubmitPrompt(ctx, traveler, "beach")
	require.NoError(t, err)
	orch.ToggleExpanded("pkg-1")
	before := orch.Result()
	pkg, ok := orch.Expanded()
	require.True(t, ok)

	require.NoError(t, orch.SaveItinerary(ctx, traveler, pkg))
	assert.Len(t, fake.Itineraries("u-1"), 1)

	fake.FailWith(testutils.RouteItinerarySave, http.StatusInternalServerError)
	err = orch.SaveItinerary(ctx, traveler, pkg)
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
	assert.Equal(t, before, orch.Result())

	saved, err := orch.Itineraries(ctx, traveler)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "pkg-1", saved[0].PackageID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.EventType{
		domain.EventPackagesReady,
		domain.EventItinerarySaved,
		domain.EventItinerarySaveFailed,
	}, events)
}

func TestOrchestrator_Itineraries_Empty(t *testing.T) {
	orch, _ := newOrchestrator(t)

	saved, err := orch.Itineraries(context.Background(), traveler)
	require.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Empty(t, saved)
}

// TestOrchestrator_LastSubmittedWins runs request A, then B, and lets B
// answer first. A's late answer must not replace B's packages.
func TestOrchestrator_LastSubmittedWins(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetrics(nil)

	releaseA := make(chan struct{})
	startedA := make(chan struct{})
	backend := &testutils.StubBackend{
		SuggestFromPromptFn: func(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error) {
			if prompt == "A" {
				close(startedA)
				<-releaseA
			}
			return testutils.PackagesTitled(prompt), nil
		},
	}
	orch := orchestrator.New(backend, orchestrator.WithMetrics(metrics))

	errA := make(chan error, 1)
	go func() {
		_, err := orch.SubmitPrompt(ctx, traveler, "A")
		errA <- err
	}()
	<-startedA
	assert.True(t, orch.Pending())

	res, err := orch.SubmitPrompt(ctx, traveler, "B")
	require.NoError(t, err)
	assert.Equal(t, "id-B", res.Packages[0].PackageID)
	assert.False(t, orch.Pending())

	close(releaseA)
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, domain.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("request A never returned")
	}

	assert.Equal(t, "id-B", orch.Result().Packages[0].PackageID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Superseded()))
}

// TestOrchestrator_NewerPendingAfterOlderCompletes covers the reverse
// order: A answers while B is still in flight, so A is already stale.
func TestOrchestrator_NewerPendingAfterOlderCompletes(t *testing.T) {
	ctx := context.Background()

	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	startedA := make(chan struct{})
	startedB := make(chan struct{})
	backend := &testutils.StubBackend{
		SuggestFromPromptFn: func(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error) {
			switch prompt {
			case "A":
				close(startedA)
				<-releaseA
			case "B":
				close(startedB)
				<-releaseB
			}
			return testutils.PackagesTitled(prompt), nil
		},
	}
	orch := orchestrator.New(backend)

	errA := make(chan error, 1)
	errB := make(chan error, 1)
	go func() {
		_, err := orch.SubmitPrompt(ctx, traveler, "A")
		errA <- err
	}()
	<-startedA
	go func() {
		_, err := orch.SubmitPrompt(ctx, traveler, "B")
		errB <- err
	}()
	<-startedB

	close(releaseA)
	assert.ErrorIs(t, <-errA, domain.ErrSuperseded)
	assert.Empty(t, orch.Result().Packages)
	assert.True(t, orch.Pending())

	close(releaseB)
	require.NoError(t, <-errB)
	assert.Equal(t, "id-B", orch.Result().Packages[0].PackageID)
	assert.False(t, orch.Pending())
}

func TestOrchestrator_Reset(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	backend := &testutils.StubBackend{
		SuggestFromPromptFn: func(ctx context.Context, auth ports.Auth, prompt string) ([]domain.TravelPackage, error) {
			if prompt == "slow" {
				close(started)
				<-release
			}
			return testutils.PackagesTitled(prompt), nil
		},
	}
	orch := orchestrator.New(backend)
	_, err := orch.SubmitPrompt(ctx, traveler, "fast")
	require.NoError(t, err)

	errSlow := make(chan error, 1)
	go func() {
		_, err := orch.SubmitPrompt(ctx, traveler, "slow")
		errSlow <- err
	}()
	<-started

	orch.Reset()
	assert.False(t, orch.Pending())
	close(release)

	assert.ErrorIs(t, <-errSlow, domain.ErrSuperseded)
	assert.Empty(t, orch.Result().Packages)
}
