package wanderbuddy_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/wanderbuddy"
	"github.com/aretw0/wanderbuddy/internal/testutils"
	httpadapter "github.com/aretw0/wanderbuddy/pkg/adapters/http"
	"github.com/aretw0/wanderbuddy/pkg/adapters/memory"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, fake *testutils.Backend, store *memory.Store, opts ...wanderbuddy.Option) *wanderbuddy.Client {
	t.Helper()
	backend, err := httpadapter.New(fake.URL())
	require.NoError(t, err)
	return wanderbuddy.New(backend, store, opts...)
}

func TestClient_Journey(t *testing.T) {
	ctx := context.Background()
	fake := testutils.NewBackend(t)
	store := memory.NewStore()

	var outcomes []domain.EventType
	hooks := domain.Hooks{OnOutcome: func(_ context.Context, o domain.Outcome) {
		outcomes = append(outcomes, o.Type)
	}}
	wb := newClient(t, fake, store, wanderbuddy.WithHooks(hooks))

	require.NoError(t, wb.Session().Register(ctx, "nia@example.com", "pw", "Nia"))
	require.Equal(t, domain.ViewOnboarding, wb.Session().State().TargetView())

	require.NoError(t, wb.Session().CreateProfile(ctx, domain.ProfileInput{Name: "Nia", Nationality: "BR"}))
	require.Equal(t, domain.ViewHome, wb.Session().State().TargetView())

	res, err := wb.SubmitPrompt(ctx, "food in Portugal")
	require.NoError(t, err)
	require.Len(t, res.Packages, 2)

	res = wb.ToggleExpanded("pkg-2")
	assert.Equal(t, "pkg-2", res.ExpandedPackageID)

	require.NoError(t, wb.SaveItinerary(ctx, "pkg-2"))
	assert.ErrorIs(t, wb.SaveItinerary(ctx, "pkg-9"), domain.ErrValidationFailed)

	saved, err := wb.Itineraries(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Porto and the Douro", saved[0].Title)

	// A fresh process picks the session up from the store.
	again := newClient(t, fake, store)
	state, err := again.Restore(ctx)
	require.NoError(t, err)
	again.Wait()
	assert.Equal(t, domain.StatusHasProfile, state.Status())
	assert.Equal(t, "Nia", again.Session().Identity().DisplayName)

	wb.Logout(ctx)
	assert.Empty(t, wb.Packages().Result().Packages)
	_, err = wb.SubmitPrompt(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)

	assert.Equal(t, []domain.EventType{
		domain.EventRegister,
		domain.EventLogin,
		domain.EventProfileCreated,
		domain.EventPackagesReady,
		domain.EventItinerarySaved,
		domain.EventItinerarySaveFailed,
		domain.EventLogout,
	}, outcomes)
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	fake := testutils.NewBackend(t)
	fake.AddUser("ana@example.com", "secret", "u-1")
	fake.AddProfile("u-1")

	wb := newClient(t, fake, memory.NewStore())
	require.NoError(t, wb.Session().Login(ctx, "ana@example.com", "secret"))

	input := strings.Join([]string{
		"lisbon please",
		":open pkg-1",
		":save",
		":saved",
		":bogus",
		"quit",
		"never read",
	}, "\n")

	var out bytes.Buffer
	runner := wanderbuddy.NewRunner()
	runner.Input = strings.NewReader(input)
	runner.Output = &out
	runner.Headless = true

	require.NoError(t, runner.Run(ctx, wb))

	text := out.String()
	assert.Contains(t, text, "  pkg-1  Lisbon Food Week  ($1800)")
	assert.Contains(t, text, "* pkg-1  Lisbon Food Week  ($1800)")
	assert.Contains(t, text, "Breakfast tour @ Time Out Market")
	assert.Contains(t, text, "saved pkg-1")
	assert.Contains(t, text, "- pkg-1  Lisbon Food Week")
	assert.Contains(t, text, `unknown command "bogus"`)
	assert.True(t, strings.HasSuffix(text, "Bye!\n"))
	assert.Equal(t, 1, fake.Calls(testutils.RouteSuggestPrompt))
}

func TestRunner_RequiresLogin(t *testing.T) {
	fake := testutils.NewBackend(t)
	wb := newClient(t, fake, memory.NewStore())

	runner := wanderbuddy.NewRunner()
	runner.Input = strings.NewReader("hello\n")
	runner.Output = &bytes.Buffer{}

	err := runner.Run(context.Background(), wb)
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	assert.Zero(t, fake.TotalCalls())
}

func TestRunner_EOFWithoutNewline(t *testing.T) {
	ctx := context.Background()
	fake := testutils.NewBackend(t)
	fake.AddUser("ana@example.com", "secret", "u-1")

	wb := newClient(t, fake, memory.NewStore())
	require.NoError(t, wb.Session().Login(ctx, "ana@example.com", "secret"))

	var out bytes.Buffer
	runner := &wanderbuddy.Runner{Input: strings.NewReader("porto"), Output: &out, Headless: true}

	require.NoError(t, runner.Run(ctx, wb))
	assert.Contains(t, out.String(), "pkg-2  Porto and the Douro")
}
