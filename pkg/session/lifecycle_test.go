package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wanderbuddy/internal/testutils"
	"github.com/aretw0/wanderbuddy/pkg/adapters/memory"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/aretw0/wanderbuddy/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_StaleProfileCheckIsDropped(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	backend := &testutils.StubBackend{
		FetchProfileFn: func(ctx context.Context, auth ports.Auth) error {
			close(started)
			<-release
			return nil
		},
	}
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, session.DefaultStorageKey,
		`{"id":"u-1","email":"ana@example.com","access_token":"token-u-1","hasProfile":false}`))

	mgr := session.NewManager(backend, store)
	_, err := mgr.Restore(ctx)
	require.NoError(t, err)

	<-started
	mgr.Logout(ctx)
	close(release)
	mgr.Wait()

	assert.Equal(t, domain.StatusLoggedOut, mgr.State().Status())
	_, err = store.Get(ctx, session.DefaultStorageKey)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestManager_OverlappingLogins(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	backend := &testutils.StubBackend{
		LoginFn: func(ctx context.Context, email, password string) (ports.LoginResult, error) {
			if email == "slow@example.com" {
				close(started)
				<-release
			}
			return ports.LoginResult{UserID: email, AccessToken: "token-" + email}, nil
		},
		FetchProfileFn: func(ctx context.Context, auth ports.Auth) error {
			return ports.ErrNotFound
		},
	}
	mgr := session.NewManager(backend, memory.NewStore())

	slowErr := make(chan error, 1)
	go func() {
		slowErr <- mgr.Login(ctx, "slow@example.com", "pw")
	}()

	<-started
	require.NoError(t, mgr.Login(ctx, "fast@example.com", "pw"))
	close(release)

	select {
	case err := <-slowErr:
		assert.ErrorIs(t, err, domain.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("slow login never returned")
	}

	assert.Equal(t, "fast@example.com", mgr.Identity().ID)
	assert.False(t, mgr.State().Pending)
}

func TestManager_PendingDuringCall(t *testing.T) {
	ctx := context.Background()
	var seen domain.SessionState

	var mgr *session.Manager
	backend := &testutils.StubBackend{
		LoginFn: func(ctx context.Context, email, password string) (ports.LoginResult, error) {
			seen = mgr.State()
			return ports.LoginResult{}, ports.ErrRejected
		},
	}
	mgr = session.NewManager(backend, memory.NewStore())

	require.Error(t, mgr.Login(ctx, "ana@example.com", "pw"))
	assert.True(t, seen.Pending)
	assert.Equal(t, domain.StatusAuthenticating, seen.Status())
	assert.False(t, mgr.State().Pending)
}

func TestManager_SubscriptionLifecycle(t *testing.T) {
	mgr := session.NewManager(&testutils.StubBackend{}, memory.NewStore())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		unsubscribe := mgr.Subscribe(func(domain.SessionState) {})
		unsubscribe()
		unsubscribe()
	}

	calls := 0
	unsubscribe := mgr.Subscribe(func(domain.SessionState) { calls++ })
	defer unsubscribe()

	mgr.Logout(ctx)
	assert.Equal(t, 1, calls, "only the live subscriber is notified")
}
