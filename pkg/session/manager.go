package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/wanderbuddy/internal/logging"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/aretw0/wanderbuddy/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Manager owns identity, token and profile-completeness state.
// All methods are safe for concurrent use; the lock is never held across a
// backend call.
type Manager struct {
	backend ports.Backend
	store   ports.KeyValueStore
	key     string
	hooks   domain.Hooks
	logger  *slog.Logger

	mu       sync.Mutex
	identity *domain.Identity
	pending  int
	// epoch changes whenever the identity is replaced or destroyed, so a
	// response that belongs to an older identity can be recognised and dropped.
	epoch   uint64
	subs    map[int]func(domain.SessionState)
	nextSub int

	persistMu sync.Mutex
	bg        sync.WaitGroup
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers outcome hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(m *Manager) {
		m.key = key
	}
}

// NewManager creates a logged-out Manager. Call Restore to pick up a
// persisted session.
func NewManager(backend ports.Backend, store ports.KeyValueStore, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		store:   store,
		key:     DefaultStorageKey,
		logger:  logging.NewNop(),
		subs:    make(map[int]func(domain.SessionState)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the session.
func (m *Manager) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Identity returns a copy of the current identity, or nil when logged out.
func (m *Manager) Identity() *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity.Clone()
}

// Subscribe registers fn to be called with every new state.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(domain.SessionState)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
		})
	}
}

// Wait blocks until background profile verification started by Restore is done.
func (m *Manager) Wait() {
	m.bg.Wait()
}

// Restore reads the persisted identity and adopts it as is, then re-checks
// the profile in the background. A missing record means logged out and is
// not an error; an unreadable record is removed.
func (m *Manager) Restore(ctx context.Context) (domain.SessionState, error) {
	raw, err := m.store.Get(ctx, m.key)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return m.State(), nil
		}
		m.logger.Warn("Failed to read persisted session", "err", err)
		return m.State(), fmt.Errorf("failed to read persisted session: %w", err)
	}

	restored, err := decodeIdentity(raw)
	if err != nil {
		m.logger.Warn("Discarding unreadable persisted session", "err", err)
		if rmErr := m.store.Remove(ctx, m.key); rmErr != nil {
			m.logger.Warn("Failed to remove persisted session", "err", rmErr)
		}
		return m.State(), fmt.Errorf("failed to restore session: %w", err)
	}

	m.mu.Lock()
	m.identity = restored
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()
	m.notify()

	m.logger.Debug("Session restored", "user_id", restored.ID, "has_profile", restored.HasProfile.String())

	auth := ports.AuthOf(restored)
	verifyCtx := context.WithoutCancel(ctx)
	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		m.verifyProfile(verifyCtx, epoch, auth)
	}()

	return m.State(), nil
}

// verifyProfile corrects a restored profile flag once the backend answers.
// An unreachable backend keeps an already resolved flag; an unknown flag
// becomes "no profile".
func (m *Manager) verifyProfile(ctx context.Context, epoch uint64, auth ports.Auth) {
	has, err := m.CheckProfile(ctx, auth.UserID, auth.Token)

	m.mu.Lock()
	if m.epoch != epoch || m.identity == nil {
		m.mu.Unlock()
		m.logger.Debug("Dropping stale profile check", "user_id", auth.UserID)
		return
	}
	definitive := err == nil
	switch {
	case definitive:
		m.identity.HasProfile = domain.ProfileStatusOf(has)
	case !m.identity.HasProfile.Resolved():
		m.identity.HasProfile = domain.ProfileMissing
	}
	status := m.identity.HasProfile
	m.mu.Unlock()

	if definitive {
		m.persist(ctx)
	} else {
		m.logger.Warn("Profile check failed, keeping cached profile status", "user_id", auth.UserID, "has_profile", status.String(), "err", err)
	}
	m.notify()
	m.hooks.Emit(ctx, domain.NewOutcome(domain.EventProfileChecked, definitive, profileMessage(status), err))
}

// CheckProfile asks the backend whether userID has a profile. A missing
// profile is a valid negative answer with a nil error. Any other failure
// also answers false, with a *domain.ProfileCheckError of kind
// ProfileCheckUnreachable so the caller may retry.
func (m *Manager) CheckProfile(ctx context.Context, userID, token string) (bool, error) {
	m.beginPending()
	defer m.endPending()

	err := m.backend.FetchProfile(ctx, ports.Auth{UserID: userID, Token: token})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ports.ErrNotFound):
		return false, nil
	default:
		return false, &domain.ProfileCheckError{Kind: domain.ProfileCheckUnreachable, Err: err}
	}
}

// Login authenticates and resolves the profile gate before returning, so a
// successful Login never leaves the profile status unknown.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	return m.login(ctx, email, password, "", domain.EventLogin)
}

// Register creates the account and then logs in with the same credentials.
// Registration alone does not establish a session.
func (m *Manager) Register(ctx context.Context, email, password, name string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err := &domain.AuthError{Kind: domain.AuthRegistrationFailed, Reason: "email and password are required"}
		m.hooks.Emit(ctx, domain.NewOutcome(domain.EventRegister, false, err.Error(), err))
		return err
	}

	m.beginPending()
	defer m.endPending()

	if err := m.backend.Register(ctx, email, password); err != nil {
		authErr := &domain.AuthError{Kind: domain.AuthRegistrationFailed, Reason: "could not create the account", Err: err}
		m.logger.Info("Registration failed", "email", email, "err", err)
		m.hooks.Emit(ctx, domain.NewOutcome(domain.EventRegister, false, authErr.Error(), authErr))
		return authErr
	}
	m.hooks.Emit(ctx, domain.NewOutcome(domain.EventRegister, true, "Account created", nil))

	return m.login(ctx, email, password, strings.TrimSpace(name), domain.EventLogin)
}

func (m *Manager) login(ctx context.Context, email, password, name string, event domain.EventType) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err := &domain.AuthError{Kind: domain.AuthInvalidCredentials, Reason: "email and password are required"}
		m.hooks.Emit(ctx, domain.NewOutcome(event, false, err.Error(), err))
		return err
	}

	// Entering Authenticating drops whatever identity was there.
	m.mu.Lock()
	hadIdentity := m.identity != nil
	m.identity = nil
	m.epoch++
	epoch := m.epoch
	m.pending++
	m.mu.Unlock()
	m.notify()
	defer m.endPending()

	if hadIdentity {
		m.persist(ctx)
	}

	res, err := m.backend.Login(ctx, email, password)
	if err != nil {
		authErr := classifyLoginError(err)
		m.logger.Info("Login failed", "email", email, "err", err)
		m.hooks.Emit(ctx, domain.NewOutcome(event, false, authErr.Error(), authErr))
		return authErr
	}

	id := res.UserID
	if id == "" {
		id = email
	}

	has, err := m.CheckProfile(ctx, id, res.AccessToken)
	if err != nil {
		m.logger.Warn("Profile check failed after login, assuming no profile", "user_id", id, "err", err)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		err := fmt.Errorf("login for %s: %w", email, domain.ErrSuperseded)
		m.hooks.Emit(ctx, domain.NewOutcome(event, false, "Login was interrupted", err))
		return err
	}
	m.identity = &domain.Identity{
		ID:          id,
		Email:       email,
		DisplayName: name,
		Token:       res.AccessToken,
		HasProfile:  domain.ProfileStatusOf(has),
	}
	m.mu.Unlock()

	m.persist(ctx)
	m.notify()
	m.logger.Info("Logged in", "user_id", id, "has_profile", has)
	m.hooks.Emit(ctx, domain.NewOutcome(event, true, "Welcome back", nil))
	return nil
}

func classifyLoginError(err error) *domain.AuthError {
	if errors.Is(err, ports.ErrUnavailable) {
		return &domain.AuthError{Kind: domain.AuthNetworkFailure, Reason: "the travel service is unreachable", Err: err}
	}
	return &domain.AuthError{Kind: domain.AuthInvalidCredentials, Reason: "email or password is wrong", Err: err}
}

// identityPatch lists the fields UpdateUser may change. ID and Token are
// deliberately absent: they are only ever set together by Login.
type identityPatch struct {
	DisplayName *string `mapstructure:"displayName"`
	Name        *string `mapstructure:"name"`
	Email       *string `mapstructure:"email"`
	HasProfile  *bool   `mapstructure:"hasProfile"`
}

// UpdateUser merges fields into the current identity and persists it.
// Recognised keys: displayName (or name), email, hasProfile. It is a no-op
// when logged out; unknown keys are an error. hasProfile never moves a
// resolved status back: present stays present.
func (m *Manager) UpdateUser(ctx context.Context, fields map[string]any) error {
	var patch identityPatch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &patch,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("invalid user fields: %w", err)
	}

	m.mu.Lock()
	if m.identity == nil {
		m.mu.Unlock()
		return nil
	}
	if patch.Name != nil {
		m.identity.DisplayName = *patch.Name
	}
	if patch.DisplayName != nil {
		m.identity.DisplayName = *patch.DisplayName
	}
	if patch.Email != nil {
		m.identity.Email = *patch.Email
	}
	if patch.HasProfile != nil {
		next := domain.ProfileStatusOf(*patch.HasProfile)
		if m.identity.HasProfile.CanBecome(next) {
			m.identity.HasProfile = next
		} else {
			m.logger.Debug("Ignoring profile status downgrade", "from", m.identity.HasProfile, "to", next)
		}
	}
	m.mu.Unlock()

	m.persist(ctx)
	m.notify()
	return nil
}

// CreateProfile submits the onboarding profile and, on success, marks the
// identity as having a profile. It is the only way a "no profile" identity
// becomes a "has profile" one.
func (m *Manager) CreateProfile(ctx context.Context, in domain.ProfileInput) error {
	m.mu.Lock()
	current := m.identity.Clone()
	epoch := m.epoch
	m.mu.Unlock()

	fail := func(err *domain.ProfileError) error {
		m.hooks.Emit(ctx, domain.NewOutcome(domain.EventProfileCreated, false, err.Error(), err))
		return err
	}

	if current == nil {
		return fail(&domain.ProfileError{Kind: domain.ProfileCreateFailed, Reason: "log in first", Err: domain.ErrNotLoggedIn})
	}
	if err := in.Validate(); err != nil {
		var profileErr *domain.ProfileError
		if errors.As(err, &profileErr) {
			return fail(profileErr)
		}
		return fail(&domain.ProfileError{Kind: domain.ProfileValidationFailed, Err: err})
	}

	profile := in.Profile(current)
	if err := m.backend.CreateProfile(ctx, ports.AuthOf(current), profile); err != nil {
		m.logger.Info("Profile creation failed", "user_id", current.ID, "err", err)
		return fail(&domain.ProfileError{Kind: domain.ProfileCreateFailed, Reason: "could not save the profile", Err: err})
	}

	m.mu.Lock()
	stale := m.epoch != epoch
	m.mu.Unlock()
	if stale {
		return fail(&domain.ProfileError{Kind: domain.ProfileCreateFailed, Reason: "session changed while saving", Err: domain.ErrSuperseded})
	}

	if err := m.UpdateUser(ctx, map[string]any{"hasProfile": true, "displayName": profile.Name}); err != nil {
		return err
	}
	m.hooks.Emit(ctx, domain.NewOutcome(domain.EventProfileCreated, true, "Profile created", nil))
	return nil
}

// Logout clears the session in memory and in the store. It never fails and
// never touches the network.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.identity = nil
	m.epoch++
	m.mu.Unlock()

	m.persist(ctx)
	m.notify()
	m.hooks.Emit(ctx, domain.NewOutcome(domain.EventLogout, true, "Logged out", nil))
}

// persist writes the current identity, or removes the record when logged
// out. The snapshot is taken under persistMu so the last write always
// reflects the latest state. Failures are logged and otherwise ignored.
func (m *Manager) persist(ctx context.Context) {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	current := m.identity.Clone()
	m.mu.Unlock()

	if current == nil {
		if err := m.store.Remove(ctx, m.key); err != nil {
			m.logger.Warn("Failed to remove persisted session", "err", err)
		}
		return
	}

	raw, err := encodeIdentity(current)
	if err == nil {
		err = m.store.Set(ctx, m.key, raw)
	}
	if err != nil {
		m.logger.Warn("Failed to persist session (kept in memory)", "user_id", current.ID, "err", err)
	}
}

func (m *Manager) beginPending() {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) endPending() {
	m.mu.Lock()
	m.pending--
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) stateLocked() domain.SessionState {
	return domain.SessionState{
		Identity: m.identity.Clone(),
		Pending:  m.pending > 0,
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	state := m.stateLocked()
	subs := make([]func(domain.SessionState), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func profileMessage(status domain.ProfileStatus) string {
	if status == domain.ProfilePresent {
		return "Profile found"
	}
	return "Profile needed"
}
