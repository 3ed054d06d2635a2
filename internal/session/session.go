// Package session holds the client's belief about who is logged in. It is
// the single source of truth for session state: only its operations (Login,
// Logout, Register, Restore, and the 401 eviction hook) may change it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arkiv-dev/arkiv/internal/cli/auth"
	"github.com/arkiv-dev/arkiv/internal/cli/client"
)

// Snapshot is a read-only view of the session at one point in time.
// IsAdmin is derived from the user's role and is never true without a user.
type Snapshot struct {
	User            *client.User
	IsAuthenticated bool
	IsAdmin         bool
	LoadingInitial  bool
}

// Manager owns the session state machine: Unresolved until Restore has run,
// then Anonymous or Authenticated. Construct exactly one per process and
// pass it to whatever needs session state; nothing else may mutate it.
type Manager struct {
	api    *client.Client
	creds  auth.Store
	server string
	ttl    time.Duration
	log    zerolog.Logger

	mu       sync.Mutex
	user     *client.User
	resolved bool

	// restoreOnce guards the startup restoration: a second concurrent
	// call coalesces onto the first, so the profile endpoint is hit at
	// most once per process.
	restoreOnce sync.Once
}

// NewManager creates the session manager and wires itself up as the
// client's 401 eviction hook.
func NewManager(api *client.Client, creds auth.Store, log zerolog.Logger) *Manager {
	m := &Manager{
		api:    api,
		creds:  creds,
		server: api.Server(),
		ttl:    auth.DefaultTTL,
		log:    log,
	}

	// The client deletes the credential on 401 before calling this; the
	// manager resets in-memory state and tells the operator.
	api.OnUnauthenticated(m.evict)

	return m
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:            m.user,
		IsAuthenticated: m.user != nil,
		IsAdmin:         m.user.IsAdmin(),
		LoadingInitial:  !m.resolved,
	}
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.resolved = true
}

func (m *Manager) setAuthenticated(user *client.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.resolved = true
}

// evict is the global authentication-failure path: the persisted credential
// is already gone, so drop the in-memory user. Runs before the triggering
// caller sees its error.
func (m *Manager) evict() {
	m.mu.Lock()
	wasAuthenticated := m.user != nil
	m.user = nil
	m.resolved = true
	m.mu.Unlock()

	if wasAuthenticated {
		m.log.Warn().Msg("Session expired, please run 'arkiv login' again")
	}
}

// Restore resolves the session from the persisted credential. It runs at
// most once per process; later calls (including concurrent ones) return the
// already-resolved state without touching the network.
func (m *Manager) Restore(ctx context.Context) Snapshot {
	m.restoreOnce.Do(func() {
		cred, err := m.creds.Load(m.server)
		if err != nil {
			// No credential, nothing to restore.
			if !errors.Is(err, auth.ErrNotAuthenticated) {
				m.log.Warn().Err(err).Msg("Failed to read stored credential")
			}
			m.setAnonymous()
			return
		}

		user, err := m.api.Me(ctx)
		if err != nil {
			// Stale or rejected token: delete it and start anonymous.
			m.log.Debug().Err(err).Msg("Session restore failed")
			_ = m.creds.Delete(m.server)
			m.setAnonymous()
			return
		}

		m.setAuthenticated(user)
		m.log.Debug().Str("user_id", cred.User.ID).Msg("Session restored")
	})

	return m.Current()
}

// Login authenticates against the backend. The credential is persisted
// before the in-memory state flips, so an Authenticated session always has
// a retrievable token behind it.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*client.User, error) {
	resp, err := m.api.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errors.New("login response missing token or user")
	}

	cred := auth.Credential{
		Token: resp.Token,
		User: auth.UserSnapshot{
			ID:    resp.User.ID,
			Name:  resp.User.Name,
			Email: resp.User.Email,
			Role:  resp.User.Role,
		},
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.creds.Save(m.server, cred); err != nil {
		return nil, err
	}

	m.setAuthenticated(resp.User)
	m.log.Info().Str("user_id", resp.User.ID).Str("role", resp.User.Role).Msg("Logged in")

	return resp.User, nil
}

// Logout ends the session. The backend call is attempted but its failure
// never blocks the local transition: state and credential are cleared
// unconditionally. Calling it while already anonymous is a no-op that still
// clears any residual credential.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	wasAuthenticated := m.user != nil
	m.mu.Unlock()

	if wasAuthenticated {
		if err := m.api.Logout(ctx); err != nil {
			m.log.Debug().Err(err).Msg("Backend logout failed, clearing local session anyway")
		}
	}

	err := m.creds.Delete(m.server)
	m.setAnonymous()
	return err
}

// Register creates a new account. It never transitions the session: on
// success the caller is directed to log in with the new credentials.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*client.User, error) {
	return m.api.Register(ctx, name, email, password)
}
