package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/bus"
	"go.uber.org/zap"
)

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrNotAdmin         = errors.New("this action needs an ADMIN account")
)

// TokenStore persists the access token between runs.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	ClearToken() error
}

// AuthClient is the part of the backend client the session drives.
type AuthClient interface {
	Login(ctx context.Context, in api.LoginInput) (*api.LoginResult, error)
	Account(ctx context.Context) (*api.Account, error)
	Logout(ctx context.Context) error
}

// Manager owns the authenticated session of one profile. It installs the token
// on the shared credentials so every API request is authorized.
type Manager struct {
	mu      sync.RWMutex
	current State
	account *api.Account

	client AuthClient
	tokens TokenStore
	creds  *api.Credentials
	bus    *bus.Bus
	logger *zap.Logger
}

// New creates a manager in the ANONYMOUS state.
func New(client AuthClient, tokens TokenStore, creds *api.Credentials, b *bus.Bus, logger *zap.Logger) *Manager {
	if creds == nil {
		creds = &api.Credentials{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		current: Anonymous,
		client:  client,
		tokens:  tokens,
		creds:   creds,
		bus:     b,
		logger:  logger,
	}
}

// Current returns the current state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Account returns a copy of the signed-in account, or nil.
func (m *Manager) Account() *api.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.account == nil {
		return nil
	}
	acc := *m.account
	return &acc
}

// IsAdmin reports whether the signed-in account has the ADMIN role.
func (m *Manager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current == Authenticated && m.account != nil && m.account.Role == api.RoleAdmin
}

// RequireAdmin returns nil only for an authenticated ADMIN.
func (m *Manager) RequireAdmin() error {
	switch {
	case m.Current() != Authenticated:
		return ErrNotAuthenticated
	case !m.IsAdmin():
		return ErrNotAdmin
	}
	return nil
}

// Subscribe returns session.changed events.
func (m *Manager) Subscribe(bufSize int) (<-chan bus.Event, func()) {
	return m.bus.Subscribe("session.", bufSize)
}

// Restore revalidates the stored token against the backend. Without a stored
// token it is a no-op. A rejected token is forgotten; any other failure keeps
// it for the next attempt and leaves the session ANONYMOUS.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.tokens.LoadToken()
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil
	}

	m.mu.Lock()
	if err := m.transitionLocked(Restoring); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.creds.Set(token)
	acc, err := m.client.Account(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.creds.Clear()
		if api.IsUnauthorized(err) {
			m.logger.Info("stored token rejected, clearing")
			if cerr := m.tokens.ClearToken(); cerr != nil {
				m.logger.Warn("failed to clear token", zap.Error(cerr))
			}
		} else {
			m.logger.Warn("session restore failed", zap.Error(err))
		}
		_ = m.transitionLocked(Anonymous)
		return fmt.Errorf("restore session: %w", err)
	}
	m.account = acc
	m.logger.Info("session restored", zap.String("email", acc.Email), zap.String("role", acc.Role))
	return m.transitionLocked(Authenticated)
}

// Login exchanges credentials for a token, persists it and switches to
// AUTHENTICATED. An existing session is replaced.
func (m *Manager) Login(ctx context.Context, username, password string) (*api.Account, error) {
	res, err := m.client.Login(ctx, api.LoginInput{Username: username, Password: password})
	if err != nil {
		m.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if err := m.tokens.SaveToken(res.AccessToken); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	m.creds.Set(res.AccessToken)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == Authenticated {
		_ = m.transitionLocked(Anonymous)
	}
	acc := res.User
	m.account = &acc
	if err := m.transitionLocked(Authenticated); err != nil {
		return nil, err
	}
	m.logger.Info("logged in", zap.String("email", acc.Email), zap.String("role", acc.Role))
	return &acc, nil
}

// Logout tells the backend to drop the token, then forgets it locally. The
// local teardown happens even when the remote call or the token store fails;
// those errors are returned for reporting only.
func (m *Manager) Logout(ctx context.Context) error {
	var remoteErr error
	if m.creds.Token() != "" {
		remoteErr = m.client.Logout(ctx)
		if remoteErr != nil {
			m.logger.Warn("remote logout failed", zap.Error(remoteErr))
		}
	}
	m.creds.Clear()
	var storeErr error
	if err := m.tokens.ClearToken(); err != nil {
		m.logger.Error("failed to forget stored token", zap.Error(err))
		storeErr = fmt.Errorf("clear token: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = nil
	if m.current != Anonymous {
		_ = m.transitionLocked(Anonymous)
	}
	m.logger.Info("logged out")
	return errors.Join(storeErr, remoteErr)
}

func (m *Manager) transitionLocked(to State) error {
	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.SessionChanged, Change{From: from, To: to})
	return nil
}
