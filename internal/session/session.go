// Package session implements sign-in state for browser sessions: login,
// verification against the backend, logout, and persistence of the
// credential and profile snapshot.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/model"
)

// ErrNotAuthenticated is returned when a session has no verified sign-in.
var ErrNotAuthenticated = errors.New("not authenticated")

// State is the sign-in state of a session.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Authenticator is the subset of the backend the state machine needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*gateway.LoginResult, error)
	Logout(ctx context.Context, credential string) error
	Verify(ctx context.Context, credential string) (*model.User, error)
}

// GatewayAuthenticator adapts a gateway client, binding the credential per call.
type GatewayAuthenticator struct {
	Client *gateway.Client
}

// Login implements Authenticator.
func (g GatewayAuthenticator) Login(ctx context.Context, email, password string) (*gateway.LoginResult, error) {
	return g.Client.Login(ctx, email, password)
}

// Logout implements Authenticator.
func (g GatewayAuthenticator) Logout(ctx context.Context, credential string) error {
	return g.Client.WithCredential(gateway.StaticCredential(credential)).Logout(ctx)
}

// Verify implements Authenticator.
func (g GatewayAuthenticator) Verify(ctx context.Context, credential string) (*model.User, error) {
	return g.Client.WithCredential(gateway.StaticCredential(credential)).Verify(ctx)
}

// Manager drives the sign-in state of every session.
type Manager struct {
	storage Storage
	auth    Authenticator
	logger  *zap.Logger
}

// NewManager returns a Manager.
func NewManager(storage Storage, auth Authenticator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{storage: storage, auth: auth, logger: logger}
}

// Current returns the stored record without contacting the backend.
func (m *Manager) Current(ctx context.Context, id string) (Record, State, error) {
	rec, ok, err := m.storage.Load(ctx, id)
	if err != nil {
		return Record{}, LoggedOut, err
	}
	if !ok || !rec.Complete() {
		return Record{}, LoggedOut, nil
	}
	return rec, LoggedIn, nil
}

// Login exchanges credentials with the backend and stores the result. On
// failure nothing is stored and the gateway error is returned.
func (m *Manager) Login(ctx context.Context, id, email, password string) (*model.User, error) {
	res, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := res.User
	if err := m.storage.Save(ctx, id, Record{Credential: res.Token, Profile: &user}); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	m.logger.Info("user signed in", zap.String("session", id), zap.String("user", user.ID))
	return &user, nil
}

// Verify checks the stored credential with the backend. A rejected
// credential ends the session. A transport failure reports
// ErrNotAuthenticated but keeps storage intact.
func (m *Manager) Verify(ctx context.Context, id string) (Record, error) {
	rec, state, err := m.Current(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if state == LoggedOut {
		return Record{}, ErrNotAuthenticated
	}

	user, err := m.auth.Verify(ctx, rec.Credential)
	if err != nil {
		if gateway.IsTransport(err) {
			m.logger.Warn("session verification unavailable",
				zap.String("session", id), zap.Error(err))
			return Record{}, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
		}
		m.logger.Info("stored credential rejected", zap.String("session", id), zap.Error(err))
		if lerr := m.Logout(ctx, id); lerr != nil {
			return Record{}, lerr
		}
		return Record{}, ErrNotAuthenticated
	}

	rec.Profile = user
	if err := m.storage.Save(ctx, id, rec); err != nil {
		return Record{}, fmt.Errorf("storing session: %w", err)
	}
	return rec, nil
}

// Logout notifies the backend best-effort and always clears storage.
func (m *Manager) Logout(ctx context.Context, id string) error {
	rec, state, err := m.Current(ctx, id)
	if err != nil {
		m.logger.Warn("loading session for logout", zap.String("session", id), zap.Error(err))
	}
	if state == LoggedIn {
		if err := m.auth.Logout(ctx, rec.Credential); err != nil {
			m.logger.Warn("backend logout failed", zap.String("session", id), zap.Error(err))
		}
	}

	if err := m.storage.Clear(ctx, id); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// UpdateProfile replaces the stored profile snapshot, keeping the credential.
func (m *Manager) UpdateProfile(ctx context.Context, id string, user *model.User) error {
	rec, state, err := m.Current(ctx, id)
	if err != nil {
		return err
	}
	if state == LoggedOut {
		return ErrNotAuthenticated
	}
	rec.Profile = user
	return m.storage.Save(ctx, id, rec)
}
