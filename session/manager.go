package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-client/api"
	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/internal/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Manager runs the auth flows and is the only writer of its Store.
type Manager struct {
	client    *api.Client
	store     *Store
	endpoints Endpoints

	refreshInterval time.Duration // a refresh younger than this satisfies the request hook
	nowFunc         func() time.Time
	log             zerolog.Logger
	metrics         *metrics.Client

	group       singleflight.Group
	mu          sync.Mutex
	lastRefresh time.Time
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

func WithEndpoints(e Endpoints) ManagerOption {
	return func(m *Manager) {
		m.endpoints = e
	}
}

// WithRefreshInterval lets a recent refresh stand in for the pre-request refresh.
// Zero (the default) refreshes before every request.
func WithRefreshInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshInterval = d
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

func WithMetrics(mc *metrics.Client) ManagerOption {
	return func(m *Manager) {
		m.metrics = mc
	}
}

// NewManager creates a Manager writing to store and talking through client.
func NewManager(client *api.Client, store *Store, options ...ManagerOption) (*Manager, error) {
	if client == nil {
		return nil, errors.New("[NewManager] client is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}

	m := &Manager{
		client:    client,
		store:     store,
		endpoints: DefaultEndpoints(),
		nowFunc:   time.Now,
		log:       log.Logger,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// View returns the read-only projection of the session.
func (m *Manager) View() View {
	return m.store
}

// Probe asks the server who the current credential belongs to. On success the
// session is set; on any failure the client stays anonymous. A 401 gets one
// silent refresh and a second probe, so a saved refresh cookie survives an
// expired access cookie.
func (m *Manager) Probe(ctx context.Context) (Session, bool) {
	s, err := m.restore(ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("session probe failed, staying anonymous")
		return Session{}, false
	}
	return s, true
}

// Require returns the held session, probing the server when there is none.
// Saved credentials that the server rejects give apperrors.ErrSessionExpired;
// having none gives apperrors.ErrNotAuthenticated. Other failures, such as an
// unreachable server, are returned wrapped.
func (m *Manager) Require(ctx context.Context) (Session, error) {
	if s, ok := m.store.Current(); ok {
		return s, nil
	}
	presented := m.holdsCredentials()
	s, err := m.restore(ctx)
	switch {
	case err == nil:
		return s, nil
	case api.IsUnauthorized(err) && presented:
		return Session{}, errors.Wrap(apperrors.ErrSessionExpired, "[Manager.Require]")
	case api.IsUnauthorized(err):
		return Session{}, errors.Wrap(apperrors.ErrNotAuthenticated, "[Manager.Require]")
	default:
		return Session{}, errors.Wrap(err, "[Manager.Require]")
	}
}

func (m *Manager) restore(ctx context.Context) (Session, error) {
	user, err := m.fetchUser(ctx)
	if api.IsUnauthorized(err) {
		if refreshErr := m.Refresh(ctx); refreshErr == nil {
			user, err = m.fetchUser(ctx)
		}
	}
	if err != nil {
		return Session{}, err
	}

	m.markRefreshed()
	m.store.set(user, "probe")
	s, _ := m.store.Current()
	return s, nil
}

// holdsCredentials reports whether the jar has any cookie for the API.
func (m *Manager) holdsCredentials() bool {
	jar := m.client.Jar()
	if jar == nil {
		return false
	}
	u, err := url.Parse(m.client.URL(m.endpoints.User))
	if err != nil {
		return false
	}
	return len(jar.Cookies(u)) > 0
}

func (m *Manager) fetchUser(ctx context.Context) (Session, error) {
	var user Session
	if err := m.client.Get(api.WithoutHooks(ctx), m.endpoints.User, nil, &user); err != nil {
		return Session{}, err
	}
	return user, nil
}

// Login posts the credentials. Validation failures come back as an error for
// which api.ValidationErrors returns the field messages; the session is left unset.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	var resp loginResponse
	err := m.client.Post(ctx, m.endpoints.Login, loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		m.log.Debug().Err(err).Str("username", username).Msg("login rejected")
		return Session{}, errors.Wrap(err, "[Manager.Login]")
	}

	m.markRefreshed()
	m.store.set(resp.User, "login")
	s, _ := m.store.Current()
	return s, nil
}

// Logout calls the logout endpoint and then clears the session whatever the outcome.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Post(ctx, m.endpoints.Logout, nil, nil); err != nil {
		m.log.Warn().Err(err).Msg("logout endpoint failed, clearing session anyway")
	}
	m.store.clearIf(nil, "logout")

	m.mu.Lock()
	m.lastRefresh = time.Time{}
	m.mu.Unlock()
}

// Register creates the account and signs in with the same credentials.
// The error of whichever step failed is returned.
func (m *Manager) Register(ctx context.Context, username, password, passwordConfirm string) (Session, error) {
	err := m.client.Post(ctx, m.endpoints.Registration, registrationRequest{
		Username:  username,
		Password1: password,
		Password2: passwordConfirm,
	}, nil)
	if err != nil {
		m.log.Debug().Err(err).Str("username", username).Msg("registration rejected")
		return Session{}, errors.Wrap(err, "[Manager.Register]")
	}
	return m.Login(ctx, username, password)
}

// Refresh renews the credential, bypassing the hooks. Concurrent callers share
// one request. The shared request is detached from ctx and bounded by the
// client timeout, so a caller that gives up returns ctx's error while the
// renewal still completes for everyone else.
func (m *Manager) Refresh(ctx context.Context) error {
	ch := m.group.DoChan("refresh", func() (any, error) {
		if err := m.client.Post(api.WithoutHooks(context.WithoutCancel(ctx)), m.endpoints.Refresh, nil, nil); err != nil {
			return nil, err
		}
		m.markRefreshed()
		return nil, nil
	})

	var err error
	select {
	case res := <-ch:
		err = res.Err
	case <-ctx.Done():
		m.log.Debug().Err(ctx.Err()).Msg("caller left before the credential refresh finished")
		return errors.Wrap(ctx.Err(), "[Manager.Refresh]")
	}
	m.metrics.Refresh(err)
	if err != nil {
		m.log.Debug().Err(err).Msg("credential refresh failed")
		return errors.Wrap(err, "[Manager.Refresh]")
	}
	return nil
}

// RefreshDue reports whether the pre-request hook should refresh now.
func (m *Manager) RefreshDue() bool {
	if m.refreshInterval <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRefresh.IsZero() || m.nowFunc().Sub(m.lastRefresh) >= m.refreshInterval
}

func (m *Manager) markRefreshed() {
	m.mu.Lock()
	m.lastRefresh = m.nowFunc()
	m.mu.Unlock()
}

// clearerFor returns the session-clearing func for one identity. It does
// nothing once a different user has signed in.
func (m *Manager) clearerFor(userID int) ClearFunc {
	return func(reason string) {
		m.store.clearIf(func(s Session) bool { return s.UserID == userID }, reason)
	}
}
