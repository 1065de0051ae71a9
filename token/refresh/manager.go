package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
)

// Config is the part of the sandbox configuration the manager reads.
type Config interface {
	GetRefreshTokenLength() int
	GetRefreshTokenExpiry() time.Duration
}

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo    Repo
	config  Config
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc overrides the clock, for tests
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		config:  cfg,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create generates a new refresh token record for userID and stores it
func (m *Manager) Create(userID int) (*StoredRefreshToken, error) {
	length := m.config.GetRefreshTokenLength()
	if length <= 0 {
		length = 32
	}
	tokenBytes := make([]byte, length)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rt := &StoredRefreshToken{
		Token:  hex.EncodeToString(tokenBytes),
		UserID: userID,
		Iat:    m.nowFunc(),
	}
	if err := m.repo.Upsert(rt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rt, nil
}

// Rotate consumes the record for token and issues a replacement for the same user.
// A token can be rotated once; replaying it afterwards fails.
func (m *Manager) Rotate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if err := m.repo.Delete(token); err != nil {
		// Lost a race with a concurrent rotation of the same token
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if m.IsExpired(rt) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return m.Create(rt.UserID)
}

// Get retrieves a refresh token from storage
func (m *Manager) Get(token string) (*StoredRefreshToken, error) {
	return m.repo.Get(token)
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// RevokeUser removes every refresh token of userID, returning how many there were
func (m *Manager) RevokeUser(userID int) (int, error) {
	return m.repo.DeleteByUserID(userID)
}

// IsExpired checks if a refresh token has outlived the configured expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return m.nowFunc().Sub(rt.Iat) > m.config.GetRefreshTokenExpiry()
}

// ExpiresAt is when rt stops being accepted
func (m *Manager) ExpiresAt(rt *StoredRefreshToken) time.Time {
	return rt.Iat.Add(m.config.GetRefreshTokenExpiry())
}
