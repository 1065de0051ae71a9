package token_test

import (
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/internal/config"
	"github.com/jrsteele09/go-social-client/token"
	"github.com/jrsteele09/go-social-client/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-social-client/token/refresh/repofake"
	"github.com/jrsteele09/go-social-client/users"
	fakeuserrepo "github.com/jrsteele09/go-social-client/users/repofake"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	now     time.Time
	repo    refresh.Repo
	users   users.UserRepo
	manager *token.Manager
	alice   *users.User
}

func (f *testFixture) clock() time.Time {
	return f.now
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		now:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		repo:  refreshrepofake.NewFakeRefreshTokenRepo(),
		users: fakeuserrepo.NewFakeUserRepo(),
	}
	f.alice = &users.User{Username: "alice"}
	require.NoError(t, f.users.Create(f.alice))

	signer, err := token.NewHMACSigner("test-secret")
	require.NoError(t, err)
	refreshManager := refresh.NewManager(f.repo, config.New(), refresh.WithNowFunc(f.clock))
	f.manager, err = token.New(refreshManager, f.users, signer,
		token.WithAccessTokenExpiry(5*time.Minute),
		token.WithNowFunc(f.clock),
	)
	require.NoError(t, err)
	return f
}

func TestNewValidation(t *testing.T) {
	signer, err := token.NewHMACSigner("s")
	require.NoError(t, err)
	refreshManager := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), config.New())

	_, err = token.New(nil, fakeuserrepo.NewFakeUserRepo(), signer)
	require.Error(t, err)
	_, err = token.New(refreshManager, nil, signer)
	require.Error(t, err)
	_, err = token.New(refreshManager, fakeuserrepo.NewFakeUserRepo(), nil)
	require.Error(t, err)

	_, err = token.NewHMACSigner("")
	require.Error(t, err)
}

func TestIssueAndAuthenticate(t *testing.T) {
	f := setupTestFixture(t)

	pair, err := f.manager.Issue(f.alice)
	require.NoError(t, err)
	require.Equal(t, f.now.Add(5*time.Minute), pair.AccessExpiry)
	require.Equal(t, f.now.Add(24*time.Hour), pair.RefreshExpiry)
	require.Equal(t, 1, f.repo.Count())

	user, claims, err := f.manager.Authenticate(pair.Access)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, token.TypeAccess, claims.Type)
	require.NotEmpty(t, claims.ID)

	t.Run("refresh credential is not an access credential", func(t *testing.T) {
		_, _, err := f.manager.Authenticate(pair.Refresh)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		_, _, err := f.manager.Authenticate(pair.Access + "x")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("other signer", func(t *testing.T) {
		signer, err := token.NewHMACSigner("other-secret")
		require.NoError(t, err)
		other, err := token.New(refresh.NewManager(f.repo, config.New()), f.users, signer, token.WithNowFunc(f.clock))
		require.NoError(t, err)
		_, _, err = other.Authenticate(pair.Access)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		f.now = f.now.Add(6 * time.Minute)
		defer func() { f.now = f.now.Add(-6 * time.Minute) }()
		_, _, err := f.manager.Authenticate(pair.Access)
		require.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestRotate(t *testing.T) {
	f := setupTestFixture(t)
	pair, err := f.manager.Issue(f.alice)
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	user, rotated, err := f.manager.Rotate(pair.Refresh)
	require.NoError(t, err)
	require.Equal(t, f.alice.ID, user.ID)
	require.NotEqual(t, pair.Refresh, rotated.Refresh)
	require.Equal(t, f.now.Add(24*time.Hour), rotated.RefreshExpiry)
	require.Equal(t, 1, f.repo.Count(), "the presented record is consumed")

	_, _, err = f.manager.Rotate(pair.Refresh)
	require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	_, _, err = f.manager.Rotate(rotated.Access)
	require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	f.now = f.now.Add(25 * time.Hour)
	_, _, err = f.manager.Rotate(rotated.Refresh)
	require.ErrorIs(t, err, apperrors.ErrRefreshTokenExpired)
}

func TestRevoke(t *testing.T) {
	f := setupTestFixture(t)
	pair, err := f.manager.Issue(f.alice)
	require.NoError(t, err)
	other, err := f.manager.Issue(f.alice)
	require.NoError(t, err)

	f.manager.Revoke(pair.Access, pair.Refresh)

	_, _, err = f.manager.Authenticate(pair.Access)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, _, err = f.manager.Rotate(pair.Refresh)
	require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	_, _, err = f.manager.Authenticate(other.Access)
	require.NoError(t, err, "other sessions are unaffected")

	f.manager.Revoke("", "")
	f.manager.Revoke("garbage", "garbage")

	require.NoError(t, f.manager.RevokeUser(f.alice.ID))
	require.Zero(t, f.repo.Count())
	_, _, err = f.manager.Rotate(other.Refresh)
	require.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestDenylistPrune(t *testing.T) {
	d := token.NewMemoryDenylist()
	now := time.Now()
	d.Deny("a", now.Add(time.Minute))
	d.Deny("b", now.Add(time.Hour))
	d.Deny("", now.Add(time.Hour))

	require.Equal(t, 1, d.Prune(now.Add(2*time.Minute)))
	require.False(t, d.Denied("a"))
	require.True(t, d.Denied("b"))
}
