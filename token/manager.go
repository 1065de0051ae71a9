package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/token/refresh"
	"github.com/jrsteele09/go-social-client/users"
	"github.com/pkg/errors"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is what the sandbox reads back out of a verified credential.
type Claims struct {
	ID        string // jti
	UserID    int
	Type      string
	ExpiresAt time.Time
}

// Pair is a freshly issued access and refresh credential.
type Pair struct {
	Access        string
	AccessExpiry  time.Time
	Refresh       string
	RefreshExpiry time.Time
}

type Manager struct {
	signer            Signer
	refresh           *refresh.Manager
	userRepo          users.UserRepo // Repository for user data
	denylist          Denylist       // Logged-out access credentials
	issuer            string
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithDenylist(d Denylist) ManagerOption {
	return func(m *Manager) {
		m.denylist = d
	}
}

func New(refreshManager *refresh.Manager, userRepo users.UserRepo, signer Signer, options ...ManagerOption) (*Manager, error) {
	if refreshManager == nil {
		return nil, errors.New("[token.New] refresh manager is required")
	}
	if userRepo == nil {
		return nil, errors.New("[token.New] user repo is required")
	}
	if signer == nil {
		return nil, errors.New("[token.New] signer is required")
	}

	m := &Manager{
		signer:       signer,
		refresh:      refreshManager,
		userRepo:     userRepo,
		denylist:     NewMemoryDenylist(),
		issuer:       "social-sandbox",
	}
	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 5 * time.Minute
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m, nil
}

// Issue creates a new access credential and a new refresh record for user.
func (c *Manager) Issue(user *users.User) (Pair, error) {
	rt, err := c.refresh.Create(user.ID)
	if err != nil {
		return Pair{}, errors.Wrap(err, "[Manager.Issue] create refresh record")
	}
	return c.pairFor(user, rt)
}

func (c *Manager) pairFor(user *users.User, rt *refresh.StoredRefreshToken) (Pair, error) {
	access, accessExpiry, err := c.CreateAccessToken(user)
	if err != nil {
		return Pair{}, err
	}

	refreshExpiry := c.refresh.ExpiresAt(rt)
	refreshToken, err := c.sign(jwt.MapClaims{
		"iss":        c.issuer,
		"sub":        strconv.Itoa(user.ID),
		"iat":        c.nowFunc().Unix(),
		"exp":        refreshExpiry.Unix(),
		"jti":        rt.Token, // Server-side record id
		"token_type": TypeRefresh,
	})
	if err != nil {
		return Pair{}, errors.Wrap(err, "[Manager.Issue] sign refresh token")
	}

	return Pair{
		Access:        access,
		AccessExpiry:  accessExpiry,
		Refresh:       refreshToken,
		RefreshExpiry: refreshExpiry,
	}, nil
}

func (c *Manager) CreateAccessToken(user *users.User) (string, time.Time, error) {
	now := c.nowFunc()
	exp := now.Add(c.accessTokenExpiry)
	claims := jwt.MapClaims{
		"iss":        c.issuer,                // The issuer of the token
		"sub":        strconv.Itoa(user.ID),   // The user the token was issued to
		"iat":        now.Unix(),              // Issued At: the time at which the token was issued
		"exp":        exp.Unix(),              // Expiry: when the token will expire
		"jti":        uuid.New().String(),     // Unique token ID for revocation
		"token_type": TypeAccess,              // Keeps refresh tokens out of the access cookie
		"username":   user.Username,
	}
	signed, err := c.sign(claims)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Manager.CreateAccessToken]")
	}
	return signed, exp, nil
}

// Authenticate verifies an access credential and loads its user.
func (c *Manager) Authenticate(raw string) (*users.User, *Claims, error) {
	claims, err := c.Parse(raw, TypeAccess)
	if err != nil {
		return nil, nil, err
	}
	if c.denylist.Denied(claims.ID) {
		return nil, nil, apperrors.ErrInvalidToken
	}
	user, err := c.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}
	return user, claims, nil
}

// Rotate exchanges a refresh credential for a new pair. The presented
// credential's record is consumed, so it cannot be used twice.
func (c *Manager) Rotate(raw string) (*users.User, Pair, error) {
	claims, err := c.Parse(raw, TypeRefresh)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil, Pair{}, apperrors.ErrRefreshTokenExpired
		}
		return nil, Pair{}, apperrors.ErrInvalidRefreshToken
	}

	rt, err := c.refresh.Rotate(claims.ID)
	if err != nil {
		return nil, Pair{}, err
	}
	user, err := c.userRepo.GetByID(rt.UserID)
	if err != nil {
		_ = c.refresh.Delete(rt.Token)
		return nil, Pair{}, apperrors.ErrInvalidRefreshToken
	}

	pair, err := c.pairFor(user, rt)
	if err != nil {
		return nil, Pair{}, err
	}
	return user, pair, nil
}

// Revoke invalidates whichever of the two credentials parse. Either may be empty.
func (c *Manager) Revoke(rawAccess, rawRefresh string) {
	if claims, err := c.Parse(rawAccess, TypeAccess); err == nil {
		c.denylist.Deny(claims.ID, claims.ExpiresAt)
	}
	if claims, err := c.Parse(rawRefresh, TypeRefresh); err == nil {
		_ = c.refresh.Delete(claims.ID)
	}
	c.denylist.Prune(c.nowFunc())
}

// RevokeUser drops every refresh record of userID.
func (c *Manager) RevokeUser(userID int) error {
	_, err := c.refresh.RevokeUser(userID)
	return err
}

// Parse verifies raw and checks it is a credential of tokenType.
func (c *Manager) Parse(raw, tokenType string) (*Claims, error) {
	if raw == "" {
		return nil, apperrors.ErrInvalidToken
	}

	token, err := jwt.Parse(raw, c.signer.Keyfunc,
		jwt.WithValidMethods([]string{c.signer.Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if t, _ := mapClaims["token_type"].(string); t != tokenType {
		return nil, apperrors.ErrInvalidToken
	}

	sub, err := mapClaims.GetSubject()
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, apperrors.ErrInvalidToken
	}
	jti, _ := mapClaims["jti"].(string)

	return &Claims{
		ID:        jti,
		UserID:    userID,
		Type:      tokenType,
		ExpiresAt: exp.Time,
	}, nil
}

func (c *Manager) sign(claims jwt.MapClaims) (string, error) {
	return c.signer.Sign(claims)
}
