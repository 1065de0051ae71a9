package token

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer seals the claims carried in the auth cookies and supplies the key
// jwt.Parse checks them with.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)
	Keyfunc(t *jwt.Token) (any, error)
	Alg() string
}

// HMACSigner signs cookies with the sandbox secret using HS256. Each token
// names the secret it was signed with in its "kid" header, so cookies left
// over from a sandbox run with another secret are refused before any
// signature check.
type HMACSigner struct {
	secret []byte
	keyID  string
}

func NewHMACSigner(secret string) (*HMACSigner, error) {
	if secret == "" {
		return nil, errors.New("[NewHMACSigner] secret is required")
	}
	sum := sha256.Sum256([]byte(secret))
	return &HMACSigner{
		secret: []byte(secret),
		keyID:  hex.EncodeToString(sum[:4]),
	}, nil
}

// KeyID is the "kid" header value of tokens from this signer.
func (h *HMACSigner) KeyID() string {
	return h.keyID
}

func (h *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = h.keyID
	raw, err := t.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "[HMACSigner.Sign]")
	}
	return raw, nil
}

func (h *HMACSigner) Keyfunc(t *jwt.Token) (any, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, errors.Errorf("[HMACSigner.Keyfunc] alg %v not accepted", t.Header["alg"])
	}
	if kid, _ := t.Header["kid"].(string); kid != h.keyID {
		return nil, errors.Errorf("[HMACSigner.Keyfunc] unknown key id %q", kid)
	}
	return h.secret, nil
}

func (h *HMACSigner) Alg() string {
	return jwt.SigningMethodHS256.Alg()
}
