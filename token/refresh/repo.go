package refresh

import (
	"time"
)

// StoredRefreshToken represents the server-side record behind a refresh credential.
// The client only ever holds a signed token carrying the Token value as its id;
// the record is what makes the credential usable, and is deleted when it is rotated.
type StoredRefreshToken struct {
	Token  string    // Random id, embedded in the signed credential
	UserID int       // Owner of the credential
	Iat    time.Time // Issued at time
}

// Repo manages server-side storage of refresh token records keyed by token id.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	DeleteByUserID(userID int) (int, error)
	Count() int
}
