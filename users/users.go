package users

import (
	"time"
	"unicode"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           int       `json:"pk"`                   // Unique identifier, also the id of the user's profile
	Username     string    `json:"username"`             // Unique username
	Email        string    `json:"email"`                // Optional email address
	PasswordHash string    `json:"-"`                    // Hashed version of the user's password - never serialize
	FirstName    string    `json:"first_name"`           // First name of the user
	LastName     string    `json:"last_name"`            // Last name of the user
	DateJoined   time.Time `json:"date_joined"`          // Date and time when the user registered
	LastLogin    time.Time `json:"last_login,omitempty"` // Last time the user logged in
}

// weakPassword carries the message shown to the user and matches
// apperrors.ErrWeakPassword.
type weakPassword string

func (w weakPassword) Error() string { return string(w) }

func (w weakPassword) Is(target error) bool { return target == apperrors.ErrWeakPassword }

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains letters
// - Contains at least one number
// - Is not the username
//
// A failure matches apperrors.ErrWeakPassword and its text is fit for display.
func ValidatePasswordStrength(password, username string) error {
	if len(password) < 8 {
		return weakPassword("This password is too short. It must contain at least 8 characters.")
	}
	if password == username {
		return weakPassword("The password is too similar to the username.")
	}

	var (
		hasLetter bool
		hasNumber bool
	)
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasLetter {
		return weakPassword("This password is entirely numeric.")
	}
	if !hasNumber {
		return weakPassword("This password must contain at least one number.")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

// Authenticate looks username up in repo and checks password. An unknown user
// and a wrong password both give apperrors.ErrInvalidCredentials.
func Authenticate(repo UserRepo, username, password string) (*User, error) {
	user, err := repo.GetByUsername(username)
	if apperrors.Is(err, apperrors.ErrUserNotFound) {
		return nil, errors.Wrapf(apperrors.ErrInvalidCredentials, "[Authenticate] %s", username)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Authenticate]")
	}
	if !user.CheckPassword(password) {
		return nil, errors.Wrapf(apperrors.ErrInvalidCredentials, "[Authenticate] %s", username)
	}
	return user, nil
}

// SetPassword hashes password and stores the hash on the user
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}
