package server

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/users"
)

const (
	msgBlank            = "This field may not be blank."
	msgRequired         = "This field is required."
	msgBadCredentials   = "Unable to log in with provided credentials."
	msgUsernameTaken    = "A user with that username already exists."
	msgPasswordMismatch = "The two password fields didn't match."
)

// UserHandler returns the signed-in user. This is the session probe.
func (s *Server) UserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.renderUser(viewer(r)))
	}
}

// UserUpdateHandler changes the signed-in user's username
func (s *Server) UserUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		user := viewer(r)
		if r.Method == http.MethodPatch && !f.has("username") {
			writeJSON(w, http.StatusOK, s.renderUser(user))
			return
		}

		username := strings.TrimSpace(f.get("username"))
		if username == "" {
			writeFieldErrors(w, fieldErrors{"username": {msgBlank}})
			return
		}
		user.Username = username
		if err := s.users.Update(user); err != nil {
			if apperrors.Is(err, apperrors.ErrUsernameTaken) {
				writeFieldErrors(w, fieldErrors{"username": {msgUsernameTaken}})
				return
			}
			s.writeStoreError(w, err)
			return
		}
		s.content.RenameOwner(user.ID, user.Username)
		writeJSON(w, http.StatusOK, s.renderUser(user))
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}

		errs := fieldErrors{}
		username, password := strings.TrimSpace(f.get("username")), f.get("password")
		if username == "" {
			errs.add("username", msgBlank)
		}
		if password == "" {
			errs.add("password", msgBlank)
		}
		if len(errs) > 0 {
			writeFieldErrors(w, errs)
			return
		}

		user, err := users.Authenticate(s.users, username, password)
		if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			s.log.Info().Str("username", username).Msg("login rejected")
			writeFieldErrors(w, fieldErrors{"non_field_errors": {msgBadCredentials}})
			return
		}
		if err != nil {
			s.writeStoreError(w, err)
			return
		}

		user.LastLogin = s.now()
		if err := s.users.Update(user); err != nil {
			s.writeStoreError(w, err)
			return
		}
		pair, err := s.tokens.Issue(user)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.setAuthCookies(w, r, pair)
		s.log.Info().Int("user", user.ID).Msg("logged in")

		writeJSON(w, http.StatusOK, map[string]any{
			"access":             "",
			"refresh":            "",
			"access_expiration":  pair.AccessExpiry.UTC().Format(time.RFC3339),
			"refresh_expiration": pair.RefreshExpiry.UTC().Format(time.RFC3339),
			"user":               s.renderUser(user),
		})
	}
}

// LogoutHandler revokes whatever credentials the request carries and clears the cookies.
// It succeeds for anonymous callers too.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.tokens.Revoke(cookieValue(r, accessCookieName), cookieValue(r, refreshCookieName))
		clearAuthCookies(w)
		writeDetail(w, http.StatusOK, "Successfully logged out.")
	}
}

func (s *Server) RegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}

		errs := fieldErrors{}
		username := strings.TrimSpace(f.get("username"))
		password1, password2 := f.get("password1"), f.get("password2")
		if username == "" {
			errs.add("username", msgBlank)
		} else if _, err := s.users.GetByUsername(username); err == nil {
			errs.add("username", msgUsernameTaken)
		}
		if password1 == "" {
			errs.add("password1", msgBlank)
		}
		if password2 == "" {
			errs.add("password2", msgBlank)
		}
		if password1 != "" && password2 != "" {
			if password1 != password2 {
				errs.add("non_field_errors", msgPasswordMismatch)
			} else if err := users.ValidatePasswordStrength(password1, username); err != nil {
				errs.add("password1", err.Error())
			}
		}
		if len(errs) > 0 {
			writeFieldErrors(w, errs)
			return
		}

		user := &users.User{
			Username:   username,
			Email:      strings.TrimSpace(f.get("email")),
			DateJoined: s.now(),
		}
		if err := user.SetPassword(password1); err != nil {
			s.writeStoreError(w, err)
			return
		}
		if err := s.users.Create(user); err != nil {
			if apperrors.Is(err, apperrors.ErrUsernameTaken) {
				writeFieldErrors(w, fieldErrors{"username": {msgUsernameTaken}})
				return
			}
			s.writeStoreError(w, err)
			return
		}
		s.content.CreateProfile(user.ID, user.Username)
		s.log.Info().Int("user", user.ID).Str("username", user.Username).Msg("registered")

		writeJSON(w, http.StatusCreated, map[string]any{
			"detail": "Registration successful.",
			"user":   s.renderUser(user),
		})
	}
}

// TokenRefreshHandler rotates the refresh cookie and issues a new access cookie
func (s *Server) TokenRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := cookieValue(r, refreshCookieName)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "No valid refresh token found.",
				"code":   "token_not_valid",
			})
			return
		}

		user, pair, err := s.tokens.Rotate(raw)
		if err != nil {
			s.log.Info().Err(err).Msg("refresh rejected")
			clearAuthCookies(w)
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Token is invalid or expired",
				"code":   "token_not_valid",
			})
			return
		}
		s.setAuthCookies(w, r, pair)
		s.log.Debug().Int("user", user.ID).Msg("credentials rotated")

		writeJSON(w, http.StatusOK, map[string]any{
			"access":            "",
			"access_expiration": pair.AccessExpiry.UTC().Format(time.RFC3339),
		})
	}
}

// ChangePasswordHandler sets a new password. Other sessions of the user lose
// their refresh credentials; the caller gets fresh ones.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.parseForm(w, r)
		if !ok {
			return
		}
		user := viewer(r)

		errs := fieldErrors{}
		password1, password2 := f.get("new_password1"), f.get("new_password2")
		if password1 == "" {
			errs.add("new_password1", msgRequired)
		}
		if password2 == "" {
			errs.add("new_password2", msgRequired)
		}
		if password1 != "" && password2 != "" {
			if password1 != password2 {
				errs.add("new_password2", msgPasswordMismatch)
			} else if err := users.ValidatePasswordStrength(password1, user.Username); err != nil {
				errs.add("new_password2", err.Error())
			}
		}
		if len(errs) > 0 {
			writeFieldErrors(w, errs)
			return
		}

		if err := user.SetPassword(password1); err != nil {
			s.writeStoreError(w, err)
			return
		}
		if err := s.users.Update(user); err != nil {
			s.writeStoreError(w, err)
			return
		}
		if err := s.tokens.RevokeUser(user.ID); err != nil {
			s.writeStoreError(w, err)
			return
		}
		pair, err := s.tokens.Issue(user)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.setAuthCookies(w, r, pair)
		writeDetail(w, http.StatusOK, "New password has been saved.")
	}
}
