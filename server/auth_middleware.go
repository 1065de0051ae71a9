package server

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-social-client/internal/errors"
	"github.com/jrsteele09/go-social-client/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUser stores the authenticated user
const ContextKeyUser ContextKey = "user"

const (
	detailNotProvided   = "Authentication credentials were not provided."
	detailTokenNotValid = "Given token not valid for any token type"
)

// Authenticate resolves the access cookie, if present. Requests without one
// pass through anonymously; a cookie that is present but expired or invalid is
// rejected with 401 even on public routes, which is what prompts clients to
// refresh.
func (s *Server) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := cookieValue(r, accessCookieName)
		if raw == "" {
			next(w, r)
			return
		}

		user, _, err := s.tokens.Authenticate(raw)
		if err != nil {
			s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("access credential rejected")
			writeJSONError(w, detailTokenNotValid, http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user)))
	}
}

// RequireAuth rejects anonymous requests
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return s.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		if viewer(r) == nil {
			writeJSONError(w, detailNotProvided, http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

// viewer is the authenticated user of r, or nil
func viewer(r *http.Request) *users.User {
	u, _ := r.Context().Value(ContextKeyUser).(*users.User)
	return u
}

func viewerID(r *http.Request) int {
	if u := viewer(r); u != nil {
		return u.ID
	}
	return 0
}

// statusFor maps store errors onto HTTP status codes and DRF style details
func statusFor(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound), apperrors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, "Not found."
	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, "possible duplicate"
	default:
		return http.StatusInternalServerError, "A server error occurred."
	}
}
